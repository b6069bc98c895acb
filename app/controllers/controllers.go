// Package controllers contains the HTTP handlers. Each controller wraps a
// service and translates between the JSON boundary and the service calls;
// service sentinel errors map onto HTTP status codes here and nowhere else.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/inbox/app/services"
	"github.com/shashiranjanraj/inbox/pkg/auth"
	"github.com/shashiranjanraj/inbox/pkg/ctx"
	"github.com/shashiranjanraj/inbox/pkg/logger"
)

// identity returns the authenticated claims, or writes a 401 and returns
// nil. Handlers behind the auth middleware always get non-nil claims; the
// check guards against misregistered routes.
func identity(c *ctx.Context) *auth.Claims {
	claims := auth.IdentityFromCtx(c.Context())
	if claims == nil {
		c.Unauthorized()
		return nil
	}
	return claims
}

// fail maps a service error onto the HTTP response. Internal errors are
// logged with detail and surfaced as a bare 500.
func fail(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		c.Error(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden()
	case errors.Is(err, services.ErrNotFound):
		c.NotFound()
	case errors.Is(err, services.ErrCapacityExceeded):
		c.Conflict("No units available for the requested dates")
	default:
		logger.WithCtx(c.Context()).Error("request failed", "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}
