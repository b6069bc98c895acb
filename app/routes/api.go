// Package routes registers the HTTP API.
package routes

import (
	"github.com/shashiranjanraj/inbox/app/controllers"
	"github.com/shashiranjanraj/inbox/pkg/auth"
	"github.com/shashiranjanraj/inbox/pkg/ctx"
	"github.com/shashiranjanraj/inbox/pkg/middleware"
	"github.com/shashiranjanraj/inbox/pkg/router"
	"github.com/shashiranjanraj/inbox/pkg/ws"
)

// Controllers bundles the wired controllers for route registration.
type Controllers struct {
	Auth          *controllers.AuthController
	Groups        *controllers.GroupController
	Products      *controllers.ProductController
	Reservations  *controllers.ReservationController
	Notifications *controllers.NotificationController
}

// RegisterAPI mounts every API route. hub carries notification pushes to
// connected clients.
func RegisterAPI(r *router.Router, c Controllers, hub *ws.Hub) {
	api := r.Group("/api")

	// Public routes.
	api.Post("/register", "auth.register", ctx.Wrap(c.Auth.Register))
	api.Post("/login", "auth.login", ctx.Wrap(c.Auth.Login))

	// Everything else requires a valid token.
	protected := api.Group("", middleware.Auth)

	protected.Post("/logout", "auth.logout", ctx.Wrap(c.Auth.Logout))

	protected.Get("/profile", "profile.show", ctx.Wrap(c.Auth.Profile))
	protected.Put("/profile", "profile.update", ctx.Wrap(c.Auth.UpdateProfile))
	protected.Post("/profile/photo", "profile.photo", ctx.Wrap(c.Auth.UploadPhoto))

	protected.Get("/groups", "groups.index", ctx.Wrap(c.Groups.List))
	protected.Post("/groups", "groups.store", ctx.Wrap(c.Groups.Create))
	protected.Get("/groups/{id}", "groups.show", ctx.Wrap(c.Groups.Show))
	protected.Get("/groups/{id}/members", "groups.members", ctx.Wrap(c.Groups.Members))
	protected.Post("/groups/{id}/invites", "groups.invite", ctx.Wrap(c.Groups.Invite))
	protected.Post("/groups/{id}/photo", "groups.photo", ctx.Wrap(c.Groups.UploadPhoto))
	protected.Post("/invites/{notificationID}/accept", "invites.accept", ctx.Wrap(c.Groups.AcceptInvite))

	protected.Get("/groups/{id}/products", "products.index", ctx.Wrap(c.Products.List))
	protected.Post("/groups/{id}/products", "products.store", ctx.Wrap(c.Products.Create))

	protected.Post("/products/{id}/reservations", "reservations.store", ctx.Wrap(c.Reservations.Create))
	protected.Get("/products/{id}/availability", "products.availability", ctx.Wrap(c.Reservations.Availability))

	protected.Get("/reservations", "reservations.index", ctx.Wrap(c.Reservations.List))
	protected.Post("/reservations/{id}/approve", "reservations.approve", ctx.Wrap(c.Reservations.Approve))
	protected.Post("/reservations/{id}/reject", "reservations.reject", ctx.Wrap(c.Reservations.Reject))
	protected.Post("/reservations/{id}/start", "reservations.start", ctx.Wrap(c.Reservations.Start))
	protected.Post("/reservations/{id}/complete", "reservations.complete", ctx.Wrap(c.Reservations.Complete))
	protected.Post("/reservations/{id}/cancel", "reservations.cancel", ctx.Wrap(c.Reservations.Cancel))

	protected.Get("/notifications", "notifications.index", ctx.Wrap(c.Notifications.List))
	protected.Get("/notifications/unread", "notifications.unread", ctx.Wrap(c.Notifications.Unread))
	protected.Post("/notifications/{id}/read", "notifications.read", ctx.Wrap(c.Notifications.MarkRead))
	protected.Delete("/notifications/{id}", "notifications.delete", ctx.Wrap(c.Notifications.Delete))
	protected.Delete("/notifications", "notifications.clear", ctx.Wrap(c.Notifications.DeleteAll))

	// Live notification push. Each connection is bound to the token's user
	// so the hub can target per-user messages.
	wsGroup := r.Group("/ws", middleware.Auth)
	wsGroup.Get("/notifications", "ws.notifications", ctx.Wrap(func(cc *ctx.Context) {
		claims := auth.IdentityFromCtx(cc.Context())
		if claims == nil {
			cc.Unauthorized()
			return
		}
		ws.UpgradeFor(cc.W, cc.R, hub, claims.UserID)
	}))
}
