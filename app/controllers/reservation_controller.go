package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/inbox/app/models"
	"github.com/shashiranjanraj/inbox/app/services"
	"github.com/shashiranjanraj/inbox/pkg/ctx"
	"github.com/shashiranjanraj/inbox/pkg/validate"
)

type ReservationController struct {
	service *services.ReservationService
}

func NewReservationController(service *services.ReservationService) *ReservationController {
	return &ReservationController{service: service}
}

// Create reserves one unit of a product for a date range.
// POST /api/products/{id}/reservations
func (rc *ReservationController) Create(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	var input struct {
		StartDate string `json:"start_date" validate:"required,date"`
		EndDate   string `json:"end_date"   validate:"required,date"`
	}
	if !c.BindJSON(&input) {
		return
	}

	start, err := validate.ParseDate(input.StartDate)
	if err != nil {
		c.Error(http.StatusBadRequest, "start_date must be a date (YYYY-MM-DD)")
		return
	}
	end, err := validate.ParseDate(input.EndDate)
	if err != nil {
		c.Error(http.StatusBadRequest, "end_date must be a date (YYYY-MM-DD)")
		return
	}

	res, err := rc.service.Reserve(c.ParamUint("id"), claims.UserID, start, end)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(res)
}

// List returns one page of the caller's reservation history.
// GET /api/reservations?page=1&limit=20
func (rc *ReservationController) List(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	rows, pagination, err := rc.service.ListForUser(
		claims.UserID, c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]interface{}{
		"reservations": rows,
		"pagination":   pagination,
	})
}

// Availability reports how many units of a product are free on a day.
// GET /api/products/{id}/availability?as_of=2026-09-01
func (rc *ReservationController) Availability(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	asOf := models.Midnight(time.Now())
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := validate.ParseDate(raw)
		if err != nil {
			c.Error(http.StatusBadRequest, "as_of must be a date (YYYY-MM-DD)")
			return
		}
		asOf = parsed
	}

	available, err := rc.service.Availability(c.ParamUint("id"), asOf)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]interface{}{
		"product_id": c.ParamUint("id"),
		"as_of":      asOf.Format("2006-01-02"),
		"available":  available,
	})
}

// Approve moves a pending reservation to approved.
// POST /api/reservations/{id}/approve
func (rc *ReservationController) Approve(c *ctx.Context) {
	rc.mutate(c, rc.service.Approve)
}

// Reject declines a reservation.
// POST /api/reservations/{id}/reject
func (rc *ReservationController) Reject(c *ctx.Context) {
	rc.mutate(c, rc.service.Reject)
}

// Start records item pickup.
// POST /api/reservations/{id}/start
func (rc *ReservationController) Start(c *ctx.Context) {
	rc.mutate(c, rc.service.Start)
}

// Complete records the item's return.
// POST /api/reservations/{id}/complete
func (rc *ReservationController) Complete(c *ctx.Context) {
	rc.mutate(c, rc.service.Complete)
}

// Cancel withdraws the caller's reservation.
// POST /api/reservations/{id}/cancel
func (rc *ReservationController) Cancel(c *ctx.Context) {
	rc.mutate(c, rc.service.Cancel)
}

func (rc *ReservationController) mutate(c *ctx.Context, op func(uint, uint) (models.Reservation, error)) {
	claims := identity(c)
	if claims == nil {
		return
	}

	res, err := op(c.ParamUint("id"), claims.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(res)
}
