package controllers

import (
	"github.com/shashiranjanraj/inbox/app/services"
	"github.com/shashiranjanraj/inbox/pkg/ctx"
)

type NotificationController struct {
	service *services.NotificationService
}

func NewNotificationController(service *services.NotificationService) *NotificationController {
	return &NotificationController{service: service}
}

// List returns the caller's feed in creation order.
// GET /api/notifications
func (nc *NotificationController) List(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	rows, err := nc.service.List(claims.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(rows)
}

// Unread returns {"count": n, "has_unread": bool}.
// GET /api/notifications/unread
func (nc *NotificationController) Unread(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	summary, err := nc.service.Unread(claims.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(summary)
}

// MarkRead flags one notification as read.
// POST /api/notifications/{id}/read
func (nc *NotificationController) MarkRead(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	if err := nc.service.MarkRead(c.ParamUint("id"), claims.UserID); err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]string{"message": "Notification marked as read"})
}

// Delete removes one notification.
// DELETE /api/notifications/{id}
func (nc *NotificationController) Delete(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	if err := nc.service.Delete(c.ParamUint("id"), claims.UserID); err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]string{"message": "Notification deleted"})
}

// DeleteAll clears the caller's feed.
// DELETE /api/notifications
func (nc *NotificationController) DeleteAll(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	if err := nc.service.DeleteAll(claims.UserID); err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]string{"message": "All notifications deleted"})
}
