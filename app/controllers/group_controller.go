package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/inbox/app/services"
	"github.com/shashiranjanraj/inbox/pkg/ctx"
)

type GroupController struct {
	service *services.CatalogService
}

func NewGroupController(service *services.CatalogService) *GroupController {
	return &GroupController{service: service}
}

// Create makes a new group owned by the caller.
// POST /api/groups
func (gc *GroupController) Create(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	var input struct {
		Name        string `json:"name"        validate:"required,min=2,max=255"`
		Description string `json:"description" validate:"nullable,max=2000"`
	}
	if !c.BindJSON(&input) {
		return
	}

	group, err := gc.service.CreateGroup(claims.UserID, input.Name, input.Description, "")
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(group)
}

// List returns the caller's groups.
// GET /api/groups
func (gc *GroupController) List(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	groups, err := gc.service.ListGroups(claims.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(groups)
}

// Show returns one group the caller belongs to.
// GET /api/groups/{id}
func (gc *GroupController) Show(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	group, err := gc.service.GetGroup(c.ParamUint("id"), claims.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(group)
}

// Members lists the group's members.
// GET /api/groups/{id}/members
func (gc *GroupController) Members(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	members, err := gc.service.Members(c.ParamUint("id"), claims.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(members)
}

// Invite invites another user (by email or name) to the group.
// POST /api/groups/{id}/invites
func (gc *GroupController) Invite(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	var input struct {
		User string `json:"user" validate:"required"`
	}
	if !c.BindJSON(&input) {
		return
	}

	if err := gc.service.InviteUser(c.ParamUint("id"), claims.UserID, input.User); err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]string{"message": "Invite sent"})
}

// AcceptInvite turns an invite notification into a membership.
// POST /api/invites/{notificationID}/accept
func (gc *GroupController) AcceptInvite(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	if err := gc.service.AcceptInvite(c.ParamUint("notificationID"), claims.UserID); err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]string{"message": "Invite accepted"})
}

// UploadPhoto stores a group photo.
// POST /api/groups/{id}/photo  (multipart field "photo")
func (gc *GroupController) UploadPhoto(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	file, header, err := c.FormFile("photo")
	if err != nil {
		c.Error(http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	url, err := savePhoto(file, header, "groups")
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return
	}

	group, err := gc.service.SetGroupPhoto(c.ParamUint("id"), claims.UserID, url)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(group)
}
