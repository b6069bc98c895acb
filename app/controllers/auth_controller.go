package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/inbox/app/services"
	"github.com/shashiranjanraj/inbox/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register creates a new account.
// POST /api/register
func (ac *AuthController) Register(c *ctx.Context) {
	var input struct {
		Name                 string `json:"name"                  validate:"required,min=2,max=255"`
		Email                string `json:"email"                 validate:"required,email"`
		Password             string `json:"password"              validate:"required,min=8,confirmed"`
		PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	}
	if !c.BindJSON(&input) {
		return
	}

	user, err := ac.service.Register(input.Name, input.Email, input.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(user)
}

// Login authenticates by email or name and returns a token pair.
// POST /api/login
func (ac *AuthController) Login(c *ctx.Context) {
	var input struct {
		Login    string `json:"login"    validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if !c.BindJSON(&input) {
		return
	}

	user, tokens, err := ac.service.Login(input.Login, input.Password)
	if err != nil {
		// Wrong login and wrong password look identical to the caller.
		c.Unauthorized("Invalid credentials")
		return
	}

	c.Success(map[string]interface{}{
		"user":          user,
		"token":         tokens.Token,
		"refresh_token": tokens.RefreshToken,
	})
}

// Logout acknowledges the logout. Tokens are stateless, so the client
// discards them; nothing is revoked server-side.
// POST /api/logout
func (ac *AuthController) Logout(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}
	c.Success(map[string]string{"message": "Logged out"})
}

// Profile returns the caller's own record.
// GET /api/profile
func (ac *AuthController) Profile(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	user, err := ac.service.Profile(claims.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(user)
}

// UpdateProfile completes the caller's profile (nickname, phone).
// PUT /api/profile
func (ac *AuthController) UpdateProfile(c *ctx.Context) {
	claims := identity(c)
	if claims == nil {
		return
	}

	var input struct {
		Nickname string `json:"nickname" validate:"nullable,max=255"`
		Phone    string `json:"phone"    validate:"nullable,max=50"`
	}
	if !c.BindJSON(&input) {
		return
	}

	user, err := ac.service.CompleteProfile(claims.UserID, input.Nickname, input.Phone, "")
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(user)
}

// UploadPhoto stores a profile photo and records its URL.
// POST /api/profile/photo  (multipart field "photo")
func (ac *AuthController) UploadPhoto(c *ctx.Context) {
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

	url, err := savePhoto(file, header, "profiles")
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return
	}

	user, err := ac.service.CompleteProfile(claims.UserID, "", "", url)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(user)
}
