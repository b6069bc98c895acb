package services

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/inbox/app/models"
	"github.com/shashiranjanraj/inbox/app/repositories"
	"github.com/shashiranjanraj/inbox/pkg/auth"
	"github.com/shashiranjanraj/inbox/pkg/event"
	"gorm.io/gorm"
)

// TokenPair is returned on successful login.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles registration, login and profile completion.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new account. The email and the name must both be
// unused: the name doubles as a login credential, so a duplicate would make
// name-login ambiguous.
func (s *AuthService) Register(name, email, password string) (models.User, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		return models.User{}, fmt.Errorf("%w: email already registered", ErrInvalidRequest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}
	if _, err := s.users.FindByName(name); err == nil {
		return models.User{}, fmt.Errorf("%w: name already taken", ErrInvalidRequest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{Name: name, Email: email, Password: hash}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("auth: create user: %w", err)
	}

	event.Fire(EventUserRegistered, UserEvent{User: user})
	return user, nil
}

// Login authenticates by email or name plus password and issues a token
// pair. Wrong login and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(login, password string) (models.User, TokenPair, error) {
	user, err := s.users.FindByLogin(login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, TokenPair{}, ErrForbidden
	}
	if err != nil {
		return models.User{}, TokenPair{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, TokenPair{}, ErrForbidden
	}

	token, err := auth.GenerateToken(user.ID, user.Name)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("auth: token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Name)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("auth: refresh token: %w", err)
	}

	event.Fire(EventUserLoggedIn, UserEvent{User: user})
	return user, TokenPair{Token: token, RefreshToken: refresh}, nil
}

// CompleteProfile fills in the optional profile fields gathered after
// registration. Empty arguments leave the current value untouched.
func (s *AuthService) CompleteProfile(userID uint, nickname, phone, photoURL string) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	if nickname != "" {
		user.Nickname = nickname
	}
	if phone != "" {
		user.Phone = phone
	}
	if photoURL != "" {
		user.PhotoURL = photoURL
	}

	if err := s.users.Update(&user); err != nil {
		return models.User{}, fmt.Errorf("auth: update profile: %w", err)
	}
	return user, nil
}

// Profile returns the user's own record.
func (s *AuthService) Profile(userID uint) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	return user, err
}
