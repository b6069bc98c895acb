// Package auth provides JWT issuing/validation, bcrypt password hashing and
// per-request identity propagation.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shashiranjanraj/inbox/config"
	"golang.org/x/crypto/bcrypt"
)

// Claims holds the typed JWT payload.
type Claims struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// GenerateToken creates a signed JWT for the given user.
func GenerateToken(userID uint, name string) (string, error) {
	claims := Claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// GenerateRefreshToken creates a longer-lived token used to refresh access.
func GenerateRefreshToken(userID uint, name string) (string, error) {
	claims := Claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken parses and validates a JWT string.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ── Request identity ─────────────────────────────────────────────────────────
//
// The authenticated user travels with the request context; handlers and
// services receive it explicitly instead of reading shared state.

type identityKey struct{}

// WithIdentity stores the validated claims in ctx.
func WithIdentity(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, identityKey{}, claims)
}

// IdentityFromCtx returns the claims stored by the auth middleware, or nil.
func IdentityFromCtx(ctx context.Context) *Claims {
	claims, _ := ctx.Value(identityKey{}).(*Claims)
	return claims
}
