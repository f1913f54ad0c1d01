// Package auth handles access-token minting/verification and the auth
// cookie pair.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

// AccessTokenTTL is how long one access token (and its session slice)
// lives before the middleware has to re-issue it.
const AccessTokenTTL = 5 * time.Minute

type Claims struct {
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Sign mints an access token for the given identity.
func Sign(user models.AuthUser, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify parses the token and returns the identity it carries.
func Verify(tokenString string, secret []byte) (models.AuthUser, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return models.AuthUser{}, fmt.Errorf("verify token: %w", err)
	}
	if !token.Valid {
		return models.AuthUser{}, fmt.Errorf("invalid token")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.AuthUser{}, fmt.Errorf("parse token subject: %w", err)
	}

	return models.AuthUser{ID: id, Email: claims.Email, Role: claims.Role}, nil
}
