// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth issues and verifies the bearer tokens used by the API.
// Tokens are HS256-signed JWTs carrying the user's id and role.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"stackify/internal/models"
)

// MinSecretLen is the shortest signing secret accepted.
const MinSecretLen = 32

const issuer = "stackify"

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload. The subject holds the user id.
type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the user id encoded in the subject.
func (c *Claims) UserID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}

// IsAdmin returns true if the token was issued to an admin.
func (c *Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// Tokens signs and verifies tokens with a shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token service. The secret must be at least
// MinSecretLen bytes.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("auth: secret must be at least %d bytes", MinSecretLen)
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token ttl must be positive")
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a signed token for the user.
func (t *Tokens) Issue(u *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its claims. Only HS256 is accepted.
func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID() == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TTL returns how long issued tokens stay valid.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}
