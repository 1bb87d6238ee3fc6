// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"stackify/internal/models"
	"stackify/internal/store"
)

// UserRepository is the account persistence used by the handlers.
// *store.UserStore satisfies it.
type UserRepository interface {
	FindByEmail(email string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	Create(username, email, password string, role models.Role) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// TokenIssuer signs bearer tokens. *auth.Tokens satisfies it.
type TokenIssuer interface {
	Issue(u *models.User) (string, error)
	TTL() time.Duration
}

// Auth groups the account endpoints.
type Auth struct {
	users  UserRepository
	tokens TokenIssuer
}

// NewAuth creates the Auth handler group.
func NewAuth(users UserRepository, tokens TokenIssuer) *Auth {
	return &Auth{users: users, tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"` // seconds
	User      *models.User `json:"user"`
}

// Register handles POST /api/auth/register. New accounts always get the
// user role.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validateRegistration(in.Username, in.Email, in.Password); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := a.users.Create(in.Username, in.Email, in.Password, models.RoleUser)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "An account with this email already exists.")
		return
	}
	if err != nil {
		slog.Error("register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	slog.Info("user registered", "user_id", user.ID)
	a.writeToken(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := a.users.FindByEmail(in.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if user == nil || !a.users.CheckPassword(user, in.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	a.writeToken(w, http.StatusOK, user)
}

// Me handles GET /api/auth/me: the authenticated account.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.users.FindByID(currentUserID(r))
	if err != nil {
		slog.Error("load current user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "account no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *Auth) writeToken(w http.ResponseWriter, status int, user *models.User) {
	token, err := a.tokens.Issue(user)
	if err != nil {
		slog.Error("issue token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	writeJSON(w, status, tokenResponse{
		Token:     token,
		ExpiresIn: int(a.tokens.TTL().Seconds()),
		User:      user,
	})
}
