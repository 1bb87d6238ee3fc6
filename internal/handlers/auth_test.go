package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"stackify/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	users := newMemUsers()
	h := NewAuth(users, fakeTokens{})

	rec := httptest.NewRecorder()
	h.Register(rec, postJSON("/api/auth/register", `{"username":"ana","email":"Ana@Example.com","password":"secret1"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body)
	}

	var reg tokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&reg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reg.User == nil || reg.User.Role != models.RoleUser || reg.User.Email != "ana@example.com" {
		t.Errorf("user = %+v", reg.User)
	}
	if reg.Token != "token-"+reg.User.ID.String() || reg.ExpiresIn != 3600 {
		t.Errorf("token = %q, expiresIn = %d", reg.Token, reg.ExpiresIn)
	}

	rec = httptest.NewRecorder()
	h.Login(rec, postJSON("/api/auth/login", `{"email":"ana@example.com","password":"secret1"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Register(rec, postJSON("/api/auth/register", `{"username":"ana2","email":"ANA@example.com","password":"secret2"}`))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rec.Code)
	}
}

func TestRegisterDoesNotLeakHash(t *testing.T) {
	rec := httptest.NewRecorder()
	NewAuth(newMemUsers(), fakeTokens{}).Register(rec,
		postJSON("/api/auth/register", `{"username":"ana","email":"ana@example.com","password":"secret1"}`))

	// memUsers keeps the password verbatim as the hash.
	if strings.Contains(rec.Body.String(), "secret1") {
		t.Errorf("password hash serialized: %s", rec.Body)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing username", `{"email":"a@b.c","password":"secret1"}`},
		{"bad email", `{"username":"a","email":"nope","password":"secret1"}`},
		{"short password", `{"username":"a","email":"a@b.c","password":"123"}`},
		{"invalid json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewAuth(newMemUsers(), fakeTokens{}).Register(rec, postJSON("/api/auth/register", tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestLoginFailures(t *testing.T) {
	users := newMemUsers()
	users.Create("ana", "ana@example.com", "secret1", models.RoleUser)
	h := NewAuth(users, fakeTokens{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"email":"ana@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"unknown email", `{"email":"bob@example.com","password":"secret1"}`, http.StatusUnauthorized},
		{"invalid json", `nope`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Login(rec, postJSON("/api/auth/login", tt.body))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestMe(t *testing.T) {
	users := newMemUsers()
	u, _ := users.Create("ana", "ana@example.com", "secret1", models.RoleAdmin)
	h := NewAuth(users, fakeTokens{})

	rec := httptest.NewRecorder()
	h.Me(rec, as(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), u.ID, models.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got models.User
	json.NewDecoder(rec.Body).Decode(&got)
	if got.ID != u.ID || !got.IsAdmin() {
		t.Errorf("me = %+v", got)
	}

	rec = httptest.NewRecorder()
	h.Me(rec, as(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), uuid.New(), models.RoleUser))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("deleted account status = %d, want 401", rec.Code)
	}
}
