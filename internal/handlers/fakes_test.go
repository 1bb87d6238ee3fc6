package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"stackify/internal/auth"
	"stackify/internal/middleware"
	"stackify/internal/models"
	"stackify/internal/store"
)

// memSites is an in-memory SiteRepository.
type memSites struct {
	mu        sync.Mutex
	sites     map[uuid.UUID]*models.Site
	seq       int
	reviewErr error
	views     int
}

func newMemSites(sites ...*models.Site) *memSites {
	m := &memSites{sites: make(map[uuid.UUID]*models.Site)}
	for _, s := range sites {
		m.put(s)
	}
	return m
}

func (m *memSites) put(s *models.Site) *models.Site {
	m.seq++
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = models.SiteStatusDraft
	}
	s.UpdatedAt = time.Unix(int64(m.seq), 0)
	cp := *s
	m.sites[s.ID] = &cp
	return &cp
}

func (m *memSites) get(id uuid.UUID) *models.Site {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sites[id]; ok {
		cp := *s
		return &cp
	}
	return nil
}

func (m *memSites) FindByID(id uuid.UUID) (*models.Site, error) {
	return m.get(id), nil
}

func (m *memSites) Create(site *models.Site) (*models.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.put(site)
	return &cp, nil
}

func (m *memSites) filter(keep func(*models.Site) bool) []models.Site {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Site{}
	for _, s := range m.sites {
		if keep(s) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func (m *memSites) ListByUser(userID uuid.UUID) ([]models.Site, error) {
	return m.filter(func(s *models.Site) bool { return s.UserID == userID }), nil
}

func (m *memSites) ListShowcase() ([]models.Site, error) {
	return m.filter(func(s *models.Site) bool { return s.IsShowcased() }), nil
}

func (m *memSites) ListByStatus(status models.SiteStatus) ([]models.Site, error) {
	return m.filter(func(s *models.Site) bool { return s.Status == status }), nil
}

func (m *memSites) Delete(id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sites[id]
	delete(m.sites, id)
	return ok, nil
}

func (m *memSites) DeleteOwned(id, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sites[id]
	if !ok || s.UserID != userID {
		return false, nil
	}
	delete(m.sites, id)
	return true, nil
}

func (m *memSites) Submit(id, userID uuid.UUID) (*models.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sites[id]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	s.Status = models.SiteStatusPending
	cp := *s
	return &cp, nil
}

func (m *memSites) Review(id uuid.UUID, status models.SiteStatus, isPublic bool, subdomain *string) (*models.Site, error) {
	if m.reviewErr != nil {
		return nil, m.reviewErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sites[id]
	if !ok {
		return nil, nil
	}
	s.Status = status
	s.IsPublic = isPublic
	if subdomain != nil {
		sub := *subdomain
		s.Subdomain = &sub
	}
	cp := *s
	return &cp, nil
}

func (m *memSites) Clone(id, userID uuid.UUID) (*models.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sites[id]
	if !ok {
		return nil, nil
	}
	clone := m.put(&models.Site{
		UserID:     userID,
		Title:      s.Title + " (Clone)",
		Prompt:     s.Prompt,
		Content:    s.Content,
		ImageCache: s.ImageCache.Clone(),
	})
	cp := *clone
	return &cp, nil
}

func (m *memSites) IncrementViews(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views++
	if s, ok := m.sites[id]; ok {
		s.Views++
	}
	return nil
}

// memShowcase is an in-memory ShowcaseCache.
type memShowcase struct {
	mu          sync.Mutex
	body        []byte
	invalidated int
}

func (c *memShowcase) Get(context.Context) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.body, c.body != nil
}

func (c *memShowcase) Set(_ context.Context, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body = body
}

func (c *memShowcase) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body = nil
	c.invalidated++
}

// memUsers is an in-memory UserRepository. Passwords are stored as-is.
type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]*models.User)}
}

func (m *memUsers) FindByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = store.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByID(id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) Create(username, email, password string, role models.Role) (*models.User, error) {
	if u, _ := m.FindByEmail(email); u != nil {
		return nil, store.ErrDuplicate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(username),
		Email:        store.NormalizeEmail(email),
		PasswordHash: password,
		Role:         role,
	}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) CheckPassword(u *models.User, password string) bool {
	return u.PasswordHash == password
}

type fakeTokens struct{}

func (fakeTokens) Issue(u *models.User) (string, error) { return "token-" + u.ID.String(), nil }
func (fakeTokens) TTL() time.Duration                   { return time.Hour }

// as returns r authenticated as the given user.
func as(r *http.Request, userID uuid.UUID, role models.Role) *http.Request {
	claims := &auth.Claims{
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()},
	}
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

// withID sets the {id} route parameter the way chi would.
func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
