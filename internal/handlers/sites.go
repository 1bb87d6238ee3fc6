// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"stackify/internal/models"
)

// SiteRepository is the site persistence used by the handlers.
// *store.SiteStore satisfies it.
type SiteRepository interface {
	FindByID(id uuid.UUID) (*models.Site, error)
	Create(site *models.Site) (*models.Site, error)
	ListByUser(userID uuid.UUID) ([]models.Site, error)
	ListShowcase() ([]models.Site, error)
	ListByStatus(status models.SiteStatus) ([]models.Site, error)
	Delete(id uuid.UUID) (bool, error)
	DeleteOwned(id, userID uuid.UUID) (bool, error)
	Submit(id, userID uuid.UUID) (*models.Site, error)
	Review(id uuid.UUID, status models.SiteStatus, isPublic bool, subdomain *string) (*models.Site, error)
	Clone(id, userID uuid.UUID) (*models.Site, error)
	IncrementViews(id uuid.UUID) error
}

// ShowcaseCache holds the encoded public showcase list.
// *cache.ShowcaseCache satisfies it.
type ShowcaseCache interface {
	Get(ctx context.Context) ([]byte, bool)
	Set(ctx context.Context, body []byte)
	Invalidate(ctx context.Context)
}

// Sites groups the endpoints for a user's own sites and the public showcase.
type Sites struct {
	sites    SiteRepository
	showcase ShowcaseCache
}

// NewSites creates the Sites handler group. showcase may be nil.
func NewSites(sites SiteRepository, showcase ShowcaseCache) *Sites {
	return &Sites{sites: sites, showcase: showcase}
}

// siteInput is the body of POST /api/sites: content the client already
// holds, typically from a generation whose save failed.
type siteInput struct {
	Title      string            `json:"title"`
	Prompt     string            `json:"prompt"`
	Blocks     []models.Block    `json:"blocks"`
	ImageCache models.ImageCache `json:"imageCache"`
}

// List handles GET /api/sites: the caller's sites, most recent first.
func (s *Sites) List(w http.ResponseWriter, r *http.Request) {
	sites, err := s.sites.ListByUser(currentUserID(r))
	if err != nil {
		slog.Error("list user sites failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

// Create handles POST /api/sites.
func (s *Sites) Create(w http.ResponseWriter, r *http.Request) {
	var in siteInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validateSiteInput(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	title := strings.TrimSpace(in.Title)
	blocks := in.Blocks
	if blocks == nil {
		blocks = []models.Block{}
	}

	site, err := s.sites.Create(&models.Site{
		UserID:     currentUserID(r),
		Title:      title,
		Prompt:     strings.TrimSpace(in.Prompt),
		Content:    models.SiteContent{Title: title, Blocks: blocks},
		ImageCache: in.ImageCache.Clone(),
		Status:     models.SiteStatusDraft,
	})
	if err != nil {
		slog.Error("create site failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Save failed")
		return
	}
	writeJSON(w, http.StatusCreated, site)
}

// Get handles GET /api/sites/{id}. Public sites are visible to everyone,
// private ones only to their owner. Views by anyone but the owner count.
func (s *Sites) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	site, err := s.sites.FindByID(id)
	if err != nil {
		slog.Error("find site failed", "error", err, "site_id", id)
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	if site == nil {
		writeError(w, http.StatusNotFound, "Site not found")
		return
	}

	viewer := currentUserID(r)
	if !site.VisibleTo(viewer) {
		writeError(w, http.StatusForbidden, "Not authorized to view this site")
		return
	}

	if !site.IsOwnedBy(viewer) {
		if err := s.sites.IncrementViews(id); err != nil {
			slog.Warn("increment views failed", "error", err, "site_id", id)
		} else {
			site.Views++
		}
	}
	writeJSON(w, http.StatusOK, site)
}

// Delete handles DELETE /api/sites/{id} for the caller's own site.
func (s *Sites) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	deleted, err := s.sites.DeleteOwned(id, currentUserID(r))
	if err != nil {
		slog.Error("delete site failed", "error", err, "site_id", id)
		writeError(w, http.StatusInternalServerError, "Delete failed")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Site not found")
		return
	}

	s.invalidateShowcase(r.Context())
	writeMessage(w, http.StatusOK, "Site deleted")
}

// Submit handles PUT /api/sites/{id}/submit: queue the caller's site for
// showcase review.
func (s *Sites) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	site, err := s.sites.Submit(id, currentUserID(r))
	if err != nil {
		slog.Error("submit site failed", "error", err, "site_id", id)
		writeError(w, http.StatusInternalServerError, "Submission failed")
		return
	}
	if site == nil {
		writeError(w, http.StatusNotFound, "Site not found")
		return
	}

	s.invalidateShowcase(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"message": "Submitted for review", "site": site})
}

// Clone handles POST /api/sites/{id}/clone: copy a site the caller can see
// into their account, reusing its resolved images.
func (s *Sites) Clone(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	userID := currentUserID(r)

	orig, err := s.sites.FindByID(id)
	if err != nil {
		slog.Error("find site for clone failed", "error", err, "site_id", id)
		writeError(w, http.StatusInternalServerError, "Clone failed")
		return
	}
	if orig == nil || !orig.VisibleTo(userID) {
		writeError(w, http.StatusNotFound, "Site not found")
		return
	}

	clone, err := s.sites.Clone(id, userID)
	if err != nil {
		slog.Error("clone site failed", "error", err, "site_id", id)
		writeError(w, http.StatusInternalServerError, "Clone failed")
		return
	}
	if clone == nil {
		writeError(w, http.StatusNotFound, "Site not found")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Site cloned successfully",
		"siteId":  clone.ID,
		"site":    clone,
	})
}

// Showcase handles GET /api/sites/public: approved public sites, served
// from the showcase cache when warm.
func (s *Sites) Showcase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.showcase != nil {
		if body, ok := s.showcase.Get(ctx); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(body)
			return
		}
	}

	sites, err := s.sites.ListShowcase()
	if err != nil {
		slog.Error("list showcase failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	body, err := json.Marshal(sites)
	if err != nil {
		slog.Error("encode showcase failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	if s.showcase != nil {
		s.showcase.Set(ctx, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
}

func (s *Sites) invalidateShowcase(ctx context.Context) {
	if s.showcase != nil {
		s.showcase.Invalidate(ctx)
	}
}
