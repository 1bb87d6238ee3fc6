// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"stackify/internal/models"
	"stackify/internal/slug"
	"stackify/internal/store"
)

// Admin groups the showcase review endpoints. All routes require the admin role.
type Admin struct {
	sites    SiteRepository
	showcase ShowcaseCache
}

// NewAdmin creates the Admin handler group. showcase may be nil.
func NewAdmin(sites SiteRepository, showcase ShowcaseCache) *Admin {
	return &Admin{sites: sites, showcase: showcase}
}

type reviewRequest struct {
	Action string `json:"action"` // "approve" or "reject"
}

// Pending handles GET /api/admin/pending: the review queue.
func (a *Admin) Pending(w http.ResponseWriter, r *http.Request) {
	a.listByStatus(w, models.SiteStatusPending)
}

// Approved handles GET /api/admin/showcase: every approved site.
func (a *Admin) Approved(w http.ResponseWriter, r *http.Request) {
	a.listByStatus(w, models.SiteStatusApproved)
}

func (a *Admin) listByStatus(w http.ResponseWriter, status models.SiteStatus) {
	sites, err := a.sites.ListByStatus(status)
	if err != nil {
		slog.Error("admin list sites failed", "error", err, "status", status)
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

// Review handles PUT /api/admin/action/{id}. Approving publishes the site
// on the showcase under a generated subdomain; rejecting makes it private.
func (a *Admin) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in reviewRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Action != "approve" && in.Action != "reject" {
		writeError(w, http.StatusBadRequest, `action must be "approve" or "reject"`)
		return
	}

	site, err := a.sites.FindByID(id)
	if err != nil {
		slog.Error("admin find site failed", "error", err, "site_id", id)
		writeError(w, http.StatusInternalServerError, "Update Failed")
		return
	}
	if site == nil {
		writeError(w, http.StatusNotFound, "Site not found")
		return
	}

	var updated *models.Site
	if in.Action == "approve" {
		sub := site.Subdomain
		if sub == nil {
			s := slug.Subdomain(site.Title, site.ID)
			sub = &s
		}
		updated, err = a.sites.Review(id, models.SiteStatusApproved, true, sub)
	} else {
		updated, err = a.sites.Review(id, models.SiteStatusRejected, false, nil)
	}

	switch {
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, "subdomain already taken")
		return
	case err != nil:
		slog.Error("admin review failed", "error", err, "site_id", id)
		writeError(w, http.StatusInternalServerError, "Update Failed")
		return
	case updated == nil:
		writeError(w, http.StatusNotFound, "Site not found")
		return
	}

	a.invalidateShowcase(r)
	slog.Info("site reviewed", "site_id", id, "action", in.Action)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Site " + in.Action + "d successfully",
		"site":    updated,
	})
}

// Delete handles DELETE /api/admin/site/{id}: remove any site.
func (a *Admin) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	deleted, err := a.sites.Delete(id)
	if err != nil {
		slog.Error("admin delete site failed", "error", err, "site_id", id)
		writeError(w, http.StatusInternalServerError, "Delete failed")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Site not found")
		return
	}

	a.invalidateShowcase(r)
	writeMessage(w, http.StatusOK, "Site deleted successfully")
}

func (a *Admin) invalidateShowcase(r *http.Request) {
	if a.showcase != nil {
		a.showcase.Invalidate(r.Context())
	}
}
