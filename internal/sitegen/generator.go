// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sitegen turns a free-text prompt into a persisted site. It asks the
// model for a page description, salvages the reply into structured content,
// swaps image placeholders for search URLs through the site's image cache,
// and saves the result.
package sitegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"stackify/internal/images"
	"stackify/internal/models"
	"stackify/internal/salvage"
)

// Model is the text generation backend. *ai.Registry satisfies it.
type Model interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SiteStore persists sites. *store.SiteStore satisfies it.
// FindByID returns (nil, nil) when the site does not exist.
type SiteStore interface {
	FindByID(id uuid.UUID) (*models.Site, error)
	Create(site *models.Site) (*models.Site, error)
	Update(site *models.Site, writeCache bool) error
}

// SiteLocker serialises regenerations of one site across processes.
// Lock blocks until the lock is held or ctx ends. An error wrapping
// ErrSiteBusy means another holder kept the site locked; any other error
// means the locking backend itself is unavailable.
type SiteLocker interface {
	Lock(ctx context.Context, siteID uuid.UUID) (unlock func(), err error)
}

// Request is one generation call. A nil SiteID creates a new site owned by
// UserID; otherwise the existing site is regenerated in place.
type Request struct {
	Prompt string
	SiteID *uuid.UUID
	UserID uuid.UUID
}

// Generator runs the generate-salvage-resolve-persist pipeline.
// It holds no per-request state and is safe for concurrent use.
type Generator struct {
	model  Model
	sites  SiteStore
	images images.Source
	locker SiteLocker
}

// NewGenerator creates a Generator. locker may be nil, in which case
// concurrent regenerations of the same site are last-write-wins.
func NewGenerator(model Model, sites SiteStore, src images.Source, locker SiteLocker) *Generator {
	return &Generator{
		model:  model,
		sites:  sites,
		images: src,
		locker: locker,
	}
}

// Generate produces, merges and saves a site for req.
//
// On ErrPersistenceFailed the merged in-memory site is returned alongside
// the error so the caller can resubmit the content. Every other error
// returns a nil site and nothing is persisted.
func (g *Generator) Generate(ctx context.Context, req Request) (*models.Site, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}
	if req.SiteID == nil && req.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner is required for a new site", ErrInvalidInput)
	}

	raw, err := g.model.Generate(ctx, systemInstruction, userInstruction(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	content, err := salvage.Parse(raw)
	if err != nil {
		slog.Error("model output could not be parsed", "error", err, "raw", raw)
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}

	if req.SiteID != nil && g.locker != nil {
		unlock, err := g.lock(ctx, *req.SiteID)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	site, err := g.load(req, prompt)
	if err != nil {
		return nil, err
	}

	newImages := g.resolveImages(site, content)
	site.Content = *content
	site.Title = content.Title

	if site.IsNew() {
		created, err := g.sites.Create(site)
		if err != nil {
			return site, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
		}
		site = created
	} else if err := g.sites.Update(site, newImages > 0); err != nil {
		return site, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	slog.Info("site generated",
		"site_id", site.ID,
		"blocks", len(site.Content.Blocks),
		"new_images", newImages,
	)
	return site, nil
}

// load returns the site to merge into: the stored one when req names a site,
// otherwise a fresh draft. Sites owned by someone else are reported as not
// found.
func (g *Generator) load(req Request, prompt string) (*models.Site, error) {
	if req.SiteID == nil {
		return &models.Site{
			UserID:     req.UserID,
			Prompt:     prompt,
			ImageCache: models.ImageCache{},
			Status:     models.SiteStatusDraft,
		}, nil
	}

	site, err := g.sites.FindByID(*req.SiteID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	if site == nil || (req.UserID != uuid.Nil && !site.IsOwnedBy(req.UserID)) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, req.SiteID)
	}
	return site, nil
}

// resolveImages rewrites the placeholders of every block in content against
// the site's image cache. The site's cache is replaced only when new entries
// were added. It returns the number of new entries.
func (g *Generator) resolveImages(site *models.Site, content *models.SiteContent) int {
	cache := site.ImageCache.Clone()
	before := len(cache)
	dirty := false

	for i := range content.Blocks {
		code, changed := images.ReplacePlaceholders(content.Blocks[i].Code, cache, g.images)
		content.Blocks[i].Code = code
		dirty = dirty || changed
	}

	if !dirty {
		return 0
	}
	site.ImageCache = cache
	return len(cache) - before
}

// lock takes the per-site lock. When the locking backend is down the
// regeneration proceeds unlocked and the last write wins.
func (g *Generator) lock(ctx context.Context, siteID uuid.UUID) (func(), error) {
	unlock, err := g.locker.Lock(ctx, siteID)
	switch {
	case err == nil:
		return unlock, nil
	case errors.Is(err, ErrSiteBusy):
		return nil, err
	case ctx.Err() != nil:
		return nil, fmt.Errorf("acquire site lock: %w", ctx.Err())
	default:
		slog.Warn("site lock unavailable, saving without it", "site_id", siteID, "error", err)
		return func() {}, nil
	}
}
