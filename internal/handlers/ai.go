// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"stackify/internal/images"
	"stackify/internal/lane"
	"stackify/internal/models"
	"stackify/internal/sitegen"
)

// reachTimeout bounds the HEAD request the image proxy makes.
const reachTimeout = 5 * time.Second

// Generator produces and saves sites. *sitegen.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, req sitegen.Request) (*models.Site, error)
}

// AI groups the generation endpoints.
type AI struct {
	generator   Generator
	lane        *lane.Lane
	images      images.Source
	client      *http.Client
	fallbackURL string
}

// NewAI creates the AI handler group. Image proxy requests are run one at a
// time on imageLane; fallbackURL is served when an image cannot be reached.
func NewAI(generator Generator, imageLane *lane.Lane, src images.Source, client *http.Client, fallbackURL string) *AI {
	if client == nil {
		client = &http.Client{Timeout: reachTimeout}
	}
	return &AI{
		generator:   generator,
		lane:        imageLane,
		images:      src,
		client:      client,
		fallbackURL: fallbackURL,
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	SiteID string `json:"siteId"`
}

type generateResponse struct {
	ID     uuid.UUID      `json:"id"`
	Title  string         `json:"title"`
	Blocks []models.Block `json:"blocks"`
}

// unsavedSite carries everything POST /api/sites needs to save a generated
// site whose own save failed.
type unsavedSite struct {
	generateResponse
	Prompt     string            `json:"prompt"`
	ImageCache models.ImageCache `json:"imageCache"`
}

func newGenerateResponse(site *models.Site) generateResponse {
	blocks := site.Content.Blocks
	if blocks == nil {
		blocks = []models.Block{}
	}
	return generateResponse{ID: site.ID, Title: site.Content.Title, Blocks: blocks}
}

// Generate handles POST /api/ai/generate. It creates a new site, or
// regenerates an existing one when siteId is given.
func (a *AI) Generate(w http.ResponseWriter, r *http.Request) {
	var in generateRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validatePrompt(in.Prompt); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	req := sitegen.Request{Prompt: in.Prompt, UserID: currentUserID(r)}
	if s := strings.TrimSpace(in.SiteID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid site id")
			return
		}
		req.SiteID = &id
	}

	site, err := a.generator.Generate(r.Context(), req)
	if err != nil {
		a.writeGenerateError(w, site, err)
		return
	}

	writeJSON(w, http.StatusOK, newGenerateResponse(site))
}

// writeGenerateError maps generation failures to HTTP statuses. A failed
// save still returns the generated content so the client can resubmit it
// through POST /api/sites.
func (a *AI) writeGenerateError(w http.ResponseWriter, site *models.Site, err error) {
	switch {
	case errors.Is(err, sitegen.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sitegen.ErrNotFound):
		writeError(w, http.StatusNotFound, "site not found")
	case errors.Is(err, sitegen.ErrSiteBusy):
		writeError(w, http.StatusConflict, "site is being regenerated, try again shortly")
	case errors.Is(err, sitegen.ErrMalformedOutput):
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "AI generated invalid JSON. Please try again.",
			"details": err.Error(),
		})
	case errors.Is(err, sitegen.ErrGenerationFailed):
		slog.Error("site generation failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "Generation failed",
			"details": err.Error(),
		})
	case errors.Is(err, sitegen.ErrPersistenceFailed) && site != nil:
		slog.Error("generated site could not be saved", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Generated site could not be saved",
			"site": unsavedSite{
				generateResponse: newGenerateResponse(site),
				Prompt:           site.Prompt,
				ImageCache:       site.ImageCache.Clone(),
			},
		})
	default:
		slog.Error("site generation error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ImageProxy handles GET /api/ai/image?prompt=. The lookup runs on the
// image lane so bursts of page loads reach the image endpoint one at a
// time; the client is then redirected to the image, or to the fallback
// image if it cannot be reached.
func (a *AI) ImageProxy(w http.ResponseWriter, r *http.Request) {
	prompt := r.URL.Query().Get("prompt")
	if strings.TrimSpace(prompt) == "" {
		writeError(w, http.StatusBadRequest, "Prompt required")
		return
	}

	ctx := r.Context()
	target := a.fallbackURL

	done := a.lane.Schedule(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		url := a.images.Resolve(prompt)
		if err := a.reachable(ctx, url); err != nil {
			return err
		}
		target = url
		return nil
	})

	select {
	case <-done:
		http.Redirect(w, r, target, http.StatusFound)
	case <-ctx.Done():
		// Client went away; the queued task sees the cancelled context.
	}
}

// reachable checks that url answers a HEAD request without an error status.
func (a *AI) reachable(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, reachTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("image %s: status %d", url, resp.StatusCode)
	}
	return nil
}
