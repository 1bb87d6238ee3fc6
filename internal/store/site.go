// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"stackify/internal/models"
)

// SiteStore handles all site-related database operations. Content and
// image_cache are JSONB columns read and written through the model types'
// Scanner/Valuer implementations.
type SiteStore struct {
	db *sql.DB
}

// NewSiteStore creates a new SiteStore with the given database connection.
func NewSiteStore(db *sql.DB) *SiteStore {
	return &SiteStore{db: db}
}

const siteColumns = `id, user_id, title, prompt, content, image_cache, is_public,
	status, subdomain, views, created_at, updated_at`

func scanSite(scanner interface{ Scan(...any) error }) (*models.Site, error) {
	s := &models.Site{}
	err := scanner.Scan(
		&s.ID, &s.UserID, &s.Title, &s.Prompt, &s.Content, &s.ImageCache,
		&s.IsPublic, &s.Status, &s.Subdomain, &s.Views, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SiteStore) list(op, where string, args ...any) ([]models.Site, error) {
	rows, err := s.db.Query(`SELECT `+siteColumns+` FROM sites `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	sites := []models.Site{}
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, *site)
	}
	return sites, rows.Err()
}

// FindByID retrieves a site by its UUID. Returns nil if not found.
func (s *SiteStore) FindByID(id uuid.UUID) (*models.Site, error) {
	site, err := scanSite(s.db.QueryRow(`SELECT `+siteColumns+` FROM sites WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find site by id: %w", err)
	}
	return site, nil
}

// Create inserts a new site and returns it with its generated ID and timestamps.
func (s *SiteStore) Create(site *models.Site) (*models.Site, error) {
	status := site.Status
	if status == "" {
		status = models.SiteStatusDraft
	}

	created, err := scanSite(s.db.QueryRow(`
		INSERT INTO sites (user_id, title, prompt, content, image_cache, is_public, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+siteColumns,
		site.UserID, site.Title, site.Prompt, site.Content, site.ImageCache, site.IsPublic, status,
	))
	if err != nil {
		return nil, fmt.Errorf("create site: %w", err)
	}
	return created, nil
}

// Update saves a regenerated site's title and content. The image cache is
// only written when writeCache is true, so a regeneration that resolved no
// new images never rewrites the column.
func (s *SiteStore) Update(site *models.Site, writeCache bool) error {
	var (
		res sql.Result
		err error
	)
	if writeCache {
		res, err = s.db.Exec(`
			UPDATE sites SET title = $1, content = $2, image_cache = $3, updated_at = NOW()
			WHERE id = $4
		`, site.Title, site.Content, site.ImageCache, site.ID)
	} else {
		res, err = s.db.Exec(`
			UPDATE sites SET title = $1, content = $2, updated_at = NOW()
			WHERE id = $3
		`, site.Title, site.Content, site.ID)
	}
	if err != nil {
		return fmt.Errorf("update site: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update site %s: %w", site.ID, sql.ErrNoRows)
	}
	return nil
}

// ListByUser returns a user's sites, most recently updated first.
func (s *SiteStore) ListByUser(userID uuid.UUID) ([]models.Site, error) {
	return s.list("list sites by user", `WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
}

// ListShowcase returns approved public sites, newest first.
func (s *SiteStore) ListShowcase() ([]models.Site, error) {
	return s.list("list showcase sites",
		`WHERE status = $1 AND is_public ORDER BY created_at DESC`, models.SiteStatusApproved)
}

// ListByStatus returns all sites in the given review status, newest first.
func (s *SiteStore) ListByStatus(status models.SiteStatus) ([]models.Site, error) {
	return s.list("list sites by status", `WHERE status = $1 ORDER BY created_at DESC`, status)
}

// Delete removes a site by ID. Reports whether a row was deleted.
func (s *SiteStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM sites WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete site: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteOwned removes a site only if it belongs to userID.
// Reports whether a row was deleted.
func (s *SiteStore) DeleteOwned(id, userID uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM sites WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete owned site: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Submit moves a user's own site into the review queue. Returns nil if the
// site does not exist or belongs to someone else.
func (s *SiteStore) Submit(id, userID uuid.UUID) (*models.Site, error) {
	site, err := scanSite(s.db.QueryRow(`
		UPDATE sites SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING `+siteColumns,
		models.SiteStatusPending, id, userID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("submit site: %w", err)
	}
	return site, nil
}

// Review records an admin decision. The subdomain is kept when nil is passed.
// Returns nil if the site does not exist.
func (s *SiteStore) Review(id uuid.UUID, status models.SiteStatus, isPublic bool, subdomain *string) (*models.Site, error) {
	site, err := scanSite(s.db.QueryRow(`
		UPDATE sites
		SET status = $1, is_public = $2, subdomain = COALESCE($3, subdomain), updated_at = NOW()
		WHERE id = $4
		RETURNING `+siteColumns,
		status, isPublic, subdomain, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("review site: subdomain %w", ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("review site: %w", err)
	}
	return site, nil
}

// Clone copies a site into userID's account as a private draft. Content and
// image cache are copied so the clone reuses the already resolved images.
// Returns nil if the source site does not exist.
func (s *SiteStore) Clone(id, userID uuid.UUID) (*models.Site, error) {
	site, err := scanSite(s.db.QueryRow(`
		INSERT INTO sites (user_id, title, prompt, content, image_cache, is_public, status)
		SELECT $1, title || ' (Clone)', prompt, content, image_cache, FALSE, $2
		FROM sites WHERE id = $3
		RETURNING `+siteColumns,
		userID, models.SiteStatusDraft, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("clone site: %w", err)
	}
	return site, nil
}

// IncrementViews bumps the view counter of a site.
func (s *SiteStore) IncrementViews(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE sites SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment site views: %w", err)
	}
	return nil
}
