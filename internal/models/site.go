// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SiteStatus tracks a site through the showcase review workflow.
type SiteStatus string

const (
	SiteStatusDraft    SiteStatus = "draft"
	SiteStatusPending  SiteStatus = "pending"
	SiteStatusApproved SiteStatus = "approved"
	SiteStatusRejected SiteStatus = "rejected"
)

// Block is one named HTML section of a generated page (e.g. "nav", "hero").
type Block struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// SiteContent is the structured page description produced by the model:
// a title plus the ordered list of blocks. Stored as JSONB.
type SiteContent struct {
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// Value implements driver.Valuer so SiteContent can be written to a JSONB column.
func (c SiteContent) Value() (driver.Value, error) {
	if c.Blocks == nil {
		c.Blocks = []Block{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal site content: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for JSONB site content.
func (c *SiteContent) Scan(src any) error {
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scan site content: %w", err)
	}
	*c = SiteContent{}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, c)
}

// ImageCache maps the raw placeholder description, exactly as the model
// wrote it, to the image URL it resolved to. Entries are only ever added.
type ImageCache map[string]string

// Lookup returns the cached URL for a description.
func (ic ImageCache) Lookup(description string) (string, bool) {
	url, ok := ic[description]
	return url, ok
}

// Clone returns an independent copy of the cache. A nil cache clones to an
// empty, writable one.
func (ic ImageCache) Clone() ImageCache {
	out := make(ImageCache, len(ic))
	for k, v := range ic {
		out[k] = v
	}
	return out
}

// Value implements driver.Valuer so the cache can be written to a JSONB column.
func (ic ImageCache) Value() (driver.Value, error) {
	if ic == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(map[string]string(ic))
	if err != nil {
		return nil, fmt.Errorf("marshal image cache: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for a JSONB image cache.
func (ic *ImageCache) Scan(src any) error {
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scan image cache: %w", err)
	}
	m := make(map[string]string)
	if len(b) > 0 {
		if err := json.Unmarshal(b, &m); err != nil {
			return fmt.Errorf("scan image cache: %w", err)
		}
	}
	*ic = m
	return nil
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", src)
	}
}

// Site is a generated website owned by a user. Content and ImageCache are
// persisted as JSONB; the cache survives regenerations of the same site.
type Site struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"user_id"`
	Title      string      `json:"title"`
	Prompt     string      `json:"prompt"`
	Content    SiteContent `json:"content"`
	ImageCache ImageCache  `json:"image_cache"`
	IsPublic   bool        `json:"is_public"`
	Status     SiteStatus  `json:"status"`
	Subdomain  *string     `json:"subdomain,omitempty"`
	Views      int         `json:"views"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// IsNew reports whether the site has not been persisted yet.
func (s *Site) IsNew() bool {
	return s.ID == uuid.Nil
}

// IsOwnedBy returns true if the given user owns the site.
func (s *Site) IsOwnedBy(userID uuid.UUID) bool {
	return s.UserID == userID
}

// IsShowcased returns true if the site is approved and publicly listed.
func (s *Site) IsShowcased() bool {
	return s.IsPublic && s.Status == SiteStatusApproved
}

// VisibleTo returns true if the site may be read by the given user.
// Public sites are visible to everyone, private ones only to their owner.
func (s *Site) VisibleTo(userID uuid.UUID) bool {
	return s.IsPublic || s.IsOwnedBy(userID)
}
