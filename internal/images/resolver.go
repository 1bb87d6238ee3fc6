// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package images

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultEndpoint is the thumbnail search endpoint used when none is configured.
	DefaultEndpoint = "https://tse2.mm.bing.net/th"

	DefaultWidth  = 1024
	DefaultHeight = 600
)

// Source resolves a placeholder description to an image URL.
type Source interface {
	Resolve(description string) string
}

// Resolver builds image-search URLs for placeholder descriptions.
// It is safe for concurrent use; it holds no mutable state.
type Resolver struct {
	endpoint string
	width    int
	height   int
}

// NewResolver creates a resolver for the given search endpoint and image
// dimensions. Zero values fall back to the defaults.
func NewResolver(endpoint string, width, height int) *Resolver {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Resolver{endpoint: endpoint, width: width, height: height}
}

// Resolve returns the search URL for a description. The same description
// always yields the same URL, which is what makes per-site caching safe.
func (r *Resolver) Resolve(description string) string {
	sep := "?"
	if strings.Contains(r.endpoint, "?") {
		sep = "&"
	}
	// PathEscape encodes spaces as %20 rather than "+".
	q := url.PathEscape(Sanitize(description))
	return fmt.Sprintf("%s%sq=%s&w=%d&h=%d&c=7&rs=1&p=0", r.endpoint, sep, q, r.width, r.height)
}
