// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug builds URL and DNS friendly names for showcased sites.
package slug

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// maxLabel is the longest DNS label allowed.
const maxLabel = 63

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace      = regexp.MustCompile(`\s+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Subdomain derives the showcase subdomain for a site: the slugged title
// followed by the first eight hex digits of the site id, so two sites with
// the same title never collide. The result is a valid DNS label.
func Subdomain(title string, id uuid.UUID) string {
	suffix := strings.ReplaceAll(id.String(), "-", "")[:8]

	base := Generate(title)
	if base == "" {
		base = "site"
	}
	if limit := maxLabel - len(suffix) - 1; len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}
	return base + "-" + suffix
}
