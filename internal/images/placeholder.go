// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package images

import (
	"regexp"
	"strings"

	"stackify/internal/models"
)

// PlaceholderPrefix marks an image the model wants but has no URL for.
// The generation instruction tells the model to write src="AI_IMAGE:<description>".
const PlaceholderPrefix = "AI_IMAGE:"

// placeholderPattern matches src="AI_IMAGE:..." or src='AI_IMAGE:...'.
// The description runs to the matching closing quote; there is no escaping.
// Unterminated or mismatched quotes do not match and are left as-is.
var placeholderPattern = regexp.MustCompile(
	`src="` + regexp.QuoteMeta(PlaceholderPrefix) + `([^"]+)"` +
		`|src='` + regexp.QuoteMeta(PlaceholderPrefix) + `([^']+)'`,
)

// FindPlaceholders returns the descriptions of every placeholder in code,
// in order of appearance, duplicates included.
func FindPlaceholders(code string) []string {
	var out []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(code, -1) {
		if m[1] != "" {
			out = append(out, m[1])
		} else {
			out = append(out, m[2])
		}
	}
	return out
}

// ReplacePlaceholders rewrites every placeholder in code to src="<url>",
// keeping the attribute's original quote character. URLs come from cache
// when present; misses are resolved through src and added to cache, which
// must be non-nil. The returned bool reports whether cache was modified.
func ReplacePlaceholders(code string, cache models.ImageCache, src Source) (string, bool) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(code, -1)
	if len(matches) == 0 {
		return code, false
	}

	var b strings.Builder
	b.Grow(len(code))
	dirty := false
	last := 0

	for _, m := range matches {
		quote := `"`
		description := ""
		if m[2] >= 0 {
			description = code[m[2]:m[3]]
		} else {
			quote = `'`
			description = code[m[4]:m[5]]
		}

		url, ok := cache.Lookup(description)
		if !ok {
			url = src.Resolve(description)
			cache[description] = url
			dirty = true
		}

		b.WriteString(code[last:m[0]])
		b.WriteString("src=")
		b.WriteString(quote)
		b.WriteString(url)
		b.WriteString(quote)
		last = m[1]
	}
	b.WriteString(code[last:])

	return b.String(), dirty
}
