// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package images turns the model's AI_IMAGE placeholders into image-search
// URLs. It never fetches images itself; it only builds URLs that an external
// search endpoint will answer.
package images

import (
	"regexp"
	"strings"
)

// FallbackQuery is used when a description contains nothing searchable.
const FallbackQuery = "modern architecture"

// stopWords are filler terms the model puts in image descriptions that only
// dilute a search query ("hero image of a cat" should search for "cat").
// Matched as whole words after lower-casing, in this order.
var stopWords = []string{
	"website", "hero", "background", "image", "photo", "picture",
	"high quality", "4k", "landing page", "ui", "view", "section",
	"vector", "illustration",
	"a", "an", "the", "of", "for", "with",
}

var (
	stopWordPatterns = compileStopWords(stopWords)

	// nonQueryChars matches anything that can't appear in a search query.
	nonQueryChars = regexp.MustCompile(`[^a-z0-9 ]`)
)

func compileStopWords(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return out
}

// Sanitize reduces a free-text image description to a compact search query.
// The result only contains [a-z0-9 ] and is never empty.
// Example: "Hero image of a cat" → "cat"
func Sanitize(description string) string {
	q := strings.ToLower(description)
	for _, re := range stopWordPatterns {
		q = re.ReplaceAllString(q, "")
	}
	q = nonQueryChars.ReplaceAllString(q, "")
	q = strings.TrimSpace(q)
	if q == "" {
		return FallbackQuery
	}
	return q
}
