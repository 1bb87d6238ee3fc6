// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package salvage recovers the site JSON object from raw model output.
// Models wrap JSON in markdown fences, add chatty preambles, and leak control
// characters into strings; Parse repairs exactly those three problems and
// nothing else.
package salvage

import (
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"stackify/internal/models"
)

// ErrMalformed is matched (via errors.Is) by every error Parse returns.
var ErrMalformed = errors.New("malformed model output")

// Error describes why the model output could not be recovered.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "malformed model output: " + e.Reason }

// Is lets errors.Is(err, ErrMalformed) match any *Error.
func (e *Error) Is(target error) bool { return target == ErrMalformed }

// fencePattern matches markdown code-fence markers with an optional language tag.
var fencePattern = regexp.MustCompile("```[A-Za-z0-9_+-]*")

// rawContent mirrors SiteContent with a pointer title so a missing title can
// be told apart from an empty one.
type rawContent struct {
	Title  *string        `json:"title"`
	Blocks []models.Block `json:"blocks"`
}

// Parse extracts a SiteContent from raw model text. The repair sequence is
// fixed: strip fences, slice from the first '{' to the last '}', decode,
// and on failure strip control characters and decode once more.
func Parse(raw string) (*models.SiteContent, error) {
	text := fencePattern.ReplaceAllString(raw, "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &Error{Reason: "no JSON object found"}
	}
	text = text[start : end+1]

	content, err := decode(text)
	if err == nil {
		return content, nil
	}
	var shapeErr *Error
	if errors.As(err, &shapeErr) {
		// The JSON decoded but has the wrong shape; stripping won't help.
		return nil, err
	}

	slog.Warn("model output is not valid JSON, stripping control characters", "error", err)

	content, err = decode(stripControl(text))
	if err == nil {
		return content, nil
	}
	if errors.As(err, &shapeErr) {
		return nil, err
	}
	return nil, &Error{Reason: err.Error()}
}

// decode strictly decodes one JSON object into SiteContent. JSON errors are
// returned as-is; shape problems are returned as *Error.
func decode(text string) (*models.SiteContent, error) {
	var rc rawContent
	if err := json.Unmarshal([]byte(text), &rc); err != nil {
		return nil, err
	}
	if rc.Title == nil {
		return nil, &Error{Reason: "missing title"}
	}

	blocks := rc.Blocks
	if blocks == nil {
		blocks = []models.Block{}
	}
	return &models.SiteContent{Title: *rc.Title, Blocks: blocks}, nil
}

// stripControl removes C0 (U+0000–U+001F) and C1 (U+007F–U+009F) control
// characters. It works on runes so multi-byte UTF-8 text is left intact.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= 0x1F || (r >= 0x7F && r <= 0x9F) {
			return -1
		}
		return r
	}, s)
}
