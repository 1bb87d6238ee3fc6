// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	claudeBaseURL    = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"

	// claudeStopMaxTokens is the stop reason of a reply cut off by max_tokens.
	claudeStopMaxTokens = "max_tokens"
)

// claudeProvider talks to the Anthropic Messages API.
type claudeProvider struct {
	config ProviderConfig
	client *http.Client
}

func newClaude(cfg ProviderConfig) *claudeProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = claudeBaseURL
	}
	return &claudeProvider{config: cfg, client: &http.Client{Timeout: cfg.timeout()}}
}

func (p *claudeProvider) Name() string { return "claude" }

// Generate asks for a site document and returns the joined text blocks of
// the reply. A reply cut off at the token cap is an error: the document
// would be incomplete JSON.
func (p *claudeProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	result, err := p.send(ctx, claudeRequest{
		Model:     p.config.Model,
		MaxTokens: p.config.maxTokens(),
		System:    systemPrompt,
		Messages:  []claudeMessage{{Role: "user", Content: userPrompt}},
	})
	if err != nil {
		return "", err
	}

	text := result.text()
	if result.StopReason == claudeStopMaxTokens {
		return "", fmt.Errorf("claude: reply truncated at %d tokens (%d characters received)",
			p.config.maxTokens(), len(text))
	}
	if text == "" {
		return "", fmt.Errorf("claude: no text content in response")
	}
	return text, nil
}

// send posts one Messages request and decodes a successful reply.
func (p *claudeProvider) send(ctx context.Context, body claudeRequest) (*claudeResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("claude marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("claude request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.config.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("claude http: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("claude read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, claudeStatusError(resp.StatusCode, raw)
	}

	var result claudeResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("claude unmarshal: %w", err)
	}
	return &result, nil
}

// claudeStatusError reports a non-200 reply. Anthropic error envelopes are
// reduced to their type and message; anything else is quoted as is.
func claudeStatusError(status int, raw []byte) error {
	var env claudeErrorEnvelope
	if json.Unmarshal(raw, &env) == nil && env.Error.Message != "" {
		return fmt.Errorf("claude API error (status %d, %s): %s", status, env.Error.Type, env.Error.Message)
	}
	return fmt.Errorf("claude API error (status %d): %s", status, string(raw))
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	Content    []claudeContentBlock `json:"content"`
	StopReason string               `json:"stop_reason"`
}

// text joins every text block; other block types are skipped.
func (r *claudeResponse) text() string {
	var b strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

type claudeErrorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
