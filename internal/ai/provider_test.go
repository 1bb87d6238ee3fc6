// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestProvidersLive runs a tiny generation against each real API whose key
// is present in the environment. Providers without a key are skipped.
func TestProvidersLive(t *testing.T) {
	providers := []struct {
		name         string
		keyEnv       string
		modelEnv     string
		defaultModel string
	}{
		{"openai", "OPENAI_API_KEY", "OPENAI_MODEL", "gpt-4o"},
		{"gemini", "GEMINI_API_KEY", "GEMINI_MODEL", "gemini-2.5-flash"},
		{"claude", "CLAUDE_API_KEY", "CLAUDE_MODEL", "claude-sonnet-4-5"},
		{"mistral", "MISTRAL_API_KEY", "MISTRAL_MODEL", "mistral-large-latest"},
	}

	for _, p := range providers {
		t.Run(p.name, func(t *testing.T) {
			key := os.Getenv(p.keyEnv)
			if key == "" {
				t.Skipf("%s not set", p.keyEnv)
			}
			model := os.Getenv(p.modelEnv)
			if model == "" {
				model = p.defaultModel
			}

			reg := NewRegistry(p.name, map[string]ProviderConfig{
				p.name: {APIKey: key, Model: model, MaxTokens: 256},
			})

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			result, err := reg.Generate(ctx, "Reply in exactly one short sentence.", "What is 2+2?")
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if result == "" {
				t.Fatal("Generate returned empty string")
			}
			t.Logf("%s response: %s", p.name, result)
		})
	}
}
