// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

// newMistral creates a Mistral provider. Mistral's chat completions API is
// OpenAI-compatible, so the OpenAI client is reused with a different base URL.
func newMistral(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mistral.ai/v1"
	}
	p := newOpenAI(cfg)
	p.name = "mistral"
	return p
}
