// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sitegen

import (
	"fmt"

	"stackify/internal/images"
)

// systemInstruction fixes the model's role and the exact JSON shape the
// salvage parser expects. The image placeholder format must match
// images.FindPlaceholders.
var systemInstruction = fmt.Sprintf(`You are a Senior Frontend Architect. Create a modern, animated website for the user's description.

RULES:
1. ANIMATION: Use 'hover:scale-105', 'hover:-translate-y-1', 'transition-all duration-300' on cards/buttons.
2. LAYOUT: Every section must use 'py-20' or 'py-24' for vertical spacing.
3. COLORS: Use 'bg-slate-900 text-white' for Hero/Footer, 'bg-white text-slate-800' for content.
4. Style with Tailwind CSS utility classes only. Inside HTML attributes use single quotes.

RETURN JSON ONLY (No Markdown, No Conversational Text):
{
  "title": "Site Title",
  "blocks": [
    { "id": "nav", "name": "Navigation Bar", "code": "<nav class='...'>...</nav>" },
    { "id": "hero", "name": "Hero Section", "code": "<header class='...'>...</header>" }
  ]
}

VISUALS: for every image write src='%sdetailed description' and never a real URL.`, images.PlaceholderPrefix)

// userInstruction embeds the user's prompt in the request text.
func userInstruction(prompt string) string {
	return fmt.Sprintf("Create a modern, animated website for: %q", prompt)
}
