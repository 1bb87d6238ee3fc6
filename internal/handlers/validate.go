package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for API inputs.
const (
	maxPromptLen   = 2_000
	maxTitleLen    = 300
	maxUsernameLen = 100
	maxEmailLen    = 255
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt ignores anything longer
	maxBlocks      = 100
	maxBlockLen    = 200_000
)

// validatePrompt checks a generation prompt and returns the first error found.
func validatePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "Prompt is required."
	}
	if utf8.RuneCountInString(prompt) > maxPromptLen {
		return "Prompt is too long (max 2,000 characters)."
	}
	return ""
}

// validateSiteInput checks a site submitted for saving.
func validateSiteInput(in siteInput) string {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(in.Prompt) == "" {
		return "Prompt is required."
	}
	if len(in.Blocks) > maxBlocks {
		return "Too many blocks (max 100)."
	}
	for _, b := range in.Blocks {
		if len(b.Code) > maxBlockLen {
			return "A block is too large (max 200,000 bytes)."
		}
	}
	return ""
}

// validateRegistration checks sign-up inputs.
func validateRegistration(username, email, password string) string {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return "Username is required."
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "Username is too long (max 100 characters)."
	}
	if email == "" || len(email) > maxEmailLen {
		return "A valid email is required."
	}
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return "A valid email is required."
	}
	if len(password) < minPasswordLen {
		return "Password must be at least 6 characters."
	}
	if len(password) > maxPasswordLen {
		return "Password is too long (max 72 bytes)."
	}
	return ""
}
