package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for category fields.
const (
	maxNameLen        = 200
	maxIconLen        = 100
	maxColorLen       = 50
	maxDescriptionLen = 2_000
)

// validateCategory checks create-category inputs and returns the first
// error found, or "" when the inputs are acceptable.
func validateCategory(name, icon, color, description string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	if strings.TrimSpace(icon) == "" {
		return "Icon is required."
	}
	if utf8.RuneCountInString(icon) > maxIconLen {
		return "Icon is too long (max 100 characters)."
	}
	if strings.TrimSpace(color) == "" {
		return "Color is required."
	}
	if utf8.RuneCountInString(color) > maxColorLen {
		return "Color is too long (max 50 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 2,000 characters)."
	}
	return ""
}
