package core

import (
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// SanitizeString strips any markup from user input before it is stored.
// Remaining special characters are kept as HTML entities.
func SanitizeString(s string) string {
	return CleanString(strictPolicy.Sanitize(CleanString(s)))
}

// EscapeHTML neutralizes markup right before text is rendered.
// Stored text is already sanitized; both steps are applied regardless.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// NewID returns a random unique id starting with prefix.
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.New().String(), "-", "")
}
