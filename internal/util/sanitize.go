package util

import (
	"regexp"
	"strings"
)

var nonAlphaNum = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeID converts a string into a valid D2 identifier.
// D2 identifiers must be alphanumeric with hyphens/underscores.
func SanitizeID(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = nonAlphaNum.ReplaceAllString(s, "")
	if s == "" {
		return "unknown"
	}
	return s
}

// Quote wraps a string in double quotes for D2 labels.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

var nonAlphaNumStrict = regexp.MustCompile(`[^A-Z0-9]`)

// InventoryName converts a hostname or group into an inventory entity name.
// Inventory names are uppercase alphanumeric, so "web-01.lan" becomes "WEB01LAN".
func InventoryName(s string) string {
	return nonAlphaNumStrict.ReplaceAllString(strings.ToUpper(s), "")
}
