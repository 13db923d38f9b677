package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"
)

// DigitsOnly strips every non-digit rune.
// "Class 12" -> "12". Returns "" when no digit is present.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanID trims whitespace from an externally supplied id.
// Route params and JSON ids arrive with stray whitespace often enough
// that every lookup normalizes through this.
func CleanID(id string) string {
	return strings.TrimSpace(id)
}

// GenerateHexID returns a random 16-char hex string, the id format used
// across all entities.
func GenerateHexID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the platform is broken; nothing
		// sensible to fall back to.
		panic(err)
	}
	return hex.EncodeToString(b)
}

// EqualFold reports case-insensitive equality after trimming.
func EqualFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
