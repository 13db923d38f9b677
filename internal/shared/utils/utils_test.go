package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "12", DigitsOnly("Class 12"))
	assert.Equal(t, "11", DigitsOnly("11th"))
	assert.Equal(t, "2024", DigitsOnly("20-24"))
	assert.Equal(t, "", DigitsOnly("Senior"))
	assert.Equal(t, "", DigitsOnly(""))
}

func TestCleanID(t *testing.T) {
	assert.Equal(t, "abc123", CleanID("  abc123\n"))
	assert.Equal(t, "abc123", CleanID("abc123"))
	assert.Equal(t, "", CleanID("   "))
}

func TestGenerateHexID(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := GenerateHexID()
		assert.Len(t, id, 16)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold(" CS-45-12 ", "cs-45-12"))
	assert.False(t, EqualFold("CS-45-12", "CS-45-13"))
}
