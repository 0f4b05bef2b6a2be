package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{name: "identical", a: "bank central asia", b: "bank central asia", expected: 1.0},
		{name: "both empty", a: "", b: "", expected: 1.0},
		{name: "one empty", a: "abc", b: "", expected: 0.0},
		{name: "single substitution", a: "abcd", b: "abce", expected: 0.75},
		{name: "completely different", a: "aaaa", b: "bbbb", expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"telkom", "telkom indonesia", 10},
		{"bbca", "bbca", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, levenshteinDistance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestContainsAny(t *testing.T) {
	words := []string{"berita", "news"}
	assert.True(t, containsAny("berita terbaru hari ini", words))
	assert.False(t, containsAny("halo apa kabar", words))
	assert.False(t, containsAny("", words))
}
