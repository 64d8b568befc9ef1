package bpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"   ", ""},
		{"ab", "ab"},
		{"  ab   cd ", "ab cd"},
		{"a\tb\nc", "a b c"},
		{"తెలుగు  వాక్యం", "తెలుగు వాక్యం"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Normalize(tc.input))
	}
}

func TestSegment(t *testing.T) {
	words := Segment("ab x")
	require.Len(t, words, 2)
	assert.Equal(t, Word{"a", "b", WordEnd}, words[0])
	assert.Equal(t, Word{"x", WordEnd}, words[1])

	assert.Empty(t, Segment(""))
	assert.Empty(t, Segment(" \t\n"))

	// Multi-byte characters segment per rune, not per byte.
	words = Segment("దీపం")
	require.Len(t, words, 1)
	assert.Len(t, words[0], 5)
	assert.Equal(t, WordEnd, words[0][len(words[0])-1])
}

func TestFlattenInvertsSegment(t *testing.T) {
	for _, text := range []string{"", "ab", "ab cd ef", "తెలుగు వాక్యం ఇక్కడ"} {
		var symbols []Symbol
		for _, word := range Segment(text) {
			symbols = append(symbols, word...)
		}
		assert.Equal(t, Normalize(text), Flatten(symbols))
	}
}

func TestFlattenEmbeddedMarker(t *testing.T) {
	// Merged symbols may absorb the word-end marker; it still separates words.
	assert.Equal(t, "ba ba", Flatten([]Symbol{"ba</w>", "ba</w>"}))
	assert.Equal(t, "ab cd", Flatten([]Symbol{"ab", WordEnd, "c", "d", WordEnd}))
}

func TestInitialSymbolCount(t *testing.T) {
	assert.Equal(t, 0, InitialSymbolCount(""))
	assert.Equal(t, 3, InitialSymbolCount("ab"))
	assert.Equal(t, 5, InitialSymbolCount("ab x"))
	assert.Equal(t, 6, InitialSymbolCount("  ab   ab "))
}
