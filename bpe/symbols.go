// Package bpe implements a Sennrich-style byte-pair-encoding subword tokenizer.
//
// A tokenizer is trained from a text corpus with Train, which learns an ordered
// list of merge rules and a vocabulary mapping symbols to integer ids. A Codec
// then applies the frozen model to encode arbitrary text into ids and decode
// ids back into text.
package bpe

import (
	"strings"
	"unicode/utf8"
)

// Symbol is one atomic unit of the evolving text representation: a single
// character, the word-end marker, or a previously merged multi-character unit.
// Symbols are immutable and compare by their string form.
type Symbol string

// WordEnd is appended to every word during segmentation, so merges never cross
// word boundaries. It may still be absorbed as the right element of a merge.
const WordEnd Symbol = "</w>"

// Special tokens, stored at the lowest vocabulary ids in this order.
const (
	Pad     Symbol = "<pad>"
	Unknown Symbol = "<unk>"
	BOS     Symbol = "<bos>"
	EOS     Symbol = "<eos>"
)

// SpecialSymbols returns the special tokens in vocabulary id order.
func SpecialSymbols() []Symbol {
	return []Symbol{Pad, Unknown, BOS, EOS}
}

func isSpecial(s Symbol) bool {
	switch s {
	case Pad, Unknown, BOS, EOS:
		return true
	}
	return false
}

// Word is an ordered sequence of symbols ending with WordEnd.
type Word []Symbol

// Pair is an ordered pair of adjacent symbols, used to key the pair-frequency
// table directly, without string concatenation.
type Pair struct {
	Left, Right Symbol
}

// Merged returns the symbol that results from merging the pair.
func (p Pair) Merged() Symbol {
	return p.Left + p.Right
}

// less orders pairs lexicographically by (Left, Right). It is the tie-break
// between pairs of equal frequency, making training fully reproducible.
func (p Pair) less(other Pair) bool {
	if p.Left != other.Left {
		return p.Left < other.Left
	}
	return p.Right < other.Right
}

// Normalize collapses runs of whitespace to single spaces and trims the ends.
// It is the only text normalization applied before segmentation.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Segment splits text into whitespace-separated words, each represented as a
// sequence of single-character symbols with WordEnd appended.
// Empty (or all-whitespace) input yields an empty corpus, not an error.
func Segment(text string) []Word {
	fields := strings.Fields(text)
	words := make([]Word, 0, len(fields))
	for _, field := range fields {
		word := make(Word, 0, utf8.RuneCountInString(field)+1)
		for _, r := range field {
			word = append(word, Symbol(r))
		}
		words = append(words, append(word, WordEnd))
	}
	return words
}

// Flatten reconstructs readable text from a sequence of symbols: symbol string
// forms are concatenated and every word-end marker (including markers embedded
// in merged symbols) becomes a word separator. It is the exact inverse of
// Segment for normalized text.
func Flatten(symbols []Symbol) string {
	var sb strings.Builder
	for _, s := range symbols {
		sb.WriteString(string(s))
	}
	text := strings.ReplaceAll(sb.String(), string(WordEnd), " ")
	return strings.TrimSuffix(text, " ")
}

// InitialSymbolCount is the number of symbols text segments into before any
// merge applies: one per character of each word, plus one word-end marker per
// word. It is the numerator of compression ratios.
func InitialSymbolCount(text string) int {
	n := 0
	for _, field := range strings.Fields(text) {
		n += utf8.RuneCountInString(field) + 1
	}
	return n
}
