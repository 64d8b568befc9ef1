package bpe

import (
	"github.com/pkg/errors"

	subword "github.com/gomlx/go-subword"
)

// Codec encodes text into vocabulary ids and back, using a frozen Model.
//
// The model is read-only, so a single Codec (or several sharing one model) may
// be used from concurrent goroutines.
type Codec struct {
	model           *Model
	unknownFallback bool
}

// Compile time assert that Codec implements the subword.Tokenizer interface.
var _ subword.Tokenizer = &Codec{}

// NewCodec creates a Codec over the given model. By default encoding is
// strict: characters outside the trained alphabet fail with
// UnknownSymbolError.
func NewCodec(model *Model) *Codec {
	return &Codec{model: model}
}

// WithUnknownFallback configures out-of-alphabet characters to encode as the
// Unknown special token instead of failing. This is an explicit choice, not
// the default.
func (c *Codec) WithUnknownFallback(enabled bool) *Codec {
	c.unknownFallback = enabled
	return c
}

// Model returns the frozen model backing the codec.
func (c *Codec) Model() *Model {
	return c.model
}

// Encode converts text into a sequence of vocabulary ids.
//
// The text is segmented exactly as during training, then every merge rule is
// replayed in learned order (not re-derived from frequencies), with the same
// greedy left-to-right non-overlapping scan the trainer uses. Word boundaries
// stay in band as word-end tokens. Empty input returns an empty sequence.
func (c *Codec) Encode(text string) ([]int, error) {
	words := Segment(text)
	for _, rule := range c.model.merges {
		pair := Pair{Left: rule.Left, Right: rule.Right}
		for i, word := range words {
			words[i] = mergeWord(word, pair, rule.Result)
		}
	}

	unknownID, _ := c.model.vocab.ID(Unknown)
	ids := make([]int, 0, len(words)*2)
	for _, word := range words {
		for _, s := range word {
			id, found := c.model.vocab.ID(s)
			if !found {
				if !c.unknownFallback {
					return nil, &UnknownSymbolError{Symbol: s}
				}
				id = unknownID
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Decode maps ids back to their symbols and reconstructs the text, converting
// word-end markers into spaces. Special tokens are dropped from the surface
// form. For any text fully representable in the trained alphabet,
// Decode(Encode(text)) returns the (normalized) text unchanged.
func (c *Codec) Decode(ids []int) (string, error) {
	symbols := make([]Symbol, 0, len(ids))
	for _, id := range ids {
		s, found := c.model.vocab.Symbol(id)
		if !found {
			return "", errors.Errorf("invalid token id %d for vocabulary of size %d", id, c.model.vocab.Size())
		}
		if isSpecial(s) {
			continue
		}
		symbols = append(symbols, s)
	}
	return Flatten(symbols), nil
}

// CompressionRatio measures how many initial symbols (characters plus one
// word-end per word) each token represents: InitialSymbolCount(text) divided
// by the token count Encode produces. It is exactly 1.0 against a model with
// zero merges, grows as merges apply, and is 0 for empty text.
func (c *Codec) CompressionRatio(text string) (float64, error) {
	ids, err := c.Encode(text)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return float64(InitialSymbolCount(text)) / float64(len(ids)), nil
}

// Tokenization is the read-only view over one Encode/Decode round, as shown by
// interactive demos.
type Tokenization struct {
	IDs              []int
	TokenCount       int
	CompressionRatio float64
	Decoded          string
}

// Tokenize runs Encode, Decode and CompressionRatio over the text in one call.
func (c *Codec) Tokenize(text string) (*Tokenization, error) {
	ids, err := c.Encode(text)
	if err != nil {
		return nil, err
	}
	decoded, err := c.Decode(ids)
	if err != nil {
		return nil, err
	}
	ratio := 0.0
	if len(ids) > 0 {
		ratio = float64(InitialSymbolCount(text)) / float64(len(ids))
	}
	return &Tokenization{
		IDs:              ids,
		TokenCount:       len(ids),
		CompressionRatio: ratio,
		Decoded:          decoded,
	}, nil
}
