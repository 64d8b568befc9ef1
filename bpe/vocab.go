package bpe

import (
	"slices"

	"github.com/pkg/errors"
)

// Vocabulary maps symbols to integer ids, ordered by time of creation: special
// tokens first, then the initial alphabet observed in the corpus (sorted), then
// one entry per merge rule in the order the merges were learned.
//
// A Vocabulary is frozen once training (or artifact loading) completes, and is
// then safe for concurrent readers.
type Vocabulary struct {
	symbols []Symbol
	ids     map[Symbol]int
}

func newVocabulary() *Vocabulary {
	return &Vocabulary{ids: make(map[Symbol]int)}
}

// add registers the symbol under the next unused id and returns that id.
// If the symbol is already present, its existing id is returned instead.
func (v *Vocabulary) add(s Symbol) int {
	if id, found := v.ids[s]; found {
		return id
	}
	id := len(v.symbols)
	v.symbols = append(v.symbols, s)
	v.ids[s] = id
	return id
}

// ID returns the id assigned to the symbol, if any.
func (v *Vocabulary) ID(s Symbol) (int, bool) {
	id, found := v.ids[s]
	return id, found
}

// Symbol returns the symbol stored under the id, if the id is in range.
func (v *Vocabulary) Symbol(id int) (Symbol, bool) {
	if id < 0 || id >= len(v.symbols) {
		return "", false
	}
	return v.symbols[id], true
}

// Size returns the number of symbols in the vocabulary.
func (v *Vocabulary) Size() int {
	return len(v.symbols)
}

// MergeRule records one learned merge: Left followed by Right becomes Result,
// stored in the vocabulary under ID. Rules form a strictly ordered sequence and
// must be replayed in that exact order when encoding.
type MergeRule struct {
	Left, Right Symbol
	Result      Symbol
	ID          int
}

// Model is a frozen trained tokenizer: the vocabulary plus the ordered merge
// rule list. Models are immutable after construction, so any number of Codec
// instances and goroutines may share one.
type Model struct {
	vocab  *Vocabulary
	merges []MergeRule
}

// NewModel reconstructs a model from a vocabulary given in id order and the
// ordered merge rule list, typically decoded from a saved artifact.
func NewModel(symbols []Symbol, merges []MergeRule) (*Model, error) {
	vocab := newVocabulary()
	for id, s := range symbols {
		if got := vocab.add(s); got != id {
			return nil, errors.Errorf("duplicate symbol %q at ids %d and %d", string(s), got, id)
		}
	}
	for i, rule := range merges {
		stored, found := vocab.Symbol(rule.ID)
		if !found {
			return nil, errors.Errorf("merge rule #%d result id %d is outside the vocabulary", i, rule.ID)
		}
		if stored != rule.Result || rule.Result != rule.Left+rule.Right {
			return nil, errors.Errorf("merge rule #%d (%q, %q) does not produce the symbol %q stored at id %d",
				i, string(rule.Left), string(rule.Right), string(stored), rule.ID)
		}
	}
	return &Model{vocab: vocab, merges: slices.Clone(merges)}, nil
}

// Vocabulary returns the model's (frozen) vocabulary.
func (m *Model) Vocabulary() *Vocabulary {
	return m.vocab
}

// Symbols returns a copy of the vocabulary's symbols in id order.
func (m *Model) Symbols() []Symbol {
	return slices.Clone(m.vocab.symbols)
}

// Merges returns a copy of the ordered merge rule list.
func (m *Model) Merges() []MergeRule {
	return slices.Clone(m.merges)
}

// VocabSize returns the total vocabulary size, specials and merges included.
func (m *Model) VocabSize() int {
	return m.vocab.Size()
}
