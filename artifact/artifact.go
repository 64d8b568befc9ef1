// Package artifact defines the serialized form of a trained BPE model.
//
// The artifact is the sole contract between the trainer and codecs running in
// separate processes or sessions: it carries the vocabulary in id order, the
// ordered merge rule list, and training metadata. Artifacts are validated
// structurally on load, so a Codec never runs over a corrupt vocabulary.
package artifact

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gomlx/go-subword/bpe"
)

// FormatVersion written into new artifacts. Loading rejects other versions.
const FormatVersion = 1

// CorruptArtifactError reports an artifact that failed structural validation:
// id collisions, rules referencing non-existent ids, duplicate rules, etc.
type CorruptArtifactError struct {
	Reason string
}

func (e *CorruptArtifactError) Error() string {
	return "corrupt artifact: " + e.Reason
}

func corruptf(format string, args ...any) error {
	return &CorruptArtifactError{Reason: fmt.Sprintf(format, args...)}
}

// VocabEntry is one (symbol, id) row of the vocabulary, listed in id order.
type VocabEntry struct {
	Symbol string `json:"symbol"`
	ID     int    `json:"id"`
}

// Merge is one learned rule: Left followed by Right merges into the vocabulary
// symbol stored under ResultID. Rules are listed in the order they were
// learned and must be replayed in that order.
type Merge struct {
	Left     string `json:"left"`
	Right    string `json:"right"`
	ResultID int    `json:"result_id"`
}

// Artifact is the persisted vocabulary of a trained tokenizer.
type Artifact struct {
	FormatVersion int    `json:"format_version"`
	ID            string `json:"id"`

	BoundaryMarker             string  `json:"boundary_marker"`
	TargetVocabSize            int     `json:"target_vocab_size"`
	CorpusChars                int     `json:"corpus_chars"`
	ValidationCompressionRatio float64 `json:"validation_compression_ratio"`

	Vocab  []VocabEntry `json:"vocab"`
	Merges []Merge      `json:"merges"`
}

// Metadata recorded in the artifact next to the vocabulary itself.
type Metadata struct {
	TargetVocabSize            int
	CorpusChars                int
	ValidationCompressionRatio float64
}

// New builds an artifact from a trained model, minting a fresh artifact id.
func New(model *bpe.Model, meta Metadata) *Artifact {
	a := &Artifact{
		FormatVersion:              FormatVersion,
		ID:                         uuid.NewString(),
		BoundaryMarker:             string(bpe.WordEnd),
		TargetVocabSize:            meta.TargetVocabSize,
		CorpusChars:                meta.CorpusChars,
		ValidationCompressionRatio: meta.ValidationCompressionRatio,
	}
	for id, symbol := range model.Symbols() {
		a.Vocab = append(a.Vocab, VocabEntry{Symbol: string(symbol), ID: id})
	}
	for _, rule := range model.Merges() {
		a.Merges = append(a.Merges, Merge{
			Left:     string(rule.Left),
			Right:    string(rule.Right),
			ResultID: rule.ID,
		})
	}
	return a
}

// Validate checks the artifact structurally and returns a CorruptArtifactError
// describing the first problem found, if any.
func (a *Artifact) Validate() error {
	if a.FormatVersion != FormatVersion {
		return corruptf("unsupported format version %d (this library reads version %d)",
			a.FormatVersion, FormatVersion)
	}
	if len(a.Vocab) == 0 {
		return corruptf("empty vocabulary")
	}
	if a.BoundaryMarker == "" {
		return corruptf("missing boundary marker")
	}

	ids := make(map[string]int, len(a.Vocab))
	boundaryFound := false
	for i, entry := range a.Vocab {
		if entry.ID != i {
			return corruptf("vocabulary entry %q has id %d, expected contiguous id %d",
				entry.Symbol, entry.ID, i)
		}
		if _, duplicate := ids[entry.Symbol]; duplicate {
			return corruptf("symbol %q appears twice in the vocabulary", entry.Symbol)
		}
		ids[entry.Symbol] = entry.ID
		if entry.Symbol == a.BoundaryMarker {
			boundaryFound = true
		}
	}
	if !boundaryFound {
		return corruptf("boundary marker %q is not in the vocabulary", a.BoundaryMarker)
	}

	seenPairs := make(map[[2]string]bool, len(a.Merges))
	previousResultID := -1
	for i, merge := range a.Merges {
		pair := [2]string{merge.Left, merge.Right}
		if seenPairs[pair] {
			return corruptf("duplicate merge rule #%d for pair (%q, %q)", i, merge.Left, merge.Right)
		}
		seenPairs[pair] = true

		leftID, found := ids[merge.Left]
		if !found {
			return corruptf("merge rule #%d references unknown left symbol %q", i, merge.Left)
		}
		rightID, found := ids[merge.Right]
		if !found {
			return corruptf("merge rule #%d references unknown right symbol %q", i, merge.Right)
		}
		if merge.ResultID < 0 || merge.ResultID >= len(a.Vocab) {
			return corruptf("merge rule #%d result id %d is outside the vocabulary", i, merge.ResultID)
		}
		if result := a.Vocab[merge.ResultID].Symbol; result != merge.Left+merge.Right {
			return corruptf("merge rule #%d (%q, %q) does not match the symbol %q at id %d",
				i, merge.Left, merge.Right, result, merge.ResultID)
		}
		if merge.ResultID <= leftID || merge.ResultID <= rightID {
			return corruptf("merge rule #%d result id %d is not greater than its constituents (%d, %d)",
				i, merge.ResultID, leftID, rightID)
		}
		if merge.ResultID <= previousResultID {
			return corruptf("merge rule #%d result id %d is not strictly increasing (previous %d)",
				i, merge.ResultID, previousResultID)
		}
		previousResultID = merge.ResultID
	}
	return nil
}

// Model validates the artifact and reconstructs the frozen bpe.Model it
// describes.
func (a *Artifact) Model() (*bpe.Model, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	symbols := make([]bpe.Symbol, len(a.Vocab))
	for i, entry := range a.Vocab {
		symbols[i] = bpe.Symbol(entry.Symbol)
	}
	merges := make([]bpe.MergeRule, len(a.Merges))
	for i, merge := range a.Merges {
		merges[i] = bpe.MergeRule{
			Left:   bpe.Symbol(merge.Left),
			Right:  bpe.Symbol(merge.Right),
			Result: bpe.Symbol(merge.Left + merge.Right),
			ID:     merge.ResultID,
		}
	}
	model, err := bpe.NewModel(symbols, merges)
	if err != nil {
		return nil, corruptf("%v", err)
	}
	return model, nil
}
