// Package training implements the end-to-end training entry point: it splits
// the corpus, trains the BPE model, measures compression on the validation
// side, and assembles the persistable artifact.
package training

import (
	"log"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/gomlx/go-subword/artifact"
	"github.com/gomlx/go-subword/bpe"
	"github.com/gomlx/go-subword/corpus"
)

// Config for one training run.
type Config struct {
	// TargetVocabSize caps the vocabulary, merges included.
	TargetVocabSize int

	// MinPairFrequency stops merging pairs rarer than this. Defaults to 1.
	MinPairFrequency int

	// ValRatio is the share of texts held out for validation. Defaults to 0.1.
	ValRatio float64

	// Seed drives the train/validation shuffle, making the split reproducible.
	Seed int64

	// Verbosity: 0 for quiet operation; 1 to log the training summary.
	Verbosity int

	// Progress, if not nil, reports each learned merge.
	Progress bpe.ProgressFn
}

// Summary of a completed training run.
type Summary struct {
	VocabSize                  int
	MergeCount                 int
	CorpusChars                int
	ValidationCompressionRatio float64
}

// Run trains a tokenizer over the texts and returns the artifact to persist
// along with summary statistics.
//
// The validation compression ratio is aggregate: total initial symbols across
// all validation texts divided by total tokens. The aggregate (rather than the
// mean of per-text ratios) weighs texts by their length, so a handful of short
// validation lines cannot dominate the figure.
func Run(texts []string, config Config) (*artifact.Artifact, *Summary, error) {
	if config.ValRatio <= 0 {
		config.ValRatio = 0.1
	}
	trainTexts, valTexts := corpus.Split(texts, config.ValRatio, config.Seed)

	model, err := bpe.Train(trainTexts, bpe.TrainConfig{
		TargetVocabSize:  config.TargetVocabSize,
		MinPairFrequency: config.MinPairFrequency,
		Progress:         config.Progress,
	})
	if err != nil {
		return nil, nil, err
	}

	// The validation side may hold characters the training side never saw, so
	// it is measured with the unknown-token fallback enabled.
	codec := bpe.NewCodec(model).WithUnknownFallback(true)
	ratio, err := validationRatio(codec, valTexts)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "while measuring validation compression")
	}

	corpusChars := 0
	for _, text := range texts {
		corpusChars += utf8.RuneCountInString(text)
	}

	art := artifact.New(model, artifact.Metadata{
		TargetVocabSize:            config.TargetVocabSize,
		CorpusChars:                corpusChars,
		ValidationCompressionRatio: ratio,
	})
	summary := &Summary{
		VocabSize:                  model.VocabSize(),
		MergeCount:                 len(model.Merges()),
		CorpusChars:                corpusChars,
		ValidationCompressionRatio: ratio,
	}
	if config.Verbosity >= 1 {
		log.Printf("Trained tokenizer %s: vocabulary size %s (%s merges) over %s corpus characters, validation compression ratio %.4f",
			art.ID,
			humanize.Comma(int64(summary.VocabSize)),
			humanize.Comma(int64(summary.MergeCount)),
			humanize.Comma(int64(summary.CorpusChars)),
			summary.ValidationCompressionRatio)
	}
	return art, summary, nil
}

// validationRatio measures total initial symbols over total tokens across all
// texts. Returns 0 when the validation side encodes to nothing.
func validationRatio(codec *bpe.Codec, texts []string) (float64, error) {
	totalSymbols, totalTokens := 0, 0
	for _, text := range texts {
		ids, err := codec.Encode(text)
		if err != nil {
			return 0, err
		}
		totalSymbols += bpe.InitialSymbolCount(text)
		totalTokens += len(ids)
	}
	if totalTokens == 0 {
		return 0, nil
	}
	return float64(totalSymbols) / float64(totalTokens), nil
}
