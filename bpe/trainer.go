package bpe

import (
	"fmt"
	"slices"
)

// ProgressFn is called synchronously after every learned merge. If the UI can
// be blocking, arrange for it to be handled on a separate goroutine.
type ProgressFn func(numMerges, vocabSize int, rule MergeRule, frequency int)

// TrainConfig configures Train.
type TrainConfig struct {
	// TargetVocabSize caps the total vocabulary size, counting special tokens,
	// the initial alphabet and one entry per learned merge.
	TargetVocabSize int

	// MinPairFrequency stops training once the most frequent pair occurs fewer
	// than this many times. Defaults to 1 (merge as long as any pair repeats).
	MinPairFrequency int

	// Progress, if not nil, reports each learned merge.
	Progress ProgressFn
}

// Train learns a BPE model from the given texts.
//
// The vocabulary starts with the special tokens plus every distinct symbol in
// the segmented corpus (sorted, word-end marker included). Each iteration then
// finds the most frequent adjacent symbol pair -- ties broken by the
// lexicographically smallest (left, right) pair, so training is deterministic
// for a fixed corpus and configuration -- records it as a merge rule under a
// fresh id, and replaces every non-overlapping occurrence across the corpus.
// Training stops when no pairs remain, the target vocabulary size is reached,
// or the best pair is below MinPairFrequency.
//
// The training corpus is transient: only the returned Model survives the call.
func Train(texts []string, config TrainConfig) (*Model, error) {
	if config.MinPairFrequency <= 0 {
		config.MinPairFrequency = 1
	}

	var corpus []Word
	for _, text := range texts {
		corpus = append(corpus, Segment(text)...)
	}
	if len(corpus) == 0 {
		return nil, &EmptyCorpusError{}
	}

	vocab := newVocabulary()
	for _, s := range SpecialSymbols() {
		vocab.add(s)
	}
	for _, s := range initialAlphabet(corpus) {
		vocab.add(s)
	}
	if config.TargetVocabSize < vocab.Size() {
		return nil, &ConfigError{Reason: fmt.Sprintf(
			"target vocabulary size %d is smaller than the initial vocabulary of %d symbols",
			config.TargetVocabSize, vocab.Size())}
	}

	var merges []MergeRule
	for vocab.Size() < config.TargetVocabSize {
		stats := pairStats(corpus)
		if len(stats) == 0 {
			break
		}
		best, frequency := bestPair(stats)
		if frequency < config.MinPairFrequency {
			break
		}

		rule := MergeRule{
			Left:   best.Left,
			Right:  best.Right,
			Result: best.Merged(),
		}
		rule.ID = vocab.add(rule.Result)
		merges = append(merges, rule)
		applyMerge(corpus, best)

		if config.Progress != nil {
			config.Progress(len(merges), vocab.Size(), rule, frequency)
		}
	}
	return &Model{vocab: vocab, merges: merges}, nil
}

// initialAlphabet returns the distinct symbols of the corpus in sorted order.
func initialAlphabet(corpus []Word) []Symbol {
	seen := make(map[Symbol]bool)
	var alphabet []Symbol
	for _, word := range corpus {
		for _, s := range word {
			if !seen[s] {
				seen[s] = true
				alphabet = append(alphabet, s)
			}
		}
	}
	slices.Sort(alphabet)
	return alphabet
}

// pairStats counts every adjacent symbol pair across the corpus. Words end at
// the word-end marker, so no pair straddles a word boundary; the marker itself
// may appear as the right element of a pair.
func pairStats(corpus []Word) map[Pair]int {
	stats := make(map[Pair]int)
	for _, word := range corpus {
		for i := 0; i+1 < len(word); i++ {
			stats[Pair{Left: word[i], Right: word[i+1]}]++
		}
	}
	return stats
}

// bestPair returns the pair with the strictly maximum frequency, breaking ties
// by the lexicographically smallest (left, right) strings.
func bestPair(stats map[Pair]int) (Pair, int) {
	var best Pair
	bestFrequency := 0
	for pair, frequency := range stats {
		if frequency > bestFrequency || (frequency == bestFrequency && pair.less(best)) {
			best = pair
			bestFrequency = frequency
		}
	}
	return best, bestFrequency
}

// applyMerge replaces every non-overlapping occurrence of the pair in every
// word of the corpus, in place.
func applyMerge(corpus []Word, pair Pair) {
	result := pair.Merged()
	for i, word := range corpus {
		corpus[i] = mergeWord(word, pair, result)
	}
}

// mergeWord replaces occurrences of the pair in one word, scanning left to
// right greedily without overlap. The original slice is returned untouched if
// the pair is absent.
func mergeWord(word Word, pair Pair, result Symbol) Word {
	present := false
	for i := 0; i+1 < len(word); i++ {
		if word[i] == pair.Left && word[i+1] == pair.Right {
			present = true
			break
		}
	}
	if !present {
		return word
	}

	merged := make(Word, 0, len(word))
	for i := 0; i < len(word); {
		if i+1 < len(word) && word[i] == pair.Left && word[i+1] == pair.Right {
			merged = append(merged, result)
			i += 2
		} else {
			merged = append(merged, word[i])
			i++
		}
	}
	return merged
}
