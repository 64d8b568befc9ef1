package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gomlx/go-subword/bpe"
	"github.com/gomlx/go-subword/corpus"
	"github.com/gomlx/go-subword/internal/files"
	"github.com/gomlx/go-subword/training"
)

// progressPrintPeriod is how many merges go by between progress lines.
const progressPrintPeriod = 50

func newTrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a BPE tokenizer from a directory of .txt files",
		Long: `Train a BPE tokenizer from a directory of .txt files.

The corpus is shuffled and split into training and validation sides, merges are
learned greedily up to the target vocabulary size, and the resulting vocabulary
is written as a JSON artifact that the tokenize command (or any other process)
can load later. The summary reports the final vocabulary size and the
compression ratio measured on the held-out validation texts.`,
		Args: cobra.NoArgs,
		RunE: runTrain,
	}
	cmd.Flags().String("data", "data", "Directory holding the training .txt files")
	cmd.Flags().String("out", "artifacts/tokenizer.json", "Where to write the trained artifact")
	cmd.Flags().String("config", "", "Optional YAML training config file")
	cmd.Flags().Int("vocab-size", 4000, "Target vocabulary size, merges included")
	cmd.Flags().Int("min-pair-freq", 1, "Stop merging pairs rarer than this")
	cmd.Flags().Float64("val-ratio", 0.1, "Share of texts held out for validation")
	cmd.Flags().Int64("seed", 42, "Seed for the train/validation shuffle")
	return cmd
}

func runTrain(cmd *cobra.Command, _ []string) error {
	config, err := resolveTrainConfig(cmd)
	if err != nil {
		return err
	}

	dataDir, _ := cmd.Flags().GetString("data")
	dataDir, err = files.ReplaceTildeInDir(dataDir)
	if err != nil {
		return err
	}
	texts, err := corpus.New(dataDir).Load()
	if err != nil {
		return err
	}

	config.Progress = func(numMerges, vocabSize int, rule bpe.MergeRule, frequency int) {
		if numMerges%progressPrintPeriod == 0 {
			fmt.Printf("Merges: %d, vocab size: %d, best pair: (%q, %q) freq %d\n",
				numMerges, vocabSize, string(rule.Left), string(rule.Right), frequency)
		}
	}
	art, summary, err := training.Run(texts, config)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	outPath, err = files.ReplaceTildeInDir(outPath)
	if err != nil {
		return err
	}
	if files.Exists(outPath) {
		fmt.Printf("Overwriting existing artifact %q\n", outPath)
	}
	if err = art.Save(outPath); err != nil {
		return errors.WithMessagef(err, "while saving artifact to %q", outPath)
	}

	fmt.Println()
	fmt.Println("=== Training done ===")
	fmt.Printf("Vocab size: %d (%d merges)\n", summary.VocabSize, summary.MergeCount)
	fmt.Printf("Validation compression ratio: %.4f\n", summary.ValidationCompressionRatio)
	fmt.Printf("Artifact: %s\n", outPath)
	return nil
}
