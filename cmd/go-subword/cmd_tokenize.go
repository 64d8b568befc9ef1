package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gomlx/go-subword/artifact"
	"github.com/gomlx/go-subword/bpe"
	"github.com/gomlx/go-subword/internal/files"
)

func newTokenizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [text...]",
		Short: "Tokenize text with a trained artifact",
		Long: `Tokenize text with a trained artifact.

With arguments, the joined text is tokenized once. Without arguments, lines are
read interactively from stdin. Each input is reported as its token ids, token
count, compression ratio (characters per token), and the reconstruction decoded
back from the ids.`,
		RunE: runTokenize,
	}
	cmd.Flags().String("artifact", "artifacts/tokenizer.json", "Trained artifact to load")
	cmd.Flags().Bool("unk-fallback", false, "Map characters outside the trained alphabet to <unk> instead of failing")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	artifactPath, _ := cmd.Flags().GetString("artifact")
	artifactPath, err := files.ReplaceTildeInDir(artifactPath)
	if err != nil {
		return err
	}
	art, err := artifact.Load(artifactPath)
	if err != nil {
		return err
	}
	model, err := art.Model()
	if err != nil {
		return err
	}
	unkFallback, _ := cmd.Flags().GetBool("unk-fallback")
	codec := bpe.NewCodec(model).WithUnknownFallback(unkFallback)

	if len(args) > 0 {
		return printTokenization(codec, strings.Join(args, " "))
	}

	// Interactive: one input per line until EOF.
	fmt.Printf("Loaded tokenizer %s (vocab size %d). Enter text, Ctrl-D to quit.\n",
		art.ID, model.VocabSize())
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			if err := printTokenization(codec, line); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		fmt.Print("> ")
	}
	fmt.Println()
	return scanner.Err()
}

func printTokenization(codec *bpe.Codec, text string) error {
	tok, err := codec.Tokenize(text)
	if err != nil {
		return err
	}
	fmt.Printf("Token ids:         %v\n", tok.IDs)
	fmt.Printf("Number of tokens:  %d\n", tok.TokenCount)
	fmt.Printf("Compression ratio: %.4f\n", tok.CompressionRatio)
	fmt.Printf("Decoded:           %s\n", tok.Decoded)
	return nil
}
