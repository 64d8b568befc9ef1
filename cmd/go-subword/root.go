package main

import (
	"github.com/spf13/cobra"

	subword "github.com/gomlx/go-subword"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "go-subword",
		Short:         "Train and use BPE subword tokenizers",
		Version:       subword.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newTrainCommand())
	cmd.AddCommand(newTokenizeCommand())
	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}
