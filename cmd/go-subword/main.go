// Command go-subword trains BPE tokenizers from text corpora and runs trained
// ones interactively.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
