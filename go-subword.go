// Package subword holds the version of a set of tools to train and use subword
// (BPE) tokenizers with GoMLX.
//
// There are 4 main sub-packages:
//
//   - bpe: the core byte-pair-encoding model -- training, encoding and decoding.
//   - artifact: to save and load trained vocabularies as JSON artifacts.
//   - corpus: to load text corpora from disk and split them for validation.
//   - training: the high-level training entry point, combining the above.
package subword

// Version of the library.
// Manually kept in sync with project releases.
var Version = "v0.0.0-dev"

// Tokenizer interface allows one to convert text to "tokens" (integer ids) and back.
//
// The bpe.Codec is the default implementation, created from a trained model or
// from a saved artifact.
type Tokenizer interface {
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)
}
