package bpe

import "fmt"

// ConfigError reports an invalid training configuration, e.g. a target
// vocabulary size smaller than the initial alphabet. It is deterministic given
// its inputs and never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid training configuration: " + e.Reason
}

// EmptyCorpusError reports that the corpus contained no trainable words.
type EmptyCorpusError struct{}

func (e *EmptyCorpusError) Error() string {
	return "corpus contains no words"
}

// UnknownSymbolError reports a character outside the trained alphabet found
// while encoding. It is only returned in strict mode; see
// Codec.WithUnknownFallback for the graceful-degradation alternative.
type UnknownSymbolError struct {
	Symbol Symbol
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("symbol %q is not in the trained vocabulary", string(e.Symbol))
}
