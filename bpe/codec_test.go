package bpe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedCodec(t *testing.T, texts []string, targetVocabSize int) *Codec {
	t.Helper()
	model, err := Train(texts, TrainConfig{TargetVocabSize: targetVocabSize})
	require.NoError(t, err)
	return NewCodec(model)
}

func TestCodecRoundTrip(t *testing.T) {
	texts := strings.Split(corpusSample, "\n")
	codec := trainedCodec(t, texts, 60)

	for _, text := range []string{
		"the cat sat",
		"a dog on the rug",
		"the the the",
		"cat",
	} {
		ids, err := codec.Encode(text)
		require.NoError(t, err)
		decoded, err := codec.Decode(ids)
		require.NoError(t, err)
		assert.Equal(t, text, decoded)
	}
}

func TestCodecRoundTripWithBoundaryMerges(t *testing.T) {
	// The first learned merge absorbs the word-end marker, so decoded text
	// must still come back with its word separators intact.
	codec := trainedCodec(t, []string{"ba ba"}, 100)
	ids, err := codec.Encode("ba ba")
	require.NoError(t, err)
	require.Len(t, ids, 2) // each "ba" collapses into a single token
	decoded, err := codec.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "ba ba", decoded)
}

func TestCodecUnknownSymbolStrict(t *testing.T) {
	codec := trainedCodec(t, []string{"ab ab ab"}, 8)
	_, err := codec.Encode("a5")
	var unknownErr *UnknownSymbolError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, Symbol("5"), unknownErr.Symbol)
}

func TestCodecUnknownSymbolFallback(t *testing.T) {
	codec := trainedCodec(t, []string{"ab ab ab"}, 8).WithUnknownFallback(true)
	ids, err := codec.Encode("a5")
	require.NoError(t, err)

	vocab := codec.Model().Vocabulary()
	unknownID, found := vocab.ID(Unknown)
	require.True(t, found)
	aID, _ := vocab.ID("a")
	endID, _ := vocab.ID(WordEnd)
	assert.Equal(t, []int{aID, unknownID, endID}, ids)
}

func TestCodecEmpty(t *testing.T) {
	codec := trainedCodec(t, []string{"ab ab ab"}, 8)

	ids, err := codec.Encode("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	decoded, err := codec.Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, "", decoded)

	ratio, err := codec.CompressionRatio("")
	require.NoError(t, err)
	assert.Zero(t, ratio)
}

func TestCodecDecodeInvalidID(t *testing.T) {
	codec := trainedCodec(t, []string{"ab ab ab"}, 8)
	_, err := codec.Decode([]int{0, 9999})
	require.Error(t, err)
	_, err = codec.Decode([]int{-1})
	require.Error(t, err)
}

func TestCompressionRatioBaseline(t *testing.T) {
	// A model with zero merge rules is the character-level baseline: exactly
	// one token per initial symbol.
	texts := []string{"ab ab ab"}
	initial := initialVocabSize(texts)
	codec := trainedCodec(t, texts, initial)
	require.Empty(t, codec.Model().Merges())

	for _, text := range []string{"ab", "ab ab", "b a b a"} {
		ratio, err := codec.CompressionRatio(text)
		require.NoError(t, err)
		assert.Equal(t, 1.0, ratio)
	}
}

func TestCompressionRatioWithMerges(t *testing.T) {
	codec := trainedCodec(t, []string{"ab ab ab"}, 9)
	require.NotEmpty(t, codec.Model().Merges())

	ratio, err := codec.CompressionRatio("ab ab")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ratio, 1.0)
	// "ab ab" is 6 initial symbols collapsing into 2 "ab</w>" tokens.
	assert.Equal(t, 3.0, ratio)
}

func TestTokenize(t *testing.T) {
	codec := trainedCodec(t, []string{"ab ab ab"}, 9)
	tok, err := codec.Tokenize("ab ab")
	require.NoError(t, err)
	assert.Equal(t, len(tok.IDs), tok.TokenCount)
	assert.Equal(t, "ab ab", tok.Decoded)
	assert.Equal(t, 3.0, tok.CompressionRatio)
}

func TestCodecNormalizesWhitespace(t *testing.T) {
	codec := trainedCodec(t, []string{"ab ab ab"}, 9)
	messy, err := codec.Encode("  ab \t ab\n")
	require.NoError(t, err)
	clean, err := codec.Encode("ab ab")
	require.NoError(t, err)
	assert.Equal(t, clean, messy)
}
