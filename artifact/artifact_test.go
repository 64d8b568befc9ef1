package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/go-subword/bpe"
)

func trainedModel(t *testing.T) *bpe.Model {
	t.Helper()
	model, err := bpe.Train([]string{"ab ab ab", "ba ba"}, bpe.TrainConfig{TargetVocabSize: 12})
	require.NoError(t, err)
	return model
}

func TestArtifactRoundTrip(t *testing.T) {
	model := trainedModel(t)
	a := New(model, Metadata{
		TargetVocabSize:            12,
		CorpusChars:                13,
		ValidationCompressionRatio: 1.5,
	})
	require.NoError(t, a.Validate())
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, string(bpe.WordEnd), a.BoundaryMarker)

	rebuilt, err := a.Model()
	require.NoError(t, err)
	assert.Equal(t, model.Symbols(), rebuilt.Symbols())
	assert.Equal(t, model.Merges(), rebuilt.Merges())

	// Encodings must agree between the original and the rebuilt model.
	ids, err := bpe.NewCodec(model).Encode("ab ba")
	require.NoError(t, err)
	rebuiltIDs, err := bpe.NewCodec(rebuilt).Encode("ab ba")
	require.NoError(t, err)
	assert.Equal(t, ids, rebuiltIDs)
}

func TestArtifactValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(a *Artifact)
		wantErr string
	}{
		{"unsupported version", func(a *Artifact) { a.FormatVersion = 99 }, "format version"},
		{"empty vocab", func(a *Artifact) { a.Vocab = nil }, "empty vocabulary"},
		{"missing boundary", func(a *Artifact) { a.BoundaryMarker = "<sep>" }, "boundary marker"},
		{"id collision", func(a *Artifact) { a.Vocab[2].ID = 1 }, "expected contiguous id"},
		{"duplicate symbol", func(a *Artifact) { a.Vocab[5].Symbol = a.Vocab[4].Symbol }, "appears twice"},
		{"duplicate rule", func(a *Artifact) { a.Merges = append(a.Merges, a.Merges[0]) }, "duplicate merge rule"},
		{"unknown left symbol", func(a *Artifact) { a.Merges[0].Left = "zz" }, "unknown left symbol"},
		{"unknown right symbol", func(a *Artifact) { a.Merges[0].Right = "zz" }, "unknown right symbol"},
		{"result id out of range", func(a *Artifact) { a.Merges[0].ResultID = len(a.Vocab) }, "outside the vocabulary"},
		{"result symbol mismatch", func(a *Artifact) { a.Merges[0].ResultID = 0 }, "does not match"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := New(trainedModel(t), Metadata{TargetVocabSize: 12})
			require.NoError(t, a.Validate())
			tc.mutate(a)
			err := a.Validate()
			var corruptErr *CorruptArtifactError
			require.ErrorAs(t, err, &corruptErr)
			assert.Contains(t, corruptErr.Reason, tc.wantErr)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	a := New(trainedModel(t), Metadata{
		TargetVocabSize:            12,
		CorpusChars:                13,
		ValidationCompressionRatio: 2.25,
	})
	filePath := filepath.Join(t.TempDir(), "artifacts", "tokenizer.json")
	require.NoError(t, a.Save(filePath))

	loaded, err := Load(filePath)
	require.NoError(t, err)
	assert.Equal(t, a, loaded)

	// The temporary saving file must not linger.
	_, err = os.Stat(filePath + ".saving")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadCorruptFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(filePath, []byte("{not json"), 0o644))
	_, err := Load(filePath)
	var corruptErr *CorruptArtifactError
	require.ErrorAs(t, err, &corruptErr)
}

func TestSaveRejectsCorrupt(t *testing.T) {
	a := New(trainedModel(t), Metadata{TargetVocabSize: 12})
	filePath := filepath.Join(t.TempDir(), "tokenizer.json")
	a.Merges[0].ResultID = 0
	require.Error(t, a.Save(filePath))
	_, err := os.Stat(filePath)
	assert.True(t, os.IsNotExist(err), "Save must not write a corrupt artifact")
}
