package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrainFileConfig(t *testing.T) {
	config, err := parseTrainFileConfig([]byte(`
vocab_size: 1234
min_pair_freq: 2
val_ratio: 0.2
seed: 7
`))
	require.NoError(t, err)
	assert.Equal(t, 1234, config.VocabSize)
	assert.Equal(t, 2, config.MinPairFreq)
	assert.Equal(t, 0.2, config.ValRatio)
	assert.Equal(t, int64(7), config.Seed)
}

func TestParseTrainFileConfigInvalid(t *testing.T) {
	_, err := parseTrainFileConfig([]byte("vocab_size: [not an int"))
	require.Error(t, err)
}

func TestResolveTrainConfigPrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "train.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("vocab_size: 1234\nseed: 7\n"), 0o644))

	cmd := newTrainCommand()
	require.NoError(t, cmd.Flags().Set("config", configPath))
	// Explicit flag wins over the file; file wins over the default.
	require.NoError(t, cmd.Flags().Set("seed", "99"))

	config, err := resolveTrainConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 1234, config.TargetVocabSize)
	assert.Equal(t, int64(99), config.Seed)
	assert.Equal(t, 0.1, config.ValRatio)
}
