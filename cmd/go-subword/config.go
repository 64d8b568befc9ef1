package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gomlx/go-subword/training"
)

// trainFileConfig mirrors the optional YAML training config file. Flags set
// explicitly on the command line override values from the file.
type trainFileConfig struct {
	VocabSize   int     `yaml:"vocab_size"`
	MinPairFreq int     `yaml:"min_pair_freq"`
	ValRatio    float64 `yaml:"val_ratio"`
	Seed        int64   `yaml:"seed"`
}

func parseTrainFileConfig(content []byte) (*trainFileConfig, error) {
	config := &trainFileConfig{}
	if err := yaml.Unmarshal(content, config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse training config")
	}
	return config, nil
}

// resolveTrainConfig merges the defaults, the optional config file and any
// explicitly set flags into the final training configuration.
func resolveTrainConfig(cmd *cobra.Command) (training.Config, error) {
	vocabSize, _ := cmd.Flags().GetInt("vocab-size")
	minPairFreq, _ := cmd.Flags().GetInt("min-pair-freq")
	valRatio, _ := cmd.Flags().GetFloat64("val-ratio")
	seed, _ := cmd.Flags().GetInt64("seed")
	config := training.Config{
		TargetVocabSize:  vocabSize,
		MinPairFrequency: minPairFreq,
		ValRatio:         valRatio,
		Seed:             seed,
		Verbosity:        1,
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		return config, nil
	}
	content, err := os.ReadFile(configPath)
	if err != nil {
		return config, errors.Wrapf(err, "failed to read training config %q", configPath)
	}
	fileConfig, err := parseTrainFileConfig(content)
	if err != nil {
		return config, errors.WithMessagef(err, "in config file %q", configPath)
	}

	if fileConfig.VocabSize > 0 && !cmd.Flags().Changed("vocab-size") {
		config.TargetVocabSize = fileConfig.VocabSize
	}
	if fileConfig.MinPairFreq > 0 && !cmd.Flags().Changed("min-pair-freq") {
		config.MinPairFrequency = fileConfig.MinPairFreq
	}
	if fileConfig.ValRatio > 0 && !cmd.Flags().Changed("val-ratio") {
		config.ValRatio = fileConfig.ValRatio
	}
	if fileConfig.Seed != 0 && !cmd.Flags().Changed("seed") {
		config.Seed = fileConfig.Seed
	}
	return config, nil
}
