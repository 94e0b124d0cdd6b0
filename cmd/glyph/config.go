package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML training configuration. Vocab size is never
// configured; it always comes from the corpus.
type fileConfig struct {
	Model struct {
		ContextLength int     `yaml:"context_length"`
		EmbedDim      int     `yaml:"embed_dim"`
		NumBlocks     int     `yaml:"num_blocks"`
		NumHeads      int     `yaml:"num_heads"`
		Dropout       float64 `yaml:"dropout"`
	} `yaml:"model"`
	Training struct {
		Steps           int     `yaml:"steps"`
		BatchSize       int     `yaml:"batch_size"`
		LearningRate    float64 `yaml:"learning_rate"`
		Optimizer       string  `yaml:"optimizer"`
		Seed            int64   `yaml:"seed"`
		LogEvery        int     `yaml:"log_every"`
		CheckpointEvery int     `yaml:"checkpoint_every"`
		CheckpointDir   string  `yaml:"checkpoint_dir"`
	} `yaml:"training"`
}

func defaultConfig() fileConfig {
	var cfg fileConfig
	cfg.Model.ContextLength = 64
	cfg.Model.EmbedDim = 128
	cfg.Model.NumBlocks = 4
	cfg.Model.NumHeads = 4
	cfg.Model.Dropout = 0.2
	cfg.Training.Steps = 5000
	cfg.Training.BatchSize = 32
	cfg.Training.LearningRate = 3e-4
	cfg.Training.Optimizer = "adam"
	cfg.Training.Seed = 1337
	cfg.Training.LogEvery = 100
	cfg.Training.CheckpointEvery = 1000
	cfg.Training.CheckpointDir = "checkpoints"
	return cfg
}

// loadConfig overlays a YAML file, when given, onto the defaults.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
