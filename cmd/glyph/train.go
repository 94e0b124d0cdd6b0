package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/glyph-ml/glyph/internal/dataset"
	"github.com/glyph-ml/glyph/internal/logger"
	"github.com/glyph-ml/glyph/internal/nn"
	"github.com/glyph-ml/glyph/internal/optim"
	"github.com/glyph-ml/glyph/internal/tokenizer"
	"github.com/glyph-ml/glyph/internal/train"
)

func trainCmd() *cli.Command {
	var (
		corpusPath string
		configPath string
		outDir     string
		logLevel   string
		logJSON    bool
	)
	return &cli.Command{
		Name:  "train",
		Usage: "Train a character GPT on a text corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "corpus",
				Aliases:     []string{"c"},
				Usage:       "path to the training text",
				Required:    true,
				Destination: &corpusPath,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "YAML config overriding the defaults",
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "checkpoint directory (overrides config)",
				Destination: &outDir,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Value:       "info",
				Destination: &logLevel,
			},
			&cli.BoolFlag{
				Name:        "log-json",
				Usage:       "emit JSON log records",
				Destination: &logJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if outDir != "" {
				cfg.Training.CheckpointDir = outDir
			}
			log := logger.New(logger.Options{Level: logLevel, JSON: logJSON})

			text, err := os.ReadFile(corpusPath)
			if err != nil {
				return fmt.Errorf("read corpus: %w", err)
			}
			alphabet, err := tokenizer.Build(string(text))
			if err != nil {
				return err
			}
			tokens := alphabet.Encode(string(text))
			log.Info("corpus loaded",
				"path", corpusPath, "tokens", len(tokens), "vocab", alphabet.VocabSize())

			modelCfg := nn.Config{
				VocabSize:     alphabet.VocabSize(),
				ContextLength: cfg.Model.ContextLength,
				EmbedDim:      cfg.Model.EmbedDim,
				NumBlocks:     cfg.Model.NumBlocks,
				NumHeads:      cfg.Model.NumHeads,
				Dropout:       float32(cfg.Model.Dropout),
				Eps:           1e-5,
			}
			backend := train.NewBackend()
			rng := rand.New(rand.NewSource(cfg.Training.Seed))
			model, err := nn.NewGPT[train.Backend](modelCfg, rng, backend)
			if err != nil {
				return err
			}

			data, err := dataset.New[train.Backend](tokens,
				cfg.Model.ContextLength, cfg.Training.BatchSize, cfg.Training.Seed, backend)
			if err != nil {
				return err
			}

			var opt optim.Optimizer
			switch cfg.Training.Optimizer {
			case "adam", "":
				opt = optim.NewAdam(model.Parameters(), float32(cfg.Training.LearningRate))
			case "sgd":
				opt = optim.NewSGD(model.Parameters(), float32(cfg.Training.LearningRate))
			default:
				return fmt.Errorf("unknown optimizer %q (want adam or sgd)", cfg.Training.Optimizer)
			}

			if err := os.MkdirAll(cfg.Training.CheckpointDir, 0o755); err != nil {
				return fmt.Errorf("create checkpoint dir: %w", err)
			}
			vocabPath := filepath.Join(cfg.Training.CheckpointDir, "vocab.json")
			if err := alphabet.Save(vocabPath); err != nil {
				return err
			}
			log.Info("vocabulary written", "path", vocabPath)

			trainer, err := train.New(model, data, opt, backend, log, train.Config{
				Steps:           cfg.Training.Steps,
				LogEvery:        cfg.Training.LogEvery,
				CheckpointEvery: cfg.Training.CheckpointEvery,
				CheckpointDir:   cfg.Training.CheckpointDir,
			})
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return trainer.Run(runCtx)
		},
	}
}
