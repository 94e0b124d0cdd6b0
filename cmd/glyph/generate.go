package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/glyph-ml/glyph/internal/backend/cpu"
	"github.com/glyph-ml/glyph/internal/generate"
	"github.com/glyph-ml/glyph/internal/nn"
	"github.com/glyph-ml/glyph/internal/serialization"
	"github.com/glyph-ml/glyph/internal/tokenizer"
)

func generateCmd() *cli.Command {
	var (
		checkpointPath string
		vocabPath      string
		prompt         string
		numTokens      int64
		seed           int64
	)
	return &cli.Command{
		Name:  "generate",
		Usage: "Sample text from a trained checkpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "checkpoint",
				Aliases:     []string{"ckpt"},
				Usage:       "path to a .glyph checkpoint",
				Required:    true,
				Destination: &checkpointPath,
			},
			&cli.StringFlag{
				Name:        "vocab",
				Usage:       "path to the vocabulary JSON",
				Required:    true,
				Destination: &vocabPath,
			},
			&cli.StringFlag{
				Name:        "prompt",
				Aliases:     []string{"p"},
				Usage:       "starting text; defaults to a newline",
				Value:       "\n",
				Destination: &prompt,
			},
			&cli.Int64Flag{
				Name:        "tokens",
				Aliases:     []string{"n"},
				Usage:       "number of characters to generate",
				Value:       500,
				Destination: &numTokens,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "sampling seed (default: current time)",
				Value:       -1,
				Destination: &seed,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			alphabet, err := tokenizer.Load(vocabPath)
			if err != nil {
				return err
			}
			ckpt, err := serialization.Read(checkpointPath)
			if err != nil {
				return err
			}
			if ckpt.Model.VocabSize != alphabet.VocabSize() {
				return fmt.Errorf("checkpoint vocab size %d does not match vocabulary %d",
					ckpt.Model.VocabSize, alphabet.VocabSize())
			}

			backend := cpu.New()
			modelCfg := nn.Config{
				VocabSize:     ckpt.Model.VocabSize,
				ContextLength: ckpt.Model.ContextLength,
				EmbedDim:      ckpt.Model.EmbedDim,
				NumBlocks:     ckpt.Model.NumBlocks,
				NumHeads:      ckpt.Model.NumHeads,
				Dropout:       ckpt.Model.Dropout,
				Eps:           1e-5,
			}
			model, err := nn.NewGPT[*cpu.CPUBackend](modelCfg, rand.New(rand.NewSource(0)), backend)
			if err != nil {
				return err
			}
			if err := model.LoadStateDict(ckpt.State); err != nil {
				return err
			}

			start := alphabet.Encode(prompt)
			if len(start) == 0 {
				return fmt.Errorf("prompt %q contains no in-vocabulary characters", prompt)
			}
			if seed < 0 {
				seed = time.Now().UnixNano()
			}

			gen := generate.NewGenerator[*cpu.CPUBackend](model,
				modelCfg.ContextLength, generate.NewSampler(seed), backend)
			out := gen.Generate([][]int32{start}, int(numTokens))
			text, err := alphabet.Decode(out[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(os.Stdout, text)
			return err
		},
	}
}
