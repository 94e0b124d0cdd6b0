package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/glyph-ml/glyph/internal/tokenizer"
)

func vocabCmd() *cli.Command {
	var (
		corpusPath string
		outPath    string
	)
	return &cli.Command{
		Name:  "vocab",
		Usage: "Build a character vocabulary from a corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "corpus",
				Aliases:     []string{"c"},
				Usage:       "path to the training text",
				Required:    true,
				Destination: &corpusPath,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "where to write the vocabulary JSON",
				Value:       "vocab.json",
				Destination: &outPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			text, err := os.ReadFile(corpusPath)
			if err != nil {
				return fmt.Errorf("read corpus: %w", err)
			}
			alphabet, err := tokenizer.Build(string(text))
			if err != nil {
				return err
			}
			if err := alphabet.Save(outPath); err != nil {
				return err
			}
			fmt.Printf("wrote %s: %d characters\n", outPath, alphabet.VocabSize())
			return nil
		},
	}
}
