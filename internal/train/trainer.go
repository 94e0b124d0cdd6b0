// Package train runs the optimization loop: sample a batch, forward
// with the gradient tape recording, backpropagate the cross-entropy
// loss, step the optimizer, and periodically checkpoint.
package train

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/glyph-ml/glyph/internal/autodiff"
	"github.com/glyph-ml/glyph/internal/backend/cpu"
	"github.com/glyph-ml/glyph/internal/dataset"
	"github.com/glyph-ml/glyph/internal/nn"
	"github.com/glyph-ml/glyph/internal/optim"
	"github.com/glyph-ml/glyph/internal/serialization"
	"github.com/glyph-ml/glyph/internal/tensor"
)

// Backend is the training execution stack: autodiff over the CPU
// backend.
type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// NewBackend builds the training stack.
func NewBackend() Backend {
	return autodiff.New(cpu.New())
}

// Config controls the loop, not the model architecture.
type Config struct {
	Steps           int
	LogEvery        int
	CheckpointEvery int
	CheckpointDir   string
}

func (c Config) validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("train: steps must be positive, got %d", c.Steps)
	}
	if c.CheckpointEvery > 0 && c.CheckpointDir == "" {
		return fmt.Errorf("train: checkpoint interval set without a checkpoint dir")
	}
	return nil
}

// Trainer owns one training run.
type Trainer struct {
	model     *nn.GPT[Backend]
	data      *dataset.Batches[Backend]
	optimizer optim.Optimizer
	criterion *nn.CrossEntropyLoss[Backend]
	backend   Backend
	log       *slog.Logger
	cfg       Config
	runID     string
	step      int
}

func New(model *nn.GPT[Backend], data *dataset.Batches[Backend], optimizer optim.Optimizer, backend Backend, log *slog.Logger, cfg Config) (*Trainer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Trainer{
		model:     model,
		data:      data,
		optimizer: optimizer,
		criterion: nn.NewCrossEntropyLoss[Backend](backend),
		backend:   backend,
		log:       log,
		cfg:       cfg,
		runID:     uuid.NewString(),
	}, nil
}

// RunID identifies this training run in logs and checkpoints.
func (t *Trainer) RunID() string { return t.runID }

// Run executes the configured number of steps. Respects ctx
// cancellation between steps; a checkpoint of the final state is
// written when checkpointing is enabled.
func (t *Trainer) Run(ctx context.Context) error {
	t.log.Info("training started",
		"run_id", t.runID,
		"steps", t.cfg.Steps,
		"tokens", t.data.NumTokens(),
		"backend", t.backend.Name())

	for i := 0; i < t.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		loss, err := t.Step()
		if err != nil {
			return err
		}
		if t.cfg.LogEvery > 0 && t.step%t.cfg.LogEvery == 0 {
			t.log.Info("step", "run_id", t.runID, "n", t.step, "loss", loss)
		}
		if t.cfg.CheckpointEvery > 0 && t.step%t.cfg.CheckpointEvery == 0 {
			if err := t.checkpoint(); err != nil {
				return err
			}
		}
	}

	if t.cfg.CheckpointEvery > 0 && t.step%t.cfg.CheckpointEvery != 0 {
		if err := t.checkpoint(); err != nil {
			return err
		}
	}
	t.log.Info("training finished", "run_id", t.runID, "steps", t.step)
	return nil
}

// Step performs one optimization step and returns the batch loss.
func (t *Trainer) Step() (float32, error) {
	tape := t.backend.Tape()
	tape.Clear()
	tape.StartRecording()

	inputs, targets := t.data.Next()
	logits := t.model.Forward(inputs, true)

	shape := logits.Shape() // (batch, time, vocab)
	flatLogits := logits.Reshape(tensor.Shape{shape[0] * shape[1], shape[2]})
	flatTargets := targets.Reshape(tensor.Shape{shape[0] * shape[1]})
	loss := t.criterion.Forward(flatLogits, flatTargets)

	tape.StopRecording()
	grads, err := t.backend.Backward(loss.Raw())
	if err != nil {
		return 0, fmt.Errorf("train: step %d: %w", t.step+1, err)
	}
	t.optimizer.Step(grads)
	tape.Clear()

	t.step++
	return loss.Item(), nil
}

func (t *Trainer) checkpoint() error {
	if err := os.MkdirAll(t.cfg.CheckpointDir, 0o755); err != nil {
		return fmt.Errorf("train: create checkpoint dir: %w", err)
	}
	cfg := t.model.Config
	path := filepath.Join(t.cfg.CheckpointDir, fmt.Sprintf("step_%06d.glyph", t.step))
	err := serialization.Write(path, serialization.Checkpoint{
		State: t.model.StateDict(),
		Model: serialization.ModelMeta{
			VocabSize:     cfg.VocabSize,
			ContextLength: cfg.ContextLength,
			EmbedDim:      cfg.EmbedDim,
			NumBlocks:     cfg.NumBlocks,
			NumHeads:      cfg.NumHeads,
			Dropout:       cfg.Dropout,
		},
		RunID: t.runID,
		Step:  t.step,
	})
	if err != nil {
		return err
	}
	t.log.Info("checkpoint written", "run_id", t.runID, "step", t.step, "path", path)
	return nil
}
