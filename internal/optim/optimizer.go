// Package optim updates model parameters from the gradients produced
// by a backward pass. Gradients arrive as a map keyed by raw tensor
// identity; parameters without an entry are skipped.
package optim

import "github.com/glyph-ml/glyph/internal/tensor"

// Optimizer applies one update step.
type Optimizer interface {
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)
}
