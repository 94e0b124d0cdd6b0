package nn

import "github.com/glyph-ml/glyph/internal/tensor"

// Parameter is a named trainable tensor. Gradient lookups and
// checkpoints key off the name; optimizers key off the raw tensor
// identity.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t}
}

func (p *Parameter[B]) Name() string { return p.name }

func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] { return p.tensor }
