package optim

import (
	"fmt"

	"github.com/glyph-ml/glyph/internal/nn"
	"github.com/glyph-ml/glyph/internal/tensor"
)

// SGD is plain stochastic gradient descent: p -= lr * g.
type SGD[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	lr     float32
}

func NewSGD[B tensor.Backend](params []*nn.Parameter[B], lr float32) *SGD[B] {
	if lr <= 0 {
		panic(fmt.Sprintf("optim.NewSGD: learning rate must be positive, got %g", lr))
	}
	return &SGD[B]{params: params, lr: lr}
}

func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, p := range s.params {
		grad, ok := grads[p.Tensor().Raw()]
		if !ok {
			continue
		}
		data, g := p.Tensor().Data(), grad.AsFloat32()
		for i := range data {
			data[i] -= s.lr * g[i]
		}
	}
}
