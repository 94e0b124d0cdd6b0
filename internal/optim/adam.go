package optim

import (
	"fmt"
	"math"

	"github.com/glyph-ml/glyph/internal/nn"
	"github.com/glyph-ml/glyph/internal/tensor"
)

// Adam implements the Adam update with bias-corrected first and second
// moment estimates.
type Adam[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	lr     float32
	beta1  float32
	beta2  float32
	eps    float32

	step int
	m    [][]float32
	v    [][]float32
}

// NewAdam uses the conventional betas (0.9, 0.999) and eps 1e-8.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], lr float32) *Adam[B] {
	if lr <= 0 {
		panic(fmt.Sprintf("optim.NewAdam: learning rate must be positive, got %g", lr))
	}
	m := make([][]float32, len(params))
	v := make([][]float32, len(params))
	for i, p := range params {
		n := p.Tensor().NumElements()
		m[i] = make([]float32, n)
		v[i] = make([]float32, n)
	}
	return &Adam[B]{
		params: params,
		lr:     lr,
		beta1:  0.9,
		beta2:  0.999,
		eps:    1e-8,
		m:      m,
		v:      v,
	}
}

func (a *Adam[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	a.step++
	bc1 := 1 - float32(math.Pow(float64(a.beta1), float64(a.step)))
	bc2 := 1 - float32(math.Pow(float64(a.beta2), float64(a.step)))

	for i, p := range a.params {
		grad, ok := grads[p.Tensor().Raw()]
		if !ok {
			continue
		}
		data, g := p.Tensor().Data(), grad.AsFloat32()
		m, v := a.m[i], a.v[i]
		for j := range data {
			m[j] = a.beta1*m[j] + (1-a.beta1)*g[j]
			v[j] = a.beta2*v[j] + (1-a.beta2)*g[j]*g[j]
			mHat := m[j] / bc1
			vHat := v[j] / bc2
			data[j] -= a.lr * mHat / (float32(math.Sqrt(float64(vHat))) + a.eps)
		}
	}
}
