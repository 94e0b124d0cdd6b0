package nn

import (
	"fmt"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// LayerNorm normalizes the last dimension to zero mean and unit
// variance, then applies the learned affine gamma*x + beta. Gamma
// starts at ones, beta at zeros, so the layer is initially a pure
// normalization.
type LayerNorm[B tensor.Backend] struct {
	Gamma *Parameter[B]
	Beta  *Parameter[B]

	dim     int
	eps     float32
	backend B
}

func NewLayerNorm[B tensor.Backend](name string, dim int, eps float32, backend B) *LayerNorm[B] {
	if dim <= 0 {
		panic(fmt.Sprintf("nn.NewLayerNorm: invalid dim %d", dim))
	}
	if eps <= 0 {
		panic(fmt.Sprintf("nn.NewLayerNorm: eps must be positive, got %g", eps))
	}
	return &LayerNorm[B]{
		Gamma:   NewParameter(name+".gamma", tensor.Ones[float32, B](tensor.Shape{dim}, backend)),
		Beta:    NewParameter(name+".beta", tensor.Zeros[float32, B](tensor.Shape{dim}, backend)),
		dim:     dim,
		eps:     eps,
		backend: backend,
	}
}

// Forward normalizes over the last dimension of any rank >= 1 input.
func (ln *LayerNorm[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if shape[len(shape)-1] != ln.dim {
		panic(fmt.Sprintf("LayerNorm.Forward: last dimension %d does not match dim %d",
			shape[len(shape)-1], ln.dim))
	}
	mean := x.MeanDim(-1, true)
	centered := x.Sub(mean)
	variance := centered.Mul(centered).MeanDim(-1, true)
	epsT := tensor.Full[float32, B](tensor.Shape{1}, ln.eps, ln.backend)
	invStd := variance.Add(epsT).Rsqrt()
	normed := centered.Mul(invStd)
	return normed.Mul(ln.Gamma.Tensor()).Add(ln.Beta.Tensor())
}

func (ln *LayerNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{ln.Gamma, ln.Beta}
}
