// Package autodiff provides reverse-mode automatic differentiation as
// a decorator around any tensor.Backend: every operation is delegated
// to the wrapped backend and, while recording, pushed onto a gradient
// tape that Backward later walks in reverse.
package autodiff

import (
	"github.com/glyph-ml/glyph/internal/autodiff/ops"
	"github.com/glyph-ml/glyph/internal/tensor"
)

// AutodiffBackend wraps an inner backend B and satisfies
// tensor.Backend itself, so models are generic over whether they run
// with or without gradient tracking.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New wraps inner with a fresh tape. Recording starts off.
func New[B tensor.Backend](inner B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{inner: inner, tape: NewTape()}
}

func (a *AutodiffBackend[B]) Inner() B            { return a.inner }
func (a *AutodiffBackend[B]) Tape() *GradientTape { return a.tape }

func (a *AutodiffBackend[B]) Name() string { return "autodiff(" + a.inner.Name() + ")" }

func (a *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Add(x, y)
	a.tape.Record(&ops.AddOp{A: x, B: y, Out: out})
	return out
}

func (a *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Sub(x, y)
	a.tape.Record(&ops.SubOp{A: x, B: y, Out: out})
	return out
}

func (a *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Mul(x, y)
	a.tape.Record(&ops.MulOp{A: x, B: y, Out: out})
	return out
}

func (a *AutodiffBackend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Div(x, y)
	a.tape.Record(&ops.DivOp{A: x, B: y, Out: out})
	return out
}

func (a *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	out := a.inner.MulScalar(x, scalar)
	a.tape.Record(&ops.MulScalarOp{X: x, Out: out, Scalar: scalar})
	return out
}

func (a *AutodiffBackend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.MatMul(x, y)
	a.tape.Record(&ops.MatMulOp{A: x, B: y, Out: out})
	return out
}

func (a *AutodiffBackend[B]) BatchMatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.BatchMatMul(x, y)
	a.tape.Record(&ops.BatchMatMulOp{A: x, B: y, Out: out})
	return out
}

func (a *AutodiffBackend[B]) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	out := a.inner.Reshape(x, shape)
	a.tape.Record(&ops.ReshapeOp{X: x, Out: out})
	return out
}

func (a *AutodiffBackend[B]) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	out := a.inner.Unsqueeze(x, dim)
	a.tape.Record(&ops.ReshapeOp{X: x, Out: out})
	return out
}

func (a *AutodiffBackend[B]) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	out := a.inner.Transpose(x, axes...)
	recorded := axes
	if len(recorded) == 0 {
		ndim := len(x.Shape())
		recorded = make([]int, ndim)
		for i := range recorded {
			recorded[i] = ndim - 1 - i
		}
	}
	a.tape.Record(&ops.TransposeOp{X: x, Out: out, Axes: recorded})
	return out
}

func (a *AutodiffBackend[B]) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	out := a.inner.Cat(tensors, dim)
	inputs := make([]*tensor.RawTensor, len(tensors))
	copy(inputs, tensors)
	a.tape.Record(&ops.CatOp{Inputs: inputs, Out: out, Dim: dim})
	return out
}

func (a *AutodiffBackend[B]) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	out := a.inner.Softmax(x, dim)
	if dim != len(x.Shape())-1 {
		// The recorded backward only handles the last dimension, which
		// is the only axis the model normalizes over.
		panic("autodiff.Softmax: only the last dimension is differentiable")
	}
	a.tape.Record(&ops.SoftmaxOp{X: x, Out: out})
	return out
}

func (a *AutodiffBackend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	out := a.inner.MeanDim(x, dim, keepDim)
	a.tape.Record(&ops.MeanDimOp{X: x, Out: out, Dim: dim, KeepDim: keepDim})
	return out
}

func (a *AutodiffBackend[B]) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Rsqrt(x)
	a.tape.Record(&ops.RsqrtOp{X: x, Out: out})
	return out
}

func (a *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.ReLU(x)
	a.tape.Record(&ops.ReLUOp{X: x, Out: out})
	return out
}

func (a *AutodiffBackend[B]) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Embedding(weight, indices)
	a.tape.Record(&ops.EmbeddingOp{Weight: weight, Indices: indices, Out: out})
	return out
}

// CrossEntropy requires the inner backend to implement the fused op.
func (a *AutodiffBackend[B]) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	ce, ok := any(a.inner).(tensor.CrossEntropyBackend)
	if !ok {
		panic("autodiff.CrossEntropy: inner backend " + a.inner.Name() + " does not implement CrossEntropy")
	}
	out := ce.CrossEntropy(logits, targets)
	a.tape.Record(&ops.CrossEntropyOp{Logits: logits, Targets: targets, Out: out})
	return out
}

var _ tensor.Backend = (*AutodiffBackend[*noopBackend])(nil)
var _ tensor.CrossEntropyBackend = (*AutodiffBackend[*noopBackend])(nil)

// noopBackend only anchors the compile-time interface checks above.
type noopBackend struct{ tensor.Backend }
