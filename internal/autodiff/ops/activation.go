package ops

import "github.com/glyph-ml/glyph/internal/tensor"

// SoftmaxOp records out = softmax(x) along the last dimension. The
// backward pass needs only the forward output: for one row s and
// incoming gradient g, dx = s * (g - <g, s>).
type SoftmaxOp struct {
	X, Out *tensor.RawTensor
}

func (op *SoftmaxOp) Output() *tensor.RawTensor { return op.Out }

func (op *SoftmaxOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	shape := op.Out.Shape()
	cols := shape[len(shape)-1]
	rows := op.Out.NumElements() / cols

	gin := zerosLike(op.X)
	s, g, dst := op.Out.AsFloat32(), grad.AsFloat32(), gin.AsFloat32()
	for r := 0; r < rows; r++ {
		base := r * cols
		var dot float32
		for c := 0; c < cols; c++ {
			dot += g[base+c] * s[base+c]
		}
		for c := 0; c < cols; c++ {
			dst[base+c] = s[base+c] * (g[base+c] - dot)
		}
	}
	accumulate(grads, op.X, gin)
}

// ReLUOp records out = max(0, x).
type ReLUOp struct {
	X, Out *tensor.RawTensor
}

func (op *ReLUOp) Output() *tensor.RawTensor { return op.Out }

func (op *ReLUOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	gin := zerosLike(op.X)
	x, g, dst := op.X.AsFloat32(), grad.AsFloat32(), gin.AsFloat32()
	for i := range dst {
		if x[i] > 0 {
			dst[i] = g[i]
		}
	}
	accumulate(grads, op.X, gin)
}

// RsqrtOp records out = 1/sqrt(x); d/dx = -0.5 * out³.
type RsqrtOp struct {
	X, Out *tensor.RawTensor
}

func (op *RsqrtOp) Output() *tensor.RawTensor { return op.Out }

func (op *RsqrtOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	gin := zerosLike(op.X)
	y, g, dst := op.Out.AsFloat32(), grad.AsFloat32(), gin.AsFloat32()
	for i := range dst {
		dst[i] = g[i] * -0.5 * y[i] * y[i] * y[i]
	}
	accumulate(grads, op.X, gin)
}
