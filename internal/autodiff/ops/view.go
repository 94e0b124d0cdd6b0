package ops

import (
	"fmt"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// ReshapeOp records any pure reshape, including Unsqueeze: the
// gradient just flows back under the input shape.
type ReshapeOp struct {
	X, Out *tensor.RawTensor
}

func (op *ReshapeOp) Output() *tensor.RawTensor { return op.Out }

func (op *ReshapeOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	g, err := grad.WithShape(op.X.Shape())
	if err != nil {
		panic(fmt.Sprintf("autodiff: reshape backward: %v", err))
	}
	accumulate(grads, op.X, g)
}

// TransposeOp records out = transpose(x, axes).
type TransposeOp struct {
	X, Out *tensor.RawTensor
	Axes   []int
}

func (op *TransposeOp) Output() *tensor.RawTensor { return op.Out }

func (op *TransposeOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	inverse := make([]int, len(op.Axes))
	for i, ax := range op.Axes {
		inverse[ax] = i
	}
	accumulate(grads, op.X, permute(grad, inverse))
}

// CatOp records out = cat(inputs, dim); backward splits the gradient
// back along the same dimension.
type CatOp struct {
	Inputs []*tensor.RawTensor
	Out    *tensor.RawTensor
	Dim    int
}

func (op *CatOp) Output() *tensor.RawTensor { return op.Out }

func (op *CatOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	outShape := op.Out.Shape()
	outer := 1
	for i := 0; i < op.Dim; i++ {
		outer *= outShape[i]
	}
	inner := 1
	for i := op.Dim + 1; i < len(outShape); i++ {
		inner *= outShape[i]
	}
	src := grad.AsFloat32()
	offset := 0
	for _, in := range op.Inputs {
		size := in.Shape()[op.Dim]
		g := zerosLike(in)
		dst := g.AsFloat32()
		for o := 0; o < outer; o++ {
			srcStart := o*outShape[op.Dim]*inner + offset*inner
			dstStart := o * size * inner
			copy(dst[dstStart:dstStart+size*inner], src[srcStart:srcStart+size*inner])
		}
		offset += size
		accumulate(grads, in, g)
	}
}
