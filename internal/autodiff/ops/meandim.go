package ops

import "github.com/glyph-ml/glyph/internal/tensor"

// MeanDimOp records out = mean(x, dim). Backward spreads the gradient
// uniformly over the reduced dimension, scaled by 1/size.
type MeanDimOp struct {
	X, Out  *tensor.RawTensor
	Dim     int
	KeepDim bool
}

func (op *MeanDimOp) Output() *tensor.RawTensor { return op.Out }

func (op *MeanDimOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	xShape := op.X.Shape()
	size := xShape[op.Dim]

	g := grad
	if !op.KeepDim {
		keep := xShape.Clone()
		keep[op.Dim] = 1
		reshaped, err := grad.WithShape(keep)
		if err != nil {
			panic("autodiff: meandim backward: " + err.Error())
		}
		g = reshaped
	}
	accumulate(grads, op.X, scale(broadcastTo(g, xShape), 1/float32(size)))
}
