package ops

import "github.com/glyph-ml/glyph/internal/tensor"

// AddOp records out = a + b with broadcasting.
type AddOp struct {
	A, B, Out *tensor.RawTensor
}

func (op *AddOp) Output() *tensor.RawTensor { return op.Out }

func (op *AddOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	accumulate(grads, op.A, reduceBroadcast(grad, op.A.Shape()))
	accumulate(grads, op.B, reduceBroadcast(grad, op.B.Shape()))
}

// SubOp records out = a - b.
type SubOp struct {
	A, B, Out *tensor.RawTensor
}

func (op *SubOp) Output() *tensor.RawTensor { return op.Out }

func (op *SubOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	accumulate(grads, op.A, reduceBroadcast(grad, op.A.Shape()))
	accumulate(grads, op.B, reduceBroadcast(negate(grad), op.B.Shape()))
}

// MulOp records out = a * b elementwise.
type MulOp struct {
	A, B, Out *tensor.RawTensor
}

func (op *MulOp) Output() *tensor.RawTensor { return op.Out }

func (op *MulOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	ga := binaryBroadcast(grad, op.B, func(g, b float32) float32 { return g * b })
	gb := binaryBroadcast(grad, op.A, func(g, a float32) float32 { return g * a })
	accumulate(grads, op.A, reduceBroadcast(ga, op.A.Shape()))
	accumulate(grads, op.B, reduceBroadcast(gb, op.B.Shape()))
}

// DivOp records out = a / b elementwise.
type DivOp struct {
	A, B, Out *tensor.RawTensor
}

func (op *DivOp) Output() *tensor.RawTensor { return op.Out }

func (op *DivOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	ga := binaryBroadcast(grad, op.B, func(g, b float32) float32 { return g / b })
	// d(a/b)/db = -out/b, reusing the forward result.
	gout := binaryBroadcast(grad, op.Out, func(g, o float32) float32 { return g * o })
	gb := binaryBroadcast(gout, op.B, func(g, b float32) float32 { return -g / b })
	accumulate(grads, op.A, reduceBroadcast(ga, op.A.Shape()))
	accumulate(grads, op.B, reduceBroadcast(gb, op.B.Shape()))
}

// MulScalarOp records out = x * scalar.
type MulScalarOp struct {
	X, Out *tensor.RawTensor
	Scalar float32
}

func (op *MulScalarOp) Output() *tensor.RawTensor { return op.Out }

func (op *MulScalarOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	accumulate(grads, op.X, scale(grad, op.Scalar))
}
