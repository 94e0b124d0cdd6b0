package ops

import "github.com/glyph-ml/glyph/internal/tensor"

// MatMulOp records out = a @ b for 2D operands.
type MatMulOp struct {
	A, B, Out *tensor.RawTensor
}

func (op *MatMulOp) Output() *tensor.RawTensor { return op.Out }

func (op *MatMulOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	// dA = grad @ Bᵀ, dB = Aᵀ @ grad.
	accumulate(grads, op.A, matmul2D(grad, transpose2D(op.B)))
	accumulate(grads, op.B, matmul2D(transpose2D(op.A), grad))
}

// BatchMatMulOp records out = a @ b for 3D operands, batch-wise.
type BatchMatMulOp struct {
	A, B, Out *tensor.RawTensor
}

func (op *BatchMatMulOp) Output() *tensor.RawTensor { return op.Out }

func (op *BatchMatMulOp) Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	as, bs := op.A.Shape(), op.B.Shape()
	batch, m, k := as[0], as[1], as[2]
	n := bs[2]

	ga := zerosLike(op.A)
	gb := zerosLike(op.B)
	pa, pb := op.A.AsFloat32(), op.B.AsFloat32()
	pg := grad.AsFloat32()
	da, db := ga.AsFloat32(), gb.AsFloat32()

	for i := 0; i < batch; i++ {
		aSl := pa[i*m*k : (i+1)*m*k]
		bSl := pb[i*k*n : (i+1)*k*n]
		gSl := pg[i*m*n : (i+1)*m*n]
		// dA[i] = grad[i] @ B[i]ᵀ: (m,n) x (n,k).
		bT := transposeFlat(bSl, k, n)
		matmulInto(gSl, bT, da[i*m*k:(i+1)*m*k], m, n, k)
		// dB[i] = A[i]ᵀ @ grad[i]: (k,m) x (m,n).
		aT := transposeFlat(aSl, m, k)
		matmulInto(aT, gSl, db[i*k*n:(i+1)*k*n], k, m, n)
	}
	accumulate(grads, op.A, ga)
	accumulate(grads, op.B, gb)
}

func transposeFlat(src []float32, rows, cols int) []float32 {
	out := make([]float32, len(src))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[c*rows+r] = src[r*cols+c]
		}
	}
	return out
}
