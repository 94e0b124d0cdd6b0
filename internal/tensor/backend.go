package tensor

// Backend executes raw tensor operations. Implementations operate on
// *RawTensor so that one backend serves every element type, and panic
// on shape or dtype violations: those are caller bugs, not runtime
// conditions.
//
// Binary arithmetic follows right-aligned broadcasting (see
// BroadcastShapes). Negative dims are not accepted; callers normalize
// before dispatch.
type Backend interface {
	// Elementwise arithmetic with broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MulScalar scales every element of a float32 tensor.
	MulScalar(x *RawTensor, scalar float32) *RawTensor

	// MatMul multiplies two 2D tensors: (m,k) x (k,n) -> (m,n).
	MatMul(a, b *RawTensor) *RawTensor

	// BatchMatMul multiplies two 3D tensors batch-wise:
	// (b,m,k) x (b,k,n) -> (b,m,n).
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Reshape returns the same elements under a new shape.
	Reshape(x *RawTensor, shape Shape) *RawTensor

	// Transpose permutes axes. With no axes it reverses them.
	Transpose(x *RawTensor, axes ...int) *RawTensor

	// Unsqueeze inserts a size-1 dimension at dim.
	Unsqueeze(x *RawTensor, dim int) *RawTensor

	// Cat concatenates tensors along dim. All other dims must agree.
	Cat(tensors []*RawTensor, dim int) *RawTensor

	// Softmax normalizes along dim so that slices sum to 1.
	Softmax(x *RawTensor, dim int) *RawTensor

	// MeanDim averages along dim, keeping it as size 1 when keepDim.
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Rsqrt computes 1/sqrt(x) elementwise.
	Rsqrt(x *RawTensor) *RawTensor

	// ReLU computes max(0, x) elementwise.
	ReLU(x *RawTensor) *RawTensor

	// Embedding gathers rows of a (vocab, dim) float32 weight by int32
	// indices, producing indices.Shape + (dim,). Panics on an index
	// outside [0, vocab).
	Embedding(weight, indices *RawTensor) *RawTensor

	// Name identifies the backend for logs and errors.
	Name() string
}

// CrossEntropyBackend is implemented by backends with a fused softmax
// cross-entropy: logits (n, classes) float32, targets (n,) int32,
// returning a scalar mean loss.
type CrossEntropyBackend interface {
	Backend
	CrossEntropy(logits, targets *RawTensor) *RawTensor
}
