package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// Head is one causal self-attention head with its own bias-free
// query, key and value projections from the embedding dimension down
// to headSize. Heads never share parameters; the multi-head layer owns
// one Head per slot.
type Head[B tensor.Backend] struct {
	Query *Linear[B]
	Key   *Linear[B]
	Value *Linear[B]

	embedDim int
	headSize int
	backend  B
}

func NewHead[B tensor.Backend](name string, embedDim, headSize int, rng *rand.Rand, backend B) *Head[B] {
	if embedDim <= 0 || headSize <= 0 {
		panic(fmt.Sprintf("nn.NewHead: invalid dimensions embed=%d head=%d", embedDim, headSize))
	}
	return &Head[B]{
		Query:    NewLinearNoBias(name+".query", embedDim, headSize, rng, backend),
		Key:      NewLinearNoBias(name+".key", embedDim, headSize, rng, backend),
		Value:    NewLinearNoBias(name+".value", embedDim, headSize, rng, backend),
		embedDim: embedDim,
		headSize: headSize,
		backend:  backend,
	}
}

// Forward computes causal scaled dot-product attention over a
// (batch, time, embedDim) input, returning (batch, time, headSize).
func (h *Head[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out, _ := h.ForwardWithWeights(x)
	return out
}

// ForwardWithWeights also returns the (batch, time, time) attention
// weights after masking and softmax, for inspection and tests.
func (h *Head[B]) ForwardWithWeights(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	shape := x.Shape()
	if len(shape) != 3 || shape[2] != h.embedDim {
		panic(fmt.Sprintf("Head.Forward: want input (batch, time, %d), got %v", h.embedDim, shape))
	}
	batch, seq := shape[0], shape[1]

	flat := x.Reshape(tensor.Shape{batch * seq, h.embedDim})
	q := h.Query.Forward(flat).Reshape(tensor.Shape{batch, seq, h.headSize})
	k := h.Key.Forward(flat).Reshape(tensor.Shape{batch, seq, h.headSize})
	v := h.Value.Forward(flat).Reshape(tensor.Shape{batch, seq, h.headSize})

	scores := q.BatchMatMul(k.Transpose(0, 2, 1))
	scores = scores.MulScalar(float32(1 / math.Sqrt(float64(h.headSize))))
	scores = scores.Add(CausalMask(seq, h.backend))

	weights := scores.Softmax(-1)
	return weights.BatchMatMul(v), weights
}

func (h *Head[B]) HeadSize() int { return h.headSize }

func (h *Head[B]) Parameters() []*Parameter[B] {
	params := h.Query.Parameters()
	params = append(params, h.Key.Parameters()...)
	params = append(params, h.Value.Parameters()...)
	return params
}
