package nn

import (
	"fmt"
	"math/rand"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// MultiHeadAttention runs numHeads independent causal heads in
// parallel over the same input, concatenates their outputs back to the
// embedding dimension and mixes them through a biased output
// projection followed by dropout.
type MultiHeadAttention[B tensor.Backend] struct {
	Heads []*Head[B]
	Proj  *Linear[B]
	Drop  *Dropout[B]

	embedDim int
}

func NewMultiHeadAttention[B tensor.Backend](name string, embedDim, numHeads int, dropout float32, rng *rand.Rand, backend B) *MultiHeadAttention[B] {
	if numHeads <= 0 || embedDim%numHeads != 0 {
		panic(fmt.Sprintf("nn.NewMultiHeadAttention: embedDim %d not divisible by numHeads %d",
			embedDim, numHeads))
	}
	headSize := embedDim / numHeads
	heads := make([]*Head[B], numHeads)
	for i := range heads {
		heads[i] = NewHead(fmt.Sprintf("%s.heads.%d", name, i), embedDim, headSize, rng, backend)
	}
	return &MultiHeadAttention[B]{
		Heads:    heads,
		Proj:     NewLinear(name+".proj", embedDim, embedDim, rng, backend),
		Drop:     NewDropout[B](dropout, rng),
		embedDim: embedDim,
	}
}

// Forward maps (batch, time, embedDim) to the same shape.
func (m *MultiHeadAttention[B]) Forward(x *tensor.Tensor[float32, B], train bool) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	batch, seq := shape[0], shape[1]

	outs := make([]*tensor.Tensor[float32, B], len(m.Heads))
	for i, h := range m.Heads {
		outs[i] = h.Forward(x)
	}
	cat := tensor.Cat(outs, -1)

	flat := cat.Reshape(tensor.Shape{batch * seq, m.embedDim})
	proj := m.Proj.Forward(flat).Reshape(tensor.Shape{batch, seq, m.embedDim})
	return m.Drop.Forward(proj, train)
}

func (m *MultiHeadAttention[B]) NumHeads() int { return len(m.Heads) }

func (m *MultiHeadAttention[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, h := range m.Heads {
		params = append(params, h.Parameters()...)
	}
	return append(params, m.Proj.Parameters()...)
}
