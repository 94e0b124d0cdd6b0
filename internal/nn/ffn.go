package nn

import (
	"fmt"
	"math/rand"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// FeedForward is the position-wise MLP of a transformer block: expand
// to 4x the embedding dimension, ReLU, project back, dropout.
type FeedForward[B tensor.Backend] struct {
	Expand  *Linear[B]
	Project *Linear[B]
	Drop    *Dropout[B]

	embedDim int
}

func NewFeedForward[B tensor.Backend](name string, embedDim int, dropout float32, rng *rand.Rand, backend B) *FeedForward[B] {
	hidden := 4 * embedDim
	return &FeedForward[B]{
		Expand:   NewLinear(name+".expand", embedDim, hidden, rng, backend),
		Project:  NewLinear(name+".project", hidden, embedDim, rng, backend),
		Drop:     NewDropout[B](dropout, rng),
		embedDim: embedDim,
	}
}

// Forward maps (batch, time, embedDim) to the same shape.
func (f *FeedForward[B]) Forward(x *tensor.Tensor[float32, B], train bool) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 3 || shape[2] != f.embedDim {
		panic(fmt.Sprintf("FeedForward.Forward: want input (batch, time, %d), got %v", f.embedDim, shape))
	}
	batch, seq := shape[0], shape[1]

	flat := x.Reshape(tensor.Shape{batch * seq, f.embedDim})
	hidden := f.Expand.Forward(flat).ReLU()
	out := f.Project.Forward(hidden).Reshape(tensor.Shape{batch, seq, f.embedDim})
	return f.Drop.Forward(out, train)
}

func (f *FeedForward[B]) Parameters() []*Parameter[B] {
	return append(f.Expand.Parameters(), f.Project.Parameters()...)
}
