package nn

import (
	"fmt"
	"math/rand"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// Embedding maps int32 indices to learned dense rows of a
// (numEmbeddings, dim) table, initialized from N(0, 1).
type Embedding[B tensor.Backend] struct {
	Weight *Parameter[B]
}

func NewEmbedding[B tensor.Backend](name string, numEmbeddings, dim int, rng *rand.Rand, backend B) *Embedding[B] {
	if numEmbeddings <= 0 || dim <= 0 {
		panic(fmt.Sprintf("nn.NewEmbedding: invalid dimensions n=%d dim=%d", numEmbeddings, dim))
	}
	weight := tensor.Randn(tensor.Shape{numEmbeddings, dim}, 1, rng, backend)
	return &Embedding[B]{Weight: NewParameter(name+".weight", weight)}
}

// Forward gathers rows by index, producing indices.Shape + (dim,).
// Panics when an index falls outside the table.
func (e *Embedding[B]) Forward(indices *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	return e.Weight.Tensor().Embedding(indices)
}

func (e *Embedding[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{e.Weight}
}
