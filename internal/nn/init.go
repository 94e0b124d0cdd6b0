package nn

import (
	"math"
	"math/rand"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// xavierUniform samples U(-limit, limit) with limit = sqrt(6/(fanIn+fanOut)),
// the Glorot initialization used for all projection weights.
func xavierUniform[B tensor.Backend](shape tensor.Shape, fanIn, fanOut int, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	limit := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))
	t := tensor.Zeros[float32, B](shape, backend)
	data := t.Data()
	for i := range data {
		data[i] = (rng.Float32()*2 - 1) * limit
	}
	return t
}
