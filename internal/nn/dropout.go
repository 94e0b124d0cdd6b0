package nn

import (
	"fmt"
	"math/rand"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// Dropout applies inverted dropout: during training each element is
// zeroed with probability p and survivors are scaled by 1/(1-p), so
// inference needs no rescaling. Whether a pass is training is an
// explicit argument rather than module state.
type Dropout[B tensor.Backend] struct {
	p   float32
	rng *rand.Rand
}

func NewDropout[B tensor.Backend](p float32, rng *rand.Rand) *Dropout[B] {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("nn.NewDropout: p must be in [0, 1), got %g", p))
	}
	return &Dropout[B]{p: p, rng: rng}
}

func (d *Dropout[B]) Forward(x *tensor.Tensor[float32, B], train bool) *tensor.Tensor[float32, B] {
	if !train || d.p == 0 {
		return x
	}
	keep := 1 - d.p
	scale := 1 / keep
	mask := tensor.Zeros[float32, B](x.Shape(), x.Backend())
	data := mask.Data()
	for i := range data {
		if d.rng.Float32() < keep {
			data[i] = scale
		}
	}
	return x.Mul(mask)
}

func (d *Dropout[B]) P() float32 { return d.p }
