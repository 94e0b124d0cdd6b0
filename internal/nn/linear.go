package nn

import (
	"fmt"
	"math/rand"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// Linear is the affine map y = x @ Wᵀ + b over 2D inputs (n, in).
// Weight is stored (out, in); Bias is nil for projection layers that
// omit it.
type Linear[B tensor.Backend] struct {
	Weight *Parameter[B]
	Bias   *Parameter[B]

	inFeatures  int
	outFeatures int
	backend     B
}

// NewLinear creates a biased layer with Xavier-initialized weights and
// zero bias.
func NewLinear[B tensor.Backend](name string, inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	l := NewLinearNoBias(name, inFeatures, outFeatures, rng, backend)
	l.Bias = NewParameter(name+".bias",
		tensor.Zeros[float32, B](tensor.Shape{outFeatures}, backend))
	return l
}

// NewLinearNoBias creates a pure projection, used by the attention
// query/key/value maps.
func NewLinearNoBias[B tensor.Backend](name string, inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("nn.NewLinear: invalid dimensions in=%d out=%d", inFeatures, outFeatures))
	}
	weight := xavierUniform(tensor.Shape{outFeatures, inFeatures}, inFeatures, outFeatures, rng, backend)
	return &Linear[B]{
		Weight:      NewParameter(name+".weight", weight),
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		backend:     backend,
	}
}

// Forward applies the layer to a 2D (n, in) input.
func (l *Linear[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: want input (n, %d), got %v", l.inFeatures, shape))
	}
	out := x.MatMul(l.Weight.Tensor().Transpose())
	if l.Bias != nil {
		out = out.Add(l.Bias.Tensor())
	}
	return out
}

func (l *Linear[B]) InFeatures() int  { return l.inFeatures }
func (l *Linear[B]) OutFeatures() int { return l.outFeatures }

func (l *Linear[B]) Parameters() []*Parameter[B] {
	if l.Bias == nil {
		return []*Parameter[B]{l.Weight}
	}
	return []*Parameter[B]{l.Weight, l.Bias}
}
