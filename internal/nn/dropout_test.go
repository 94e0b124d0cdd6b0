package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glyph-ml/glyph/internal/backend/cpu"
	"github.com/glyph-ml/glyph/internal/tensor"
)

func TestDropoutInferenceIsIdentity(t *testing.T) {
	b := cpu.New()
	d := NewDropout[CPU](0.5, testRNG())
	x := tensor.MustFromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4}, b)
	out := d.Forward(x, false)
	assert.Equal(t, x.Data(), out.Data())
}

func TestDropoutTrainZeroesAndRescales(t *testing.T) {
	b := cpu.New()
	d := NewDropout[CPU](0.5, testRNG())
	x := tensor.Ones[float32, CPU](tensor.Shape{1000}, b)
	out := d.Forward(x, true)

	var zeros, kept int
	for _, v := range out.Data() {
		switch v {
		case 0:
			zeros++
		case 2: // survivors scaled by 1/(1-p)
			kept++
		default:
			t.Fatalf("unexpected value %g", v)
		}
	}
	assert.Equal(t, 1000, zeros+kept)
	assert.InDelta(t, 500, zeros, 100)
}

func TestDropoutZeroProbabilityIsIdentity(t *testing.T) {
	b := cpu.New()
	d := NewDropout[CPU](0, testRNG())
	x := tensor.MustFromSlice([]float32{1, 2}, tensor.Shape{2}, b)
	assert.Equal(t, x.Data(), d.Forward(x, true).Data())
}

func TestDropoutRejectsInvalidProbability(t *testing.T) {
	assert.Panics(t, func() { NewDropout[CPU](1, testRNG()) })
	assert.Panics(t, func() { NewDropout[CPU](-0.1, testRNG()) })
}
