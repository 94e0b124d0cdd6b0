package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glyph-ml/glyph/internal/backend/cpu"
	"github.com/glyph-ml/glyph/internal/tensor"
)

func TestLayerNormNormalizesLastDim(t *testing.T) {
	b := cpu.New()
	ln := NewLayerNorm[CPU]("ln", 4, 1e-5, b)

	x := tensor.MustFromSlice([]float32{
		1, 2, 3, 4,
		10, 10, 10, 10,
	}, tensor.Shape{2, 4}, b)
	out := ln.Forward(x)
	assert.Equal(t, tensor.Shape{2, 4}, out.Shape())

	data := out.Data()
	for r := 0; r < 2; r++ {
		var mean, variance float32
		for c := 0; c < 4; c++ {
			mean += data[r*4+c]
		}
		mean /= 4
		for c := 0; c < 4; c++ {
			d := data[r*4+c] - mean
			variance += d * d
		}
		variance /= 4
		assert.InDelta(t, 0.0, float64(mean), 1e-5)
		// A constant row stays constant: variance 0, not 1.
		if r == 0 {
			assert.InDelta(t, 1.0, float64(variance), 1e-3)
		} else {
			assert.InDelta(t, 0.0, float64(variance), 1e-5)
		}
	}
}

func TestLayerNormAffine(t *testing.T) {
	b := cpu.New()
	ln := NewLayerNorm[CPU]("ln", 2, 1e-5, b)
	copy(ln.Gamma.Tensor().Data(), []float32{2, 2})
	copy(ln.Beta.Tensor().Data(), []float32{5, 5})

	x := tensor.MustFromSlice([]float32{-1, 1}, tensor.Shape{1, 2}, b)
	out := ln.Forward(x)
	// Normalized row is close to (-1, 1); scaled and shifted.
	assert.InDelta(t, 3.0, float64(out.Data()[0]), 1e-2)
	assert.InDelta(t, 7.0, float64(out.Data()[1]), 1e-2)
}

func TestLayerNormRejectsWrongWidth(t *testing.T) {
	b := cpu.New()
	ln := NewLayerNorm[CPU]("ln", 4, 1e-5, b)
	x := tensor.Zeros[float32, CPU](tensor.Shape{2, 3}, b)
	assert.Panics(t, func() { ln.Forward(x) })
}
