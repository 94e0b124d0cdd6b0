package optim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyph-ml/glyph/internal/backend/cpu"
	"github.com/glyph-ml/glyph/internal/nn"
	"github.com/glyph-ml/glyph/internal/tensor"
)

type CPU = *cpu.CPUBackend

func param(data []float32) *nn.Parameter[CPU] {
	t := tensor.MustFromSlice(data, tensor.Shape{len(data)}, cpu.New())
	return nn.NewParameter("p", t)
}

func gradFor(p *nn.Parameter[CPU], g []float32) map[*tensor.RawTensor]*tensor.RawTensor {
	raw := tensor.MustNewRaw(p.Tensor().Shape(), tensor.Float32)
	copy(raw.AsFloat32(), g)
	return map[*tensor.RawTensor]*tensor.RawTensor{p.Tensor().Raw(): raw}
}

func TestSGDStep(t *testing.T) {
	p := param([]float32{1, 2, 3})
	opt := NewSGD([]*nn.Parameter[CPU]{p}, 0.1)
	opt.Step(gradFor(p, []float32{1, -1, 0}))
	assert.InDeltaSlice(t, []float32{0.9, 2.1, 3}, p.Tensor().Data(), 1e-6)
}

func TestSGDSkipsParamsWithoutGradient(t *testing.T) {
	p := param([]float32{5})
	opt := NewSGD([]*nn.Parameter[CPU]{p}, 0.1)
	opt.Step(map[*tensor.RawTensor]*tensor.RawTensor{})
	assert.Equal(t, []float32{5}, p.Tensor().Data())
}

func TestAdamFirstStepMovesByLearningRate(t *testing.T) {
	// With bias correction, the first Adam step is ~lr * sign(g).
	p := param([]float32{1, 1})
	opt := NewAdam([]*nn.Parameter[CPU]{p}, 0.01)
	opt.Step(gradFor(p, []float32{0.5, -0.5}))
	assert.InDelta(t, 0.99, float64(p.Tensor().Data()[0]), 1e-4)
	assert.InDelta(t, 1.01, float64(p.Tensor().Data()[1]), 1e-4)
}

func TestAdamConvergesOnQuadratic(t *testing.T) {
	// Minimize f(x) = x² with exact gradients.
	p := param([]float32{3})
	opt := NewAdam([]*nn.Parameter[CPU]{p}, 0.1)
	for i := 0; i < 400; i++ {
		x := p.Tensor().Data()[0]
		opt.Step(gradFor(p, []float32{2 * x}))
	}
	assert.Less(t, math.Abs(float64(p.Tensor().Data()[0])), 0.01)
}

func TestSGDConvergesOnQuadratic(t *testing.T) {
	p := param([]float32{3})
	opt := NewSGD([]*nn.Parameter[CPU]{p}, 0.1)
	for i := 0; i < 100; i++ {
		x := p.Tensor().Data()[0]
		opt.Step(gradFor(p, []float32{2 * x}))
	}
	require.Less(t, math.Abs(float64(p.Tensor().Data()[0])), 1e-3)
}

func TestInvalidLearningRatePanics(t *testing.T) {
	p := param([]float32{1})
	assert.Panics(t, func() { NewSGD([]*nn.Parameter[CPU]{p}, 0) })
	assert.Panics(t, func() { NewAdam([]*nn.Parameter[CPU]{p}, -1) })
}
