// Package ops holds the recorded operations of the gradient tape.
// Each operation keeps references to its raw inputs and output and
// knows how to push an incoming output gradient back onto the inputs.
package ops

import "github.com/glyph-ml/glyph/internal/tensor"

// Operation is one recorded step of a forward pass.
type Operation interface {
	// Output returns the raw tensor this operation produced. The
	// backward walk uses it to look up the incoming gradient.
	Output() *tensor.RawTensor

	// Backward distributes grad onto the operation inputs,
	// accumulating into grads.
	Backward(grad *tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor)
}

// accumulate adds g to the gradient stored for t, taking ownership of
// g when none is stored yet.
func accumulate(grads map[*tensor.RawTensor]*tensor.RawTensor, t, g *tensor.RawTensor) {
	if existing, ok := grads[t]; ok {
		dst, src := existing.AsFloat32(), g.AsFloat32()
		for i := range dst {
			dst[i] += src[i]
		}
		return
	}
	grads[t] = g
}
