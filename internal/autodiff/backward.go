package autodiff

import (
	"fmt"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// Backward walks the tape in reverse from loss, accumulating
// gradients. The returned map is keyed by raw tensor identity, so
// parameter gradients are looked up with Parameter.Tensor().Raw().
//
// The loss must be a float32 tensor with a single element.
func (a *AutodiffBackend[B]) Backward(loss *tensor.RawTensor) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	if loss.DType() != tensor.Float32 {
		return nil, fmt.Errorf("autodiff: loss dtype must be float32, got %s", loss.DType())
	}
	if loss.NumElements() != 1 {
		return nil, fmt.Errorf("autodiff: loss must be scalar, got shape %v", loss.Shape())
	}

	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	seed := tensor.MustNewRaw(loss.Shape(), tensor.Float32)
	seed.AsFloat32()[0] = 1
	grads[loss] = seed

	recorded := a.tape.Operations()
	for i := len(recorded) - 1; i >= 0; i-- {
		op := recorded[i]
		grad, ok := grads[op.Output()]
		if !ok {
			// Branch not on the path to the loss.
			continue
		}
		op.Backward(grad, grads)
	}
	return grads, nil
}
