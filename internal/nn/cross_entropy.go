package nn

import (
	"github.com/glyph-ml/glyph/internal/tensor"
)

// CrossEntropyLoss computes mean softmax cross-entropy between
// (n, classes) logits and (n,) int32 targets through the backend's
// fused op, so gradients flow when the backend records a tape.
type CrossEntropyLoss[B tensor.Backend] struct {
	backend B
}

func NewCrossEntropyLoss[B tensor.Backend](backend B) *CrossEntropyLoss[B] {
	if _, ok := any(backend).(tensor.CrossEntropyBackend); !ok {
		panic("nn.NewCrossEntropyLoss: backend " + backend.Name() + " does not implement CrossEntropy")
	}
	return &CrossEntropyLoss[B]{backend: backend}
}

// Forward returns a scalar loss tensor.
func (c *CrossEntropyLoss[B]) Forward(logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	ce := any(c.backend).(tensor.CrossEntropyBackend)
	return tensor.New[float32](ce.CrossEntropy(logits.Raw(), targets.Raw()), c.backend)
}
