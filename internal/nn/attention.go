package nn

import (
	"math"

	"github.com/glyph-ml/glyph/internal/tensor"
)

// CausalMask returns a (size, size) additive mask: 0 on and below the
// diagonal, -Inf above it. Added to attention scores before softmax it
// zeroes every weight on a future position.
func CausalMask[B tensor.Backend](size int, backend B) *tensor.Tensor[float32, B] {
	mask := tensor.Zeros[float32, B](tensor.Shape{size, size}, backend)
	negInf := float32(math.Inf(-1))
	data := mask.Data()
	for i := 0; i < size; i++ {
		for j := i + 1; j < size; j++ {
			data[i*size+j] = negInf
		}
	}
	return mask
}
