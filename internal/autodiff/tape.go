package autodiff

import (
	"sync"

	"github.com/glyph-ml/glyph/internal/autodiff/ops"
)

// GradientTape records the operations of a forward pass in execution
// order. It is safe for concurrent use, though training loops are
// typically single-goroutine.
type GradientTape struct {
	mu        sync.Mutex
	recorded  []ops.Operation
	recording bool
}

func NewTape() *GradientTape {
	return &GradientTape{}
}

// StartRecording begins capturing operations.
func (t *GradientTape) StartRecording() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording = true
}

// StopRecording stops capturing; recorded operations remain available
// until Clear.
func (t *GradientTape) StopRecording() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recording = false
}

// Clear drops all recorded operations.
func (t *GradientTape) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recorded = t.recorded[:0]
}

// Record appends op when recording is active.
func (t *GradientTape) Record(op ops.Operation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.recording {
		t.recorded = append(t.recorded, op)
	}
}

// Operations returns a snapshot of the recorded operations.
func (t *GradientTape) Operations() []ops.Operation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ops.Operation, len(t.recorded))
	copy(out, t.recorded)
	return out
}

// Len reports the number of recorded operations.
func (t *GradientTape) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.recorded)
}
