package autodiff

import (
	"github.com/born-ml/gradcam/internal/autodiff/ops"
	"github.com/born-ml/gradcam/internal/tensor"
)

// GradHook is called with the fully accumulated gradient of the tensor it
// was registered on, once per backward pass that reaches that tensor.
// Hooks must not modify grad.
type GradHook func(grad *tensor.RawTensor)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic differentiation.
//
// The tape also owns the hook registry: a mapping from tensor identity to the
// callbacks registered on it. Hooks fire in reverse topological order, i.e. in
// the order the backward walk completes each tensor's gradient.
//
// Usage:
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// ... perform operations ...
//	gradients, err := tape.Backward(output, seed, backend)
type GradientTape struct {
	operations []ops.Operation
	hooks      map[*tensor.RawTensor][]GradHook
	recording  bool
	released   bool
	generation uint64
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
		hooks:      make(map[*tensor.RawTensor][]GradHook),
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// RegisterHook attaches fn to t. Hooks live until the tape is cleared.
func (t *GradientTape) RegisterHook(target *tensor.RawTensor, fn GradHook) {
	t.hooks[target] = append(t.hooks[target], fn)
}

// NumHooks returns the number of tensors with registered hooks.
func (t *GradientTape) NumHooks() int {
	return len(t.hooks)
}

// Clear drops every recorded operation and hook so a new forward pass can
// be recorded. Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
	t.hooks = make(map[*tensor.RawTensor][]GradHook)
	t.released = false
	t.generation++
}

// Generation counts Clear calls. Tensors recorded under an older generation
// are no longer part of the graph.
func (t *GradientTape) Generation() uint64 {
	return t.generation
}

// Release frees the recorded graph after a backward pass. Further backward
// calls fail with ErrGraphReleased until the tape is cleared.
func (t *GradientTape) Release() {
	t.operations = t.operations[:0]
	t.hooks = make(map[*tensor.RawTensor][]GradHook)
	t.released = true
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward computes gradients of output w.r.t. every tensor that requires one
// by walking the tape in reverse.
//
// Algorithm:
//  1. Seed output with seed (ones for a scalar loss)
//  2. Walk operations in reverse order; an operation's output gradient is
//     complete once reached, so its hooks fire and the chain rule runs
//  3. Accumulate gradients when the same tensor feeds several operations
//  4. Fire hooks on leaf tensors last
//
// Returns a map from RawTensor to its gradient for this pass.
func (t *GradientTape) Backward(output, seed *tensor.RawTensor, backend tensor.Backend) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	if t.released {
		return nil, ErrGraphReleased
	}
	if !seed.Shape().Equal(output.Shape()) {
		return nil, ErrSeedShape
	}
	if !output.RequiresGrad() {
		return nil, ErrNoGradRequired
	}
	if !output.IsLeaf() && !t.produced(output) {
		return nil, ErrNotRecorded
	}

	// Stop recording during backward pass to prevent recording gradient operations
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	grads := map[*tensor.RawTensor]*tensor.RawTensor{output: seed}

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		outGrad, ok := grads[op.Output()]
		if !ok {
			continue
		}
		t.fire(op.Output(), outGrad)

		inputGrads := op.Backward(outGrad, backend)
		for j, input := range op.Inputs() {
			if j >= len(inputGrads) || inputGrads[j] == nil || !input.RequiresGrad() {
				continue
			}
			if existing, seen := grads[input]; seen {
				grads[input] = backend.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}

	for target, grad := range grads {
		if target.IsLeaf() {
			t.fire(target, grad)
		}
	}

	return grads, nil
}

func (t *GradientTape) fire(target, grad *tensor.RawTensor) {
	for _, fn := range t.hooks[target] {
		fn(grad)
	}
}

func (t *GradientTape) produced(target *tensor.RawTensor) bool {
	for i := len(t.operations) - 1; i >= 0; i-- {
		if t.operations[i].Output() == target {
			return true
		}
	}
	return false
}
