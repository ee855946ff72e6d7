package gradcam

import (
	"github.com/born-ml/gradcam/internal/autodiff"
	"github.com/born-ml/gradcam/internal/tensor"
)

// Engine is the differentiation engine explanations run on.
// *autodiff.AutodiffBackend satisfies it.
type Engine interface {
	tensor.Backend
	Tape() *autodiff.GradientTape
	RegisterHook(t *tensor.RawTensor, fn autodiff.GradHook) error
	Backward(output *tensor.RawTensor, retainGraph bool) error
}

// begin starts a fresh recording on e.
func begin(e Engine) {
	tape := e.Tape()
	tape.Clear()
	tape.StartRecording()
}
