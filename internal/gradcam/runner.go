package gradcam

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// Pass is one recorded forward computation.
type Pass struct {
	Input       *tensor.RawTensor
	Activations []*tensor.RawTensor
	Logits      *tensor.RawTensor // [1, num_classes]

	generation uint64
}

// NumClasses returns the number of output logits.
func (p *Pass) NumClasses() int {
	return p.Logits.NumElements()
}

// ArgMax returns the index of the largest logit.
func (p *Pass) ArgMax() int {
	return argMax(p.Logits)
}

// Runner wraps a feature stack and a classifier head. Run is the only way
// to produce logits whose backward pass fills the tap.
type Runner struct {
	tap        *Tap
	classifier nn.Module
	params     []*nn.Parameter
	engine     Engine
}

// NewRunner creates a runner tapping the feature children named in targets.
func NewRunner(features *nn.Sequential, classifier nn.Module, engine Engine, targets ...string) *Runner {
	return &Runner{
		tap:        NewTap(features, engine, targets...),
		classifier: classifier,
		params:     append(features.Parameters(), classifier.Parameters()...),
		engine:     engine,
	}
}

// Run records a forward pass: features through the tap, flatten, classifier.
// Any previously recorded pass becomes stale.
func (r *Runner) Run(input *tensor.RawTensor) (*Pass, error) {
	begin(r.engine)

	activations, features, err := r.tap.Run(input)
	if err != nil {
		return nil, err
	}
	flat := r.engine.Reshape(features, features.Shape().Flatten())
	logits := r.classifier.Forward(flat)

	return &Pass{
		Input:       input,
		Activations: activations,
		Logits:      logits,
		generation:  r.engine.Tape().Generation(),
	}, nil
}

// Backward zeroes the network gradients and backpropagates from the logit
// of class index, keeping the graph so the pass can be reused.
func (r *Runner) Backward(pass *Pass, index int) error {
	if pass.generation != r.engine.Tape().Generation() {
		return ErrStalePass
	}
	if index < 0 || index >= pass.NumClasses() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrClassIndex, index, pass.NumClasses())
	}

	for _, p := range r.params {
		p.ZeroGrad()
	}
	r.tap.resetGradients()

	logit := r.engine.Index(pass.Logits, index)
	if err := r.engine.Backward(logit, true); err != nil {
		return fmt.Errorf("backward from class %d: %w", index, err)
	}
	return nil
}

// Gradients returns the gradients captured by the last backward pass.
func (r *Runner) Gradients() []*tensor.RawTensor {
	return r.tap.Gradients()
}

func argMax(t *tensor.RawTensor) int {
	return floats.MaxIdx(toFloat64(t.Data()))
}

func toFloat64(src []float32) []float64 {
	dst := make([]float64, len(src))
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}
