package gradcam

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
)

// Tap runs a feature stack child by child, recording the output of every
// target child and capturing the gradient that later flows back into it.
//
// A Tap holds the state of exactly one forward pass: both lists are reset
// at the start of every Run.
type Tap struct {
	features *nn.Sequential
	engine   Engine
	targets  map[string]bool

	activations []*tensor.RawTensor
	gradients   []*tensor.RawTensor
}

// NewTap creates a tap on the children of features named in targets.
func NewTap(features *nn.Sequential, engine Engine, targets ...string) *Tap {
	set := make(map[string]bool, len(targets))
	for _, name := range targets {
		set[name] = true
	}
	return &Tap{features: features, engine: engine, targets: set}
}

// Run forwards input through every child and returns the captured
// activations in layer order together with the final output.
func (t *Tap) Run(input *tensor.RawTensor) ([]*tensor.RawTensor, *tensor.RawTensor, error) {
	t.activations = nil
	t.gradients = nil

	x := input
	for _, child := range t.features.Children() {
		x = child.Module.Forward(x)
		if !t.targets[child.Name] {
			continue
		}

		slot := len(t.activations)
		t.activations = append(t.activations, x)
		t.gradients = append(t.gradients, nil)
		if err := t.engine.RegisterHook(x, func(grad *tensor.RawTensor) {
			t.gradients[slot] = grad
		}); err != nil {
			return nil, nil, fmt.Errorf("tap layer %s: %w", child.Name, err)
		}
	}
	return t.activations, x, nil
}

// Activations returns the activations captured by the last Run.
func (t *Tap) Activations() []*tensor.RawTensor {
	return t.activations
}

// Gradients returns the gradients captured by the last backward pass,
// aligned with Activations. An entry is nil until a backward pass reaches
// its layer.
func (t *Tap) Gradients() []*tensor.RawTensor {
	return t.gradients
}

// resetGradients forgets the gradients of a previous backward pass.
func (t *Tap) resetGradients() {
	for i := range t.gradients {
		t.gradients[i] = nil
	}
}
