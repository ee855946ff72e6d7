package gradcam

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
)

// GuidedBackprop explains a class with the gradient of its logit on the
// input image, computed through rectifiers that pass only positive
// gradient where the forward input was positive.
type GuidedBackprop struct {
	features   *nn.Sequential
	classifier nn.Module
	params     []*nn.Parameter
	engine     Engine
}

// NewGuidedBackprop builds the guided variant of a network. Every ReLU of
// features is replaced by a GuidedReLU in a new container; the original
// network is left untouched and parameters are shared.
func NewGuidedBackprop(features *nn.Sequential, classifier nn.Module, engine Engine) *GuidedBackprop {
	guided := nn.GuidedFeatures(features, engine)
	return &GuidedBackprop{
		features:   guided,
		classifier: classifier,
		params:     append(guided.Parameters(), classifier.Parameters()...),
		engine:     engine,
	}
}

// Features returns the transformed feature stack.
func (g *GuidedBackprop) Features() *nn.Sequential {
	return g.features
}

// Explain returns the guided gradient of class index on input as a
// [C, H, W] tensor. A negative index selects the highest scoring class.
//
// The input gradient is zeroed first, so every call reflects one class only.
// Explain clears the engine's tape.
func (g *GuidedBackprop) Explain(input *tensor.RawTensor, index int) (*tensor.RawTensor, error) {
	shape := input.Shape()
	if !input.RequiresGrad() || !input.IsLeaf() {
		return nil, ErrInputGrad
	}
	if len(shape) != 4 || shape[0] != 1 {
		return nil, fmt.Errorf("gradcam: guided input must be [1, C, H, W], got %v", shape)
	}

	begin(g.engine)
	features := g.features.Forward(input)
	logits := g.classifier.Forward(g.engine.Reshape(features, features.Shape().Flatten()))

	numClasses := logits.NumElements()
	if index < 0 {
		index = argMax(logits)
	}
	if index >= numClasses {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrClassIndex, index, numClasses)
	}

	selector, err := tensor.OneHot(numClasses, index, g.engine.Device())
	if err != nil {
		return nil, err
	}
	target := g.engine.Sum(g.engine.Mul(selector, logits))

	input.ZeroGrad()
	for _, p := range g.params {
		p.ZeroGrad()
	}
	if err := g.engine.Backward(target, false); err != nil {
		return nil, fmt.Errorf("guided backward from class %d: %w", index, err)
	}

	grad := input.Grad()
	if grad == nil {
		return nil, ErrNoGradient
	}
	return grad.Clone().View(shape[1:])
}
