package nn

import "github.com/born-ml/gradcam/internal/tensor"

// Parameter represents a learnable tensor of a layer (weight or bias).
//
// The tensor requires a gradient by default, so backward passes accumulate
// into it until ZeroGrad is called.
type Parameter struct {
	name   string
	tensor *tensor.RawTensor
}

// NewParameter wraps t as a parameter named name ("weight", "bias").
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	t.SetRequiresGrad(true)
	return &Parameter{name: name, tensor: t}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.RawTensor {
	return p.tensor
}

// Grad returns the accumulated gradient, or nil before any backward pass.
func (p *Parameter) Grad() *tensor.RawTensor {
	return p.tensor.Grad()
}

// ZeroGrad clears the accumulated gradient.
func (p *Parameter) ZeroGrad() {
	p.tensor.ZeroGrad()
}
