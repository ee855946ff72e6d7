package nn

import "github.com/born-ml/gradcam/internal/tensor"

// GuidedReLUBackend is an interface for backends that record the
// guided-backprop rectifier (autodiff.AutodiffBackend).
type GuidedReLUBackend interface {
	GuidedReLU(*tensor.RawTensor) *tensor.RawTensor
}

// ReLU is a Rectified Linear Unit activation module: f(x) = max(0, x).
type ReLU struct {
	backend tensor.Backend
}

// NewReLU creates a new ReLU activation module.
func NewReLU(backend tensor.Backend) *ReLU {
	return &ReLU{backend: backend}
}

// Forward applies max(0, x).
func (r *ReLU) Forward(input *tensor.RawTensor) *tensor.RawTensor {
	return r.backend.ReLU(input)
}

// Parameters returns nil (ReLU has no parameters).
func (r *ReLU) Parameters() []*Parameter {
	return nil
}

func (r *ReLU) String() string {
	return "ReLU()"
}

// GuidedReLU has the forward pass of ReLU but a backward pass that also
// zeroes negative incoming gradient, as guided backpropagation requires.
type GuidedReLU struct {
	backend GuidedReLUBackend
}

// NewGuidedReLU creates a guided rectifier.
// Panics if backend cannot record the guided variant.
func NewGuidedReLU(backend tensor.Backend) *GuidedReLU {
	guided, ok := backend.(GuidedReLUBackend)
	if !ok {
		panic("GuidedReLU: backend must implement GuidedReLU (use autodiff.AutodiffBackend)")
	}
	return &GuidedReLU{backend: guided}
}

// Forward applies max(0, x) and records the guided backward.
func (g *GuidedReLU) Forward(input *tensor.RawTensor) *tensor.RawTensor {
	return g.backend.GuidedReLU(input)
}

// Parameters returns nil.
func (g *GuidedReLU) Parameters() []*Parameter {
	return nil
}

func (g *GuidedReLU) String() string {
	return "GuidedReLU()"
}
