// Package nn implements the neural network modules used to build the
// classifiers being explained.
//
// This package provides:
//   - Module interface: base interface for all NN components
//   - Parameter: learnable tensors with gradient tracking
//   - Conv2D, Linear, MaxPool2D, Dropout: layers
//   - ReLU and GuidedReLU: rectifiers (plain and guided-backprop backward)
//   - Sequential: ordered, named container of child modules
//   - VGG: convolutional feature stack followed by a fully connected head
//
// Design inspired by PyTorch's nn.Module: containers expose their children by
// name, so parameters get dotted names ("features.0.weight") and a network
// can be transformed structurally (see Sequential.Replace).
package nn

import "github.com/born-ml/gradcam/internal/tensor"

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	features := nn.NewSequential(
//	    nn.NewConv2D(3, 64, 3, 1, 1, backend, rng),
//	    nn.NewReLU(backend),
//	    nn.NewMaxPool2D(2, 2, backend),
//	)
type Module interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.RawTensor) *tensor.RawTensor

	// Parameters returns the module's own and nested learnable parameters.
	// Returns an empty slice for modules without parameters.
	Parameters() []*Parameter
}

// Container is implemented by modules that hold named child modules.
type Container interface {
	Children() []Child
}

// Child is a named entry of a container.
type Child struct {
	Name   string
	Module Module
}

// ZeroGrad clears the accumulated gradient of every parameter of m.
func ZeroGrad(m Module) {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}

// SetRequiresGrad enables or disables gradient tracking on every parameter of m.
// Freezing the parameters of a network that is only being explained skips the
// kernel and weight gradients entirely.
func SetRequiresGrad(m Module, v bool) {
	for _, p := range m.Parameters() {
		p.Tensor().SetRequiresGrad(v)
	}
}
