// Package ops defines the differentiable operations recorded on the gradient tape.
//
// Each operation keeps references to its inputs and output from the forward
// pass and computes input gradients during the backward pass:
//   - Conv2DOp: 2D convolution (transposed convolution / correlation backward)
//   - BiasAddOp: per-channel bias (sum over batch and spatial dims)
//   - LinearOp: x @ Wᵀ (grad @ W, gradᵀ @ x)
//   - ReLUOp: max(0, x) (gradient masked where x <= 0)
//   - GuidedReLUOp: max(0, x) with guided backward (masked where x <= 0 or grad <= 0)
//   - MaxPool2DOp: max pooling (gradient routed to the window maximum)
//   - ReshapeOp, IndexOp, MulOp, SumOp: plumbing to flatten features and
//     reduce logits to a scalar
package ops

import "github.com/born-ml/gradcam/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// The returned slice is aligned with Inputs(); an entry is nil when the
	// corresponding input does not require a gradient.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}

// needsGrad reports whether a gradient should be computed for t.
func needsGrad(t *tensor.RawTensor) bool {
	return t != nil && t.RequiresGrad()
}

// newLike allocates a zero tensor with t's shape and device.
func newLike(t *tensor.RawTensor) *tensor.RawTensor {
	return tensor.MustRaw(t.Shape(), t.Device())
}
