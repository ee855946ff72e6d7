package ops

import "github.com/born-ml/gradcam/internal/tensor"

// LinearOp records output = x @ weightᵀ.
//
// Backward:
//   - d_x:      d_output @ weight
//   - d_weight: d_outputᵀ @ x
type LinearOp struct {
	x      *tensor.RawTensor
	weight *tensor.RawTensor
	output *tensor.RawTensor
}

// NewLinearOp creates a new Linear operation.
func NewLinearOp(x, weight, output *tensor.RawTensor) *LinearOp {
	return &LinearOp{x: x, weight: weight, output: output}
}

// Inputs returns [x, weight].
func (op *LinearOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.x, op.weight}
}

// Output returns x @ weightᵀ.
func (op *LinearOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes gradients for x and weight.
func (op *LinearOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grads := make([]*tensor.RawTensor, 2)
	if needsGrad(op.x) {
		grads[0] = backend.LinearInputBackward(op.weight, outputGrad)
	}
	if needsGrad(op.weight) {
		grads[1] = backend.LinearWeightBackward(op.x, outputGrad)
	}
	return grads
}

// BiasAddOp records output = x + bias broadcast over channel dimension 1.
type BiasAddOp struct {
	x      *tensor.RawTensor
	bias   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewBiasAddOp creates a new BiasAdd operation.
func NewBiasAddOp(x, bias, output *tensor.RawTensor) *BiasAddOp {
	return &BiasAddOp{x: x, bias: bias, output: output}
}

// Inputs returns [x, bias].
func (op *BiasAddOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.x, op.bias}
}

// Output returns x + bias.
func (op *BiasAddOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward passes the gradient through to x and reduces it per channel for bias.
func (op *BiasAddOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grads := make([]*tensor.RawTensor, 2)
	if needsGrad(op.x) {
		grads[0] = outputGrad
	}
	if needsGrad(op.bias) {
		grads[1] = backend.BiasAddBackward(outputGrad)
	}
	return grads
}
