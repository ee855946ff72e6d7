package ops

import "github.com/born-ml/gradcam/internal/tensor"

// ReLUOp represents a ReLU (Rectified Linear Unit) activation: output = max(0, x).
//
// Backward pass:
//   - d(ReLU(x))/dx = 1 if x > 0, else 0
type ReLUOp struct {
	input  *tensor.RawTensor // x
	output *tensor.RawTensor // max(0, x)
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward masks the output gradient where the input was not positive.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	gradInput := newLike(op.input)
	in, g, out := op.input.Data(), outputGrad.Data(), gradInput.Data()
	for i, v := range in {
		if v > 0 {
			out[i] = g[i]
		}
	}
	return []*tensor.RawTensor{gradInput}
}

// Inputs returns the input tensor [x].
func (op *ReLUOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor max(0, x).
func (op *ReLUOp) Output() *tensor.RawTensor {
	return op.output
}

// GuidedReLUOp is a rectifier whose backward pass only lets positive
// gradient through positive inputs.
//
// Forward is identical to ReLU. Backward zeroes the gradient wherever the
// forward input was <= 0 or the incoming gradient is <= 0:
//
//	d_input = d_output * [x > 0] * [d_output > 0]
type GuidedReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewGuidedReLUOp creates a new GuidedReLUOp.
func NewGuidedReLUOp(input, output *tensor.RawTensor) *GuidedReLUOp {
	return &GuidedReLUOp{input: input, output: output}
}

// Backward applies the double mask.
func (op *GuidedReLUOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	gradInput := newLike(op.input)
	in, g, out := op.input.Data(), outputGrad.Data(), gradInput.Data()
	for i, v := range in {
		if v > 0 && g[i] > 0 {
			out[i] = g[i]
		}
	}
	return []*tensor.RawTensor{gradInput}
}

// Inputs returns the input tensor [x].
func (op *GuidedReLUOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor max(0, x).
func (op *GuidedReLUOp) Output() *tensor.RawTensor {
	return op.output
}
