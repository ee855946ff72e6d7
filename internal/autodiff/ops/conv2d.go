package ops

import "github.com/born-ml/gradcam/internal/tensor"

// Conv2DOp records a 2D convolution operation for autodiff.
//
// Forward: output = Conv2D(input, kernel, stride, padding)
//
// Backward:
//   - d_input:  transposed convolution of d_output with kernel
//   - d_kernel: correlation of input with d_output
//
// The kernel gradient is the expensive half; it is skipped for frozen kernels.
type Conv2DOp struct {
	input   *tensor.RawTensor
	kernel  *tensor.RawTensor
	output  *tensor.RawTensor
	stride  int
	padding int
}

// NewConv2DOp creates a new Conv2D operation.
func NewConv2DOp(input, kernel, output *tensor.RawTensor, stride, padding int) *Conv2DOp {
	return &Conv2DOp{
		input:   input,
		kernel:  kernel,
		output:  output,
		stride:  stride,
		padding: padding,
	}
}

// Inputs returns [input, kernel].
func (op *Conv2DOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input, op.kernel}
}

// Output returns the convolution result.
func (op *Conv2DOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward delegates both gradients to the backend.
func (op *Conv2DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grads := make([]*tensor.RawTensor, 2)
	if needsGrad(op.input) {
		grads[0] = backend.Conv2DInputBackward(op.input, op.kernel, outputGrad, op.stride, op.padding)
	}
	if needsGrad(op.kernel) {
		grads[1] = backend.Conv2DKernelBackward(op.input, op.kernel, outputGrad, op.stride, op.padding)
	}
	return grads
}
