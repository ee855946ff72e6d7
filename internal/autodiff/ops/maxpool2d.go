package ops

import "github.com/born-ml/gradcam/internal/tensor"

// MaxPool2DOp records a max pooling operation.
//
// Backward routes each output gradient to the input position holding the
// window maximum; all other positions receive zero.
type MaxPool2DOp struct {
	input      *tensor.RawTensor
	output     *tensor.RawTensor
	kernelSize int
	stride     int
}

// NewMaxPool2DOp creates a new MaxPool2D operation.
func NewMaxPool2DOp(input, output *tensor.RawTensor, kernelSize, stride int) *MaxPool2DOp {
	return &MaxPool2DOp{input: input, output: output, kernelSize: kernelSize, stride: stride}
}

// Inputs returns [input].
func (op *MaxPool2DOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the pooled tensor.
func (op *MaxPool2DOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward delegates to the backend.
func (op *MaxPool2DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MaxPool2DBackward(op.input, outputGrad, op.kernelSize, op.stride)}
}
