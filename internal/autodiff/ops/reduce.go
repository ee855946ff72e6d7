package ops

import "github.com/born-ml/gradcam/internal/tensor"

// IndexOp records the selection of one element of a tensor (flattened
// row-major) as a [1] tensor. Backward scatters the scalar gradient into a
// zero tensor of the input's shape.
type IndexOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	index  int
}

// NewIndexOp creates a new Index operation.
func NewIndexOp(input, output *tensor.RawTensor, index int) *IndexOp {
	return &IndexOp{input: input, output: output, index: index}
}

// Inputs returns [input].
func (op *IndexOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the selected element.
func (op *IndexOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward scatters the gradient to the selected position.
func (op *IndexOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := newLike(op.input)
	grad.Data()[op.index] = outputGrad.Data()[0]
	return []*tensor.RawTensor{grad}
}

// MulOp records element-wise multiplication: d(a*b)/da = b, d(a*b)/db = a.
type MulOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewMulOp creates a new Mul operation.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{a: a, b: b, output: output}
}

// Inputs returns [a, b].
func (op *MulOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.a, op.b}
}

// Output returns a*b.
func (op *MulOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes gradients for both factors.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grads := make([]*tensor.RawTensor, 2)
	if needsGrad(op.a) {
		grads[0] = backend.Mul(outputGrad, op.b)
	}
	if needsGrad(op.b) {
		grads[1] = backend.Mul(outputGrad, op.a)
	}
	return grads
}

// SumOp records the reduction of all elements to a [1] tensor.
// Backward broadcasts the scalar gradient to every input element.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new Sum operation.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Inputs returns [input].
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the sum.
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward broadcasts the gradient.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := newLike(op.input)
	g := outputGrad.Data()[0]
	data := grad.Data()
	for i := range data {
		data[i] = g
	}
	return []*tensor.RawTensor{grad}
}
