// Package autodiff implements reverse-mode automatic differentiation using the
// decorator pattern.
//
// AutodiffBackend wraps any tensor.Backend and records the differentiable
// operations it executes on a GradientTape. An operation is recorded only when
// the tape is recording and at least one of its inputs requires a gradient;
// its output then requires a gradient too and becomes an interior node.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, tensor.CPU)
//	x.SetRequiresGrad(true)
//	y := backend.Mul(x, x) // y = x²
//
//	_ = backend.Backward(y, false)
//	fmt.Println(x.Grad().Data()) // dy/dx = 2x = [4]
package autodiff

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/autodiff/ops"
	"github.com/born-ml/gradcam/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// record attaches op to the graph when any of its inputs requires a gradient.
func (b *AutodiffBackend[B]) record(op ops.Operation) {
	if !b.tape.IsRecording() {
		return
	}
	for _, in := range op.Inputs() {
		if in.RequiresGrad() {
			out := op.Output()
			out.SetRequiresGrad(true)
			out.MarkInterior()
			b.tape.Record(op)
			return
		}
	}
}

// RegisterHook registers fn to receive the gradient of t during every
// backward pass that reaches t. t must require a gradient.
func (b *AutodiffBackend[B]) RegisterHook(t *tensor.RawTensor, fn GradHook) error {
	if !t.RequiresGrad() {
		return fmt.Errorf("register hook: %w", ErrNoGradRequired)
	}
	b.tape.RegisterHook(t, fn)
	return nil
}

// Backward backpropagates from output seeded with ones and accumulates the
// result into every leaf that requires a gradient.
//
// With retainGraph the tape survives so the same forward computation can be
// backpropagated again (e.g. once per class index); otherwise it is released.
func (b *AutodiffBackend[B]) Backward(output *tensor.RawTensor, retainGraph bool) error {
	seed, err := tensor.Full(output.Shape(), 1, b.Device())
	if err != nil {
		return fmt.Errorf("backward: failed to create seed gradient: %w", err)
	}
	return b.BackwardWithGrad(output, seed, retainGraph)
}

// BackwardWithGrad is Backward with an explicit seed gradient for output.
func (b *AutodiffBackend[B]) BackwardWithGrad(output, seed *tensor.RawTensor, retainGraph bool) error {
	grads, err := b.tape.Backward(output, seed, b.inner)
	if err != nil {
		return err
	}
	for t, g := range grads {
		if t.IsLeaf() && t.RequiresGrad() {
			t.AccumulateGrad(g)
		}
	}
	if !retainGraph {
		b.tape.Release()
	}
	return nil
}

// Add performs element-wise addition. Not differentiated: the engine only
// uses it to accumulate gradients.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Add(a, c)
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(a, c)
	b.record(ops.NewMulOp(a, c, result))
	return result
}

// Sum reduces x to a [1] tensor and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sum(x)
	b.record(ops.NewSumOp(x, result))
	return result
}

// BiasAdd adds a per-channel bias and records the operation.
func (b *AutodiffBackend[B]) BiasAdd(x, bias *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.BiasAdd(x, bias)
	b.record(ops.NewBiasAddOp(x, bias, result))
	return result
}

// Linear computes x @ weightᵀ and records the operation.
func (b *AutodiffBackend[B]) Linear(x, weight *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Linear(x, weight)
	b.record(ops.NewLinearOp(x, weight, result))
	return result
}

// Conv2D performs 2D convolution and records the operation.
func (b *AutodiffBackend[B]) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	result := b.inner.Conv2D(input, kernel, stride, padding)
	b.record(ops.NewConv2DOp(input, kernel, result, stride, padding))
	return result
}

// MaxPool2D performs max pooling and records the operation.
func (b *AutodiffBackend[B]) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	result := b.inner.MaxPool2D(input, kernelSize, stride)
	b.record(ops.NewMaxPool2DOp(input, result, kernelSize, stride))
	return result
}

// ReLU applies the rectifier and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.ReLU(x)
	b.record(ops.NewReLUOp(x, result))
	return result
}

// GuidedReLU applies the rectifier and records the guided-backprop variant,
// whose backward pass also drops negative incoming gradient.
func (b *AutodiffBackend[B]) GuidedReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.ReLU(x)
	b.record(ops.NewGuidedReLUOp(x, result))
	return result
}

// Reshape reshapes a tensor and records the operation.
// Without recording, gradients would stop at the reshaped copy.
func (b *AutodiffBackend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(t, newShape)
	b.record(ops.NewReshapeOp(t, result))
	return result
}

// Index selects one element and records the operation.
func (b *AutodiffBackend[B]) Index(t *tensor.RawTensor, flatIndex int) *tensor.RawTensor {
	result := b.inner.Index(t, flatIndex)
	b.record(ops.NewIndexOp(t, result, flatIndex))
	return result
}

// Backward kernels pass straight through to the wrapped backend.

// Conv2DInputBackward delegates to the wrapped backend.
func (b *AutodiffBackend[B]) Conv2DInputBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	return b.inner.Conv2DInputBackward(input, kernel, grad, stride, padding)
}

// Conv2DKernelBackward delegates to the wrapped backend.
func (b *AutodiffBackend[B]) Conv2DKernelBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	return b.inner.Conv2DKernelBackward(input, kernel, grad, stride, padding)
}

// MaxPool2DBackward delegates to the wrapped backend.
func (b *AutodiffBackend[B]) MaxPool2DBackward(input, grad *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	return b.inner.MaxPool2DBackward(input, grad, kernelSize, stride)
}

// LinearInputBackward delegates to the wrapped backend.
func (b *AutodiffBackend[B]) LinearInputBackward(weight, grad *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.LinearInputBackward(weight, grad)
}

// LinearWeightBackward delegates to the wrapped backend.
func (b *AutodiffBackend[B]) LinearWeightBackward(x, grad *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.LinearWeightBackward(x, grad)
}

// BiasAddBackward delegates to the wrapped backend.
func (b *AutodiffBackend[B]) BiasAddBackward(grad *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.BiasAddBackward(grad)
}
