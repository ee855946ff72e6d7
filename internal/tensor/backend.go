package tensor

// Backend defines the compute kernels the explanation engine needs.
// The CPU backend implements every kernel; the autodiff backend decorates
// one and records the differentiable ones on a tape.
type Backend interface {
	// Name returns the backend name, e.g. "CPU".
	Name() string
	// Device returns the compute device.
	Device() Device

	// Element-wise operations on equally shaped tensors.
	Add(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	// Sum reduces all elements to a [1] tensor.
	Sum(x *RawTensor) *RawTensor

	// BiasAdd adds bias[c] to every element of channel c (dimension 1).
	BiasAdd(x, bias *RawTensor) *RawTensor

	// Linear computes x @ weightᵀ for x [N, in] and weight [out, in].
	Linear(x, weight *RawTensor) *RawTensor

	// Conv2D computes a 2D convolution of input [N, C_in, H, W] with
	// kernel [C_out, C_in, K_h, K_w].
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor
	MaxPool2D(input *RawTensor, kernelSize, stride int) *RawTensor

	ReLU(x *RawTensor) *RawTensor

	// Reshape returns a copy of t with a new shape of the same size.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	// Index selects a single element of the flattened tensor as a [1] tensor.
	Index(t *RawTensor, flatIndex int) *RawTensor

	// Backward kernels used by the differentiable operations.
	Conv2DInputBackward(input, kernel, grad *RawTensor, stride, padding int) *RawTensor
	Conv2DKernelBackward(input, kernel, grad *RawTensor, stride, padding int) *RawTensor
	MaxPool2DBackward(input, grad *RawTensor, kernelSize, stride int) *RawTensor
	LinearInputBackward(weight, grad *RawTensor) *RawTensor
	LinearWeightBackward(x, grad *RawTensor) *RawTensor
	BiasAddBackward(grad *RawTensor) *RawTensor
}
