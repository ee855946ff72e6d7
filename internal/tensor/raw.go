package tensor

import "fmt"

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	CUDA
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	default:
		return "Unknown"
	}
}

// RawTensor is a dense, row-major float32 tensor.
//
// Besides its data a RawTensor carries the autograd bookkeeping the engine needs:
// whether gradients should reach it, whether it was produced by a recorded
// operation (interior node) or created directly (leaf), and the gradient
// accumulated on it by backward passes when it is a leaf.
type RawTensor struct {
	data         []float32
	shape        Shape
	device       Device
	requiresGrad bool
	interior     bool
	grad         *RawTensor
}

// NewRaw creates a new zero-filled RawTensor with the given shape.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &RawTensor{
		data:   make([]float32, shape.NumElements()),
		shape:  shape.Clone(),
		device: device,
	}, nil
}

// MustRaw is NewRaw for shapes that are known to be valid.
// Panics on an invalid shape.
func MustRaw(shape Shape, device Device) *RawTensor {
	r, err := NewRaw(shape, device)
	if err != nil {
		panic(err)
	}
	return r
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return len(r.data)
}

// Data returns the underlying element slice.
// WARNING: Direct access to underlying memory, shared with the tensor.
func (r *RawTensor) Data() []float32 {
	return r.data
}

// At returns the element at the given multi-dimensional index.
func (r *RawTensor) At(index ...int) float32 {
	if len(index) != len(r.shape) {
		panic(fmt.Sprintf("tensor.At: expected %d indices, got %d", len(r.shape), len(index)))
	}
	offset := 0
	for i, idx := range index {
		if idx < 0 || idx >= r.shape[i] {
			panic(fmt.Sprintf("tensor.At: index %d out of range for dimension %d (size %d)", idx, i, r.shape[i]))
		}
		offset = offset*r.shape[i] + idx
	}
	return r.data[offset]
}

// Clone returns a deep copy of the data and shape.
// Autograd state (requires-grad, accumulated gradient) is not copied.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]float32, len(r.data))
	copy(data, r.data)
	return &RawTensor{
		data:   data,
		shape:  r.shape.Clone(),
		device: r.device,
	}
}

// View returns a tensor with a new shape sharing the same data.
func (r *RawTensor) View(shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(r.data) {
		return nil, fmt.Errorf("view: cannot view %v (%d elements) as %v (%d elements)",
			r.shape, len(r.data), shape, shape.NumElements())
	}
	return &RawTensor{
		data:   r.data,
		shape:  shape.Clone(),
		device: r.device,
	}, nil
}

// RequiresGrad reports whether backward passes compute a gradient for this tensor.
func (r *RawTensor) RequiresGrad() bool {
	return r.requiresGrad
}

// SetRequiresGrad enables or disables gradient tracking.
func (r *RawTensor) SetRequiresGrad(v bool) *RawTensor {
	r.requiresGrad = v
	return r
}

// IsLeaf reports whether the tensor was created directly rather than
// produced by a recorded operation. Only leaves accumulate gradients.
func (r *RawTensor) IsLeaf() bool {
	return !r.interior
}

// MarkInterior flags the tensor as the output of a recorded operation.
func (r *RawTensor) MarkInterior() {
	r.interior = true
}

// Grad returns the gradient accumulated on a leaf tensor, or nil.
func (r *RawTensor) Grad() *RawTensor {
	return r.grad
}

// AccumulateGrad adds g into the tensor's gradient.
func (r *RawTensor) AccumulateGrad(g *RawTensor) {
	if !g.shape.Equal(r.shape) {
		panic(fmt.Sprintf("tensor.AccumulateGrad: gradient shape %v does not match tensor shape %v", g.shape, r.shape))
	}
	if r.grad == nil {
		r.grad = g.Clone()
		return
	}
	for i, v := range g.data {
		r.grad.data[i] += v
	}
}

// ZeroGrad drops the accumulated gradient.
func (r *RawTensor) ZeroGrad() {
	r.grad = nil
}
