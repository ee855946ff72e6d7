// Package cpu implements the CPU compute backend.
//
// Kernels operate on dense float32 NCHW tensors. The heavy kernels (convolution,
// linear and their backward passes) fan out over output channels through the
// parallel package; each worker writes a disjoint region of the result.
package cpu

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/parallel"
	"github.com/born-ml/gradcam/internal/tensor"
)

// CPUBackend implements tensor.Backend on the CPU.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// New creates a new CPU backend using all available cores.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

func (cpu *CPUBackend) alloc(op string, shape tensor.Shape) *tensor.RawTensor {
	out, err := tensor.NewRaw(shape, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return out
}

func requireSameShape(op string, a, b *tensor.RawTensor) {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a.Shape(), b.Shape()))
	}
}

// Add performs element-wise addition of equally shaped tensors.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	requireSameShape("add", a, b)
	result := cpu.alloc("add", a.Shape())
	out, ad, bd := result.Data(), a.Data(), b.Data()
	for i := range out {
		out[i] = ad[i] + bd[i]
	}
	return result
}

// Mul performs element-wise multiplication of equally shaped tensors.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	requireSameShape("mul", a, b)
	result := cpu.alloc("mul", a.Shape())
	out, ad, bd := result.Data(), a.Data(), b.Data()
	for i := range out {
		out[i] = ad[i] * bd[i]
	}
	return result
}

// Sum reduces every element into a [1] tensor.
// Accumulates in float64 to keep long reductions stable.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.alloc("sum", tensor.Shape{1})
	var acc float64
	for _, v := range x.Data() {
		acc += float64(v)
	}
	result.Data()[0] = float32(acc)
	return result
}

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.alloc("relu", x.Shape())
	out := result.Data()
	for i, v := range x.Data() {
		if v > 0 {
			out[i] = v
		}
	}
	return result
}

// Reshape copies t into a tensor of a new shape with the same element count.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if newShape.NumElements() != t.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v into %v", t.Shape(), newShape))
	}
	result := cpu.alloc("reshape", newShape)
	copy(result.Data(), t.Data())
	return result
}

// Index selects element flatIndex of t as a [1] tensor.
func (cpu *CPUBackend) Index(t *tensor.RawTensor, flatIndex int) *tensor.RawTensor {
	if flatIndex < 0 || flatIndex >= t.NumElements() {
		panic(fmt.Sprintf("index: %d out of range for %v", flatIndex, t.Shape()))
	}
	result := cpu.alloc("index", tensor.Shape{1})
	result.Data()[0] = t.Data()[flatIndex]
	return result
}

// BiasAdd adds bias[c] to every element in channel c of x.
// x is [N, C] or [N, C, H, W]; bias is [C].
func (cpu *CPUBackend) BiasAdd(x, bias *tensor.RawTensor) *tensor.RawTensor {
	n, c, inner := channelLayout("bias_add", x.Shape())
	if bias.NumElements() != c {
		panic(fmt.Sprintf("bias_add: bias has %d elements, input has %d channels", bias.NumElements(), c))
	}
	result := cpu.alloc("bias_add", x.Shape())
	out, xd, bd := result.Data(), x.Data(), bias.Data()
	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			base := (b*c + ch) * inner
			v := bd[ch]
			for i := base; i < base+inner; i++ {
				out[i] = xd[i] + v
			}
		}
	}
	return result
}

// BiasAddBackward sums grad over every dimension except the channel one.
func (cpu *CPUBackend) BiasAddBackward(grad *tensor.RawTensor) *tensor.RawTensor {
	n, c, inner := channelLayout("bias_add_backward", grad.Shape())
	result := cpu.alloc("bias_add_backward", tensor.Shape{c})
	out, gd := result.Data(), grad.Data()
	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			base := (b*c + ch) * inner
			var acc float32
			for i := base; i < base+inner; i++ {
				acc += gd[i]
			}
			out[ch] += acc
		}
	}
	return result
}

// channelLayout splits a shape into batch, channel, and per-channel element counts.
func channelLayout(op string, shape tensor.Shape) (n, c, inner int) {
	if len(shape) < 2 {
		panic(fmt.Sprintf("%s: expected at least 2D input [N, C, ...], got %v", op, shape))
	}
	inner = 1
	for _, d := range shape[2:] {
		inner *= d
	}
	return shape[0], shape[1], inner
}
