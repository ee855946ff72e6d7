package cpu

import (
	"testing"

	"github.com/born-ml/gradcam/internal/parallel"
	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTensor(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, tensor.CPU)
	require.NoError(t, err)
	return x
}

func TestCPUBackend_NameDevice(t *testing.T) {
	backend := New()
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
}

func TestCPUBackend_ElementWise(t *testing.T) {
	backend := New()
	a := mustTensor(t, []float32{1, -2, 3}, tensor.Shape{3})
	b := mustTensor(t, []float32{4, 5, -6}, tensor.Shape{3})

	assert.Equal(t, []float32{5, 3, -3}, backend.Add(a, b).Data())
	assert.Equal(t, []float32{4, -10, -18}, backend.Mul(a, b).Data())
	assert.Equal(t, []float32{2}, backend.Sum(a).Data())
	assert.Equal(t, []float32{1, 0, 3}, backend.ReLU(a).Data())

	c := mustTensor(t, []float32{1, 2}, tensor.Shape{2})
	assert.Panics(t, func() { backend.Add(a, c) })
}

func TestCPUBackend_ReshapeIndex(t *testing.T) {
	backend := New()
	x := mustTensor(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 2, 3})

	r := backend.Reshape(x, tensor.Shape{1, 6})
	assert.Equal(t, tensor.Shape{1, 6}, r.Shape())
	assert.Equal(t, x.Data(), r.Data())

	assert.Equal(t, []float32{5}, backend.Index(x, 4).Data())
	assert.Panics(t, func() { backend.Index(x, 6) })
	assert.Panics(t, func() { backend.Reshape(x, tensor.Shape{4}) })
}

func TestCPUBackend_BiasAdd(t *testing.T) {
	backend := New()

	// [1, 2, 2, 1]: channel 0 = {1, 2}, channel 1 = {3, 4}
	x := mustTensor(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	bias := mustTensor(t, []float32{10, 20}, tensor.Shape{2})

	out := backend.BiasAdd(x, bias)
	assert.Equal(t, []float32{11, 12, 23, 24}, out.Data())

	grad := backend.BiasAddBackward(mustTensor(t, []float32{1, 1, 2, 3}, tensor.Shape{1, 2, 2, 1}))
	assert.Equal(t, []float32{2, 5}, grad.Data())

	// 2D input [N, F]
	x2 := mustTensor(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	assert.Equal(t, []float32{11, 22, 13, 24}, backend.BiasAdd(x2, bias).Data())
}

func TestConv2D_BasicForward(t *testing.T) {
	backend := New()

	// 1 2 3
	// 4 5 6
	// 7 8 9
	input := mustTensor(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{1, 1, 3, 3})
	// 1 0
	// 0 1
	kernel := mustTensor(t, []float32{1, 0, 0, 1}, tensor.Shape{1, 1, 2, 2})

	output := backend.Conv2D(input, kernel, 1, 0)
	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, output.Shape())
	assert.Equal(t, []float32{6, 8, 12, 14}, output.Data())
}

func TestConv2D_Padding(t *testing.T) {
	backend := New()

	input := mustTensor(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})
	kernel := mustTensor(t, []float32{1, 1, 1, 1, 1, 1, 1, 1, 1}, tensor.Shape{1, 1, 3, 3})

	// 3x3 box filter with padding 1 keeps 2x2; every window covers the whole image.
	output := backend.Conv2D(input, kernel, 1, 1)
	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, output.Shape())
	assert.Equal(t, []float32{10, 10, 10, 10}, output.Data())
}

func TestConv2D_ChannelMismatchPanics(t *testing.T) {
	backend := New()
	input, _ := tensor.Zeros(tensor.Shape{1, 2, 4, 4}, tensor.CPU)
	kernel, _ := tensor.Zeros(tensor.Shape{1, 3, 3, 3}, tensor.CPU)
	assert.Panics(t, func() { backend.Conv2D(input, kernel, 1, 1) })
}

// convLoss is sum(conv(input, kernel) * weights), used for finite differences.
func convLoss(backend *CPUBackend, input, kernel, weights *tensor.RawTensor, stride, padding int) float64 {
	out := backend.Conv2D(input, kernel, stride, padding)
	var acc float64
	for i, v := range out.Data() {
		acc += float64(v) * float64(weights.Data()[i])
	}
	return acc
}

func TestConv2D_BackwardMatchesFiniteDifferences(t *testing.T) {
	for _, cfg := range []struct {
		name            string
		stride, padding int
	}{
		{"stride1_pad1", 1, 1},
		{"stride2_pad0", 2, 0},
	} {
		t.Run(cfg.name, func(t *testing.T) {
			backend := NewWithConfig(parallel.Sequential())

			input := mustTensor(t, seq(1*2*5*5, 0.1), tensor.Shape{1, 2, 5, 5})
			kernel := mustTensor(t, seq(3*2*3*3, -0.05), tensor.Shape{3, 2, 3, 3})
			out := backend.Conv2D(input, kernel, cfg.stride, cfg.padding)
			weights := mustTensor(t, seq(out.NumElements(), 0.3), out.Shape())

			inputGrad := backend.Conv2DInputBackward(input, kernel, weights, cfg.stride, cfg.padding)
			kernelGrad := backend.Conv2DKernelBackward(input, kernel, weights, cfg.stride, cfg.padding)

			const eps = 1e-2
			for _, probe := range []struct {
				name string
				x    *tensor.RawTensor
				grad *tensor.RawTensor
			}{
				{"input", input, inputGrad},
				{"kernel", kernel, kernelGrad},
			} {
				data := probe.x.Data()
				for i := range data {
					orig := data[i]
					data[i] = orig + eps
					plus := convLoss(backend, input, kernel, weights, cfg.stride, cfg.padding)
					data[i] = orig - eps
					minus := convLoss(backend, input, kernel, weights, cfg.stride, cfg.padding)
					data[i] = orig

					numeric := (plus - minus) / (2 * eps)
					assert.InDelta(t, numeric, probe.grad.Data()[i], 1e-2, "%s grad at %d", probe.name, i)
				}
			}
		})
	}
}

func TestMaxPool2D_ForwardBackward(t *testing.T) {
	backend := New()

	input := mustTensor(t, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, tensor.Shape{1, 1, 4, 4})

	out := backend.MaxPool2D(input, 2, 2)
	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{6, 8, 14, 16}, out.Data())

	grad := mustTensor(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})
	inputGrad := backend.MaxPool2DBackward(input, grad, 2, 2)
	assert.Equal(t, []float32{
		0, 0, 0, 0,
		0, 1, 0, 2,
		0, 0, 0, 0,
		0, 3, 0, 4,
	}, inputGrad.Data())
}

func TestMaxPool2D_TiesPickFirst(t *testing.T) {
	backend := New()
	input := mustTensor(t, []float32{5, 5, 5, 5}, tensor.Shape{1, 1, 2, 2})
	grad := mustTensor(t, []float32{1}, tensor.Shape{1, 1, 1, 1})

	inputGrad := backend.MaxPool2DBackward(input, grad, 2, 2)
	assert.Equal(t, []float32{1, 0, 0, 0}, inputGrad.Data())
}

func TestLinear_ForwardBackward(t *testing.T) {
	backend := New()

	x := mustTensor(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	w := mustTensor(t, []float32{1, 0, -1, 2, 1, 0}, tensor.Shape{2, 3})

	out := backend.Linear(x, w)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	// row 0: [1-3, 2+2] row 1: [4-6, 8+5]
	assert.Equal(t, []float32{-2, 4, -2, 13}, out.Data())

	grad := mustTensor(t, []float32{1, 0, 0, 1}, tensor.Shape{2, 2})
	assert.Equal(t, []float32{1, 0, -1, 2, 1, 0}, backend.LinearInputBackward(w, grad).Data())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, backend.LinearWeightBackward(x, grad).Data())
}

func seq(n int, scale float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		// Deterministic values spanning both signs.
		out[i] = scale * float32((i*7)%11-5)
	}
	return out
}
