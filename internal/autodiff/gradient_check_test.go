package autodiff_test

import (
	"math/rand"
	"testing"

	"github.com/born-ml/gradcam/internal/autodiff"
	"github.com/born-ml/gradcam/internal/backend/cpu"
	"github.com/born-ml/gradcam/internal/parallel"
	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tinyNet is conv → bias → relu → maxpool → flatten → linear → logit[class].
type tinyNet struct {
	kernel, bias, weight *tensor.RawTensor
}

func newTinyNet(t *testing.T, rng *rand.Rand) *tinyNet {
	t.Helper()
	kernel, err := tensor.Randn(tensor.Shape{2, 1, 3, 3}, rng, tensor.CPU)
	require.NoError(t, err)
	bias, err := tensor.Randn(tensor.Shape{2}, rng, tensor.CPU)
	require.NoError(t, err)
	weight, err := tensor.Randn(tensor.Shape{3, 2 * 3 * 3}, rng, tensor.CPU)
	require.NoError(t, err)
	return &tinyNet{kernel: kernel, bias: bias, weight: weight}
}

func (n *tinyNet) logit(backend tensor.Backend, x *tensor.RawTensor, class int) *tensor.RawTensor {
	h := backend.Conv2D(x, n.kernel, 1, 1)
	h = backend.BiasAdd(h, n.bias)
	h = backend.ReLU(h)
	h = backend.MaxPool2D(h, 2, 2)
	h = backend.Reshape(h, h.Shape().Flatten())
	logits := backend.Linear(h, n.weight)
	return backend.Index(logits, class)
}

func TestGradientCheck_TinyConvNet(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	net := newTinyNet(t, rng)
	input, err := tensor.Randn(tensor.Shape{1, 1, 6, 6}, rng, tensor.CPU)
	require.NoError(t, err)
	input.SetRequiresGrad(true)
	net.kernel.SetRequiresGrad(true)

	inner := cpu.NewWithConfig(parallel.Sequential())
	backend := autodiff.New(inner)
	backend.Tape().StartRecording()

	out := net.logit(backend, input, 1)
	require.NoError(t, backend.Backward(out, false))

	const eps = 1e-3
	for _, probe := range []struct {
		name string
		x    *tensor.RawTensor
	}{
		{"input", input},
		{"kernel", net.kernel},
	} {
		analytic := probe.x.Grad()
		require.NotNil(t, analytic, probe.name)

		data := probe.x.Data()
		for i := range data {
			orig := data[i]
			data[i] = orig + eps
			plus := net.logit(inner, input, 1).Data()[0]
			data[i] = orig - eps
			minus := net.logit(inner, input, 1).Data()[0]
			data[i] = orig

			numeric := (plus - minus) / (2 * eps)
			// ReLU and max-pool kinks make a few probes noisy; tolerance covers float32 rounding.
			assert.InDelta(t, numeric, analytic.Data()[i], 5e-2, "%s grad at %d", probe.name, i)
		}
	}

	assert.Nil(t, net.weight.Grad(), "frozen weight accumulates nothing")
}
