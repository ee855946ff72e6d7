package nn_test

import (
	"math/rand"
	"testing"

	"github.com/born-ml/gradcam/internal/autodiff"
	"github.com/born-ml/gradcam/internal/backend/cpu"
	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyConfig() nn.VGGConfig {
	return nn.VGGConfig{
		Layers:      []int{4, nn.Pool, 8, nn.Pool},
		InChannels:  3,
		FeatureSize: 2,
		Hidden:      16,
		NumClasses:  5,
	}
}

func TestVGG_ChildNaming(t *testing.T) {
	backend := cpu.New()
	model := nn.NewVGG(tinyConfig(), backend, rand.New(rand.NewSource(1)))

	// conv, relu, pool, conv, relu, pool
	assert.Equal(t, 6, model.Features.Len())
	assert.Equal(t, 7, model.Classifier.Len())

	m, ok := model.Features.Get("4")
	require.True(t, ok)
	assert.True(t, nn.IsReLU(m))

	names := nn.StateDict(model)
	for _, key := range []string{
		"features.0.weight", "features.0.bias",
		"features.3.weight", "features.3.bias",
		"classifier.0.weight", "classifier.3.bias", "classifier.6.weight",
	} {
		assert.Contains(t, names, key)
	}
	assert.Len(t, names, 10)
	assert.Equal(t, tensor.Shape{5, 16}, names["classifier.6.weight"].Shape())
}

func TestVGG_ForwardShape(t *testing.T) {
	backend := cpu.New()
	model := nn.NewVGG(tinyConfig(), backend, rand.New(rand.NewSource(1)))

	x, err := tensor.Randn(tensor.Shape{1, 3, 8, 8}, rand.New(rand.NewSource(2)), tensor.CPU)
	require.NoError(t, err)

	out := model.Forward(x)
	assert.Equal(t, tensor.Shape{1, 5}, out.Shape())
}

func TestConfigFor(t *testing.T) {
	cfg, err := nn.ConfigFor("VGG19")
	require.NoError(t, err)
	convs, pools := 0, 0
	for _, v := range cfg.Layers {
		if v == nn.Pool {
			pools++
		} else {
			convs++
		}
	}
	assert.Equal(t, 16, convs)
	assert.Equal(t, 5, pools)
	// 16 conv+relu pairs and 5 pools: children "0".."36".
	assert.Equal(t, 37, 2*convs+pools)

	_, err = nn.ConfigFor("resnet50")
	assert.ErrorIs(t, err, nn.ErrUnknownArch)
}

func TestSequential_ReplaceLeavesOriginal(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := nn.NewVGG(tinyConfig(), backend, rand.New(rand.NewSource(1)))

	guided := nn.GuidedFeatures(model.Features, backend)

	for _, c := range model.Features.Children() {
		_, isGuided := c.Module.(*nn.GuidedReLU)
		assert.False(t, isGuided, "original child %s was modified", c.Name)
	}

	var replaced int
	for i, c := range guided.Children() {
		orig := model.Features.Children()[i]
		assert.Equal(t, orig.Name, c.Name)
		if _, ok := c.Module.(*nn.GuidedReLU); ok {
			replaced++
			continue
		}
		assert.Same(t, orig.Module, c.Module)
	}
	assert.Equal(t, 2, replaced)
	assert.Equal(t, model.Features.Len(), guided.Len())
}

func TestGuidedReLU_RequiresAutodiffBackend(t *testing.T) {
	assert.Panics(t, func() { nn.NewGuidedReLU(cpu.New()) })
}

func TestLoadStateDict(t *testing.T) {
	backend := cpu.New()
	src := nn.NewVGG(tinyConfig(), backend, rand.New(rand.NewSource(1)))
	dst := nn.NewVGG(tinyConfig(), backend, rand.New(rand.NewSource(99)))

	require.NoError(t, nn.LoadStateDict(dst, nn.StateDict(src), true))

	x, err := tensor.Randn(tensor.Shape{1, 3, 8, 8}, rand.New(rand.NewSource(3)), tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, src.Forward(x).Data(), dst.Forward(x).Data())
}

func TestLoadStateDict_Errors(t *testing.T) {
	backend := cpu.New()
	model := nn.NewVGG(tinyConfig(), backend, rand.New(rand.NewSource(1)))

	state := nn.StateDict(model)
	delete(state, "features.3.bias")
	assert.ErrorIs(t, nn.LoadStateDict(model, state, false), nn.ErrMissingParameter)

	state = nn.StateDict(model)
	state["features.0.bias"] = tensor.MustRaw(tensor.Shape{3}, tensor.CPU)
	assert.ErrorIs(t, nn.LoadStateDict(model, state, false), nn.ErrShapeMismatch)

	state = nn.StateDict(model)
	state["features.1.weight"] = tensor.MustRaw(tensor.Shape{1}, tensor.CPU)
	assert.NoError(t, nn.LoadStateDict(model, state, false))
	assert.ErrorIs(t, nn.LoadStateDict(model, state, true), nn.ErrUnexpectedParameter)
}

func TestSetRequiresGrad(t *testing.T) {
	model := nn.NewVGG(tinyConfig(), cpu.New(), rand.New(rand.NewSource(1)))
	for _, p := range model.Parameters() {
		assert.True(t, p.Tensor().RequiresGrad())
	}
	nn.SetRequiresGrad(model, false)
	for _, p := range model.Parameters() {
		assert.False(t, p.Tensor().RequiresGrad())
	}
}

func TestDropout_Identity(t *testing.T) {
	x, err := tensor.FromSlice([]float32{1, -2, 3}, tensor.Shape{1, 3}, tensor.CPU)
	require.NoError(t, err)
	assert.Same(t, x, nn.NewDropout(0.5).Forward(x))
}

func TestLinear_ForwardPanicsOnWidth(t *testing.T) {
	l := nn.NewLinear(4, 2, cpu.New(), rand.New(rand.NewSource(1)))
	x := tensor.MustRaw(tensor.Shape{1, 3}, tensor.CPU)
	assert.Panics(t, func() { l.Forward(x) })
}
