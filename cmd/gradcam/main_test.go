package main

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/gradcam/internal/autodiff"
	"github.com/born-ml/gradcam/internal/backend/cpu"
	"github.com/born-ml/gradcam/internal/labels"
	"github.com/born-ml/gradcam/internal/loader"
	"github.com/born-ml/gradcam/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 24, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			img.Set(x, y, color.RGBA{R: uint8(10 * x), G: uint8(10 * y), B: uint8(5 * (x + y)), A: 255})
		}
	}
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, img))
	require.NoError(t, file.Close())
}

func TestRun_WritesFourImagesPerClass(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "sample.png")
	writeTestImage(t, imagePath)

	cfg := nn.VGGConfig{
		Layers:      []int{4, 4, nn.Pool, 8, nn.Pool},
		InChannels:  3,
		FeatureSize: 4,
		Hidden:      16,
		NumClasses:  6,
	}
	engine := autodiff.New(cpu.New())
	model := nn.NewVGG(cfg, engine, rand.New(rand.NewSource(3)))

	outDir := filepath.Join(dir, "results")
	weights := filepath.Join(dir, "weights.safetensors")
	opts := options{
		imagePath:   imagePath,
		outDir:      outDir,
		targets:     []string{"6"}, // last ReLU
		topK:        3,
		inputSize:   16,
		labels:      labels.New([]string{"a", "b", "c", "d", "e", "f"}),
		saveWeights: weights,
	}
	require.NoError(t, run(model, engine, opts))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 12)
	for _, e := range entries {
		assert.Regexp(t, `^sample@[0-2]@Class00[0-5]@(CAM|Heatmap|GBP|RES)\.jpg$`, e.Name())
	}

	reloaded := nn.NewVGG(cfg, engine, rand.New(rand.NewSource(4)))
	require.NoError(t, loader.LoadVGG(weights, reloaded))
}

func TestRun_UnknownTargetLayer(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "sample.png")
	writeTestImage(t, imagePath)

	cfg := nn.VGGConfig{Layers: []int{2, nn.Pool}, InChannels: 3, FeatureSize: 8, Hidden: 4, NumClasses: 2}
	engine := autodiff.New(cpu.New())
	model := nn.NewVGG(cfg, engine, rand.New(rand.NewSource(3)))

	err := run(model, engine, options{
		imagePath: imagePath,
		outDir:    filepath.Join(dir, "out"),
		targets:   []string{"35"},
		topK:      1,
		inputSize: 16,
	})
	assert.Error(t, err)
}

func TestSplitTargets(t *testing.T) {
	assert.Equal(t, []string{"35"}, splitTargets("35"))
	assert.Equal(t, []string{"30", "35"}, splitTargets(" 30, 35 ,"))
	assert.Nil(t, splitTargets(""))
}
