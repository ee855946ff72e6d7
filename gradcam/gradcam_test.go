// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package gradcam_test

import (
	"math/rand"
	"testing"

	"github.com/born-ml/gradcam/gradcam"
	"github.com/born-ml/gradcam/nn"
	"github.com/born-ml/gradcam/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicAPI_ExplainVGG(t *testing.T) {
	engine := gradcam.NewEngine()
	cfg := nn.VGGConfig{
		Layers:      []int{4, nn.Pool, 8},
		InChannels:  3,
		FeatureSize: 4,
		Hidden:      8,
		NumClasses:  4,
	}
	model := nn.NewVGG(cfg, engine, rand.New(rand.NewSource(5)))
	nn.Freeze(model)

	x, err := tensor.Randn(tensor.Shape{1, 3, 8, 8}, rand.New(rand.NewSource(6)), tensor.CPU)
	require.NoError(t, err)
	x.SetRequiresGrad(true)

	cam, err := gradcam.ForVGG(model, engine, "4").Explain(x, -1)
	require.NoError(t, err)
	r, c := cam.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 4, c)

	gbp, err := gradcam.GuidedForVGG(model, engine).Explain(x, 0)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 8, 8}, gbp.Shape())
}

func TestPublicAPI_NoTaps(t *testing.T) {
	engine := gradcam.NewEngine()
	cfg := nn.VGGConfig{Layers: []int{2}, InChannels: 3, FeatureSize: 4, Hidden: 4, NumClasses: 2}
	model := nn.NewVGG(cfg, engine, rand.New(rand.NewSource(5)))
	nn.Freeze(model)

	x, err := tensor.Randn(tensor.Shape{1, 3, 4, 4}, rand.New(rand.NewSource(6)), tensor.CPU)
	require.NoError(t, err)
	x.SetRequiresGrad(true)

	_, err = gradcam.ForVGG(model, engine, "9").Explain(x, 0)
	assert.ErrorIs(t, err, gradcam.ErrNoActivations)
}
