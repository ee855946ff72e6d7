// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the VGG classifiers that explanations run on.
package nn

import (
	"math/rand"

	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
)

// Module is the base interface for all network components.
type Module = nn.Module

// Sequential is an ordered container of named child modules.
type Sequential = nn.Sequential

// VGG is a convolutional feature stack followed by a classifier head.
type VGG = nn.VGG

// VGGConfig describes a VGG-style network.
type VGGConfig = nn.VGGConfig

// Pool marks a max pooling layer in VGGConfig.Layers.
const Pool = nn.Pool

// ConfigFor returns the ImageNet configuration of "vgg11", "vgg13",
// "vgg16" or "vgg19".
func ConfigFor(arch string) (VGGConfig, error) {
	return nn.ConfigFor(arch)
}

// NewVGG builds a network with weights initialized from rng.
//
// Example:
//
//	cfg, _ := nn.ConfigFor("vgg19")
//	model := nn.NewVGG(cfg, autodiff.New(cpu.New()), rand.New(rand.NewSource(0)))
func NewVGG(cfg VGGConfig, backend tensor.Backend, rng *rand.Rand) *VGG {
	return nn.NewVGG(cfg, backend, rng)
}

// Freeze stops gradient tracking on every parameter of m.
func Freeze(m Module) {
	nn.SetRequiresGrad(m, false)
}
