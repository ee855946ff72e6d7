// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gradcam is the public API for Grad-CAM and guided-backpropagation
// explanations.
//
// Example:
//
//	engine := gradcam.NewEngine()
//	cfg, _ := nn.ConfigFor("vgg19")
//	model := nn.NewVGG(cfg, engine, rand.New(rand.NewSource(0)))
//	_ = loader.LoadVGG("vgg19.safetensors", model)
//	nn.Freeze(model)
//
//	input, _ := gradcam.LoadImage("cat.jpg")
//	cam, _ := gradcam.ForVGG(model, engine, "35").Explain(input, -1)
package gradcam

import (
	"github.com/born-ml/gradcam/internal/autodiff"
	"github.com/born-ml/gradcam/internal/backend/cpu"
	"github.com/born-ml/gradcam/internal/gradcam"
	"github.com/born-ml/gradcam/internal/imaging"
	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
)

// Engine is the differentiation engine explanations run on.
type Engine = gradcam.Engine

// Runner records forward passes and captures tapped gradients.
type Runner = gradcam.Runner

// Pass is one recorded forward computation.
type Pass = gradcam.Pass

// GradCAM computes normalized class saliency maps.
type GradCAM = gradcam.GradCAM

// GuidedBackprop computes guided input gradients.
type GuidedBackprop = gradcam.GuidedBackprop

// Config configures the Grad-CAM combiner.
type Config = gradcam.Config

// Prediction is a class index with its logit.
type Prediction = gradcam.Prediction

// Errors.
var (
	ErrNoActivations = gradcam.ErrNoActivations
	ErrNoGradient    = gradcam.ErrNoGradient
	ErrFlatSaliency  = gradcam.ErrFlatSaliency
	ErrClassIndex    = gradcam.ErrClassIndex
	ErrStalePass     = gradcam.ErrStalePass
)

// NewEngine creates an autodiff engine on the CPU backend.
func NewEngine() *autodiff.AutodiffBackend[*cpu.CPUBackend] {
	return autodiff.New(cpu.New())
}

// ForVGG creates a Grad-CAM combiner tapping the named feature layers of
// model with the default configuration.
func ForVGG(model *nn.VGG, engine Engine, targets ...string) *GradCAM {
	return gradcam.New(gradcam.NewRunner(model.Features, model.Classifier, engine, targets...), gradcam.DefaultConfig())
}

// GuidedForVGG creates the guided-backprop variant of model.
func GuidedForVGG(model *nn.VGG, engine Engine) *GuidedBackprop {
	return gradcam.NewGuidedBackprop(model.Features, model.Classifier, engine)
}

// LoadImage reads an image file into a normalized [1, 3, 224, 224] input.
func LoadImage(path string) (*tensor.RawTensor, error) {
	img, err := imaging.Load(path, imaging.InputSize)
	if err != nil {
		return nil, err
	}
	return imaging.Preprocess(img)
}

// TopK returns the k highest logits in descending order.
func TopK(logits *tensor.RawTensor, k int) []Prediction {
	return gradcam.TopK(logits, k)
}
