// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loader reads pretrained weights from SafeTensors files.
package loader

import (
	"github.com/born-ml/gradcam/internal/loader"
	"github.com/born-ml/gradcam/internal/nn"
)

// LoadVGG fills the parameters of model from a torchvision-style
// SafeTensors checkpoint ("features.0.weight", "classifier.6.bias", ...).
func LoadVGG(path string, model *nn.VGG) error {
	return loader.LoadVGG(path, model)
}

// SaveVGG writes the parameters of model as an F32 SafeTensors file.
func SaveVGG(path string, model *nn.VGG) error {
	return loader.WriteSafeTensors(path, nn.StateDict(model), nil)
}
