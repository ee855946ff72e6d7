// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the float32 tensors explanations are computed on.
package tensor

import (
	"math/rand"

	"github.com/born-ml/gradcam/internal/tensor"
)

// RawTensor is a dense, row-major float32 tensor that can track gradients.
//
// Example:
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2}, tensor.CPU)
//	x.SetRequiresGrad(true)
type RawTensor = tensor.RawTensor

// Shape is a tensor shape, e.g. [1, 3, 224, 224].
type Shape = tensor.Shape

// Device identifies where tensor data lives.
type Device = tensor.Device

// Backend is the set of compute kernels networks run on.
type Backend = tensor.Backend

// CPU is the host device.
const CPU = tensor.CPU

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, device Device) (*RawTensor, error) {
	return tensor.Zeros(shape, device)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice(data []float32, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromSlice(data, shape, device)
}

// Randn creates a tensor of standard normal samples drawn from rng.
func Randn(shape Shape, rng *rand.Rand, device Device) (*RawTensor, error) {
	return tensor.Randn(shape, rng, device)
}
