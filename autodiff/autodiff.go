// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation with
// gradient hooks.
//
// Example:
//
//	engine := autodiff.New(cpu.New())
//	engine.Tape().StartRecording()
//	y := engine.Mul(x, x)
//	_ = engine.RegisterHook(y, func(g *tensor.RawTensor) { fmt.Println(g.Data()) })
//	_ = engine.Backward(engine.Sum(y), false)
package autodiff

import (
	"github.com/born-ml/gradcam/internal/autodiff"
	"github.com/born-ml/gradcam/internal/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// GradientTape records operations and owns the gradient hook registry.
type GradientTape = autodiff.GradientTape

// GradHook receives the gradient of the tensor it is registered on.
type GradHook = autodiff.GradHook

// Backward errors.
var (
	ErrGraphReleased  = autodiff.ErrGraphReleased
	ErrNotRecorded    = autodiff.ErrNotRecorded
	ErrNoGradRequired = autodiff.ErrNoGradRequired
)

// New creates a new autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}
