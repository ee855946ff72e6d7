// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend.
//
// Convolutions use im2col; every kernel fans out over output channels or
// planes with a bounded worker pool.
package cpu

import (
	internalcpu "github.com/born-ml/gradcam/internal/backend/cpu"
	"github.com/born-ml/gradcam/tensor"
)

// Backend is the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend using all available cores.
func New() *Backend {
	return internalcpu.New()
}
