// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/fcnet/internal/backend/cpu"
	"github.com/born-ml/fcnet/internal/parallel"
	"github.com/born-ml/fcnet/nn"
)

// Backend is the CPU backend.
type Backend = internalcpu.CPUBackend

// ParallelConfig controls how kernels split work across goroutines.
type ParallelConfig = parallel.Config

// Compile-time check that Backend provides every operation nn layers use.
var _ nn.Backend = (*Backend)(nil)

// New creates a CPU backend that parallelises large kernels over all CPUs.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultParallelConfig returns the settings New uses.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// SequentialConfig disables parallel kernels.
func SequentialConfig() ParallelConfig {
	return parallel.Sequential()
}
