// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// Backend wraps a compute backend and records operations on a gradient tape
// while recording is on. Backward then walks the tape in reverse.
//
// Example:
//
//	import (
//	    "github.com/born-ml/fcnet/autodiff"
//	    "github.com/born-ml/fcnet/backend/cpu"
//	    "github.com/born-ml/fcnet/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    backend.Tape().StartRecording()
//
//	    x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
//	    y := x.Mul(x)
//	    grads := autodiff.Backward(y, backend) // grads[x.Raw()] == 2x
//	}
package autodiff

import (
	"github.com/born-ml/fcnet/internal/autodiff"
	"github.com/born-ml/fcnet/internal/tensor"
)

// Inner is the capability set the wrapped backend must provide.
type Inner = autodiff.Inner

// Backend is the autodiff-enabled backend.
type Backend[B Inner] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
// The tape starts with recording off.
func New[B Inner](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// BackwardCapable is implemented by backends that own a gradient tape.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients of t with respect to every tensor recorded
// on backend's tape.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
