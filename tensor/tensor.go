// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor is the public tensor API of fcnet.
//
// The package defines:
//   - Tensor[T, B]: a typed tensor bound to a compute backend
//   - RawTensor: the untyped storage behind every tensor
//   - Backend: the operations a compute device provides
//   - Shape, DataType, Device: core type definitions
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor

import (
	"golang.org/x/exp/rand"

	"github.com/born-ml/fcnet/internal/tensor"
)

// DType is a constraint for tensor element types: float32 and int32.
type DType = tensor.DType

// DataType identifies the element type of a tensor at runtime.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Int32   DataType = tensor.Int32
)

// Device represents where tensor data resides.
type Device = tensor.Device

// CPU is the host device.
const CPU Device = tensor.CPU

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3} is a 2×3 matrix.
type Shape = tensor.Shape

// RawTensor is the low-level tensor representation: a byte buffer with a
// shape and data type. Most users should use Tensor[T, B] instead.
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	data := raw.AsFloat32()
type RawTensor = tensor.RawTensor

// Backend is the interface compute devices implement.
type Backend = tensor.Backend

// Tensor is a typed multi-dimensional array bound to a backend.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// NewRaw allocates a zeroed raw tensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// New wraps a raw tensor.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T](raw, b)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice(data, shape, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T](shape, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full(shape, value, b)
}

// Uniform creates a float32 tensor with values drawn from [low, high).
// A nil src uses the global source.
func Uniform[B Backend](shape Shape, low, high float64, src rand.Source, b B) *Tensor[float32, B] {
	return tensor.Uniform(shape, low, high, src, b)
}
