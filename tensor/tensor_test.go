// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/born-ml/fcnet/backend/cpu"
	"github.com/born-ml/fcnet/tensor"
)

// TestBackendInterface verifies that the CPU backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = cpu.New()
}

func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if !raw.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", raw.Shape())
	}
	if raw.DType() != tensor.Float32 {
		t.Errorf("DType() = %v, want float32", raw.DType())
	}
	if got := len(raw.AsFloat32()); got != 6 {
		t.Errorf("len(AsFloat32()) = %d, want 6", got)
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize() = %d, want 24", raw.ByteSize())
	}
}

func TestTensorArithmetic(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	b := tensor.Ones[float32](tensor.Shape{2, 2}, backend)

	sum := a.Add(b).Data()
	want := []float32{2, 3, 4, 5}
	for i := range want {
		if sum[i] != want[i] {
			t.Errorf("Add()[%d] = %v, want %v", i, sum[i], want[i])
		}
	}

	// [[1 2] [3 4]] @ [[1 2] [3 4]] = [[7 10] [15 22]]
	prod := a.MatMul(a).Data()
	want = []float32{7, 10, 15, 22}
	for i := range want {
		if prod[i] != want[i] {
			t.Errorf("MatMul()[%d] = %v, want %v", i, prod[i], want[i])
		}
	}

	if got := a.T().At(0, 1); got != 3 {
		t.Errorf("T().At(0, 1) = %v, want 3", got)
	}
}

func TestCreation(t *testing.T) {
	backend := cpu.New()

	full := tensor.Full(tensor.Shape{3}, int32(7), backend)
	for i, v := range full.Data() {
		if v != 7 {
			t.Errorf("Full()[%d] = %d, want 7", i, v)
		}
	}
	if tensor.Zeros[int32](tensor.Shape{2}, backend).DType() != tensor.Int32 {
		t.Error("Zeros[int32] has wrong dtype")
	}

	u := tensor.Uniform(tensor.Shape{100}, -1, 1, nil, backend)
	for i, v := range u.Data() {
		if v < -1 || v > 1 {
			t.Fatalf("Uniform()[%d] = %v outside [-1, 1]", i, v)
		}
	}
}
