package cpu

import (
	"fmt"

	"github.com/born-ml/fcnet/internal/tensor"
)

// Reshape returns a tensor sharing a's storage under a new shape.
// A single -1 dimension is inferred.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	resolved, err := resolveShape(shape, t.NumElements())
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return t.View(resolved)
}

// Transpose swaps the axes of a 2-D tensor, materialising the result.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor) *tensor.RawTensor {
	s := t.Shape()
	if len(s) != 2 {
		panic(fmt.Sprintf("transpose: only 2D tensors supported, got %dD", len(s)))
	}
	rows, cols := s[0], s[1]
	result := cpu.alloc("transpose", tensor.Shape{cols, rows}, t.DType())

	switch t.DType() {
	case tensor.Float32:
		transpose2D(result.AsFloat32(), t.AsFloat32(), rows, cols)
	case tensor.Int32:
		transpose2D(result.AsInt32(), t.AsInt32(), rows, cols)
	}
	return result
}

func transpose2D[T float32 | int32](dst, src []T, rows, cols int) {
	for i := range rows {
		for j := range cols {
			dst[j*rows+i] = src[i*cols+j]
		}
	}
}

func resolveShape(shape tensor.Shape, total int) (tensor.Shape, error) {
	out := shape.Clone()
	infer := -1
	known := 1
	for i, d := range out {
		switch {
		case d == -1 && infer >= 0:
			return nil, fmt.Errorf("only one dimension can be -1 in %v", shape)
		case d == -1:
			infer = i
		case d <= 0:
			return nil, fmt.Errorf("invalid dimension %d in %v", d, shape)
		default:
			known *= d
		}
	}
	if infer >= 0 {
		if total%known != 0 {
			return nil, fmt.Errorf("cannot infer dimension of %v for %d elements", shape, total)
		}
		out[infer] = total / known
	}
	if out.NumElements() != total {
		return nil, fmt.Errorf("cannot reshape %d elements into %v", total, shape)
	}
	return out, nil
}
