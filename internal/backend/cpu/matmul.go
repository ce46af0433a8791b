package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/fcnet/internal/tensor"
)

// MatMul performs 2-D matrix multiplication: (M, K) @ (K, N) -> (M, N).
// Float32 products go through BLAS SGEMM.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}
	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}
	requireFloat32("matmul", a, b)

	result := cpu.alloc("matmul", tensor.Shape{m, n}, tensor.Float32)
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
		general(a.AsFloat32(), m, k),
		general(b.AsFloat32(), k, n),
		0,
		general(result.AsFloat32(), m, n),
	)
	return result
}

func general(data []float32, rows, cols int) blas32.General {
	return blas32.General{Rows: rows, Cols: cols, Stride: cols, Data: data}
}
