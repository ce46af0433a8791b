package cpu

import (
	"fmt"

	"github.com/born-ml/fcnet/internal/tensor"
)

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, func(x, y float32) float32 { return x + y }, func(x, y int32) int32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, func(x, y float32) float32 { return x - y }, func(x, y int32) int32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, func(x, y float32) float32 { return x * y }, func(x, y int32) int32 { return x * y })
}

// MulScalar multiplies every element by s.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, s float32) *tensor.RawTensor {
	result := cpu.alloc("mul_scalar", x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i, v := range src {
			dst[i] = v * s
		}
	case tensor.Int32:
		src, dst := x.AsInt32(), result.AsInt32()
		for i, v := range src {
			dst[i] = v * int32(s)
		}
	}
	return result
}

func (cpu *CPUBackend) binary(
	op string,
	a, b *tensor.RawTensor,
	ff func(x, y float32) float32,
	fi func(x, y int32) int32,
) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}
	result := cpu.alloc(op, outShape, a.DType())

	var ai, bi []int
	if needsBroadcast {
		ai = tensor.BroadcastIndex(a.Shape(), outShape)
		bi = tensor.BroadcastIndex(b.Shape(), outShape)
	}

	switch a.DType() {
	case tensor.Float32:
		applyBinary(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), ai, bi, ff)
	case tensor.Int32:
		applyBinary(result.AsInt32(), a.AsInt32(), b.AsInt32(), ai, bi, fi)
	}
	return result
}

func applyBinary[T float32 | int32](dst, a, b []T, ai, bi []int, f func(x, y T) T) {
	if ai == nil {
		for i := range dst {
			dst[i] = f(a[i], b[i])
		}
		return
	}
	for i := range dst {
		dst[i] = f(a[ai[i]], b[bi[i]])
	}
}
