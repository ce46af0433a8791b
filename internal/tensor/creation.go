package tensor

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Zeros creates a zero-filled tensor.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return New[T](MustRaw(shape, inferDataType[T](), b.Device()), b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T](shape, T(1), b)
}

// Uniform creates a float32 tensor with values drawn from U(low, high).
// A nil src uses gonum's global source.
func Uniform[B Backend](shape Shape, low, high float64, src rand.Source, b B) *Tensor[float32, B] {
	t := Zeros[float32](shape, b)
	FillUniform(t.Raw(), low, high, src)
	return t
}

// FillUniform overwrites a float32 RawTensor with draws from U(low, high).
func FillUniform(r *RawTensor, low, high float64, src rand.Source) {
	dist := distuv.Uniform{Min: low, Max: high, Src: src}
	data := r.AsFloat32()
	for i := range data {
		data[i] = float32(dist.Rand())
	}
}
