package tensor

import "fmt"

// Tensor is a typed view over a RawTensor bound to a backend.
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{3, 4}, backend)
//	y := x.Add(x)
type Tensor[T DType, B Backend] struct {
	raw     *RawTensor
	backend B
}

// New wraps a RawTensor.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return &Tensor[T, B]{raw: raw, backend: b}
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	raw, err := NewRaw(shape, inferDataType[T](), b.Device())
	if err != nil {
		return nil, err
	}
	t := New[T](raw, b)
	copy(t.Data(), data)
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor[T, B]) Shape() Shape {
	return t.raw.Shape()
}

// DType returns the tensor's data type.
func (t *Tensor[T, B]) DType() DataType {
	return t.raw.DType()
}

// NumElements returns the total number of elements.
func (t *Tensor[T, B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
func (t *Tensor[T, B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor[T, B]) Backend() B {
	return t.backend
}

// Data returns a zero-copy typed slice over the tensor's storage.
func (t *Tensor[T, B]) Data() []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(t.raw.AsFloat32()).([]T)
	case int32:
		return any(t.raw.AsInt32()).([]T)
	default:
		panic("unsupported type")
	}
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T, B]) At(indices ...int) T {
	shape := t.Shape()
	if len(indices) != len(shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(shape), len(indices)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, shape[i]))
		}
		offset += idx * t.raw.Strides()[i]
	}
	return t.Data()[offset]
}

// Clone returns a deep copy on the same backend.
func (t *Tensor[T, B]) Clone() *Tensor[T, B] {
	return New[T](t.raw.Clone(), t.backend)
}

// Detach returns a copy that no recorded operation refers to.
func (t *Tensor[T, B]) Detach() *Tensor[T, B] {
	return t.Clone()
}

// Add returns t + other with broadcasting.
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T](t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub returns t - other with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T](t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul returns the element-wise product with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T](t.backend.Mul(t.raw, other.raw), t.backend)
}

// MatMul returns the 2-D matrix product t @ other.
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T](t.backend.MatMul(t.raw, other.raw), t.backend)
}

// MulScalar multiplies every element by s.
func (t *Tensor[T, B]) MulScalar(s T) *Tensor[T, B] {
	return New[T](t.backend.MulScalar(t.raw, float32(s)), t.backend)
}

// Reshape returns a tensor with the same elements under a new shape.
func (t *Tensor[T, B]) Reshape(shape ...int) *Tensor[T, B] {
	return New[T](t.backend.Reshape(t.raw, Shape(shape)), t.backend)
}

// Transpose swaps the two axes of a 2-D tensor.
func (t *Tensor[T, B]) Transpose() *Tensor[T, B] {
	return New[T](t.backend.Transpose(t.raw), t.backend)
}

// T is shorthand for Transpose.
func (t *Tensor[T, B]) T() *Tensor[T, B] {
	return t.Transpose()
}

// String implements fmt.Stringer.
func (t *Tensor[T, B]) String() string {
	return fmt.Sprintf("Tensor[%s](%v, %s)", t.DType(), t.Shape(), t.backend.Name())
}
