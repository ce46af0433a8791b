package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is positive.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides: stride[i] is the product of all dims after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}
	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// BroadcastShapes applies NumPy broadcasting rules, comparing dims right to left.
// Missing dims count as 1 and a dim of 1 stretches to match the other side.
//
//	(3, 1) + (3, 5) -> (3, 5), true
//	(1, 5) + (3, 5) -> (3, 5), true
//	(3, 4) + (3, 5) -> error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	n := max(len(a), len(b))
	out := make(Shape, n)
	broadcast := len(a) != len(b)

	for i := range n {
		ad, bd := 1, 1
		if j := len(a) - 1 - i; j >= 0 {
			ad = a[j]
		}
		if j := len(b) - 1 - i; j >= 0 {
			bd = b[j]
		}

		switch {
		case ad == bd:
			out[n-1-i] = ad
		case ad == 1:
			out[n-1-i] = bd
			broadcast = true
		case bd == 1:
			out[n-1-i] = ad
			broadcast = true
		default:
			return nil, false, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v", a, b)
		}
	}
	return out, broadcast, nil
}

// BroadcastIndex maps every flat index of an out-shaped tensor to the flat
// index of the element it reads from an input of shape in, where in
// broadcasts to out.
func BroadcastIndex(in, out Shape) []int {
	inStrides := in.ComputeStrides()
	outStrides := out.ComputeStrides()
	offset := len(out) - len(in)

	idx := make([]int, out.NumElements())
	for flat := range idx {
		rem, src := flat, 0
		for d := range out {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			if k := d - offset; k >= 0 && in[k] != 1 {
				src += coord * inStrides[k]
			}
		}
		idx[flat] = src
	}
	return idx
}
