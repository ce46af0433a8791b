package tensor

// Backend is the compute contract the network is written against.
//
// Implementations panic on shape or dtype misuse; callers validate
// user-supplied shapes before handing tensors to a backend.
type Backend interface {
	// Element-wise binary operations with NumPy broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// MatMul multiplies 2-D tensors: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, shape Shape) *RawTensor
	Transpose(t *RawTensor) *RawTensor

	// MulScalar multiplies every element by s.
	MulScalar(x *RawTensor, s float32) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
