package autodiff

import (
	"fmt"

	"github.com/born-ml/fcnet/internal/tensor"
)

// BackwardCapable is implemented by backends that own a gradient tape.
type BackwardCapable interface {
	tensor.Backend
	Tape() *GradientTape
}

// Backward seeds t with ones and returns gradients for every recorded tensor.
// Panics if t is not float32.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("backward: unsupported dtype %s", t.DType()))
	}
	seed := tensor.MustRaw(t.Shape(), tensor.Float32, backend.Device())
	ones := seed.AsFloat32()
	for i := range ones {
		ones[i] = 1
	}
	return backend.Tape().Backward(t.Raw(), seed, backend)
}
