package ops

import (
	"fmt"

	"github.com/born-ml/fcnet/internal/tensor"
)

// reduceBroadcast sums grad down to targetShape, undoing forward broadcasting.
//
//	a[1,4] + b[3,4] -> c[3,4]
//	grad_c[3,4] -> grad_a[1,4] (summed along dim 0)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape) *tensor.RawTensor {
	if grad.Shape().Equal(targetShape) {
		return grad.Clone()
	}
	if grad.DType() != tensor.Float32 {
		panic(fmt.Sprintf("reduceBroadcast: unsupported dtype %s", grad.DType()))
	}

	result := tensor.MustRaw(targetShape, tensor.Float32, grad.Device())
	dst := result.AsFloat32()
	idx := tensor.BroadcastIndex(targetShape, grad.Shape())
	for i, g := range grad.AsFloat32() {
		dst[idx[i]] += g
	}
	return result
}

func float32Like(t *tensor.RawTensor) *tensor.RawTensor {
	return tensor.MustRaw(t.Shape(), tensor.Float32, t.Device())
}

func rows2D(op string, t *tensor.RawTensor) (int, int) {
	s := t.Shape()
	if len(s) != 2 {
		panic(fmt.Sprintf("%s: expected 2D tensor, got %v", op, s))
	}
	return s[0], s[1]
}
