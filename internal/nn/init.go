package nn

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/born-ml/fcnet/internal/tensor"
)

// KaimingUniform draws a [fanOut, fanIn] weight from U(-b, b) with
// b = sqrt(1/fanIn), the default for fully connected layers followed by ReLU
// (Kaiming uniform with a = sqrt(5)).
func KaimingUniform[B Backend](fanIn, fanOut int, src rand.Source, backend B) *tensor.Tensor[float32, B] {
	bound := 1 / math.Sqrt(float64(fanIn))
	return tensor.Uniform(tensor.Shape{fanOut, fanIn}, -bound, bound, src, backend)
}

// Xavier draws a [fanOut, fanIn] weight from U(-b, b) with
// b = sqrt(6/(fanIn+fanOut)).
func Xavier[B Backend](fanIn, fanOut int, src rand.Source, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6 / float64(fanIn+fanOut))
	return tensor.Uniform(tensor.Shape{fanOut, fanIn}, -bound, bound, src, backend)
}

// BiasUniform draws a [fanOut] bias from U(-1/sqrt(fanIn), 1/sqrt(fanIn)).
func BiasUniform[B Backend](fanIn, fanOut int, src rand.Source, backend B) *tensor.Tensor[float32, B] {
	bound := 1 / math.Sqrt(float64(fanIn))
	return tensor.Uniform(tensor.Shape{fanOut}, -bound, bound, src, backend)
}
