package cpu

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/fcnet/internal/parallel"
	"github.com/born-ml/fcnet/internal/tensor"
)

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	requireFloat32("relu", x)
	result := cpu.alloc("relu", x.Shape(), tensor.Float32)
	src, dst := x.AsFloat32(), result.AsFloat32()
	parallel.For(len(src), func(i int) {
		if v := src[i]; v > 0 {
			dst[i] = v
		}
	}, cpu.par)
	return result
}

// LogSoftmax normalises each row of a 2-D tensor into log-probabilities.
// Rows are shifted by their maximum before exponentiation.
func (cpu *CPUBackend) LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor {
	requireFloat32("log_softmax", x)
	s := x.Shape()
	if len(s) != 2 {
		panic(fmt.Sprintf("log_softmax: expected 2D input, got %v", s))
	}
	rows, cols := s[0], s[1]
	result := cpu.alloc("log_softmax", s, tensor.Float32)
	src, dst := x.AsFloat32(), result.AsFloat32()

	parallel.ForRows(rows, func(lo, hi int) {
		for r := lo; r < hi; r++ {
			logSoftmaxRow(dst[r*cols:(r+1)*cols], src[r*cols:(r+1)*cols])
		}
	}, cpu.par)
	return result
}

func logSoftmaxRow(dst, src []float32) {
	hi := math32.Inf(-1)
	for _, v := range src {
		hi = math32.Max(hi, v)
	}
	var sum float32
	for _, v := range src {
		sum += math32.Exp(v - hi)
	}
	logSum := math32.Log(sum)
	for i, v := range src {
		dst[i] = (v - hi) - logSum
	}
}

// NLLLoss returns the mean negative log-likelihood of targets under
// logProbs [N, C] as a scalar tensor of shape [1].
// Panics if a target falls outside [0, C).
func (cpu *CPUBackend) NLLLoss(logProbs, targets *tensor.RawTensor) *tensor.RawTensor {
	requireFloat32("nll_loss", logProbs)
	s := logProbs.Shape()
	if len(s) != 2 {
		panic(fmt.Sprintf("nll_loss: expected 2D log-probabilities, got %v", s))
	}
	if targets.DType() != tensor.Int32 || targets.NumElements() != s[0] {
		panic(fmt.Sprintf("nll_loss: expected %d int32 targets, got %d %s", s[0], targets.NumElements(), targets.DType()))
	}
	n, c := s[0], s[1]
	lp, tg := logProbs.AsFloat32(), targets.AsInt32()

	var total float32
	for i, label := range tg {
		if label < 0 || int(label) >= c {
			panic(fmt.Sprintf("nll_loss: target %d out of range [0, %d)", label, c))
		}
		total -= lp[i*c+int(label)]
	}
	result := cpu.alloc("nll_loss", tensor.Shape{1}, tensor.Float32)
	result.AsFloat32()[0] = total / float32(n)
	return result
}
