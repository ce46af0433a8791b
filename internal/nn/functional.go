package nn

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Softmax returns exp(v) / sum(exp(v)), shifted by max(v) for stability.
func Softmax(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	hi := values[0]
	for _, v := range values[1:] {
		hi = math32.Max(hi, v)
	}
	out := make([]float32, len(values))
	var sum float32
	for i, v := range values {
		out[i] = math32.Exp(v - hi)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// BinaryCrossEntropy returns -sum(y*ln(p) + (1-y)*ln(1-p)) over paired
// targets y in {0, 1} and probabilities p in (0, 1).
func BinaryCrossEntropy(y, p []float32) (float32, error) {
	if len(y) != len(p) {
		return 0, errors.Errorf("binary cross-entropy: %d targets but %d probabilities", len(y), len(p))
	}
	var total float32
	for i := range y {
		if p[i] <= 0 || p[i] >= 1 {
			return 0, errors.Errorf("binary cross-entropy: probability %v at %d outside (0, 1)", p[i], i)
		}
		total -= y[i]*math32.Log(p[i]) + (1-y[i])*math32.Log(1-p[i])
	}
	return total, nil
}
