package nn

import (
	"github.com/pkg/errors"

	"github.com/born-ml/fcnet/internal/tensor"
)

// NLLLoss is the mean negative log-likelihood of integer labels under
// [batch, classes] log-probabilities. Paired with a LogSoftmax output it is
// cross-entropy.
type NLLLoss[B Backend] struct{}

// NewNLLLoss creates a new NLLLoss criterion.
func NewNLLLoss[B Backend]() *NLLLoss[B] {
	return &NLLLoss[B]{}
}

// Forward returns the scalar loss as a [1] tensor.
func (l *NLLLoss[B]) Forward(logProbs *tensor.Tensor[float32, B], labels *tensor.Tensor[int32, B]) (*tensor.Tensor[float32, B], error) {
	s := logProbs.Shape()
	if len(s) != 2 {
		return nil, &ShapeMismatchError{Op: "nll_loss", Expected: tensor.Shape{-1, -1}, Got: s.Clone()}
	}
	if ls := labels.Shape(); len(ls) != 1 || ls[0] != s[0] {
		return nil, &ShapeMismatchError{Op: "nll_loss labels", Expected: tensor.Shape{s[0]}, Got: ls.Clone()}
	}
	classes := int32(s[1])
	for i, label := range labels.Data() {
		if label < 0 || label >= classes {
			return nil, errors.Wrapf(ErrLabelOutOfRange, "sample %d has label %d, network has %d classes", i, label, classes)
		}
	}
	b := logProbs.Backend()
	return tensor.New[float32](b.NLLLoss(logProbs.Raw(), labels.Raw()), b), nil
}

// Argmax returns the index of the largest value in each row of a 2-D tensor.
// Ties resolve to the lowest index.
func Argmax[B Backend](t *tensor.Tensor[float32, B]) []int {
	s := t.Shape()
	rows, cols := s[0], s[1]
	data := t.Data()
	out := make([]int, rows)
	for r := range rows {
		row := data[r*cols : (r+1)*cols]
		best := 0
		for c := 1; c < cols; c++ {
			if row[c] > row[best] {
				best = c
			}
		}
		out[r] = best
	}
	return out
}

// CountCorrect returns how many rows' argmax equals the label.
func CountCorrect[B Backend](logProbs *tensor.Tensor[float32, B], labels *tensor.Tensor[int32, B]) int {
	correct := 0
	y := labels.Data()
	for i, pred := range Argmax(logProbs) {
		if int32(pred) == y[i] {
			correct++
		}
	}
	return correct
}

// Accuracy returns the top-1 accuracy of logProbs against labels.
func Accuracy[B Backend](logProbs *tensor.Tensor[float32, B], labels *tensor.Tensor[int32, B]) float64 {
	n := logProbs.Shape()[0]
	return float64(CountCorrect(logProbs, labels)) / float64(n)
}
