package nn

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/fcnet/internal/tensor"
)

// Dropout zeroes each element with probability p while training and scales
// the survivors by 1/(1-p). Outside training it is the identity.
type Dropout[B Backend] struct {
	p        float64
	training bool
	keep     distuv.Bernoulli
}

// NewDropout creates a Dropout layer in training mode.
// p must lie in [0, 1); Network validates it.
func NewDropout[B Backend](p float64, src rand.Source) *Dropout[B] {
	return &Dropout[B]{
		p:        p,
		training: true,
		keep:     distuv.Bernoulli{P: 1 - p, Src: src},
	}
}

// Forward applies the dropout mask.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.p == 0 {
		return input
	}
	b := input.Backend()
	mask := tensor.Zeros[float32](input.Shape(), b)
	scale := float32(1 / (1 - d.p))
	data := mask.Data()
	for i := range data {
		if d.keep.Rand() == 1 {
			data[i] = scale
		}
	}
	return input.Mul(mask)
}

// Parameters returns nil.
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}

// P returns the drop probability.
func (d *Dropout[B]) P() float64 {
	return d.p
}

// SetTraining switches between training and evaluation behaviour.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}
