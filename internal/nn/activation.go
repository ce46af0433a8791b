package nn

import (
	"github.com/born-ml/fcnet/internal/tensor"
)

// ReLU applies max(0, x) element-wise.
type ReLU[B Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies max(0, x).
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	b := input.Backend()
	return tensor.New[float32](b.ReLU(input.Raw()), b)
}

// Parameters returns nil.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// LogSoftmax turns each row of a [batch, classes] input into log-probabilities.
type LogSoftmax[B Backend] struct{}

// NewLogSoftmax creates a new LogSoftmax module.
func NewLogSoftmax[B Backend]() *LogSoftmax[B] {
	return &LogSoftmax[B]{}
}

// Forward applies row-wise log-softmax.
func (l *LogSoftmax[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	b := input.Backend()
	return tensor.New[float32](b.LogSoftmax(input.Raw()), b)
}

// Parameters returns nil.
func (l *LogSoftmax[B]) Parameters() []*Parameter[B] {
	return nil
}
