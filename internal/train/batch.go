package train

import (
	"iter"

	"github.com/born-ml/fcnet/internal/nn"
	"github.com/born-ml/fcnet/internal/tensor"
)

// Batch is one mini-batch of inputs and integer class labels.
type Batch[B tensor.Backend] struct {
	Images *tensor.Tensor[float32, B] // [N, ...]
	Labels *tensor.Tensor[int32, B]   // [N]
}

// BatchSource yields the batches of one pass over a dataset.
// Each call to Batches starts a new pass. The trainer consumes batches in
// the order they are yielded; shuffling is the source's business.
type BatchSource[B tensor.Backend] interface {
	Batches() iter.Seq2[Batch[B], error]
}

// Flatten reshapes images of shape (N, C, H, W) or (N, D) to (N, features).
// The result shares storage with images.
func Flatten[B tensor.Backend](images *tensor.Tensor[float32, B], features int) (*tensor.Tensor[float32, B], error) {
	s := images.Shape()
	if len(s) < 2 || s.NumElements() != s[0]*features {
		return nil, &nn.ShapeMismatchError{Op: "flatten", Expected: tensor.Shape{-1, features}, Got: s.Clone()}
	}
	if len(s) == 2 {
		return images, nil
	}
	return images.Reshape(s[0], features), nil
}
