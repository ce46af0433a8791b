package data

import (
	"iter"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/born-ml/fcnet/internal/tensor"
	"github.com/born-ml/fcnet/internal/train"
)

// SourceConfig controls how a SliceSource batches a dataset.
type SourceConfig struct {
	BatchSize int

	// Shuffle reorders samples at the start of every pass.
	Shuffle bool

	// Seed for the shuffle order. Zero uses a fixed seed of 1.
	Seed uint64
}

// SliceSource yields a Dataset as [batch, features] image tensors and
// [batch] label tensors. The final batch may be smaller than BatchSize.
type SliceSource[B tensor.Backend] struct {
	ds      *Dataset
	cfg     SourceConfig
	rng     *rand.Rand
	order   []int
	backend B
}

// NewSliceSource validates ds and returns a batch source over it.
func NewSliceSource[B tensor.Backend](ds *Dataset, cfg SourceConfig, backend B) (*SliceSource[B], error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if cfg.BatchSize <= 0 {
		return nil, errors.Errorf("data: batch size must be positive, got %d", cfg.BatchSize)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	order := make([]int, ds.NumSamples())
	for i := range order {
		order[i] = i
	}
	return &SliceSource[B]{
		ds:      ds,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		order:   order,
		backend: backend,
	}, nil
}

// NumBatches returns the number of batches per pass.
func (s *SliceSource[B]) NumBatches() int {
	n := s.ds.NumSamples()
	return (n + s.cfg.BatchSize - 1) / s.cfg.BatchSize
}

// Batches returns one pass over the dataset.
func (s *SliceSource[B]) Batches() iter.Seq2[train.Batch[B], error] {
	return func(yield func(train.Batch[B], error) bool) {
		if s.cfg.Shuffle {
			s.rng.Shuffle(len(s.order), func(i, j int) {
				s.order[i], s.order[j] = s.order[j], s.order[i]
			})
		}
		n := len(s.order)
		for lo := 0; lo < n; lo += s.cfg.BatchSize {
			hi := min(lo+s.cfg.BatchSize, n)
			if !yield(s.batch(s.order[lo:hi]), nil) {
				return
			}
		}
	}
}

func (s *SliceSource[B]) batch(idx []int) train.Batch[B] {
	f := s.ds.Features
	images := tensor.MustRaw(tensor.Shape{len(idx), f}, tensor.Float32, s.backend.Device())
	labels := tensor.MustRaw(tensor.Shape{len(idx)}, tensor.Int32, s.backend.Device())
	pix := images.AsFloat32()
	lab := labels.AsInt32()
	for row, i := range idx {
		copy(pix[row*f:(row+1)*f], s.ds.Images[i])
		lab[row] = s.ds.Labels[i]
	}
	return train.Batch[B]{
		Images: tensor.New[float32](images, s.backend),
		Labels: tensor.New[int32](labels, s.backend),
	}
}
