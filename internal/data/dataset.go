// Package data provides the in-memory datasets fcnet trains on and the
// batch sources that feed them to the trainer.
package data

import (
	"github.com/pkg/errors"
)

// ErrEmptyDataset is returned when a dataset has no samples.
var ErrEmptyDataset = errors.New("data: empty dataset")

// Dataset is a set of flattened feature vectors with integer class labels.
type Dataset struct {
	Images   [][]float32 // [num_samples][Features]
	Labels   []int32     // [num_samples]
	Features int
}

// NumSamples returns the number of samples.
func (d *Dataset) NumSamples() int {
	return len(d.Labels)
}

// Validate checks that every row has Features values and that images and
// labels pair up.
func (d *Dataset) Validate() error {
	if len(d.Labels) == 0 {
		return ErrEmptyDataset
	}
	if len(d.Images) != len(d.Labels) {
		return errors.Errorf("data: %d images but %d labels", len(d.Images), len(d.Labels))
	}
	if d.Features <= 0 {
		return errors.Errorf("data: features must be positive, got %d", d.Features)
	}
	for i, row := range d.Images {
		if len(row) != d.Features {
			return errors.Errorf("data: sample %d has %d features, want %d", i, len(row), d.Features)
		}
	}
	return nil
}

// Take returns a dataset sharing the first n samples. n <= 0 or n beyond the
// dataset size returns d unchanged.
func (d *Dataset) Take(n int) *Dataset {
	if n <= 0 || n >= d.NumSamples() {
		return d
	}
	return &Dataset{Images: d.Images[:n], Labels: d.Labels[:n], Features: d.Features}
}

// Split partitions d into a leading share of ratio and the remainder.
// Both parts share storage with d and keep its order.
func (d *Dataset) Split(ratio float64) (*Dataset, *Dataset, error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, errors.Errorf("data: split ratio must be in (0, 1), got %g", ratio)
	}
	n := d.NumSamples()
	cut := int(float64(n) * ratio)
	if cut == 0 || cut == n {
		return nil, nil, errors.Errorf("data: split ratio %g leaves an empty part of %d samples", ratio, n)
	}
	head := &Dataset{Images: d.Images[:cut], Labels: d.Labels[:cut], Features: d.Features}
	tail := &Dataset{Images: d.Images[cut:], Labels: d.Labels[cut:], Features: d.Features}
	return head, tail, nil
}

// NumClasses returns one more than the largest label.
func (d *Dataset) NumClasses() int {
	var top int32 = -1
	for _, l := range d.Labels {
		top = max(top, l)
	}
	return int(top) + 1
}
