package data_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/fcnet/internal/backend/cpu"
	"github.com/born-ml/fcnet/internal/data"
	"github.com/born-ml/fcnet/internal/tensor"
)

func tinyDataset(n int) *data.Dataset {
	ds := &data.Dataset{Features: 2}
	for i := range n {
		ds.Images = append(ds.Images, []float32{float32(i), float32(-i)})
		ds.Labels = append(ds.Labels, int32(i%3))
	}
	return ds
}

func TestDataset_Validate(t *testing.T) {
	tests := []struct {
		name string
		ds   *data.Dataset
	}{
		{"empty", &data.Dataset{Features: 2}},
		{"label count", &data.Dataset{Images: [][]float32{{1, 2}}, Labels: []int32{0, 1}, Features: 2}},
		{"zero features", &data.Dataset{Images: [][]float32{{}}, Labels: []int32{0}}},
		{"ragged row", &data.Dataset{Images: [][]float32{{1, 2}, {3}}, Labels: []int32{0, 1}, Features: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.ds.Validate())
		})
	}

	assert.NoError(t, tinyDataset(4).Validate())
	assert.ErrorIs(t, (&data.Dataset{Features: 2}).Validate(), data.ErrEmptyDataset)
}

func TestDataset_SplitAndTake(t *testing.T) {
	ds := tinyDataset(10)

	head, tail, err := ds.Split(0.8)
	require.NoError(t, err)
	assert.Equal(t, 8, head.NumSamples())
	assert.Equal(t, 2, tail.NumSamples())
	assert.Equal(t, []float32{8, -8}, tail.Images[0])

	for _, ratio := range []float64{0, 1, -0.5, 0.01} {
		_, _, err := ds.Split(ratio)
		assert.Error(t, err, "ratio %g", ratio)
	}

	assert.Equal(t, 3, ds.Take(3).NumSamples())
	assert.Same(t, ds, ds.Take(0))
	assert.Same(t, ds, ds.Take(100))
	assert.Equal(t, 3, ds.NumClasses())
}

func TestSliceSource_Batches(t *testing.T) {
	backend := cpu.New()
	src, err := data.NewSliceSource(tinyDataset(7), data.SourceConfig{BatchSize: 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, 3, src.NumBatches())

	var sizes []int
	var labels []int32
	for batch, err := range src.Batches() {
		require.NoError(t, err)
		assert.Equal(t, tensor.Shape{batch.Labels.Shape()[0], 2}, batch.Images.Shape())
		sizes = append(sizes, batch.Labels.Shape()[0])
		labels = append(labels, batch.Labels.Data()...)
	}
	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.Equal(t, []int32{0, 1, 2, 0, 1, 2, 0}, labels)

	// Each call starts a fresh pass.
	count := 0
	for range src.Batches() {
		count++
	}
	assert.Equal(t, 3, count)
}

func TestSliceSource_ShufflePreservesPairs(t *testing.T) {
	backend := cpu.New()
	ds := tinyDataset(20)
	src, err := data.NewSliceSource(ds, data.SourceConfig{BatchSize: 20, Shuffle: true, Seed: 3}, backend)
	require.NoError(t, err)

	var first, second []float32
	for batch := range src.Batches() {
		first = append(first, batch.Images.Data()...)
		imgs := batch.Images.Data()
		for row, label := range batch.Labels.Data() {
			assert.Equal(t, int32(int(imgs[row*2])%3), label)
		}
	}
	for batch := range src.Batches() {
		second = append(second, batch.Images.Data()...)
	}
	assert.ElementsMatch(t, first, second)
	assert.NotEqual(t, first, second)
}

func TestNewSliceSource_Errors(t *testing.T) {
	backend := cpu.New()
	_, err := data.NewSliceSource(tinyDataset(4), data.SourceConfig{}, backend)
	assert.Error(t, err)

	_, err = data.NewSliceSource(&data.Dataset{Features: 1}, data.SourceConfig{BatchSize: 1}, backend)
	assert.ErrorIs(t, err, data.ErrEmptyDataset)
}

func TestSeparable(t *testing.T) {
	a := data.Separable(200, 2, 11)
	b := data.Separable(200, 2, 11)
	require.NoError(t, a.Validate())
	assert.Equal(t, a.Images, b.Images)
	assert.Equal(t, 2, a.NumClasses())

	// The sign of the feature sum classifies every sample.
	for i, row := range a.Images {
		var sum float32
		for _, v := range row {
			sum += v
		}
		want := int32(0)
		if sum > 0 {
			want = 1
		}
		assert.Equal(t, want, a.Labels[i], "sample %d", i)
	}
}

func TestLoadMNIST_MissingFiles(t *testing.T) {
	_, _, err := data.LoadMNIST(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
