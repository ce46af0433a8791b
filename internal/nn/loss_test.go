package nn_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/fcnet/internal/backend/cpu"
	"github.com/born-ml/fcnet/internal/nn"
	"github.com/born-ml/fcnet/internal/tensor"
)

func TestNLLLoss(t *testing.T) {
	b := cpu.New()
	logProbs, err := tensor.FromSlice([]float32{
		math32.Log(0.7), math32.Log(0.2), math32.Log(0.1),
		math32.Log(0.1), math32.Log(0.1), math32.Log(0.8),
	}, tensor.Shape{2, 3}, b)
	require.NoError(t, err)
	labels, err := tensor.FromSlice([]int32{0, 2}, tensor.Shape{2}, b)
	require.NoError(t, err)

	loss, err := nn.NewNLLLoss[CPUBackend]().Forward(logProbs, labels)
	require.NoError(t, err)
	want := -(math32.Log(0.7) + math32.Log(0.8)) / 2
	assert.InDelta(t, want, loss.Data()[0], 1e-6)

	assert.Equal(t, []int{0, 2}, nn.Argmax(logProbs))
	assert.Equal(t, 2, nn.CountCorrect(logProbs, labels))
	assert.InDelta(t, 1.0, nn.Accuracy(logProbs, labels), 1e-12)
}

func TestNLLLossRejectsBadLabels(t *testing.T) {
	b := cpu.New()
	logProbs := tensor.Zeros[float32](tensor.Shape{2, 3}, b)
	loss := nn.NewNLLLoss[CPUBackend]()

	for _, bad := range [][]int32{{0, 3}, {-1, 0}} {
		labels, err := tensor.FromSlice(bad, tensor.Shape{2}, b)
		require.NoError(t, err)
		_, err = loss.Forward(logProbs, labels)
		assert.ErrorIs(t, err, nn.ErrLabelOutOfRange, "labels %v", bad)
	}

	short, err := tensor.FromSlice([]int32{0}, tensor.Shape{1}, b)
	require.NoError(t, err)
	_, err = loss.Forward(logProbs, short)
	assert.ErrorAs(t, err, new(*nn.ShapeMismatchError))
}

func TestArgmaxTiesPickLowestIndex(t *testing.T) {
	x, err := tensor.FromSlice([]float32{1, 3, 3, 0}, tensor.Shape{1, 4}, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, nn.Argmax(x))
}

func TestSoftmax(t *testing.T) {
	p := nn.Softmax([]float32{1, 2, 3})
	var sum float32
	for _, v := range p {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
	assert.Less(t, p[0], p[1])
	assert.Less(t, p[1], p[2])
	assert.InDelta(t, 0.09003057, p[0], 1e-6)

	big := nn.Softmax([]float32{1000, 1000})
	assert.InDelta(t, 0.5, big[0], 1e-6)
	assert.Nil(t, nn.Softmax(nil))
}

func TestBinaryCrossEntropy(t *testing.T) {
	got, err := nn.BinaryCrossEntropy([]float32{1, 0, 1, 1}, []float32{0.4, 0.6, 0.1, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 4.8283137, got, 1e-5)

	_, err = nn.BinaryCrossEntropy([]float32{1}, []float32{0.5, 0.5})
	assert.Error(t, err)
	_, err = nn.BinaryCrossEntropy([]float32{1}, []float32{1})
	assert.Error(t, err)
}
