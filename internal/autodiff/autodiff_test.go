package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/fcnet/internal/autodiff"
	"github.com/born-ml/fcnet/internal/backend/cpu"
	"github.com/born-ml/fcnet/internal/tensor"
)

type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() Backend {
	b := autodiff.New(cpu.New())
	b.Tape().StartRecording()
	return b
}

func fromSlice(t *testing.T, b Backend, data []float32, shape ...int) *tensor.Tensor[float32, Backend] {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape(shape), b)
	require.NoError(t, err)
	return x
}

func TestBackwardSquare(t *testing.T) {
	b := newBackend()
	x := fromSlice(t, b, []float32{3}, 1)
	y := x.Mul(x)

	grads := autodiff.Backward(y, b)
	require.Contains(t, grads, x.Raw())
	assert.InDelta(t, 6.0, grads[x.Raw()].AsFloat32()[0], 1e-6)
}

func TestBackwardBroadcastAddReducesToBias(t *testing.T) {
	b := newBackend()
	x := fromSlice(t, b, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	bias := fromSlice(t, b, []float32{0, 0, 0}, 3)
	y := x.Add(bias.Reshape(1, 3)).MulScalar(2)

	grads := autodiff.Backward(y, b)
	assert.Equal(t, tensor.Shape{3}, grads[bias.Raw()].Shape())
	assert.Equal(t, []float32{4, 4, 4}, grads[bias.Raw()].AsFloat32())
	assert.Equal(t, []float32{2, 2, 2, 2, 2, 2}, grads[x.Raw()].AsFloat32())
}

func TestBackwardSub(t *testing.T) {
	b := newBackend()
	x := fromSlice(t, b, []float32{1, 2}, 2)
	y := fromSlice(t, b, []float32{5, 5}, 2)

	grads := autodiff.Backward(x.Sub(y), b)
	assert.Equal(t, []float32{1, 1}, grads[x.Raw()].AsFloat32())
	assert.Equal(t, []float32{-1, -1}, grads[y.Raw()].AsFloat32())
}

func TestReLUBackwardMasks(t *testing.T) {
	b := newBackend()
	x := fromSlice(t, b, []float32{-2, 0.5, 3, -0.1}, 1, 4)
	y := tensor.New[float32](b.ReLU(x.Raw()), b)

	grads := autodiff.Backward(y, b)
	assert.Equal(t, []float32{0, 1, 1, 0}, grads[x.Raw()].AsFloat32())
}

func TestTapeRecordingControl(t *testing.T) {
	b := autodiff.New(cpu.New())
	x, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, b)
	require.NoError(t, err)

	x.Add(x)
	assert.Equal(t, 0, b.Tape().NumOps(), "tape starts stopped")

	b.Tape().StartRecording()
	x.Add(x)
	assert.Equal(t, 1, b.Tape().NumOps())

	b.NoGrad(func() {
		x.Add(x)
		assert.False(t, b.Tape().IsRecording())
	})
	assert.True(t, b.Tape().IsRecording(), "NoGrad restores recording")
	assert.Equal(t, 1, b.Tape().NumOps())

	b.Tape().Clear()
	assert.Equal(t, 0, b.Tape().NumOps())
	assert.True(t, b.Tape().IsRecording())
}

func TestNoGradKeepsStoppedTapeStopped(t *testing.T) {
	b := autodiff.New(cpu.New())
	b.NoGrad(func() {})
	assert.False(t, b.Tape().IsRecording())
}
