// Package autodiff implements reverse-mode automatic differentiation as a
// backend decorator.
//
// AutodiffBackend wraps any tensor.Backend, forwards every computation to it
// and, while its GradientTape is recording, appends the matching ops.Operation.
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	y := x.Mul(x)
//	grads := autodiff.Backward(y, backend)
//	dx := grads[x.Raw()] // 2x
package autodiff

import (
	"github.com/born-ml/fcnet/internal/autodiff/ops"
	"github.com/born-ml/fcnet/internal/tensor"
)

// Inner is the capability set AutodiffBackend needs from the wrapped backend.
type Inner interface {
	tensor.Backend
	ReLU(x *tensor.RawTensor) *tensor.RawTensor
	LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor
	NLLLoss(logProbs, targets *tensor.RawTensor) *tensor.RawTensor
}

// AutodiffBackend wraps a backend and records differentiable operations.
type AutodiffBackend[B Inner] struct {
	inner B
	tape  *GradientTape
}

// New creates a new AutodiffBackend wrapping backend. The tape starts stopped.
func New[B Inner](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// NoGrad runs fn with recording suspended and restores the previous state.
func (b *AutodiffBackend[B]) NoGrad(fn func()) {
	was := b.tape.IsRecording()
	b.tape.StopRecording()
	defer func() {
		if was {
			b.tape.StartRecording()
		}
	}()
	fn()
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Add(x, y)
	b.tape.Record(ops.NewAddOp(x, y, out))
	return out
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Sub(x, y)
	b.tape.Record(ops.NewSubOp(x, y, out))
	return out
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Mul(x, y)
	b.tape.Record(ops.NewMulOp(x, y, out))
	return out
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.MatMul(x, y)
	b.tape.Record(ops.NewMatMulOp(x, y, out))
	return out
}

// MulScalar scales x and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, s float32) *tensor.RawTensor {
	out := b.inner.MulScalar(x, s)
	b.tape.Record(ops.NewMulScalarOp(x, out, s))
	return out
}

// Reshape changes the shape and records the operation.
func (b *AutodiffBackend[B]) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	out := b.inner.Reshape(x, shape)
	b.tape.Record(ops.NewReshapeOp(x, out))
	return out
}

// Transpose transposes a 2-D tensor and records the operation.
func (b *AutodiffBackend[B]) Transpose(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.Transpose(x)
	b.tape.Record(ops.NewTransposeOp(x, out))
	return out
}

// ReLU applies max(0, x) and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.ReLU(x)
	b.tape.Record(ops.NewReLUOp(x, out))
	return out
}

// LogSoftmax applies row-wise log-softmax and records the operation.
func (b *AutodiffBackend[B]) LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.LogSoftmax(x)
	b.tape.Record(ops.NewLogSoftmaxOp(x, out))
	return out
}

// NLLLoss computes the mean negative log-likelihood and records the operation.
func (b *AutodiffBackend[B]) NLLLoss(logProbs, targets *tensor.RawTensor) *tensor.RawTensor {
	out := b.inner.NLLLoss(logProbs, targets)
	b.tape.Record(ops.NewNLLLossOp(logProbs, targets, out))
	return out
}
