// Package ops defines the differentiable operations recorded by the gradient tape.
//
// Each operation keeps references to its inputs and output from the forward
// pass and turns an output gradient into one gradient per input:
//   - AddOp, SubOp: identity (reduced over broadcast dims)
//   - MulOp: d(a*b)/da = b, d(a*b)/db = a
//   - MatMulOp: dA = grad @ B^T, dB = A^T @ grad
//   - ReLUOp, LogSoftmaxOp, NLLLossOp: activation and loss rules
package ops

import "github.com/born-ml/fcnet/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward returns one gradient per input, nil for inputs that take none.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
