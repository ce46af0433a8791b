// Package nn implements the building blocks of fcnet's feed-forward classifier.
//
// The package provides:
//   - Module and Parameter: the layer contract and trainable tensors
//   - Linear, ReLU, Dropout, LogSoftmax: the layers a Network is built from
//   - NLLLoss and Accuracy: training and evaluation criteria
//   - Network: a fully connected classifier with a configurable hidden stack
//   - SaveNetwork / LoadNetwork: self-describing .born checkpoints
//
// Layers are generic over the backend so the same network runs on the plain
// CPU backend for inference and on an autodiff-wrapped backend for training.
package nn

import (
	"github.com/born-ml/fcnet/internal/tensor"
)

// Backend is the capability set nn layers need.
// Both cpu.CPUBackend and autodiff.AutodiffBackend satisfy it.
type Backend interface {
	tensor.Backend
	ReLU(x *tensor.RawTensor) *tensor.RawTensor
	LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor
	NLLLoss(logProbs, targets *tensor.RawTensor) *tensor.RawTensor
}

// Module is the base interface for layers.
type Module[B Backend] interface {
	// Forward computes the output for a [batch, features] input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns the trainable parameters, empty for stateless layers.
	Parameters() []*Parameter[B]
}
