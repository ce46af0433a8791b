// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"golang.org/x/exp/rand"

	"github.com/born-ml/fcnet/internal/nn"
	"github.com/born-ml/fcnet/internal/tensor"
)

// Backend is the set of operations nn layers run on.
type Backend = nn.Backend

// Module is the interface all layers implement.
type Module[B Backend] = nn.Module[B]

// Parameter is a named trainable tensor.
type Parameter[B Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Network

// Network is a fully connected classifier with a configurable hidden stack.
type Network[B Backend] = nn.Network[B]

// Config describes a Network's architecture.
type Config = nn.Config

// Architecture is the shape-defining part of a Network.
type Architecture = nn.Architecture

// DefaultDropProbability is used when Config.DropProbability is zero.
const DefaultDropProbability = nn.DefaultDropProbability

// NoDropout disables dropout when set as Config.DropProbability.
const NoDropout = nn.NoDropout

// NewNetwork validates cfg and builds a freshly initialised network.
func NewNetwork[B Backend](backend B, cfg Config) (*Network[B], error) {
	return nn.NewNetwork(backend, cfg)
}

// SaveNetwork atomically writes n's architecture and parameters to path.
func SaveNetwork[B Backend](n *Network[B], path string) error {
	return nn.SaveNetwork(n, path)
}

// SaveNetworkWithMetadata is SaveNetwork with string metadata in the header.
func SaveNetworkWithMetadata[B Backend](n *Network[B], path string, metadata map[string]string) error {
	return nn.SaveNetworkWithMetadata(n, path, metadata)
}

// LoadNetwork rebuilds a Network from a checkpoint. The result is in
// evaluation mode.
func LoadNetwork[B Backend](path string, backend B) (*Network[B], error) {
	return nn.LoadNetwork(path, backend)
}

// ReadArchitecture returns the architecture stored in a checkpoint.
func ReadArchitecture(path string) (Architecture, error) {
	return nn.ReadArchitecture(path)
}

// Layers

// Linear is a fully connected layer y = x @ W^T + b.
type Linear[B Backend] = nn.Linear[B]

// NewLinear creates a Linear layer with Kaiming-uniform weights.
// A nil src draws from the global source.
//
//	layer := nn.NewLinear(784, 128, nil, cpu.New())
func NewLinear[B Backend](inFeatures, outFeatures int, src rand.Source, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, src, backend)
}

// ReLU is the rectified linear unit activation.
type ReLU[B Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
func NewReLU[B Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Dropout zeroes inputs with probability p in training mode.
type Dropout[B Backend] = nn.Dropout[B]

// NewDropout creates a dropout layer.
func NewDropout[B Backend](p float64, src rand.Source) *Dropout[B] {
	return nn.NewDropout[B](p, src)
}

// LogSoftmax is the row-wise log-softmax.
type LogSoftmax[B Backend] = nn.LogSoftmax[B]

// NewLogSoftmax creates a LogSoftmax layer.
func NewLogSoftmax[B Backend]() *LogSoftmax[B] {
	return nn.NewLogSoftmax[B]()
}

// Losses and metrics

// NLLLoss is the mean negative log-likelihood loss.
type NLLLoss[B Backend] = nn.NLLLoss[B]

// NewNLLLoss creates an NLLLoss criterion.
func NewNLLLoss[B Backend]() *NLLLoss[B] {
	return nn.NewNLLLoss[B]()
}

// Accuracy returns the top-1 accuracy of logProbs against labels.
func Accuracy[B Backend](logProbs *tensor.Tensor[float32, B], labels *tensor.Tensor[int32, B]) float64 {
	return nn.Accuracy(logProbs, labels)
}

// Softmax returns the probability distribution of a single row of scores.
func Softmax(values []float32) []float32 {
	return nn.Softmax(values)
}

// BinaryCrossEntropy returns the summed binary cross-entropy of
// probabilities p against 0/1 targets y.
func BinaryCrossEntropy(y, p []float32) (float32, error) {
	return nn.BinaryCrossEntropy(y, p)
}

// Errors

// ConfigurationError reports an invalid architecture argument.
type ConfigurationError = nn.ConfigurationError

// ShapeMismatchError reports an input of unexpected shape.
type ShapeMismatchError = nn.ShapeMismatchError

// CheckpointFormatError reports an unreadable or incomplete checkpoint.
type CheckpointFormatError = nn.CheckpointFormatError

// ParameterShapeError reports a stored tensor that does not fit the network.
type ParameterShapeError = nn.ParameterShapeError

// ErrLabelOutOfRange is returned by NLLLoss for labels outside [0, classes).
var ErrLabelOutOfRange = nn.ErrLabelOutOfRange
