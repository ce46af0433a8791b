// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides fcnet's fully connected classifier and its layers.
//
// # Network
//
// Network stacks Linear, ReLU and Dropout for every configured hidden layer
// and ends in a LogSoftmax over the classes:
//
//	backend := cpu.New()
//	net, err := nn.NewNetwork(backend, nn.Config{
//	    InputSize:       784,
//	    OutputSize:      10,
//	    HiddenLayers:    []int{512, 256, 128},
//	    DropProbability: 0.2,
//	})
//	net.Eval()
//	logProbs, err := net.Forward(images) // [N, 10]
//
// # Checkpoints
//
// SaveNetwork writes the architecture together with the parameters, so
// LoadNetwork can rebuild the network without being told its shape:
//
//	err := nn.SaveNetwork(net, "checkpoint.born")
//	restored, err := nn.LoadNetwork("checkpoint.born", backend)
//
// # Errors
//
//   - *ConfigurationError: an invalid architecture argument
//   - *ShapeMismatchError: an input whose shape the layer cannot accept
//   - *CheckpointFormatError: an unreadable or incomplete checkpoint
//   - *ParameterShapeError: a stored tensor that does not fit the network
package nn
