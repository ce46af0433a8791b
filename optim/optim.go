// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the optimizers used to train fcnet networks.
//
// Optimizers consume the gradient map from autodiff.Backward and update
// parameters in place:
//
//	backend := autodiff.New(cpu.New())
//	opt := optim.NewAdam(net.Parameters(), optim.AdamConfig{LR: 0.001}, backend)
//
//	backend.Tape().StartRecording()
//	logProbs, _ := net.Forward(x)
//	loss, _ := criterion.Forward(logProbs, y)
//	grads := autodiff.Backward(loss, backend)
//	backend.Tape().StopRecording()
//	backend.Tape().Clear()
//
//	opt.Step(grads)
//	opt.ZeroGrad()
package optim

import (
	"github.com/born-ml/fcnet/internal/optim"
	"github.com/born-ml/fcnet/nn"
)

// Optimizer is the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Config represents the base configuration for optimizers.
type Config = optim.Config

// SGD is stochastic gradient descent with optional momentum.
type SGD[B nn.Backend] = optim.SGD[B]

// SGDConfig contains configuration for SGD.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
//	opt := optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: 0.01, Momentum: 0.9}, backend)
func NewSGD[B nn.Backend](params []*nn.Parameter[B], config SGDConfig, backend B) *SGD[B] {
	return optim.NewSGD(params, config, backend)
}

// Adam is the Adam optimizer with bias correction.
type Adam[B nn.Backend] = optim.Adam[B]

// AdamConfig contains configuration for Adam.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer.
//
//	opt := optim.NewAdam(net.Parameters(), optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float32{0.9, 0.999},
//	    Eps:   1e-8,
//	}, backend)
func NewAdam[B nn.Backend](params []*nn.Parameter[B], config AdamConfig, backend B) *Adam[B] {
	return optim.NewAdam(params, config, backend)
}
