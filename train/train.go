// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train runs the epoch loop for fcnet classifiers.
//
// Each epoch takes one optimizer step per training batch and then scores
// the validation set with the model in evaluation mode and gradient
// recording off:
//
//	backend := autodiff.New(cpu.New())
//	trainer, err := train.NewTrainer[*autodiff.Backend[*cpu.Backend]](
//	    net, nn.NewNLLLoss[*autodiff.Backend[*cpu.Backend]](), opt, backend,
//	    train.Config{Epochs: 10, Logger: slog.Default()},
//	)
//	reports, err := trainer.Run(ctx, trainBatches, valBatches)
package train

import (
	"github.com/born-ml/fcnet/internal/train"
	"github.com/born-ml/fcnet/optim"
	"github.com/born-ml/fcnet/tensor"
)

// Backend is what training needs from a backend.
type Backend = train.Backend

// Batch is one mini-batch of inputs and labels.
type Batch[B tensor.Backend] = train.Batch[B]

// BatchSource yields the batches of one pass over a dataset.
type BatchSource[B tensor.Backend] = train.BatchSource[B]

// Model is a classifier producing log-probabilities.
type Model[B Backend] = train.Model[B]

// Criterion scores log-probabilities against labels.
type Criterion[B Backend] = train.Criterion[B]

// Config controls a training run.
type Config = train.Config

// Trainer fits a Model with an optimizer.
type Trainer[B Backend] = train.Trainer[B]

// EpochReport summarises one epoch.
type EpochReport = train.EpochReport

// Evaluation is the result of one validation pass.
type Evaluation = train.Evaluation

// Sentinel errors.
var (
	ErrNoBatches    = train.ErrNoBatches
	ErrNoValidation = train.ErrNoValidation
)

// NewTrainer returns a trainer for model.
func NewTrainer[B Backend](model Model[B], criterion Criterion[B], optimizer optim.Optimizer, backend B, cfg Config) (*Trainer[B], error) {
	return train.NewTrainer(model, criterion, optimizer, backend, cfg)
}

// Evaluate computes mean loss and top-1 accuracy of model over src.
func Evaluate[B Backend](model Model[B], criterion Criterion[B], backend B, src BatchSource[B]) (Evaluation, error) {
	return train.Evaluate(model, criterion, backend, src)
}

// Flatten reshapes (N, C, H, W) images to (N, features).
func Flatten[B tensor.Backend](images *tensor.Tensor[float32, B], features int) (*tensor.Tensor[float32, B], error) {
	return train.Flatten(images, features)
}
