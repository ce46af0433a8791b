// Package train runs the epoch loop of a classifier: mini-batch gradient
// steps followed by a validation pass in evaluation mode.
package train

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/fcnet/internal/autodiff"
	"github.com/born-ml/fcnet/internal/nn"
	"github.com/born-ml/fcnet/internal/optim"
	"github.com/born-ml/fcnet/internal/tensor"
)

var (
	// ErrNoBatches is returned when a batch source yields nothing.
	ErrNoBatches = errors.New("train: batch source yielded no batches")

	// ErrNoValidation is returned by Run when no validation source is given.
	ErrNoValidation = errors.New("train: validation source is required")
)

// Backend is what training needs from a backend: the nn operations, a
// gradient tape and a way to suspend recording.
type Backend interface {
	nn.Backend
	Tape() *autodiff.GradientTape
	NoGrad(fn func())
}

// Model is a classifier producing [N, classes] log-probabilities.
// nn.Network implements it.
type Model[B nn.Backend] interface {
	Forward(input *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error)
	Train()
	Eval()
	Training() bool
	InputSize() int
}

// Criterion scores log-probabilities against labels. nn.NLLLoss implements it.
type Criterion[B nn.Backend] interface {
	Forward(logProbs *tensor.Tensor[float32, B], labels *tensor.Tensor[int32, B]) (*tensor.Tensor[float32, B], error)
}

// Config controls a training run.
type Config struct {
	Epochs int

	// EvalEvery evaluates after every EvalEvery optimizer steps.
	// Zero evaluates once per epoch, after the last batch.
	EvalEvery int

	// Logger receives one record per evaluation. Nil discards.
	Logger *slog.Logger
}

// Evaluation is the result of one validation pass.
type Evaluation struct {
	Epoch    int
	Step     int     // optimizer steps taken so far in the run
	Loss     float64 // mean validation loss
	Accuracy float64 // top-1 accuracy in [0, 1]
	Samples  int

	// TrainLoss is the mean training loss since the previous evaluation.
	TrainLoss float64
}

// EpochReport summarises one epoch.
type EpochReport struct {
	Epoch       int
	TrainLoss   float64 // batch-size-weighted mean over the epoch
	ValLoss     float64
	ValAccuracy float64
	Evaluations []Evaluation
}

// Trainer fits a Model with an optimizer.
type Trainer[B Backend] struct {
	model     Model[B]
	criterion Criterion[B]
	optimizer optim.Optimizer
	backend   B
	cfg       Config
	logger    *slog.Logger
	step      int
}

// NewTrainer returns a trainer. cfg.Epochs must be positive and
// cfg.EvalEvery non-negative.
func NewTrainer[B Backend](model Model[B], criterion Criterion[B], optimizer optim.Optimizer, backend B, cfg Config) (*Trainer[B], error) {
	if cfg.Epochs <= 0 {
		return nil, &nn.ConfigurationError{Field: "epochs", Value: cfg.Epochs, Reason: "must be positive"}
	}
	if cfg.EvalEvery < 0 {
		return nil, &nn.ConfigurationError{Field: "eval_every", Value: cfg.EvalEvery, Reason: "must not be negative"}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Trainer[B]{
		model:     model,
		criterion: criterion,
		optimizer: optimizer,
		backend:   backend,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Steps returns the number of optimizer steps taken.
func (t *Trainer[B]) Steps() int {
	return t.step
}

// Run trains for cfg.Epochs epochs and returns one report per completed
// epoch. ctx is checked between epochs only; an epoch in progress runs to
// completion.
func (t *Trainer[B]) Run(ctx context.Context, trainSrc, valSrc BatchSource[B]) ([]EpochReport, error) {
	if valSrc == nil {
		return nil, ErrNoValidation
	}
	reports := make([]EpochReport, 0, t.cfg.Epochs)
	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return reports, errors.Wrapf(err, "stopped before epoch %d", epoch)
		}
		report, err := t.runEpoch(epoch, trainSrc, valSrc)
		if err != nil {
			return reports, errors.Wrapf(err, "epoch %d", epoch)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (t *Trainer[B]) runEpoch(epoch int, trainSrc, valSrc BatchSource[B]) (EpochReport, error) {
	report := EpochReport{Epoch: epoch}
	t.model.Train()

	var losses, weights []float64
	var sinceEval, sinceWeights []float64
	evaluated := false

	for batch, err := range trainSrc.Batches() {
		if err != nil {
			return report, errors.Wrap(err, "read training batch")
		}
		loss, err := t.trainStep(batch)
		if err != nil {
			return report, errors.Wrapf(err, "step %d", t.step+1)
		}
		t.step++
		n := float64(batch.Labels.Shape()[0])
		losses = append(losses, loss)
		weights = append(weights, n)
		sinceEval = append(sinceEval, loss)
		sinceWeights = append(sinceWeights, n)
		evaluated = false

		if t.cfg.EvalEvery > 0 && t.step%t.cfg.EvalEvery == 0 {
			ev, err := t.evaluate(epoch, stat.Mean(sinceEval, sinceWeights), valSrc)
			if err != nil {
				return report, err
			}
			report.Evaluations = append(report.Evaluations, ev)
			sinceEval, sinceWeights = sinceEval[:0], sinceWeights[:0]
			evaluated = true
		}
	}
	if len(losses) == 0 {
		return report, ErrNoBatches
	}
	report.TrainLoss = stat.Mean(losses, weights)

	if !evaluated {
		ev, err := t.evaluate(epoch, stat.Mean(sinceEval, sinceWeights), valSrc)
		if err != nil {
			return report, err
		}
		report.Evaluations = append(report.Evaluations, ev)
	}
	last := report.Evaluations[len(report.Evaluations)-1]
	report.ValLoss = last.Loss
	report.ValAccuracy = last.Accuracy
	return report, nil
}

// trainStep runs forward, backward and one optimizer update on batch.
// The tape is left empty and stopped whatever happens.
func (t *Trainer[B]) trainStep(batch Batch[B]) (float64, error) {
	tape := t.backend.Tape()
	tape.Clear()
	tape.StartRecording()
	defer func() {
		tape.StopRecording()
		tape.Clear()
	}()

	x, err := Flatten(batch.Images, t.model.InputSize())
	if err != nil {
		return 0, err
	}
	out, err := t.model.Forward(x)
	if err != nil {
		return 0, err
	}
	loss, err := t.criterion.Forward(out, batch.Labels)
	if err != nil {
		return 0, err
	}
	value := float64(loss.Data()[0])

	grads := autodiff.Backward(loss, t.backend)
	t.optimizer.Step(grads)
	t.optimizer.ZeroGrad()
	return value, nil
}

func (t *Trainer[B]) evaluate(epoch int, trainLoss float64, valSrc BatchSource[B]) (Evaluation, error) {
	ev, err := Evaluate(t.model, t.criterion, t.backend, valSrc)
	if err != nil {
		return ev, errors.Wrap(err, "validation")
	}
	ev.Epoch = epoch
	ev.Step = t.step
	ev.TrainLoss = trainLoss
	t.logger.Info("evaluation",
		slog.Int("epoch", epoch),
		slog.Int("step", t.step),
		slog.Float64("train_loss", trainLoss),
		slog.Float64("val_loss", ev.Loss),
		slog.Float64("val_accuracy", ev.Accuracy),
	)
	return ev, nil
}

// Evaluate computes the mean loss and top-1 accuracy of model over src in
// evaluation mode with gradient recording suspended. The model's previous
// mode is restored on return.
func Evaluate[B Backend](model Model[B], criterion Criterion[B], backend B, src BatchSource[B]) (Evaluation, error) {
	if model.Training() {
		model.Eval()
		defer model.Train()
	}

	var losses, sizes, correct []float64
	var err error
	backend.NoGrad(func() {
		for batch, berr := range src.Batches() {
			if berr != nil {
				err = errors.Wrap(berr, "read batch")
				return
			}
			var x, out, loss *tensor.Tensor[float32, B]
			if x, err = Flatten(batch.Images, model.InputSize()); err != nil {
				return
			}
			if out, err = model.Forward(x); err != nil {
				return
			}
			if loss, err = criterion.Forward(out, batch.Labels); err != nil {
				return
			}
			losses = append(losses, float64(loss.Data()[0]))
			sizes = append(sizes, float64(batch.Labels.Shape()[0]))
			correct = append(correct, float64(nn.CountCorrect(out, batch.Labels)))
		}
	})
	if err != nil {
		return Evaluation{}, err
	}
	if len(losses) == 0 {
		return Evaluation{}, ErrNoBatches
	}
	total := floats.Sum(sizes)
	return Evaluation{
		Loss:     stat.Mean(losses, sizes),
		Accuracy: floats.Sum(correct) / total,
		Samples:  int(total),
	}, nil
}
