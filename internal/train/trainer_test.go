package train_test

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/fcnet/internal/autodiff"
	"github.com/born-ml/fcnet/internal/backend/cpu"
	"github.com/born-ml/fcnet/internal/data"
	"github.com/born-ml/fcnet/internal/nn"
	"github.com/born-ml/fcnet/internal/optim"
	"github.com/born-ml/fcnet/internal/tensor"
	"github.com/born-ml/fcnet/internal/train"
)

type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

type fixture struct {
	backend Backend
	net     *nn.Network[Backend]
	loss    *nn.NLLLoss[Backend]
	opt     optim.Optimizer
	trainDS *data.Dataset
	valDS   *data.Dataset
}

// separableFixture builds the 200-sample, 2-class problem with a single
// hidden layer of 8 units.
func separableFixture(t *testing.T, lr float32) *fixture {
	t.Helper()
	backend := autodiff.New(cpu.New())
	net, err := nn.NewNetwork(backend, nn.Config{
		InputSize:       2,
		OutputSize:      2,
		HiddenLayers:    []int{8},
		DropProbability: nn.NoDropout,
		Seed:            42,
	})
	require.NoError(t, err)
	return &fixture{
		backend: backend,
		net:     net,
		loss:    nn.NewNLLLoss[Backend](),
		opt:     optim.NewAdam(net.Parameters(), optim.AdamConfig{LR: lr}, backend),
		trainDS: data.Separable(200, 2, 1),
		valDS:   data.Separable(100, 2, 2),
	}
}

func (f *fixture) source(t *testing.T, ds *data.Dataset, batch int) *data.SliceSource[Backend] {
	t.Helper()
	src, err := data.NewSliceSource(ds, data.SourceConfig{BatchSize: batch, Shuffle: true, Seed: 5}, f.backend)
	require.NoError(t, err)
	return src
}

func (f *fixture) trainer(t *testing.T, cfg train.Config) *train.Trainer[Backend] {
	t.Helper()
	tr, err := train.NewTrainer[Backend](f.net, f.loss, f.opt, f.backend, cfg)
	require.NoError(t, err)
	return tr
}

func TestNewTrainer_InvalidConfig(t *testing.T) {
	f := separableFixture(t, 0.01)

	for _, cfg := range []train.Config{{Epochs: 0}, {Epochs: -1}, {Epochs: 1, EvalEvery: -2}} {
		_, err := train.NewTrainer[Backend](f.net, f.loss, f.opt, f.backend, cfg)
		var cerr *nn.ConfigurationError
		assert.ErrorAs(t, err, &cerr, "%+v", cfg)
	}
}

func TestRun_LossFallsAfterOneEpoch(t *testing.T) {
	f := separableFixture(t, 0.05)
	trainSrc := f.source(t, f.trainDS, 20)
	valSrc := f.source(t, f.valDS, 50)

	before, err := train.Evaluate[Backend](f.net, f.loss, f.backend, trainSrc)
	require.NoError(t, err)
	require.Equal(t, 200, before.Samples)

	reports, err := f.trainer(t, train.Config{Epochs: 1}).Run(context.Background(), trainSrc, valSrc)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].Epoch)
	assert.Greater(t, reports[0].TrainLoss, 0.0)

	after, err := train.Evaluate[Backend](f.net, f.loss, f.backend, trainSrc)
	require.NoError(t, err)
	assert.Less(t, after.Loss, before.Loss)
}

func TestRun_LearnsSeparableProblem(t *testing.T) {
	f := separableFixture(t, 0.05)

	reports, err := f.trainer(t, train.Config{Epochs: 5}).Run(
		context.Background(), f.source(t, f.trainDS, 20), f.source(t, f.valDS, 50))
	require.NoError(t, err)
	require.Len(t, reports, 5)

	last := reports[len(reports)-1]
	assert.GreaterOrEqual(t, last.ValAccuracy, 0.95)
	assert.Less(t, last.ValLoss, reports[0].ValLoss)
}

func TestRun_RestoresTrainingModeAndTape(t *testing.T) {
	f := separableFixture(t, 0.01)

	_, err := f.trainer(t, train.Config{Epochs: 1}).Run(
		context.Background(), f.source(t, f.trainDS, 20), f.source(t, f.valDS, 50))
	require.NoError(t, err)

	assert.True(t, f.net.Training())
	assert.False(t, f.backend.Tape().IsRecording())
	assert.Zero(t, f.backend.Tape().NumOps())
	for _, p := range f.net.Parameters() {
		assert.Nil(t, p.Grad(), p.Name())
	}
}

func TestRun_EvalEvery(t *testing.T) {
	f := separableFixture(t, 0.01)
	tr := f.trainer(t, train.Config{Epochs: 2, EvalEvery: 4})

	// 10 steps per epoch: evaluations at steps 4, 8, end of epoch (10),
	// then 12, 16, 20 where the last one closes the epoch.
	reports, err := tr.Run(context.Background(), f.source(t, f.trainDS, 20), f.source(t, f.valDS, 50))
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, 20, tr.Steps())

	var steps []int
	for _, r := range reports {
		for _, ev := range r.Evaluations {
			steps = append(steps, ev.Step)
			assert.Equal(t, r.Epoch, ev.Epoch)
			assert.Equal(t, 100, ev.Samples)
		}
		last := r.Evaluations[len(r.Evaluations)-1]
		assert.Equal(t, last.Loss, r.ValLoss)
		assert.Equal(t, last.Accuracy, r.ValAccuracy)
	}
	assert.Equal(t, []int{4, 8, 10, 12, 16, 20}, steps)
}

// cancelAfterPass cancels ctx once a full pass has been consumed.
type cancelAfterPass struct {
	inner  train.BatchSource[Backend]
	cancel context.CancelFunc
}

func (c *cancelAfterPass) Batches() iter.Seq2[train.Batch[Backend], error] {
	return func(yield func(train.Batch[Backend], error) bool) {
		for b, err := range c.inner.Batches() {
			if !yield(b, err) {
				return
			}
		}
		c.cancel()
	}
}

func TestRun_CancellationBetweenEpochs(t *testing.T) {
	f := separableFixture(t, 0.01)
	valSrc := f.source(t, f.valDS, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reports, err := f.trainer(t, train.Config{Epochs: 3}).Run(ctx, f.source(t, f.trainDS, 20), valSrc)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reports)

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	src := &cancelAfterPass{inner: f.source(t, f.trainDS, 20), cancel: cancel}
	reports, err = f.trainer(t, train.Config{Epochs: 3}).Run(ctx, src, valSrc)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, reports, 1, "the running epoch completes")
}

func TestRun_Errors(t *testing.T) {
	f := separableFixture(t, 0.01)
	valSrc := f.source(t, f.valDS, 50)

	t.Run("no validation source", func(t *testing.T) {
		_, err := f.trainer(t, train.Config{Epochs: 1}).Run(context.Background(), f.source(t, f.trainDS, 20), nil)
		assert.ErrorIs(t, err, train.ErrNoValidation)
	})

	t.Run("label out of range", func(t *testing.T) {
		bad := &data.Dataset{
			Images:   [][]float32{{1, 1}, {-1, -1}},
			Labels:   []int32{0, 7},
			Features: 2,
		}
		_, err := f.trainer(t, train.Config{Epochs: 1}).Run(context.Background(), f.source(t, bad, 2), valSrc)
		assert.ErrorIs(t, err, nn.ErrLabelOutOfRange)
		assert.False(t, f.backend.Tape().IsRecording())
		assert.Zero(t, f.backend.Tape().NumOps())
	})

	t.Run("source error", func(t *testing.T) {
		boom := errors.New("disk on fire")
		src := failingSource{err: boom}
		_, err := f.trainer(t, train.Config{Epochs: 1}).Run(context.Background(), src, valSrc)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := f.trainer(t, train.Config{Epochs: 1}).Run(context.Background(), failingSource{}, valSrc)
		assert.ErrorIs(t, err, train.ErrNoBatches)
	})
}

type failingSource struct{ err error }

func (s failingSource) Batches() iter.Seq2[train.Batch[Backend], error] {
	return func(yield func(train.Batch[Backend], error) bool) {
		if s.err != nil {
			yield(train.Batch[Backend]{}, s.err)
		}
	}
}

func TestEvaluate_KeepsModeAndRecordsNothing(t *testing.T) {
	f := separableFixture(t, 0.01)
	valSrc := f.source(t, f.valDS, 30)

	f.net.Eval()
	f.backend.Tape().StartRecording()
	ev, err := train.Evaluate[Backend](f.net, f.loss, f.backend, valSrc)
	require.NoError(t, err)

	assert.False(t, f.net.Training())
	assert.True(t, f.backend.Tape().IsRecording())
	assert.Zero(t, f.backend.Tape().NumOps())
	assert.Equal(t, 100, ev.Samples)
	assert.GreaterOrEqual(t, ev.Accuracy, 0.0)
	assert.LessOrEqual(t, ev.Accuracy, 1.0)
}

func TestRun_LogsEvaluations(t *testing.T) {
	f := separableFixture(t, 0.01)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	_, err := f.trainer(t, train.Config{Epochs: 1, Logger: logger}).Run(
		context.Background(), f.source(t, f.trainDS, 20), f.source(t, f.valDS, 50))
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "evaluation", rec["msg"])
	assert.EqualValues(t, 1, rec["epoch"])
	assert.EqualValues(t, 10, rec["step"])
	assert.Contains(t, rec, "val_accuracy")
	assert.Contains(t, rec, "train_loss")
}

func TestFlatten(t *testing.T) {
	backend := cpu.New()

	images := tensor.Zeros[float32](tensor.Shape{2, 1, 2, 3}, backend)
	flat, err := train.Flatten(images, 6)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 6}, flat.Shape())

	already := tensor.Zeros[float32](tensor.Shape{2, 6}, backend)
	same, err := train.Flatten(already, 6)
	require.NoError(t, err)
	assert.Same(t, already, same)

	_, err = train.Flatten(images, 5)
	var shapeErr *nn.ShapeMismatchError
	assert.ErrorAs(t, err, &shapeErr)

	_, err = train.Flatten(tensor.Zeros[float32](tensor.Shape{6}, backend), 6)
	assert.ErrorAs(t, err, &shapeErr)
}
