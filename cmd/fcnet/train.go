package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/fcnet/internal/autodiff"
	"github.com/born-ml/fcnet/internal/backend/cpu"
	"github.com/born-ml/fcnet/internal/data"
	"github.com/born-ml/fcnet/internal/nn"
	"github.com/born-ml/fcnet/internal/optim"
	"github.com/born-ml/fcnet/internal/train"
)

type backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func runTrain(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataDir := fs.String("data", envString("FCNET_DATA", "./data"), "directory with the MNIST gzip IDX files")
	synthetic := fs.Bool("synthetic", envBool("FCNET_SYNTHETIC", false), "train on a generated 2-class dataset")
	features := fs.Int("features", 2, "input features of the synthetic dataset")
	samples := fs.Int("samples", envInt("FCNET_SAMPLES", 0), "max samples to use (0 = all)")
	hidden := fs.String("hidden", envString("FCNET_HIDDEN", "512,256,128"), "comma-separated hidden layer widths")
	drop := fs.Float64("drop", envFloat("FCNET_DROP", nn.DefaultDropProbability), "dropout probability for hidden layers")
	epochs := fs.Int("epochs", envInt("FCNET_EPOCHS", 5), "number of epochs")
	batch := fs.Int("batch", envInt("FCNET_BATCH", 64), "batch size")
	lr := fs.Float64("lr", envFloat("FCNET_LR", 0.001), "learning rate")
	optName := fs.String("optimizer", envString("FCNET_OPTIMIZER", "adam"), "optimizer: adam or sgd")
	momentum := fs.Float64("momentum", envFloat("FCNET_MOMENTUM", 0.9), "SGD momentum")
	evalEvery := fs.Int("eval-every", envInt("FCNET_EVAL_EVERY", 0), "evaluate every N steps (0 = once per epoch)")
	seed := fs.Uint64("seed", uint64(envInt("FCNET_SEED", 0)), "random seed (0 = time based)")
	out := fs.String("out", envString("FCNET_CHECKPOINT", "checkpoint.born"), "checkpoint path")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	logger := newLogger(stderr, *verbose)

	widths, err := parseHidden(*hidden)
	if err != nil {
		return err
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	trainDS, valDS, classes, err := trainingData(datasetFlags{
		dir: *dataDir, synthetic: *synthetic, samples: *samples, seed: *seed,
	}, *features, logger)
	if err != nil {
		return err
	}

	b := autodiff.New(cpu.New())
	dropP := *drop
	if dropP == 0 {
		dropP = nn.NoDropout
	}
	net, err := nn.NewNetwork(b, nn.Config{
		InputSize:       trainDS.Features,
		OutputSize:      classes,
		HiddenLayers:    widths,
		DropProbability: dropP,
		Seed:            *seed,
	})
	if err != nil {
		return err
	}

	var opt optim.Optimizer
	switch *optName {
	case "adam":
		opt = optim.NewAdam(net.Parameters(), optim.AdamConfig{LR: float32(*lr)}, b)
	case "sgd":
		opt = optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: float32(*lr), Momentum: float32(*momentum)}, b)
	default:
		return errors.Errorf("unknown optimizer %q", *optName)
	}

	trainSrc, err := data.NewSliceSource(trainDS, data.SourceConfig{BatchSize: *batch, Shuffle: true, Seed: *seed}, b)
	if err != nil {
		return err
	}
	valSrc, err := data.NewSliceSource(valDS, data.SourceConfig{BatchSize: max(*batch, 256)}, b)
	if err != nil {
		return err
	}

	trainer, err := train.NewTrainer[backend](net, nn.NewNLLLoss[backend](), opt, b, train.Config{
		Epochs:    *epochs,
		EvalEvery: *evalEvery,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	logger.Debug("training",
		"hidden", widths, "drop_p", net.DropProbability(), "optimizer", *optName,
		"lr", *lr, "batches", trainSrc.NumBatches(), "seed", *seed)
	reports, err := trainer.Run(ctx, trainSrc, valSrc)
	for _, r := range reports {
		fmt.Fprintf(stdout, "epoch %d/%d  train_loss=%.4f  val_loss=%.4f  val_acc=%.2f%%\n",
			r.Epoch, *epochs, r.TrainLoss, r.ValLoss, r.ValAccuracy*100)
	}
	if err != nil {
		return err
	}

	last := reports[len(reports)-1]
	meta := map[string]string{
		"epochs":       strconv.Itoa(len(reports)),
		"optimizer":    *optName,
		"lr":           strconv.FormatFloat(*lr, 'g', -1, 64),
		"val_loss":     strconv.FormatFloat(last.ValLoss, 'f', 6, 64),
		"val_accuracy": strconv.FormatFloat(last.ValAccuracy, 'f', 6, 64),
	}
	if err := nn.SaveNetworkWithMetadata(net, *out, meta); err != nil {
		return err
	}
	logger.Info("saved checkpoint", "path", *out)
	return nil
}
