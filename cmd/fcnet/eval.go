package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/born-ml/fcnet/internal/autodiff"
	"github.com/born-ml/fcnet/internal/backend/cpu"
	"github.com/born-ml/fcnet/internal/data"
	"github.com/born-ml/fcnet/internal/nn"
	"github.com/born-ml/fcnet/internal/train"
)

func runEval(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	checkpoint := fs.String("checkpoint", envString("FCNET_CHECKPOINT", "checkpoint.born"), "checkpoint path")
	dataDir := fs.String("data", envString("FCNET_DATA", "./data"), "directory with the MNIST gzip IDX files")
	synthetic := fs.Bool("synthetic", envBool("FCNET_SYNTHETIC", false), "evaluate on a generated 2-class dataset")
	samples := fs.Int("samples", envInt("FCNET_SAMPLES", 0), "max samples to use (0 = all)")
	batch := fs.Int("batch", 256, "batch size")
	seed := fs.Uint64("seed", 7, "seed of the synthetic dataset")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	logger := newLogger(stderr, *verbose)

	b := autodiff.New(cpu.New())
	net, err := nn.LoadNetwork(*checkpoint, b)
	if err != nil {
		return err
	}
	logger.Debug("loaded checkpoint", "path", *checkpoint,
		"input_size", net.InputSize(), "output_size", net.OutputSize(), "hidden", net.HiddenLayers())

	ds, err := evaluationData(datasetFlags{dir: *dataDir, synthetic: *synthetic, samples: *samples, seed: *seed}, net.InputSize())
	if err != nil {
		return err
	}
	if ds.Features != net.InputSize() {
		return errors.Errorf("dataset has %d features, network expects %d", ds.Features, net.InputSize())
	}
	src, err := data.NewSliceSource(ds, data.SourceConfig{BatchSize: *batch}, b)
	if err != nil {
		return err
	}

	ev, err := train.Evaluate[backend](net, nn.NewNLLLoss[backend](), b, src)
	if err != nil {
		return errors.Wrap(err, "evaluate")
	}
	fmt.Fprintf(stdout, "samples=%d  loss=%.4f  accuracy=%.2f%%\n", ev.Samples, ev.Loss, ev.Accuracy*100)
	return nil
}
