package main

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/born-ml/fcnet/internal/data"
)

// syntheticSamples is the size of the generated dataset used with -synthetic.
const syntheticSamples = 1000

type datasetFlags struct {
	dir       string
	synthetic bool
	samples   int
	seed      uint64
}

// trainingData returns train and validation sets and the number of classes.
// MNIST training images are split 90/10; the synthetic set 80/20.
func trainingData(f datasetFlags, features int, logger *slog.Logger) (*data.Dataset, *data.Dataset, int, error) {
	if f.synthetic {
		ds := data.Separable(syntheticSamples, features, f.seed)
		tr, val, err := ds.Take(f.samples).Split(0.8)
		if err != nil {
			return nil, nil, 0, err
		}
		logger.Info("generated synthetic dataset", "train", tr.NumSamples(), "val", val.NumSamples(), "features", features)
		return tr, val, 2, nil
	}

	all, _, err := data.LoadMNIST(f.dir)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "use -synthetic to train without MNIST files")
	}
	tr, val, err := all.Take(f.samples).Split(0.9)
	if err != nil {
		return nil, nil, 0, err
	}
	logger.Info("loaded mnist", "dir", f.dir, "train", tr.NumSamples(), "val", val.NumSamples())
	return tr, val, data.MNISTClasses, nil
}

// evaluationData returns the set a checkpoint is scored on: the MNIST test
// set or a freshly generated synthetic set with the network's input width.
func evaluationData(f datasetFlags, features int) (*data.Dataset, error) {
	if f.synthetic {
		return data.Separable(syntheticSamples, features, f.seed).Take(f.samples), nil
	}
	_, test, err := data.LoadMNIST(f.dir)
	if err != nil {
		return nil, err
	}
	return test.Take(f.samples), nil
}
