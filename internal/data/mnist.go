package data

import (
	"github.com/petar/GoMNIST"
	"github.com/pkg/errors"
)

// MNISTFeatures is the flattened size of a 28x28 MNIST image.
const MNISTFeatures = 28 * 28

// MNISTClasses is the number of digit classes.
const MNISTClasses = 10

// LoadMNIST reads the official gzip IDX files from dir:
//
//	train-images-idx3-ubyte.gz  train-labels-idx1-ubyte.gz
//	t10k-images-idx3-ubyte.gz   t10k-labels-idx1-ubyte.gz
//
// Pixels are scaled to [0, 1].
func LoadMNIST(dir string) (trainSet, testSet *Dataset, err error) {
	tr, te, err := GoMNIST.Load(dir)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "load mnist from %s", dir)
	}
	if trainSet, err = fromMNIST(tr); err != nil {
		return nil, nil, errors.Wrap(err, "mnist train set")
	}
	if testSet, err = fromMNIST(te); err != nil {
		return nil, nil, errors.Wrap(err, "mnist test set")
	}
	return trainSet, testSet, nil
}

func fromMNIST(set *GoMNIST.Set) (*Dataset, error) {
	features := set.NRow * set.NCol
	n := set.Count()
	ds := &Dataset{
		Images:   make([][]float32, n),
		Labels:   make([]int32, n),
		Features: features,
	}
	for i := range n {
		img, label := set.Get(i)
		row := make([]float32, features)
		for j, px := range img {
			row[j] = float32(px) / 255
		}
		ds.Images[i] = row
		ds.Labels[i] = int32(label)
	}
	return ds, ds.Validate()
}
