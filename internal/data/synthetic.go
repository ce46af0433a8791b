package data

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Separable generates n samples of a 2-class problem whose classes are
// Gaussian blobs centred at -2 and +2 on every feature with standard
// deviation 0.5, so a single hyperplane separates them. Labels alternate.
func Separable(n, features int, seed uint64) *Dataset {
	src := rand.NewSource(seed)
	blobs := [2]distuv.Normal{
		{Mu: -2, Sigma: 0.5, Src: src},
		{Mu: 2, Sigma: 0.5, Src: src},
	}
	ds := &Dataset{
		Images:   make([][]float32, n),
		Labels:   make([]int32, n),
		Features: features,
	}
	for i := range n {
		label := i % 2
		row := make([]float32, features)
		for j := range row {
			row[j] = float32(blobs[label].Rand())
		}
		ds.Images[i] = row
		ds.Labels[i] = int32(label)
	}
	return ds
}
