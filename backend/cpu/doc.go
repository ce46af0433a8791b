// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// The backend implements the operations a fully connected classifier needs:
//   - Element-wise arithmetic with NumPy-style broadcasting
//   - Matrix multiplication through gonum's SGEMM
//   - ReLU, row-wise LogSoftmax and NLL loss kernels
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/fcnet/backend/cpu"
//	    "github.com/born-ml/fcnet/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    net, err := nn.NewNetwork(backend, nn.Config{
//	        InputSize:    784,
//	        OutputSize:   10,
//	        HiddenLayers: []int{128, 64},
//	    })
//	}
//
// # Thread Safety
//
// Operations allocate their results and never mutate inputs, so a backend
// may be shared between goroutines. Large kernels fan out over a bounded
// worker pool.
package cpu
