// Package optim implements the optimizers fcnet trains with.
//
// This package provides:
//   - Optimizer: the interface the trainer drives
//   - SGD: stochastic gradient descent with optional momentum
//   - Adam: adaptive moment estimation with bias correction
//
// Optimizers consume the gradient map returned by autodiff.Backward and
// update parameter storage in place, so tensors held by the network keep
// their identity across steps.
//
//	opt := optim.NewAdam(net.Parameters(), optim.AdamConfig{LR: 1e-3}, backend)
//	grads := autodiff.Backward(loss, backend)
//	opt.Step(grads)
//	opt.ZeroGrad()
package optim

import (
	"fmt"

	"github.com/born-ml/fcnet/internal/nn"
	"github.com/born-ml/fcnet/internal/tensor"
)

// Optimizer updates model parameters from computed gradients.
type Optimizer interface {
	// Step applies one update to every parameter that has a gradient in grads.
	// Parameters absent from the map did not take part in the forward pass
	// and are left untouched.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears the gradients recorded on the parameters by Step.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float32 // Learning rate
}

// gradientFor looks up the gradient of param and records it on the parameter.
// Returns nil if param was not part of the computation graph.
func gradientFor[B nn.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor, backend B) []float32 {
	if param == nil {
		return nil
	}
	grad, ok := grads[param.Tensor().Raw()]
	if !ok || grad == nil {
		return nil
	}
	if !grad.Shape().Equal(param.Tensor().Shape()) {
		panic(fmt.Sprintf("optim: gradient shape %v does not match parameter %s %v",
			grad.Shape(), param.Name(), param.Tensor().Shape()))
	}
	param.SetGrad(tensor.New[float32, B](grad, backend))
	return grad.AsFloat32()
}

func zeroGrads[B nn.Backend](params []*nn.Parameter[B]) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
