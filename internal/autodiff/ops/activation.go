package ops

import (
	"github.com/chewxy/math32"

	"github.com/born-ml/fcnet/internal/tensor"
)

// ReLUOp represents output = max(0, x); the gradient passes where x > 0.
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward masks the gradient by input > 0.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := float32Like(op.input)
	dst, g := grad.AsFloat32(), outputGrad.AsFloat32()
	for i, x := range op.input.AsFloat32() {
		if x > 0 {
			dst[i] = g[i]
		}
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns [x].
func (op *ReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns max(0, x).
func (op *ReLUOp) Output() *tensor.RawTensor { return op.output }

// LogSoftmaxOp represents row-wise y = x - logsumexp(x).
//
// Backward pass: dx = g - softmax(x) * sum(g), per row, where softmax(x) = exp(y).
type LogSoftmaxOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewLogSoftmaxOp creates a new LogSoftmaxOp.
func NewLogSoftmaxOp(input, output *tensor.RawTensor) *LogSoftmaxOp {
	return &LogSoftmaxOp{input: input, output: output}
}

// Backward computes the input gradient from the stored log-probabilities.
func (op *LogSoftmaxOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	rows, cols := rows2D("log_softmax backward", op.output)
	grad := float32Like(op.input)
	dst, g, y := grad.AsFloat32(), outputGrad.AsFloat32(), op.output.AsFloat32()

	for r := range rows {
		row := r * cols
		var sum float32
		for c := range cols {
			sum += g[row+c]
		}
		for c := range cols {
			dst[row+c] = g[row+c] - math32.Exp(y[row+c])*sum
		}
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns [x].
func (op *LogSoftmaxOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the log-probabilities.
func (op *LogSoftmaxOp) Output() *tensor.RawTensor { return op.output }

// NLLLossOp represents loss = -mean(logProbs[i, target[i]]).
//
// Backward pass: d loss / d logProbs[i, target[i]] = -1/N, zero elsewhere.
// Targets are integer labels and take no gradient.
type NLLLossOp struct {
	logProbs *tensor.RawTensor
	targets  *tensor.RawTensor
	output   *tensor.RawTensor
}

// NewNLLLossOp creates a new NLLLossOp.
func NewNLLLossOp(logProbs, targets, output *tensor.RawTensor) *NLLLossOp {
	return &NLLLossOp{logProbs: logProbs, targets: targets, output: output}
}

// Backward scatters -g/N onto each row's target column.
func (op *NLLLossOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	n, c := rows2D("nll_loss backward", op.logProbs)
	grad := float32Like(op.logProbs)
	dst := grad.AsFloat32()
	scale := -outputGrad.AsFloat32()[0] / float32(n)
	for i, label := range op.targets.AsInt32() {
		dst[i*c+int(label)] = scale
	}
	return []*tensor.RawTensor{grad, nil}
}

// Inputs returns [logProbs, targets].
func (op *NLLLossOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logProbs, op.targets}
}

// Output returns the scalar loss.
func (op *NLLLossOp) Output() *tensor.RawTensor { return op.output }
