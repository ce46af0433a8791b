package nn

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/born-ml/fcnet/internal/tensor"
)

// Linear implements a fully connected layer: y = x @ W.T + b, with
// W of shape [out, in] and b of shape [out].
//
//	layer := nn.NewLinear(784, 128, src, backend)
//	y := layer.Forward(x) // [batch, 784] -> [batch, 128]
type Linear[B Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B]
	bias        *Parameter[B]
}

// NewLinear creates a Linear layer with Kaiming-uniform weights and uniform
// biases drawn from src.
func NewLinear[B Backend](inFeatures, outFeatures int, src rand.Source, backend B) *Linear[B] {
	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", KaimingUniform(inFeatures, outFeatures, src, backend)),
		bias:        NewParameter("bias", BiasUniform(inFeatures, outFeatures, src, backend)),
	}
}

// Forward computes x @ W.T + b for a [batch, in] input.
// Panics on a feature mismatch; Network validates inputs before they get here.
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	s := input.Shape()
	if len(s) != 2 || s[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected [batch, %d] input, got %v", l.inFeatures, s))
	}
	out := input.MatMul(l.weight.Tensor().T())
	return out.Add(l.bias.Tensor().Reshape(1, l.outFeatures))
}

// Parameters returns [weight, bias].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns the parameters under the keys "weight" and "bias".
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": l.weight.Tensor().Raw(),
		"bias":   l.bias.Tensor().Raw(),
	}
}

// LoadStateDict replaces the parameters with the entries of stateDict.
// Nothing is copied unless both entries are present and well-formed.
func (l *Linear[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if err := l.checkState("", stateDict); err != nil {
		return err
	}
	l.copyState("", stateDict)
	return nil
}

func (l *Linear[B]) checkState(prefix string, state map[string]*tensor.RawTensor) error {
	for _, p := range l.Parameters() {
		key := prefix + p.Name()
		raw, ok := state[key]
		if !ok {
			return &CheckpointFormatError{Field: key, Reason: "missing parameter"}
		}
		if want := p.Tensor().Shape(); !raw.Shape().Equal(want) {
			return &ParameterShapeError{Name: key, Expected: want.Clone(), Got: raw.Shape().Clone()}
		}
		if raw.DType() != tensor.Float32 {
			return &CheckpointFormatError{Field: key, Reason: fmt.Sprintf("dtype %s, expected float32", raw.DType())}
		}
	}
	return nil
}

func (l *Linear[B]) copyState(prefix string, state map[string]*tensor.RawTensor) {
	for _, p := range l.Parameters() {
		copy(p.Tensor().Data(), state[prefix+p.Name()].AsFloat32())
	}
}
