package nn

import (
	"fmt"
	"slices"
	"time"

	"golang.org/x/exp/rand"

	"github.com/born-ml/fcnet/internal/tensor"
)

// DefaultDropProbability is used when Config.DropProbability is zero.
const DefaultDropProbability = 0.5

// NoDropout requests a drop probability of exactly zero.
const NoDropout = -1.0

// Config describes a Network's architecture.
type Config struct {
	InputSize    int
	OutputSize   int
	HiddenLayers []int

	// DropProbability applies to every hidden layer.
	// Zero selects DefaultDropProbability; use NoDropout to disable dropout.
	DropProbability float64

	// Seed drives weight initialisation and dropout masks.
	// Zero seeds from the clock.
	Seed uint64
}

// Architecture is the shape-defining part of a Network, as stored in checkpoints.
type Architecture struct {
	InputSize       int
	OutputSize      int
	HiddenLayers    []int
	DropProbability float64
}

// Network is a fully connected classifier:
//
//	input -> [Linear -> ReLU -> Dropout] x len(hidden) -> Linear -> LogSoftmax
//
// The output rows are log-probabilities over OutputSize classes.
// A Network starts in training mode; call Eval before inference.
type Network[B Backend] struct {
	layers     []*Linear[B] // hidden layers followed by the output layer
	dropouts   []*Dropout[B]
	relu       *ReLU[B]
	logSoftmax *LogSoftmax[B]
	dropP      float64
	training   bool
	backend    B
}

// NewNetwork validates cfg and builds a freshly initialised network.
func NewNetwork[B Backend](backend B, cfg Config) (*Network[B], error) {
	dropP, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewSource(seed)

	widths := append(append([]int{cfg.InputSize}, cfg.HiddenLayers...), cfg.OutputSize)
	n := &Network[B]{
		layers:     make([]*Linear[B], 0, len(widths)-1),
		dropouts:   make([]*Dropout[B], 0, len(cfg.HiddenLayers)),
		relu:       NewReLU[B](),
		logSoftmax: NewLogSoftmax[B](),
		dropP:      dropP,
		training:   true,
		backend:    backend,
	}
	for i := 1; i < len(widths); i++ {
		n.layers = append(n.layers, NewLinear(widths[i-1], widths[i], src, backend))
	}
	for range cfg.HiddenLayers {
		n.dropouts = append(n.dropouts, NewDropout[B](dropP, src))
	}
	return n, nil
}

func (cfg Config) validate() (float64, error) {
	if cfg.InputSize <= 0 {
		return 0, &ConfigurationError{Field: "input_size", Value: cfg.InputSize, Reason: "must be positive"}
	}
	if cfg.OutputSize <= 0 {
		return 0, &ConfigurationError{Field: "output_size", Value: cfg.OutputSize, Reason: "must be positive"}
	}
	if len(cfg.HiddenLayers) == 0 {
		return 0, &ConfigurationError{Field: "hidden_layers", Value: cfg.HiddenLayers, Reason: "at least one hidden layer is required"}
	}
	for i, w := range cfg.HiddenLayers {
		if w <= 0 {
			return 0, &ConfigurationError{
				Field:  fmt.Sprintf("hidden_layers[%d]", i),
				Value:  w,
				Reason: "must be positive",
			}
		}
	}

	switch p := cfg.DropProbability; {
	case p == 0:
		return DefaultDropProbability, nil
	case p == NoDropout:
		return 0, nil
	case p > 0 && p < 1:
		return p, nil
	default:
		return 0, &ConfigurationError{Field: "drop_p", Value: p, Reason: "must be in [0, 1)"}
	}
}

// Forward maps a [batch, InputSize] input to [batch, OutputSize] log-probabilities.
func (n *Network[B]) Forward(input *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if s := input.Shape(); len(s) != 2 || s[1] != n.InputSize() {
		return nil, &ShapeMismatchError{
			Op:       "network forward",
			Expected: tensor.Shape{-1, n.InputSize()},
			Got:      s.Clone(),
		}
	}

	x := input
	last := len(n.layers) - 1
	for i, layer := range n.layers[:last] {
		x = n.relu.Forward(layer.Forward(x))
		x = n.dropouts[i].Forward(x)
	}
	return n.logSoftmax.Forward(n.layers[last].Forward(x)), nil
}

// Train puts the network in training mode (dropout active).
func (n *Network[B]) Train() {
	n.setTraining(true)
}

// Eval puts the network in evaluation mode (dropout disabled).
func (n *Network[B]) Eval() {
	n.setTraining(false)
}

func (n *Network[B]) setTraining(training bool) {
	n.training = training
	for _, d := range n.dropouts {
		d.SetTraining(training)
	}
}

// Training reports whether the network is in training mode.
func (n *Network[B]) Training() bool {
	return n.training
}

// Parameters returns every weight and bias in layer order.
func (n *Network[B]) Parameters() []*Parameter[B] {
	params := make([]*Parameter[B], 0, 2*len(n.layers))
	for _, l := range n.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// NumLayers returns the number of Linear layers, output layer included.
func (n *Network[B]) NumLayers() int {
	return len(n.layers)
}

// Layer returns the i-th Linear layer; the last index is the output layer.
func (n *Network[B]) Layer(i int) *Linear[B] {
	return n.layers[i]
}

// Backend returns the backend the network computes on.
func (n *Network[B]) Backend() B {
	return n.backend
}

// InputSize returns the number of input features.
func (n *Network[B]) InputSize() int {
	return n.layers[0].InFeatures()
}

// OutputSize returns the number of classes.
func (n *Network[B]) OutputSize() int {
	return n.layers[len(n.layers)-1].OutFeatures()
}

// HiddenLayers returns a fresh slice of hidden layer widths.
func (n *Network[B]) HiddenLayers() []int {
	widths := make([]int, 0, len(n.layers)-1)
	for _, l := range n.layers[:len(n.layers)-1] {
		widths = append(widths, l.OutFeatures())
	}
	return widths
}

// DropProbability returns the dropout probability of the hidden layers.
func (n *Network[B]) DropProbability() float64 {
	return n.dropP
}

// Architecture reads the architecture back from the live layers.
func (n *Network[B]) Architecture() Architecture {
	return Architecture{
		InputSize:       n.InputSize(),
		OutputSize:      n.OutputSize(),
		HiddenLayers:    n.HiddenLayers(),
		DropProbability: n.dropP,
	}
}

func layerPrefix(i int) string {
	return fmt.Sprintf("layers.%d.", i)
}

// StateDict returns every parameter keyed "layers.<i>.weight" / "layers.<i>.bias".
// The tensors alias the live parameters.
func (n *Network[B]) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor, 2*len(n.layers))
	for i, l := range n.layers {
		for name, raw := range l.StateDict() {
			state[layerPrefix(i)+name] = raw
		}
	}
	return state
}

// LoadStateDict copies state into the network's parameters.
//
// Every entry is validated before anything is copied, so a failed load
// leaves the network unchanged. A shape disagreement yields
// *ParameterShapeError; missing or unknown keys yield *CheckpointFormatError.
func (n *Network[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	expected := make(map[string]struct{}, 2*len(n.layers))
	for i, l := range n.layers {
		if err := l.checkState(layerPrefix(i), state); err != nil {
			return err
		}
		for _, p := range l.Parameters() {
			expected[layerPrefix(i)+p.Name()] = struct{}{}
		}
	}

	var unknown []string
	for key := range state {
		if _, ok := expected[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return &CheckpointFormatError{Field: unknown[0], Reason: fmt.Sprintf("unexpected parameter (%d unknown)", len(unknown))}
	}

	for i, l := range n.layers {
		l.copyState(layerPrefix(i), state)
	}
	return nil
}

// Predict runs an evaluation-mode forward pass and returns each row's most
// likely class with its probability. The previous mode is restored.
func (n *Network[B]) Predict(input *tensor.Tensor[float32, B]) ([]int, []float32, error) {
	was := n.training
	n.Eval()
	defer n.setTraining(was)

	logProbs, err := n.Forward(input)
	if err != nil {
		return nil, nil, err
	}
	classes := Argmax(logProbs)
	cols := logProbs.Shape()[1]
	data := logProbs.Data()
	probs := make([]float32, len(classes))
	for i, c := range classes {
		probs[i] = Softmax(data[i*cols : (i+1)*cols])[c]
	}
	return classes, probs, nil
}
