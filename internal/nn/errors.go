package nn

import (
	"errors"
	"fmt"

	"github.com/born-ml/fcnet/internal/tensor"
)

// ErrLabelOutOfRange is returned by NLLLoss for labels outside [0, classes).
var ErrLabelOutOfRange = errors.New("label out of range")

// ConfigurationError reports an invalid architecture or training argument.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// ShapeMismatchError reports an input whose shape the receiver cannot accept.
// A -1 in Expected matches any size.
type ShapeMismatchError struct {
	Op       string
	Expected tensor.Shape
	Got      tensor.Shape
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: shape mismatch: expected %s, got %v", e.Op, formatShape(e.Expected), e.Got)
}

// CheckpointFormatError reports a checkpoint that is missing a required
// entry or cannot be decoded.
type CheckpointFormatError struct {
	Path   string
	Field  string
	Reason string
	Err    error
}

func (e *CheckpointFormatError) Error() string {
	msg := "malformed checkpoint"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CheckpointFormatError) Unwrap() error {
	return e.Err
}

// ParameterShapeError reports a stored parameter whose shape disagrees with
// the network it is loaded into.
type ParameterShapeError struct {
	Name     string
	Expected tensor.Shape
	Got      tensor.Shape
}

func (e *ParameterShapeError) Error() string {
	return fmt.Sprintf("parameter %s: expected shape %v, got %v", e.Name, e.Expected, e.Got)
}

func formatShape(s tensor.Shape) string {
	out := "["
	for i, d := range s {
		if i > 0 {
			out += " "
		}
		if d < 0 {
			out += "*"
		} else {
			out += fmt.Sprint(d)
		}
	}
	return out + "]"
}
