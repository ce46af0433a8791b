package serialization

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/born-ml/fcnet/internal/tensor"
)

// Validation limits.
const (
	MaxHeaderSize    = 100 * 1024 * 1024
	MaxTensorCount   = 100_000
	MaxTensorNameLen = 4096
)

// ValidateTensorName rejects names that are empty, oversized or contain
// path separators, parent references or NUL bytes.
func ValidateTensorName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Type: "invalid_name", Details: "empty name", Err: ErrInvalidTensorName}
	case len(name) > MaxTensorNameLen:
		return &ValidationError{
			Type:    "name_too_long",
			Tensor:  name[:64],
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
			Err:     ErrInvalidTensorName,
		}
	case strings.Contains(name, ".."),
		strings.ContainsAny(name, "/\\\x00"):
		return &ValidationError{Type: "invalid_name", Tensor: name, Details: "illegal character sequence", Err: ErrInvalidTensorName}
	}
	return nil
}

// ValidateTensorOffsets checks every tensor lies inside the data section,
// that no two tensors overlap and that each size matches its shape and dtype.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(tensors), MaxTensorCount),
			Err:     ErrTooManyTensors,
		}
	}

	sorted := slices.Clone(tensors)
	slices.SortFunc(sorted, func(a, b TensorMeta) int { return cmp.Compare(a.Offset, b.Offset) })

	for i, t := range sorted {
		if t.Offset < 0 || t.Size < 0 || t.Offset+t.Size > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset %d + size %d outside data section of %d bytes", t.Offset, t.Size, dataSize),
				Err:     ErrOutOfBounds,
			}
		}
		if err := validateTensorSize(t); err != nil {
			return err
		}
		if i+1 < len(sorted) && t.Offset+t.Size > sorted[i+1].Offset {
			next := sorted[i+1]
			return &ValidationError{
				Type:    "offset_overlap",
				Tensor:  t.Name,
				Tensor2: next.Name,
				Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap", t.Offset, t.Offset+t.Size, next.Offset, next.Offset+next.Size),
				Err:     ErrOffsetOverlap,
			}
		}
	}
	return nil
}

func validateTensorSize(t TensorMeta) error {
	dtype, ok := tensor.ParseDataType(t.DType)
	if !ok {
		return &ValidationError{Type: "invalid_dtype", Tensor: t.Name, Details: fmt.Sprintf("unsupported dtype %q", t.DType)}
	}
	shape := tensor.Shape(t.Shape)
	if err := shape.Validate(); err != nil {
		return &ValidationError{Type: "invalid_shape", Tensor: t.Name, Details: err.Error()}
	}
	if want := int64(shape.NumElements() * dtype.Size()); want != t.Size {
		return &ValidationError{
			Type:    "size_mismatch",
			Tensor:  t.Name,
			Details: fmt.Sprintf("shape %v of %s needs %d bytes, header says %d", shape, dtype, want, t.Size),
		}
	}
	return nil
}

// ValidateHeader validates the tensor table against a data section of dataSize bytes.
func ValidateHeader(h *Header, dataSize int64) error {
	if h.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: header declares %d", ErrUnsupportedVersion, h.FormatVersion)
	}
	seen := make(map[string]struct{}, len(h.Tensors))
	for _, t := range h.Tensors {
		if err := ValidateTensorName(t.Name); err != nil {
			return err
		}
		if _, dup := seen[t.Name]; dup {
			return &ValidationError{Type: "duplicate_name", Tensor: t.Name, Details: "tensor listed twice", Err: ErrInvalidTensorName}
		}
		seen[t.Name] = struct{}{}
	}
	return ValidateTensorOffsets(h.Tensors, dataSize)
}
