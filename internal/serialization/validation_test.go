package serialization

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTensorName(t *testing.T) {
	valid := []string{"layers.0.weight", "output.bias", "w"}
	for _, name := range valid {
		if err := ValidateTensorName(name); err != nil {
			t.Errorf("ValidateTensorName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "../etc/passwd", "a/b", `a\b`, "a\x00b", strings.Repeat("x", MaxTensorNameLen+1)}
	for _, name := range invalid {
		err := ValidateTensorName(name)
		if !errors.Is(err, ErrInvalidTensorName) {
			t.Errorf("ValidateTensorName(%.20q) = %v, want ErrInvalidTensorName", name, err)
		}
	}
}

func TestValidateTensorOffsets(t *testing.T) {
	ok := []TensorMeta{
		{Name: "a", DType: "float32", Shape: []int{2}, Offset: 0, Size: 8},
		{Name: "b", DType: "int32", Shape: []int{1}, Offset: 8, Size: 4},
	}
	if err := ValidateTensorOffsets(ok, 12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		tensors []TensorMeta
		want    error
		kind    string
	}{
		{
			name:    "out of bounds",
			tensors: []TensorMeta{{Name: "a", DType: "float32", Shape: []int{4}, Offset: 0, Size: 16}},
			want:    ErrOutOfBounds,
		},
		{
			name:    "negative offset",
			tensors: []TensorMeta{{Name: "a", DType: "float32", Shape: []int{1}, Offset: -4, Size: 4}},
			want:    ErrOutOfBounds,
		},
		{
			name: "overlap",
			tensors: []TensorMeta{
				{Name: "a", DType: "float32", Shape: []int{2}, Offset: 0, Size: 8},
				{Name: "b", DType: "float32", Shape: []int{1}, Offset: 4, Size: 4},
			},
			want: ErrOffsetOverlap,
		},
		{
			name:    "size disagrees with shape",
			tensors: []TensorMeta{{Name: "a", DType: "float32", Shape: []int{3}, Offset: 0, Size: 8}},
			kind:    "size_mismatch",
		},
		{
			name:    "unknown dtype",
			tensors: []TensorMeta{{Name: "a", DType: "float16", Shape: []int{2}, Offset: 0, Size: 4}},
			kind:    "invalid_dtype",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensorOffsets(tt.tensors, 12)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if tt.kind != "" && ve.Type != tt.kind {
				t.Errorf("type = %q, want %q", ve.Type, tt.kind)
			}
		})
	}
}

func TestValidateHeaderRejectsDuplicates(t *testing.T) {
	h := &Header{
		FormatVersion: FormatVersion,
		Tensors: []TensorMeta{
			{Name: "a", DType: "float32", Shape: []int{1}, Offset: 0, Size: 4},
			{Name: "a", DType: "float32", Shape: []int{1}, Offset: 4, Size: 4},
		},
	}
	if err := ValidateHeader(h, 8); !errors.Is(err, ErrInvalidTensorName) {
		t.Errorf("expected duplicate-name error, got %v", err)
	}

	h.FormatVersion = 1
	if err := ValidateHeader(h, 8); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}
