package serialization

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/born-ml/fcnet/internal/tensor"
)

func testState(t *testing.T) map[string]*tensor.RawTensor {
	t.Helper()
	w, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	copy(w.AsFloat32(), []float32{1, 2, 3, 4, 5, 6})
	b, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	copy(b.AsFloat32(), []float32{-1, 1})
	return map[string]*tensor.RawTensor{"layers.0.weight": w, "layers.0.bias": b}
}

func intp(v int) *int { return &v }

func testHeader() Header {
	p := 0.5
	return Header{
		ModelType: ModelTypeNetwork,
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Architecture: &Architecture{
			InputSize:       intp(3),
			OutputSize:      intp(2),
			HiddenLayers:    []int{2},
			DropProbability: &p,
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testState(t), testHeader()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	state, h, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if h.FormatVersion != FormatVersion || h.ModelType != ModelTypeNetwork {
		t.Errorf("unexpected header: %+v", h)
	}
	if h.Architecture == nil || *h.Architecture.InputSize != 3 || *h.Architecture.OutputSize != 2 {
		t.Fatalf("architecture not preserved: %+v", h.Architecture)
	}
	if got := h.Architecture.HiddenLayers; len(got) != 1 || got[0] != 2 {
		t.Errorf("hidden layers = %v, want [2]", got)
	}

	want := testState(t)
	for name, raw := range want {
		got, ok := state[name]
		if !ok {
			t.Fatalf("tensor %q missing", name)
		}
		if !got.Shape().Equal(raw.Shape()) {
			t.Errorf("%s: shape %v, want %v", name, got.Shape(), raw.Shape())
		}
		if !bytes.Equal(got.Data(), raw.Data()) {
			t.Errorf("%s: data differs", name)
		}
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := Encode(&a, testState(t), testHeader()); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&b, testState(t), testHeader()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two encodings of the same state differ")
	}
}

func TestDataSectionAligned(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testState(t), testHeader()); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	headerSize := int64(binary.LittleEndian.Uint64(raw[16:24]))
	dataSize := int64(binary.LittleEndian.Uint64(raw[24:32]))
	offset := alignedDataOffset(headerSize)
	if offset%HeaderAlignment != 0 {
		t.Errorf("data offset %d not aligned", offset)
	}
	if offset+dataSize != int64(len(raw)) {
		t.Errorf("offset %d + data %d != file size %d", offset, dataSize, len(raw))
	}
}

func TestDecodeDetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testState(t), testHeader()); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()

	corrupted := bytes.Clone(raw)
	corrupted[len(corrupted)-1] ^= 0xFF
	if _, _, err := Decode(bytes.NewReader(corrupted)); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("expected ErrChecksumMismatch, got %v", err)
	}

	badMagic := bytes.Clone(raw)
	copy(badMagic, "NROB")
	if _, _, err := Decode(bytes.NewReader(badMagic)); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("expected ErrInvalidMagic, got %v", err)
	}

	badVersion := bytes.Clone(raw)
	binary.LittleEndian.PutUint32(badVersion[4:8], 1)
	if _, _, err := Decode(bytes.NewReader(badVersion)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}

	if _, _, err := Decode(bytes.NewReader(raw[:len(raw)-4])); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
	if _, _, err := Decode(bytes.NewReader(nil)); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated on empty input, got %v", err)
	}
}

func TestDecodeRejectsOversizedDataSection(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testState(t), testHeader()); err != nil {
		t.Fatal(err)
	}
	inflated := bytes.Clone(buf.Bytes())
	binary.LittleEndian.PutUint64(inflated[24:32], 1<<40)

	if _, _, err := Decode(bytes.NewReader(inflated)); !errors.Is(err, ErrTruncated) {
		t.Errorf("stream: expected ErrTruncated, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "inflated.born")
	if err := os.WriteFile(path, inflated, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadFile(path); !errors.Is(err, ErrTruncated) {
		t.Errorf("ReadFile: expected ErrTruncated, got %v", err)
	}
	if _, err := ReadHeaderFile(path); !errors.Is(err, ErrTruncated) {
		t.Errorf("ReadHeaderFile: expected ErrTruncated, got %v", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.born")

	if err := WriteFileAtomic(path, testState(t), testHeader()); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Overwrite in place; a second save of the same state is byte-identical.
	if err := WriteFileAtomic(path, testState(t), testHeader()); err != nil {
		t.Fatalf("second WriteFileAtomic failed: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("repeated save changed the file")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the checkpoint in %s, found %d entries", dir, len(entries))
	}

	h, err := ReadHeaderFile(path)
	if err != nil {
		t.Fatalf("ReadHeaderFile failed: %v", err)
	}
	if len(h.Tensors) != 2 || h.Tensors[0].Name != "layers.0.bias" {
		t.Errorf("tensor table not sorted by name: %+v", h.Tensors)
	}
}

func TestWriteFileAtomicFailureLeavesTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.born")
	if err := os.WriteFile(path, []byte("previous"), 0o600); err != nil {
		t.Fatal(err)
	}

	bad := testState(t)
	bad["../escape"] = bad["layers.0.bias"]
	if err := WriteFileAtomic(path, bad, testHeader()); err == nil {
		t.Fatal("expected an error for an invalid tensor name")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "previous" {
		t.Errorf("target was modified: %q", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %d entries", len(entries))
	}
}

func TestWriteFileAtomicMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "model.born")
	if err := WriteFileAtomic(path, testState(t), testHeader()); err == nil {
		t.Error("expected an error when the directory does not exist")
	}
}
