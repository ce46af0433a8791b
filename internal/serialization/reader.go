package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/fcnet/internal/tensor"
)

type fixedHeader struct {
	flags      uint32
	headerSize int64
	dataSize   int64
	checksum   [ChecksumSize]byte
}

func readFixedHeader(r io.Reader) (fixedHeader, error) {
	var fh fixedHeader
	buf := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fh, truncated("fixed header", err)
	}
	if string(buf[0:4]) != MagicBytes {
		return fh, fmt.Errorf("%w: got %q", ErrInvalidMagic, buf[0:4])
	}
	if v := binary.LittleEndian.Uint32(buf[4:8]); v != FormatVersion {
		return fh, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, v, FormatVersion)
	}
	fh.flags = binary.LittleEndian.Uint32(buf[8:12])
	headerSize := binary.LittleEndian.Uint64(buf[16:24])
	dataSize := binary.LittleEndian.Uint64(buf[24:32])
	if headerSize > MaxHeaderSize {
		return fh, ErrHeaderTooLarge
	}
	if dataSize > 1<<40 {
		return fh, fmt.Errorf("%w: data section of %d bytes", ErrOutOfBounds, dataSize)
	}
	fh.headerSize = int64(headerSize)
	fh.dataSize = int64(dataSize)
	copy(fh.checksum[:], buf[ChecksumOffset:ChecksumOffset+ChecksumSize])
	return fh, nil
}

// readHeader parses the fixed and JSON headers. A non-negative fileSize
// bounds the declared sections before anything is allocated for them.
func readHeader(r io.Reader, fileSize int64) (fixedHeader, Header, error) {
	fh, err := readFixedHeader(r)
	if err != nil {
		return fh, Header{}, err
	}
	if fileSize >= 0 {
		if FixedHeaderSize+fh.headerSize > fileSize {
			return fh, Header{}, fmt.Errorf("%w: header of %d bytes in a %d-byte file", ErrTruncated, fh.headerSize, fileSize)
		}
		if avail := fileSize - alignedDataOffset(fh.headerSize); fh.dataSize > avail {
			return fh, Header{}, fmt.Errorf("%w: data section of %d bytes, %d available", ErrTruncated, fh.dataSize, avail)
		}
	}
	headerJSON := make([]byte, fh.headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return fh, Header{}, truncated("header", err)
	}
	var h Header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return fh, Header{}, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	if err := ValidateHeader(&h, fh.dataSize); err != nil {
		return fh, Header{}, fmt.Errorf("validation failed: %w", err)
	}
	return fh, h, nil
}

// Decode reads a complete .born stream, verifying the data checksum.
func Decode(r io.Reader) (map[string]*tensor.RawTensor, Header, error) {
	return decode(r, -1)
}

func decode(r io.Reader, fileSize int64) (map[string]*tensor.RawTensor, Header, error) {
	fh, h, err := readHeader(r, fileSize)
	if err != nil {
		return nil, Header{}, err
	}
	padding := alignedDataOffset(fh.headerSize) - (FixedHeaderSize + fh.headerSize)
	if _, err := io.CopyN(io.Discard, r, padding); err != nil {
		return nil, Header{}, truncated("padding", err)
	}
	// The declared size is untrusted on a plain stream; let the buffer grow
	// with what actually arrives.
	data, err := io.ReadAll(io.LimitReader(r, fh.dataSize))
	if err != nil {
		return nil, Header{}, truncated("tensor data", err)
	}
	if int64(len(data)) < fh.dataSize {
		return nil, Header{}, fmt.Errorf("%w: reading tensor data (%d of %d bytes)", ErrTruncated, len(data), fh.dataSize)
	}
	if err := ValidateChecksum(ComputeChecksum(data), fh.checksum); err != nil {
		return nil, Header{}, err
	}

	state := make(map[string]*tensor.RawTensor, len(h.Tensors))
	for _, meta := range h.Tensors {
		dtype, _ := tensor.ParseDataType(meta.DType) // checked by ValidateHeader
		raw, err := tensor.NewRaw(tensor.Shape(meta.Shape), dtype, tensor.CPU)
		if err != nil {
			return nil, Header{}, fmt.Errorf("tensor %s: %w", meta.Name, err)
		}
		copy(raw.Data(), data[meta.Offset:meta.Offset+meta.Size])
		state[meta.Name] = raw
	}
	return state, h, nil
}

// ReadFile decodes the .born file at path.
func ReadFile(path string) (map[string]*tensor.RawTensor, Header, error) {
	//nolint:gosec // G304: checkpoint paths are user supplied by design
	f, err := os.Open(path)
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	size, err := fileSize(f)
	if err != nil {
		return nil, Header{}, err
	}
	return decode(bufio.NewReader(f), size)
}

// ReadHeaderFile reads only the JSON header of the file at path.
// Tensor data is neither read nor checksummed.
func ReadHeaderFile(path string) (Header, error) {
	//nolint:gosec // G304: checkpoint paths are user supplied by design
	f, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	size, err := fileSize(f)
	if err != nil {
		return Header{}, err
	}
	_, h, err := readHeader(bufio.NewReader(f), size)
	return h, err
}

func fileSize(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}
	return info.Size(), nil
}

func truncated(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s", ErrTruncated, what)
	}
	return fmt.Errorf("failed to read %s: %w", what, err)
}
