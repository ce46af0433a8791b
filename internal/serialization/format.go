package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes      = "BORN"
	FormatVersion   = 2
	HeaderAlignment = 64
	FixedHeaderSize = 64
	ChecksumSize    = 32
	ChecksumOffset  = 0x20
)

// Flags for the .born format.
const (
	FlagHasMetadata     uint32 = 1 << 2
	FlagHasArchitecture uint32 = 1 << 3
)

// ModelTypeNetwork tags checkpoints written for nn.Network.
const ModelTypeNetwork = "fcnet.Network"

// Header is the JSON header of a .born file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	BornVersion   string            `json:"born_version"`
	ModelType     string            `json:"model_type"`
	CreatedAt     time.Time         `json:"created_at"`
	Tensors       []TensorMeta      `json:"tensors"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Architecture  *Architecture     `json:"architecture,omitempty"`
}

// Architecture describes the network a checkpoint was taken from.
// Pointer fields distinguish a missing entry from a zero value.
type Architecture struct {
	InputSize       *int     `json:"input_size,omitempty"`
	OutputSize      *int     `json:"output_size,omitempty"`
	HiddenLayers    []int    `json:"hidden_layers,omitempty"`
	DropProbability *float64 `json:"drop_p,omitempty"`
}

// TensorMeta describes a tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`
}

func alignedDataOffset(headerSize int64) int64 {
	pos := int64(FixedHeaderSize) + headerSize
	return pos + (HeaderAlignment-pos%HeaderAlignment)%HeaderAlignment
}
