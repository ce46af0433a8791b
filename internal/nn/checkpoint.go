package nn

import (
	"io/fs"

	"github.com/pkg/errors"

	"github.com/born-ml/fcnet/internal/serialization"
)

// SaveNetwork writes n's architecture and parameters to path as a .born file.
//
// The file is written to a temporary sibling and renamed into place, so
// readers see either the previous checkpoint or the complete new one.
// Saving an unchanged network twice produces identical tensor data.
func SaveNetwork[B Backend](n *Network[B], path string) error {
	return SaveNetworkWithMetadata(n, path, nil)
}

// SaveNetworkWithMetadata is SaveNetwork with free-form string metadata
// (training settings, scores) stored in the header.
func SaveNetworkWithMetadata[B Backend](n *Network[B], path string, metadata map[string]string) error {
	arch := n.Architecture()
	header := serialization.Header{
		ModelType: serialization.ModelTypeNetwork,
		Metadata:  metadata,
		Architecture: &serialization.Architecture{
			InputSize:       &arch.InputSize,
			OutputSize:      &arch.OutputSize,
			HiddenLayers:    arch.HiddenLayers,
			DropProbability: &arch.DropProbability,
		},
	}
	if err := serialization.WriteFileAtomic(path, n.StateDict(), header); err != nil {
		return errors.Wrapf(err, "save checkpoint %s", path)
	}
	return nil
}

// LoadNetwork rebuilds a Network from the checkpoint at path.
//
// The architecture stored in the file is validated and used to construct a
// fresh network before the parameters are loaded into it. The returned
// network is in evaluation mode.
//
// Errors: *CheckpointFormatError for unreadable files or missing
// architecture entries, *ParameterShapeError when a stored tensor disagrees
// with the architecture it was stored with.
func LoadNetwork[B Backend](path string, backend B) (*Network[B], error) {
	state, header, err := serialization.ReadFile(path)
	if err != nil {
		return nil, readError(path, err)
	}

	cfg, err := configFromHeader(path, header)
	if err != nil {
		return nil, err
	}
	n, err := NewNetwork(backend, cfg)
	if err != nil {
		return nil, &CheckpointFormatError{Path: path, Field: "architecture", Err: err}
	}
	if err := n.LoadStateDict(state); err != nil {
		var cfe *CheckpointFormatError
		if errors.As(err, &cfe) {
			cfe.Path = path
		}
		return nil, err
	}
	n.Eval()
	return n, nil
}

// ReadArchitecture returns the architecture stored in a checkpoint without
// reading its tensors.
func ReadArchitecture(path string) (Architecture, error) {
	header, err := serialization.ReadHeaderFile(path)
	if err != nil {
		return Architecture{}, readError(path, err)
	}
	cfg, err := configFromHeader(path, header)
	if err != nil {
		return Architecture{}, err
	}
	p := cfg.DropProbability
	switch p {
	case 0:
		p = DefaultDropProbability
	case NoDropout:
		p = 0
	}
	return Architecture{
		InputSize:       cfg.InputSize,
		OutputSize:      cfg.OutputSize,
		HiddenLayers:    cfg.HiddenLayers,
		DropProbability: p,
	}, nil
}

func readError(path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return errors.Wrapf(err, "open checkpoint %s", path)
	}
	return &CheckpointFormatError{Path: path, Reason: "cannot decode", Err: err}
}

func configFromHeader(path string, h serialization.Header) (Config, error) {
	arch := h.Architecture
	missing := func(field string) error {
		return &CheckpointFormatError{Path: path, Field: field, Reason: "missing"}
	}
	switch {
	case arch == nil:
		return Config{}, missing("architecture")
	case arch.InputSize == nil:
		return Config{}, missing("input_size")
	case arch.OutputSize == nil:
		return Config{}, missing("output_size")
	case arch.HiddenLayers == nil:
		return Config{}, missing("hidden_layers")
	}

	cfg := Config{
		InputSize:    *arch.InputSize,
		OutputSize:   *arch.OutputSize,
		HiddenLayers: arch.HiddenLayers,
		Seed:         1, // overwritten by the stored state
	}
	if p := arch.DropProbability; p != nil {
		cfg.DropProbability = *p
		if *p == 0 {
			cfg.DropProbability = NoDropout
		}
	}
	return cfg, nil
}
