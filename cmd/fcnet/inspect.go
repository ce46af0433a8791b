package main

import (
	"flag"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/pkg/errors"

	"github.com/born-ml/fcnet/internal/nn"
	"github.com/born-ml/fcnet/internal/serialization"
)

func runInspect(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	tensors := fs.Bool("tensors", false, "list stored tensors")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("inspect: expected one checkpoint path")
	}
	path := fs.Arg(0)

	arch, err := nn.ReadArchitecture(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "input_size:    %d\n", arch.InputSize)
	fmt.Fprintf(stdout, "output_size:   %d\n", arch.OutputSize)
	fmt.Fprintf(stdout, "hidden_layers: %v\n", arch.HiddenLayers)
	fmt.Fprintf(stdout, "drop_p:        %g\n", arch.DropProbability)

	header, err := serialization.ReadHeaderFile(path)
	if err != nil {
		return errors.Wrapf(err, "read header %s", path)
	}
	fmt.Fprintf(stdout, "format:        v%d (born %s)\n", header.FormatVersion, header.BornVersion)
	fmt.Fprintf(stdout, "created:       %s\n", header.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	for _, k := range slices.Sorted(maps.Keys(header.Metadata)) {
		fmt.Fprintf(stdout, "meta %s: %s\n", k, header.Metadata[k])
	}
	if *tensors {
		for _, t := range header.Tensors {
			fmt.Fprintf(stdout, "  %-16s %-8s %v\n", t.Name, t.DType, t.Shape)
		}
	}
	return nil
}
