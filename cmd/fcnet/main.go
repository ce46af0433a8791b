// Command fcnet trains, evaluates and inspects fully connected classifiers
// stored as .born checkpoints.
//
// Usage:
//
//	fcnet train   [flags]   train a network and save a checkpoint
//	fcnet eval    [flags]   score a checkpoint on a dataset
//	fcnet inspect <file>    print a checkpoint's architecture
//	fcnet version
//
// Flag defaults can be set through FCNET_* environment variables, which
// are also read from a .env file in the working directory.
package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const version = "v0.1.0"

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "fcnet: reading .env: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "fcnet: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "train":
		return runTrain(ctx, rest, stdout, stderr)
	case "eval":
		return runEval(rest, stdout, stderr)
	case "inspect":
		return runInspect(rest, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "fcnet %s\n", version)
		return nil
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return errors.Errorf("unknown command %q", cmd)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "fcnet %s - fully connected classifiers\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  train      Train a network and save a checkpoint")
	fmt.Fprintln(w, "  eval       Evaluate a checkpoint")
	fmt.Fprintln(w, "  inspect    Show a checkpoint's architecture")
	fmt.Fprintln(w, "  version    Show version")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// parseHidden parses a comma-separated list of layer widths such as "512,256,128".
// Widths are not range-checked here; nn.NewNetwork reports bad values.
func parseHidden(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	widths := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrapf(err, "hidden layer width %q", p)
		}
		widths = append(widths, n)
	}
	return widths, nil
}
