// Package parallel fans CPU kernel work out over a bounded goroutine pool.
package parallel

import (
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Upper bound on concurrent goroutines.
	MinChunkSize int  // Minimum items per goroutine.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// Sequential returns a config that never spawns goroutines.
func Sequential() Config {
	return Config{NumWorkers: 1, MinChunkSize: 1}
}

// For executes f(i) for i in [0, n) and returns once every call has finished.
// Small ranges and disabled configs run on the calling goroutine.
func For(n int, f func(i int), cfg Config) {
	workers := max(cfg.NumWorkers, 1)
	if !cfg.Enabled || workers == 1 || n < cfg.MinChunkSize {
		for i := range n {
			f(i)
		}
		return
	}

	chunk := max((n+workers-1)/workers, cfg.MinChunkSize)
	p := pool.New().WithMaxGoroutines(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		p.Go(func() {
			for i := start; i < end; i++ {
				f(i)
			}
		})
	}
	p.Wait()
}

// ForRows runs f over contiguous row ranges [lo, hi) of a rows-long range.
// Row kernels use it to keep per-row state local to one goroutine.
func ForRows(rows int, f func(lo, hi int), cfg Config) {
	workers := max(cfg.NumWorkers, 1)
	if !cfg.Enabled || workers == 1 || rows < 2 {
		f(0, rows)
		return
	}
	chunk := (rows + workers - 1) / workers
	p := pool.New().WithMaxGoroutines(workers)
	for lo := 0; lo < rows; lo += chunk {
		hi := min(lo+chunk, rows)
		p.Go(func() { f(lo, hi) })
	}
	p.Wait()
}
