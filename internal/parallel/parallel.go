// Package parallel fans independent loop iterations out over goroutines.
//
// It is used for work whose iterations never read each other's output:
// convolution output channels and attention heads. Because every
// iteration writes a disjoint slot, parallel and sequential runs produce
// bit-identical results.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
// The zero value runs everything sequentially.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1, // Items are whole channels or heads.
	}
}

// Sequential returns a Config that disables fan-out.
func Sequential() Config {
	return Config{}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, cfg Config, f func(i int)) {
	workers := cfg.NumWorkers
	if !cfg.Enabled || workers <= 1 || n < 2*max(cfg.MinChunkSize, 1) {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+workers-1)/workers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForErr is For for fallible iterations. It runs every iteration and
// returns the error of the lowest failing index, so the reported error
// does not depend on scheduling.
func ForErr(n int, cfg Config, f func(i int) error) error {
	errs := make([]error, n)
	For(n, cfg, func(i int) {
		errs[i] = f(i)
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
