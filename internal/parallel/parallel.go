// Package parallel splits index ranges across goroutines for the CPU kernels.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count.
// Kernels fan out over output channels, so chunks are small.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4,
	}
}

// Sequential returns a config that always runs inline.
func Sequential() Config {
	return Config{NumWorkers: 1, MinChunkSize: 1}
}

// For executes f(i) for i in [0, n).
// Every index is visited exactly once; indices handed to different goroutines
// never overlap, so f may write to disjoint slices without locking.
func For(n int, cfg Config, f func(i int)) {
	workers := cfg.NumWorkers
	if !cfg.Enabled || workers <= 1 || n <= cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunk := max((n+workers-1)/workers, cfg.MinChunkSize, 1)

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
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
