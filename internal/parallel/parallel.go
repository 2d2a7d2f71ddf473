// Package parallel splits index ranges across goroutines.
//
// Plane conversions are row independent, so a plane can be cut into row
// bands and each band converted on its own goroutine. For does the cutting
// and falls back to a plain loop when the work is too small to be worth
// the goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config configures parallel processing.
type Config struct {
	// Workers is the number of goroutines. 0 means runtime.GOMAXPROCS(0).
	Workers int

	// GrainSize is the minimum number of items per worker. If the total is
	// at most GrainSize * Workers, For runs sequentially.
	GrainSize int
}

// DefaultConfig returns the default configuration: all CPUs, at least 16
// items per worker.
func DefaultConfig() Config {
	return Config{
		Workers:   0,
		GrainSize: 16,
	}
}

// EffectiveWorkers returns the number of goroutines For will use at most.
func (c Config) EffectiveWorkers() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// For calls fn(start, end) over consecutive chunks covering [0, n). Chunks
// are disjoint and run concurrently when parallelism is worthwhile.
func For(cfg Config, n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := cfg.EffectiveWorkers()
	if workers == 1 || n <= cfg.GrainSize*workers {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
