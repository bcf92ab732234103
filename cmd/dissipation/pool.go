package main

import (
	"runtime"
	"sync"
)

// run is one experiment: a scalar interpolator and a scenario seed.
type run struct {
	Interp string
	Seed   int64
}

// runResult is the variance series of a run, or the error that stopped it.
type runResult struct {
	Series []float64
	Err    error
}

// runAll evaluates every run on up to workers goroutines (0 = GOMAXPROCS).
// Results are indexed like runs regardless of completion order.
func runAll(runs []run, workers int, eval func(run) ([]float64, error)) []runResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(runs))

	results := make([]runResult, len(runs))
	work := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				series, err := eval(runs[i])
				results[i] = runResult{Series: series, Err: err}
			}
		}()
	}

	for i := range runs {
		work <- i
	}
	close(work)
	wg.Wait()
	return results
}
