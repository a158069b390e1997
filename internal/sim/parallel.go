package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent simulations in parallel, one goroutine each.
// Engines hold mutable state, so every run gets a fresh simulator from the
// build function; vehicle parameters may be shared read-only across runs.
type Ensemble struct {
	build func(run int) (*Simulator, error)
	runs  int
}

func NewEnsemble(runs int, build func(run int) (*Simulator, error)) *Ensemble {
	return &Ensemble{build: build, runs: runs}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.runs)
	errs := make([]error, e.runs)

	var wg sync.WaitGroup
	for i := 0; i < e.runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, err := e.build(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
