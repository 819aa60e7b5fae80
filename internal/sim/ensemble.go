package sim

import (
	"context"
	"sync"
)

// Member builds one independent loop of an ensemble. Each member owns its
// vehicle and controller, so members can run concurrently.
type Member func(idx int) (*Loop, error)

type Ensemble struct {
	build   Member
	numRuns int
	steps   int
}

func NewEnsemble(build Member, numRuns, steps int) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, steps: steps}
}

// Run executes every member for the same number of steps and returns the
// loops in member order.
func (e *Ensemble) Run(ctx context.Context) ([]*Loop, error) {
	loops := make([]*Loop, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			l, err := e.build(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			loops[idx] = l
			_, errs[idx] = l.RunSteps(ctx, e.steps)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return loops, nil
}
