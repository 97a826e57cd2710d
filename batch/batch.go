// Package batch evaluates one compiled program over many sample vectors in parallel
package batch

import (
	"sync"

	"github.com/lunfardo314/fparser/engine"
	"github.com/lunfardo314/fparser/util/fifoqueue"
	"go.uber.org/atomic"
)

type Result struct {
	Index int
	Value float64
	// Err is an engine.EvalError for domain errors
	Err error
}

type Stats struct {
	Evaluated    uint64
	DomainErrors uint64
	Failed       uint64
}

// Evaluate evaluates prog for each sample with the given number of workers.
// Each worker runs its own machine. Results are in the order of samples
func Evaluate(prog *engine.Program, samples [][]float64, workers int) ([]Result, Stats) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(samples) && len(samples) > 0 {
		workers = len(samples)
	}
	ret := make([]Result, len(samples))
	var evaluated, domainErrors, failed atomic.Uint64

	q := fifoqueue.New[int]()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()

			m := engine.NewMachine(prog.StackSize)
			q.Consume(func(i int) {
				v, err := m.Run(prog, samples[i])
				ret[i] = Result{Index: i, Value: v, Err: err}
				evaluated.Inc()
				switch {
				case err == nil:
				case engine.IsDomainError(err):
					domainErrors.Inc()
				default:
					failed.Inc()
				}
			})
		}()
	}
	for i := range samples {
		q.Write(i)
	}
	q.Close()
	wg.Wait()

	return ret, Stats{
		Evaluated:    evaluated.Load(),
		DomainErrors: domainErrors.Load(),
		Failed:       failed.Load(),
	}
}
