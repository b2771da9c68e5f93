// Package testutil holds helpers shared by package tests.
package testutil

import (
	"errors"
	"sync"

	"hrcatalog/internal/sentinel"
	dErrors "hrcatalog/pkg/domain-errors"
)

// ConcurrentResult tallies the outcomes of a RunConcurrent call.
type ConcurrentResult struct {
	Successes int32
	Errors    int32
	NotFounds int32

	// Failures keeps the unexpected errors for assertion messages.
	Failures []error
}

// Total is the number of calls that ran.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.NotFounds
}

func (r *ConcurrentResult) record(err error) {
	switch {
	case err == nil:
		r.Successes++
	case errors.Is(err, sentinel.ErrNotFound), dErrors.HasCode(err, dErrors.CodeNotFound):
		r.NotFounds++
	default:
		r.Errors++
		r.Failures = append(r.Failures, err)
	}
}

// RunConcurrent starts n goroutines, releases them together and waits for
// all of them. Not-found outcomes are counted apart from other failures,
// since racing deletes make them expected.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	var (
		ready, done sync.WaitGroup
		start       = make(chan struct{})
		mu          sync.Mutex
		result      ConcurrentResult
	)
	ready.Add(n)
	done.Add(n)
	for i := range n {
		go func() {
			defer done.Done()
			ready.Done()
			<-start
			err := fn(i)
			mu.Lock()
			result.record(err)
			mu.Unlock()
		}()
	}
	ready.Wait()
	close(start)
	done.Wait()
	return &result
}
