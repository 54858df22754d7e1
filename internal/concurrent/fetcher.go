package concurrent

import (
	"context"
	"sync"
	"time"

	"github.com/guarzo/pkmchase/internal/model"
	"github.com/guarzo/pkmchase/internal/ratelimit"
)

// Lookup fetches live pricing for one candidate card.
type Lookup func(ctx context.Context, card model.Card) (model.Card, error)

// Result is the outcome of one candidate's lookup.
type Result struct {
	Card    model.Card // the candidate as passed in
	Priced  model.Card // the record returned by the lookup
	Error   error
	Called  bool
	Skipped bool // the gate refused; no call was issued
	Latency time.Duration
}

// FetchMetrics summarizes one PriceLookups run.
type FetchMetrics struct {
	Candidates     int
	APICallsMade   int
	SuccessfulReqs int
	FailedRequests int
	Skipped        int
	TotalLatency   time.Duration
	AverageLatency time.Duration
	StartTime      time.Time
	EndTime        time.Time
}

// PriceLookups runs fn for each card with at most workers calls in flight.
// The gate is consulted in input order before each call is dispatched; after
// the first refusal every remaining card is marked Skipped. Results are
// returned in input order. Failed calls are not retried.
func PriceLookups(ctx context.Context, workers int, gate ratelimit.Gate, cards []model.Card, fn Lookup) ([]Result, FetchMetrics) {
	metrics := FetchMetrics{Candidates: len(cards), StartTime: time.Now()}
	results := make([]Result, len(cards))
	for i, card := range cards {
		results[i].Card = card
	}
	if len(cards) == 0 {
		metrics.EndTime = time.Now()
		return results, metrics
	}

	if workers <= 0 {
		workers = 1
	}
	if workers > len(cards) {
		workers = len(cards)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := time.Now()
				priced, err := fn(ctx, results[i].Card)
				results[i].Priced = priced
				results[i].Error = err
				results[i].Latency = time.Since(start)
				results[i].Called = true
			}
		}()
	}

	dispatched := dispatch(ctx, gate, jobs, results)
	close(jobs)
	wg.Wait()

	metrics.APICallsMade = dispatched
	for _, r := range results {
		switch {
		case r.Skipped:
			metrics.Skipped++
		case r.Error != nil:
			metrics.FailedRequests++
		default:
			metrics.SuccessfulReqs++
		}
		metrics.TotalLatency += r.Latency
	}
	if dispatched > 0 {
		metrics.AverageLatency = metrics.TotalLatency / time.Duration(dispatched)
	}
	metrics.EndTime = time.Now()
	return results, metrics
}

// dispatch feeds job indexes in order and returns how many were sent.
func dispatch(ctx context.Context, gate ratelimit.Gate, jobs chan<- int, results []Result) int {
	for i := range results {
		if err := ctx.Err(); err != nil {
			markRest(results[i:], func(r *Result) { r.Error = err })
			return i
		}
		if gate != nil && !gate.Take() {
			markRest(results[i:], func(r *Result) { r.Skipped = true })
			return i
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			err := ctx.Err()
			markRest(results[i:], func(r *Result) { r.Error = err })
			return i
		}
	}
	return len(results)
}

func markRest(rest []Result, mark func(*Result)) {
	for i := range rest {
		mark(&rest[i])
	}
}
