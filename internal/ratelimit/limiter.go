package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Budget is a per-request ceiling on live price calls. Take reserves a call
// before it is issued, so the ceiling holds regardless of how many goroutines
// share the budget or whether earlier calls failed.
type Budget struct {
	cap  int64
	used atomic.Int64
}

// NewBudget creates a budget allowing at most n calls. n <= 0 allows none.
func NewBudget(n int) *Budget {
	if n < 0 {
		n = 0
	}
	return &Budget{cap: int64(n)}
}

// Take reserves one call and reports whether it may proceed.
func (b *Budget) Take() bool {
	for {
		used := b.used.Load()
		if used >= b.cap {
			return false
		}
		if b.used.CompareAndSwap(used, used+1) {
			return true
		}
	}
}

// Used returns the number of calls reserved so far.
func (b *Budget) Used() int { return int(b.used.Load()) }

// Remaining returns the number of calls still available.
func (b *Budget) Remaining() int { return int(b.cap - b.used.Load()) }

// DailyQuota tracks a pay-per-call allowance shared by every request in the
// process. The counter resets at local midnight.
type DailyQuota struct {
	limit int
	used  int
	day   time.Time
	now   func() time.Time
	mu    sync.Mutex
}

// NewDailyQuota creates a quota of limit calls per day; limit <= 0 means
// unlimited.
func NewDailyQuota(limit int) *DailyQuota {
	return &DailyQuota{limit: limit, now: time.Now}
}

// Take consumes one call from today's allowance.
func (q *DailyQuota) Take() bool {
	if q == nil || q.limit <= 0 {
		return true
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()
	if q.used >= q.limit {
		return false
	}
	q.used++
	return true
}

// Remaining returns today's unused calls, or -1 when unlimited.
func (q *DailyQuota) Remaining() int {
	if q == nil || q.limit <= 0 {
		return -1
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()
	return q.limit - q.used
}

// rollover resets the counter on a new day. Must be called with mu held.
func (q *DailyQuota) rollover() {
	now := q.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if q.day.Before(today) {
		q.used = 0
		q.day = today
	}
}

// NewPacer returns a limiter spacing calls to perMinute with a burst of
// burst. perMinute <= 0 disables pacing and returns nil.
func NewPacer(perMinute, burst int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

// Gate admits or refuses a single call.
type Gate interface {
	Take() bool
}

// All admits a call only when every gate does. Gates are consulted in order
// and consultation stops at the first refusal.
func All(gates ...Gate) Gate {
	return allGates(gates)
}

type allGates []Gate

func (g allGates) Take() bool {
	for _, gate := range g {
		if !gate.Take() {
			return false
		}
	}
	return true
}
