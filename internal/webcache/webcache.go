// Package webcache keeps recent per-set results in memory so page views do
// not each spend upstream calls.
package webcache

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/guarzo/pkmchase/internal/cache"
	"github.com/guarzo/pkmchase/internal/chase"
	"github.com/guarzo/pkmchase/internal/model"
)

const (
	DefaultTTL        = 15 * time.Minute
	DefaultMaxEntries = 128
	DefaultSetTimeout = 30 * time.Second
)

// Source produces fresh results; *chase.Service satisfies it.
type Source interface {
	Top(ctx context.Context, setID string, limit int) chase.Result
	Sets() []model.Set
	Known(setID string) bool
	Strategy() chase.Strategy
	DefaultLimit() int
}

// CacheMetadata tracks cache freshness
type CacheMetadata struct {
	LastRefresh     time.Time `json:"lastRefresh"`
	RefreshSource   string    `json:"refreshSource"` // "startup", "schedule" or "manual"
	TotalSets       int       `json:"totalSets"`
	LiveSets        int       `json:"liveSets"`
	RefreshDuration string    `json:"refreshDuration"`
}

// Options configures a WebCache.
type Options struct {
	TTL        time.Duration
	MaxEntries int
	SetTimeout time.Duration // per-set bound during a refresh
	Logger     zerolog.Logger
}

// WebCache serves results through an in-memory cache and refreshes every
// dropdown set on demand or on a cron schedule.
type WebCache struct {
	src        Source
	results    *cache.Memory[chase.Result]
	ttl        time.Duration
	setTimeout time.Duration
	log        zerolog.Logger

	scheduler *cron.Cron
	refreshMu sync.Mutex

	metaMu   sync.RWMutex
	metadata CacheMetadata
}

// NewWebCache creates a cache in front of src
func NewWebCache(src Source, opts Options) *WebCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.SetTimeout <= 0 {
		opts.SetTimeout = DefaultSetTimeout
	}
	return &WebCache{
		src:        src,
		results:    cache.NewMemory[chase.Result](opts.MaxEntries, opts.TTL),
		ttl:        opts.TTL,
		setTimeout: opts.SetTimeout,
		log:        opts.Logger,
	}
}

// Top returns a cached result when one is fresh, otherwise asks the source.
// Only live results are stored, so sample data is retried on the next view.
func (wc *WebCache) Top(ctx context.Context, setID string, limit int) chase.Result {
	if limit <= 0 {
		limit = wc.src.DefaultLimit()
	}
	key := cache.ResultKey(string(wc.src.Strategy()), setID, limit)
	if res, ok := wc.results.Get(key); ok {
		return res
	}

	res := wc.src.Top(ctx, setID, limit)
	wc.store(key, res)
	return res
}

// Sets returns the dropdown options.
func (wc *WebCache) Sets() []model.Set { return wc.src.Sets() }

// Strategy reports the strategy of the underlying source.
func (wc *WebCache) Strategy() chase.Strategy { return wc.src.Strategy() }

// DefaultLimit is the limit of the underlying source.
func (wc *WebCache) DefaultLimit() int { return wc.src.DefaultLimit() }

// Known reports whether setID is a supported set.
func (wc *WebCache) Known(setID string) bool { return wc.src.Known(setID) }

// Status is the health snapshot of the cache.
type Status struct {
	Refresh     CacheMetadata `json:"refresh"`
	Stale       bool          `json:"stale"`
	NextRefresh *time.Time    `json:"nextRefresh,omitempty"`
	Cache       cache.Stats   `json:"cache"`
}

// Status reports the last refresh, the next scheduled one and the cache
// counters.
func (wc *WebCache) Status() Status {
	st := Status{
		Refresh: wc.Metadata(),
		Stale:   wc.IsStale(),
		Cache:   wc.Stats(),
	}
	if next := wc.NextRefresh(); !next.IsZero() {
		st.NextRefresh = &next
	}
	return st
}

// Stats exposes the underlying cache counters.
func (wc *WebCache) Stats() cache.Stats { return wc.results.Stats() }

// Metadata returns the outcome of the most recent refresh.
func (wc *WebCache) Metadata() CacheMetadata {
	wc.metaMu.RLock()
	defer wc.metaMu.RUnlock()
	return wc.metadata
}

// IsStale reports whether the last refresh is older than the cache TTL.
func (wc *WebCache) IsStale() bool {
	last := wc.Metadata().LastRefresh
	return last.IsZero() || time.Since(last) > wc.ttl
}

func (wc *WebCache) store(key string, res chase.Result) bool {
	if res.Fallback || res.Notice == chase.NoticeUnsupported {
		return false
	}
	wc.results.Set(key, res, wc.ttl)
	return true
}
