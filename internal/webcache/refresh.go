package webcache

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/guarzo/pkmchase/internal/cache"
)

// PerformRefresh recomputes every dropdown set at the default limit. A
// refresh already in progress makes this call a no-op.
func (wc *WebCache) PerformRefresh(ctx context.Context, source string) (CacheMetadata, error) {
	if !wc.refreshMu.TryLock() {
		return wc.Metadata(), fmt.Errorf("refresh already running")
	}
	defer wc.refreshMu.Unlock()

	start := time.Now()
	sets := wc.src.Sets()
	limit := wc.src.DefaultLimit()
	strategy := string(wc.src.Strategy())

	expired := wc.results.Clean()
	wc.log.Info().Str("source", source).Int("sets", len(sets)).Int("expired", expired).Msg("starting web cache refresh")

	live := 0
	for _, set := range sets {
		if err := ctx.Err(); err != nil {
			return wc.Metadata(), fmt.Errorf("refresh cancelled: %w", err)
		}

		setCtx, cancel := context.WithTimeout(ctx, wc.setTimeout)
		res := wc.src.Top(setCtx, set.ID, limit)
		cancel()

		key := cache.ResultKey(strategy, set.ID, limit)
		if wc.store(key, res) {
			live++
		} else {
			// An older live result must not outlive a refresh that fell back.
			wc.results.Delete(key)
			wc.log.Debug().Str("set", set.ID).Str("notice", res.Notice).Msg("set not cached")
		}
	}

	metadata := CacheMetadata{
		LastRefresh:     time.Now(),
		RefreshSource:   source,
		TotalSets:       len(sets),
		LiveSets:        live,
		RefreshDuration: time.Since(start).Round(time.Millisecond).String(),
	}
	wc.metaMu.Lock()
	wc.metadata = metadata
	wc.metaMu.Unlock()

	wc.log.Info().
		Int("live", live).
		Int("sets", len(sets)).
		Str("duration", metadata.RefreshDuration).
		Msg("web cache refresh complete")
	return metadata, nil
}

// Start schedules PerformRefresh with a standard five-field cron spec. An
// empty spec disables scheduling.
func (wc *WebCache) Start(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid warm schedule %q: %w", spec, err)
	}

	wc.scheduler = cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger)))
	if _, err := wc.scheduler.AddFunc(spec, func() {
		if _, err := wc.PerformRefresh(context.Background(), "schedule"); err != nil {
			wc.log.Warn().Err(err).Msg("scheduled refresh skipped")
		}
	}); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	wc.scheduler.Start()
	wc.log.Info().Str("schedule", spec).Msg("web cache warm-up scheduled")
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish or for
// ctx to end.
func (wc *WebCache) Stop(ctx context.Context) {
	if wc.scheduler == nil {
		return
	}
	select {
	case <-wc.scheduler.Stop().Done():
	case <-ctx.Done():
	}
}

// NextRefresh returns the next scheduled run, or the zero time when no
// schedule is active.
func (wc *WebCache) NextRefresh() time.Time {
	if wc.scheduler == nil {
		return time.Time{}
	}
	entries := wc.scheduler.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
