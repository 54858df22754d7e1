package webcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/guarzo/pkmchase/internal/chase"
	"github.com/guarzo/pkmchase/internal/model"
)

type fakeSource struct {
	mu       sync.Mutex
	calls    map[string]int
	fallback map[string]bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{calls: map[string]int{}, fallback: map[string]bool{}}
}

func (f *fakeSource) Top(ctx context.Context, setID string, limit int) chase.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[setID]++

	res := chase.Result{SetID: setID, Strategy: chase.PriceOnly}
	switch {
	case setID == "sv99":
		res.Notice = chase.NoticeUnsupported
	case f.fallback[setID]:
		res.Fallback = true
		res.Notice = chase.NoticeSample
	default:
		res.Cards = []model.RankedCard{{Card: model.Card{Name: "Card"}, Rank: 1}}
	}
	return res
}

func (f *fakeSource) Sets() []model.Set {
	return []model.Set{{ID: "sv1", Name: "Scarlet & Violet"}, {ID: "sv2", Name: "Paldea Evolved"}, {ID: "sv3", Name: "Obsidian Flames"}}
}

func (f *fakeSource) Known(setID string) bool { return setID != "sv99" }

func (f *fakeSource) Strategy() chase.Strategy { return chase.PriceOnly }

func (f *fakeSource) DefaultLimit() int { return 10 }

func (f *fakeSource) count(setID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[setID]
}

func TestWebCache_TopCachesLiveResults(t *testing.T) {
	src := newFakeSource()
	wc := NewWebCache(src, Options{TTL: time.Minute})

	for i := 0; i < 3; i++ {
		res := wc.Top(context.Background(), "sv1", 0)
		if len(res.Cards) != 1 {
			t.Fatalf("unexpected result %+v", res)
		}
	}
	if src.count("sv1") != 1 {
		t.Errorf("expected 1 source call, got %d", src.count("sv1"))
	}

	wc.Top(context.Background(), "sv1", 5)
	if src.count("sv1") != 2 {
		t.Errorf("a different limit should miss the cache, got %d calls", src.count("sv1"))
	}

	wc.Top(context.Background(), "sv1", 5)
	if src.count("sv1") != 2 {
		t.Errorf("repeated limit should hit the cache, got %d calls", src.count("sv1"))
	}

	if stats := wc.Stats(); stats.Hits != 3 || stats.Items != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestWebCache_SkipsSampleAndUnsupported(t *testing.T) {
	src := newFakeSource()
	src.fallback["sv2"] = true
	wc := NewWebCache(src, Options{})

	for i := 0; i < 2; i++ {
		wc.Top(context.Background(), "sv2", 10)
		wc.Top(context.Background(), "sv99", 10)
	}
	if src.count("sv2") != 2 || src.count("sv99") != 2 {
		t.Errorf("sample and unsupported results must not be cached: sv2=%d sv99=%d", src.count("sv2"), src.count("sv99"))
	}
}

func TestWebCache_PerformRefresh(t *testing.T) {
	src := newFakeSource()
	src.fallback["sv3"] = true
	wc := NewWebCache(src, Options{})

	if !wc.IsStale() {
		t.Error("a cache that never refreshed should be stale")
	}

	meta, err := wc.PerformRefresh(context.Background(), "manual")
	if err != nil {
		t.Fatalf("PerformRefresh: %v", err)
	}
	if meta.TotalSets != 3 || meta.LiveSets != 2 || meta.RefreshSource != "manual" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if wc.IsStale() || wc.Metadata().LastRefresh.IsZero() {
		t.Error("expected fresh metadata after refresh")
	}

	wc.Top(context.Background(), "sv1", 0)
	if src.count("sv1") != 1 {
		t.Errorf("warmed set should be served from cache, got %d calls", src.count("sv1"))
	}
}

func TestWebCache_Status(t *testing.T) {
	src := newFakeSource()
	wc := NewWebCache(src, Options{})

	st := wc.Status()
	if !st.Stale || st.NextRefresh != nil || !st.Refresh.LastRefresh.IsZero() {
		t.Errorf("unexpected status before refresh %+v", st)
	}

	if _, err := wc.PerformRefresh(context.Background(), "startup"); err != nil {
		t.Fatalf("PerformRefresh: %v", err)
	}
	if err := wc.Start("@every 1h"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	defer wc.Stop(ctx)

	st = wc.Status()
	if st.Stale || st.Refresh.RefreshSource != "startup" || st.Refresh.LiveSets != 3 {
		t.Errorf("unexpected status after refresh %+v", st)
	}
	if st.NextRefresh == nil || st.NextRefresh.Before(time.Now()) {
		t.Errorf("expected a scheduled next refresh, got %v", st.NextRefresh)
	}
	if st.Cache.Items != 3 {
		t.Errorf("expected 3 warmed entries, got %+v", st.Cache)
	}
}

func TestWebCache_RefreshDropsSetsThatFellBack(t *testing.T) {
	src := newFakeSource()
	wc := NewWebCache(src, Options{})

	if _, err := wc.PerformRefresh(context.Background(), "startup"); err != nil {
		t.Fatalf("PerformRefresh: %v", err)
	}
	src.fallback["sv2"] = true
	meta, err := wc.PerformRefresh(context.Background(), "manual")
	if err != nil {
		t.Fatalf("PerformRefresh: %v", err)
	}
	if meta.LiveSets != 2 {
		t.Errorf("expected 2 live sets, got %+v", meta)
	}

	res := wc.Top(context.Background(), "sv2", 0)
	if !res.Fallback {
		t.Errorf("stale live result served after a fallback refresh: %+v", res)
	}
	if src.count("sv2") != 3 {
		t.Errorf("expected sv2 to be recomputed, got %d calls", src.count("sv2"))
	}
}

func TestWebCache_RefreshCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	wc := NewWebCache(newFakeSource(), Options{})
	if _, err := wc.PerformRefresh(ctx, "manual"); err == nil {
		t.Error("expected an error for a cancelled refresh")
	}
}

func TestWebCache_Schedule(t *testing.T) {
	wc := NewWebCache(newFakeSource(), Options{})

	if err := wc.Start(""); err != nil || !wc.NextRefresh().IsZero() {
		t.Errorf("empty spec should disable scheduling: %v", err)
	}
	if err := wc.Start("not a schedule"); err == nil {
		t.Error("expected an invalid spec error")
	}

	if err := wc.Start("*/30 * * * *"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	defer wc.Stop(ctx)

	next := wc.NextRefresh()
	if next.IsZero() || next.Sub(time.Now()) > 30*time.Minute {
		t.Errorf("unexpected next refresh %v", next)
	}
}
