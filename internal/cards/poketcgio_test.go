package cards

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guarzo/pkmchase/internal/cache"
	"github.com/guarzo/pkmchase/internal/model"
	"github.com/guarzo/pkmchase/internal/testutil"
)

func newTestClient(url string, c *cache.Memory[[]model.Card]) *PokeTCGIO {
	return NewPokeTCGIO(Options{
		APIKey:   testutil.GetTestPokemonAPIKey(),
		BaseURL:  url,
		Timeout:  2 * time.Second,
		Cache:    c,
		CacheTTL: time.Minute,
	})
}

func TestPokeTCGIO_CardsBySet(t *testing.T) {
	card := testutil.CatalogCard("sv1-245", "Gardevoir ex", "245", "Special Illustration Rare", "sv1", 50)
	card["cardmarket"] = map[string]any{"prices": map[string]any{"trendPrice": 40.5}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "set.id:sv1" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("pageSize"); got != "100" {
			t.Errorf("pageSize = %q", got)
		}
		if got := r.Header.Get("X-Api-Key"); got == "" {
			t.Error("expected X-Api-Key header")
		}
		_, _ = w.Write(testutil.Wrap("data",
			card,
			testutil.CatalogCard("sv1-1", "Sprigatito", "1", "Common", "sv1", 0),
		))
	}))
	defer server.Close()

	cards, err := newTestClient(server.URL, nil).CardsBySet(context.Background(), "sv1", 100)
	if err != nil {
		t.Fatalf("CardsBySet: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	got := cards[0]
	if got.ID != "sv1-245" || got.Name != "Gardevoir ex" || got.Number != "245" || got.SetID != "sv1" {
		t.Errorf("unexpected card: %+v", got)
	}
	if got.ImageURL != "https://images.test/sv1-245_hires.png" {
		t.Errorf("expected large image, got %q", got.ImageURL)
	}
	if _, ok := got.Raw[model.SourceTCGPlayer]; !ok {
		t.Error("expected tcgplayer payload")
	}
	if cm := got.Raw[model.SourceCardmarket]; cm["trendPrice"] != 40.5 {
		t.Errorf("expected cardmarket prices payload, got %v", cm)
	}
	if cards[1].Raw != nil {
		t.Errorf("card without prices should have no raw payloads, got %v", cards[1].Raw)
	}
}

func TestPokeTCGIO_BareListAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(testutil.MustJSON([]map[string]any{
			testutil.CatalogCard("sv2-1", "Test", "1", "Hyper Rare", "sv2", 3),
		}))
	}))
	defer server.Close()

	cards, err := newTestClient(server.URL, nil).CardsBySet(context.Background(), "sv2", 50)
	if err != nil || len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d (%v)", len(cards), err)
	}
}

func TestPokeTCGIO_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		malformed bool
	}{
		{"server error", http.StatusInternalServerError, `{"error":"down"}`, false},
		{"empty catalog", http.StatusOK, `{"data":[]}`, false},
		{"unknown shape", http.StatusOK, `{"results":[]}`, true},
		{"bad record", http.StatusOK, `{"data":[{"id": 5}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL, nil).CardsBySet(context.Background(), "sv1", 100)
			if !model.IsUpstreamFailure(err) {
				t.Fatalf("expected upstream failure, got %v", err)
			}
			var bad *model.MalformedResponseError
			if errors.As(err, &bad) != tt.malformed {
				t.Errorf("malformed = %v, want %v (%v)", !tt.malformed, tt.malformed, err)
			}
		})
	}
}

func TestPokeTCGIO_CacheHit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write(testutil.Wrap("data", testutil.CatalogCard("sv1-1", "Test", "1", "Ultra Rare", "sv1", 1)))
	}))
	defer server.Close()

	p := newTestClient(server.URL, cache.NewMemory[[]model.Card](10, time.Minute))
	for i := 0; i < 3; i++ {
		if _, err := p.CardsBySet(context.Background(), "sv1", 100); err != nil {
			t.Fatalf("CardsBySet: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls.Load())
	}
}

func TestNewPokeTCGIO_Defaults(t *testing.T) {
	p := NewPokeTCGIO(Options{})
	if p.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q", p.baseURL)
	}
	p = NewPokeTCGIO(Options{BaseURL: "http://x/v2/"})
	if p.baseURL != "http://x/v2" {
		t.Errorf("trailing slash not trimmed: %q", p.baseURL)
	}
}
