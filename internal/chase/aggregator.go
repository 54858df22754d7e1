// Package chase ranks the most valuable chase-rarity cards of a set.
package chase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/guarzo/pkmchase/internal/concurrent"
	"github.com/guarzo/pkmchase/internal/fallback"
	"github.com/guarzo/pkmchase/internal/model"
	"github.com/guarzo/pkmchase/internal/prices"
	"github.com/guarzo/pkmchase/internal/pricing"
	"github.com/guarzo/pkmchase/internal/ratelimit"
	"github.com/guarzo/pkmchase/internal/rarity"
	"github.com/guarzo/pkmchase/internal/sets"
)

// Strategy selects which upstreams feed the ranking.
type Strategy string

const (
	// PriceOnly ranks one page of records from the price source.
	PriceOnly Strategy = "price-only"
	// Hybrid takes rarity from the catalog and spends a capped number of
	// live price lookups on the best candidates.
	Hybrid Strategy = "hybrid"
)

// ParseStrategy accepts the names used in configuration.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PriceOnly:
		return PriceOnly, nil
	case Hybrid:
		return Hybrid, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want %s or %s)", s, PriceOnly, Hybrid)
	}
}

const (
	// CatalogPageSize is the catalog page pulled in hybrid mode.
	CatalogPageSize = 100
	DefaultLimit    = 10
	DefaultCap      = 20
	DefaultWorkers  = 4
)

// Catalog is the card metadata source used in hybrid mode.
type Catalog interface {
	CardsBySet(ctx context.Context, setID string, pageSize int) ([]model.Card, error)
}

// Aggregator produces the ranked chase list for one set. Its fields are
// read-only once it serves requests.
type Aggregator struct {
	Strategy Strategy
	Sets     *sets.Registry
	Catalog  Catalog
	Prices   prices.Provider
	Fallback *fallback.Table

	// Cap is the per-request ceiling on live price lookups in hybrid mode.
	Cap     int
	Workers int

	// Quota is shared by every request; nil means unlimited.
	Quota *ratelimit.DailyQuota

	Logger zerolog.Logger
}

// TopChaseCards returns at most limit chase cards for uiSetID, most valuable
// first, ranked 1..n. Failures are typed (see model) and never replaced by
// sample data here.
func (a *Aggregator) TopChaseCards(ctx context.Context, uiSetID string, limit int) ([]model.RankedCard, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	var (
		candidates []model.RankedCard
		err        error
	)
	switch a.Strategy {
	case Hybrid:
		candidates, err = a.hybridCandidates(ctx, uiSetID, limit)
	default:
		candidates, err = a.priceOnlyCandidates(ctx, uiSetID)
	}
	if err != nil {
		return nil, err
	}
	return rank(candidates, limit), nil
}

func (a *Aggregator) priceOnlyCandidates(ctx context.Context, uiSetID string) ([]model.RankedCard, error) {
	priceID, err := a.Sets.Price.Resolve(uiSetID)
	if err != nil {
		return nil, err
	}

	records, err := a.Prices.SetPrices(ctx, priceID, prices.MaxSetPage)
	if err != nil {
		return nil, fmt.Errorf("set prices for %s: %w", uiSetID, err)
	}
	if len(records) == 0 {
		return nil, &model.UpstreamRequestError{Source: a.Prices.GetProviderName(), Err: fmt.Errorf("no cards for set %s", priceID)}
	}

	chase := rarity.FilterChase(records)
	candidates := make([]model.RankedCard, 0, len(chase))
	for _, card := range chase {
		card.SetID = uiSetID
		quotes := pricing.Quotes(card)
		candidates = append(candidates, model.RankedCard{
			Card:           card,
			Quotes:         quotes,
			HasLivePricing: len(quotes) > 0,
		})
	}

	a.Logger.Debug().
		Str("set", uiSetID).
		Int("records", len(records)).
		Int("chase", len(chase)).
		Msg("price-only candidates")
	return candidates, nil
}

func (a *Aggregator) hybridCandidates(ctx context.Context, uiSetID string, limit int) ([]model.RankedCard, error) {
	catalogID, err := a.Sets.Catalog.Resolve(uiSetID)
	if err != nil {
		return nil, err
	}
	priceID, err := a.Sets.Price.Resolve(uiSetID)
	if err != nil {
		return nil, err
	}
	if !a.Prices.Available() {
		return nil, &model.MissingCredentialError{Provider: a.Prices.GetProviderName()}
	}

	catalog, err := a.Catalog.CardsBySet(ctx, catalogID, CatalogPageSize)
	if err != nil {
		return nil, fmt.Errorf("catalog for %s: %w", uiSetID, err)
	}

	chase := rarity.FilterChase(catalog)
	if window := 2 * limit; len(chase) > window {
		chase = chase[:window]
	}

	gate := ratelimit.All(ratelimit.NewBudget(a.Cap), a.Quota)
	lookup := func(ctx context.Context, card model.Card) (model.Card, error) {
		return a.Prices.CardPrice(ctx, card, priceID)
	}
	results, metrics := concurrent.PriceLookups(ctx, a.Workers, gate, chase, lookup)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := make([]model.RankedCard, 0, len(results))
	for _, r := range results {
		card := r.Card
		card.SetID = uiSetID
		rc := model.RankedCard{Card: card}

		if r.Called && r.Error != nil {
			a.Logger.Warn().Err(r.Error).Str("set", uiSetID).Str("card", card.Name).Msg("live price lookup failed")
		}
		if r.Called && r.Error == nil {
			if quotes := pricing.Quotes(r.Priced); len(quotes) > 0 {
				rc.Quotes = quotes
				rc.HasLivePricing = true
			}
		}
		if !rc.HasLivePricing {
			rc.Quotes = a.offlineQuotes(uiSetID, card)
		}
		candidates = append(candidates, rc)
	}

	a.Logger.Debug().
		Str("set", uiSetID).
		Int("catalog", len(catalog)).
		Int("candidates", metrics.Candidates).
		Int("calls", metrics.APICallsMade).
		Int("failed", metrics.FailedRequests).
		Int("skipped", metrics.Skipped).
		Dur("avg_latency", metrics.AverageLatency).
		Msg("hybrid price lookups")
	return candidates, nil
}

// offlineQuotes prices a card without a live call: the curated table first,
// then whatever the catalog embedded.
func (a *Aggregator) offlineQuotes(uiSetID string, card model.Card) []model.PriceQuote {
	if a.Fallback != nil {
		if p, ok := a.Fallback.Lookup(uiSetID, card.Name, card.Number); ok {
			return []model.PriceQuote{{Source: model.SourceFallback, Market: p, Low: p, High: p}}
		}
	}
	return pricing.Quotes(card)
}

// rank drops unpriced candidates, orders the rest by best price descending
// (ties keep their incoming order) and assigns ranks 1..n.
func rank(candidates []model.RankedCard, limit int) []model.RankedCard {
	priced := make([]model.RankedCard, 0, len(candidates))
	for _, c := range candidates {
		if c.BestPrice() > 0 {
			priced = append(priced, c)
		}
	}
	sort.SliceStable(priced, func(i, j int) bool {
		return priced[i].BestPrice() > priced[j].BestPrice()
	})
	if len(priced) > limit {
		priced = priced[:limit]
	}
	for i := range priced {
		priced[i].Rank = i + 1
	}
	return priced
}
