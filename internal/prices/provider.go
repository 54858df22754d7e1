package prices

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/guarzo/pkmchase/internal/model"
)

// Provider defines the interface for live price sources
type Provider interface {
	// Available returns true if the provider is configured
	Available() bool

	// SetPrices returns up to limit priced card records for a price-source set id
	SetPrices(ctx context.Context, setID string, limit int) ([]model.Card, error)

	// CardPrice looks up the price record of one printing within a set.
	// Printings share names, so the collector number decides between them.
	CardPrice(ctx context.Context, card model.Card, setID string) (model.Card, error)

	// GetProviderName returns the name of the provider
	GetProviderName() string
}

// Config holds configuration for the price source
type Config struct {
	PokemonPriceTrackerAPIKey string
	PokemonPriceTrackerURL    string

	RequestTimeout  time.Duration
	RateLimitPerMin int // 0 disables client-side pacing

	Logger zerolog.Logger
}

// MaxSetPage is the largest page the set endpoint is asked for.
const MaxSetPage = 50
