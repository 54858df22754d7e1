// Package config reads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/guarzo/pkmchase/internal/cards"
	"github.com/guarzo/pkmchase/internal/chase"
	"github.com/guarzo/pkmchase/internal/prices"
)

// Config holds every tunable of the service.
type Config struct {
	PokemonTCGAPIKey          string
	PokemonTCGURL             string
	PokemonPriceTrackerAPIKey string
	PokemonPriceTrackerURL    string

	Strategy         chase.Strategy
	Limit            int
	PriceCallCap     int
	PriceDailyQuota  int
	PriceConcurrency int
	PriceRatePerMin  int

	RequestTimeout time.Duration
	CacheTTL       time.Duration
	WarmSchedule   string

	HTTPAddr string
	LogLevel string
	LogFile  string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		PokemonTCGURL:          cards.DefaultBaseURL,
		PokemonPriceTrackerURL: prices.DefaultBaseURL,
		Strategy:               chase.PriceOnly,
		Limit:                  chase.DefaultLimit,
		PriceCallCap:           chase.DefaultCap,
		PriceDailyQuota:        100,
		PriceConcurrency:       chase.DefaultWorkers,
		RequestTimeout:         5 * time.Second,
		CacheTTL:               15 * time.Minute,
		HTTPAddr:               ":8080",
		LogLevel:               "info",
	}
}

// Load reads .env files (missing files are ignored; existing environment
// variables win) and then the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, reporting every invalid value at once.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	r := reader{lookup: lookup}

	cfg.PokemonTCGAPIKey = r.str("POKEMON_TCG_API_KEY", cfg.PokemonTCGAPIKey)
	cfg.PokemonTCGURL = r.str("POKEMON_TCG_URL", cfg.PokemonTCGURL)
	cfg.PokemonPriceTrackerAPIKey = r.str("POKEMON_PRICE_TRACKER_API_KEY", cfg.PokemonPriceTrackerAPIKey)
	cfg.PokemonPriceTrackerURL = r.str("POKEMON_PRICE_TRACKER_URL", cfg.PokemonPriceTrackerURL)

	if v, ok := r.get("CHASE_STRATEGY"); ok {
		s, err := chase.ParseStrategy(v)
		if err != nil {
			r.fail("CHASE_STRATEGY", err)
		} else {
			cfg.Strategy = s
		}
	}
	cfg.Limit = r.positive("CHASE_LIMIT", cfg.Limit)
	cfg.PriceCallCap = r.nonNegative("PRICE_CALL_CAP", cfg.PriceCallCap)
	cfg.PriceDailyQuota = r.nonNegative("PRICE_DAILY_QUOTA", cfg.PriceDailyQuota)
	cfg.PriceConcurrency = r.positive("PRICE_CONCURRENCY", cfg.PriceConcurrency)
	cfg.PriceRatePerMin = r.nonNegative("PRICE_RATE_PER_MINUTE", cfg.PriceRatePerMin)

	cfg.RequestTimeout = r.duration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.CacheTTL = r.duration("CACHE_TTL", cfg.CacheTTL)
	cfg.WarmSchedule = r.str("WARM_SCHEDULE", cfg.WarmSchedule)

	cfg.HTTPAddr = r.str("HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = r.str("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = r.str("LOG_FILE", cfg.LogFile)

	if len(r.errs) > 0 {
		return Config{}, errors.Join(r.errs...)
	}
	return cfg, nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	c.PokemonTCGAPIKey = redact(c.PokemonTCGAPIKey)
	c.PokemonPriceTrackerAPIKey = redact(c.PokemonPriceTrackerAPIKey)
	return c
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) get(key string) (string, bool) {
	v, ok := r.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *reader) fail(key string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
}

func (r *reader) str(key, def string) string {
	if v, ok := r.get(key); ok {
		return v
	}
	return def
}

func (r *reader) integer(key string, def, floor int) int {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, fmt.Errorf("invalid integer %q", v))
		return def
	}
	if n < floor {
		r.fail(key, fmt.Errorf("must be at least %d, got %d", floor, n))
		return def
	}
	return n
}

func (r *reader) positive(key string, def int) int    { return r.integer(key, def, 1) }
func (r *reader) nonNegative(key string, def int) int { return r.integer(key, def, 0) }

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, fmt.Errorf("invalid duration %q", v))
		return def
	}
	if d <= 0 {
		r.fail(key, fmt.Errorf("must be positive, got %s", v))
		return def
	}
	return d
}
