package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/guarzo/pkmchase/internal/cache"
	"github.com/guarzo/pkmchase/internal/cards"
	"github.com/guarzo/pkmchase/internal/chase"
	"github.com/guarzo/pkmchase/internal/config"
	"github.com/guarzo/pkmchase/internal/fallback"
	"github.com/guarzo/pkmchase/internal/logging"
	"github.com/guarzo/pkmchase/internal/model"
	"github.com/guarzo/pkmchase/internal/prices"
	"github.com/guarzo/pkmchase/internal/ratelimit"
	"github.com/guarzo/pkmchase/internal/sets"
)

var (
	envFile  string
	logLevel string

	cfg config.Config
	log zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pkmchase",
	Short: "Rank the most valuable chase cards of a Pokémon TCG set",
	Long: `pkmchase looks up the highest-value chase-rarity cards of a Pokémon TCG set,
prices them from live marketplace data converted to GBP, and falls back to a
curated table when live pricing is unavailable.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		log = logging.New(logging.Options{
			Level:   cfg.LogLevel,
			File:    cfg.LogFile,
			Console: term.IsTerminal(2),
			Out:     cmd.ErrOrStderr(),
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file (missing files are ignored)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, topCmd, setsCmd, checkCmd)
}

// newService wires the clients, the aggregator and the fallback-substituting
// service from configuration.
func newService(cfg config.Config, log zerolog.Logger) *chase.Service {
	catalog := cards.NewPokeTCGIO(cards.Options{
		APIKey:   cfg.PokemonTCGAPIKey,
		BaseURL:  cfg.PokemonTCGURL,
		Timeout:  cfg.RequestTimeout,
		Cache:    cache.NewMemory[[]model.Card](64, cfg.CacheTTL),
		CacheTTL: cfg.CacheTTL,
		Logger:   log.With().Str("component", "catalog").Logger(),
	})
	priceSource := prices.NewPokemonPriceTrackerProvider(prices.Config{
		PokemonPriceTrackerAPIKey: cfg.PokemonPriceTrackerAPIKey,
		PokemonPriceTrackerURL:    cfg.PokemonPriceTrackerURL,
		RequestTimeout:            cfg.RequestTimeout,
		RateLimitPerMin:           cfg.PriceRatePerMin,
		Logger:                    log.With().Str("component", "prices").Logger(),
	})
	if !priceSource.Available() {
		log.Warn().Msg("POKEMON_PRICE_TRACKER_API_KEY not set, serving sample data only")
	}

	agg := &chase.Aggregator{
		Strategy: cfg.Strategy,
		Sets:     sets.Default(),
		Catalog:  catalog,
		Prices:   priceSource,
		Fallback: fallback.Default(),
		Cap:      cfg.PriceCallCap,
		Workers:  cfg.PriceConcurrency,
		Quota:    ratelimit.NewDailyQuota(cfg.PriceDailyQuota),
		Logger:   log.With().Str("component", "chase").Logger(),
	}
	return chase.NewService(agg, cfg.Limit)
}
