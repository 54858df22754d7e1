package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/guarzo/pkmchase/internal/web"
	"github.com/guarzo/pkmchase/internal/webcache"
)

var (
	serveAddr   string
	warmOnStart bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chase-card page and JSON API",
	Long: `Serve starts the HTTP server. When WARM_SCHEDULE holds a cron spec, every
set in the dropdown is recomputed on that schedule so page views are served
from memory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if serveAddr != "" {
			cfg.HTTPAddr = serveAddr
		}
		log.Info().
			Str("strategy", string(cfg.Strategy)).
			Int("limit", cfg.Limit).
			Int("call_cap", cfg.PriceCallCap).
			Int("daily_quota", cfg.PriceDailyQuota).
			Msg("starting pkmchase")
		log.Debug().Interface("config", cfg.Redacted()).Msg("effective configuration")

		wc := webcache.NewWebCache(newService(cfg, log), webcache.Options{
			TTL:    cfg.CacheTTL,
			Logger: log.With().Str("component", "webcache").Logger(),
		})
		if err := wc.Start(cfg.WarmSchedule); err != nil {
			return err
		}
		defer wc.Stop(context.Background())

		if warmOnStart || cfg.WarmSchedule != "" {
			go func() {
				if _, err := wc.PerformRefresh(ctx, "startup"); err != nil {
					log.Warn().Err(err).Msg("startup warm-up failed")
				}
			}()
		}

		srv, err := web.NewServer(cfg.HTTPAddr, wc, log.With().Str("component", "web").Logger())
		if err != nil {
			return fmt.Errorf("build server: %w", err)
		}
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&warmOnStart, "warm", false, "compute every set once at startup (always on when WARM_SCHEDULE is set)")
}
