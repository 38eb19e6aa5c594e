package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hybrid-cipher-go/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			log.Info().
				Str("http_addr", cfg.GetHTTPAddr()).
				Bool("h2c", cfg.IsH2CEnabled()).
				Str("data_dir", cfg.DataDir).
				Str("default_type", cfg.Cipher.DefaultType).
				Msg("Configuration loaded")

			srv, err := server.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				if shutdownErr := srv.Shutdown(context.Background()); shutdownErr != nil {
					log.Warn().Err(shutdownErr).Msg("Shutdown after listener failure")
				}
				return err
			case <-ctx.Done():
				log.Info().Msg("Received shutdown signal")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
