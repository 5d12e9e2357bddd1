package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/longkey1/healthbot/internal/healthbot/session"
	"github.com/longkey1/healthbot/internal/logger"
	"github.com/longkey1/healthbot/internal/server"
	"github.com/longkey1/healthbot/internal/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

var listenAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web chat server",
	Long: `Start the web chat server.

The server hosts a single-page chat UI at / and a JSON API under /api/v1.
Every browser tab gets its own conversation; idle conversations are dropped
after session_idle_timeout.

The OpenAPI document is served at /apidocs.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.ListenAddr = listenAddr
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log := logger.New(level, cfg.LogFormat, os.Stderr)

		a, err := newAssistant(cfg, &log)
		if err != nil {
			return err
		}

		registry := session.NewRegistry(cfg.SessionIdleTimeout)
		handler := server.NewHandler(a, registry, cfg.Model, &log)
		container := server.NewContainer(handler, &log)

		srv := &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      server.NewHTTPHandler(container, cfg.AllowedOrigins),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: cfg.RequestTimeout + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go sweepSessions(ctx, registry, &log)

		serverErr := make(chan error, 1)
		go func() {
			log.Info().
				Str("addr", srv.Addr).
				Str("model", cfg.Model).
				Str("version", version.Short()).
				Msg("starting server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()

		select {
		case err := <-serverErr:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logDroppedSessions(registry, &log)
		log.Info().Msg("server stopped")
		return nil
	},
}

// logDroppedSessions reports the conversations lost with the process.
func logDroppedSessions(registry *session.Registry, log *zerolog.Logger) {
	sessions := registry.List()
	if len(sessions) == 0 {
		return
	}
	log.Info().Int("sessions", len(sessions)).Msg("dropping in-memory sessions")
	for _, s := range sessions {
		log.Debug().
			Str("session", s.GetShortID()).
			Int("messages", s.MessageCount()).
			Time("created_at", s.CreatedAt).
			Msg("dropped session")
	}
}

// sweepSessions drops idle sessions until ctx is done.
func sweepSessions(ctx context.Context, registry *session.Registry, log *zerolog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := registry.Sweep(now); n > 0 {
				log.Debug().Int("removed", n).Int("active", registry.Len()).Msg("swept idle sessions")
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (format: provider:model, e.g., gemini:gemini-2.5-flash)")
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (default from config, e.g. :8501)")
}
