package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdelaire/linedraw/adapters/line_events"
	"github.com/jdelaire/linedraw/adapters/line_replier"
	"github.com/jdelaire/linedraw/core"
	"github.com/jdelaire/linedraw/core/auth"
	"github.com/jdelaire/linedraw/core/commands"
	"github.com/jdelaire/linedraw/internal/config"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var configPath, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		Long:  "Serve POST /callback for LINE webhooks. Credentials come from CHANNEL_SECRET / CHANNEL_ACCESS_TOKEN, the config file, .env or the system keychain.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, stderr io.Writer) error {
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))

	srv, err := buildServer(cfg, line_replier.New(cfg.ChannelAccessToken), logger)
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildServer wires the signature gate, decoder, command table and replier.
func buildServer(cfg *config.Config, replier core.Replier, logger *slog.Logger) (*core.Server, error) {
	verifier, err := auth.New(cfg.ChannelSecret)
	if err != nil {
		return nil, fmt.Errorf("signature verifier: %w", err)
	}

	table := commands.Default(commands.WithAudioDuration(cfg.AudioDuration()))
	logger.Info("commands loaded", "triggers", table.Triggers(), "replier", replier.Name())

	dispatcher := core.NewDispatcher(table, replier, logger)
	return core.NewServer(core.ServerConfig{
		Addr:      cfg.Addr,
		PublicURL: cfg.PublicURL,
		StaticDir: cfg.StaticDir,
	}, verifier, line_events.New(), dispatcher, logger), nil
}
