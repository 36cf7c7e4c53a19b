package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vibe-planner/config"
	"vibe-planner/internal/handlers"
	"vibe-planner/internal/planner"
	"vibe-planner/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var configPath, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the Vibe Planner web server.

Configuration comes from environment variables and, optionally, a yaml file.

Examples:
  vibe-planner serve
  vibe-planner serve --config config.yaml --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a yaml config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SERVER_ADDR)")

	return cmd
}

func runServe(parent context.Context, configPath, addr string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	config.SetupLogger(cfg.Server.Mode)
	gin.SetMode(cfg.Server.Mode)

	config.ConnectRedis(ctx, cfg.Redis)
	defer config.CloseRedis()

	if err := config.InitGoogleServices(ctx, cfg); err != nil {
		return err
	}
	defer config.CloseGoogleServices()

	plan := planner.New(newGenerator(cfg), cfg.LLM.RatePerMinute, cfg.LLM.Timeout).WithLocation(config.Location())
	handlers.Init(plan, nil)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	routes.SetupRoutes(r)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", cfg.Server.Addr, "provider", cfg.LLM.Provider, "model", cfg.LLM.Model())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// newGenerator returns the model client for the configured provider, or nil
// when its API key is missing.
func newGenerator(cfg *config.Config) planner.Generator {
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		if config.GeminiClient == nil {
			return nil
		}
		return planner.NewGeminiGenerator(config.GeminiClient)
	default:
		if cfg.LLM.OpenRouterAPIKey == "" {
			slog.Warn("OPENROUTER_API_KEY environment variable not set, schedule generation is disabled.")
			return nil
		}
		return planner.NewOpenRouterGenerator(cfg.LLM.OpenRouterAPIKey, cfg.LLM.Model())
	}
}
