// Command rescuedrill-server hosts rescue drill scenes for browser clients
// over websockets. Narration clips are served from the clips directory under
// /clips/.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/koscakluka/ema-rescue/core/host/wsbridge"
	"github.com/koscakluka/ema-rescue/internal/config"
	"github.com/koscakluka/ema-rescue/internal/logging"
)

func main() {
	// Load .env file if present (ignored if missing)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg, os.Stdout)

	bridge := wsbridge.NewServer(wsbridge.WithSceneOptions(cfg.SceneOptions()...))

	mux := http.NewServeMux()
	mux.Handle("/", bridge.Handler())
	mux.Handle("GET /clips/", http.StripPrefix("/clips/", http.FileServer(http.Dir(cfg.Audio.ClipsDir))))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received; stopping server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := bridge.Close(shutdownCtx); err != nil {
			logger.Warn("sessions did not close in time", "error", err)
		}
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.Server.Addr, "environment", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped", "rewards", bridge.Rewards().Total())
}
