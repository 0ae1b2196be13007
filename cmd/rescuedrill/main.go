// Command rescuedrill runs the earthquake rescue lesson in the terminal.
//
// Typed lines stand in for speech recognition results. With
// listener.source set to volume, the microphone is sampled instead and the
// loudness decides between knocking and screaming.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	orchestration "github.com/koscakluka/ema-rescue/core"
	"github.com/koscakluka/ema-rescue/core/clips"
	"github.com/koscakluka/ema-rescue/core/events"
	"github.com/koscakluka/ema-rescue/core/narration"
	"github.com/koscakluka/ema-rescue/core/speechtotext/typed"
	"github.com/koscakluka/ema-rescue/internal/config"
	"github.com/koscakluka/ema-rescue/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rescuedrill: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (ignored if missing)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.SetupFile(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	backend, err := openBackend(cfg.Audio.Backend)
	if err != nil {
		return err
	}
	defer backend.Close()

	opts := cfg.SceneOptions()
	if backend.output != nil {
		library := clips.NewLibrary(clips.WithDir(cfg.Audio.ClipsDir))
		for _, clip := range library.Missing() {
			logger.Warn("narration clip is missing; it will be skipped", "clip", clip.String(), "dir", cfg.Audio.ClipsDir)
		}
		player, err := narration.NewStreamPlayer(library, backend.output)
		if err != nil {
			return err
		}
		opts = append(opts, orchestration.WithNarrationPlayer(player))
	}

	var recognizer *typed.Recognizer
	switch cfg.Listener.Source {
	case config.SourceTyped:
		recognizer = typed.New()
		opts = append(opts, orchestration.WithRecognizer(recognizer))
	case config.SourceVolume:
		opts = append(opts, orchestration.WithAudioCapture(backend.capture))
	}

	var program *tea.Program
	opts = append(opts, orchestration.WithEventHandler(func(event events.Event) {
		program.Send(sceneEventMsg{event: event})
	}))
	scene := orchestration.NewScene(opts...)
	logger = logging.WithSession(logger, scene.ID().String())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	program = tea.NewProgram(newModel(ctx, scene, recognizer), tea.WithAltScreen(), tea.WithContext(ctx))
	final, runErr := program.Run()

	teardownCtx, cancelTeardown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTeardown()
	if err := scene.Teardown(teardownCtx); err != nil {
		logger.Warn("scene teardown did not finish", "error", err)
	}

	if m, ok := final.(model); ok {
		logger.Info("session ended", "rewards", m.rewards)
	}
	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run terminal UI: %w", runErr)
	}
	return nil
}
