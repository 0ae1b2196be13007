package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/internal/config"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

func TestSetupUsesJSONInProduction(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	cfg := &config.Config{Environment: "production"}
	cfg.Log.Level = slog.LevelInfo

	var out bytes.Buffer
	logger := Setup(cfg, &out)
	logger.Debug("hidden")
	WithSession(logger, "abc").Info("scene started")

	var record map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &record))
	require.Equal(t, "scene started", record["msg"])
	require.Equal(t, "abc", record["session"])
}

func TestSetupUsesTextOutsideProduction(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	cfg := &config.Config{Environment: "development"}
	cfg.Log.Level = slog.LevelDebug

	var out bytes.Buffer
	Setup(cfg, &out)
	slog.Debug("listening", "mode", "speech")

	require.True(t, strings.Contains(out.String(), "msg=listening"))
	require.True(t, strings.Contains(out.String(), "mode=speech"))
}

func TestSetupFileAppends(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	cfg := &config.Config{Environment: "development"}
	cfg.Log.File = filepath.Join(t.TempDir(), "rescuedrill.log")

	logger, closeLog, err := SetupFile(cfg)
	require.NoError(t, err)
	logger.Info("first")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	require.Contains(t, string(data), "msg=first")
}

func TestSetupReceivesLibraryLogs(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	cfg := &config.Config{Environment: "development"}
	cfg.Log.Level = slog.LevelDebug

	var out bytes.Buffer
	Setup(cfg, &out)
	intent.NewKeywordClassifier().ClassifyText("دق دق على الباب")

	require.Contains(t, out.String(), "msg=\"classified transcript\"")
	require.Contains(t, out.String(), "scope=github.com/koscakluka/ema-rescue/core/intent")
	require.Contains(t, out.String(), "choice=knock")
}

func TestSetupFiltersLibraryLogsByLevel(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	cfg := &config.Config{Environment: "production"}
	cfg.Log.Level = slog.LevelInfo

	var out bytes.Buffer
	Setup(cfg, &out)
	logger := otelslog.NewLogger("github.com/koscakluka/ema-rescue/internal/logging/test")
	logger.Debug("hidden")
	logger.Warn("narration clip missing", "clip", "hint", "attempt", 2)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	require.Equal(t, "narration clip missing", record["msg"])
	require.Equal(t, "WARN", record["level"])
	require.Equal(t, "hint", record["clip"])
	require.EqualValues(t, 2, record["attempt"])
}
