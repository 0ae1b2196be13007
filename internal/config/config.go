// Package config loads the settings shared by the rescue drill binaries.
//
// Values come from defaults, an optional rescuedrill.yaml and RESCUE_
// prefixed environment variables, in increasing order of precedence. A key
// such as listener.window is read from RESCUE_LISTENER_WINDOW.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	orchestration "github.com/koscakluka/ema-rescue/core"
	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/script"
)

const (
	EnvPrefix = "RESCUE"
	FileName  = "rescuedrill"
)

// Audio backends.
const (
	BackendMiniaudio = "miniaudio"
	BackendPortaudio = "portaudio"
	BackendNone      = "none"
)

// Listener sources for the terminal host.
const (
	// SourceTyped treats typed lines as speech recognition results.
	SourceTyped = "typed"
	// SourceVolume classifies microphone loudness instead.
	SourceVolume = "volume"
)

type Config struct {
	Environment string

	Log struct {
		Level slog.Level
		File  string
	}

	Scene struct {
		Character        script.Character
		RewardTokens     int
		StatusClearDelay time.Duration
		StrictContracts  bool
	}

	Listener struct {
		Window          time.Duration
		SampleInterval  time.Duration
		Thresholds      intent.VolumeThresholds
		Language        string
		MaxAlternatives int
		Source          string
	}

	Audio struct {
		Backend  string
		ClipsDir string
	}

	Server struct {
		Addr string
	}
}

type options struct {
	paths []string
	file  string
}

type Option func(*options)

// WithSearchPaths replaces the directories searched for rescuedrill.yaml.
func WithSearchPaths(paths ...string) Option {
	return func(o *options) { o.paths = paths }
}

// WithFile reads the given config file instead of searching for one. The
// file must exist.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "rescuedrill.log")

	v.SetDefault("scene.character", string(script.DefaultCharacter))
	v.SetDefault("scene.reward_tokens", 10)
	v.SetDefault("scene.status_clear_delay", orchestration.DefaultStatusClearDelay)

	thresholds := intent.DefaultVolumeThresholds()
	v.SetDefault("listener.window", orchestration.DefaultListenWindow)
	v.SetDefault("listener.sample_interval", orchestration.DefaultSampleInterval)
	v.SetDefault("listener.min_audible", thresholds.MinAudible)
	v.SetDefault("listener.scream_peak", thresholds.ScreamPeak)
	v.SetDefault("listener.scream_average", thresholds.ScreamAverage)
	v.SetDefault("listener.language", "ar-SA")
	v.SetDefault("listener.max_alternatives", 5)
	v.SetDefault("listener.source", SourceTyped)

	v.SetDefault("audio.backend", BackendMiniaudio)
	v.SetDefault("audio.clips_dir", "assets/audio")

	v.SetDefault("server.addr", ":8080")
}

func Load(opts ...Option) (*Config, error) {
	o := options{paths: []string{"."}}
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.file != "" {
		v.SetConfigFile(o.file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", o.file, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, path := range o.paths {
			v.AddConfigPath(path)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var c Config
	c.Environment = v.GetString("environment")
	c.Log.Level = parseLogLevel(v.GetString("log.level"))
	c.Log.File = v.GetString("log.file")

	c.Scene.Character = script.Character(strings.ToLower(v.GetString("scene.character")))
	c.Scene.RewardTokens = v.GetInt("scene.reward_tokens")
	c.Scene.StatusClearDelay = v.GetDuration("scene.status_clear_delay")
	c.Scene.StrictContracts = c.Environment == "development"
	if v.IsSet("scene.strict_contracts") {
		c.Scene.StrictContracts = v.GetBool("scene.strict_contracts")
	}

	c.Listener.Window = v.GetDuration("listener.window")
	c.Listener.SampleInterval = v.GetDuration("listener.sample_interval")
	c.Listener.Thresholds = intent.VolumeThresholds{
		MinAudible:    v.GetFloat64("listener.min_audible"),
		ScreamAverage: v.GetFloat64("listener.scream_average"),
		ScreamPeak:    v.GetFloat64("listener.scream_peak"),
	}
	c.Listener.Language = v.GetString("listener.language")
	c.Listener.MaxAlternatives = v.GetInt("listener.max_alternatives")
	c.Listener.Source = strings.ToLower(v.GetString("listener.source"))

	c.Audio.Backend = strings.ToLower(v.GetString("audio.backend"))
	c.Audio.ClipsDir = v.GetString("audio.clips_dir")

	c.Server.Addr = v.GetString("server.addr")

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate reports the first setting the scene could not run with.
func (c *Config) Validate() error {
	if _, ok := script.ParseCharacter(c.Scene.Character.String()); !ok {
		return fmt.Errorf("unknown scene.character %q", c.Scene.Character)
	}
	if c.Scene.RewardTokens < 0 {
		return fmt.Errorf("scene.reward_tokens must not be negative, got %d", c.Scene.RewardTokens)
	}
	if c.Listener.SampleInterval <= 0 || c.Listener.Window < c.Listener.SampleInterval {
		return fmt.Errorf("listener.window (%s) must hold at least one listener.sample_interval (%s)", c.Listener.Window, c.Listener.SampleInterval)
	}
	if t := c.Listener.Thresholds; t.MinAudible < 0 || t.ScreamAverage < t.MinAudible || t.ScreamPeak < t.MinAudible {
		return fmt.Errorf("listener thresholds must satisfy 0 <= min_audible <= scream_average, scream_peak, got %+v", t)
	}
	switch c.Audio.Backend {
	case BackendMiniaudio, BackendPortaudio, BackendNone:
	default:
		return fmt.Errorf("unknown audio.backend %q", c.Audio.Backend)
	}
	switch c.Listener.Source {
	case SourceTyped:
	case SourceVolume:
		if c.Audio.Backend == BackendNone {
			return fmt.Errorf("listener.source %q needs an audio.backend", SourceVolume)
		}
	default:
		return fmt.Errorf("unknown listener.source %q", c.Listener.Source)
	}
	return nil
}

// SceneOptions maps the scene and listener settings onto scene options.
func (c *Config) SceneOptions() []orchestration.SceneOption {
	return []orchestration.SceneOption{
		orchestration.WithCharacter(c.Scene.Character),
		orchestration.WithRewardTokens(c.Scene.RewardTokens),
		orchestration.WithStatusClearDelay(c.Scene.StatusClearDelay),
		orchestration.WithStrictContracts(c.Scene.StrictContracts),
		orchestration.WithListenWindow(c.Listener.Window),
		orchestration.WithSampleInterval(c.Listener.SampleInterval),
		orchestration.WithVolumeThresholds(c.Listener.Thresholds),
		orchestration.WithClassifier(intent.NewKeywordClassifier(intent.WithVolumeThresholds(c.Listener.Thresholds))),
		orchestration.WithLanguage(c.Listener.Language),
		orchestration.WithMaxAlternatives(c.Listener.MaxAlternatives),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
