package orchestration

import (
	"context"
	"time"

	"github.com/koscakluka/ema-rescue/core/events"
	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/narration"
	"github.com/koscakluka/ema-rescue/core/outcome"
	"github.com/koscakluka/ema-rescue/core/script"
	"github.com/koscakluka/ema-rescue/core/speechtotext"
	"github.com/koscakluka/ema-rescue/core/timeline"
)

const (
	DefaultListenWindow     = 3 * time.Second
	DefaultSampleInterval   = 50 * time.Millisecond
	DefaultStatusClearDelay = 3 * time.Second
)

type SceneOption func(*Scene)

// AudioCapture is the raw microphone used by the volume fallback. Capture
// must be released by StopCapture even when it delivered nothing.
type AudioCapture interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
}

// WithCharacter sets the trapped character. Unknown characters make Start
// fail.
func WithCharacter(character script.Character) SceneOption {
	return func(s *Scene) { s.character = character }
}

// WithClock replaces the system clock for every scene timeline.
func WithClock(clock timeline.Clock) SceneOption {
	return func(s *Scene) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithClassifier(classifier intent.Classifier) SceneOption {
	return func(s *Scene) {
		if classifier != nil {
			s.classifier = classifier
		}
	}
}

func WithResolver(resolver *outcome.Resolver) SceneOption {
	return func(s *Scene) {
		if resolver != nil {
			s.resolver = resolver
		}
	}
}

// WithRewardTokens is a shorthand for a resolver with a custom victory
// reward.
func WithRewardTokens(tokens int) SceneOption {
	return func(s *Scene) {
		s.resolver = outcome.NewResolver(outcome.WithRewardTokens(tokens))
	}
}

// WithNarrationPlayer sets the narration playback capability. Without one,
// narration clips complete immediately.
func WithNarrationPlayer(player narration.Player) SceneOption {
	return func(s *Scene) { s.narrationPlayer = player }
}

// WithRecognizer sets the speech recognition source. Without one the
// listener always falls back to volume sampling.
func WithRecognizer(recognizer speechtotext.Recognizer) SceneOption {
	return func(s *Scene) {
		if recognizer != nil {
			s.recognizer = recognizer
		}
	}
}

func WithAudioCapture(capture AudioCapture) SceneOption {
	return func(s *Scene) { s.capture = capture }
}

// WithListenWindow sets how long the volume fallback samples before it
// classifies.
func WithListenWindow(window time.Duration) SceneOption {
	return func(s *Scene) {
		if window > 0 {
			s.listenWindow = window
		}
	}
}

func WithSampleInterval(interval time.Duration) SceneOption {
	return func(s *Scene) {
		if interval > 0 {
			s.sampleInterval = interval
		}
	}
}

func WithLanguage(language string) SceneOption {
	return func(s *Scene) {
		if language != "" {
			s.language = language
		}
	}
}

func WithMaxAlternatives(n int) SceneOption {
	return func(s *Scene) {
		if n > 0 {
			s.maxAlternatives = n
		}
	}
}

// WithVolumeThresholds tunes when fallback samples count as audible. The
// classifier keeps its own thresholds.
func WithVolumeThresholds(thresholds intent.VolumeThresholds) SceneOption {
	return func(s *Scene) { s.thresholds = thresholds }
}

func WithStatusClearDelay(delay time.Duration) SceneOption {
	return func(s *Scene) {
		if delay > 0 {
			s.statusClearDelay = delay
		}
	}
}

// WithStrictContracts makes API misuse panic instead of returning an error.
func WithStrictContracts(strict bool) SceneOption {
	return func(s *Scene) { s.strictContracts = strict }
}

// WithEventHandler registers the receiver of scene notifications. Handlers
// run on the scene loop and must not block or call Teardown.
func WithEventHandler(handler events.Handler) SceneOption {
	return func(s *Scene) { s.onEvent = handler }
}
