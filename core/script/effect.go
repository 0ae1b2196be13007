package script

import (
	"time"

	"github.com/koscakluka/ema-rescue/core/narration"
)

// Effect is one thing a step does when it fires. The scene interprets
// effects; scripts only describe them.
type Effect interface {
	effect()
}

// CueKind groups presentation commands.
type CueKind string

const (
	CueShow       CueKind = "show"
	CueHide       CueKind = "hide"
	CueSound      CueKind = "sound"
	CueCamera     CueKind = "camera"
	CueTransition CueKind = "transition"
	CueCaption    CueKind = "caption"
)

// Cue is a command for the presentation engine. The scene forwards it and
// keeps no drawing state of its own.
type Cue struct {
	Kind     CueKind       `json:"kind"`
	Target   string        `json:"target"`
	Duration time.Duration `json:"duration,omitempty"`
	Text     Text          `json:"text,omitzero"`
}

// OverlaySafety is added to an overlay's nominal duration before it is
// hidden regardless of playback completion.
const OverlaySafety = 2 * time.Second

// Narrate plays a narration clip. With a non-zero Overlay the guide overlay
// is shown while the clip plays and hidden on completion, or after
// Overlay+OverlaySafety at the latest. Then runs once the clip finishes or
// fails to start, provided the phase that started it is still active.
type Narrate struct {
	Clip    narration.ClipID
	Overlay time.Duration
	Then    []Effect
}

// SetEnergy updates the learner's remaining energy, 0..100.
type SetEnergy struct {
	Level int
}

// Enter moves the scene to Phase.
type Enter struct {
	Phase Phase
}

// Conclude completes the scene with the outcome resolved for this attempt.
type Conclude struct{}

// Retry returns to waiting without an outcome.
type Retry struct{}

// AllowAcknowledge lets the learner move past the intro.
type AllowAcknowledge struct{}

func (Cue) effect() {}
func (Narrate) effect() {}
func (SetEnergy) effect() {}
func (Enter) effect() {}
func (Conclude) effect() {}
func (Retry) effect() {}
func (AllowAcknowledge) effect() {}

func Show(target string) Cue { return Cue{Kind: CueShow, Target: target} }
func Hide(target string) Cue { return Cue{Kind: CueHide, Target: target} }
func Sound(name string) Cue { return Cue{Kind: CueSound, Target: name} }
func Caption(target string, text Text) Cue {
	return Cue{Kind: CueCaption, Target: target, Text: text}
}
func Camera(effect string, d time.Duration) Cue {
	return Cue{Kind: CueCamera, Target: effect, Duration: d}
}
func Transition(name string, d time.Duration) Cue {
	return Cue{Kind: CueTransition, Target: name, Duration: d}
}
