package events

import "github.com/koscakluka/ema-rescue/core/script"

const (
	// KindCueIssued identifies a command for the presentation engine.
	KindCueIssued Kind = "presentation.cue"
	// KindStatusPosted identifies a transient status line.
	KindStatusPosted Kind = "presentation.status_posted"
	// KindStatusCleared identifies the status line being cleared.
	KindStatusCleared Kind = "presentation.status_cleared"
)

// CueIssued carries one presentation command and the script step that
// issued it.
type CueIssued struct {
	Base
	Script string
	Step   string
	Cue    script.Cue
}

func NewCueIssued(scriptName, step string, cue script.Cue) CueIssued {
	return CueIssued{Base: NewBase(KindCueIssued), Script: scriptName, Step: step, Cue: cue}
}

// StatusPosted replaces the status line. It clears itself after a fixed
// delay unless another status replaces it first.
type StatusPosted struct {
	Base
	Status string
	Text   script.Text
}

func NewStatusPosted(status string, text script.Text) StatusPosted {
	return StatusPosted{Base: NewBase(KindStatusPosted), Status: status, Text: text}
}

type StatusCleared struct{ Base }

func NewStatusCleared() StatusCleared {
	return StatusCleared{Base: NewBase(KindStatusCleared)}
}
