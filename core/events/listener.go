package events

import "github.com/koscakluka/ema-rescue/core/intent"

const (
	// KindListeningStarted identifies the start of a recognition attempt.
	KindListeningStarted Kind = "listener.started"
	// KindListeningStopped identifies the end of a recognition attempt.
	KindListeningStopped Kind = "listener.stopped"
	// KindUtteranceClassified identifies a classified recognition result.
	KindUtteranceClassified Kind = "listener.utterance_classified"
)

// ListenMode names how an attempt listens.
type ListenMode string

const (
	ListenSpeech ListenMode = "speech"
	ListenVolume ListenMode = "volume"
)

type ListeningStarted struct {
	Base
	Mode ListenMode
}

func NewListeningStarted(mode ListenMode) ListeningStarted {
	return ListeningStarted{Base: NewBase(KindListeningStarted), Mode: mode}
}

type ListeningStopped struct {
	Base
	Mode ListenMode
}

func NewListeningStopped(mode ListenMode) ListeningStopped {
	return ListeningStopped{Base: NewBase(KindListeningStopped), Mode: mode}
}

// UtteranceClassified reports what the classifier made of an attempt, before
// the scene decides whether to act on it.
type UtteranceClassified struct {
	Base
	Mode      ListenMode
	Utterance intent.Utterance
	Choice    intent.Choice
}

func NewUtteranceClassified(mode ListenMode, utterance intent.Utterance, choice intent.Choice) UtteranceClassified {
	return UtteranceClassified{Base: NewBase(KindUtteranceClassified), Mode: mode, Utterance: utterance, Choice: choice}
}
