package events

import (
	"testing"

	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/narration"
	"github.com/koscakluka/ema-rescue/core/outcome"
	"github.com/koscakluka/ema-rescue/core/script"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "phase changed", event: NewPhaseChanged(script.PhaseIntro, script.PhaseAnimating), expected: KindPhaseChanged},
		{name: "intro ready", event: NewIntroReady(), expected: KindIntroReady},
		{name: "input control changed", event: NewInputControlChanged(true), expected: KindInputControlChanged},
		{name: "energy changed", event: NewEnergyChanged(50), expected: KindEnergyChanged},
		{name: "scene torn down", event: NewSceneTornDown(), expected: KindSceneTornDown},
		{name: "choice accepted", event: NewChoiceAccepted(intent.ChoiceKnock), expected: KindChoiceAccepted},
		{name: "choice discarded", event: NewChoiceDiscarded(intent.ChoiceKnock, script.PhaseProcessing), expected: KindChoiceDiscarded},
		{name: "outcome produced", event: NewOutcomeProduced(outcome.GameOver(outcome.GameOverMessage)), expected: KindOutcomeProduced},
		{name: "cue issued", event: NewCueIssued("correct", "knock", script.Sound(script.SoundKnock)), expected: KindCueIssued},
		{name: "status posted", event: NewStatusPosted("speak_now", script.Bilingual("تحدث الآن", "Speak now")), expected: KindStatusPosted},
		{name: "status cleared", event: NewStatusCleared(), expected: KindStatusCleared},
		{name: "narration started", event: NewNarrationStarted(narration.Handle{}, false), expected: KindNarrationStarted},
		{name: "narration finished", event: NewNarrationFinished(narration.Handle{}), expected: KindNarrationFinished},
		{name: "narration stopped", event: NewNarrationStopped(narration.Handle{}), expected: KindNarrationStopped},
		{name: "listening started", event: NewListeningStarted(ListenSpeech), expected: KindListeningStarted},
		{name: "listening stopped", event: NewListeningStopped(ListenVolume), expected: KindListeningStopped},
		{name: "utterance classified", event: NewUtteranceClassified(ListenSpeech, intent.TranscriptUtterance("دق"), intent.ChoiceKnock), expected: KindUtteranceClassified},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if testCase.event.Timestamp().IsZero() {
				t.Fatalf("expected %q to be timestamped", testCase.expected)
			}
		})
	}
}

func TestKindNamespace(t *testing.T) {
	testCases := map[Kind]string{
		KindPhaseChanged:     "scene",
		KindOutcomeProduced:  "choice",
		KindCueIssued:        "presentation",
		KindNarrationStopped: "narration",
		KindListeningStarted: "listener",
		Kind("without_dots"): "without_dots",
	}

	for kind, expected := range testCases {
		if got := kind.Namespace(); got != expected {
			t.Fatalf("expected namespace %q for %q, got %q", expected, kind, got)
		}
	}
}
