package orchestration

import (
	"context"

	"github.com/koscakluka/ema-rescue/core/events"
	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/script"
	"github.com/koscakluka/ema-rescue/core/timeline"
)

// Status identifiers carried by [events.StatusPosted].
const (
	StatusSpeakNow         = "speak_now"
	StatusUnderstoodKnock  = "understood_knock"
	StatusUnderstoodScream = "understood_scream"
	StatusNotUnderstood    = "not_understood"
	StatusNoSpeech         = "no_speech"
	StatusNoSound          = "no_sound"
	StatusRecognitionError = "recognition_error"
	StatusCannotListen     = "cannot_listen"
	StatusCaptureDenied    = "capture_denied"
)

var statusTexts = map[string]script.Text{
	StatusSpeakNow:         script.Bilingual("🎤 تحدث الآن...", "Speak now..."),
	StatusUnderstoodKnock:  script.Bilingual("✅ تم الفهم: طرق", "Understood: Knock"),
	StatusUnderstoodScream: script.Bilingual("✅ تم الفهم: صراخ", "Understood: Scream"),
	StatusNotUnderstood:    script.Bilingual("❓ لم أفهم، حاول مرة أخرى", "Didn't understand, try again"),
	StatusNoSpeech:         script.Bilingual("❓ لم أسمع شيئاً", "No speech detected"),
	StatusNoSound:          script.Bilingual("❓ لم أسمع شيئاً", "No sound detected"),
	StatusRecognitionError: script.Bilingual("❌ خطأ في التعرف على الصوت", "Speech recognition error"),
	StatusCannotListen:     script.Bilingual("❌ لا يمكن تشغيل التعرف على الصوت", "Speech recognition could not start"),
	StatusCaptureDenied:    script.Bilingual("❌ لا يمكن الوصول للمايكروفون", "Mic access denied"),
}

// StatusText returns the bilingual copy for a status identifier.
func StatusText(status string) script.Text {
	return statusTexts[status]
}

func choiceStatus(choice intent.Choice) string {
	switch choice {
	case intent.ChoiceKnock:
		return StatusUnderstoodKnock
	case intent.ChoiceScream:
		return StatusUnderstoodScream
	}
	return StatusNotUnderstood
}

// postStatus replaces the status line. Every status but "speak now" clears
// itself after the configured delay.
func (s *Scene) postStatus(ctx context.Context, status string) {
	s.statusClear.Cancel()
	s.statusClear = timeline.Handle{}
	s.status = status

	logger.DebugContext(ctx, "posting status", "status", status)
	s.emit(events.NewStatusPosted(status, StatusText(status)))

	if status == StatusSpeakNow {
		return
	}
	s.statusClear = s.ambient.Schedule(s.statusClearDelay, func() { s.clearStatus() })
}

func (s *Scene) clearStatus() {
	s.statusClear.Cancel()
	s.statusClear = timeline.Handle{}
	if s.status == "" {
		return
	}
	s.status = ""
	s.emit(events.NewStatusCleared())
}
