package wsbridge

import (
	"encoding/json"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/koscakluka/ema-rescue/core/events"
	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/outcome"
	"github.com/koscakluka/ema-rescue/core/script"
)

// Inbound message types besides the scene command names.
const (
	TypeHello             = "hello"
	TypeRecognitionResult = "recognition_result"
	TypeRecognitionError  = "recognition_error"
	TypeNarrationFinished = "narration_finished"
	TypeFinish            = "finish"
)

// Outbound message types.
const (
	TypeSession          = "session"
	TypeEvent            = "event"
	TypeNarrationPlay    = "narration_play"
	TypeNarrationStop    = "narration_stop"
	TypeRecognitionStart = "recognition_start"
	TypeRecognitionStop  = "recognition_stop"
	TypeCaptureStart     = "capture_start"
	TypeCaptureStop      = "capture_stop"
	TypeRewards          = "rewards"
	TypeError            = "error"
)

// Recognition error reasons a client can report.
const (
	ReasonNoSpeech = "no_speech"
	ReasonFailed   = "failed"
)

// Inbound is a text frame sent by the presentation client. Binary frames
// carry captured linear16 audio and have no envelope.
type Inbound struct {
	Type    string          `json:"type" jsonschema:"required"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// HelloPayload announces what the client can do. Both capabilities are
// assumed until a hello says otherwise.
type HelloPayload struct {
	Speech  bool `json:"speech" jsonschema:"description=Client can run speech recognition"`
	Capture bool `json:"capture" jsonschema:"description=Client can stream microphone audio"`
}

type ChoicePayload struct {
	Choice string `json:"choice" jsonschema:"enum=knock,enum=scream,enum=unclear"`
}

type AlternativesPayload struct {
	Alternatives []string `json:"alternatives" jsonschema:"description=Ranked transcripts, best first"`
}

type RecognitionErrorPayload struct {
	Reason  string `json:"reason" jsonschema:"enum=no_speech,enum=failed"`
	Message string `json:"message,omitempty"`
}

type NarrationFinishedPayload struct {
	ID string `json:"id" jsonschema:"format=uuid"`
}

// Outbound is a text frame sent to the presentation client.
type Outbound struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Payload any    `json:"payload,omitempty"`
}

type SessionPayload struct {
	ID        string           `json:"id" jsonschema:"format=uuid"`
	Character script.Character `json:"character" jsonschema:"enum=sobhi,enum=layla,enum=kareem"`
}

// EventPayload wraps one scene event. Data is nil for events without fields.
type EventPayload struct {
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

type NarrationPayload struct {
	ID   string `json:"id" jsonschema:"format=uuid"`
	Clip string `json:"clip" jsonschema:"enum=firstScene,enum=boombing,enum=knockOrScream,enum=hint,enum=correct,enum=wrong"`
}

type RecognitionPayload struct {
	Language        string `json:"language"`
	MaxAlternatives int    `json:"max_alternatives"`
}

type CapturePayload struct {
	SampleRate int    `json:"sample_rate"`
	Format     string `json:"format" jsonschema:"enum=linear16"`
}

type RewardsPayload struct {
	Added int `json:"added"`
	Total int `json:"total"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type phaseData struct {
	From script.Phase `json:"from"`
	To   script.Phase `json:"to"`
}

type inputData struct {
	Enabled bool `json:"enabled"`
}

type energyData struct {
	Level int `json:"level"`
}

type choiceData struct {
	Choice intent.Choice `json:"choice"`
	Phase  script.Phase  `json:"phase,omitempty"`
}

type outcomeData struct {
	Outcome outcome.Outcome `json:"outcome"`
}

type cueData struct {
	Script string     `json:"script"`
	Step   string     `json:"step"`
	Cue    script.Cue `json:"cue"`
}

type statusData struct {
	Status string      `json:"status"`
	Text   script.Text `json:"text"`
}

type narrationData struct {
	ID      string `json:"id"`
	Clip    string `json:"clip"`
	Overlay bool   `json:"overlay,omitempty"`
}

type listenData struct {
	Mode events.ListenMode `json:"mode"`
}

type utteranceData struct {
	Mode         events.ListenMode     `json:"mode"`
	Alternatives []string              `json:"alternatives,omitempty"`
	Volume       *intent.VolumeSummary `json:"volume,omitempty"`
	Choice       intent.Choice         `json:"choice"`
}

// Schemas describes every wire message, keyed by direction and type.
func Schemas() map[string]*jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	return map[string]*jsonschema.Schema{
		"inbound":                          reflector.Reflect(&Inbound{}),
		"inbound." + TypeHello:             reflector.Reflect(&HelloPayload{}),
		"inbound.submit_choice":            reflector.Reflect(&ChoicePayload{}),
		"inbound.submit_utterance":         reflector.Reflect(&AlternativesPayload{}),
		"inbound." + TypeRecognitionResult: reflector.Reflect(&AlternativesPayload{}),
		"inbound." + TypeRecognitionError:  reflector.Reflect(&RecognitionErrorPayload{}),
		"inbound." + TypeNarrationFinished: reflector.Reflect(&NarrationFinishedPayload{}),
		"outbound":                         reflector.Reflect(&Outbound{}),
		"outbound." + TypeSession:          reflector.Reflect(&SessionPayload{}),
		"outbound." + TypeEvent:            reflector.Reflect(&EventPayload{}),
		"outbound." + TypeNarrationPlay:    reflector.Reflect(&NarrationPayload{}),
		"outbound." + TypeRecognitionStart: reflector.Reflect(&RecognitionPayload{}),
		"outbound." + TypeCaptureStart:     reflector.Reflect(&CapturePayload{}),
		"outbound." + TypeRewards:          reflector.Reflect(&RewardsPayload{}),
		"outbound." + TypeError:            reflector.Reflect(&ErrorPayload{}),
	}
}
