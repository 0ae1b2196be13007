// Package commands defines the typed commands a host sends into a scene.
package commands

import (
	"time"

	"github.com/koscakluka/ema-rescue/core/intent"
)

// Name identifies a command on the wire and in logs.
type Name string

const (
	NameAcknowledge     Name = "acknowledge"
	NameSubmitChoice    Name = "submit_choice"
	NameSubmitUtterance Name = "submit_utterance"
	NameStartListening  Name = "start_listening"
	NameStopListening   Name = "stop_listening"
	NameRequestHint     Name = "request_hint"
	NameRestart         Name = "restart"
	NameTeardown        Name = "teardown"
)

// Names lists every command name.
func Names() []Name {
	return []Name{
		NameAcknowledge,
		NameSubmitChoice,
		NameSubmitUtterance,
		NameStartListening,
		NameStopListening,
		NameRequestHint,
		NameRestart,
		NameTeardown,
	}
}

// ParseName returns the known command called s.
func ParseName(s string) (Name, bool) {
	for _, name := range Names() {
		if string(name) == s {
			return name, true
		}
	}
	return "", false
}

type Command interface {
	Name() Name
	Timestamp() time.Time
}

type Base struct {
	name      Name
	timestamp time.Time
}

func NewBase(name Name) Base {
	return Base{name: name, timestamp: time.Now()}
}

func (b Base) Name() Name { return b.name }

func (b Base) Timestamp() time.Time { return b.timestamp }

// Acknowledge moves past the intro once its narration is over.
type Acknowledge struct{ Base }

func NewAcknowledge() Acknowledge { return Acknowledge{Base: NewBase(NameAcknowledge)} }

// SubmitChoice delivers an already classified choice.
type SubmitChoice struct {
	Base
	Choice intent.Choice
}

func NewSubmitChoice(choice intent.Choice) SubmitChoice {
	return SubmitChoice{Base: NewBase(NameSubmitChoice), Choice: choice}
}

// SubmitUtterance delivers raw input for the scene to classify.
type SubmitUtterance struct {
	Base
	Utterance intent.Utterance
}

func NewSubmitUtterance(utterance intent.Utterance) SubmitUtterance {
	return SubmitUtterance{Base: NewBase(NameSubmitUtterance), Utterance: utterance}
}

// StartListening begins a recognition attempt.
type StartListening struct{ Base }

func NewStartListening() StartListening { return StartListening{Base: NewBase(NameStartListening)} }

// StopListening cancels the in-flight recognition attempt.
type StopListening struct{ Base }

func NewStopListening() StopListening { return StopListening{Base: NewBase(NameStopListening)} }

type RequestHint struct{ Base }

func NewRequestHint() RequestHint { return RequestHint{Base: NewBase(NameRequestHint)} }

// Restart resets the scene to the intro ("try again").
type Restart struct{ Base }

func NewRestart() Restart { return Restart{Base: NewBase(NameRestart)} }

// Teardown destroys the scene.
type Teardown struct{ Base }

func NewTeardown() Teardown { return Teardown{Base: NewBase(NameTeardown)} }
