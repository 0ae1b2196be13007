package events

import (
	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/outcome"
	"github.com/koscakluka/ema-rescue/core/script"
)

const (
	// KindChoiceAccepted identifies a choice the scene acted on.
	KindChoiceAccepted Kind = "choice.accepted"
	// KindChoiceDiscarded identifies a choice delivered outside waiting.
	KindChoiceDiscarded Kind = "choice.discarded"
	// KindOutcomeProduced identifies the terminal result of an attempt.
	KindOutcomeProduced Kind = "choice.outcome_produced"
)

type ChoiceAccepted struct {
	Base
	Choice intent.Choice
}

func NewChoiceAccepted(choice intent.Choice) ChoiceAccepted {
	return ChoiceAccepted{Base: NewBase(KindChoiceAccepted), Choice: choice}
}

// ChoiceDiscarded is informational; a discarded choice changes nothing.
type ChoiceDiscarded struct {
	Base
	Choice intent.Choice
	Phase  script.Phase
}

func NewChoiceDiscarded(choice intent.Choice, phase script.Phase) ChoiceDiscarded {
	return ChoiceDiscarded{Base: NewBase(KindChoiceDiscarded), Choice: choice, Phase: phase}
}

type OutcomeProduced struct {
	Base
	Outcome outcome.Outcome
}

func NewOutcomeProduced(result outcome.Outcome) OutcomeProduced {
	return OutcomeProduced{Base: NewBase(KindOutcomeProduced), Outcome: result}
}
