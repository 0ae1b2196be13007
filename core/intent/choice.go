// Package intent turns noisy learner input into one of the discrete choices
// the scene understands.
//
// Classification is a recall-biased keyword heuristic: short, common and
// dialectal fragments are matched as substrings of the normalized transcript
// so that partial recognitions still resolve. When no transcript is
// available, a loudness heuristic is used instead (see [VolumeThresholds]).
package intent

// Choice is the learner's classified decision.
type Choice string

const (
	ChoiceKnock   Choice = "knock"
	ChoiceScream  Choice = "scream"
	ChoiceUnclear Choice = "unclear"
)

func (c Choice) String() string { return string(c) }

// IsValid reports whether c is one of the known choices.
func (c Choice) IsValid() bool {
	switch c {
	case ChoiceKnock, ChoiceScream, ChoiceUnclear:
		return true
	}
	return false
}

// ParseChoice maps a wire value onto a Choice. Unknown values are unclear.
func ParseChoice(s string) Choice {
	c := Choice(Normalize(s))
	if !c.IsValid() {
		return ChoiceUnclear
	}
	return c
}

// Utterance is one recognition attempt. Either Alternatives (ranked, best
// first) or Volume is set; Alternatives take precedence when both are.
type Utterance struct {
	Alternatives []string
	Volume       *VolumeSummary
}

// TranscriptUtterance builds an utterance from ranked transcripts.
func TranscriptUtterance(alternatives ...string) Utterance {
	return Utterance{Alternatives: alternatives}
}

// VolumeUtterance builds an utterance from a volume summary.
func VolumeUtterance(summary VolumeSummary) Utterance {
	return Utterance{Volume: &summary}
}

// Classifier is the contract the scene depends on, so a stronger matcher can
// replace the keyword heuristic without touching the state machine.
type Classifier interface {
	Classify(utterance Utterance) Choice
}
