package intent

import (
	"context"
	"strings"
)

// Score counts how many keywords of set occur in the normalized text. Each
// keyword contributes at most once however often it repeats.
func Score(normalized string, set KeywordSet) int {
	score := 0
	for _, kw := range set.keywords {
		if strings.Contains(normalized, kw) {
			score++
		}
	}
	return score
}

// Decide applies the decision rule to a pair of scores. Ties favour knock,
// the physically lower-risk action.
func Decide(knockScore, screamScore int) Choice {
	if knockScore > 0 && knockScore >= screamScore {
		return ChoiceKnock
	}
	if screamScore > 0 {
		return ChoiceScream
	}
	return ChoiceUnclear
}

// KeywordClassifier is the default [Classifier].
type KeywordClassifier struct {
	knock      KeywordSet
	scream     KeywordSet
	thresholds VolumeThresholds
}

type KeywordClassifierOption func(*KeywordClassifier)

func WithKnockKeywords(set KeywordSet) KeywordClassifierOption {
	return func(c *KeywordClassifier) { c.knock = set }
}

func WithScreamKeywords(set KeywordSet) KeywordClassifierOption {
	return func(c *KeywordClassifier) { c.scream = set }
}

func WithVolumeThresholds(thresholds VolumeThresholds) KeywordClassifierOption {
	return func(c *KeywordClassifier) { c.thresholds = thresholds }
}

func NewKeywordClassifier(opts ...KeywordClassifierOption) *KeywordClassifier {
	c := &KeywordClassifier{
		knock:      DefaultKnockKeywords(),
		scream:     DefaultScreamKeywords(),
		thresholds: DefaultVolumeThresholds(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify implements [Classifier]. Transcript alternatives win over a
// volume summary; an empty utterance is unclear.
func (c *KeywordClassifier) Classify(utterance Utterance) Choice {
	if len(utterance.Alternatives) > 0 {
		return c.ClassifyAlternatives(utterance.Alternatives...)
	}
	if utterance.Volume != nil {
		return c.thresholds.Classify(*utterance.Volume)
	}
	return ChoiceUnclear
}

// ClassifyText classifies a single transcript.
func (c *KeywordClassifier) ClassifyText(transcript string) Choice {
	normalized := Normalize(transcript)
	knockScore := Score(normalized, c.knock)
	screamScore := Score(normalized, c.scream)
	choice := Decide(knockScore, screamScore)

	logger.DebugContext(context.Background(), "classified transcript",
		"transcript", transcript,
		"normalized", normalized,
		"knock_score", knockScore,
		"scream_score", screamScore,
		"choice", string(choice),
	)
	return choice
}

// ClassifyAlternatives evaluates ranked alternatives in order and returns
// the first one that is not unclear.
func (c *KeywordClassifier) ClassifyAlternatives(alternatives ...string) Choice {
	for _, alternative := range alternatives {
		if choice := c.ClassifyText(alternative); choice != ChoiceUnclear {
			return choice
		}
	}
	return ChoiceUnclear
}
