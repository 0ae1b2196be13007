package outcome

import (
	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/script"
)

// Branch is what the scene plays after accepting a choice. Outcome is nil
// for the unclear branch, which retries instead of resolving.
type Branch struct {
	Choice  intent.Choice
	Script  script.Script
	Outcome *Outcome
}

// Terminal reports whether the branch ends the attempt.
func (b Branch) Terminal() bool { return b.Outcome != nil }

// Resolver maps choices onto branches.
type Resolver struct {
	rewardTokens int
}

type ResolverOption func(*Resolver)

// WithRewardTokens overrides the victory reward. Negative values are ignored.
func WithRewardTokens(tokens int) ResolverOption {
	return func(r *Resolver) {
		if tokens >= 0 {
			r.rewardTokens = tokens
		}
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{rewardTokens: DefaultRewardTokens}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve picks the branch for choice. Anything that is not knock or scream
// is treated as unclear.
func (r *Resolver) Resolve(choice intent.Choice) Branch {
	switch choice {
	case intent.ChoiceKnock:
		victory := Victory(VictoryMessage, r.rewardTokens)
		return Branch{Choice: choice, Script: script.Correct(), Outcome: &victory}
	case intent.ChoiceScream:
		gameOver := GameOver(GameOverMessage)
		return Branch{Choice: choice, Script: script.Wrong(), Outcome: &gameOver}
	default:
		return Branch{Choice: intent.ChoiceUnclear, Script: script.Unclear()}
	}
}
