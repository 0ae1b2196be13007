// Package outcome resolves a classified choice into the branch the scene
// plays and the terminal result that branch produces.
package outcome

import "github.com/koscakluka/ema-rescue/core/script"

// Kind tags an Outcome.
type Kind string

const (
	KindVictory  Kind = "victory"
	KindGameOver Kind = "gameover"
)

// DefaultRewardTokens is granted for a victory.
const DefaultRewardTokens = 10

// Outcome is the terminal result of one attempt.
type Outcome struct {
	Kind         Kind        `json:"kind"`
	Message      script.Text `json:"message"`
	RewardTokens int         `json:"reward_tokens"`
}

func Victory(message script.Text, rewardTokens int) Outcome {
	return Outcome{Kind: KindVictory, Message: message, RewardTokens: rewardTokens}
}

// GameOver never carries a reward.
func GameOver(message script.Text) Outcome {
	return Outcome{Kind: KindGameOver, Message: message}
}

func (o Outcome) IsVictory() bool { return o.Kind == KindVictory }

var (
	VictoryMessage = script.Bilingual(
		"أحسنت! 🎉 الطرق على الأجسام الصلبة هو الخيار الصحيح.\n\nيساعد فريق الإنقاذ على تحديد موقعك بدون أن تستنزف طاقتك.",
		"Well done! Knocking is correct. It helps rescuers locate you without exhausting your energy.",
	)
	GameOverMessage = script.Bilingual(
		"خيار خاطئ! ❌ الصراخ يستنزف طاقتك وقد لا يسمعك أحد.\n\nالطريقة الأفضل هي الطرق على الأجسام الصلبة لجذب انتباه فرق الإنقاذ.",
		"Wrong choice! Screaming wastes energy. Knock on solid objects instead to attract rescue teams.",
	)
)
