package script

import (
	"fmt"
	"time"

	"github.com/koscakluka/ema-rescue/core/narration"
)

const (
	SoundExplosion = "explosion"
	SoundKnock     = "knock"
	SoundScream    = "scream"
	SoundRescue    = "rescue"
)

const (
	IntroNarrationAt = 1000 * time.Millisecond
	AcknowledgeFade  = 400 * time.Millisecond

	DisasterLength = 9800 * time.Millisecond

	ImpactCount    = 7
	ImpactStart    = 700 * time.Millisecond
	ImpactInterval = 400 * time.Millisecond
	RescueAt       = 3800 * time.Millisecond
	VictoryAt      = 7000 * time.Millisecond

	EnergyDrainStart  = 800 * time.Millisecond
	EnergyDrainLength = 2200 * time.Millisecond
	EnergyDrainSteps  = 10
	GameOverAt        = 4000 * time.Millisecond

	UnclearBeat = 2500 * time.Millisecond

	GuideOverlay = 4000 * time.Millisecond
	HintOverlay  = 5000 * time.Millisecond
)

// Intro greets the learner. Acknowledgement unlocks once the intro narration
// is over.
func Intro() Script {
	return Script{
		Name: "intro",
		Steps: []Step{
			{At: 0, Name: "scene", Effects: []Effect{
				Show("intro.guide"),
				Show("intro.next_button"),
			}},
			{At: IntroNarrationAt, Name: "narration", Effects: []Effect{
				Narrate{Clip: narration.ClipFirstScene, Then: []Effect{AllowAcknowledge{}}},
			}},
		},
	}
}

// Acknowledged fades the intro out and starts the disaster.
func Acknowledged() Script {
	return Script{
		Name: "acknowledged",
		Steps: []Step{
			{At: 0, Name: "fade-out", Effects: []Effect{Transition("fade_out", AcknowledgeFade)}},
			{At: AcknowledgeFade, Name: "disaster", Effects: []Effect{
				Transition("fade_in", 200*time.Millisecond),
				Enter{Phase: PhaseAnimating},
			}},
		},
	}
}

// Disaster is the bombing and its aftermath, ending in waiting.
func Disaster(character Character) Script {
	cough := Caption("aftermath.cough", Bilingual("*كحة*", "*cough*"))
	explosion := func(n int) Step {
		return Step{
			At:   800*time.Millisecond + time.Duration(n-1)*time.Second,
			Name: fmt.Sprintf("explosion-%d", n),
			Effects: []Effect{
				Sound(SoundExplosion),
				Show(fmt.Sprintf("bombing.explosion.%d", n)),
				Camera("shake", 300*time.Millisecond),
			},
		}
	}

	large := explosion(3)
	large.Effects = append(large.Effects,
		Show("bombing.collapse"),
		Show("bombing.debris"),
		Camera("flash", 500*time.Millisecond),
	)

	return Script{
		Name: "disaster",
		Steps: []Step{
			{At: 0, Name: "warning", Effects: []Effect{
				Show("bombing.city"),
				Caption("bombing.warning", Bilingual("⚠️ قصف وشيك!", "Bombing imminent!")),
				Narrate{Clip: narration.ClipBombing},
			}},
			explosion(1),
			explosion(2),
			large,
			{At: 4500 * time.Millisecond, Name: "fade-out", Effects: []Effect{Transition("fade_out", 500*time.Millisecond)}},
			{At: 5000 * time.Millisecond, Name: "aftermath", Effects: []Effect{
				Transition("fade_in", 500*time.Millisecond),
				Show("aftermath.rubble"),
				Show("aftermath.character"),
			}},
			{At: 5600 * time.Millisecond, Name: "status", Effects: []Effect{
				Caption("aftermath.status", Bilingual("بعد القصف...", "After the bombing...")),
			}},
			{At: 6800 * time.Millisecond, Name: "kneel", Effects: []Effect{Show("aftermath.character.kneel")}},
			{At: 7200 * time.Millisecond, Name: "aftershock", Effects: []Effect{Camera("shake", 600*time.Millisecond)}},
			{At: 7300 * time.Millisecond, Name: "cough-1", Effects: []Effect{Sound(character.CoughSound()), cough}},
			{At: 7600 * time.Millisecond, Name: "trapped", Effects: []Effect{
				Caption("aftermath.trapped", Bilingual("أنت محاصر تحت الأنقاض...", "You are trapped under the rubble...")),
			}},
			{At: 7800 * time.Millisecond, Name: "question", Effects: []Effect{Narrate{Clip: narration.ClipKnockOrScream}}},
			{At: 7900 * time.Millisecond, Name: "cough-2", Effects: []Effect{Sound(character.CoughSound()), cough}},
			{At: 9200 * time.Millisecond, Name: "fade-out-2", Effects: []Effect{Transition("fade_out", 600*time.Millisecond)}},
			{At: DisasterLength, Name: "waiting", Effects: []Effect{Enter{Phase: PhaseWaiting}}},
		},
	}
}

// Waiting sets up the decision screen.
func Waiting() Script {
	return Script{
		Name: "waiting",
		Steps: []Step{
			{At: 0, Name: "scene", Effects: []Effect{
				Transition("fade_in", 400*time.Millisecond),
				Show("waiting.rubble"),
				Show("waiting.character"),
				Caption("waiting.title", Bilingual("أنت محاصر تحت الأنقاض!", "You are trapped under the rubble!")),
				Caption("waiting.question", Bilingual("ماذا ستفعل: تطرق على الصخر أم تصرخ؟", "What will you do: knock on the rock or scream?")),
				Caption("waiting.instruction", Bilingual("🎤 تحدث بصوتك", "Speak with your voice")),
			}},
		},
	}
}

var impactTexts = []Text{
	Bilingual("🔨 طق!", "Knock!"),
	Bilingual("💪 طق!", "Knock!"),
	Bilingual("🔨 طق طق!", "Knock knock!"),
}

// Correct is the knock branch. It concludes with a victory only after every
// impact beat and the rescue have played.
func Correct() Script {
	steps := []Step{
		{At: 0, Name: "knock", Effects: []Effect{
			Sound(SoundKnock),
			Show("correct.character.lean"),
			Camera("zoom_in", 800*time.Millisecond),
		}},
		{At: 500 * time.Millisecond, Name: "guide", Effects: []Effect{
			Narrate{Clip: narration.ClipCorrect, Overlay: GuideOverlay},
		}},
	}
	for i := 0; i < ImpactCount; i++ {
		steps = append(steps, Step{
			At:   ImpactStart + time.Duration(i)*ImpactInterval,
			Name: fmt.Sprintf("impact-%d", i+1),
			Effects: []Effect{
				Show("correct.impact"),
				Caption("correct.impact", impactTexts[i%len(impactTexts)]),
			},
		})
	}
	steps = append(steps,
		Step{At: RescueAt, Name: "rescue", Effects: []Effect{
			Camera("zoom_out", 500*time.Millisecond),
			Sound(SoundRescue),
			Hide("waiting.rubble"),
			Show("correct.fire_trucks"),
			Camera("flash_green", 300*time.Millisecond),
			Caption("correct.rescue", Bilingual("🚨 فريق الإنقاذ وصل!", "The rescue team has arrived!")),
		}},
		Step{At: 5000 * time.Millisecond, Name: "celebration", Effects: []Effect{Show("correct.celebration")}},
		Step{At: 5800 * time.Millisecond, Name: "brake", Effects: []Effect{Show("correct.fire_trucks.brake")}},
		Step{At: VictoryAt, Name: "victory", Effects: []Effect{Conclude{}}},
	)

	return Script{Name: "correct", Steps: steps}
}

var screamPhrases = []Text{
	Bilingual("النجدة!!", "Help!!"),
	Bilingual("ساعدوني!!", "Help me!!"),
	Bilingual("أنقذوني!!", "Save me!!"),
}

// Wrong is the scream branch: energy drains to zero, then game over.
func Wrong() Script {
	steps := []Step{
		{At: 0, Name: "scream", Effects: []Effect{
			Sound(SoundScream),
			Camera("zoom_in", 800*time.Millisecond),
		}},
		{At: 500 * time.Millisecond, Name: "guide", Effects: []Effect{
			Narrate{Clip: narration.ClipWrong, Overlay: GuideOverlay},
		}},
	}
	for i, phrase := range screamPhrases {
		steps = append(steps, Step{
			At:      time.Duration(i) * 600 * time.Millisecond,
			Name:    fmt.Sprintf("scream-phrase-%d", i+1),
			Effects: []Effect{Caption("wrong.scream", phrase)},
		})
	}

	steps = append(steps, Step{At: EnergyDrainStart, Name: "energy", Effects: []Effect{
		Show("wrong.energy_bar"),
		Caption("wrong.energy", Bilingual("⚡ الطاقة تنفد...", "Energy running out...")),
		SetEnergy{Level: 100},
	}})
	interval := EnergyDrainLength / EnergyDrainSteps
	for i := 1; i <= EnergyDrainSteps; i++ {
		steps = append(steps, Step{
			At:      EnergyDrainStart + time.Duration(i)*interval,
			Name:    fmt.Sprintf("energy-%d", i),
			Effects: []Effect{SetEnergy{Level: 100 - i*100/EnergyDrainSteps}},
		})
	}

	steps = append(steps,
		Step{At: 2000 * time.Millisecond, Name: "exhausted", Effects: []Effect{
			Caption("wrong.energy", Bilingual("💔 لا طاقة متبقية...", "No energy left...")),
		}},
		Step{At: 2800 * time.Millisecond, Name: "collapse", Effects: []Effect{
			Show("wrong.character.collapse"),
			Transition("darken", 1500*time.Millisecond),
		}},
		Step{At: GameOverAt, Name: "gameover", Effects: []Effect{
			Camera("zoom_out", 500*time.Millisecond),
			Conclude{},
		}},
	)

	return Script{Name: "wrong", Steps: steps}
}

// Unclear asks the learner to repeat and returns to waiting.
func Unclear() Script {
	return Script{
		Name: "unclear",
		Steps: []Step{
			{At: 0, Name: "confused", Effects: []Effect{
				Show("unclear.box"),
				Caption("unclear.box", Bilingual("❓ لم أفهم... أعد المحاولة", "Please repeat your choice")),
			}},
			{At: UnclearBeat, Name: "retry", Effects: []Effect{
				Hide("unclear.box"),
				Retry{},
			}},
		},
	}
}

// Hint plays the hint narration in the guide overlay.
func Hint() Script {
	return Script{
		Name: "hint",
		Steps: []Step{
			{At: 0, Name: "hint", Effects: []Effect{
				Narrate{Clip: narration.ClipHint, Overlay: HintOverlay},
			}},
		},
	}
}
