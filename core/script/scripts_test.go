package script

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/koscakluka/ema-rescue/core/narration"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestCorrectImpactsPrecedeVictory(t *testing.T) {
	s := Correct()

	var impacts []time.Duration
	for _, step := range s.Sorted() {
		if strings.HasPrefix(step.Name, "impact-") {
			impacts = append(impacts, step.At)
		}
	}
	want := []time.Duration{ms(700), ms(1100), ms(1500), ms(1900), ms(2300), ms(2700), ms(3100)}
	if !reflect.DeepEqual(impacts, want) {
		t.Fatalf("expected impacts at %v, got %v", want, impacts)
	}

	concludes := Find[Conclude](s)
	if len(concludes) != 1 {
		t.Fatalf("expected exactly one conclusion, got %d", len(concludes))
	}
	if concludes[0].At != VictoryAt {
		t.Fatalf("expected victory at %v, got %v", VictoryAt, concludes[0].At)
	}

	rescue, ok := s.Step("rescue")
	if !ok || rescue.At >= VictoryAt || rescue.At <= impacts[len(impacts)-1] {
		t.Fatalf("expected rescue between the last impact and victory, got %v", rescue.At)
	}
	if s.Duration() != VictoryAt {
		t.Fatalf("expected victory to be the last beat, script lasts %v", s.Duration())
	}
}

func TestWrongEnergyDrainsToZeroBeforeGameOver(t *testing.T) {
	s := Wrong()

	energy := Find[SetEnergy](s)
	if len(energy) != EnergyDrainSteps+1 {
		t.Fatalf("expected %d energy updates, got %d", EnergyDrainSteps+1, len(energy))
	}
	if energy[0].Effect.Level != 100 || energy[0].At != EnergyDrainStart {
		t.Fatalf("expected full energy at %v, got %+v", EnergyDrainStart, energy[0])
	}
	for i := 1; i < len(energy); i++ {
		if energy[i].Effect.Level >= energy[i-1].Effect.Level {
			t.Fatalf("expected energy to decrease, got %d after %d", energy[i].Effect.Level, energy[i-1].Effect.Level)
		}
	}
	last := energy[len(energy)-1]
	if last.Effect.Level != 0 {
		t.Fatalf("expected energy to reach zero, got %d", last.Effect.Level)
	}
	if last.At != EnergyDrainStart+EnergyDrainLength {
		t.Fatalf("expected drain to end at %v, got %v", EnergyDrainStart+EnergyDrainLength, last.At)
	}

	concludes := Find[Conclude](s)
	if len(concludes) != 1 || concludes[0].At != GameOverAt {
		t.Fatalf("expected a single conclusion at %v, got %+v", GameOverAt, concludes)
	}
	if concludes[0].At <= last.At {
		t.Fatalf("expected game over after the energy is gone")
	}
}

func TestUnclearRetriesWithoutConcluding(t *testing.T) {
	s := Unclear()

	if got := Find[Conclude](s); len(got) != 0 {
		t.Fatalf("expected no conclusion, got %+v", got)
	}
	retries := Find[Retry](s)
	if len(retries) != 1 || retries[0].At != UnclearBeat {
		t.Fatalf("expected one retry at %v, got %+v", UnclearBeat, retries)
	}
}

func TestDisasterEndsInWaiting(t *testing.T) {
	s := Disaster(CharacterLayla)

	enters := Find[Enter](s)
	if len(enters) != 1 || enters[0].Effect.Phase != PhaseWaiting || enters[0].At != DisasterLength {
		t.Fatalf("expected waiting at %v, got %+v", DisasterLength, enters)
	}

	var explosions []time.Duration
	coughs := 0
	for _, cue := range Find[Cue](s) {
		switch {
		case cue.Effect.Kind == CueSound && cue.Effect.Target == SoundExplosion:
			explosions = append(explosions, cue.At)
		case cue.Effect.Kind == CueSound && cue.Effect.Target == "coughLayla":
			coughs++
		}
	}
	if want := []time.Duration{ms(800), ms(1800), ms(2800)}; !reflect.DeepEqual(explosions, want) {
		t.Fatalf("expected explosions at %v, got %v", want, explosions)
	}
	if coughs != 2 {
		t.Fatalf("expected two character coughs, got %d", coughs)
	}

	narrations := Find[Narrate](s)
	if len(narrations) != 2 || narrations[0].Effect.Clip != narration.ClipBombing || narrations[1].Effect.Clip != narration.ClipKnockOrScream {
		t.Fatalf("expected bombing then question narration, got %+v", narrations)
	}
}

func TestIntroNarrationAllowsAcknowledge(t *testing.T) {
	narrations := Find[Narrate](Intro())
	if len(narrations) != 1 {
		t.Fatalf("expected one intro narration, got %d", len(narrations))
	}

	intro := narrations[0]
	if intro.At != IntroNarrationAt || intro.Effect.Clip != narration.ClipFirstScene {
		t.Fatalf("expected first scene narration at %v, got %+v", IntroNarrationAt, intro)
	}
	if !reflect.DeepEqual(intro.Effect.Then, []Effect{AllowAcknowledge{}}) {
		t.Fatalf("expected intro narration to allow acknowledgement, got %+v", intro.Effect.Then)
	}
}

func TestBeatsApplySteps(t *testing.T) {
	s := Unclear()

	var applied []string
	beats := s.Beats(func(step Step) { applied = append(applied, step.Name) })
	if len(beats) != len(s.Steps) {
		t.Fatalf("expected one beat per step, got %d", len(beats))
	}
	for _, beat := range beats {
		beat.Action()
	}

	if !reflect.DeepEqual(applied, []string{"confused", "retry"}) {
		t.Fatalf("expected steps applied in order, got %v", applied)
	}
	if beats[1].Name != "unclear/retry" || beats[1].Delay != UnclearBeat {
		t.Fatalf("expected named beat at %v, got %+v", UnclearBeat, beats[1])
	}
}

func TestCharacters(t *testing.T) {
	if got := CharacterKareem.CoughSound(); got != "coughKareem" {
		t.Fatalf("expected coughKareem, got %q", got)
	}
	if got := Character("").CoughSound(); got != "coughSobhi" {
		t.Fatalf("expected default character cough, got %q", got)
	}
	if _, ok := ParseCharacter("wolf"); ok {
		t.Fatalf("expected unknown character to be rejected")
	}
	if c, ok := ParseCharacter("layla"); !ok || c != CharacterLayla {
		t.Fatalf("expected layla, got %q", c)
	}
}

func TestTextString(t *testing.T) {
	if got := Bilingual("طرق", "Knock").String(); got != "طرق - Knock" {
		t.Fatalf("expected joined text, got %q", got)
	}
	if got := Bilingual("", "Knock").String(); got != "Knock" {
		t.Fatalf("expected single language text, got %q", got)
	}
}
