package script

import "strings"

// Phase is the scene's current stage in its scripted lifecycle.
type Phase string

const (
	PhaseIntro      Phase = "intro"
	PhaseAnimating  Phase = "animating"
	PhaseWaiting    Phase = "waiting"
	PhaseProcessing Phase = "processing"
	PhaseComplete   Phase = "complete"
)

func (p Phase) String() string { return string(p) }

// AcceptsChoices reports whether a learner choice has any effect in p.
func (p Phase) AcceptsChoices() bool { return p == PhaseWaiting }

// Character is the learner's chosen avatar.
type Character string

const (
	CharacterSobhi  Character = "sobhi"
	CharacterLayla  Character = "layla"
	CharacterKareem Character = "kareem"
)

// DefaultCharacter is used when the host does not pick one.
const DefaultCharacter = CharacterSobhi

// ParseCharacter returns the known character named s.
func ParseCharacter(s string) (Character, bool) {
	switch c := Character(s); c {
	case CharacterSobhi, CharacterLayla, CharacterKareem:
		return c, true
	}
	return "", false
}

func (c Character) String() string { return string(c) }

// CoughSound is the character-specific cough effect.
func (c Character) CoughSound() string {
	if c == "" {
		c = DefaultCharacter
	}
	return "cough" + strings.ToUpper(string(c[:1])) + string(c[1:])
}
