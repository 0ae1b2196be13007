package events

import "github.com/koscakluka/ema-rescue/core/script"

const (
	// KindPhaseChanged identifies a scene phase transition.
	KindPhaseChanged Kind = "scene.phase_changed"
	// KindIntroReady identifies the point the intro can be acknowledged.
	KindIntroReady Kind = "scene.intro_ready"
	// KindInputControlChanged identifies enabling or disabling the listen control.
	KindInputControlChanged Kind = "scene.input_control_changed"
	// KindEnergyChanged identifies a change of the learner's energy.
	KindEnergyChanged Kind = "scene.energy_changed"
	// KindSceneTornDown identifies the last event of a scene.
	KindSceneTornDown Kind = "scene.torn_down"
)

// PhaseChanged reports the scene leaving From and entering To.
type PhaseChanged struct {
	Base
	From script.Phase
	To   script.Phase
}

func NewPhaseChanged(from, to script.Phase) PhaseChanged {
	return PhaseChanged{Base: NewBase(KindPhaseChanged), From: from, To: to}
}

// IntroReady marks the intro narration as over.
type IntroReady struct{ Base }

func NewIntroReady() IntroReady {
	return IntroReady{Base: NewBase(KindIntroReady)}
}

// InputControlChanged tells the host whether the listen control is usable.
type InputControlChanged struct {
	Base
	Enabled bool
}

func NewInputControlChanged(enabled bool) InputControlChanged {
	return InputControlChanged{Base: NewBase(KindInputControlChanged), Enabled: enabled}
}

// EnergyChanged carries the remaining energy, 0..100.
type EnergyChanged struct {
	Base
	Level int
}

func NewEnergyChanged(level int) EnergyChanged {
	return EnergyChanged{Base: NewBase(KindEnergyChanged), Level: level}
}

// SceneTornDown is emitted once, right before teardown completes. Nothing
// follows it.
type SceneTornDown struct{ Base }

func NewSceneTornDown() SceneTornDown {
	return SceneTornDown{Base: NewBase(KindSceneTornDown)}
}
