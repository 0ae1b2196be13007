package orchestration

import (
	"context"
	"time"

	"github.com/koscakluka/ema-rescue/core/events"
	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/narration"
	"github.com/koscakluka/ema-rescue/core/script"
	"github.com/koscakluka/ema-rescue/core/timeline"
	"go.opentelemetry.io/otel/attribute"
)

// OverlayTarget is the guide overlay shown while overlay narration plays.
const OverlayTarget = "guide.overlay"

// activeNarration is the clip the scene last started and has not seen end.
type activeNarration struct {
	handle     narration.Handle
	scriptName string
	step       string
	narrate    script.Narrate
	seq        uint64
}

// enterPhase is the only place the phase changes. Every beat of the phase
// being left is cancelled before the new phase does anything.
func (s *Scene) enterPhase(ctx context.Context, to script.Phase) {
	ctx, span := tracer.Start(ctx, "scene.enter_phase")
	defer span.End()

	from := s.Phase()
	if s.phaseSeq == 0 {
		from = ""
	}
	span.SetAttributes(
		attribute.String("phase.from", from.String()),
		attribute.String("phase.to", to.String()),
	)

	s.phaseTimeline.CancelAll()
	s.phaseSeq++
	s.phase.Store(to)
	logger.DebugContext(ctx, "entered phase", "from", from.String(), "to", to.String())
	s.emit(events.NewPhaseChanged(from, to))

	switch to {
	case script.PhaseIntro:
		s.introReady = false
		s.setInput(false)
		s.play(ctx, s.phaseTimeline, script.Intro())
	case script.PhaseAnimating:
		s.setInput(false)
		s.play(ctx, s.phaseTimeline, script.Disaster(s.character))
	case script.PhaseWaiting:
		s.setInput(true)
		if from == script.PhaseAnimating {
			s.play(ctx, s.phaseTimeline, script.Waiting())
		}
	case script.PhaseProcessing, script.PhaseComplete:
		s.setInput(false)
	}
}

func (s *Scene) setInput(enabled bool) {
	if s.inputEnabled == enabled {
		return
	}
	s.inputEnabled = enabled
	s.emit(events.NewInputControlChanged(enabled))
}

func (s *Scene) play(ctx context.Context, scheduler *timeline.Scheduler, sc script.Script) {
	seq := s.phaseSeq
	scheduler.Play(sc.Beats(func(step script.Step) {
		for _, effect := range step.Effects {
			s.apply(ctx, sc.Name, step.Name, effect, seq)
		}
	}))
}

// apply runs one effect. seq is the phase the effect was scheduled under;
// deferred effects check it before touching phase state.
func (s *Scene) apply(ctx context.Context, scriptName, step string, effect script.Effect, seq uint64) {
	switch e := effect.(type) {
	case script.Cue:
		s.emit(events.NewCueIssued(scriptName, step, e))
	case script.Narrate:
		s.narrate(ctx, scriptName, step, e, seq)
	case script.SetEnergy:
		s.energy = e.Level
		s.emit(events.NewEnergyChanged(e.Level))
	case script.Enter:
		s.enterPhase(ctx, e.Phase)
	case script.Conclude:
		s.conclude(ctx)
	case script.Retry:
		s.enterPhase(ctx, script.PhaseWaiting)
	case script.AllowAcknowledge:
		if seq != s.phaseSeq || s.Phase() != script.PhaseIntro || s.introReady {
			return
		}
		s.introReady = true
		s.emit(events.NewIntroReady())
	default:
		logger.WarnContext(ctx, "unknown effect", "script", scriptName, "step", step)
	}
}

// narrate starts a clip, stopping whatever was playing first. A clip cut
// off by another clip still runs its follow-up effects, so the intro cannot
// be locked by a hint.
func (s *Scene) narrate(ctx context.Context, scriptName, step string, n script.Narrate, seq uint64) {
	if interrupted := s.interruptNarration(ctx); interrupted != nil {
		s.settle(ctx, interrupted)
	}

	active := &activeNarration{scriptName: scriptName, step: step, narrate: n, seq: seq}
	handle, err := s.narration.Play(ctx, n.Clip, func(h narration.Handle) { s.narrationFinished(ctx, h) })
	if err != nil {
		logger.WarnContext(ctx, "narration did not start", "clip", n.Clip.String(), "error", err)
	}
	if handle.IsZero() {
		return
	}
	active.handle = handle
	s.speaking = active

	s.emit(events.NewNarrationStarted(handle, n.Overlay > 0))
	if n.Overlay > 0 {
		s.showOverlay(handle, n.Overlay+script.OverlaySafety)
	}
}

func (s *Scene) narrationFinished(ctx context.Context, handle narration.Handle) {
	s.emit(events.NewNarrationFinished(handle))
	if s.overlayClip == handle {
		s.hideOverlay()
	}

	active := s.speaking
	if active == nil || active.handle != handle {
		return
	}
	s.speaking = nil
	s.settle(ctx, active)
}

// settle applies the follow-up effects of a clip if its phase is still
// active.
func (s *Scene) settle(ctx context.Context, active *activeNarration) {
	if active.seq != s.phaseSeq {
		return
	}
	for _, effect := range active.narrate.Then {
		s.apply(ctx, active.scriptName, active.step, effect, active.seq)
	}
}

// interruptNarration stops the current clip and returns it.
func (s *Scene) interruptNarration(ctx context.Context) *activeNarration {
	handle, ok := s.narration.Stop(ctx)
	if !ok {
		return nil
	}

	s.emit(events.NewNarrationStopped(handle))
	if s.overlayClip == handle {
		s.hideOverlay()
	}

	active := s.speaking
	s.speaking = nil
	if active == nil || active.handle != handle {
		return nil
	}
	return active
}

func (s *Scene) showOverlay(handle narration.Handle, safety time.Duration) {
	s.hideOverlay()
	s.overlayClip = handle
	s.emit(events.NewCueIssued("overlay", "show", script.Show(OverlayTarget)))
	s.overlay = s.ambient.Schedule(safety, func() {
		if s.overlayClip == handle {
			s.hideOverlay()
		}
	})
}

func (s *Scene) hideOverlay() {
	if s.overlayClip.IsZero() {
		return
	}
	s.overlay.Cancel()
	s.overlay = timeline.Handle{}
	s.overlayClip = narration.Handle{}
	s.emit(events.NewCueIssued("overlay", "hide", script.Hide(OverlayTarget)))
}

func (s *Scene) acknowledge(ctx context.Context) {
	if s.Phase() != script.PhaseIntro || !s.introReady {
		logger.DebugContext(ctx, "ignoring acknowledge", "phase", s.Phase().String(), "ready", s.introReady)
		return
	}

	s.introReady = false
	s.interruptNarration(ctx)
	s.play(ctx, s.phaseTimeline, script.Acknowledged())
}

func (s *Scene) submitUtterance(ctx context.Context, utterance intent.Utterance) {
	mode := events.ListenSpeech
	if len(utterance.Alternatives) == 0 && utterance.Volume != nil {
		mode = events.ListenVolume
	}

	choice := s.classifier.Classify(utterance)
	s.emit(events.NewUtteranceClassified(mode, utterance, choice))
	s.submitChoice(ctx, choice)
}

// submitChoice acts on choice only in waiting; anywhere else it is a no-op
// apart from the notification.
func (s *Scene) submitChoice(ctx context.Context, choice intent.Choice) {
	if !choice.IsValid() {
		choice = intent.ChoiceUnclear
	}

	phase := s.Phase()
	if !phase.AcceptsChoices() {
		logger.DebugContext(ctx, "discarding choice", "choice", choice.String(), "phase", phase.String())
		count(ctx, choicesCounter, attribute.String("choice", choice.String()), attribute.Bool("accepted", false))
		s.emit(events.NewChoiceDiscarded(choice, phase))
		return
	}

	ctx, span := tracer.Start(ctx, "scene.resolve")
	defer span.End()
	span.SetAttributes(attribute.String("choice", choice.String()))

	s.cancelListening(ctx)
	count(ctx, choicesCounter, attribute.String("choice", choice.String()), attribute.Bool("accepted", true))
	s.emit(events.NewChoiceAccepted(choice))

	branch := s.resolver.Resolve(choice)
	s.branch = &branch
	s.enterPhase(ctx, script.PhaseProcessing)
	if !branch.Terminal() {
		s.setInput(true)
	}
	s.play(ctx, s.phaseTimeline, branch.Script)
}

func (s *Scene) conclude(ctx context.Context) {
	branch := s.branch
	if branch == nil || !branch.Terminal() {
		logger.WarnContext(ctx, "conclusion without a terminal branch")
		return
	}
	s.branch = nil

	result := *branch.Outcome
	s.enterPhase(ctx, script.PhaseComplete)
	logger.InfoContext(ctx, "scene concluded", "outcome", string(result.Kind), "reward", result.RewardTokens)
	count(ctx, outcomesCounter, attribute.String("outcome", string(result.Kind)))
	s.emit(events.NewOutcomeProduced(result))
}

func (s *Scene) hint(ctx context.Context) {
	logger.DebugContext(ctx, "playing hint", "phase", s.Phase().String())
	s.play(ctx, s.ambient, script.Hint())
}

// restart drops everything in flight and replays the intro. It is allowed
// from any phase.
func (s *Scene) restart(ctx context.Context) {
	logger.InfoContext(ctx, "restarting scene", "phase", s.Phase().String())

	s.phaseTimeline.CancelAll()
	s.ambient.CancelAll()
	s.cancelListening(ctx)
	s.interruptNarration(ctx)
	s.hideOverlay()
	s.clearStatus()

	s.branch = nil
	s.energy = 0
	s.enterPhase(ctx, script.PhaseIntro)
}
