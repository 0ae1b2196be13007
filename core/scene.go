package orchestration

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/koscakluka/ema-rescue/core/commands"
	"github.com/koscakluka/ema-rescue/core/events"
	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/narration"
	"github.com/koscakluka/ema-rescue/core/outcome"
	"github.com/koscakluka/ema-rescue/core/script"
	"github.com/koscakluka/ema-rescue/core/speechtotext"
	"github.com/koscakluka/ema-rescue/core/timeline"
)

// Scene runs one playthrough of the rescue lesson.
//
// The host talks to a scene only through commands and receives only events.
// Every command, timeline beat, narration completion and recognition result
// is handled on a single loop goroutine, so the state below the loop marker
// is never touched concurrently.
type Scene struct {
	id uuid.UUID

	character        script.Character
	clock            timeline.Clock
	classifier       intent.Classifier
	thresholds       intent.VolumeThresholds
	resolver         *outcome.Resolver
	narrationPlayer  narration.Player
	recognizer       speechtotext.Recognizer
	capture          AudioCapture
	listenWindow     time.Duration
	sampleInterval   time.Duration
	language         string
	maxAlternatives  int
	statusClearDelay time.Duration
	strictContracts  bool
	onEvent          events.Handler

	mailbox   *mailbox
	narration *narration.Manager

	// phaseTimeline is cancelled on every phase change, ambient carries
	// overlays and status clears, listen carries fallback sampling.
	phaseTimeline *timeline.Scheduler
	ambient       *timeline.Scheduler
	listen        *timeline.Scheduler

	ctx    context.Context
	cancel context.CancelFunc

	phase     atomic.Value
	startOnce sync.Once
	started   atomic.Bool
	tornDown  atomic.Bool

	// loop-owned
	phaseSeq     uint64
	introReady   bool
	inputEnabled bool
	energy       int
	branch       *outcome.Branch
	speaking     *activeNarration
	overlay      timeline.Handle
	overlayClip  narration.Handle
	status       string
	statusClear  timeline.Handle
	listening    *listenAttempt
	attempts     uint64
	finished     bool
}

func NewScene(opts ...SceneOption) *Scene {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scene{
		id:               uuid.New(),
		character:        script.DefaultCharacter,
		clock:            timeline.SystemClock(),
		classifier:       intent.NewKeywordClassifier(),
		thresholds:       intent.DefaultVolumeThresholds(),
		resolver:         outcome.NewResolver(),
		recognizer:       speechtotext.Unavailable,
		listenWindow:     DefaultListenWindow,
		sampleInterval:   DefaultSampleInterval,
		language:         speechtotext.DefaultLanguage,
		maxAlternatives:  speechtotext.DefaultMaxAlternatives,
		statusClearDelay: DefaultStatusClearDelay,
		mailbox:          newMailbox(),
		ctx:              ctx,
		cancel:           cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.phase.Store(script.PhaseIntro)
	s.narration = narration.NewManager(
		narration.WithPlayer(s.narrationPlayer),
		narration.WithDispatcher(s.dispatch),
	)
	newTimeline := func(name string) *timeline.Scheduler {
		return timeline.New(
			timeline.WithName(name),
			timeline.WithClock(s.clock),
			timeline.WithDispatcher(s.dispatch),
		)
	}
	s.phaseTimeline = newTimeline("phase")
	s.ambient = newTimeline("ambient")
	s.listen = newTimeline("listen")

	return s
}

func (s *Scene) ID() uuid.UUID { return s.id }

func (s *Scene) Character() script.Character { return s.character }

// Phase returns the active phase. It is safe to call from any goroutine.
func (s *Scene) Phase() script.Phase {
	return s.phase.Load().(script.Phase)
}

// Start begins the intro. Cancelling ctx tears the scene down.
func (s *Scene) Start(ctx context.Context) error {
	if s.tornDown.Load() {
		return ErrTornDown
	}
	if _, ok := script.ParseCharacter(s.character.String()); !ok {
		return s.contractViolation(ErrNoCharacter, "cannot start scene with character %q", s.character)
	}

	s.startOnce.Do(func() {
		logger.InfoContext(ctx, "starting scene", "scene", s.id.String(), "character", s.character.String())
		s.started.Store(true)
		s.mailbox.Start()
		s.post(func() { s.enterPhase(s.ctx, script.PhaseIntro) })

		go func() {
			select {
			case <-ctx.Done():
				s.beginTeardown()
			case <-s.mailbox.done:
			}
		}()
	})
	return nil
}

// Send delivers cmd to the scene loop. It never blocks on the scene.
// Commands that do not apply to the current phase are dropped by the loop,
// not rejected here.
func (s *Scene) Send(cmd commands.Command) error {
	if cmd == nil {
		return fmt.Errorf("nil command")
	}
	if s.tornDown.Load() {
		return ErrTornDown
	}
	if !s.started.Load() {
		return s.contractViolation(ErrNotStarted, "cannot %s", cmd.Name())
	}

	if _, ok := cmd.(commands.Teardown); ok {
		s.beginTeardown()
		return nil
	}
	if !s.post(func() { s.handle(s.ctx, cmd) }) {
		return ErrTornDown
	}
	return nil
}

func (s *Scene) Acknowledge() error { return s.Send(commands.NewAcknowledge()) }

func (s *Scene) SubmitChoice(choice intent.Choice) error {
	return s.Send(commands.NewSubmitChoice(choice))
}

func (s *Scene) SubmitUtterance(utterance intent.Utterance) error {
	return s.Send(commands.NewSubmitUtterance(utterance))
}

func (s *Scene) StartListening() error { return s.Send(commands.NewStartListening()) }

func (s *Scene) StopListening() error { return s.Send(commands.NewStopListening()) }

func (s *Scene) RequestHint() error { return s.Send(commands.NewRequestHint()) }

func (s *Scene) Restart() error { return s.Send(commands.NewRestart()) }

// Teardown cancels every pending beat, stops narration and listening, and
// waits for the loop to exit. No event is emitted after SceneTornDown.
//
// Teardown blocks on the scene loop, so it must not be called from an event
// handler; send [commands.Teardown] there instead.
func (s *Scene) Teardown(ctx context.Context) error {
	s.beginTeardown()
	return s.mailbox.AwaitDone(ctx)
}

// Sync waits until the loop has handled everything queued so far. It
// returns an error once the scene is torn down.
func (s *Scene) Sync(ctx context.Context) error {
	if !s.started.Load() {
		return ErrNotStarted
	}
	return s.mailbox.Sync(ctx)
}

func (s *Scene) beginTeardown() {
	if !s.tornDown.CompareAndSwap(false, true) {
		return
	}

	s.phaseTimeline.Close()
	s.ambient.Close()
	s.listen.Close()

	if !s.started.Load() || !s.mailbox.Post(func() { s.finish(s.ctx) }) {
		s.narration.Close(s.ctx)
		s.cancel()
		s.mailbox.Stop()
	}
}

func (s *Scene) finish(ctx context.Context) {
	logger.InfoContext(ctx, "tearing down scene", "scene", s.id.String(), "phase", s.Phase().String())

	s.cancelListening(ctx)
	if handle, ok := s.narration.Stop(ctx); ok {
		s.emit(events.NewNarrationStopped(handle))
	}
	s.narration.Close(ctx)
	s.speaking = nil
	s.branch = nil

	s.emit(events.NewSceneTornDown())
	s.finished = true
	s.cancel()
	s.mailbox.Stop()
}

// post queues f on the loop. Work queued before teardown began is dropped.
func (s *Scene) post(f func()) bool {
	return s.mailbox.Post(func() {
		if s.tornDown.Load() {
			return
		}
		f()
	})
}

func (s *Scene) dispatch(f func()) { s.post(f) }

func (s *Scene) handle(ctx context.Context, cmd commands.Command) {
	switch cmd := cmd.(type) {
	case commands.Acknowledge:
		s.acknowledge(ctx)
	case commands.SubmitChoice:
		s.submitChoice(ctx, cmd.Choice)
	case commands.SubmitUtterance:
		s.submitUtterance(ctx, cmd.Utterance)
	case commands.StartListening:
		s.startListening(ctx)
	case commands.StopListening:
		s.stopListening(ctx)
	case commands.RequestHint:
		s.hint(ctx)
	case commands.Restart:
		s.restart(ctx)
	default:
		logger.WarnContext(ctx, "unknown command", "command", string(cmd.Name()))
	}
}

func (s *Scene) emit(event events.Event) {
	if s.finished || s.onEvent == nil {
		return
	}
	s.onEvent(event)
}
