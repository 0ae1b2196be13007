package orchestration

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/koscakluka/ema-rescue/core/commands"
	"github.com/koscakluka/ema-rescue/core/events"
	"github.com/koscakluka/ema-rescue/core/intent"
	"github.com/koscakluka/ema-rescue/core/narration"
	"github.com/koscakluka/ema-rescue/core/outcome"
	"github.com/koscakluka/ema-rescue/core/script"
	"github.com/koscakluka/ema-rescue/core/timeline"
	"go.uber.org/goleak"
)

const tick = 10 * time.Millisecond

type fakePlayer struct {
	mu       sync.Mutex
	plays    []narration.ClipID
	stops    int
	playing  narration.ClipID
	overlaps int
	pending  map[narration.ClipID]func()
	failOn   map[narration.ClipID]error
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{pending: map[narration.ClipID]func(){}, failOn: map[narration.ClipID]error{}}
}

func (p *fakePlayer) Play(_ context.Context, clip narration.ClipID, onFinished func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.plays = append(p.plays, clip)
	if err := p.failOn[clip]; err != nil {
		return err
	}
	if p.playing != "" {
		p.overlaps++
	}
	p.playing = clip
	p.pending[clip] = onFinished
	return nil
}

func (p *fakePlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stops++
	p.playing = ""
	return nil
}

// finish reports clip as heard in full.
func (p *fakePlayer) finish(clip narration.ClipID) bool {
	p.mu.Lock()
	onFinished, ok := p.pending[clip]
	delete(p.pending, clip)
	if p.playing == clip {
		p.playing = ""
	}
	p.mu.Unlock()

	if ok {
		onFinished()
	}
	return ok
}

func (p *fakePlayer) played() []narration.ClipID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]narration.ClipID(nil), p.plays...)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) record(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) all() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

func (r *recorder) mark() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) since(mark int) []events.Event {
	all := r.all()
	if mark > len(all) {
		return nil
	}
	return all[mark:]
}

func eventsOf[T events.Event](list []events.Event) []T {
	var found []T
	for _, event := range list {
		if typed, ok := event.(T); ok {
			found = append(found, typed)
		}
	}
	return found
}

type testScene struct {
	*Scene
	t      *testing.T
	clock  *timeline.ManualClock
	player *fakePlayer
	events *recorder
}

func newTestScene(t *testing.T, opts ...SceneOption) *testScene {
	t.Helper()

	ts := &testScene{
		t:      t,
		clock:  timeline.NewManualClock(time.Unix(0, 0)),
		player: newFakePlayer(),
		events: &recorder{},
	}
	ts.Scene = NewScene(append([]SceneOption{
		WithClock(ts.clock),
		WithNarrationPlayer(ts.player),
		WithEventHandler(ts.events.record),
	}, opts...)...)

	if err := ts.Start(context.Background()); err != nil {
		t.Fatalf("expected scene to start, got %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := ts.Teardown(ctx); err != nil {
			t.Errorf("expected clean teardown, got %v", err)
		}
	})

	ts.settle()
	return ts
}

func (ts *testScene) sync() {
	ts.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ts.Sync(ctx); err != nil {
		ts.t.Fatalf("expected scene loop to settle, got %v", err)
	}
}

// settle lets the loop handle what was sent, fires beats due right now and
// waits for the loop again.
func (ts *testScene) settle() {
	ts.t.Helper()
	ts.sync()
	ts.clock.Advance(0)
	ts.sync()
}

// advance moves time in small steps, letting the loop catch up after each
// one so that beats scheduled by beats land on exact deadlines.
func (ts *testScene) advance(d time.Duration) {
	ts.t.Helper()
	for elapsed := time.Duration(0); elapsed < d; elapsed += tick {
		ts.settle()
		ts.clock.Advance(tick)
		ts.sync()
	}
	ts.settle()
}

func (ts *testScene) expectPhase(want script.Phase) {
	ts.t.Helper()
	if got := ts.Phase(); got != want {
		ts.t.Fatalf("expected phase %q, got %q", want, got)
	}
}

func (ts *testScene) submit(choice intent.Choice) {
	ts.t.Helper()
	if err := ts.SubmitChoice(choice); err != nil {
		ts.t.Fatalf("expected choice to be delivered, got %v", err)
	}
	ts.settle()
}

func (ts *testScene) acknowledgeIntro() {
	ts.t.Helper()

	ts.advance(script.IntroNarrationAt)
	if !ts.player.finish(narration.ClipFirstScene) {
		ts.t.Fatalf("expected the intro narration to be playing")
	}
	ts.sync()
	if err := ts.Acknowledge(); err != nil {
		ts.t.Fatalf("expected acknowledge to be delivered, got %v", err)
	}
	ts.settle()
	ts.advance(script.AcknowledgeFade)
	ts.expectPhase(script.PhaseAnimating)
}

func (ts *testScene) reachWaiting() {
	ts.t.Helper()
	ts.acknowledgeIntro()
	ts.advance(script.DisasterLength)
	ts.expectPhase(script.PhaseWaiting)
}

func TestSceneStartsInIntro(t *testing.T) {
	ts := newTestScene(t)

	ts.expectPhase(script.PhaseIntro)
	changes := eventsOf[events.PhaseChanged](ts.events.all())
	if len(changes) != 1 || changes[0].From != "" || changes[0].To != script.PhaseIntro {
		t.Fatalf("expected a single entry into intro, got %+v", changes)
	}
}

func TestAcknowledgeWaitsForIntroNarration(t *testing.T) {
	ts := newTestScene(t)

	ts.advance(script.IntroNarrationAt)
	if got := ts.player.played(); len(got) != 1 || got[0] != narration.ClipFirstScene {
		t.Fatalf("expected the intro narration, got %v", got)
	}

	if err := ts.Acknowledge(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ts.advance(script.AcknowledgeFade)
	ts.expectPhase(script.PhaseIntro)
	if got := eventsOf[events.IntroReady](ts.events.all()); len(got) != 0 {
		t.Fatalf("expected intro not to be ready yet, got %d ready events", len(got))
	}

	ts.player.finish(narration.ClipFirstScene)
	ts.sync()
	if got := eventsOf[events.IntroReady](ts.events.all()); len(got) != 1 {
		t.Fatalf("expected intro to be ready once, got %d", len(got))
	}

	if err := ts.Acknowledge(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ts.settle()
	ts.advance(script.AcknowledgeFade - tick)
	ts.expectPhase(script.PhaseIntro)
	ts.advance(tick)
	ts.expectPhase(script.PhaseAnimating)
}

func TestIntroUnlocksWhenNarrationFailsToStart(t *testing.T) {
	ts := newTestScene(t)
	ts.player.mu.Lock()
	ts.player.failOn[narration.ClipFirstScene] = errors.New("device busy")
	ts.player.mu.Unlock()

	ts.advance(script.IntroNarrationAt)
	if got := eventsOf[events.IntroReady](ts.events.all()); len(got) != 1 {
		t.Fatalf("expected intro to unlock after a failed narration, got %d ready events", len(got))
	}
}

func TestDisasterEntersWaitingWithInputEnabled(t *testing.T) {
	ts := newTestScene(t)
	ts.acknowledgeIntro()
	mark := ts.events.mark()

	ts.advance(script.DisasterLength - tick)
	ts.expectPhase(script.PhaseAnimating)
	ts.advance(tick)
	ts.expectPhase(script.PhaseWaiting)

	inputs := eventsOf[events.InputControlChanged](ts.events.since(mark))
	if len(inputs) != 1 || !inputs[0].Enabled {
		t.Fatalf("expected input to be enabled once, got %+v", inputs)
	}

	waitingCues := 0
	for _, cue := range eventsOf[events.CueIssued](ts.events.since(mark)) {
		if cue.Script == "waiting" {
			waitingCues++
		}
	}
	if waitingCues == 0 {
		t.Fatalf("expected the waiting scene to be shown")
	}
}

func TestKnockConcludesInVictoryAfterFullTimeline(t *testing.T) {
	ts := newTestScene(t)
	ts.reachWaiting()
	mark := ts.events.mark()

	ts.submit(intent.ChoiceKnock)
	ts.expectPhase(script.PhaseProcessing)

	ts.submit(intent.ChoiceScream)
	discarded := eventsOf[events.ChoiceDiscarded](ts.events.since(mark))
	if len(discarded) != 1 || discarded[0].Choice != intent.ChoiceScream || discarded[0].Phase != script.PhaseProcessing {
		t.Fatalf("expected the second choice to be discarded, got %+v", discarded)
	}

	ts.advance(script.VictoryAt - tick)
	ts.expectPhase(script.PhaseProcessing)
	if got := eventsOf[events.OutcomeProduced](ts.events.all()); len(got) != 0 {
		t.Fatalf("expected no outcome before the rescue completes, got %+v", got)
	}

	impacts := 0
	for _, cue := range eventsOf[events.CueIssued](ts.events.since(mark)) {
		if cue.Script == "correct" && strings.HasPrefix(cue.Step, "impact-") && cue.Cue.Kind == script.CueShow {
			impacts++
		}
	}
	if impacts != script.ImpactCount {
		t.Fatalf("expected %d impacts before victory, got %d", script.ImpactCount, impacts)
	}

	ts.advance(tick)
	ts.expectPhase(script.PhaseComplete)

	outcomes := eventsOf[events.OutcomeProduced](ts.events.all())
	if len(outcomes) != 1 {
		t.Fatalf("expected exactly one outcome, got %d", len(outcomes))
	}
	if !outcomes[0].Outcome.IsVictory() || outcomes[0].Outcome.RewardTokens != outcome.DefaultRewardTokens {
		t.Fatalf("expected victory with %d tokens, got %+v", outcome.DefaultRewardTokens, outcomes[0].Outcome)
	}

	accepted := eventsOf[events.ChoiceAccepted](ts.events.all())
	if len(accepted) != 1 || accepted[0].Choice != intent.ChoiceKnock {
		t.Fatalf("expected only the knock to be accepted, got %+v", accepted)
	}
}

func TestScreamDrainsEnergyThenGameOver(t *testing.T) {
	ts := newTestScene(t)
	ts.reachWaiting()

	ts.submit(intent.ChoiceScream)
	ts.advance(script.GameOverAt - tick)
	ts.expectPhase(script.PhaseProcessing)

	energy := eventsOf[events.EnergyChanged](ts.events.all())
	if len(energy) != script.EnergyDrainSteps+1 {
		t.Fatalf("expected %d energy updates, got %d", script.EnergyDrainSteps+1, len(energy))
	}
	if energy[len(energy)-1].Level != 0 {
		t.Fatalf("expected energy to be exhausted, got %d", energy[len(energy)-1].Level)
	}

	ts.advance(tick)
	ts.expectPhase(script.PhaseComplete)
	outcomes := eventsOf[events.OutcomeProduced](ts.events.all())
	if len(outcomes) != 1 || outcomes[0].Outcome.Kind != outcome.KindGameOver || outcomes[0].Outcome.RewardTokens != 0 {
		t.Fatalf("expected a single game over without reward, got %+v", outcomes)
	}
}

func TestUnclearRetriesInPlace(t *testing.T) {
	ts := newTestScene(t)
	ts.reachWaiting()
	mark := ts.events.mark()

	if err := ts.SubmitUtterance(intent.TranscriptUtterance("hello there friend")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ts.settle()
	ts.expectPhase(script.PhaseProcessing)

	classified := eventsOf[events.UtteranceClassified](ts.events.since(mark))
	if len(classified) != 1 || classified[0].Choice != intent.ChoiceUnclear {
		t.Fatalf("expected an unclear classification, got %+v", classified)
	}

	inputs := eventsOf[events.InputControlChanged](ts.events.since(mark))
	if len(inputs) != 2 || inputs[0].Enabled || !inputs[1].Enabled {
		t.Fatalf("expected input to be re-enabled right away, got %+v", inputs)
	}

	ts.submit(intent.ChoiceKnock)
	if got := eventsOf[events.ChoiceDiscarded](ts.events.since(mark)); len(got) != 1 {
		t.Fatalf("expected a choice during the retry beat to be discarded, got %+v", got)
	}

	ts.advance(script.UnclearBeat)
	ts.expectPhase(script.PhaseWaiting)
	if got := eventsOf[events.OutcomeProduced](ts.events.all()); len(got) != 0 {
		t.Fatalf("expected no outcome for an unclear choice, got %+v", got)
	}
	for _, cue := range eventsOf[events.CueIssued](ts.events.since(mark)) {
		if cue.Script == "waiting" {
			t.Fatalf("expected the waiting scene not to replay after a retry")
		}
	}

	ts.submit(intent.ChoiceKnock)
	ts.expectPhase(script.PhaseProcessing)
}

func TestChoicesOutsideWaitingAreDiscarded(t *testing.T) {
	ts := newTestScene(t)

	ts.submit(intent.ChoiceKnock)
	ts.expectPhase(script.PhaseIntro)

	ts.acknowledgeIntro()
	ts.submit(intent.ChoiceScream)
	ts.expectPhase(script.PhaseAnimating)

	ts.advance(script.DisasterLength)
	ts.submit(intent.ChoiceScream)
	ts.advance(script.GameOverAt)
	ts.expectPhase(script.PhaseComplete)

	ts.submit(intent.ChoiceKnock)
	ts.advance(script.VictoryAt)
	ts.expectPhase(script.PhaseComplete)

	all := ts.events.all()
	discarded := eventsOf[events.ChoiceDiscarded](all)
	wantPhases := []script.Phase{script.PhaseIntro, script.PhaseAnimating, script.PhaseComplete}
	if len(discarded) != len(wantPhases) {
		t.Fatalf("expected %d discarded choices, got %+v", len(wantPhases), discarded)
	}
	for i, phase := range wantPhases {
		if discarded[i].Phase != phase {
			t.Fatalf("expected discard %d in %q, got %q", i, phase, discarded[i].Phase)
		}
	}
	if got := eventsOf[events.OutcomeProduced](all); len(got) != 1 {
		t.Fatalf("expected a single outcome, got %d", len(got))
	}
}

func TestInvalidChoiceIsTreatedAsUnclear(t *testing.T) {
	ts := newTestScene(t)
	ts.reachWaiting()

	ts.submit(intent.Choice("dance"))
	accepted := eventsOf[events.ChoiceAccepted](ts.events.all())
	if len(accepted) != 1 || accepted[0].Choice != intent.ChoiceUnclear {
		t.Fatalf("expected unknown choice to be accepted as unclear, got %+v", accepted)
	}
}

func TestOnlyOneNarrationPlaysAtATime(t *testing.T) {
	ts := newTestScene(t)
	ts.acknowledgeIntro()
	ts.advance(7800 * time.Millisecond)

	played := ts.player.played()
	want := []narration.ClipID{narration.ClipFirstScene, narration.ClipBombing, narration.ClipKnockOrScream}
	if len(played) != len(want) {
		t.Fatalf("expected %v, got %v", want, played)
	}
	for i := range want {
		if played[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, played)
		}
	}
	if ts.player.overlaps != 0 {
		t.Fatalf("expected no overlapping narration, got %d overlaps", ts.player.overlaps)
	}

	stopped := eventsOf[events.NarrationStopped](ts.events.all())
	if len(stopped) != 1 || stopped[0].Handle.Clip != narration.ClipBombing {
		t.Fatalf("expected the bombing narration to be cut off, got %+v", stopped)
	}
}

func overlayCues(list []events.Event) []script.CueKind {
	var kinds []script.CueKind
	for _, cue := range eventsOf[events.CueIssued](list) {
		if cue.Cue.Target == OverlayTarget {
			kinds = append(kinds, cue.Cue.Kind)
		}
	}
	return kinds
}

func TestHintInterruptsIntroWithoutLockingIt(t *testing.T) {
	ts := newTestScene(t)
	ts.advance(script.IntroNarrationAt)
	mark := ts.events.mark()

	if err := ts.RequestHint(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ts.settle()

	since := ts.events.since(mark)
	if got := eventsOf[events.IntroReady](since); len(got) != 1 {
		t.Fatalf("expected the interrupted intro to unlock, got %d ready events", len(got))
	}
	started := eventsOf[events.NarrationStarted](since)
	if len(started) != 1 || started[0].Handle.Clip != narration.ClipHint || !started[0].Overlay {
		t.Fatalf("expected the hint in an overlay, got %+v", started)
	}

	ts.player.finish(narration.ClipHint)
	ts.sync()
	if got := overlayCues(ts.events.since(mark)); len(got) != 2 || got[0] != script.CueShow || got[1] != script.CueHide {
		t.Fatalf("expected overlay shown then hidden, got %v", got)
	}
}

func TestHintOverlayHidesAfterSafetyTimeout(t *testing.T) {
	ts := newTestScene(t)
	ts.reachWaiting()
	mark := ts.events.mark()

	if err := ts.RequestHint(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ts.settle()

	ts.advance(script.HintOverlay + script.OverlaySafety - tick)
	if got := overlayCues(ts.events.since(mark)); len(got) != 1 {
		t.Fatalf("expected overlay to stay up, got %v", got)
	}
	ts.advance(tick)
	if got := overlayCues(ts.events.since(mark)); len(got) != 2 || got[1] != script.CueHide {
		t.Fatalf("expected overlay to be hidden by the safety timeout, got %v", got)
	}
	ts.expectPhase(script.PhaseWaiting)
}

func TestRestartCancelsPendingOutcome(t *testing.T) {
	ts := newTestScene(t)
	ts.reachWaiting()

	ts.submit(intent.ChoiceKnock)
	ts.advance(time.Second)
	if err := ts.Restart(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ts.settle()
	ts.expectPhase(script.PhaseIntro)

	ts.advance(script.VictoryAt)
	ts.expectPhase(script.PhaseIntro)
	if got := eventsOf[events.OutcomeProduced](ts.events.all()); len(got) != 0 {
		t.Fatalf("expected the cancelled branch to produce nothing, got %+v", got)
	}

	intros := 0
	for _, clip := range ts.player.played() {
		if clip == narration.ClipFirstScene {
			intros++
		}
	}
	if intros != 2 {
		t.Fatalf("expected the intro narration to replay, got %d plays", intros)
	}
}

func TestRestartAfterOutcomePlaysAgain(t *testing.T) {
	ts := newTestScene(t)
	ts.reachWaiting()
	ts.submit(intent.ChoiceScream)
	ts.advance(script.GameOverAt)
	ts.expectPhase(script.PhaseComplete)

	if err := ts.Send(commands.NewRestart()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ts.settle()
	ts.reachWaiting()

	ts.submit(intent.ChoiceKnock)
	ts.advance(script.VictoryAt)
	outcomes := eventsOf[events.OutcomeProduced](ts.events.all())
	if len(outcomes) != 2 || !outcomes[1].Outcome.IsVictory() {
		t.Fatalf("expected game over then victory, got %+v", outcomes)
	}
}

func TestTeardownSilencesScene(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ts := newTestScene(t)
	ts.reachWaiting()
	ts.submit(intent.ChoiceKnock)
	ts.advance(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ts.Teardown(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	all := ts.events.all()
	if _, ok := all[len(all)-1].(events.SceneTornDown); !ok {
		t.Fatalf("expected teardown to be the last event, got %T", all[len(all)-1])
	}
	if ts.clock.Pending() != 0 {
		t.Fatalf("expected no armed timers after teardown, got %d", ts.clock.Pending())
	}

	ts.clock.Advance(10 * time.Second)
	ts.player.finish(narration.ClipCorrect)
	if got := len(ts.events.all()); got != len(all) {
		t.Fatalf("expected no events after teardown, got %d more", got-len(all))
	}
	ts.expectPhase(script.PhaseProcessing)

	if err := ts.SubmitChoice(intent.ChoiceKnock); !errors.Is(err, ErrTornDown) {
		t.Fatalf("expected %v, got %v", ErrTornDown, err)
	}
	if err := ts.Teardown(ctx); err != nil {
		t.Fatalf("expected repeated teardown to be a no-op, got %v", err)
	}
}

func TestTeardownCommandFromEventHandler(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var scene *Scene
	tornDown := make(chan struct{})
	scene = NewScene(
		WithClock(timeline.NewManualClock(time.Unix(0, 0))),
		WithEventHandler(func(event events.Event) {
			switch event.(type) {
			case events.PhaseChanged:
				_ = scene.Send(commands.NewTeardown())
			case events.SceneTornDown:
				close(tornDown)
			}
		}),
	)
	if err := scene.Start(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	select {
	case <-tornDown:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for teardown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := scene.Teardown(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestStartContextCancellationTearsDown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	scene := NewScene(WithClock(timeline.NewManualClock(time.Unix(0, 0))))
	ctx, cancel := context.WithCancel(context.Background())
	if err := scene.Start(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	cancel()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	if err := scene.mailbox.AwaitDone(waitCtx); err != nil {
		t.Fatalf("expected the loop to exit, got %v", err)
	}
	if err := scene.Restart(); !errors.Is(err, ErrTornDown) {
		t.Fatalf("expected %v, got %v", ErrTornDown, err)
	}
}

func TestCommandsBeforeStartAreRejected(t *testing.T) {
	scene := NewScene()

	if err := scene.SubmitChoice(intent.ChoiceKnock); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected %v, got %v", ErrNotStarted, err)
	}
	if err := scene.Sync(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected %v, got %v", ErrNotStarted, err)
	}
	if err := scene.Teardown(context.Background()); err != nil {
		t.Fatalf("expected teardown of an unstarted scene to succeed, got %v", err)
	}
	if err := scene.Start(context.Background()); !errors.Is(err, ErrTornDown) {
		t.Fatalf("expected %v, got %v", ErrTornDown, err)
	}
}

func TestStrictContractsPanic(t *testing.T) {
	scene := NewScene(WithStrictContracts(true))

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNotStarted) {
			t.Fatalf("expected a panic wrapping %v, got %v", ErrNotStarted, r)
		}
	}()
	_ = scene.RequestHint()
}

func TestStartRequiresKnownCharacter(t *testing.T) {
	scene := NewScene(WithCharacter("wolf"))

	if err := scene.Start(context.Background()); !errors.Is(err, ErrNoCharacter) {
		t.Fatalf("expected %v, got %v", ErrNoCharacter, err)
	}
	if err := scene.Teardown(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestRewardTokensOption(t *testing.T) {
	ts := newTestScene(t, WithRewardTokens(25), WithCharacter(script.CharacterLayla))
	ts.reachWaiting()
	ts.submit(intent.ChoiceKnock)
	ts.advance(script.VictoryAt)

	outcomes := eventsOf[events.OutcomeProduced](ts.events.all())
	if len(outcomes) != 1 || outcomes[0].Outcome.RewardTokens != 25 {
		t.Fatalf("expected a 25 token victory, got %+v", outcomes)
	}

	coughs := 0
	for _, cue := range eventsOf[events.CueIssued](ts.events.all()) {
		if cue.Cue.Kind == script.CueSound && cue.Cue.Target == "coughLayla" {
			coughs++
		}
	}
	if coughs != 2 {
		t.Fatalf("expected the character cough twice, got %d", coughs)
	}
}

func TestReplacedStatusOutlivesQueuedClear(t *testing.T) {
	ts := newTestScene(t)
	ctx := context.Background()

	ts.post(func() { ts.postStatus(ctx, StatusNoSpeech) })
	ts.settle()
	mark := ts.events.mark()

	// Hold the loop so the first status's clear is dispatched behind the
	// replacement.
	release := make(chan struct{})
	ts.post(func() { <-release })
	ts.post(func() { ts.postStatus(ctx, StatusRecognitionError) })
	ts.clock.Advance(DefaultStatusClearDelay)
	close(release)
	ts.sync()

	since := ts.events.since(mark)
	if got := statuses(since); len(got) != 1 || got[0] != StatusRecognitionError {
		t.Fatalf("expected the replacement status, got %v", got)
	}
	if cleared := eventsOf[events.StatusCleared](since); len(cleared) != 0 {
		t.Fatalf("expected the replacement status to stay up, got %d clears", len(cleared))
	}

	ts.advance(DefaultStatusClearDelay)
	if cleared := eventsOf[events.StatusCleared](ts.events.since(mark)); len(cleared) != 1 {
		t.Fatalf("expected the replacement status to clear after its own delay, got %d clears", len(cleared))
	}
}
