package narration

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Player is the external narration playback capability.
//
// Play starts clip and calls onFinished once it has been heard in full.
// Stop silences whatever is playing; a stopped clip never reports finished.
type Player interface {
	Play(ctx context.Context, clip ClipID, onFinished func()) error
	Stop() error
}

// Handle references one narration playback.
type Handle struct {
	ID   uuid.UUID
	Clip ClipID
}

func (h Handle) IsZero() bool { return h.ID == uuid.Nil }

// Manager enforces the single-playing-clip rule over a Player.
//
// Play and Stop are expected to be called from one goroutine (the scene
// loop). Completion callbacks are routed back through the dispatcher and are
// dropped if their clip is no longer current by the time they run.
type Manager struct {
	player   Player
	dispatch func(func())

	mu      sync.Mutex
	current Handle
	closed  bool
}

type ManagerOption func(*Manager)

// WithPlayer sets the playback capability. Without one, every clip finishes
// as soon as it starts.
func WithPlayer(player Player) ManagerOption {
	return func(m *Manager) { m.player = player }
}

// WithDispatcher routes completion callbacks through dispatch.
func WithDispatcher(dispatch func(func())) ManagerOption {
	return func(m *Manager) {
		if dispatch != nil {
			m.dispatch = dispatch
		}
	}
}

func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{dispatch: func(f func()) { f() }}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Play stops the current clip, if any, and starts clip. onFinished runs once
// the clip completes, or right away when the player fails to start it; in
// that case the start error is returned as well.
func (m *Manager) Play(ctx context.Context, clip ClipID, onFinished func(Handle)) (Handle, error) {
	if m == nil {
		return Handle{}, ErrClosed
	}

	ctx, span := tracer.Start(ctx, "play narration")
	defer span.End()
	span.SetAttributes(attribute.String("narration.clip", clip.String()))

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Handle{}, ErrClosed
	}
	previous := m.current
	handle := Handle{ID: uuid.New(), Clip: clip}
	m.current = handle
	m.mu.Unlock()

	if !previous.IsZero() {
		m.stopPlayer(ctx)
	}

	finished := func() {
		m.dispatch(func() {
			if m.complete(handle) && onFinished != nil {
				onFinished(handle)
			}
		})
	}

	if m.player == nil {
		finished()
		return handle, nil
	}

	if err := m.player.Play(ctx, clip, finished); err != nil {
		err = fmt.Errorf("failed to play narration %q: %w", clip, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		finished()
		return handle, err
	}

	return handle, nil
}

// Stop silences the current clip. It is safe to call repeatedly and reports
// whether a clip was playing.
func (m *Manager) Stop(ctx context.Context) (Handle, bool) {
	if m == nil {
		return Handle{}, false
	}

	m.mu.Lock()
	previous := m.current
	m.current = Handle{}
	m.mu.Unlock()

	if previous.IsZero() {
		return Handle{}, false
	}
	m.stopPlayer(ctx)
	return previous, true
}

// Current returns the playing clip.
func (m *Manager) Current() (Handle, bool) {
	if m == nil {
		return Handle{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, !m.current.IsZero()
}

// Close stops playback and rejects further clips. Pending completions are
// dropped.
func (m *Manager) Close(ctx context.Context) {
	if m == nil {
		return
	}

	m.Stop(ctx)
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *Manager) complete(handle Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.current != handle {
		return false
	}
	m.current = Handle{}
	return true
}

func (m *Manager) stopPlayer(ctx context.Context) {
	if m.player == nil {
		return
	}

	if err := m.player.Stop(); err != nil {
		logger.WarnContext(ctx, "failed to stop narration", "error", err)
	}
}
