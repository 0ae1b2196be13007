// Package timeline schedules time-delayed actions against a single clock.
//
// Actions are kept in one deadline-ordered queue so that actions with
// overlapping delays fire independently and in non-decreasing deadline order.
// Every action is stamped with the scheduler epoch current at scheduling
// time; [Scheduler.CancelAll] bumps the epoch, so an action that was already
// handed to the dispatcher when the cancellation happened is still dropped
// before it runs.
package timeline

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Action is a unit of scheduled work.
type Action func()

// Beat is one declarative timeline entry. Delay is relative to the moment
// the beat list is played, never to the previous beat.
type Beat struct {
	Delay  time.Duration
	Name   string
	Action Action
}

// Handle identifies one scheduled action.
type Handle struct {
	scheduler *Scheduler
	id        uint64
}

// Cancel drops the action if it has not run yet, including an action that
// is already due and waiting in the dispatcher. It reports whether the
// action was still pending.
func (h Handle) Cancel() bool {
	if h.scheduler == nil {
		return false
	}
	return h.scheduler.cancel(h.id)
}

type Scheduler struct {
	name     string
	clock    Clock
	dispatch func(func())

	mu     sync.Mutex
	epoch  uint64
	nextID uint64
	queue  entryQueue
	// byID holds every entry that has not run, queued or dispatched.
	byID   map[uint64]*entry
	timer  Timer
	closed bool
}

type Option func(*Scheduler)

// WithClock overrides the system clock.
func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithDispatcher routes due actions through dispatch instead of running them
// on the timer goroutine. The scene uses this to run every action on its own
// loop.
func WithDispatcher(dispatch func(func())) Option {
	return func(s *Scheduler) {
		if dispatch != nil {
			s.dispatch = dispatch
		}
	}
}

// WithName labels the scheduler in logs.
func WithName(name string) Option {
	return func(s *Scheduler) { s.name = name }
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		name:     "timeline",
		clock:    SystemClock(),
		dispatch: func(f func()) { f() },
		byID:     map[uint64]*entry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule runs action after delay. Negative delays are treated as zero.
// Scheduling on a closed scheduler returns an invalid handle.
func (s *Scheduler) Schedule(delay time.Duration, action Action) Handle {
	if s == nil || action == nil {
		return Handle{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Handle{}
	}

	return s.pushLocked(s.clock.Now(), delay, "", action)
}

// Play schedules every beat relative to a single entry time so delays do
// not drift against each other.
func (s *Scheduler) Play(beats []Beat) []Handle {
	if s == nil || len(beats) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	base := s.clock.Now()
	handles := make([]Handle, 0, len(beats))
	for _, beat := range beats {
		if beat.Action == nil {
			continue
		}
		handles = append(handles, s.pushLocked(base, beat.Delay, beat.Name, beat.Action))
	}
	return handles
}

// CancelAll cancels every action issued since the previous CancelAll and
// returns how many were still pending.
func (s *Scheduler) CancelAll() int {
	if s == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelAllLocked()
}

// Close cancels everything and rejects further scheduling.
func (s *Scheduler) Close() {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAllLocked()
	s.closed = true
}

// Pending returns the number of actions waiting to fire.
func (s *Scheduler) Pending() int {
	if s == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Scheduler) pushLocked(base time.Time, delay time.Duration, name string, action Action) Handle {
	if delay < 0 {
		delay = 0
	}

	s.nextID++
	e := &entry{
		id:     s.nextID,
		at:     base.Add(delay),
		epoch:  s.epoch,
		name:   name,
		action: action,
	}
	heap.Push(&s.queue, e)
	s.byID[e.id] = e
	s.armLocked()

	return Handle{scheduler: s, id: e.id}
}

func (s *Scheduler) cancel(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	e.cancelled = true
	if e.index >= 0 {
		heap.Remove(&s.queue, e.index)
	}
	s.armLocked()
	return true
}

func (s *Scheduler) cancelAllLocked() int {
	cancelled := len(s.queue)
	for _, e := range s.byID {
		e.cancelled = true
	}
	s.queue = nil
	s.byID = map[uint64]*entry{}
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	return cancelled
}

// armLocked keeps exactly one clock timer armed for the earliest entry.
func (s *Scheduler) armLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if len(s.queue) == 0 {
		return
	}

	delay := s.queue[0].at.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}
	s.timer = s.clock.AfterFunc(delay, s.fire)
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	s.timer = nil
	now := s.clock.Now()
	var due []*entry
	for len(s.queue) > 0 && !s.queue[0].at.After(now) {
		due = append(due, heap.Pop(&s.queue).(*entry))
	}
	s.armLocked()
	s.mu.Unlock()

	for _, e := range due {
		e := e
		s.dispatch(func() { s.run(e) })
	}
}

func (s *Scheduler) run(e *entry) {
	s.mu.Lock()
	delete(s.byID, e.id)
	current := !s.closed && !e.cancelled && e.epoch == s.epoch
	s.mu.Unlock()

	if !current {
		logger.DebugContext(context.Background(), "dropped stale action",
			"scheduler", s.name, "beat", e.name, "epoch", e.epoch)
		return
	}
	e.action()
}

type entry struct {
	id        uint64
	at        time.Time
	epoch     uint64
	name      string
	action    Action
	cancelled bool
	index     int
}

// entryQueue orders entries by deadline, then by scheduling order.
type entryQueue []*entry

func (q entryQueue) Len() int { return len(q) }

func (q entryQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].id < q[j].id
	}
	return q[i].at.Before(q[j].at)
}

func (q entryQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *entryQueue) Push(x any) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *entryQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}
