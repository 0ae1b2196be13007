package orchestration

import (
	"context"
	"sync"
	"sync/atomic"
)

// mailbox runs posted functions one at a time, in posting order, on a single
// goroutine. Posting never blocks.
type mailbox struct {
	mu    sync.Mutex
	items []func()

	wake    chan struct{}
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool
}

func newMailbox() *mailbox {
	return &mailbox{
		wake:    make(chan struct{}, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (m *mailbox) CanPost() bool {
	if m == nil {
		return false
	}

	select {
	case <-m.closeCh:
		return false
	default:
		return true
	}
}

// Post queues f. It reports false once the mailbox is stopped.
func (m *mailbox) Post(f func()) bool {
	if m == nil || f == nil || !m.CanPost() {
		return false
	}

	m.mu.Lock()
	m.items = append(m.items, f)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
	return true
}

func (m *mailbox) Start() (started bool) {
	if m == nil || !m.CanPost() {
		return false
	}

	m.startOnce.Do(func() {
		started = true
		m.started.Store(true)
		go func() {
			defer close(m.done)

			for {
				select {
				case <-m.closeCh:
					return
				case <-m.wake:
					for m.CanPost() {
						f, ok := m.next()
						if !ok {
							break
						}
						f()
					}
				}
			}
		}()
	})

	return started
}

// Stop ends the loop after the function currently running, if any. Queued
// functions are dropped.
func (m *mailbox) Stop() {
	if m == nil {
		return
	}

	m.endOnce.Do(func() { close(m.closeCh) })
}

// AwaitDone blocks until the loop has exited or ctx is done.
func (m *mailbox) AwaitDone(ctx context.Context) error {
	if m == nil || !m.started.Load() {
		return nil
	}

	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sync returns once every function posted before and during the call has
// run and the mailbox is idle.
func (m *mailbox) Sync(ctx context.Context) error {
	for {
		idle := make(chan bool, 1)
		if !m.Post(func() { idle <- m.pending() == 0 }) {
			return errMailboxStopped
		}

		select {
		case isIdle := <-idle:
			if isIdle {
				return nil
			}
		case <-m.done:
			return errMailboxStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *mailbox) next() (func(), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.items) == 0 {
		return nil, false
	}
	f := m.items[0]
	m.items[0] = nil
	m.items = m.items[1:]
	return f, true
}

func (m *mailbox) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
