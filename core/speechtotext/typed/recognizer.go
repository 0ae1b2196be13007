// Package typed is a speech recognition source fed by the host: text the
// learner typed, or transcripts a browser recognized and forwarded.
package typed

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/koscakluka/ema-rescue/core/speechtotext"
)

// Recognizer holds at most one pending attempt and resolves it with the next
// submitted transcript.
type Recognizer struct {
	mu      sync.Mutex
	pending *attempt
}

type attempt struct {
	options speechtotext.RecognitionOptions
	done    chan struct{}
	once    sync.Once
}

func New() *Recognizer {
	return &Recognizer{}
}

func (r *Recognizer) Recognize(ctx context.Context, opts ...speechtotext.RecognitionOption) error {
	a := &attempt{
		options: speechtotext.NewRecognitionOptions(opts...),
		done:    make(chan struct{}),
	}

	r.mu.Lock()
	if r.pending != nil {
		r.mu.Unlock()
		return fmt.Errorf("%w: an attempt is already in progress", speechtotext.ErrRecognitionFailed)
	}
	r.pending = a
	r.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			if r.take(a) {
				a.end()
			}
		case <-a.done:
		}
	}()
	return nil
}

// Submit resolves the pending attempt with ranked alternatives. Blank
// alternatives are dropped; if none remain the attempt fails with
// [speechtotext.ErrNoSpeech]. It reports whether an attempt was pending.
func (r *Recognizer) Submit(alternatives ...string) bool {
	a := r.current()
	if a == nil || !r.take(a) {
		return false
	}

	var kept []string
	for _, alternative := range alternatives {
		if alternative = strings.TrimSpace(alternative); alternative != "" {
			kept = append(kept, alternative)
		}
	}
	if len(kept) > a.options.MaxAlternatives {
		kept = kept[:a.options.MaxAlternatives]
	}

	if len(kept) == 0 {
		a.options.ErrorCallback(speechtotext.ErrNoSpeech)
	} else {
		a.options.ResultCallback(kept)
	}
	a.end()
	return true
}

// Fail ends the pending attempt with err.
func (r *Recognizer) Fail(err error) bool {
	a := r.current()
	if a == nil || !r.take(a) {
		return false
	}

	a.options.ErrorCallback(err)
	a.end()
	return true
}

// Listening reports whether an attempt is waiting for input.
func (r *Recognizer) Listening() bool {
	return r.current() != nil
}

func (r *Recognizer) current() *attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

func (r *Recognizer) take(a *attempt) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending != a {
		return false
	}
	r.pending = nil
	return true
}

func (a *attempt) end() {
	a.once.Do(func() {
		close(a.done)
		a.options.EndCallback()
	})
}
