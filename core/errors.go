package orchestration

import (
	"errors"
	"fmt"
)

var (
	// ErrCaptureDenied means the microphone could not be opened. It is
	// surfaced as a retryable status.
	ErrCaptureDenied = errors.New("audio capture denied")
	// ErrNotStarted is returned for commands sent before Start.
	ErrNotStarted = errors.New("scene not started")
	// ErrTornDown is returned for commands sent after teardown.
	ErrTornDown = errors.New("scene torn down")
	// ErrNoCharacter is returned by Start when the scene has no known
	// character.
	ErrNoCharacter = errors.New("scene has no character")

	errMailboxStopped = errors.New("scene loop stopped")
)

// contractViolation reports misuse of the scene API. With strict contracts
// it panics so the mistake surfaces during development.
func (s *Scene) contractViolation(err error, format string, args ...any) error {
	err = fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	if s.strictContracts {
		panic(err)
	}
	return err
}
