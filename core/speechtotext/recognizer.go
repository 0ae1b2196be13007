// Package speechtotext defines the speech recognition source the scene
// listens through. Recognition happens on the learner's side; nothing here
// talks to a speech service.
package speechtotext

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means the platform has no recognizer. Callers fall back
	// to volume classification.
	ErrUnavailable = errors.New("speech recognition unavailable")
	// ErrNoSpeech means the attempt ended without hearing anything.
	ErrNoSpeech = errors.New("no speech detected")
	// ErrRecognitionFailed covers every other recognition error.
	ErrRecognitionFailed = errors.New("speech recognition failed")
)

// Recognizer starts one recognition attempt per call.
//
// Recognize must not block. Results and errors arrive through the option
// callbacks; cancelling ctx stops the attempt. The end callback fires exactly
// once whichever way the attempt finishes. A synchronous error means the
// attempt never started and no callback will fire.
type Recognizer interface {
	Recognize(ctx context.Context, opts ...RecognitionOption) error
}

// RecognizerFunc adapts a function to [Recognizer].
type RecognizerFunc func(ctx context.Context, opts ...RecognitionOption) error

func (f RecognizerFunc) Recognize(ctx context.Context, opts ...RecognitionOption) error {
	return f(ctx, opts...)
}

// Unavailable is a Recognizer for platforms without speech recognition.
var Unavailable Recognizer = RecognizerFunc(func(context.Context, ...RecognitionOption) error {
	return ErrUnavailable
})
