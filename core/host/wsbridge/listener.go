package wsbridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/koscakluka/ema-rescue/core/audio"
	"github.com/koscakluka/ema-rescue/core/speechtotext"
	"github.com/koscakluka/ema-rescue/core/speechtotext/typed"
)

var errCaptureUnsupported = errors.New("client cannot capture audio")

// remoteRecognizer asks the client to recognize speech and resolves the
// attempt with whatever the client reports back.
type remoteRecognizer struct {
	send      func(Outbound) error
	pending   *typed.Recognizer
	supported atomic.Bool
}

func newRemoteRecognizer(send func(Outbound) error) *remoteRecognizer {
	r := &remoteRecognizer{send: send, pending: typed.New()}
	r.supported.Store(true)
	return r
}

func (r *remoteRecognizer) Recognize(ctx context.Context, opts ...speechtotext.RecognitionOption) error {
	if !r.supported.Load() {
		return speechtotext.ErrUnavailable
	}

	options := speechtotext.NewRecognitionOptions(opts...)
	if err := r.pending.Recognize(ctx, opts...); err != nil {
		return err
	}

	if err := r.send(Outbound{Type: TypeRecognitionStart, Payload: RecognitionPayload{
		Language:        options.Language,
		MaxAlternatives: options.MaxAlternatives,
	}}); err != nil {
		r.pending.Fail(fmt.Errorf("%w: %w", speechtotext.ErrRecognitionFailed, err))
		return nil
	}

	go func() {
		<-ctx.Done()
		_ = r.send(Outbound{Type: TypeRecognitionStop})
	}()
	return nil
}

func (r *remoteRecognizer) result(alternatives []string) bool {
	return r.pending.Submit(alternatives...)
}

func (r *remoteRecognizer) failure(payload RecognitionErrorPayload) bool {
	if payload.Reason == ReasonNoSpeech {
		return r.pending.Fail(speechtotext.ErrNoSpeech)
	}
	if payload.Message == "" {
		return r.pending.Fail(speechtotext.ErrRecognitionFailed)
	}
	return r.pending.Fail(fmt.Errorf("%w: %s", speechtotext.ErrRecognitionFailed, payload.Message))
}

// remoteCapture streams microphone audio from the client. Audio arrives as
// binary frames in the announced encoding.
type remoteCapture struct {
	send      func(Outbound) error
	encoding  audio.EncodingInfo
	supported atomic.Bool

	mu      sync.Mutex
	onAudio func([]byte)
}

func newRemoteCapture(send func(Outbound) error, encoding audio.EncodingInfo) *remoteCapture {
	c := &remoteCapture{send: send, encoding: encoding}
	c.supported.Store(true)
	return c
}

func (c *remoteCapture) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	if !c.supported.Load() {
		return errCaptureUnsupported
	}

	c.mu.Lock()
	c.onAudio = onAudio
	c.mu.Unlock()

	if err := c.send(Outbound{Type: TypeCaptureStart, Payload: CapturePayload{
		SampleRate: c.encoding.SampleRate,
		Format:     c.encoding.Format.Name(),
	}}); err != nil {
		c.mu.Lock()
		c.onAudio = nil
		c.mu.Unlock()
		return fmt.Errorf("failed to ask client for audio: %w", err)
	}
	return nil
}

func (c *remoteCapture) StopCapture() error {
	c.mu.Lock()
	c.onAudio = nil
	c.mu.Unlock()

	return c.send(Outbound{Type: TypeCaptureStop})
}

// feed delivers one binary frame. Frames outside a capture are dropped.
func (c *remoteCapture) feed(pcm []byte) {
	c.mu.Lock()
	onAudio := c.onAudio
	c.mu.Unlock()

	if onAudio != nil {
		onAudio(pcm)
	}
}
