package narration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/koscakluka/ema-rescue/core/audio"
)

type fakeSource map[string][]byte

func (s fakeSource) Audio(clip string, _ audio.EncodingInfo) ([]byte, error) {
	data, ok := s[clip]
	if !ok {
		return nil, ErrUnknownClip
	}
	return data, nil
}

type fakeMarkingOutput struct {
	mu     sync.Mutex
	buffer []byte
	marks  []func(string)
	clears int
}

func (o *fakeMarkingOutput) EncodingInfo() audio.EncodingInfo { return audio.GetDefaultEncodingInfo() }

func (o *fakeMarkingOutput) SendAudio(data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.buffer = append(o.buffer, data...)
	return nil
}

func (o *fakeMarkingOutput) ClearBuffer() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.buffer = nil
	o.clears++
}

func (o *fakeMarkingOutput) Mark(mark string, callback func(string)) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.marks = append(o.marks, callback)
	return nil
}

func (o *fakeMarkingOutput) playAll() {
	o.mu.Lock()
	marks := o.marks
	o.marks = nil
	o.mu.Unlock()
	for _, mark := range marks {
		mark("")
	}
}

type fakeAwaitingOutput struct {
	release chan struct{}
}

func (o *fakeAwaitingOutput) EncodingInfo() audio.EncodingInfo { return audio.GetDefaultEncodingInfo() }
func (o *fakeAwaitingOutput) SendAudio([]byte) error { return nil }
func (o *fakeAwaitingOutput) ClearBuffer() {}

func (o *fakeAwaitingOutput) AwaitMark() error {
	<-o.release
	return nil
}

func TestStreamPlayerSendsClipAndReportsMark(t *testing.T) {
	output := &fakeMarkingOutput{}
	player, err := NewStreamPlayer(fakeSource{"hint": {1, 2, 3, 4}}, output)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	finished := 0
	if err := player.Play(context.Background(), ClipHint, func() { finished++ }); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(output.buffer) != 4 {
		t.Fatalf("expected clip audio in output buffer, got %d bytes", len(output.buffer))
	}

	output.playAll()
	if finished != 1 {
		t.Fatalf("expected one completion, got %d", finished)
	}
}

func TestStreamPlayerStopSuppressesCompletion(t *testing.T) {
	output := &fakeMarkingOutput{}
	player, _ := NewStreamPlayer(fakeSource{"hint": {1, 2}}, output)

	finished := 0
	player.Play(context.Background(), ClipHint, func() { finished++ })
	player.Stop()
	output.playAll()

	if finished != 0 {
		t.Fatalf("expected stopped clip not to complete, got %d completions", finished)
	}
	if output.buffer != nil {
		t.Fatalf("expected stop to clear the output buffer")
	}
}

func TestStreamPlayerUnknownClip(t *testing.T) {
	player, _ := NewStreamPlayer(fakeSource{}, &fakeMarkingOutput{})

	if err := player.Play(context.Background(), ClipWrong, nil); !errors.Is(err, ErrUnknownClip) {
		t.Fatalf("expected ErrUnknownClip, got %v", err)
	}
}

func TestStreamPlayerWaitsOnAwaitingOutput(t *testing.T) {
	output := &fakeAwaitingOutput{release: make(chan struct{})}
	player, err := NewStreamPlayer(fakeSource{"correct": {9}}, output)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	done := make(chan struct{})
	player.Play(context.Background(), ClipCorrect, func() { close(done) })
	close(output.release)
	<-done
}

func TestNewStreamPlayerRejectsUnsupportedOutput(t *testing.T) {
	if _, err := NewStreamPlayer(fakeSource{}, struct{}{}); err == nil {
		t.Fatalf("expected error for an output without marks")
	}

	var output *fakeMarkingOutput
	if _, err := NewStreamPlayer(fakeSource{}, output); err == nil {
		t.Fatalf("expected error for a typed-nil output")
	}
}
