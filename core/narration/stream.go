package narration

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/koscakluka/ema-rescue/core/audio"
)

// Source supplies decoded clip audio in the output's encoding.
type Source interface {
	Audio(clip string, encoding audio.EncodingInfo) ([]byte, error)
}

type outputBase interface {
	EncodingInfo() audio.EncodingInfo
	SendAudio(audio []byte) error
	ClearBuffer()
}

// AwaitingOutput reports playback progress with a blocking wait.
type AwaitingOutput interface {
	outputBase
	AwaitMark() error
}

// MarkingOutput reports playback progress through mark callbacks.
type MarkingOutput interface {
	outputBase
	Mark(mark string, callback func(string)) error
}

// StreamPlayer is a [Player] that streams clip audio into an audio output
// and uses output marks to detect the end of a clip.
//
// Outputs with callback marks are preferred; outputs that can only block on
// a mark are waited on from a separate goroutine.
type StreamPlayer struct {
	source  Source
	marking MarkingOutput
	waiting AwaitingOutput

	mu         sync.Mutex
	generation uint64
}

// NewStreamPlayer binds source to output. output must implement
// [MarkingOutput] or [AwaitingOutput].
func NewStreamPlayer(source Source, output any) (*StreamPlayer, error) {
	if source == nil {
		return nil, fmt.Errorf("narration source is required")
	}

	p := &StreamPlayer{source: source}
	if isNil(output) {
		return nil, fmt.Errorf("narration output is required")
	}
	if marking, ok := output.(MarkingOutput); ok {
		p.marking = marking
	} else if waiting, ok := output.(AwaitingOutput); ok {
		p.waiting = waiting
	} else {
		return nil, fmt.Errorf("narration output %T supports neither marks nor mark waits", output)
	}

	return p, nil
}

func (p *StreamPlayer) Play(ctx context.Context, clip ClipID, onFinished func()) error {
	data, err := p.source.Audio(clip.String(), p.encodingInfo())
	if err != nil {
		return fmt.Errorf("failed to load clip: %w", err)
	}

	p.mu.Lock()
	p.generation++
	generation := p.generation
	p.mu.Unlock()

	p.clear()
	if err := p.send(data); err != nil {
		return fmt.Errorf("failed to send clip audio: %w", err)
	}

	done := func(string) {
		p.mu.Lock()
		current := p.generation == generation
		p.mu.Unlock()
		if current && onFinished != nil {
			onFinished()
		}
	}

	if p.marking != nil {
		if err := p.marking.Mark(clip.String(), done); err != nil {
			return fmt.Errorf("failed to mark clip end: %w", err)
		}
		return nil
	}

	go func() {
		if err := p.waiting.AwaitMark(); err != nil {
			logger.WarnContext(ctx, "failed waiting for narration end", "clip", clip.String(), "error", err)
		}
		done(clip.String())
	}()
	return nil
}

func (p *StreamPlayer) Stop() error {
	p.mu.Lock()
	p.generation++
	p.mu.Unlock()

	p.clear()
	return nil
}

func (p *StreamPlayer) encodingInfo() audio.EncodingInfo {
	if p.marking != nil {
		return p.marking.EncodingInfo()
	}
	return p.waiting.EncodingInfo()
}

func (p *StreamPlayer) send(data []byte) error {
	if p.marking != nil {
		return p.marking.SendAudio(data)
	}
	return p.waiting.SendAudio(data)
}

func (p *StreamPlayer) clear() {
	if p.marking != nil {
		p.marking.ClearBuffer()
		return
	}
	p.waiting.ClearBuffer()
}

// isNil detects typed-nil outputs wrapped in an interface.
func isNil(output any) bool {
	if output == nil {
		return true
	}

	v := reflect.ValueOf(output)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
