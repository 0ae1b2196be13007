package main

import (
	"fmt"

	orchestration "github.com/koscakluka/ema-rescue/core"
	"github.com/koscakluka/ema-rescue/core/audio/miniaudio"
	"github.com/koscakluka/ema-rescue/core/audio/portaudio"
	"github.com/koscakluka/ema-rescue/internal/config"
)

// portaudioBufferSize is in samples, 64ms at 16 kHz.
const portaudioBufferSize = 1024

// backend is an opened audio device pair. output is nil without audio.
type backend struct {
	output  any
	capture orchestration.AudioCapture
	close   func()
}

func (b backend) Close() {
	if b.close != nil {
		b.close()
	}
}

func openBackend(name string) (backend, error) {
	switch name {
	case config.BackendMiniaudio:
		client, err := miniaudio.NewClient()
		if err != nil {
			return backend{}, fmt.Errorf("failed to open miniaudio: %w", err)
		}
		return backend{output: client, capture: client, close: client.Close}, nil
	case config.BackendPortaudio:
		client, err := portaudio.NewClient(portaudioBufferSize)
		if err != nil {
			return backend{}, fmt.Errorf("failed to open portaudio: %w", err)
		}
		return backend{output: client, capture: client, close: client.Close}, nil
	case config.BackendNone:
		return backend{}, nil
	}
	return backend{}, fmt.Errorf("unknown audio backend %q", name)
}
