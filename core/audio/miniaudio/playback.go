package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-rescue/core/audio"
)

type playbackClient struct {
	mu     sync.Mutex
	device *malgo.Device
	buffer *audio.Buffer
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext, encoding audio.EncodingInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buffer = audio.NewBuffer(encoding)

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = uint32(encoding.SampleRate)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = uint32(encoding.SampleRate / 10) // ~100ms
	config.Periods = 4

	buffer := c.buffer
	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(output, _ []byte, _ uint32) {
			_, reached := buffer.Read(output)
			if len(reached) > 0 {
				go func() {
					for _, callback := range reached {
						callback()
					}
				}()
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}
	c.device = device
	return nil
}

func (c *playbackClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return fmt.Errorf("playback device not initialized")
	}
	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}
	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	c.mu.Lock()
	device, buffer := c.device, c.buffer
	c.mu.Unlock()

	if device == nil {
		return fmt.Errorf("playback device not initialized")
	} else if !device.IsStarted() {
		return fmt.Errorf("playback device not started")
	}
	buffer.Write(audio)
	return nil
}

func (c *playbackClient) ClearBuffer() {
	if c.buffer != nil {
		c.buffer.Clear()
	}
}

// Mark calls callback once everything sent so far has been played.
func (c *playbackClient) Mark(mark string, callback func(string)) error {
	if c.buffer == nil {
		return fmt.Errorf("playback device not initialized")
	}
	c.buffer.Mark(mark, callback)
	return nil
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return nil
	}
	c.device.Uninit()
	c.device = nil
	if c.buffer != nil {
		c.buffer.Clear()
	}
	return nil
}
