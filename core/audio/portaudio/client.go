// Package portaudio is the PortAudio backend: narration playback with
// completion marks and microphone capture for the volume fallback.
package portaudio

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/ema-rescue/core/audio"
)

// Client drives one blocking duplex stream from a single goroutine. Each
// pass writes one buffer of playback and, while capturing, reads one buffer
// from the microphone.
type Client struct {
	bufferSize int
	encoding   audio.EncodingInfo
	stream     *portaudio.Stream
	playback   *audio.Buffer

	in  []int16
	out []int16

	mu      sync.Mutex
	onAudio func(audio []byte)

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewClient(bufferSize int) (*Client, error) {
	if bufferSize <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", bufferSize)
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	encoding := audio.GetDefaultEncodingInfo()
	in := make([]int16, bufferSize)
	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 1, float64(encoding.SampleRate), bufferSize, in, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	c := &Client{
		bufferSize: bufferSize,
		encoding:   encoding,
		stream:     stream,
		playback:   audio.NewBuffer(encoding),
		in:         in,
		out:        out,
		closeCh:    make(chan struct{}),
		done:       make(chan struct{}),
	}
	go c.run()
	return c, nil
}

func (c *Client) run() {
	defer close(c.done)

	raw := make([]byte, c.bufferSize*2)
	for {
		select {
		case <-c.closeCh:
			return
		default:
		}

		_, reached := c.playback.Read(raw)
		for i := range c.out {
			c.out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
		}
		if err := c.stream.Write(); err != nil {
			logger.Warn("failed to write to portaudio stream", "error", err)
		}
		for _, callback := range reached {
			go callback()
		}

		c.mu.Lock()
		onAudio := c.onAudio
		c.mu.Unlock()
		if onAudio == nil {
			continue
		}
		if err := c.stream.Read(); err != nil {
			logger.Warn("failed to read from portaudio stream", "error", err)
			continue
		}
		captured := make([]byte, len(c.in)*2)
		for i, sample := range c.in {
			binary.LittleEndian.PutUint16(captured[i*2:], uint16(sample))
		}
		onAudio(captured)
	}
}

func (c *Client) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAudio = onAudio
	return nil
}

func (c *Client) StopCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAudio = nil
	return nil
}

func (c *Client) SendAudio(audio []byte) error {
	c.playback.Write(audio)
	return nil
}

func (c *Client) ClearBuffer() {
	c.playback.Clear()
}

// Mark calls callback once everything sent so far has been written to the
// device.
func (c *Client) Mark(mark string, callback func(string)) error {
	c.playback.Mark(mark, callback)
	return nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return c.encoding
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.closeCh)
		<-c.done
		_ = c.stream.Stop()
		_ = c.stream.Close()
		_ = portaudio.Terminate()
	})
}
