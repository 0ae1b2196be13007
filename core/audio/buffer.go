package audio

import "sync"

// Buffer queues outgoing audio for a device callback and tracks playback
// marks. A mark is reached once every byte queued before it has been read.
type Buffer struct {
	silence byte

	mu    sync.Mutex
	data  []byte
	marks []mark
}

type mark struct {
	name     string
	position int
	callback func(string)
}

func NewBuffer(encoding EncodingInfo) *Buffer {
	return &Buffer{silence: encoding.SilenceValue()}
}

func (b *Buffer) Write(audio []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, audio...)
}

// Mark registers callback for the current end of the queued audio.
func (b *Buffer) Mark(name string, callback func(string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.marks = append(b.marks, mark{name: name, position: len(b.data), callback: callback})
}

// Clear drops queued audio. Pending marks are dropped without firing.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
	b.marks = nil
}

// Len returns the number of queued bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Read fills out with queued audio, pads the rest with silence and returns
// the callbacks of every mark reached. Callers run them off the device
// thread.
func (b *Buffer) Read(out []byte) (n int, reached []func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n = copy(out, b.data)
	for i := n; i < len(out); i++ {
		out[i] = b.silence
	}
	b.data = b.data[n:]
	if len(b.data) == 0 {
		b.data = nil
	}

	kept := b.marks[:0]
	for _, m := range b.marks {
		if m.position <= n {
			m := m
			reached = append(reached, func() { m.callback(m.name) })
			continue
		}
		m.position -= n
		kept = append(kept, m)
	}
	b.marks = kept
	return n, reached
}
