package audio

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/koscakluka/ema-rescue/core/intent"
)

// MaxLevel is the top of the level scale used by the volume heuristics.
const MaxLevel = 255

// Level returns the RMS loudness of little-endian linear16 PCM on a
// 0..MaxLevel scale. A trailing odd byte is ignored.
func Level(pcm []byte) float64 {
	var m Meter
	m.Write(pcm)
	return m.Read()
}

// Meter accumulates captured audio between reads. It is safe to write from
// a capture callback while another goroutine reads.
type Meter struct {
	mu         sync.Mutex
	sumSquares float64
	samples    int
}

func (m *Meter) Write(pcm []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := 0; i+1 < len(pcm); i += 2 {
		sample := float64(int16(binary.LittleEndian.Uint16(pcm[i:])))
		m.sumSquares += sample * sample
		m.samples++
	}
}

// Read returns the level of everything written since the previous Read and
// resets the meter.
func (m *Meter) Read() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.samples == 0 {
		return 0
	}
	rms := math.Sqrt(m.sumSquares / float64(m.samples))
	m.sumSquares, m.samples = 0, 0

	return math.Min(MaxLevel, MaxLevel*rms/32768)
}

// VolumeWindow collects per-interval levels for one sampling window.
type VolumeWindow struct {
	peak    float64
	total   float64
	samples int
}

func (w *VolumeWindow) Add(level float64) {
	if level > w.peak {
		w.peak = level
	}
	w.total += level
	w.samples++
}

// Summary returns peak and average level. An empty window is silent.
func (w *VolumeWindow) Summary() intent.VolumeSummary {
	summary := intent.VolumeSummary{Peak: w.peak, Samples: w.samples}
	if w.samples > 0 {
		summary.Average = w.total / float64(w.samples)
	}
	return summary
}
