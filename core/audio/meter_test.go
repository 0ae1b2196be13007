package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func pcm(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func TestLevelSilence(t *testing.T) {
	if got := Level(pcm(0, 0, 0, 0)); got != 0 {
		t.Fatalf("expected silence to be level 0, got %v", got)
	}
	if got := Level(nil); got != 0 {
		t.Fatalf("expected empty audio to be level 0, got %v", got)
	}
}

func TestLevelFullScale(t *testing.T) {
	got := Level(pcm(math.MinInt16, math.MinInt16))
	if got != MaxLevel {
		t.Fatalf("expected full scale audio to be level %d, got %v", MaxLevel, got)
	}
}

func TestLevelIsLinearInAmplitude(t *testing.T) {
	got := Level(pcm(8192, -8192, 8192, -8192))
	want := MaxLevel * 8192.0 / 32768
	if math.Abs(got-want) > 0.001 {
		t.Fatalf("expected level %v, got %v", want, got)
	}
}

func TestMeterReadResets(t *testing.T) {
	var meter Meter
	meter.Write(pcm(16384, -16384))
	meter.Write([]byte{0x01})

	if got := meter.Read(); got == 0 {
		t.Fatalf("expected non-zero level")
	}
	if got := meter.Read(); got != 0 {
		t.Fatalf("expected meter to reset after read, got %v", got)
	}
}

func TestVolumeWindowSummary(t *testing.T) {
	var window VolumeWindow
	if summary := window.Summary(); summary.Peak != 0 || summary.Average != 0 || summary.Samples != 0 {
		t.Fatalf("expected empty window to be silent, got %+v", summary)
	}

	for _, level := range []float64{10, 40, 100} {
		window.Add(level)
	}
	summary := window.Summary()
	if summary.Peak != 100 {
		t.Fatalf("expected peak 100, got %v", summary.Peak)
	}
	if summary.Average != 50 {
		t.Fatalf("expected average 50, got %v", summary.Average)
	}
	if summary.Samples != 3 {
		t.Fatalf("expected 3 samples, got %d", summary.Samples)
	}
}

func TestEncodingInfoDuration(t *testing.T) {
	info := GetDefaultEncodingInfo()
	if got := info.Duration(32000); got.Seconds() != 1 {
		t.Fatalf("expected one second of audio, got %v", got)
	}
	if got := (EncodingInfo{SampleRate: 8000, Format: "opus"}).Duration(100); got != 0 {
		t.Fatalf("expected unknown format to have no duration, got %v", got)
	}
}
