// Package clips loads narration clips from WAV files and converts them to
// the encoding an audio output asks for.
package clips

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/koscakluka/ema-rescue/core/audio"
	"github.com/koscakluka/ema-rescue/core/narration"
)

// DefaultDir is where the clip files live relative to the working
// directory.
const DefaultDir = "assets/audio"

// Library serves narration audio as mono linear16 PCM. Decoded clips are
// cached per clip and sample rate.
type Library struct {
	files fs.FS

	mu    sync.Mutex
	cache map[cacheKey][]byte
}

type cacheKey struct {
	clip       string
	sampleRate int
}

type LibraryOption func(*Library)

// WithFS reads clips from files instead of [DefaultDir].
func WithFS(files fs.FS) LibraryOption {
	return func(l *Library) {
		if files != nil {
			l.files = files
		}
	}
}

// WithDir reads clips from dir.
func WithDir(dir string) LibraryOption {
	return func(l *Library) {
		if dir != "" {
			l.files = os.DirFS(dir)
		}
	}
}

func NewLibrary(opts ...LibraryOption) *Library {
	l := &Library{
		files: os.DirFS(DefaultDir),
		cache: map[cacheKey][]byte{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FileName is the file a clip is read from.
func FileName(clip string) string {
	return clip + ".wav"
}

// Audio implements the narration stream source.
func (l *Library) Audio(clip string, encoding audio.EncodingInfo) ([]byte, error) {
	if encoding.Format != audio.EncodingLinear16 {
		return nil, fmt.Errorf("unsupported clip encoding %q", encoding.Format.Name())
	}
	if encoding.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", encoding.SampleRate)
	}

	key := cacheKey{clip: clip, sampleRate: encoding.SampleRate}
	l.mu.Lock()
	cached, ok := l.cache[key]
	l.mu.Unlock()
	if ok {
		return cached, nil
	}

	samples, sampleRate, err := l.decode(clip)
	if err != nil {
		return nil, err
	}
	pcm := encodeLinear16(resample(samples, sampleRate, encoding.SampleRate))

	l.mu.Lock()
	l.cache[key] = pcm
	l.mu.Unlock()

	logger.Debug("loaded clip", "clip", clip, "bytes", len(pcm), "sample_rate", encoding.SampleRate)
	return pcm, nil
}

// Missing lists the narration clips that have no file.
func (l *Library) Missing() []narration.ClipID {
	var missing []narration.ClipID
	for _, clip := range narration.Clips() {
		if _, err := fs.Stat(l.files, FileName(clip.String())); err != nil {
			missing = append(missing, clip)
		}
	}
	return missing
}

// decode returns the clip as mono samples normalized to 16 bits.
func (l *Library) decode(clip string) ([]int, int, error) {
	name := path.Clean(FileName(clip))
	f, err := l.files.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, fmt.Errorf("%w: %s", narration.ErrUnknownClip, clip)
	} else if err != nil {
		return nil, 0, fmt.Errorf("failed to open clip %s: %w", clip, err)
	}
	defer f.Close()

	seeker, ok := f.(readSeeker)
	if !ok {
		return nil, 0, fmt.Errorf("clip %s is not seekable", clip)
	}

	decoder := wav.NewDecoder(seeker)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("clip %s is not a valid wav file", clip)
	}
	buffer, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode clip %s: %w", clip, err)
	}

	bitDepth := buffer.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(decoder.BitDepth)
	}
	return toMono16(buffer, bitDepth), buffer.Format.SampleRate, nil
}

type readSeeker interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}

func toMono16(buffer *goaudio.IntBuffer, bitDepth int) []int {
	channels := buffer.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}

	frames := len(buffer.Data) / channels
	mono := make([]int, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += buffer.Data[i*channels+ch]
		}
		mono[i] = rescale(sum/channels, bitDepth)
	}
	return mono
}

// rescale maps a sample of the given bit depth onto 16 bits. 8-bit WAV is
// unsigned.
func rescale(sample, bitDepth int) int {
	switch {
	case bitDepth == 8:
		return (sample - 128) << 8
	case bitDepth > 16:
		return sample >> (bitDepth - 16)
	case bitDepth > 0 && bitDepth < 16:
		return sample << (16 - bitDepth)
	}
	return sample
}

// resample converts between sample rates with linear interpolation.
func resample(samples []int, from, to int) []int {
	if from == to || from <= 0 || len(samples) == 0 {
		return samples
	}

	n := int(int64(len(samples)) * int64(to) / int64(from))
	out := make([]int, n)
	ratio := float64(from) / float64(to)
	for i := range out {
		pos := float64(i) * ratio
		left := int(pos)
		if left >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(left)
		out[i] = int(float64(samples[left])*(1-frac) + float64(samples[left+1])*frac)
	}
	return out
}

func encodeLinear16(samples []int) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, sample := range samples {
		if sample > 32767 {
			sample = 32767
		} else if sample < -32768 {
			sample = -32768
		}
		v := uint16(int16(sample))
		pcm[i*2] = byte(v)
		pcm[i*2+1] = byte(v >> 8)
	}
	return pcm
}
