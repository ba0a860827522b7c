package musical

import (
	"fmt"

	"github.com/go-audio/audio"
)

type (
	// SampleWidth is the number of bits per PCM sample in the rendered
	// audio. Width8 samples are unsigned with 127 as the zero level, Width16
	// samples are signed little endian.
	SampleWidth int

	// Renderer turns a compiled Program into quantized mono PCM samples.
	// Implementations must return sample-for-sample identical buffers for
	// the same arguments.
	Renderer interface {
		Samples(program Program, sampleRate int, width SampleWidth) (*audio.IntBuffer, error)
	}
)

const (
	Width8  SampleWidth = 8
	Width16 SampleWidth = 16
)

func (w SampleWidth) Valid() bool { return w == Width8 || w == Width16 }

// Bytes returns the number of bytes per sample.
func (w SampleWidth) Bytes() int { return int(w) / 8 }

// ParseSampleWidth converts a bit count, as given on the command line or in
// preferences, into a SampleWidth.
func ParseSampleWidth(bits int) (SampleWidth, error) {
	w := SampleWidth(bits)
	if !w.Valid() {
		return 0, fmt.Errorf("sample width should be 8 or 16 bits, got %v", bits)
	}
	return w, nil
}

// Render renders the program with the renderer and packs the result into a
// WAV file.
func Render(r Renderer, program Program, sampleRate int, width SampleWidth) ([]byte, error) {
	buffer, err := r.Samples(program, sampleRate, width)
	if err != nil {
		return nil, fmt.Errorf("musical.Render failed: %v", err)
	}
	return Wav(buffer)
}
