// Package vm renders compiled programs into PCM samples by mixing sine
// waves.
package vm

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-audio/audio"
	"github.com/viterin/vek"
	"github.com/vsariola/musical"
)

type (
	// Sequential renders the whole program on the calling goroutine.
	Sequential struct{}

	sound struct {
		frequency float64
		startedAt float64
		endsAt    float64
		volume    float64
	}

	// segment is the work of one Advance instruction: the sounds active at
	// its start and the range of output samples it covers.
	segment struct {
		start   int
		samples int
		pool    []sound
	}
)

// Mix returns the unquantized mix of the program, one value in [-1, 1] per
// sample.
func Mix(program musical.Program, sampleRate int) ([]float64, error) {
	if sampleRate < 1 {
		return nil, fmt.Errorf("sample rate should be > 0, got %v", sampleRate)
	}
	segments, total := plan(program, sampleRate)
	out := make([]float64, total)
	var scratch []float64
	for _, s := range segments {
		scratch = s.render(sampleRate, out, scratch)
	}
	return out, nil
}

// Samples renders the program sequentially.
func Samples(program musical.Program, sampleRate int, width musical.SampleWidth) (*audio.IntBuffer, error) {
	return Sequential{}.Samples(program, sampleRate, width)
}

// Render renders the program sequentially into a complete .wav file.
func Render(program musical.Program, sampleRate int, width musical.SampleWidth) ([]byte, error) {
	return musical.Render(Sequential{}, program, sampleRate, width)
}

func (Sequential) Samples(program musical.Program, sampleRate int, width musical.SampleWidth) (*audio.IntBuffer, error) {
	if !width.Valid() {
		return nil, fmt.Errorf("sample width should be 8 or 16 bits, got %v", int(width))
	}
	mix, err := Mix(program, sampleRate)
	if err != nil {
		return nil, err
	}
	return quantize(mix, sampleRate, width), nil
}

// plan walks the instructions once, keeping track of the active sounds, and
// splits the output into one segment per non-empty Advance. A sound is
// dropped once its end time is strictly before the current sample time, so
// the pool at the start of a segment is the previous pool filtered by the
// time of the previous segment's last sample.
func plan(program musical.Program, sampleRate int) ([]segment, int) {
	rate := float64(sampleRate)
	var pool []sound
	var segments []segment
	samples := 0
	for i := range program.Len() {
		instr := program.At(i)
		switch instr.Kind {
		case musical.Play:
			now := float64(samples) / rate
			pool = append(pool, sound{
				frequency: instr.Frequency,
				startedAt: now,
				endsAt:    now + instr.Duration,
				volume:    1,
			})
		case musical.Advance:
			n := int(math.Round(instr.Duration * rate))
			if n <= 0 {
				continue
			}
			segments = append(segments, segment{start: samples, samples: n, pool: slices.Clone(pool)})
			samples += n
			end := float64(samples) / rate
			pool = slices.DeleteFunc(pool, func(s sound) bool { return s.endsAt < end })
		}
	}
	return segments, samples
}

// render mixes the segment into out[s.start:s.start+s.samples]. scratch is
// reused between calls and returned.
func (s segment) render(sampleRate int, out []float64, scratch []float64) []float64 {
	rate := float64(sampleRate)
	pool := s.pool
	for i := range s.samples {
		t := float64(s.start+i+1) / rate
		pool = slices.DeleteFunc(pool, func(snd sound) bool { return snd.endsAt < t })
		if len(pool) == 0 {
			out[s.start+i] = 0
			continue
		}
		scratch = scratch[:0]
		for _, snd := range pool {
			scratch = append(scratch, math.Sin(2*math.Pi*snd.frequency*t)*snd.volume)
		}
		out[s.start+i] = vek.Mean(scratch)
	}
	return scratch
}

func quantize(mix []float64, sampleRate int, width musical.SampleWidth) *audio.IntBuffer {
	data := make([]int, len(mix))
	for i, v := range mix {
		switch width {
		case musical.Width8:
			data[i] = clamp(int(math.Round(v*127))+127, 0, math.MaxUint8)
		default:
			data[i] = clamp(int(math.Round(v*math.MaxInt16)), math.MinInt16, math.MaxInt16)
		}
	}
	return &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: int(width),
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
