package vm

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/go-audio/audio"
	"github.com/vsariola/musical"
)

// Parallel renders the segments between Advance instructions on several
// goroutines. The pool of sounds at the start of every segment is computed
// up front, so each worker writes a disjoint part of the output and the
// result is identical to Sequential.
type Parallel struct {
	Workers int // <= 0 means runtime.GOMAXPROCS(0)
}

func (p Parallel) Samples(program musical.Program, sampleRate int, width musical.SampleWidth) (*audio.IntBuffer, error) {
	if sampleRate < 1 {
		return nil, fmt.Errorf("sample rate should be > 0, got %v", sampleRate)
	}
	if !width.Valid() {
		return nil, fmt.Errorf("sample width should be 8 or 16 bits, got %v", int(width))
	}
	segments, total := plan(program, sampleRate)
	out := make([]float64, total)
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = max(min(workers, len(segments)), 1)
	jobs := make(chan int, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func(jobs <-chan int) {
			defer wg.Done()
			var scratch []float64
			for i := range jobs {
				scratch = segments[i].render(sampleRate, out, scratch)
			}
		}(jobs)
	}
	for i := range segments {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return quantize(out, sampleRate, width), nil
}
