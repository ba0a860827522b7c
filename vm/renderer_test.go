package vm_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"reflect"
	"testing"

	"github.com/go-audio/wav"
	"github.com/vsariola/musical"
	"github.com/vsariola/musical/compiler"
	"github.com/vsariola/musical/parser"
	"github.com/vsariola/musical/vm"
)

const song = `bpm: 200
@main
C E G 1
repeat arpeggio 3
A 1 / 3
Ces 2
@arpeggio
octave: 5
C 1 / 4; E 1 / 4; G 1 / 4; C D 1 / 4
`

func program(t *testing.T, instrs ...musical.Instruction) musical.Program {
	t.Helper()
	p, err := musical.NewProgram(instrs)
	if err != nil {
		t.Fatalf("NewProgram failed: %v", err)
	}
	return p
}

func compileSong(t *testing.T) musical.Program {
	t.Helper()
	script, err := parser.Parse(song)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	p, err := compiler.Compile(script)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return p
}

func sine(f float64, i, rate int) float64 {
	t := float64(i) / float64(rate)
	return math.Sin(2 * math.Pi * f * t)
}

func TestOneSecondAtRate8(t *testing.T) {
	p := program(t,
		musical.Instruction{Kind: musical.Play, Frequency: 440, Duration: 1},
		musical.Instruction{Kind: musical.Advance, Duration: 1},
	)
	b, err := vm.Render(p, 8, musical.Width16)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(b) != musical.WavHeaderSize+8*2 {
		t.Fatalf("expected %v bytes, got %v", musical.WavHeaderSize+8*2, len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" || string(b[36:40]) != "data" {
		t.Fatalf("bad header: %q", b[:musical.WavHeaderSize])
	}
	if size := binary.LittleEndian.Uint32(b[4:8]); size != uint32(len(b)-8) {
		t.Fatalf("RIFF size %v, expected %v", size, len(b)-8)
	}
	if rate := binary.LittleEndian.Uint32(b[24:28]); rate != 8 {
		t.Fatalf("sample rate %v, expected 8", rate)
	}
	f := 440.0
	for i := 1; i <= 8; i++ {
		got := int16(binary.LittleEndian.Uint16(b[musical.WavHeaderSize+(i-1)*2:]))
		expected := int16(math.Round(sine(f, i, 8) * 32767))
		if got != expected {
			t.Fatalf("sample %v: got %v, expected %v", i, got, expected)
		}
	}
}

func TestEightBit(t *testing.T) {
	p := program(t,
		musical.Instruction{Kind: musical.Play, Frequency: 3, Duration: 0.5},
		musical.Instruction{Kind: musical.Advance, Duration: 1},
	)
	buf, err := vm.Samples(p, 16, musical.Width8)
	if err != nil {
		t.Fatalf("Samples failed: %v", err)
	}
	if len(buf.Data) != 16 {
		t.Fatalf("expected 16 samples, got %v", len(buf.Data))
	}
	f := 3.0
	for i, v := range buf.Data {
		expected := 127
		if i < 8 { // the sound ends at 0.5 s, which is still included
			expected = int(math.Round(sine(f, i+1, 16)*127)) + 127
		}
		if v != expected {
			t.Fatalf("sample %v: got %v, expected %v", i, v, expected)
		}
	}
}

func TestChordIsAveraged(t *testing.T) {
	p := program(t,
		musical.Instruction{Kind: musical.Play, Frequency: 1, Duration: 1},
		musical.Instruction{Kind: musical.Play, Frequency: 2, Duration: 1},
		musical.Instruction{Kind: musical.Advance, Duration: 1},
	)
	mix, err := vm.Mix(p, 10)
	if err != nil {
		t.Fatalf("Mix failed: %v", err)
	}
	for i, v := range mix {
		expected := (sine(1, i+1, 10) + sine(2, i+1, 10)) / 2
		if math.Abs(v-expected) > 1e-12 {
			t.Fatalf("sample %v: got %v, expected %v", i, v, expected)
		}
	}
}

func TestSilence(t *testing.T) {
	p := program(t, musical.Instruction{Kind: musical.Advance, Duration: 0.5})
	buf, err := vm.Samples(p, 100, musical.Width16)
	if err != nil {
		t.Fatalf("Samples failed: %v", err)
	}
	if !reflect.DeepEqual(buf.Data, make([]int, 50)) {
		t.Fatalf("expected 50 silent samples, got %v", buf.Data)
	}
}

func TestShortAdvance(t *testing.T) {
	p := program(t,
		musical.Instruction{Kind: musical.Play, Frequency: 440, Duration: 0.01},
		musical.Instruction{Kind: musical.Advance, Duration: 0.01},
	)
	b, err := vm.Render(p, 8, musical.Width8)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(b) != musical.WavHeaderSize {
		t.Fatalf("expected only a header, got %v bytes", len(b))
	}
}

func TestBadParameters(t *testing.T) {
	p := program(t, musical.Instruction{Kind: musical.Advance, Duration: 1})
	renderers := []musical.Renderer{vm.Sequential{}, vm.Parallel{Workers: 2}}
	for _, r := range renderers {
		if _, err := r.Samples(p, 0, musical.Width16); err == nil {
			t.Fatalf("%T: expected an error for sample rate 0", r)
		}
		if _, err := r.Samples(p, 8000, musical.SampleWidth(24)); err == nil {
			t.Fatalf("%T: expected an error for 24 bit samples", r)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	p := compileSong(t)
	for _, width := range []musical.SampleWidth{musical.Width8, musical.Width16} {
		expected, err := vm.Sequential{}.Samples(p, 8000, width)
		if err != nil {
			t.Fatalf("Sequential failed: %v", err)
		}
		for _, workers := range []int{0, 1, 3, 16} {
			got, err := vm.Parallel{Workers: workers}.Samples(p, 8000, width)
			if err != nil {
				t.Fatalf("Parallel failed: %v", err)
			}
			if !reflect.DeepEqual(got.Data, expected.Data) {
				t.Fatalf("%v workers, %v bits: parallel output differs from sequential", workers, int(width))
			}
		}
	}
}

func TestDecodesAsWav(t *testing.T) {
	p := compileSong(t)
	buf, err := vm.Samples(p, 11025, musical.Width16)
	if err != nil {
		t.Fatalf("Samples failed: %v", err)
	}
	b, err := musical.Wav(buf)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	d := wav.NewDecoder(bytes.NewReader(b))
	if !d.IsValidFile() {
		t.Fatalf("rendered file is not a valid wav file")
	}
	decoded, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("could not decode the rendered file: %v", err)
	}
	if d.SampleRate != 11025 || d.NumChans != 1 || d.BitDepth != 16 {
		t.Fatalf("unexpected format: %v Hz, %v channels, %v bits", d.SampleRate, d.NumChans, d.BitDepth)
	}
	if !reflect.DeepEqual(decoded.Data, buf.Data) {
		t.Fatalf("decoded samples differ from the rendered ones")
	}
}

func TestLength(t *testing.T) {
	p := compileSong(t)
	buf, err := vm.Samples(p, 1000, musical.Width16)
	if err != nil {
		t.Fatalf("Samples failed: %v", err)
	}
	if expected := int(math.Round(p.Length()*1000)); math.Abs(float64(len(buf.Data)-expected)) > float64(p.Len()) {
		t.Fatalf("got %v samples for %v seconds", len(buf.Data), p.Length())
	}
}
