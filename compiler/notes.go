package compiler

import "math"

const (
	A4Frequency     = 440.0
	A4AbsoluteIndex = 57 // 4*12 + 9
	DefaultOctave   = 4
)

// noteOffsets maps every accepted note spelling to its semitone offset from
// C within the same octave. Sharps end in "as", flats in "es"; "Ces" and
// "Bas" step over the octave boundary.
var noteOffsets = map[string]int{
	"Ces": -1,
	"C":   0,
	"Cas": 1, "Des": 1,
	"D":   2,
	"Das": 3, "Ees": 3,
	"E":   4, "Fes": 4,
	"F":   5, "Eas": 5,
	"Fas": 6, "Ges": 6,
	"G":   7,
	"Gas": 8, "Aes": 8,
	"A":   9,
	"As":  10, "Bes": 10,
	"B":   11,
	"Bas": 12,
}

// NoteOffset returns the semitone offset of a note name within its octave.
func NoteOffset(name string) (int, bool) {
	n, ok := noteOffsets[name]
	return n, ok
}

// Frequency returns the equal temperament frequency of the note offset
// semitones above C in the given octave, tuned so that A in octave 4 is
// exactly 440 Hz.
func Frequency(offset int, octave uint32) float64 {
	if offset == 9 && octave == 4 {
		return A4Frequency
	}
	absolute := int64(octave)*12 + int64(offset)
	return A4Frequency * math.Pow(2, float64(absolute-A4AbsoluteIndex)/12)
}

// NoteFrequency returns the frequency of a named note.
func NoteFrequency(name string, octave uint32) (float64, bool) {
	offset, ok := noteOffsets[name]
	if !ok {
		return 0, false
	}
	return Frequency(offset, octave), true
}
