package musical

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// Instruction is one unit of compiled playback behaviour. A Play
	// instruction starts a note of the given Frequency (Hz) lasting Duration
	// seconds without moving time forward; an Advance instruction moves time
	// forward by Duration seconds. Pos is the index of the script token the
	// instruction was compiled from.
	Instruction struct {
		Kind      InstructionKind
		Frequency float64 `yaml:",omitempty"`
		Duration  float64
		Pos       int
	}

	InstructionKind int

	// Program is the flat, never empty, instruction stream produced by the
	// compiler. It cannot be modified after construction.
	Program struct {
		instructions []Instruction
	}
)

const (
	Play InstructionKind = iota
	Advance
)

var ErrEmptyProgram = errors.New("program must contain at least one instruction")

func (k InstructionKind) String() string {
	switch k {
	case Play:
		return "play"
	case Advance:
		return "advance"
	}
	return fmt.Sprintf("InstructionKind(%d)", int(k))
}

func (k InstructionKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// NewProgram copies the instructions into a new Program.
func NewProgram(instructions []Instruction) (Program, error) {
	if len(instructions) == 0 {
		return Program{}, ErrEmptyProgram
	}
	c := make([]Instruction, len(instructions))
	copy(c, instructions)
	return Program{instructions: c}, nil
}

// Len returns the number of instructions.
func (p Program) Len() int { return len(p.instructions) }

// At returns the i:th instruction.
func (p Program) At(i int) Instruction { return p.instructions[i] }

// Instructions returns a copy of the instruction stream.
func (p Program) Instructions() []Instruction {
	c := make([]Instruction, len(p.instructions))
	copy(c, p.instructions)
	return c
}

// Length returns the total playing time of the program in seconds, i.e. the
// sum of all advances.
func (p Program) Length() float64 {
	var ret float64
	for _, i := range p.instructions {
		if i.Kind == Advance {
			ret += i.Duration
		}
	}
	return ret
}

func (i Instruction) String() string {
	switch i.Kind {
	case Play:
		return fmt.Sprintf("%d: play %.2fHz %.5fs", i.Pos+1, i.Frequency, i.Duration)
	case Advance:
		return fmt.Sprintf("%d: advance %.5fs", i.Pos+1, i.Duration)
	}
	return fmt.Sprintf("%d: %v", i.Pos+1, i.Kind)
}

func (p Program) String() string {
	lines := make([]string, len(p.instructions))
	for i, instr := range p.instructions {
		lines[i] = instr.String()
	}
	return strings.Join(lines, "\n")
}

func (p Program) MarshalYAML() (interface{}, error) {
	return p.instructions, nil
}
