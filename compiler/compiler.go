// Package compiler turns a parsed musical.Script into a flat
// musical.Program of Play and Advance instructions.
//
// A script is split into scopes by its labels. Properties before the first
// label are global defaults; "bpm" is mandatory and "octave" defaults to 4.
// Compilation starts from the scope labelled "main". Inside a scope, a
// command is either a note (or chord) named after its first note, "goto
// label", which jumps to another scope and never returns, or "repeat label
// count", which expands another scope count times in place.
package compiler

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vsariola/musical"
)

const (
	EntryLabel = "main"
	Goto       = "goto"
	Repeat     = "repeat"
)

type compiler struct {
	tokens []musical.Token
	scopes []scope
}

// Compile compiles the script. Either a complete, non-empty program or an
// error is returned, never both.
func Compile(script musical.Script) (musical.Program, error) {
	scopes, err := scopes(script.Tokens)
	if err != nil {
		return musical.Program{}, err
	}
	global := &scopes[0]
	// validate the global defaults even if every scope overrides them
	if _, err := parseBPM(lookup(global, global, "bpm")); err != nil {
		return musical.Program{}, err
	}
	if _, err := parseOctave(lookup(global, global, "octave")); err != nil {
		return musical.Program{}, err
	}
	c := &compiler{tokens: script.Tokens, scopes: scopes}
	instructions, err := c.expand(EntryLabel, -1, -1, nil)
	if err != nil {
		return musical.Program{}, err
	}
	program, err := musical.NewProgram(instructions)
	if errors.Is(err, musical.ErrEmptyProgram) {
		return musical.Program{}, &Error{Code: EmptyProgram, Pos: -1, Offset: -1}
	}
	return program, err
}

// expand compiles the scope with the given label. pos and at locate the
// command that refers to it (-1 for the entry point); stack holds the names
// of the scopes that are currently being expanded.
func (c *compiler) expand(label string, pos, at int, stack []string) ([]musical.Instruction, error) {
	s, ok := find(c.scopes, label)
	if !ok {
		if pos < 0 {
			return nil, &Error{Code: NoMain, Pos: -1, Offset: -1, Name: label}
		}
		return nil, &Error{Code: LabelNotFound, Pos: pos, Offset: at, Name: label}
	}
	global := &c.scopes[0]
	bpm, err := parseBPM(lookup(s, global, "bpm"))
	if err != nil {
		return nil, err
	}
	octave, err := parseOctave(lookup(s, global, "octave"))
	if err != nil {
		return nil, err
	}
	var ret []musical.Instruction
	for i := s.start; i < s.end; i++ {
		cmd, ok := c.tokens[i].(musical.Command)
		if !ok {
			continue
		}
		switch cmd.Name {
		case Goto:
			target, err := c.gotoTarget(cmd, i)
			if err != nil {
				return nil, err
			}
			if slices.Contains(stack, s.name) {
				return nil, &Error{Code: SelfRecursion, Pos: i, Offset: cmd.At, Name: s.name}
			}
			body, err := c.expand(target, i, cmd.At, extend(stack, s.name))
			if err != nil {
				return nil, err
			}
			return append(ret, body...), nil
		case Repeat:
			target, count, err := c.repeatTarget(cmd, i)
			if err != nil {
				return nil, err
			}
			if slices.Contains(stack, s.name) {
				return ret, nil
			}
			inner := extend(stack, s.name)
			for range count {
				body, err := c.expand(target, i, cmd.At, inner)
				if err != nil {
					return nil, err
				}
				ret = append(ret, body...)
			}
		default:
			if _, ok := NoteOffset(cmd.Name); !ok {
				return nil, &Error{Code: UnknownCommand, Pos: i, Offset: cmd.At, Name: cmd.Name}
			}
			notes, err := note(cmd, i, octave, bpm)
			if err != nil {
				return nil, err
			}
			ret = append(ret, notes...)
		}
	}
	return ret, nil
}

func (c *compiler) gotoTarget(cmd musical.Command, pos int) (string, error) {
	if len(cmd.Args) != 1 {
		return "", argumentCount(cmd, pos, 1)
	}
	label, ok := cmd.Args[0].(musical.String)
	if !ok {
		return "", valueType(cmd, pos, "string", cmd.Args[0])
	}
	return string(label), nil
}

func (c *compiler) repeatTarget(cmd musical.Command, pos int) (string, uint32, error) {
	if len(cmd.Args) != 2 {
		return "", 0, argumentCount(cmd, pos, 2)
	}
	label, ok := cmd.Args[0].(musical.String)
	if !ok {
		return "", 0, valueType(cmd, pos, "string", cmd.Args[0])
	}
	count, ok := cmd.Args[1].(musical.Whole)
	if !ok {
		return "", 0, valueType(cmd, pos, "whole", cmd.Args[1])
	}
	return string(label), uint32(count), nil
}

// note compiles "N1 N2 ... duration": one Play per note, all starting at the
// same time, followed by a single Advance of the same duration.
func note(cmd musical.Command, pos int, octave uint32, bpm float64) ([]musical.Instruction, error) {
	if len(cmd.Args) < 1 {
		return nil, argumentCount(cmd, pos, 1)
	}
	names := []string{cmd.Name}
	for _, a := range cmd.Args[:len(cmd.Args)-1] {
		s, ok := a.(musical.String)
		if !ok {
			return nil, valueType(cmd, pos, "string", a)
		}
		names = append(names, string(s))
	}
	last := cmd.Args[len(cmd.Args)-1]
	beats, ok := musical.Number(last)
	if !ok {
		return nil, valueType(cmd, pos, "number-like", last)
	}
	duration := bpm / 60 * beats
	ret := make([]musical.Instruction, 0, len(names)+1)
	for _, name := range names {
		f, ok := NoteFrequency(name, octave)
		if !ok {
			return nil, &Error{Code: UnknownNote, Pos: pos, Offset: cmd.At, Name: name}
		}
		ret = append(ret, musical.Instruction{Kind: musical.Play, Frequency: f, Duration: duration, Pos: pos})
	}
	return append(ret, musical.Instruction{Kind: musical.Advance, Duration: duration, Pos: pos}), nil
}

// extend returns a new stack; the caller's slice is never written to.
func extend(stack []string, name string) []string {
	ret := make([]string, len(stack), len(stack)+1)
	copy(ret, stack)
	return append(ret, name)
}

func argumentCount(cmd musical.Command, pos, expected int) error {
	return &Error{Code: WrongArgumentCount, Pos: pos, Offset: cmd.At, Name: cmd.Name, Expected: fmt.Sprint(expected), Got: fmt.Sprint(len(cmd.Args))}
}

func valueType(cmd musical.Command, pos int, expected string, got musical.Value) error {
	return &Error{Code: ValueType, Pos: pos, Offset: cmd.At, Name: cmd.Name, Expected: expected, Got: musical.Kind(got)}
}
