package compiler

import (
	"fmt"

	"github.com/vsariola/musical"
)

type (
	// scope is a half-open range [start, end) of script tokens. The first
	// scope is the global one and has no name; every label opens a named
	// scope that lasts until the next label.
	scope struct {
		name       string
		named      bool
		start, end int
		properties map[string]property
	}

	property struct {
		value musical.Value
		pos   int
		at    int
	}
)

// scopes splits the tokens into scopes. The returned slice always begins
// with the global scope, which may be empty.
func scopes(tokens []musical.Token) ([]scope, error) {
	ret := []scope{}
	cur := scope{properties: map[string]property{}}
	for i, t := range tokens {
		switch t := t.(type) {
		case musical.Label:
			cur.end = i
			ret = append(ret, cur)
			cur = scope{name: t.Name, named: true, start: i, properties: map[string]property{}}
		case musical.Property:
			cur.properties[t.Name] = property{value: t.Value, pos: i, at: t.At}
		case musical.Command:
			if !cur.named {
				return nil, &Error{Code: CommandInGlobal, Pos: i, Offset: t.At, Name: t.Name}
			}
		default:
			return nil, fmt.Errorf("unexpected token type %T", t)
		}
	}
	cur.end = len(tokens)
	return append(ret, cur), nil
}

// find returns the first scope with the given label.
func find(scopes []scope, name string) (*scope, bool) {
	for i := range scopes {
		if scopes[i].named && scopes[i].name == name {
			return &scopes[i], true
		}
	}
	return nil, false
}

func parseOctave(p property, ok bool) (uint32, error) {
	if !ok {
		return DefaultOctave, nil
	}
	n, isWhole := p.value.(musical.Whole)
	if !isWhole {
		return 0, &Error{Code: ValueType, Pos: p.pos, Offset: p.at, Name: "octave", Expected: "whole", Got: musical.Kind(p.value)}
	}
	return uint32(n), nil
}

func parseBPM(p property, ok bool) (float64, error) {
	if !ok {
		return 0, &Error{Code: MissingGlobalProperty, Pos: -1, Offset: -1, Name: "bpm"}
	}
	outOfRange := func(got uint32) error {
		return &Error{Code: ValueOutOfRange, Pos: p.pos, Offset: p.at, Name: "bpm", Expected: "at least 1", Got: fmt.Sprint(got)}
	}
	switch v := p.value.(type) {
	case musical.Whole:
		if v < 1 {
			return 0, outOfRange(uint32(v))
		}
		return float64(v), nil
	case musical.Fraction:
		if v.Numerator == 0 {
			return 0, outOfRange(v.Numerator)
		}
		return v.Float(), nil
	}
	return 0, &Error{Code: ValueType, Pos: p.pos, Offset: p.at, Name: "bpm", Expected: "number-like", Got: musical.Kind(p.value)}
}

// lookup returns the scope's own property, falling back to the global one.
func lookup(s, global *scope, name string) (property, bool) {
	if p, ok := s.properties[name]; ok {
		return p, true
	}
	p, ok := global.properties[name]
	return p, ok
}
