package musical

import (
	"fmt"
	"strconv"
)

type (
	// Value is a literal parsed from the source: a Whole number, a Fraction of
	// two whole numbers or a bare String. Values are immutable; the set of
	// implementations is closed.
	Value interface {
		fmt.Stringer
		value()
	}

	// Whole is an unsigned whole number literal, e.g. "120".
	Whole uint32

	// Fraction is a literal of the form "3 / 4". The parser never produces
	// a zero Denominator.
	Fraction struct {
		Numerator   uint32
		Denominator uint32
	}

	// String is any word that did not parse as a number, e.g. a note name or
	// a label.
	String string
)

func (Whole) value()    {}
func (Fraction) value() {}
func (String) value()   {}

func (w Whole) String() string    { return strconv.FormatUint(uint64(w), 10) }
func (f Fraction) String() string { return fmt.Sprintf("%d / %d", f.Numerator, f.Denominator) }
func (s String) String() string   { return string(s) }

// Float returns the fraction as a floating point number.
func (f Fraction) Float() float64 {
	return float64(f.Numerator) / float64(f.Denominator)
}

// Kind returns the name of the semantic category of the value, as used in
// error messages: "whole", "fraction" or "string".
func Kind(v Value) string {
	switch v.(type) {
	case Whole:
		return "whole"
	case Fraction:
		return "fraction"
	case String:
		return "string"
	}
	return "unknown"
}

// Number returns the numeric value of a Whole or a Fraction. The second
// return value is false for strings.
func Number(v Value) (float64, bool) {
	switch n := v.(type) {
	case Whole:
		return float64(n), true
	case Fraction:
		return n.Float(), true
	}
	return 0, false
}
