// Package parser turns lexical tokens into a musical.Script.
//
// A statement is either a label ("@name"), a property ("name: value") or a
// command ("name arg1 arg2 ..."). Values are unsigned whole numbers,
// fractions ("3 / 4"), decimals (converted exactly to fractions) or bare
// strings.
package parser

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/vsariola/musical"
	"github.com/vsariola/musical/lexer"
)

var decimalPattern = regexp.MustCompile(`^([0-9]+\.[0-9]*|\.[0-9]+)$`)

// Parse parses a whole source text.
func Parse(src string) (musical.Script, error) {
	return ParseTokens(lexer.NewString(src))
}

// ParseTokens parses statements until the lexer is exhausted.
func ParseTokens(lx *lexer.Lexer) (musical.Script, error) {
	var tokens []musical.Token
	for {
		first, ok := lx.Next()
		if !ok {
			break
		}
		token, err := parseStatement(lx, first)
		if err != nil {
			return musical.Script{}, err
		}
		tokens = append(tokens, token)
	}
	if err := lx.Err(); err != nil {
		return musical.Script{}, fmt.Errorf("could not read the source: %w", err)
	}
	return musical.Script{Tokens: tokens}, nil
}

func parseStatement(lx *lexer.Lexer, first lexer.Token) (musical.Token, error) {
	name, at, err := unwrapWord(first, true, "statement")
	if err != nil {
		return nil, err
	}
	if first.IsWord(musical.LabelMarker) {
		t, ok := lx.Next()
		label, _, err := unwrapWord(t, ok, "label")
		if err != nil {
			return nil, err
		}
		consumeSentenceEnd(lx)
		return musical.Label{Name: label, At: at}, nil
	}
	sep, ok := lx.Next()
	if ok && sep.IsWord(musical.PropertySeparator) {
		value, err := ParseValue(lx)
		if err != nil {
			return nil, err
		}
		consumeSentenceEnd(lx)
		return musical.Property{Name: name, Value: value, At: at}, nil
	}
	if ok {
		lx.Schedule(sep)
	}
	var args []musical.Value
	for {
		t, ok := lx.Next()
		if ok && t.Kind == lexer.SentenceEnd {
			break
		}
		if ok {
			lx.Schedule(t)
		}
		value, err := ParseValue(lx)
		if errors.Is(err, ErrEndOfSentence) {
			break
		}
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	return musical.Command{Name: name, Args: args, At: at}, nil
}

// ParseValue parses one value from the lexer. A whole number followed by
// "/" and another whole number is a fraction. A word with escaped characters
// is always a string.
func ParseValue(lx *lexer.Lexer) (musical.Value, error) {
	t, ok := lx.Next()
	text, at, err := unwrapWord(t, ok, "value")
	if err != nil {
		return nil, err
	}
	if t.Escaped {
		return musical.String(text), nil
	}
	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, valueError(text, "whole number", "value out of range", at)
		}
		if decimalPattern.MatchString(text) {
			return parseDecimal(text, at)
		}
		return musical.String(text), nil
	}
	sep, ok := lx.Next()
	if !ok {
		return nil, ErrDepleted
	}
	if !sep.IsWord(musical.FractionSeparator) {
		lx.Schedule(sep)
		return musical.Whole(n), nil
	}
	t, ok = lx.Next()
	text, at, err = unwrapWord(t, ok, "fraction denominator")
	if err != nil {
		return nil, err
	}
	d, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return nil, valueError(text, "fraction denominator", numErrorMessage(err), at)
	}
	if d == 0 {
		return nil, valueError(text, "fraction denominator", "denominator must not be zero", at)
	}
	return musical.Fraction{Numerator: uint32(n), Denominator: uint32(d)}, nil
}

// parseDecimal converts a decimal literal like "1.25" exactly into the
// reduced fraction 5 / 4.
func parseDecimal(text string, at int) (musical.Value, error) {
	s := text
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, valueError(text, "fraction", "invalid decimal", at)
	}
	num, den := r.Num(), r.Denom()
	if !num.IsUint64() || num.Uint64() > math.MaxUint32 || !den.IsUint64() || den.Uint64() > math.MaxUint32 {
		return nil, valueError(text, "fraction", "value does not fit a fraction of whole numbers", at)
	}
	return musical.Fraction{Numerator: uint32(num.Uint64()), Denominator: uint32(den.Uint64())}, nil
}

func numErrorMessage(err error) string {
	if errors.Is(err, strconv.ErrRange) {
		return "value out of range"
	}
	return "not a whole number"
}

func unwrapWord(t lexer.Token, ok bool, parsingAs string) (string, int, error) {
	if !ok {
		return "", 0, ErrDepleted
	}
	if t.Kind == lexer.SentenceEnd {
		return "", 0, &Error{Code: EndOfSentence, ParsingAs: parsingAs, Offset: t.Offset}
	}
	return t.Text, t.Offset, nil
}

// consumeSentenceEnd drops the next token if it is a sentence end.
func consumeSentenceEnd(lx *lexer.Lexer) {
	if t, ok := lx.Next(); ok && t.Kind != lexer.SentenceEnd {
		lx.Schedule(t)
	}
}
