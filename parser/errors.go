package parser

import "fmt"

type (
	// Error is returned by the parser. Code tells the kind of the error; the
	// other fields are filled when they apply.
	Error struct {
		Code      Code
		ParsingAs string // what was being parsed, e.g. "value" or "label"
		Text      string // the literal that failed to parse
		Message   string
		Offset    int // byte offset in the source
	}

	Code int
)

const (
	// Depleted means that the token stream ended in the middle of a
	// statement.
	Depleted Code = iota + 1
	// EndOfSentence means that a word was expected, but the statement ended.
	EndOfSentence
	// BadValue means that a literal could not be converted to the number
	// type it was expected to be.
	BadValue
)

// Sentinels for errors.Is; only the Code is compared.
var (
	ErrDepleted      = &Error{Code: Depleted}
	ErrEndOfSentence = &Error{Code: EndOfSentence}
	ErrBadValue      = &Error{Code: BadValue}
)

func (c Code) String() string {
	switch c {
	case Depleted:
		return "token stream depleted"
	case EndOfSentence:
		return "unexpected end of sentence"
	case BadValue:
		return "bad value"
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

func (e *Error) Error() string {
	switch e.Code {
	case Depleted:
		return "token stream ended unexpectedly"
	case EndOfSentence:
		return fmt.Sprintf("expected %v, but the sentence ended (at %v)", e.ParsingAs, e.Offset)
	case BadValue:
		return fmt.Sprintf("could not parse %q as %v (at %v): %v", e.Text, e.ParsingAs, e.Offset, e.Message)
	}
	return e.Code.String()
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func valueError(text, parsingAs, msg string, offset int) *Error {
	return &Error{Code: BadValue, Text: text, ParsingAs: parsingAs, Message: msg, Offset: offset}
}
