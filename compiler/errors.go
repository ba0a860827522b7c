package compiler

import (
	"fmt"
	"strings"
)

type (
	// Error is returned when a script cannot be compiled. Pos is the index
	// of the offending token in the script and Offset its byte offset in the
	// source; both are -1 when not known.
	Error struct {
		Code     Code
		Pos      int
		Offset   int
		Name     string // property, command, label or note name
		Expected string
		Got      string
	}

	Code int
)

const (
	MissingGlobalProperty Code = iota + 1
	ValueType
	ValueOutOfRange
	UnknownCommand
	WrongArgumentCount
	CommandInGlobal
	NoMain
	LabelNotFound
	SelfRecursion
	UnknownNote
	EmptyProgram
)

// Sentinels for errors.Is; only the Code is compared.
var (
	ErrMissingGlobalProperty = &Error{Code: MissingGlobalProperty}
	ErrValueType             = &Error{Code: ValueType}
	ErrValueOutOfRange       = &Error{Code: ValueOutOfRange}
	ErrUnknownCommand        = &Error{Code: UnknownCommand}
	ErrWrongArgumentCount    = &Error{Code: WrongArgumentCount}
	ErrCommandInGlobal       = &Error{Code: CommandInGlobal}
	ErrNoMain                = &Error{Code: NoMain}
	ErrLabelNotFound         = &Error{Code: LabelNotFound}
	ErrSelfRecursion         = &Error{Code: SelfRecursion}
	ErrUnknownNote           = &Error{Code: UnknownNote}
	ErrEmptyProgram          = &Error{Code: EmptyProgram}
)

func (e *Error) Error() string {
	var msg string
	switch e.Code {
	case MissingGlobalProperty:
		msg = fmt.Sprintf("missing global property %q", e.Name)
	case ValueType:
		msg = fmt.Sprintf("expected a %v value, got %v", e.Expected, e.Got)
		if e.Name != "" {
			msg = fmt.Sprintf("%v: %v", e.Name, msg)
		}
	case ValueOutOfRange:
		msg = fmt.Sprintf("%v: value %v out of range, should be %v", e.Name, e.Got, e.Expected)
	case UnknownCommand:
		msg = fmt.Sprintf("unknown command %q", e.Name)
	case WrongArgumentCount:
		msg = fmt.Sprintf("%v: expected %v arguments, got %v", e.Name, e.Expected, e.Got)
	case CommandInGlobal:
		msg = fmt.Sprintf("command %q used before any label", e.Name)
	case NoMain:
		msg = "no main label found"
	case LabelNotFound:
		msg = fmt.Sprintf("label %q not found", e.Name)
	case SelfRecursion:
		msg = fmt.Sprintf("label %q jumps into itself", e.Name)
	case UnknownNote:
		msg = fmt.Sprintf("unknown note %q", e.Name)
	case EmptyProgram:
		msg = "the script produces no instructions"
	default:
		msg = fmt.Sprintf("compiler error %d", int(e.Code))
	}
	var where []string
	if e.Pos >= 0 {
		where = append(where, fmt.Sprintf("statement %d", e.Pos+1))
	}
	if e.Offset >= 0 {
		where = append(where, fmt.Sprintf("at %d", e.Offset))
	}
	if len(where) > 0 {
		msg += " (" + strings.Join(where, ", ") + ")"
	}
	return msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
