package musical

import (
	"fmt"
	"strings"

	"github.com/vsariola/musical/lexer"
)

type (
	// Token is one statement of a parsed script: a Label, a Property or a
	// Command. Offset returns the byte offset of the statement's leading word
	// in the source text.
	Token interface {
		fmt.Stringer
		Offset() int
		token()
	}

	// Label opens a named section. Every token after it, up to the next
	// label, belongs to that section.
	Label struct {
		Name string
		At   int
	}

	// Property is a "name: value" assignment. Before the first label it sets
	// a global default, inside a section it overrides the default for that
	// section only.
	Property struct {
		Name  string
		Value Value
		At    int
	}

	// Command is a name followed by zero or more arguments, e.g. "C E G 1"
	// or "goto chorus". Commands are only legal inside a labelled section.
	Command struct {
		Name string
		Args []Value
		At   int
	}

	// Script is the ordered list of tokens parsed from a source text.
	Script struct {
		Tokens []Token
	}
)

const (
	LabelMarker       = "@"
	PropertySeparator = ":"
	FractionSeparator = "/"
)

func (Label) token()    {}
func (Property) token() {}
func (Command) token()  {}

func (l Label) Offset() int    { return l.At }
func (p Property) Offset() int { return p.At }
func (c Command) Offset() int  { return c.At }

// Names and String values are escaped, so that the printed statements lex
// back into the same words.

func (l Label) String() string { return LabelMarker + lexer.Escape(l.Name) }

func (p Property) String() string {
	return lexer.Escape(p.Name) + PropertySeparator + " " + literal(p.Value)
}

func (c Command) String() string {
	var b strings.Builder
	b.WriteString(lexer.Escape(c.Name))
	for _, a := range c.Args {
		b.WriteByte(' ')
		b.WriteString(literal(a))
	}
	return b.String()
}

func literal(v Value) string {
	s, ok := v.(String)
	if !ok {
		return v.String()
	}
	ret := lexer.Escape(string(s))
	if ret == string(s) && startsLikeNumber(ret) {
		// an escaped word never parses as a number
		ret = string(lexer.EscapeSymbol) + ret
	}
	return ret
}

func startsLikeNumber(s string) bool {
	return s != "" && (s[0] >= '0' && s[0] <= '9' || s[0] == '.')
}

// String renders the script back into the textual notation, one statement
// per line. Parsing the result gives back an equivalent script.
func (s Script) String() string {
	lines := make([]string, len(s.Tokens))
	for i, t := range s.Tokens {
		lines[i] = t.String()
	}
	return strings.Join(lines, "\n")
}

// MarshalYAML encodes the script as a list of one-key maps, so that the
// token kind is visible in the dump.
func (s Script) MarshalYAML() (interface{}, error) {
	ret := make([]map[string]interface{}, 0, len(s.Tokens))
	for _, t := range s.Tokens {
		switch t := t.(type) {
		case Label:
			ret = append(ret, map[string]interface{}{"label": t.Name})
		case Property:
			ret = append(ret, map[string]interface{}{"property": t.Name, "value": yamlValue(t.Value)})
		case Command:
			args := make([]interface{}, len(t.Args))
			for i, a := range t.Args {
				args[i] = yamlValue(a)
			}
			ret = append(ret, map[string]interface{}{"command": t.Name, "args": args})
		default:
			return nil, fmt.Errorf("cannot marshal token of type %T", t)
		}
	}
	return ret, nil
}

func yamlValue(v Value) interface{} {
	switch v := v.(type) {
	case Whole:
		return uint32(v)
	case Fraction:
		return v.String()
	case String:
		return string(v)
	}
	return nil
}
