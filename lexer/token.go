package lexer

import "fmt"

type (
	// Token is a lexical token: either a Word or a SentenceEnd marking the
	// boundary between two statements.
	Token struct {
		Kind    Kind
		Text    string
		Offset  int  // byte offset of the word, or of the separator
		Escaped bool // the word contains escaped characters
	}

	Kind int
)

const (
	Word Kind = iota
	SentenceEnd
)

func (t Token) String() string {
	if t.Kind == SentenceEnd {
		return fmt.Sprintf("separator (at %d)", t.Offset)
	}
	return fmt.Sprintf("'%s' (at %d)", t.Text, t.Offset)
}

// IsWord reports whether t is the unescaped word text.
func (t Token) IsWord(text string) bool {
	return t.Kind == Word && !t.Escaped && t.Text == text
}
