// Package lexer splits the text of a script into words and sentence ends.
//
// Statements are separated by newlines or semicolons. Spaces separate words,
// and the characters '@', ':' and '/' are always words of their own. A '#'
// starts a comment running to the end of the line, '<' and '>' enclose a
// comment spanning any number of lines. A backslash makes the next character
// an ordinary word character, e.g. "\;" or "\ ".
package lexer

import (
	"io"
	"iter"
	"slices"
	"strings"
)

const (
	EscapeSymbol          = '\\'
	EndlineComment        = '#'
	MultilineCommentStart = '<'
	MultilineCommentEnd   = '>'
)

var (
	WordSeparators   = []rune{' ', '\t', '\r'}
	IndependentWords = []rune{'@', ':', '/'}
	LineSeparators   = []rune{'\n', ';'}
)

type commentMode int

const (
	notCommenting commentMode = iota
	endlineComment
	multilineComment
)

// Lexer produces tokens lazily from a rune source. A Lexer cannot be rewound;
// to start over, create a new one.
type Lexer struct {
	src        io.RuneReader
	pos        int
	queue      []Token
	escaping   bool
	escapeAt   int
	lastWasEnd bool
	commenting commentMode
	eof        bool
	finished   bool
	err        error
}

func New(r io.RuneReader) *Lexer {
	return &Lexer{src: r, lastWasEnd: true}
}

func NewString(s string) *Lexer {
	return New(strings.NewReader(s))
}

// Tokenize returns the lazy token sequence of s.
func Tokenize(s string) iter.Seq[Token] {
	return NewString(s).All()
}

// Schedule pushes a token back to the front of the queue, so that the next
// call to Next returns it.
func (l *Lexer) Schedule(t Token) {
	l.queue = append([]Token{t}, l.queue...)
}

// Err returns the first read error other than io.EOF encountered by the
// lexer. A read error ends the token stream like the end of input does.
func (l *Lexer) Err() error {
	return l.err
}

// All returns the remaining tokens as a sequence.
func (l *Lexer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			t, ok := l.Next()
			if !ok || !yield(t) {
				return
			}
		}
	}
}

// Next returns the next token. The second return value is false when the
// stream is exhausted; after that, Next only returns tokens given to
// Schedule.
func (l *Lexer) Next() (Token, bool) {
	if t, ok := l.dequeue(); ok {
		return t, true
	}
	if l.finished {
		return Token{}, false
	}
	var word strings.Builder
	start := 0
	escapedWord := false
	for {
	chars:
		for {
			c, at, ok := l.read()
			if !ok {
				if word.Len() == 0 && len(l.queue) == 0 {
					l.finished = true
					if l.lastWasEnd {
						return Token{}, false
					}
					l.lastWasEnd = true
					return Token{Kind: SentenceEnd, Offset: at}, true
				}
				break chars
			}
			escaping := l.escaping
			l.escaping = false
			if escaping && l.commenting == notCommenting {
				if word.Len() == 0 {
					start = l.escapeAt
				}
				word.WriteRune(c)
				escapedWord = true
				continue
			}
			switch {
			case c == EscapeSymbol:
				l.escaping = true
				l.escapeAt = at
			case c == EndlineComment:
				if l.commenting == notCommenting {
					l.commenting = endlineComment
				}
			case c == MultilineCommentStart:
				l.commenting = multilineComment
			case c == MultilineCommentEnd:
				if l.commenting == multilineComment {
					l.commenting = notCommenting
				}
			case slices.Contains(LineSeparators, c):
				if l.commenting != multilineComment {
					l.queue = append(l.queue, Token{Kind: SentenceEnd, Offset: at})
				}
				if l.commenting == endlineComment && !escaping {
					l.commenting = notCommenting
				}
				break chars
			case l.commenting != notCommenting:
				// comment text is dropped
			case slices.Contains(WordSeparators, c):
				break chars
			case slices.Contains(IndependentWords, c):
				l.queue = append(l.queue, Token{Kind: Word, Text: string(c), Offset: at})
				break chars
			default:
				if word.Len() == 0 {
					start = at
				}
				word.WriteRune(c)
			}
		}
		if word.Len() > 0 {
			l.lastWasEnd = false
			return Token{Kind: Word, Text: word.String(), Offset: start, Escaped: escapedWord}, true
		}
		if len(l.queue) == 0 {
			continue
		}
		t := l.queue[0]
		l.queue = l.queue[1:]
		if t.Kind == SentenceEnd {
			if l.lastWasEnd {
				continue
			}
			l.lastWasEnd = true
			return t, true
		}
		l.lastWasEnd = false
		return t, true
	}
}

func (l *Lexer) dequeue() (Token, bool) {
	if len(l.queue) == 0 {
		return Token{}, false
	}
	t := l.queue[0]
	l.queue = l.queue[1:]
	l.lastWasEnd = t.Kind == SentenceEnd
	return t, true
}

// read returns the next rune and its byte offset. At the end of input, the
// offset is the length of the consumed source.
func (l *Lexer) read() (rune, int, bool) {
	if l.eof {
		return 0, l.pos, false
	}
	c, size, err := l.src.ReadRune()
	if err != nil {
		l.eof = true
		if err != io.EOF {
			l.err = err
		}
		return 0, l.pos, false
	}
	at := l.pos
	l.pos += size
	return c, at, true
}
