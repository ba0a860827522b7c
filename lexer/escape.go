package lexer

import (
	"slices"
	"strings"
)

// Escape prefixes every character of word that the lexer would treat
// specially with EscapeSymbol. Lexing the result yields word as one Word.
func Escape(word string) string {
	var b strings.Builder
	for _, c := range word {
		if isSpecial(c) {
			b.WriteRune(EscapeSymbol)
		}
		b.WriteRune(c)
	}
	return b.String()
}

func isSpecial(c rune) bool {
	switch c {
	case EscapeSymbol, EndlineComment, MultilineCommentStart, MultilineCommentEnd:
		return true
	}
	return slices.Contains(WordSeparators, c) ||
		slices.Contains(IndependentWords, c) ||
		slices.Contains(LineSeparators, c)
}
