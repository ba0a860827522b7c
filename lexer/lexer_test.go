package lexer_test

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/vsariola/musical/lexer"
)

func word(text string, offset int) lexer.Token {
	return lexer.Token{Kind: lexer.Word, Text: text, Offset: offset}
}

func escaped(text string, offset int) lexer.Token {
	return lexer.Token{Kind: lexer.Word, Text: text, Offset: offset, Escaped: true}
}

func end(offset int) lexer.Token {
	return lexer.Token{Kind: lexer.SentenceEnd, Offset: offset}
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		name   string
		source string
		tokens []lexer.Token
	}{
		{"statements", "bpm: 120\n@main\nA 1\n", []lexer.Token{
			word("bpm", 0), word(":", 3), word("120", 5), end(8),
			word("@", 9), word("main", 10), end(14),
			word("A", 15), word("1", 17), end(18),
		}},
		{"no trailing newline", "A", []lexer.Token{word("A", 0), end(1)}},
		{"empty", "", nil},
		{"only separators", "\n;\n", nil},
		{"collapsed separators", "\n\n;A\n\n", []lexer.Token{word("A", 3), end(4)}},
		{"semicolon", "A 1;B 2", []lexer.Token{word("A", 0), word("1", 2), end(3), word("B", 4), word("2", 6), end(7)}},
		{"independent words", "a/b", []lexer.Token{word("a", 0), word("/", 1), word("b", 2), end(3)}},
		{"tabs and carriage returns", "C\t1\r\n", []lexer.Token{word("C", 0), word("1", 2), end(4)}},
		{"endline comment", "A # c\nB", []lexer.Token{word("A", 0), end(5), word("B", 6), end(7)}},
		{"semicolon ends endline comment", "A # c ;d\nB", []lexer.Token{word("A", 0), end(6), word("d", 7), end(8), word("B", 9), end(10)}},
		{"comment inside word", "ab#cd\nE", []lexer.Token{word("ab", 0), end(5), word("E", 6), end(7)}},
		{"multiline comment", "A <x\ny> B\n", []lexer.Token{word("A", 0), word("B", 8), end(9)}},
		{"multiline end outside comment", "A > B", []lexer.Token{word("A", 0), word("B", 4), end(5)}},
		{"escapes", "a\\ b\\;c\n", []lexer.Token{escaped("a b;c", 0), end(7)}},
		{"escaped first character", "\\@x", []lexer.Token{escaped("@x", 0), end(3)}},
		{"escaped newline continues comment", "# x\\\nB\nC", []lexer.Token{word("C", 7), end(8)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tokens := slices.Collect(lexer.Tokenize(c.source))
			if !reflect.DeepEqual(tokens, c.tokens) {
				t.Fatalf("got tokens %v, expected %v", tokens, c.tokens)
			}
		})
	}
}

func TestExhaustionIsPermanent(t *testing.T) {
	lx := lexer.NewString("A")
	for i := 0; i < 2; i++ {
		if _, ok := lx.Next(); !ok {
			t.Fatalf("stream ended too early at token %v", i)
		}
	}
	for i := 0; i < 3; i++ {
		if tok, ok := lx.Next(); ok {
			t.Fatalf("exhausted stream returned %v", tok)
		}
	}
}

func TestSchedule(t *testing.T) {
	lx := lexer.NewString("A B")
	first, _ := lx.Next()
	lx.Schedule(first)
	again, ok := lx.Next()
	if !ok || again != first {
		t.Fatalf("scheduled token was not returned: got %v, expected %v", again, first)
	}
	second, _ := lx.Next()
	if second != word("B", 2) {
		t.Fatalf("got %v after the scheduled token, expected B", second)
	}
	last, _ := lx.Next()
	lx.Schedule(last)
	if tok, _ := lx.Next(); tok != end(3) {
		t.Fatalf("scheduled sentence end was not returned, got %v", tok)
	}
}

type failingReader struct{ n int }

var errBroken = errors.New("broken source")

func (r *failingReader) ReadRune() (rune, int, error) {
	if r.n == 0 {
		return 0, 0, errBroken
	}
	r.n--
	return 'x', 1, nil
}

func TestReadError(t *testing.T) {
	lx := lexer.New(&failingReader{n: 2})
	tokens := slices.Collect(lx.All())
	expected := []lexer.Token{word("xx", 0), end(2)}
	if !reflect.DeepEqual(tokens, expected) {
		t.Fatalf("got tokens %v, expected %v", tokens, expected)
	}
	if !errors.Is(lx.Err(), errBroken) {
		t.Fatalf("expected the read error to be reported, got %v", lx.Err())
	}
}

func TestEscape(t *testing.T) {
	words := []string{"plain", "a b", "x:y", "1/2", "@home", "semi;colon", "hash#", "<angle>", "back\\slash", "new\nline", "tab\tcr\r", "ä#ö"}
	for _, w := range words {
		got := slices.Collect(lexer.Tokenize(lexer.Escape(w)))
		expected := []lexer.Token{word(w, 0), end(len(lexer.Escape(w)))}
		expected[0].Escaped = lexer.Escape(w) != w
		if !reflect.DeepEqual(got, expected) {
			t.Fatalf("%q escaped as %q lexes to %v", w, lexer.Escape(w), got)
		}
	}
	if lexer.Escape("Cas") != "Cas" {
		t.Fatalf("ordinary words should not be escaped, got %q", lexer.Escape("Cas"))
	}
	if got := slices.Collect(lexer.Tokenize("\\:")); got[0].IsWord(":") {
		t.Fatalf("an escaped separator should not match the separator, got %v", got)
	}
}
