package cmd_test

import (
	"strings"
	"testing"

	"github.com/vsariola/musical"
	"github.com/vsariola/musical/cmd"
	"github.com/vsariola/musical/compiler"
	"github.com/vsariola/musical/parser"
)

func TestLineCol(t *testing.T) {
	src := "ab\ncäd\n\nx"
	cases := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{6, 2, 3}, // ä is two bytes
		{8, 3, 1},
		{9, 4, 1},
		{100, 4, 2},
		{-5, 1, 1},
	}
	for _, c := range cases {
		line, col := cmd.LineCol(src, c.offset)
		if line != c.line || col != c.col {
			t.Fatalf("offset %v: got %v:%v, expected %v:%v", c.offset, line, col, c.line, c.col)
		}
	}
}

func TestFormatError(t *testing.T) {
	src := "bpm: 60\n@main\n  foo 1\n"
	script, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = compiler.Compile(script)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if msg := cmd.FormatError("song.musical", src, err); !strings.HasPrefix(msg, "song.musical:3:3: unknown command") {
		t.Fatalf("unexpected message %q", msg)
	}
	_, err = compiler.Compile(mustParse(t, "bpm: 60\n"))
	if msg := cmd.FormatError("song.musical", src, err); !strings.HasPrefix(msg, "song.musical: no main") {
		t.Fatalf("unexpected message %q", msg)
	}
	_, err = parser.Parse("x: 1 / 0")
	if msg := cmd.FormatError("a", "x: 1 / 0", err); !strings.HasPrefix(msg, "a:1:8: ") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func mustParse(t *testing.T, src string) musical.Script {
	t.Helper()
	script, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return script
}
