package cmd

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vsariola/musical/compiler"
	"github.com/vsariola/musical/parser"
)

// LineCol converts a byte offset in src into a 1-based line and column. The
// column counts runes. Offsets outside src are clamped.
func LineCol(src string, offset int) (line, col int) {
	offset = min(max(offset, 0), len(src))
	before := src[:offset]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return strings.Count(before, "\n") + 1, utf8.RuneCountInString(before[lineStart:]) + 1
}

// ErrorOffset returns the source byte offset carried by a parser or compiler
// error.
func ErrorOffset(err error) (int, bool) {
	var perr *parser.Error
	if errors.As(err, &perr) && perr.Code != parser.Depleted {
		return perr.Offset, true
	}
	var cerr *compiler.Error
	if errors.As(err, &cerr) && cerr.Offset >= 0 {
		return cerr.Offset, true
	}
	return 0, false
}

// FormatError prefixes the error with name:line:col when its position in src
// is known. An empty name leaves out the name.
func FormatError(name, src string, err error) string {
	var prefix []string
	if name != "" {
		prefix = append(prefix, name)
	}
	if offset, ok := ErrorOffset(err); ok {
		line, col := LineCol(src, offset)
		prefix = append(prefix, fmt.Sprint(line), fmt.Sprint(col))
	}
	if len(prefix) == 0 {
		return err.Error()
	}
	return strings.Join(prefix, ":") + ": " + err.Error()
}
