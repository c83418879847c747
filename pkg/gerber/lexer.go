package gerber

import (
	"bufio"
	"io"
	"strings"
)

// rawStatement is one logical statement (§4.1) together with the one-based
// line number of its first source line, for error reporting (§4.8).
type rawStatement struct {
	text string
	line int
}

// lexer breaks an input stream into statements: either a word statement
// (a single non-blank line) or an extended statement accumulated between
// %...% delimiters, possibly spanning several lines (§4.1).
type lexer struct {
	scanner *bufio.Scanner
	lineNum int
}

func newLexer(r io.Reader) *lexer {
	return &lexer{scanner: bufio.NewScanner(r)}
}

// next returns the next statement, or (nil, nil) at end of input.
func (l *lexer) next() (*rawStatement, error) {
	for l.scanner.Scan() {
		l.lineNum++
		trimmed := strings.TrimSpace(l.scanner.Text())
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "%") {
			return &rawStatement{text: trimmed, line: l.lineNum}, nil
		}

		startLine := l.lineNum
		var sb strings.Builder
		sb.WriteString(trimmed)
		closed := len(trimmed) > 1 && strings.HasSuffix(trimmed, "%")
		for !closed {
			if !l.scanner.Scan() {
				break
			}
			l.lineNum++
			cont := strings.TrimSpace(l.scanner.Text())
			if cont == "" {
				continue
			}
			sb.WriteString(cont)
			closed = strings.HasSuffix(cont, "%")
		}
		return &rawStatement{text: sb.String(), line: startLine}, nil
	}
	if err := l.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}
