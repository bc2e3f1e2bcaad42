package tokenizer

import (
	"iter"
	"strings"
	"unicode"
)

// CharIterator uses Go 1.24 iterator pattern
type CharIterator iter.Seq[Char]

// Line is one physical line of the input, without its line break.
type Line struct {
	Number     int // 1-based
	Offset     int // rune offset of the first character
	Runes      []rune
	Indent     int  // number of leading spaces
	Blank      bool // empty or whitespace only
	LeadingTab int  // 0-based column of the first tab in the leading whitespace, -1 if none
}

// Text returns the line content as a string
func (l Line) Text() string {
	return string(l.Runes)
}

// Cursor addresses a character inside the scanned input. The zero value
// points at the first character.
type Cursor struct {
	line int
	col  int
}

// Line returns the 0-based line index. It equals the line count once the
// cursor moved past the last line.
func (c Cursor) Line() int {
	return c.line
}

// Column returns the 0-based rune column inside the line.
func (c Cursor) Column() int {
	return c.col
}

// Scanner splits the input into lines and classifies characters on demand.
// It is read-only after construction and never interprets tag names.
type Scanner struct {
	syntax Syntax
	lines  []Line
}

// NewScanner creates a new Scanner. Both "\n" and "\r\n" end a line; a final
// line break does not produce an empty trailing line.
func NewScanner(input string, syntax Syntax) *Scanner {
	raw := strings.Split(input, "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	lines := make([]Line, 0, len(raw))
	offset := 0

	for i, text := range raw {
		runes := []rune(strings.TrimSuffix(text, "\r"))
		lines = append(lines, newLine(i+1, offset, runes))
		offset += len(runes) + 1
	}

	return &Scanner{syntax: syntax, lines: lines}
}

func newLine(number, offset int, runes []rune) Line {
	line := Line{
		Number:     number,
		Offset:     offset,
		Runes:      runes,
		LeadingTab: -1,
		Blank:      true,
	}

	for line.Indent < len(runes) && runes[line.Indent] == ' ' {
		line.Indent++
	}

	for i := 0; i < len(runes) && (runes[i] == ' ' || runes[i] == '\t'); i++ {
		if runes[i] == '\t' {
			line.LeadingTab = i
			break
		}
	}

	for _, r := range runes {
		if !unicode.IsSpace(r) {
			line.Blank = false
			break
		}
	}

	return line
}

// Syntax returns the special characters used by the scanner
func (s *Scanner) Syntax() Syntax {
	return s.syntax
}

// Lines returns all physical lines
func (s *Scanner) Lines() []Line {
	return s.lines
}

// LineCount returns the number of physical lines
func (s *Scanner) LineCount() int {
	return len(s.lines)
}

// Line returns the line at the 0-based index i
func (s *Scanner) Line(i int) Line {
	return s.lines[i]
}

// Cursor returns a cursor at the 0-based line index and rune column.
func (s *Scanner) Cursor(line, col int) Cursor {
	return Cursor{line: line, col: col}
}

// Position converts a cursor to a source position. Cursors past the input
// map to the end of the last line.
func (s *Scanner) Position(c Cursor) Position {
	if c.line >= len(s.lines) {
		if len(s.lines) == 0 {
			return Position{Line: 1, Column: 1}
		}
		last := s.lines[len(s.lines)-1]
		return Position{Line: last.Number, Column: len(last.Runes) + 1, Offset: last.Offset + len(last.Runes)}
	}

	line := s.lines[c.line]
	return Position{Line: line.Number, Column: c.col + 1, Offset: line.Offset + c.col}
}

// Peek returns the character at c without advancing.
func (s *Scanner) Peek(c Cursor) Char {
	ch, _ := s.Next(c)
	return ch
}

// Next returns the character at c and the cursor that follows it. An escape
// sequence is returned as one escaped LITERAL spanning two source characters.
// The end of a line yields NEWLINE, or EOF on the last line; both move the
// cursor to the start of the following line.
func (s *Scanner) Next(c Cursor) (Char, Cursor) {
	pos := s.Position(c)

	if c.line >= len(s.lines) {
		return Char{Role: EOF, Position: pos}, c
	}

	runes := s.lines[c.line].Runes

	if c.col >= len(runes) {
		next := Cursor{line: c.line + 1}
		if next.line >= len(s.lines) {
			return Char{Role: EOF, Position: pos}, next
		}
		return Char{Role: NEWLINE, Value: '\n', Position: pos}, next
	}

	r := runes[c.col]

	if r == s.syntax.TagBegin && c.col+1 < len(runes) && s.syntax.Escapable(runes[c.col+1]) {
		return Char{Role: LITERAL, Value: runes[c.col+1], Escaped: true, Position: pos}, Cursor{line: c.line, col: c.col + 2}
	}

	return Char{Role: s.syntax.role(r), Value: r, Position: pos}, Cursor{line: c.line, col: c.col + 1}
}

// TagName consumes a bare name token starting at c. It stops at whitespace,
// special characters, '&' and the end of the line.
func (s *Scanner) TagName(c Cursor) (string, Cursor) {
	if c.line >= len(s.lines) {
		return "", c
	}

	runes := s.lines[c.line].Runes
	end := c.col

	for end < len(runes) && s.syntax.IsNameRune(runes[end]) {
		end++
	}

	return string(runes[c.col:end]), Cursor{line: c.line, col: end}
}

// SkipSpaces skips spaces and tabs inside the current line.
func (s *Scanner) SkipSpaces(c Cursor) Cursor {
	if c.line >= len(s.lines) {
		return c
	}

	runes := s.lines[c.line].Runes
	for c.col < len(runes) && (runes[c.col] == ' ' || runes[c.col] == '\t') {
		c.col++
	}

	return c
}

// SkipIndent skips at most n leading spaces inside the current line.
func (s *Scanner) SkipIndent(c Cursor, n int) Cursor {
	if c.line >= len(s.lines) {
		return c
	}

	runes := s.lines[c.line].Runes
	for i := 0; i < n && c.col < len(runes) && runes[c.col] == ' '; i++ {
		c.col++
	}

	return c
}

// Chars returns an iterator over the classified characters from c up to and
// including EOF.
func (s *Scanner) Chars(from Cursor) CharIterator {
	return func(yield func(Char) bool) {
		c := from
		for {
			ch, next := s.Next(c)
			if !yield(ch) || ch.Role == EOF {
				return
			}
			c = next
		}
	}
}

// AllChars collects every character of the input (for debugging and tests)
func AllChars(input string, syntax Syntax) []Char {
	s := NewScanner(input, syntax)

	var chars []Char
	for ch := range s.Chars(Cursor{}) {
		chars = append(chars, ch)
	}

	return chars
}
