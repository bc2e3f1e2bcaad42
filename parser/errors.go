package parser

import (
	"fmt"
	"strings"

	"github.com/shibukawa/indentml/tokenizer"
)

// ErrorKind classifies a ParseError
type ErrorKind int

const (
	IndentError ErrorKind = iota
	BracketError
	TagNameError
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case IndentError:
		return "IndentError"
	case BracketError:
		return "BracketError"
	case TagNameError:
		return "TagNameError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case IndentError:
		return ErrIndent
	case BracketError:
		return ErrBracket
	default:
		return ErrTagName
	}
}

// ParseError is a fatal error with the source location that caused it.
type ParseError struct {
	Kind       ErrorKind
	Pos        tokenizer.Position // zero when not tied to the input
	Message    string
	SourceLine string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Pos.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s: %s", e.Pos.Line, e.Pos.Column, e.Kind, e.Message)
}

// Unwrap returns the sentinel matching the kind, so errors.Is works.
func (e *ParseError) Unwrap() error {
	return e.Kind.sentinel()
}

// DetailedError returns the error message with the source line and a caret
// under the failing column.
func (e *ParseError) DetailedError() string {
	var sb strings.Builder

	sb.WriteString(e.Error())

	if e.SourceLine != "" {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  %d | %s\n", e.Pos.Line, e.SourceLine))

		gutter := len(fmt.Sprintf("  %d | ", e.Pos.Line))
		col := e.Pos.Column - 1
		if col < 0 {
			col = 0
		}
		// Keep tabs so the caret lines up with the echoed source.
		prefix := []rune(e.SourceLine)
		if col > len(prefix) {
			col = len(prefix)
		}
		var pad strings.Builder
		for _, r := range prefix[:col] {
			if r == '\t' {
				pad.WriteRune('\t')
			} else {
				pad.WriteByte(' ')
			}
		}
		sb.WriteString(strings.Repeat(" ", gutter))
		sb.WriteString(pad.String())
		sb.WriteString("^")
	}

	return sb.String()
}
