package tokenizer

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrMissingSpecialChar   = errors.New("special character is not set")
	ErrInvalidSpecialChar   = errors.New("invalid special character")
	ErrDuplicateSpecialChar = errors.New("special characters must be distinct")
)

// CharRole represents the role a scanned character plays in the markup
type CharRole int

const (
	EOF          CharRole = iota
	LITERAL               // plain text, including resolved escapes
	TAG_BEGIN             // \ (unescaped)
	CURLY_OPEN            // {
	CURLY_CLOSE           // }
	SQUARE_OPEN           // [
	SQUARE_CLOSE          // ]
	SEPARATOR             // |
	NEWLINE               // end of a physical line
)

// String returns the string representation of CharRole
func (r CharRole) String() string {
	switch r {
	case EOF:
		return "EOF"
	case LITERAL:
		return "LITERAL"
	case TAG_BEGIN:
		return "TAG_BEGIN"
	case CURLY_OPEN:
		return "CURLY_OPEN"
	case CURLY_CLOSE:
		return "CURLY_CLOSE"
	case SQUARE_OPEN:
		return "SQUARE_OPEN"
	case SQUARE_CLOSE:
		return "SQUARE_CLOSE"
	case SEPARATOR:
		return "SEPARATOR"
	case NEWLINE:
		return "NEWLINE"
	default:
		return fmt.Sprintf("CharRole(%d)", int(r))
	}
}

// Position represents a position in the source text. Line and Column are
// 1-based, Offset counts runes from the start of the input with line breaks
// normalized to a single character.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns "line:column"
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Char is a classified character
type Char struct {
	Role     CharRole
	Value    rune
	Escaped  bool // produced by an escape sequence; occupies two source characters
	Position Position
}

// String returns the string representation of Char
func (c Char) String() string {
	switch c.Role {
	case EOF, NEWLINE:
		return c.Role.String()
	}
	if c.Escaped {
		return fmt.Sprintf("%s(escaped %q)", c.Role, c.Value)
	}
	return fmt.Sprintf("%s(%q)", c.Role, c.Value)
}
