package tokenizer

import (
	"fmt"
	"unicode"
)

// Syntax holds the special characters of the markup.
type Syntax struct {
	TagBegin    rune
	Separator   rune
	CurlyOpen   rune
	CurlyClose  rune
	SquareOpen  rune
	SquareClose rune
}

// DefaultSyntax returns the default special characters: \ | { } [ ]
func DefaultSyntax() Syntax {
	return Syntax{
		TagBegin:    '\\',
		Separator:   '|',
		CurlyOpen:   '{',
		CurlyClose:  '}',
		SquareOpen:  '[',
		SquareClose: ']',
	}
}

// IsZero reports whether no special character is set.
func (s Syntax) IsZero() bool {
	return s == Syntax{}
}

// Validate checks that every special character is set, printable, not
// whitespace and distinct from the others.
func (s Syntax) Validate() error {
	named := []struct {
		name string
		r    rune
	}{
		{"tag_begin", s.TagBegin},
		{"separator", s.Separator},
		{"curly_open", s.CurlyOpen},
		{"curly_close", s.CurlyClose},
		{"square_open", s.SquareOpen},
		{"square_close", s.SquareClose},
	}

	seen := make(map[rune]string, len(named))

	for _, n := range named {
		if n.r == 0 {
			return fmt.Errorf("%w: %s", ErrMissingSpecialChar, n.name)
		}
		if unicode.IsSpace(n.r) || !unicode.IsPrint(n.r) || n.r == '&' {
			return fmt.Errorf("%w: %s is %q", ErrInvalidSpecialChar, n.name, n.r)
		}
		if other, ok := seen[n.r]; ok {
			return fmt.Errorf("%w: %s and %s are both %q", ErrDuplicateSpecialChar, other, n.name, n.r)
		}
		seen[n.r] = n.name
	}

	return nil
}

// IsSpecial reports whether r is one of the special characters.
func (s Syntax) IsSpecial(r rune) bool {
	return r == s.TagBegin || r == s.Separator || s.IsBracket(r)
}

// IsBracket reports whether r is one of the four bracket characters.
func (s Syntax) IsBracket(r rune) bool {
	return r == s.CurlyOpen || r == s.CurlyClose || r == s.SquareOpen || r == s.SquareClose
}

// IsNameRune reports whether r may appear in a tag name.
func (s Syntax) IsNameRune(r rune) bool {
	return !unicode.IsSpace(r) && !s.IsSpecial(r) && r != '&'
}

// IsValidName reports whether name is a non-empty run of name runes.
func (s Syntax) IsValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !s.IsNameRune(r) {
			return false
		}
	}
	return true
}

// Escapable reports whether r can follow the tag-begin character to form an
// escape sequence.
func (s Syntax) Escapable(r rune) bool {
	return s.IsSpecial(r)
}

func (s Syntax) role(r rune) CharRole {
	switch r {
	case s.TagBegin:
		return TAG_BEGIN
	case s.Separator:
		return SEPARATOR
	case s.CurlyOpen:
		return CURLY_OPEN
	case s.CurlyClose:
		return CURLY_CLOSE
	case s.SquareOpen:
		return SQUARE_OPEN
	case s.SquareClose:
		return SQUARE_CLOSE
	default:
		return LITERAL
	}
}
