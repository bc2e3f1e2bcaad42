package parser

import "errors"

// Sentinel errors - Parser related
var (
	// Parse errors, matched by ParseError.Unwrap
	ErrIndent  = errors.New("indent error")
	ErrBracket = errors.New("bracket error")
	ErrTagName = errors.New("invalid tag name")

	// Navigation errors
	ErrNotSimple       = errors.New("node is not simple")
	ErrCannotUnitemize = errors.New("node cannot be unitemized")
)
