package formatter

import "errors"

// ErrUnrepresentable is returned when a tree cannot be written as markup that
// parses back to the same tree with the formatter's options.
var ErrUnrepresentable = errors.New("document cannot be written as markup")
