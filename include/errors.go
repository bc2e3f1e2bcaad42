package include

import "errors"

// Sentinel errors
var (
	ErrIncludePath  = errors.New("invalid include path")
	ErrIncludeCycle = errors.New("include cycle")
	ErrIncludeRead  = errors.New("failed to read included file")
	ErrIncludeParse = errors.New("failed to parse included file")
)
