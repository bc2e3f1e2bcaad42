package selector

import "errors"

// Sentinel errors
var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrInvalidWhere = errors.New("invalid where expression")
	ErrWhereNotBool = errors.New("where expression did not return a bool")
)
