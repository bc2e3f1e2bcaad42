package main

import "errors"

// Sentinel errors for command operations
var (
	ErrFileNotFormatted = errors.New("file is not formatted")
	ErrValidationFailed = errors.New("validation failed")
	ErrNoInput          = errors.New("no input files")
)
