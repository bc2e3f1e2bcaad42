package indentml

import "errors"

// Common errors used throughout the indentml package
var (
	// ErrConfigValidation wraps every problem found in a configuration file.
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrUnknownNormalization is returned for a normalize value other than nfc or nfd.
	ErrUnknownNormalization = errors.New("unknown unicode normalization form")
	// ErrUnknownOutputFormat is returned for an output format no formatter handles.
	ErrUnknownOutputFormat = errors.New("unknown output format")
)
