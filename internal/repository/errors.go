package repository

import "errors"

var (
	// ErrInvalidSource indicates a source location that fails validation
	ErrInvalidSource = errors.New("invalid source")

	// ErrUnsupportedSource indicates a source kind with no registered fetcher
	ErrUnsupportedSource = errors.New("unsupported source kind")
)
