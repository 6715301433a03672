package repository

import "errors"

// Sentinel kinds for stats store errors.
var (
	ErrClosed         = errors.New("stats store closed")
	ErrInvalidCount   = errors.New("invalid count")
	ErrMissingStatRow = errors.New("stats row missing")
)
