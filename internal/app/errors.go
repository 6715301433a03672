package service

import "errors"

// Sentinel kinds for session errors.
var (
	ErrNotStarted     = errors.New("session not started")
	ErrAlreadyStarted = errors.New("session already started")
)
