package beat

import "errors"

// Sentinel kinds for clock errors.
var (
	ErrInvalidTempo = errors.New("invalid tempo")
)
