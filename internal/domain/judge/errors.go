package judge

import "errors"

// Sentinel kinds for judge errors.
var (
	ErrInvalidWindows = errors.New("invalid tolerance windows")
)
