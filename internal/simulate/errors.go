package simulate

import "errors"

// ErrInvalidConfig reports an unusable simulation config.
var ErrInvalidConfig = errors.New("invalid simulation config")
