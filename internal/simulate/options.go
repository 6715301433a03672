package simulate

import "github.com/okian/velocity/pkg/logger"

type options struct {
	logger logger.Logger
}

// Option applies a configuration option to a run.
type Option func(*options)

// WithLogger sets the logger for the run summary.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
