package feedback

import (
	"context"

	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/pkg/logger"
)

// Haptics emits a vibration pulse.
type Haptics interface {
	Pulse(ctx context.Context, strength model.Haptic) error
}

// LogHaptics stands in for a vibration motor on hosts without one.
type LogHaptics struct {
	logger logger.Logger
}

// NewLogHaptics returns haptics that log each pulse at debug level.
func NewLogHaptics(l logger.Logger) *LogHaptics {
	if l == nil {
		l = logger.Nop()
	}
	return &LogHaptics{logger: l}
}

// Pulse logs the pulse.
func (h *LogHaptics) Pulse(ctx context.Context, strength model.Haptic) error {
	h.logger.Debug(ctx, "haptic pulse", logger.String("strength", strength.String()))
	return nil
}
