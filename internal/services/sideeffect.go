package services

import (
	"context"

	"go.uber.org/zap"
)

// SideEffects runs non-critical follow-up work (notifications, auto-messages,
// counters, topic indexing). A failure is logged and dropped; it never reaches
// the operation that triggered it.
type SideEffects struct {
	logger *zap.Logger
}

func NewSideEffects(logger *zap.Logger) *SideEffects {
	return &SideEffects{logger: logger}
}

// Run executes fn synchronously and reports whether it succeeded.
func (s *SideEffects) Run(ctx context.Context, name string, fn func(ctx context.Context) error, fields ...zap.Field) bool {
	err := fn(ctx)
	if err == nil {
		return true
	}
	s.logger.Warn("side effect failed",
		append([]zap.Field{zap.String("effect", name), zap.Error(err)}, fields...)...,
	)
	return false
}
