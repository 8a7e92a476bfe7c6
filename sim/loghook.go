package sim

import (
	"context"
	"log/slog"
)

// A LogHook is a hook that writes every invocation to a structured logger.
type LogHook struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogHook creates a LogHook that logs at the given level.
func NewLogHook(logger *slog.Logger, level slog.Level) *LogHook {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogHook{logger: logger, level: level}
}

// Func logs the position and the item of the hook context.
func (h *LogHook) Func(ctx HookCtx) {
	if !h.logger.Enabled(context.Background(), h.level) {
		return
	}

	pos := ""
	if ctx.Pos != nil {
		pos = ctx.Pos.Name
	}

	h.logger.Log(context.Background(), h.level, "hook",
		"pos", pos,
		"item", ctx.Item)
}
