package monitoring

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/simulation"
)

// A ProgressBar is a hook that tracks how many accesses have been simulated
// and reports the progress to a logger every Interval accesses.
type ProgressBar struct {
	sync.Mutex
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	Finished  uint64    `json:"finished"`
	Done      bool      `json:"done"`

	Interval uint64       `json:"-"`
	logger   *slog.Logger
}

// NewProgressBar creates a progress bar that logs to logger.
func NewProgressBar(logger *slog.Logger, interval uint64) *ProgressBar {
	if logger == nil {
		logger = slog.Default()
	}

	return &ProgressBar{
		StartTime: time.Now(),
		Interval:  interval,
		logger:    logger,
	}
}

// Func counts the access or marks the run as done.
func (b *ProgressBar) Func(ctx sim.HookCtx) {
	b.Lock()
	defer b.Unlock()

	if s, ok := ctx.Domain.(*simulation.Simulator); ok {
		b.ID = s.ID()
	}

	switch ctx.Pos {
	case simulation.HookPosAccess:
		b.Finished++
		if b.Interval > 0 && b.Finished%b.Interval == 0 {
			b.logger.Info("progress",
				"run", b.ID,
				"accesses", b.Finished,
				"elapsed", time.Since(b.StartTime))
		}
	case simulation.HookPosRunEnd:
		b.Done = true
	}
}

// Progress returns the number of simulated accesses and whether the run has
// finished.
func (b *ProgressBar) Progress() (finished uint64, done bool) {
	b.Lock()
	defer b.Unlock()

	return b.Finished, b.Done
}
