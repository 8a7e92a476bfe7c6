// Package simulation replays a trace against a cache store.
package simulation

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/cachesim/mem"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/trace"
)

// HookPosAccess is triggered after every access. The item is an AccessResult.
var HookPosAccess = &sim.HookPos{Name: "Access"}

// HookPosRunEnd is triggered once when a trace is exhausted. The item is the
// final Statistics.
var HookPosRunEnd = &sim.HookPos{Name: "RunEnd"}

// An AccessResult is the outcome of a single access.
type AccessResult struct {
	Seq    uint64
	Access mem.Access
	Tag    uint32
	Index  uint32
	Hit    bool
}

// Outcome returns "hit" or "miss".
func (r AccessResult) Outcome() string {
	if r.Hit {
		return "hit"
	}

	return "miss"
}

// A Simulator drives the accesses of a trace through a cache store. It owns
// the store and the statistics.
type Simulator struct {
	*sim.HookableBase

	id     string
	store  *cache.Store
	stats  Statistics
	logger *slog.Logger
}

// ID returns the unique ID of the run.
func (s *Simulator) ID() string {
	return s.id
}

// Store returns the cache store the simulator drives.
func (s *Simulator) Store() *cache.Store {
	return s.store
}

// Statistics returns the counters collected so far.
func (s *Simulator) Statistics() Statistics {
	return s.stats
}

// Step simulates one access.
func (s *Simulator) Step(access mem.Access) AccessResult {
	tag, index := s.store.Decode(access.Address)
	hit := s.store.LookupAndUpdate(access.Kind, tag, index)
	s.stats.record(access.Kind, hit)

	result := AccessResult{
		Seq:    s.stats.Accesses,
		Access: access,
		Tag:    tag,
		Index:  index,
		Hit:    hit,
	}

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Pos:    HookPosAccess,
		Item:   result,
	})

	return result
}

// Run simulates every access of src until src is exhausted. If src fails, the
// error is returned and the statistics of the run should be discarded.
func (s *Simulator) Run(src trace.Source) (Statistics, error) {
	for {
		access, ok, err := src.Next()
		if err != nil {
			s.logger.Error("trace aborted",
				"run", s.id,
				"accesses", s.stats.Accesses,
				"error", err)

			return Statistics{}, fmt.Errorf("simulating access %d: %w",
				s.stats.Accesses+1, err)
		}

		if !ok {
			break
		}

		s.Step(access)
	}

	s.logger.Info("trace finished",
		"run", s.id,
		"accesses", s.stats.Accesses,
		"hits", s.stats.Hits)

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Pos:    HookPosRunEnd,
		Item:   s.stats,
	})

	return s.stats, nil
}
