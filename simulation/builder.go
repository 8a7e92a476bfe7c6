package simulation

import (
	"errors"
	"log/slog"

	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/sim"
)

// Builder can be used to build a simulator.
type Builder struct {
	store  *cache.Store
	hooks  []sim.Hook
	logger *slog.Logger
	ids    sim.IDGenerator
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithStore sets the cache store that the simulator drives.
func (b Builder) WithStore(store *cache.Store) Builder {
	b.store = store
	return b
}

// WithHook adds a hook to the simulator.
func (b Builder) WithHook(hook sim.Hook) Builder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], hook)
	return b
}

// WithIDGenerator sets the generator of the run ID. By default, run IDs are
// globally unique.
func (b Builder) WithIDGenerator(ids sim.IDGenerator) Builder {
	b.ids = ids
	return b
}

// WithLogger sets the logger of the simulator.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// Build builds the simulator.
func (b Builder) Build() (*Simulator, error) {
	if b.store == nil {
		return nil, errors.New("simulator requires a cache store")
	}

	ids := b.ids
	if ids == nil {
		ids = sim.NewXIDGenerator()
	}

	s := &Simulator{
		HookableBase: sim.NewHookableBase(),
		id:           ids.Generate(),
		store:        b.store,
		logger:       b.logger,
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	for _, h := range b.hooks {
		s.AcceptHook(h)
	}

	return s, nil
}
