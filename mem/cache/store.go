// Package cache models the tag storage of an instruction/data cache.
package cache

import (
	"github.com/sarchlab/cachesim/mem"
	"github.com/sarchlab/cachesim/mem/cache/internal/tagging"
)

// Block is a slot of a logical cache.
type Block = tagging.Block

// A Store keeps the tags of one unified cache, or of an instruction cache
// and a data cache that never share slots.
//
// The Store does not model timing or data. It only decides whether an access
// hits.
type Store struct {
	config   Config
	geometry Geometry
	place    placement

	unified     *tagging.TagArray
	instruction *tagging.TagArray
	data        *tagging.TagArray
}

func newStore(cfg Config, g Geometry) *Store {
	s := &Store{
		config:   cfg,
		geometry: g,
		place:    newPlacement(cfg.Mapping),
	}

	n := int(g.NumBlocks)
	if cfg.Organization == Split {
		s.instruction = tagging.NewTagArray(n)
		s.data = tagging.NewTagArray(n)
	} else {
		s.unified = tagging.NewTagArray(n)
	}

	return s
}

// Config returns the configuration the store was built with.
func (s *Store) Config() Config {
	return s.config
}

// Geometry returns the parameters derived from the configuration.
func (s *Store) Geometry() Geometry {
	return s.geometry
}

// Decode splits an address using the store's decoder.
func (s *Store) Decode(addr uint32) (tag, index uint32) {
	return s.geometry.Decoder.Decode(addr)
}

func (s *Store) subCache(kind mem.AccessKind) *tagging.TagArray {
	if s.unified != nil {
		return s.unified
	}

	if kind == mem.Instruction {
		return s.instruction
	}

	return s.data
}

// LookupAndUpdate reports whether the tag is present in the logical cache
// that serves the access kind, and installs it.
func (s *Store) LookupAndUpdate(kind mem.AccessKind, tag, index uint32) bool {
	return s.place.lookupAndUpdate(s.subCache(kind), tag, index)
}

// Snapshot returns a copy of the blocks of the logical cache that serves the
// access kind, in slot order.
func (s *Store) Snapshot(kind mem.AccessKind) []Block {
	return s.subCache(kind).Blocks()
}

// Reset invalidates every slot.
func (s *Store) Reset() {
	for _, t := range []*tagging.TagArray{s.unified, s.instruction, s.data} {
		if t != nil {
			t.Reset()
		}
	}
}
