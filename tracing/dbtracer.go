// Package tracing records the accesses and the results of a run.
package tracing

import (
	"fmt"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/simulation"
)

// Tables written by the DBTracer.
const (
	AccessTable = "cachesim_access"
	RunTable    = "cachesim_run"
)

type accessTableEntry struct {
	RunID    string `json:"run_id"`
	Seq      uint64 `json:"seq"`
	Kind     string `json:"kind"`
	Address  string `json:"address"`
	Tag      uint32 `json:"tag"`
	SetIndex uint32 `json:"set_index"`
	Hit      bool   `json:"hit"`
}

type runTableEntry struct {
	RunID        string  `json:"run_id"`
	Capacity     uint32  `json:"capacity"`
	BlockSize    uint32  `json:"block_size"`
	Mapping      string  `json:"mapping"`
	Organization string  `json:"organization"`
	NumBlocks    uint32  `json:"num_blocks"`
	Accesses     uint64  `json:"accesses"`
	Hits         uint64  `json:"hits"`
	HitRate      float64 `json:"hit_rate"`
}

// DBTracer is a hook that stores every access and the summary of a run into
// a data recorder.
type DBTracer struct {
	backend datarecording.DataRecorder
}

// NewDBTracer creates a DBTracer and the tables it writes to.
func NewDBTracer(backend datarecording.DataRecorder) *DBTracer {
	t := &DBTracer{backend: backend}

	t.backend.CreateTable(AccessTable, accessTableEntry{})
	t.backend.CreateTable(RunTable, runTableEntry{})

	return t
}

// Func records the item of the hook context.
func (t *DBTracer) Func(ctx sim.HookCtx) {
	simulator, ok := ctx.Domain.(*simulation.Simulator)
	if !ok {
		return
	}

	switch ctx.Pos {
	case simulation.HookPosAccess:
		t.recordAccess(simulator, ctx.Item.(simulation.AccessResult))
	case simulation.HookPosRunEnd:
		t.recordRun(simulator, ctx.Item.(simulation.Statistics))
	}
}

func (t *DBTracer) recordAccess(
	simulator *simulation.Simulator,
	r simulation.AccessResult,
) {
	t.backend.InsertData(AccessTable, accessTableEntry{
		RunID:    simulator.ID(),
		Seq:      r.Seq,
		Kind:     r.Access.Kind.String(),
		Address:  fmt.Sprintf("%x", r.Access.Address),
		Tag:      r.Tag,
		SetIndex: r.Index,
		Hit:      r.Hit,
	})
}

func (t *DBTracer) recordRun(
	simulator *simulation.Simulator,
	stats simulation.Statistics,
) {
	cfg := simulator.Store().Config()

	t.backend.InsertData(RunTable, runTableEntry{
		RunID:        simulator.ID(),
		Capacity:     cfg.Capacity,
		BlockSize:    cfg.BlockSize,
		Mapping:      cfg.Mapping.String(),
		Organization: cfg.Organization.String(),
		NumBlocks:    simulator.Store().Geometry().NumBlocks,
		Accesses:     stats.Accesses,
		Hits:         stats.Hits,
		HitRate:      stats.HitRate(),
	})
	t.backend.Flush()
}
