// Package report prints the configuration echo, the per-access lines, and
// the final statistics of a run.
package report

import (
	"fmt"
	"io"

	"github.com/sarchlab/cachesim/mem"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/simulation"
)

// PrintConfiguration echoes the cache configuration and the derived
// parameters, followed by an empty line.
func PrintConfiguration(w io.Writer, cfg cache.Config, g cache.Geometry) {
	d := g.Decoder

	fmt.Fprintf(w, "Cache size:                      %d\n", cfg.Capacity)
	fmt.Fprintf(w, "Block size:                      %d\n", cfg.BlockSize)
	fmt.Fprintf(w, "Cache mapping:                   %s\n", cfg.Mapping)
	fmt.Fprintf(w, "Cache organization:              %s\n", cfg.Organization)
	fmt.Fprintf(w, "Cache size single:               %d\n", g.SubCacheSize)
	fmt.Fprintf(w, "Number of blocks:                %d\n", g.NumBlocks)
	fmt.Fprintf(w, "Number of bits for block offset: %d\n", d.OffsetBits)
	fmt.Fprintf(w, "Number of bits for index:        %d\n", d.IndexBits)
	fmt.Fprintf(w, "Number of bits for tag:          %d\n", d.TagBits)
	fmt.Fprintf(w, "Block offset mask:               %x\n", d.OffsetMask)
	fmt.Fprintf(w, "Index mask:                      %x\n", d.IndexMask)
	fmt.Fprintf(w, "Tag mask:                        %x\n", d.TagMask)
	fmt.Fprintf(w, "\n")
}

// FormatAccess returns the line printed for one access, without newline.
func FormatAccess(r simulation.AccessResult) string {
	return fmt.Sprintf("%s | %s", r.Access, r.Outcome())
}

// An AccessPrinter is a hook that prints a line for every access.
type AccessPrinter struct {
	w io.Writer
}

// NewAccessPrinter creates an AccessPrinter that writes to w.
func NewAccessPrinter(w io.Writer) *AccessPrinter {
	return &AccessPrinter{w: w}
}

// Func prints the access if the hook is triggered after an access.
func (p *AccessPrinter) Func(ctx sim.HookCtx) {
	if ctx.Pos != simulation.HookPosAccess {
		return
	}

	result, ok := ctx.Item.(simulation.AccessResult)
	if !ok {
		return
	}

	fmt.Fprintln(p.w, FormatAccess(result))
}

// PrintStatistics prints the final statistics. A run without accesses has a
// hit rate of 0.
func PrintStatistics(w io.Writer, stats simulation.Statistics) {
	fmt.Fprintf(w, "\nCache Statistics\n")
	fmt.Fprintf(w, "-----------------\n\n")
	fmt.Fprintf(w, "Accesses: %d\n", stats.Accesses)
	fmt.Fprintf(w, "Hits:     %d\n", stats.Hits)
	fmt.Fprintf(w, "Hit Rate: %.4f\n", stats.HitRate())
}

// PrintBreakdown prints the statistics of each access kind.
func PrintBreakdown(w io.Writer, stats simulation.Statistics) {
	fmt.Fprintf(w, "\n")

	for _, kind := range []mem.AccessKind{mem.Instruction, mem.Data} {
		fmt.Fprintf(w, "%s Accesses: %d\n", kind, stats.KindAccesses[kind])
		fmt.Fprintf(w, "%s Hits:     %d\n", kind, stats.KindHits[kind])
		fmt.Fprintf(w, "%s Hit Rate: %.4f\n", kind, stats.KindHitRate(kind))
	}
}
