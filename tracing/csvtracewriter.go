package tracing

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/simulation"
)

// CSVTraceWriter is a hook that stores every access into a CSV file.
type CSVTraceWriter struct {
	path string
	file *os.File

	results    []simulation.AccessResult
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter. Init must be called before
// the writer is used.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Path returns the file that the writer writes to.
func (t *CSVTraceWriter) Path() string {
	return t.path
}

// Init creates the CSV file and writes the header. The file must not exist.
func (t *CSVTraceWriter) Init() error {
	if t.path == "" {
		t.path = "cachesim_trace_" + xid.New().String() + ".csv"
	}

	_, err := os.Stat(t.path)
	if err == nil {
		return fmt.Errorf("file %s already exists", t.path)
	}

	file, err := os.Create(t.path)
	if err != nil {
		return err
	}
	t.file = file

	fmt.Fprintf(file, "Seq, Kind, Address, Tag, Index, Outcome\n")

	atexit.Register(func() { t.Close() })

	return nil
}

// Func buffers the access of the hook context.
func (t *CSVTraceWriter) Func(ctx sim.HookCtx) {
	if ctx.Pos != simulation.HookPosAccess {
		return
	}

	t.results = append(t.results, ctx.Item.(simulation.AccessResult))
	if len(t.results) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered accesses to the CSV file.
func (t *CSVTraceWriter) Flush() {
	if t.file == nil {
		return
	}

	for _, r := range t.results {
		fmt.Fprintf(t.file, "%d, %s, %x, %x, %d, %s\n",
			r.Seq,
			r.Access.Kind,
			r.Access.Address,
			r.Tag,
			r.Index,
			r.Outcome(),
		)
	}

	t.results = nil
}

// Close flushes and closes the CSV file.
func (t *CSVTraceWriter) Close() error {
	if t.file == nil {
		return nil
	}

	t.Flush()

	err := t.file.Close()
	t.file = nil

	return err
}
