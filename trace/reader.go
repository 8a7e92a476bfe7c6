// Package trace reads memory access traces.
//
// A trace has one access per line: the access kind ("I" or "D"), then the
// address in hexadecimal, separated by whitespace.
//
//	I 8048000
//	D bfffe0c4
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/mem"
)

// Errors reported while reading a trace.
var (
	ErrOpen              = errors.New("unable to open the trace file")
	ErrMalformedLine     = errors.New("malformed trace line")
	ErrUnknownAccessKind = fmt.Errorf("%w: unknown access type", ErrMalformedLine)
	ErrMalformedAddress  = fmt.Errorf("%w: malformed address", ErrMalformedLine)
)

// A Source produces the accesses of a trace, one at a time. Once Next
// returns ok == false or an error, the source is exhausted.
type Source interface {
	Next() (access mem.Access, ok bool, err error)
}

// A Reader parses a trace from an io.Reader.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	done    bool
}

// NewReader creates a Reader that reads the trace from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
	}
}

// Line returns the number of the line that was read last.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next access of the trace. Blank lines are skipped.
func (r *Reader) Next() (mem.Access, bool, error) {
	if r.done {
		return mem.Access{}, false, nil
	}

	for r.scanner.Scan() {
		r.line++

		fields := strings.Fields(r.scanner.Text())
		if len(fields) == 0 {
			continue
		}

		access, err := parseFields(fields)
		if err != nil {
			r.done = true
			return mem.Access{}, false, fmt.Errorf("line %d: %w", r.line, err)
		}

		return access, true, nil
	}

	r.done = true

	if err := r.scanner.Err(); err != nil {
		return mem.Access{}, false, fmt.Errorf("reading trace: %w", err)
	}

	return mem.Access{}, false, nil
}

// ParseLine parses a single trace line.
func ParseLine(line string) (mem.Access, error) {
	return parseFields(strings.Fields(line))
}

func parseFields(fields []string) (mem.Access, error) {
	if len(fields) == 0 {
		return mem.Access{}, fmt.Errorf("%w %q", ErrUnknownAccessKind, "")
	}

	kind, ok := mem.ParseAccessKind(fields[0])
	if !ok {
		return mem.Access{}, fmt.Errorf("%w %q", ErrUnknownAccessKind, fields[0])
	}

	if len(fields) < 2 {
		return mem.Access{}, fmt.Errorf("%w: missing address", ErrMalformedAddress)
	}

	addr, err := parseAddress(fields[1])
	if err != nil {
		return mem.Access{}, err
	}

	return mem.Access{Kind: kind, Address: addr}, nil
}

func parseAddress(token string) (uint32, error) {
	digits := token
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
	}

	addr, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrMalformedAddress, token)
	}

	return uint32(addr), nil
}
