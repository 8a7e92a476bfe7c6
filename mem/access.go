// Package mem defines the memory accesses that drive the cache model.
package mem

import "fmt"

// AccessKind tells whether an access fetches an instruction or reads/writes
// data.
type AccessKind int

// Kinds of memory accesses that a trace can contain.
const (
	Instruction AccessKind = iota
	Data
)

// NumAccessKinds is the number of distinct access kinds.
const NumAccessKinds = 2

// String returns the trace token of the access kind ("I" or "D").
func (k AccessKind) String() string {
	switch k {
	case Instruction:
		return "I"
	case Data:
		return "D"
	default:
		return fmt.Sprintf("AccessKind(%d)", int(k))
	}
}

// ParseAccessKind converts a trace token into an AccessKind.
func ParseAccessKind(token string) (AccessKind, bool) {
	switch token {
	case "I":
		return Instruction, true
	case "D":
		return Data, true
	default:
		return 0, false
	}
}

// An Access is a single memory access replayed from a trace.
type Access struct {
	Kind    AccessKind
	Address uint32
}

// String formats the access the same way a trace line is written, with the
// address in lowercase hex without prefix.
func (a Access) String() string {
	return fmt.Sprintf("%s %x", a.Kind, a.Address)
}
