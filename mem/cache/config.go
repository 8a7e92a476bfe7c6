package cache

import (
	"errors"
	"fmt"
)

// DefaultBlockSize is the number of bytes in a cache line.
const DefaultBlockSize = 64

// ErrInvalidConfig is returned when a cache configuration cannot be
// partitioned into whole, power-of-two sized logical caches.
var ErrInvalidConfig = errors.New("invalid cache configuration")

// Mapping decides where a memory block may be placed in a logical cache.
type Mapping int

// Supported mappings.
const (
	DirectMapped Mapping = iota
	FullyAssociative
)

// String returns the command-line token of the mapping.
func (m Mapping) String() string {
	switch m {
	case DirectMapped:
		return "dm"
	case FullyAssociative:
		return "fa"
	default:
		return fmt.Sprintf("Mapping(%d)", int(m))
	}
}

// ParseMapping converts "dm" or "fa" into a Mapping.
func ParseMapping(token string) (Mapping, bool) {
	switch token {
	case "dm":
		return DirectMapped, true
	case "fa":
		return FullyAssociative, true
	default:
		return 0, false
	}
}

// Organization decides whether instruction and data accesses share storage.
type Organization int

// Supported organizations.
const (
	Unified Organization = iota
	Split
)

// String returns the command-line token of the organization.
func (o Organization) String() string {
	switch o {
	case Unified:
		return "uc"
	case Split:
		return "sc"
	default:
		return fmt.Sprintf("Organization(%d)", int(o))
	}
}

// ParseOrganization converts "uc" or "sc" into an Organization.
func ParseOrganization(token string) (Organization, bool) {
	switch token {
	case "uc":
		return Unified, true
	case "sc":
		return Split, true
	default:
		return 0, false
	}
}

// Config describes the cache that is simulated. It does not change after the
// simulation starts.
type Config struct {
	Capacity     uint32
	BlockSize    uint32
	Mapping      Mapping
	Organization Organization
}

// SubCacheSize returns the number of bytes of one logical cache.
func (c Config) SubCacheSize() uint32 {
	if c.Organization == Split {
		return c.Capacity / 2
	}

	return c.Capacity
}

// NumBlocks returns the number of blocks in one logical cache.
func (c Config) NumBlocks() uint32 {
	if c.BlockSize == 0 {
		return 0
	}

	return c.SubCacheSize() / c.BlockSize
}

// Validate checks that the configuration describes a cache whose address
// fields partition a 32-bit address exactly.
func (c Config) Validate() error {
	switch c.Mapping {
	case DirectMapped, FullyAssociative:
	default:
		return fmt.Errorf("%w: unknown mapping %s", ErrInvalidConfig, c.Mapping)
	}

	switch c.Organization {
	case Unified, Split:
	default:
		return fmt.Errorf("%w: unknown organization %s",
			ErrInvalidConfig, c.Organization)
	}

	if !isPowerOfTwo(c.BlockSize) {
		return fmt.Errorf("%w: block size %d is not a power of two",
			ErrInvalidConfig, c.BlockSize)
	}

	if c.Capacity == 0 {
		return fmt.Errorf("%w: cache size must be positive", ErrInvalidConfig)
	}

	if c.Capacity%c.BlockSize != 0 {
		return fmt.Errorf("%w: cache size %d is not a multiple of block size %d",
			ErrInvalidConfig, c.Capacity, c.BlockSize)
	}

	if c.Organization == Split &&
		(c.Capacity%2 != 0 || c.SubCacheSize()%c.BlockSize != 0) {
		return fmt.Errorf(
			"%w: split cache half %d is not a multiple of block size %d",
			ErrInvalidConfig, c.Capacity/2, c.BlockSize)
	}

	if !isPowerOfTwo(c.NumBlocks()) {
		return fmt.Errorf("%w: number of blocks %d is not a power of two",
			ErrInvalidConfig, c.NumBlocks())
	}

	return nil
}

func isPowerOfTwo(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}
