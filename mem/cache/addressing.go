package cache

import "math/bits"

// AddressBits is the width of a traced address.
const AddressBits = 32

// A Decoder splits a 32-bit address into the block offset, the index, and the
// tag. The offset occupies the lowest bits, the tag the highest.
type Decoder struct {
	OffsetBits uint32
	IndexBits  uint32
	TagBits    uint32

	OffsetMask uint32
	IndexMask  uint32
	TagMask    uint32
}

// NewDecoder creates a decoder for the given field widths. The widths must
// not add up to more than 32; the tag takes all the remaining bits.
func NewDecoder(offsetBits, indexBits uint32) Decoder {
	d := Decoder{
		OffsetBits: offsetBits,
		IndexBits:  indexBits,
		TagBits:    AddressBits - offsetBits - indexBits,
	}

	d.OffsetMask = fieldMask(0, offsetBits)
	d.IndexMask = fieldMask(offsetBits, indexBits)
	d.TagMask = fieldMask(offsetBits+indexBits, d.TagBits)

	return d
}

// Decode returns the tag and the index of an address. The tag keeps its
// position in the address and is not shifted.
func (d Decoder) Decode(addr uint32) (tag, index uint32) {
	index = (addr & d.IndexMask) >> d.OffsetBits
	tag = addr & d.TagMask

	return tag, index
}

// Offset returns the position of the address inside its block.
func (d Decoder) Offset(addr uint32) uint32 {
	return addr & d.OffsetMask
}

func fieldMask(lowBit, width uint32) uint32 {
	if width == 0 {
		return 0
	}

	return uint32((uint64(1)<<width - 1) << lowBit)
}

// log2Floor returns floor(log2(n)) for n > 0.
func log2Floor(n uint32) uint32 {
	return uint32(bits.Len32(n) - 1)
}

// Geometry holds the parameters derived from a Config.
type Geometry struct {
	SubCacheSize uint32
	NumBlocks    uint32
	Decoder      Decoder
}

// DeriveGeometry validates cfg and computes the size of each logical cache
// and the address decoder. A fully-associative cache has no index bits.
func DeriveGeometry(cfg Config) (Geometry, error) {
	if err := cfg.Validate(); err != nil {
		return Geometry{}, err
	}

	numBlocks := cfg.NumBlocks()
	offsetBits := log2Floor(cfg.BlockSize)

	indexBits := uint32(0)
	if cfg.Mapping == DirectMapped {
		indexBits = log2Floor(numBlocks)
	}

	g := Geometry{
		SubCacheSize: cfg.SubCacheSize(),
		NumBlocks:    numBlocks,
		Decoder:      NewDecoder(offsetBits, indexBits),
	}

	return g, nil
}
