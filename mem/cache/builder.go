package cache

import "log/slog"

// Builder can build cache stores.
type Builder struct {
	capacity     uint32
	blockSize    uint32
	mapping      Mapping
	organization Organization
	logger       *slog.Logger
}

// MakeBuilder creates a builder with default parameter setting
func MakeBuilder() Builder {
	return Builder{
		capacity:     1024,
		blockSize:    DefaultBlockSize,
		mapping:      DirectMapped,
		organization: Unified,
	}
}

// WithConfig copies every field of cfg into the builder.
func (b Builder) WithConfig(cfg Config) Builder {
	b.capacity = cfg.Capacity
	b.blockSize = cfg.BlockSize
	b.mapping = cfg.Mapping
	b.organization = cfg.Organization

	return b
}

// WithCapacity sets the total number of bytes of the cache.
func (b Builder) WithCapacity(capacity uint32) Builder {
	b.capacity = capacity
	return b
}

// WithBlockSize sets the number of bytes in a cache line.
func (b Builder) WithBlockSize(blockSize uint32) Builder {
	b.blockSize = blockSize
	return b
}

// WithMapping sets the mapping of the cache.
func (b Builder) WithMapping(m Mapping) Builder {
	b.mapping = m
	return b
}

// WithOrganization sets whether instruction and data share the cache.
func (b Builder) WithOrganization(o Organization) Builder {
	b.organization = o
	return b
}

// WithLogger sets the logger that reports the derived parameters.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// Config returns the configuration the builder would build.
func (b Builder) Config() Config {
	return Config{
		Capacity:     b.capacity,
		BlockSize:    b.blockSize,
		Mapping:      b.mapping,
		Organization: b.organization,
	}
}

// Build validates the configuration and creates an empty store.
func (b Builder) Build() (*Store, error) {
	cfg := b.Config()

	g, err := DeriveGeometry(cfg)
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("cache store built",
		"capacity", cfg.Capacity,
		"mapping", cfg.Mapping.String(),
		"organization", cfg.Organization.String(),
		"blocks", g.NumBlocks,
		"offset_bits", g.Decoder.OffsetBits,
		"index_bits", g.Decoder.IndexBits,
		"tag_bits", g.Decoder.TagBits,
	)

	return newStore(cfg, g), nil
}
