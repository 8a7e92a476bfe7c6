package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	It("should parse mapping tokens", func() {
		m, ok := ParseMapping("dm")
		Expect(ok).To(BeTrue())
		Expect(m).To(Equal(DirectMapped))

		m, ok = ParseMapping("fa")
		Expect(ok).To(BeTrue())
		Expect(m).To(Equal(FullyAssociative))

		_, ok = ParseMapping("sa")
		Expect(ok).To(BeFalse())
	})

	It("should parse organization tokens", func() {
		o, ok := ParseOrganization("uc")
		Expect(ok).To(BeTrue())
		Expect(o).To(Equal(Unified))

		o, ok = ParseOrganization("sc")
		Expect(ok).To(BeTrue())
		Expect(o).To(Equal(Split))

		_, ok = ParseOrganization("UC")
		Expect(ok).To(BeFalse())
	})

	It("should print tokens", func() {
		Expect(DirectMapped.String()).To(Equal("dm"))
		Expect(FullyAssociative.String()).To(Equal("fa"))
		Expect(Unified.String()).To(Equal("uc"))
		Expect(Split.String()).To(Equal("sc"))
	})

	It("should halve the logical cache when split", func() {
		cfg := Config{
			Capacity:     4096,
			BlockSize:    64,
			Organization: Split,
		}

		Expect(cfg.SubCacheSize()).To(Equal(uint32(2048)))
		Expect(cfg.NumBlocks()).To(Equal(uint32(32)))
	})

	DescribeTable("valid configurations",
		func(capacity uint32, m Mapping, o Organization) {
			cfg := Config{
				Capacity:     capacity,
				BlockSize:    DefaultBlockSize,
				Mapping:      m,
				Organization: o,
			}
			Expect(cfg.Validate()).To(Succeed())
		},
		Entry("128 dm uc", uint32(128), DirectMapped, Unified),
		Entry("128 fa sc", uint32(128), FullyAssociative, Split),
		Entry("1024 dm uc", uint32(1024), DirectMapped, Unified),
		Entry("4096 fa sc", uint32(4096), FullyAssociative, Split),
		Entry("64 dm uc", uint32(64), DirectMapped, Unified),
	)

	DescribeTable("invalid configurations",
		func(cfg Config) {
			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err).To(MatchError(ErrInvalidConfig))
		},
		Entry("zero capacity",
			Config{Capacity: 0, BlockSize: 64}),
		Entry("not a multiple of block size",
			Config{Capacity: 100, BlockSize: 64}),
		Entry("split half smaller than a block",
			Config{Capacity: 64, BlockSize: 64, Organization: Split}),
		Entry("split half not a multiple of block size",
			Config{Capacity: 192, BlockSize: 64, Organization: Split}),
		Entry("block count not a power of two",
			Config{Capacity: 192, BlockSize: 64}),
		Entry("block size not a power of two",
			Config{Capacity: 960, BlockSize: 60}),
		Entry("unknown mapping",
			Config{Capacity: 1024, BlockSize: 64, Mapping: Mapping(5)}),
		Entry("unknown organization",
			Config{Capacity: 1024, BlockSize: 64, Organization: Organization(5)}),
	)
})
