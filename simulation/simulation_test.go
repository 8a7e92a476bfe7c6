package simulation

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cachesim/mem"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/trace"
)

func expectAccesses(src *MockSource, accesses ...mem.Access) {
	calls := make([]any, 0, len(accesses)+1)
	for _, a := range accesses {
		calls = append(calls, src.EXPECT().Next().Return(a, true, nil))
	}
	calls = append(calls, src.EXPECT().Next().Return(mem.Access{}, false, nil))

	gomock.InOrder(calls...)
}

func buildStore(capacity uint32, m cache.Mapping, o cache.Organization) *cache.Store {
	store, err := cache.MakeBuilder().
		WithCapacity(capacity).
		WithMapping(m).
		WithOrganization(o).
		Build()
	Expect(err).NotTo(HaveOccurred())

	return store
}

var _ = Describe("Simulator", func() {
	var (
		mockCtrl  *gomock.Controller
		src       *MockSource
		store     *cache.Store
		simulator *Simulator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		src = NewMockSource(mockCtrl)
		store = buildStore(1024, cache.DirectMapped, cache.Unified)

		var err error
		simulator, err = MakeBuilder().WithStore(store).Build()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should require a store", func() {
		s, err := MakeBuilder().Build()

		Expect(s).To(BeNil())
		Expect(err).To(HaveOccurred())
	})

	It("should give every simulator a unique ID", func() {
		other, err := MakeBuilder().WithStore(store).Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(simulator.ID()).NotTo(BeEmpty())
		Expect(other.ID()).NotTo(Equal(simulator.ID()))
	})

	It("should take run IDs from the ID generator", func() {
		ids := sim.NewSequentialIDGenerator()
		b := MakeBuilder().WithStore(store).WithIDGenerator(ids)

		first, err := b.Build()
		Expect(err).NotTo(HaveOccurred())
		second, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(first.ID()).To(Equal("1"))
		Expect(second.ID()).To(Equal("2"))
	})

	It("should report zero statistics for an empty trace", func() {
		expectAccesses(src)

		stats, err := simulator.Run(src)

		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Accesses).To(BeZero())
		Expect(stats.Hits).To(BeZero())
		Expect(stats.HitRate()).To(BeZero())
	})

	It("should simulate the accesses until the source is exhausted", func() {
		expectAccesses(src,
			mem.Access{Kind: mem.Instruction, Address: 0x0},
			mem.Access{Kind: mem.Instruction, Address: 0x400},
			mem.Access{Kind: mem.Instruction, Address: 0x0},
			mem.Access{Kind: mem.Data, Address: 0x0},
		)

		stats, err := simulator.Run(src)

		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Accesses).To(Equal(uint64(4)))
		Expect(stats.Hits).To(Equal(uint64(1)))
		Expect(stats.Misses()).To(Equal(uint64(3)))
		Expect(stats.KindAccesses).To(Equal([2]uint64{3, 1}))
		Expect(stats.KindHits).To(Equal([2]uint64{0, 1}))
		Expect(stats.HitRate()).To(BeNumerically("~", 0.25))
		Expect(stats.KindHitRate(mem.Data)).To(BeNumerically("~", 1.0))
		Expect(simulator.Statistics()).To(Equal(stats))
	})

	It("should stop and discard statistics when the source fails", func() {
		failure := errors.New("bad line")
		gomock.InOrder(
			src.EXPECT().Next().
				Return(mem.Access{Kind: mem.Data, Address: 0x40}, true, nil),
			src.EXPECT().Next().Return(mem.Access{}, false, failure),
		)

		stats, err := simulator.Run(src)

		Expect(err).To(MatchError(failure))
		Expect(stats).To(BeZero())
	})

	It("should invoke hooks after every access and at the end", func() {
		hook := NewMockHook(mockCtrl)
		simulator.AcceptHook(hook)

		expectAccesses(src,
			mem.Access{Kind: mem.Data, Address: 0x1040},
			mem.Access{Kind: mem.Data, Address: 0x1040},
		)

		var results []AccessResult
		var final Statistics
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx sim.HookCtx) {
			Expect(ctx.Domain).To(BeIdenticalTo(simulator))

			switch ctx.Pos {
			case HookPosAccess:
				results = append(results, ctx.Item.(AccessResult))
			case HookPosRunEnd:
				final = ctx.Item.(Statistics)
			default:
				Fail("unexpected hook position " + ctx.Pos.Name)
			}
		}).Times(3)

		_, err := simulator.Run(src)

		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(Equal([]AccessResult{
			{
				Seq:    1,
				Access: mem.Access{Kind: mem.Data, Address: 0x1040},
				Tag:    0x1000,
				Index:  1,
				Hit:    false,
			},
			{
				Seq:    2,
				Access: mem.Access{Kind: mem.Data, Address: 0x1040},
				Tag:    0x1000,
				Index:  1,
				Hit:    true,
			},
		}))
		Expect(final.Accesses).To(Equal(uint64(2)))
		Expect(final.Hits).To(Equal(uint64(1)))
	})

	It("should not invoke the end hook when the source fails", func() {
		hook := NewMockHook(mockCtrl)
		simulator.AcceptHook(hook)

		src.EXPECT().Next().Return(mem.Access{}, false, errors.New("broken"))

		_, err := simulator.Run(src)

		Expect(err).To(HaveOccurred())
	})

	It("should register hooks given to the builder", func() {
		hook := NewMockHook(mockCtrl)
		s, err := MakeBuilder().WithStore(store).WithHook(hook).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.NumHooks()).To(Equal(1))

		hook.EXPECT().Func(gomock.Any()).Times(1)

		s.Step(mem.Access{Kind: mem.Instruction, Address: 0x80})
	})

	It("should never count more hits than accesses", func() {
		fa := buildStore(256, cache.FullyAssociative, cache.Split)
		s, err := MakeBuilder().WithStore(fa).Build()
		Expect(err).NotTo(HaveOccurred())

		addrs := []uint32{0x40, 0x40, 0x80, 0xc0, 0x40, 0x100, 0x40, 0x40}
		for i, addr := range addrs {
			kind := mem.Instruction
			if i%3 == 0 {
				kind = mem.Data
			}

			s.Step(mem.Access{Kind: kind, Address: addr})

			stats := s.Statistics()
			Expect(stats.Hits).To(BeNumerically("<=", stats.Accesses))
			Expect(stats.KindAccesses[0] + stats.KindAccesses[1]).
				To(Equal(stats.Accesses))
			Expect(stats.KindHits[0] + stats.KindHits[1]).To(Equal(stats.Hits))
		}
	})

	Context("with a trace", func() {
		run := func(
			capacity uint32,
			m cache.Mapping,
			o cache.Organization,
			text string,
		) []bool {
			s, err := MakeBuilder().
				WithStore(buildStore(capacity, m, o)).
				Build()
			Expect(err).NotTo(HaveOccurred())

			var hits []bool
			s.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
				if ctx.Pos == HookPosAccess {
					hits = append(hits, ctx.Item.(AccessResult).Hit)
				}
			}))

			_, err = s.Run(trace.NewReader(strings.NewReader(text)))
			Expect(err).NotTo(HaveOccurred())

			return hits
		}

		It("should evict 0x0 with 0x400 in a 1024-byte direct-mapped cache",
			func() {
				hits := run(1024, cache.DirectMapped, cache.Unified,
					"I 0x0\nI 0x400\nI 0x0\n")

				Expect(hits).To(Equal([]bool{false, false, false}))
			})

		It("should keep 0x0 and 0x400 in a fully-associative cache", func() {
			hits := run(1024, cache.FullyAssociative, cache.Unified,
				"I 0x0\nI 0x400\nI 0x0\n")

			Expect(hits).To(Equal([]bool{false, false, true}))
		})

		It("should miss on the first I and D access when split", func() {
			hits := run(1024, cache.DirectMapped, cache.Split,
				"I 80\nD 80\nI 80\nD 80\n")

			Expect(hits).To(Equal([]bool{false, false, true, true}))
		})
	})
})
