package simulation

import "github.com/sarchlab/cachesim/mem"

// Statistics counts the accesses of a run and how many of them hit.
type Statistics struct {
	Accesses uint64
	Hits     uint64

	KindAccesses [mem.NumAccessKinds]uint64
	KindHits     [mem.NumAccessKinds]uint64
}

func (s *Statistics) record(kind mem.AccessKind, hit bool) {
	s.Accesses++
	s.KindAccesses[kind]++

	if hit {
		s.Hits++
		s.KindHits[kind]++
	}
}

// Misses returns the number of accesses that missed.
func (s Statistics) Misses() uint64 {
	return s.Accesses - s.Hits
}

// HitRate returns hits / accesses, or 0 if there was no access.
func (s Statistics) HitRate() float64 {
	return ratio(s.Hits, s.Accesses)
}

// KindHitRate returns the hit rate of one access kind, or 0 if there was no
// access of that kind.
func (s Statistics) KindHitRate(kind mem.AccessKind) float64 {
	return ratio(s.KindHits[kind], s.KindAccesses[kind])
}

func ratio(hits, accesses uint64) float64 {
	if accesses == 0 {
		return 0
	}

	return float64(hits) / float64(accesses)
}
