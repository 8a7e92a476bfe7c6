package cache

import "github.com/sarchlab/cachesim/mem/cache/internal/tagging"

// A placement looks a tag up in a logical cache and installs it.
type placement interface {
	lookupAndUpdate(tags *tagging.TagArray, tag, index uint32) bool
}

// directMapped has one candidate slot per index. The slot is rewritten on
// every access.
type directMapped struct{}

func (directMapped) lookupAndUpdate(
	tags *tagging.TagArray,
	tag, index uint32,
) bool {
	slot := int(index)
	hit := tags.Match(slot, tag)
	tags.Update(slot, tag)

	return hit
}

// fullyAssociative lets a tag live in any slot and replaces in FIFO order.
//
// The tag is pushed to the front on every access, hits included. A hit
// therefore leaves an older copy of the tag behind, which ages out like any
// other entry.
type fullyAssociative struct{}

func (fullyAssociative) lookupAndUpdate(
	tags *tagging.TagArray,
	tag, _ uint32,
) bool {
	_, hit := tags.Lookup(tag)
	tags.Push(tag)

	return hit
}

func newPlacement(m Mapping) placement {
	switch m {
	case DirectMapped:
		return directMapped{}
	case FullyAssociative:
		return fullyAssociative{}
	default:
		panic("unknown mapping: " + m.String())
	}
}
