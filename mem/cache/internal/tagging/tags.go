// Package tagging keeps the tag state of a logical cache.
package tagging

// A Block of a cache is the information that is associated with a cache line
type Block struct {
	Tag     uint32
	IsValid bool
}

// A TagArray is the ordered list of blocks that belong to one logical cache.
// Slot 0 is the first slot.
type TagArray struct {
	blocks []Block
}

// NewTagArray creates a tag array with numBlocks invalid blocks.
func NewTagArray(numBlocks int) *TagArray {
	t := &TagArray{
		blocks: make([]Block, numBlocks),
	}

	return t
}

// NumBlocks returns the number of slots in the array.
func (t *TagArray) NumBlocks() int {
	return len(t.blocks)
}

// Block returns the block stored at slot.
func (t *TagArray) Block(slot int) Block {
	return t.blocks[slot]
}

// Match checks if the slot holds a valid block with the given tag.
func (t *TagArray) Match(slot int, tag uint32) bool {
	b := t.blocks[slot]
	return b.IsValid && b.Tag == tag
}

// Update stores tag at slot and marks the block valid.
func (t *TagArray) Update(slot int, tag uint32) {
	t.blocks[slot] = Block{Tag: tag, IsValid: true}
}

// Lookup scans the slots from slot 0 and returns the first slot that holds a
// valid block with the given tag.
func (t *TagArray) Lookup(tag uint32) (slot int, found bool) {
	for i := range t.blocks {
		if t.Match(i, tag) {
			return i, true
		}
	}

	return -1, false
}

// Push moves every block one slot toward the end of the array and stores tag
// in slot 0. The block in the last slot is dropped. Existing copies of tag
// are left in place.
func (t *TagArray) Push(tag uint32) {
	if len(t.blocks) == 0 {
		return
	}

	for i := len(t.blocks) - 2; i >= 0; i-- {
		t.blocks[i+1] = t.blocks[i]
	}

	t.blocks[0] = Block{Tag: tag, IsValid: true}
}

// Blocks returns a copy of all the blocks in slot order.
func (t *TagArray) Blocks() []Block {
	blocks := make([]Block, len(t.blocks))
	copy(blocks, t.blocks)

	return blocks
}

// Reset will mark all the blocks in the array invalid
func (t *TagArray) Reset() {
	for i := range t.blocks {
		t.blocks[i] = Block{}
	}
}
