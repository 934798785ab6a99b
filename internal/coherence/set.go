package coherence

// Set is a fixed-associativity, LRU-ordered sequence of blocks. Index 0 is
// the LRU end, the last index is the MRU end. Invalid blocks are always
// kept nearer the LRU end than any valid block, so eviction never takes a
// valid line while an empty slot remains (§3, §4.1).
type Set struct {
	blocks []Block
}

// NewSet returns a Set of exactly ways blocks, all initially Invalid.
func NewSet(ways int) *Set {
	s := &Set{blocks: make([]Block, ways)}
	for i := range s.blocks {
		s.blocks[i] = Block{Tag: 0, State: Invalid}
	}
	return s
}

// StateOf returns the state of the valid block with the given tag, or
// Invalid if no valid block in the set carries that tag.
func (s *Set) StateOf(tag uint64) BlockState {
	for _, b := range s.blocks {
		if b.State != Invalid && b.Tag == tag {
			return b.State
		}
	}
	return Invalid
}

// indexOfValid returns the index of the valid block with the given tag, or
// -1 if none matches.
func (s *Set) indexOfValid(tag uint64) int {
	for i, b := range s.blocks {
		if b.State != Invalid && b.Tag == tag {
			return i
		}
	}
	return -1
}

// removeAt deletes the block at index i, shifting the remainder left.
func (s *Set) removeAt(i int) Block {
	b := s.blocks[i]
	s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
	return b
}

// MoveToMRU relocates the valid block with the given tag to the MRU end.
// No-op if the tag isn't present.
func (s *Set) MoveToMRU(tag uint64) {
	i := s.indexOfValid(tag)
	if i < 0 {
		return
	}
	b := s.removeAt(i)
	s.blocks = append(s.blocks, b)
}

// SetState updates the state of the valid block with the given tag. A
// transition to Invalid additionally clears the tag and relocates the
// block to the LRU end, so it becomes the next eviction victim; any other
// transition updates the state in place without changing position.
func (s *Set) SetState(tag uint64, state BlockState) {
	i := s.indexOfValid(tag)
	if i < 0 {
		return
	}
	if state == Invalid {
		s.removeAt(i)
		s.blocks = append([]Block{{Tag: 0, State: Invalid}}, s.blocks...)
		return
	}
	s.blocks[i].State = state
}

// Insert evicts the current LRU block (always the front, by the
// invalid-at-LRU invariant) and appends newBlock at the MRU end. It panics
// if a valid block with newBlock's tag is already present.
func (s *Set) Insert(newBlock Block) (evicted Block) {
	if s.indexOfValid(newBlock.Tag) >= 0 {
		panic("coherence: Set.Insert of a tag already valid in the set")
	}
	evicted = s.blocks[0]
	s.blocks = append(s.blocks[1:], newBlock)
	return evicted
}

// Contents returns the set's blocks in LRU-to-MRU order. The caller must
// not mutate the returned slice's backing array.
func (s *Set) Contents() []Block {
	return s.blocks
}
