package fasthist

// arena is the fixed-size pool of histograms indexed by integer offsets
// (spec §4.2, C2). A histogram is histSize consecutive Stats slots; it is
// identified by the offset of its first slot. Allocation and release are
// O(1): a free list of the maxDepth+1 possible offsets.
//
// The arena is only ever touched from the single driver thread that owns
// the Builder (spec §5); no locking is needed.
type arena struct {
	histSize int
	slots    []Stats
	free     []int
}

// newArena allocates maxDepth+1 histogram blocks of histSize Stats slots
// each, freshly minted via newStats, and seeds the free list with their
// offsets in ascending order (matching initHistData's freeHists.Add loop).
func newArena(histSize, maxDepth int, newStats NewStatsFunc, predictionSize int) *arena {
	total := histSize * (maxDepth + 1)
	slots := make([]Stats, total)
	for i := range slots {
		slots[i] = newStats(predictionSize)
	}

	free := make([]int, maxDepth+1)
	for i := range free {
		free[i] = i * histSize
	}

	return &arena{histSize: histSize, slots: slots, free: free}
}

// alloc pops and returns a free histogram offset.
func (a *arena) alloc() int {
	assertf(len(a.free) > 0, "histogram arena exhausted: free list is empty, arena sizing is wrong")
	offset := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]
	return offset
}

// release returns a histogram offset to the free list.
func (a *arena) release(offset int) {
	a.free = append(a.free, offset)
}

// hist returns the histSize Stats slots starting at offset.
func (a *arena) hist(offset int) []Stats {
	return a.slots[offset : offset+a.histSize]
}

// sub subtracts the histogram at secondOffset from the histogram at
// firstOffset, in place, bin by bin: histStats[first+i].Sub(histStats[second+i]).
func (a *arena) sub(firstOffset, secondOffset int) {
	first := a.hist(firstOffset)
	second := a.hist(secondOffset)
	for i := range first {
		first[i].Sub(second[i])
	}
}

// freeCount reports how many histogram offsets are currently unused; used
// by tests to check invariant 3 of spec §8 (the free list, at the end of
// Build, holds exactly MaxDepth+1 distinct offsets).
func (a *arena) freeCount() int {
	return len(a.free)
}
