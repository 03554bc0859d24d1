package fasthist

import "sort"

// applySplit partitions node idx's vector range in place according to its
// chosen split, creating two new nodes with contiguous sub-ranges (spec
// §4.6, "In-place partition"). It follows the original source's exact
// binary-search target (the upper bound of the feature's last bin id,
// GradientBoostFastHistTreeBuilder.cpp lines 394-425) rather than the
// looser prose in spec §4.6, per the rule that original_source resolves
// ambiguity.
func (b *Builder) applySplit(idx int) (leftIdx, rightIdx int) {
	n := b.nodes[idx]
	featureIndexes := b.problem.FeatureIndexes()
	nullID := b.problem.FeatureNullValueID()
	pos := b.problem.FeaturePos()

	featureIndex := featureIndexes[n.splitFeatureID]
	nextID := pos[featureIndex+1] - 1

	threadCount := b.params.ThreadCount
	b.pool.Run(func(threadID int) {
		for i := threadID; i < n.vecSize; i += threadCount {
			slot := n.vecPtr + i
			row := b.vectorSet[slot]
			binIDs := b.problem.VectorBinIDs(row)

			effectiveID := nullID[featureIndex]
			// Upper bound of nextID: first index with binIDs[i] > nextID.
			p := sort.Search(len(binIDs), func(k int) bool { return binIDs[k] > nextID })
			if p > 0 && featureIndexes[binIDs[p-1]] == featureIndex {
				effectiveID = binIDs[p-1]
			}

			if effectiveID <= n.splitFeatureID {
				// Mark as left-bound using the sign-bit trick (spec §9,
				// "Negative-index marking during partition").
				b.vectorSet[slot] = -(row + 1)
			}
		}
	})

	left, right := n.vecPtr, n.vecPtr+n.vecSize-1
	for left <= right {
		if b.vectorSet[left] < 0 {
			b.vectorSet[left] = -b.vectorSet[left] - 1
			left++
			continue
		}
		if b.vectorSet[right] >= 0 {
			right--
			continue
		}
		b.vectorSet[left], b.vectorSet[right] = b.vectorSet[right], b.vectorSet[left]
	}

	leftCount := left - n.vecPtr
	assertf(leftCount > 0, "split produced an empty left child")
	assertf(n.vecSize-leftCount > 0, "split produced an empty right child")

	b.nodes = append(b.nodes, newNode(n.level+1, n.vecPtr, leftCount))
	leftIdx = len(b.nodes) - 1
	b.nodes = append(b.nodes, newNode(n.level+1, n.vecPtr+leftCount, n.vecSize-leftCount))
	rightIdx = len(b.nodes) - 1
	return leftIdx, rightIdx
}
