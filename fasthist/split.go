package fasthist

// evaluateSplit scans every (feature, cut) candidate in parallel and
// returns the bin id of the best split, or NotFound if the node should
// become a leaf (spec §4.5, C5).
func (b *Builder) evaluateSplit(n *node) int {
	if n.level >= b.params.MaxTreeDepth {
		return NotFound
	}
	if b.params.MaxNodesCount != NotFound && len(b.nodes)+2 > b.params.MaxNodesCount {
		return NotFound
	}

	parentCriterion := n.stats.CalcCriterion(b.params.L1RegFactor, b.params.L2RegFactor)
	hist := b.arena.hist(n.histPtr)
	usedFeatures := b.problem.UsedFeatures()
	pos := b.problem.FeaturePos()
	threadCount := b.params.ThreadCount

	threadBestGain := make([]float64, threadCount)
	threadBestBin := make([]int, threadCount)
	threadLeftCandidate := make([]Stats, threadCount)
	threadRightCandidate := make([]Stats, threadCount)
	for t := 0; t < threadCount; t++ {
		threadBestGain[t] = parentCriterion
		threadBestBin[t] = NotFound
	}

	b.pool.Run(func(threadID int) {
		for i := threadID; i < len(usedFeatures); i += threadCount {
			feature := usedFeatures[i]
			left := b.newStats(b.predictionSize)

			for bin := pos[feature]; bin < pos[feature+1]; bin++ {
				left.Add(hist[b.idPos[bin]])
				right := n.stats.Clone()
				right.Sub(left)

				var criterion float64
				if !calcSplitCriterion(&criterion, left, right, n.stats,
					b.params.L1RegFactor, b.params.L2RegFactor,
					b.params.MinSubsetHessian, b.params.MinSubsetWeight,
					b.params.DenseTreeBoostCoefficient) {
					continue
				}

				if threadBestGain[threadID] < criterion {
					threadBestGain[threadID] = criterion
					threadBestBin[threadID] = bin
					threadLeftCandidate[threadID] = left.Clone()
					threadRightCandidate[threadID] = right
				}
			}
		}
	})

	bestValue := parentCriterion
	result := NotFound
	for t := 0; t < threadCount; t++ {
		if bestValue < threadBestGain[t] || (bestValue == threadBestGain[t] && threadBestBin[t] < result) {
			if threadBestBin[t] == NotFound {
				continue
			}
			bestValue = threadBestGain[t]
			result = threadBestBin[t]
			n.leftStats = threadLeftCandidate[t]
			n.rightStats = threadRightCandidate[t]
		}
	}
	return result
}
