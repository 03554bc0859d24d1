package fasthist

// buildHistogram populates node's histogram from its vector subset,
// accumulating node.stats as a side effect (spec §4.4, C4). It chooses the
// sequential or the parallel path depending on how many vectors the node
// owns relative to the thread count.
func (b *Builder) buildHistogram(n *node) {
	hist := b.arena.hist(n.histPtr)
	for i := range hist {
		hist[i].Erase()
	}
	n.stats.Erase()

	threadCount := b.params.ThreadCount
	if n.vecSize <= 4*threadCount {
		b.buildHistogramSequential(n, hist)
	} else {
		b.buildHistogramParallel(n, hist, threadCount)
	}

	b.foldInNullValues(hist, n.stats)
}

// buildHistogramSequential is the single-threaded accumulation path, used
// when the node's vector set is small relative to the thread count.
func (b *Builder) buildHistogramSequential(n *node, hist []Stats) {
	for i := 0; i < n.vecSize; i++ {
		vectorIndex := b.vectorSet[n.vecPtr+i]
		b.addVectorToHist(hist, vectorIndex)
		n.stats.AddRow(b.gradients, b.hessians, b.weights, vectorIndex)
	}
}

// buildHistogramParallel is the fork-join accumulation path: each worker
// owns a private histogram and a private total accumulator, striding over
// the node's rows, followed by a deterministic, thread-id-ordered
// reduction (spec §4.4 / §5).
func (b *Builder) buildHistogramParallel(n *node, hist []Stats, threadCount int) {
	threadTotals := make([]Stats, threadCount)
	for t := 0; t < threadCount; t++ {
		threadTotals[t] = b.newStats(b.predictionSize)
	}
	if len(b.threadHistScratch) != threadCount || len(b.threadHistScratch[0]) != b.histSize {
		b.threadHistScratch = make([][]Stats, threadCount)
		for t := range b.threadHistScratch {
			b.threadHistScratch[t] = make([]Stats, b.histSize)
			for i := range b.threadHistScratch[t] {
				b.threadHistScratch[t][i] = b.newStats(b.predictionSize)
			}
		}
	}
	threadHists := b.threadHistScratch

	b.pool.Run(func(threadID int) {
		localHist := threadHists[threadID]
		for i := range localHist {
			localHist[i].Erase()
		}
		localTotal := threadTotals[threadID]
		for i := threadID; i < n.vecSize; i += threadCount {
			vectorIndex := b.vectorSet[n.vecPtr+i]
			b.addVectorToHist(localHist, vectorIndex)
			localTotal.AddRow(b.gradients, b.hessians, b.weights, vectorIndex)
		}
	})

	// Reduce per-thread totals in thread-id order: deterministic
	// regardless of goroutine scheduling (spec §5).
	for t := 0; t < threadCount; t++ {
		n.stats.Add(threadTotals[t])
	}

	// Reduce per-thread histograms, parallelized across bins.
	b.pool.Run(func(threadID int) {
		for bin := threadID; bin < b.histSize; bin += threadCount {
			for t := 0; t < threadCount; t++ {
				hist[bin].Add(threadHists[t][bin])
			}
		}
	})
}

// addVectorToHist adds one training row's contribution to every bin its
// sparse bin-id list touches (spec §4.4, addVectorToHist).
func (b *Builder) addVectorToHist(hist []Stats, vectorIndex int) {
	for _, bin := range b.problem.VectorBinIDs(vectorIndex) {
		slot := b.idPos[bin]
		if slot != NotFound {
			hist[slot].AddRow(b.gradients, b.hessians, b.weights, vectorIndex)
		}
	}
}

// foldInNullValues accounts for rows that never listed an explicit bin
// for a used feature (spec §4.4, "Null-value fold-in"): for each such
// feature, the rows implicitly at the null value are exactly those not
// already counted under one of the feature's explicit bins.
func (b *Builder) foldInNullValues(hist []Stats, total Stats) {
	pos := b.problem.FeaturePos()
	nullID := b.problem.FeatureNullValueID()

	for _, feature := range b.problem.UsedFeatures() {
		nullStats := total.Clone()
		for bin := pos[feature]; bin < pos[feature+1]; bin++ {
			nullStats.Sub(hist[b.idPos[bin]])
		}
		hist[b.idPos[nullID[feature]]].Add(nullStats)
	}
}
