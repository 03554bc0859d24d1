package fasthist

import "log"

// Builder owns the node array, the working vector-set permutation, the DFS
// stack, and the histogram arena for a single Build call (spec §4.6, C6).
// A Builder instance may be reused across several Build calls: its
// reusable scratch buffers (the worker pool, and the per-thread histogram
// scratch allocated lazily in histogram.go) are cached across builds the way
// the original source's CThreadsBuffers is.
type Builder struct {
	params         Params
	newStats       NewStatsFunc
	logger         *log.Logger
	predictionSize int

	pool *workerPool

	problem  Problem
	idPos    []int
	histSize int
	arena    *arena

	nodes     []*node
	nodeStack []int
	vectorSet []int

	gradients, hessians, weights []float64

	// Reusable scratch for the parallel histogram build (histogram.go).
	threadHistScratch [][]Stats
}

// Build constructs a single regression tree from the given problem and
// per-row gradient/hessian/weight statistics (spec §6, "Build entry
// point"). gradients and hessians are flat, row-major over
// predictionSize outputs (row r's k-th output at r*predictionSize+k);
// weights is aligned to the row index space directly (one weight per
// row), or nil for unweighted rows.
func (b *Builder) Build(problem Problem, gradients, hessians []float64, weights []float64) *LinkedTree {
	assertf(len(gradients) == len(hessians), "len(gradients)=%d != len(hessians)=%d", len(gradients), len(hessians))

	if b.logger != nil {
		b.logger.Printf("Gradient boost fast hist tree building started")
	}

	b.problem = problem
	b.gradients, b.hessians, b.weights = gradients, hessians, weights
	b.idPos, b.histSize = idPositions(problem)
	b.arena = newArena(b.histSize, b.params.MaxTreeDepth, b.newStats, b.predictionSize)

	b.initVectorSet(problem.UsedVectorCount())

	root := newNode(0, 0, len(b.vectorSet))
	root.histPtr = b.arena.alloc()
	root.stats = b.newStats(b.predictionSize)
	b.buildHistogram(root)

	b.nodes = []*node{root}
	b.nodeStack = []int{0}

	for len(b.nodeStack) > 0 {
		idx := b.nodeStack[len(b.nodeStack)-1]
		b.nodeStack = b.nodeStack[:len(b.nodeStack)-1]
		b.expand(idx)
	}

	if b.logger != nil {
		b.logger.Printf("Gradient boost fast hist tree building finished")
	}

	if b.params.PruneCriterionValue != 0 {
		b.prune(0)
	}

	return b.emitTree(0)
}

// initVectorSet assigns every training vector to the root's range: the
// identity permutation (spec §4, initVectorSet).
func (b *Builder) initVectorSet(size int) {
	b.vectorSet = make([]int, size)
	for i := range b.vectorSet {
		b.vectorSet[i] = i
	}
}

// expand pops a node and either splits it or turns it into a leaf (spec
// §4.6, "Expansion").
func (b *Builder) expand(idx int) {
	n := b.nodes[idx]
	n.splitFeatureID = b.evaluateSplit(n)

	if n.splitFeatureID == NotFound {
		if b.logger != nil {
			b.logger.Printf("Split result: created const node.\t\tcriterion = %g",
				n.stats.CalcCriterion(b.params.L1RegFactor, b.params.L2RegFactor))
		}
		b.arena.release(n.histPtr)
		n.histPtr = NotFound
		return
	}

	if b.logger != nil {
		b.logger.Printf("Split result: index = %d threshold = %g, criterion = %g",
			b.problem.FeatureIndexes()[n.splitFeatureID],
			b.problem.FeatureCuts()[n.splitFeatureID],
			n.stats.CalcCriterion(b.params.L1RegFactor, b.params.L2RegFactor))
	}

	leftIdx, rightIdx := b.applySplit(idx)
	n.left, n.right = leftIdx, rightIdx
	b.nodeStack = append(b.nodeStack, leftIdx, rightIdx)

	left, right := b.nodes[leftIdx], b.nodes[rightIdx]
	left.stats = b.newStats(b.predictionSize)
	right.stats = b.newStats(b.predictionSize)

	// Build the smaller child's histogram, derive the other by
	// subtraction, reusing the parent's slot (spec §4.4, "Sibling by
	// subtraction").
	if left.vecSize < right.vecSize {
		left.histPtr = b.arena.alloc()
		b.buildHistogram(left)
		b.arena.sub(n.histPtr, left.histPtr)
		right.histPtr = n.histPtr
		right.stats.Add(n.stats)
		right.stats.Sub(left.stats)
	} else {
		right.histPtr = b.arena.alloc()
		b.buildHistogram(right)
		b.arena.sub(n.histPtr, right.histPtr)
		left.histPtr = n.histPtr
		left.stats.Add(n.stats)
		left.stats.Sub(right.stats)
	}
	left.stats.NullifyLeafClasses(n.leftStats)
	right.stats.NullifyLeafClasses(n.rightStats)
}
