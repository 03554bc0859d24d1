package fasthist

// Problem is the read-only accessor to the binned dataset (spec §4.3, C3).
// All methods are pure and constant for the duration of a Build.
//
// Bin ids are global integers: feature f owns the half-open range
// [FeaturePos()[f], FeaturePos()[f+1]) of bin ids, ascending by cut
// threshold, with FeatureNullValueID()[f] a distinguished id inside that
// range standing for "value absent". A vector's bin ids are listed only
// for features it has an explicit value for; the null-value id must never
// appear explicitly in a vector's list (spec §9's open question on
// null-bin double counting — this package documents the precondition
// rather than checking it at runtime, matching the original source).
type Problem interface {
	// UsedVectorCount is the number of training vectors participating in
	// this Build.
	UsedVectorCount() int

	// VectorBinIDs returns the ascending, sparse list of bin ids set for
	// vector vectorIndex.
	VectorBinIDs(vectorIndex int) []int

	// UsedFeatures returns the sorted list of feature indices that have
	// at least one bin.
	UsedFeatures() []int

	// FeaturePos returns pos such that feature f owns bin ids
	// [pos[f], pos[f+1]). Indexed directly by feature index (not by
	// position within UsedFeatures), so its length is
	// max(UsedFeatures)+2.
	FeaturePos() []int

	// FeatureNullValueID returns, indexed by feature index, the bin id
	// standing for "no value" for that feature.
	FeatureNullValueID() []int

	// FeatureIndexes maps a bin id to the original (pre-binning) feature
	// index. Used only when emitting the final tree.
	FeatureIndexes() []int

	// FeatureCuts maps a bin id to its absolute cut threshold. Used only
	// when emitting the final tree.
	FeatureCuts() []float64
}

// idPositions builds the idPos lookup table used internally by the
// builder: idPos[b] is the local slot within a node's histogram for bin
// id b, or NotFound if b belongs to a feature the problem does not use
// (spec §4.3: "must tolerate bin ids not listed under any feature").
func idPositions(problem Problem) (idPos []int, histSize int) {
	pos := problem.FeaturePos()
	idPos = make([]int, last(pos))
	for i := range idPos {
		idPos[i] = NotFound
	}

	histSize = 0
	for _, feature := range problem.UsedFeatures() {
		for bin := pos[feature]; bin < pos[feature+1]; bin++ {
			idPos[bin] = histSize
			histSize++
		}
	}
	return idPos, histSize
}

func last(xs []int) int {
	assertf(len(xs) > 0, "FeaturePos must be non-empty")
	return xs[len(xs)-1]
}
