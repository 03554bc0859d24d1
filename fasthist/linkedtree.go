package fasthist

import "errors"

// LinkedTree is the builder's hand-off type: a pointer-linked regression
// tree, adapted from poisson_legacy/tree.go's TreeNode (kept its
// Left/Right/FeatureIndex/Threshold/LeafValue shape and its Predict
// method) and generalized to a multi-output leaf value. Building the
// final linked tree structure used for inference is explicitly a
// non-goal for the core (spec §1); this is the minimal concrete type
// that satisfies the core's hand-off contract so Build has something to
// return.
type LinkedTree struct {
	Left, Right  *LinkedTree
	FeatureIndex int
	Threshold    float64
	LeafValue    []float64

	// splitBinID is the bin id the builder actually compared against
	// (spec §4.6's "effectiveId <= splitFeatureId" test). FeatureIndex
	// and Threshold are the human-readable projection of this bin id via
	// the Problem View, kept for reporting/serialization; Predict must
	// replay the bin-id comparison itself, since at inference time a row
	// is presented the same sparse bin ids the builder consumed, not a
	// raw feature value.
	splitBinID int
}

// IsLeaf reports whether this node is a leaf.
func (t *LinkedTree) IsLeaf() bool {
	return t != nil && t.Left == nil && t.Right == nil
}

// Predict walks the tree for one row's bin ids (the same binned
// representation the builder itself consumes) and returns its leaf
// value. It is a thin, read-only convenience matching the original
// poisson_legacy.TreeNode.Predict shape; the outer boosting loop and a
// faster batch inference path remain out of scope (spec §1).
func (t *LinkedTree) Predict(binIDs []int, featurePos []int, featureNullValueID []int) ([]float64, error) {
	if t == nil {
		return nil, errors.New("fasthist: predict on nil tree")
	}
	if t.IsLeaf() {
		return t.LeafValue, nil
	}

	effectiveID := featureNullValueID[t.FeatureIndex]
	for _, bin := range binIDs {
		if bin >= featurePos[t.FeatureIndex] && bin < featurePos[t.FeatureIndex+1] {
			effectiveID = bin
			break
		}
	}

	if effectiveID <= t.splitBinID {
		return t.Left.Predict(binIDs, featurePos, featureNullValueID)
	}
	return t.Right.Predict(binIDs, featurePos, featureNullValueID)
}

// emitTree is the final tree emission pass (spec §4.6, "Final tree
// emission"): leaves get a leaf value from Stats.LeafValue, splits get
// the original feature index and cut threshold looked up via the bin id.
func (b *Builder) emitTree(idx int) *LinkedTree {
	n := b.nodes[idx]
	if n.isLeaf() {
		value := make([]float64, b.predictionSize)
		n.stats.LeafValue(value)
		return &LinkedTree{LeafValue: value}
	}

	left := b.emitTree(n.left)
	right := b.emitTree(n.right)
	return &LinkedTree{
		Left:         left,
		Right:        right,
		FeatureIndex: b.problem.FeatureIndexes()[n.splitFeatureID],
		Threshold:    b.problem.FeatureCuts()[n.splitFeatureID],
		splitBinID:   n.splitFeatureID,
	}
}
