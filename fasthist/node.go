package fasthist

// node is a single tree node (spec §3, "Node"). Nodes are created
// append-only in Builder.nodes and are never deleted, only relinked during
// pruning (a pruned node's Left/Right become NotFound).
type node struct {
	level int // depth from root

	vecPtr, vecSize int // half-open range into the vector-set permutation

	histPtr int // arena offset, or NotFound

	stats Stats // aggregated statistics over the node's vectors

	splitFeatureID int // bin id chosen as split boundary, or NotFound for a leaf

	left, right int // child node indices, or NotFound

	leftStats, rightStats Stats // saved prospective children statistics, from split evaluation
}

func newNode(level, vecPtr, vecSize int) *node {
	return &node{
		level:          level,
		vecPtr:         vecPtr,
		vecSize:        vecSize,
		histPtr:        NotFound,
		splitFeatureID: NotFound,
		left:           NotFound,
		right:          NotFound,
	}
}

func (n *node) isLeaf() bool {
	return n.splitFeatureID == NotFound
}
