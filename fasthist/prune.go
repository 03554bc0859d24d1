package fasthist

// prune is the bottom-up cost-complexity pruning pass (spec §4.6,
// "Pruning" and §9's open question on mixed internal/leaf children): a
// node collapses back to a leaf only once both children have already
// reported leaf, and a subtree that fails to collapse is never
// re-examined, matching GradientBoostFastHistTreeBuilder.cpp lines
// 456-482 bit for bit in control flow.
func (b *Builder) prune(idx int) bool {
	n := b.nodes[idx]
	if n.left == NotFound {
		assertf(n.right == NotFound, "node %d has a right child but no left child", idx)
		return true
	}
	assertf(n.right != NotFound, "node %d has a left child but no right child", idx)

	leftIsLeaf := b.prune(n.left)
	rightIsLeaf := b.prune(n.right)
	if !leftIsLeaf || !rightIsLeaf {
		return false
	}

	l1, l2 := b.params.L1RegFactor, b.params.L2RegFactor
	oneNodeCriterion := n.stats.CalcCriterion(l1, l2)
	splitCriterion := b.nodes[n.left].stats.CalcCriterion(l1, l2) + b.nodes[n.right].stats.CalcCriterion(l1, l2)

	if splitCriterion-oneNodeCriterion < b.params.PruneCriterionValue {
		n.left = NotFound
		n.right = NotFound
		n.splitFeatureID = NotFound
		return true
	}
	return false
}
