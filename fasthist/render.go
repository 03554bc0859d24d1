package fasthist

import (
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// RenderTree draws a LinkedTree as a graphviz graph, adapted from
// tree.go's recurrentDraw/DrawGraph/GraphDescription, retargeted at the
// pointer-linked LinkedTree instead of the teacher's array-indexed
// OneTree/TreeNode.
func RenderTree(tree *LinkedTree) (*graphviz.Graphviz, *cgraph.Graph, error) {
	gv := graphviz.New()
	graph, err := gv.Graph()
	if err != nil {
		return nil, nil, err
	}

	counter := 0
	if err := renderNode(graph, tree, nil, &counter); err != nil {
		return nil, nil, err
	}
	return gv, graph, nil
}

func renderNode(graph *cgraph.Graph, tree *LinkedTree, parent *cgraph.Node, counter *int) error {
	id := *counter
	*counter++

	current, err := graph.CreateNode(fmt.Sprint(id))
	if err != nil {
		return err
	}
	if parent != nil {
		graph.CreateEdge("", parent, current)
	}

	if tree.IsLeaf() {
		current.Set("label", leafDescription(tree))
		current.Set("shape", "box")
		return nil
	}

	current.Set("label", splitDescription(tree))
	if err := renderNode(graph, tree.Left, current, counter); err != nil {
		return err
	}
	return renderNode(graph, tree.Right, current, counter)
}

func leafDescription(tree *LinkedTree) string {
	var sb strings.Builder
	sb.WriteString("[")
	for _, v := range tree.LeafValue {
		fmt.Fprintf(&sb, "  %6.2f,\n", v)
	}
	sb.WriteString("]")
	return sb.String()
}

func splitDescription(tree *LinkedTree) string {
	return fmt.Sprintf("f_%d < %6.5f", tree.FeatureIndex, tree.Threshold)
}
