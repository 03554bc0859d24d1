package fasthist

import "testing"

func TestRenderTreeSucceeds(t *testing.T) {
	problem, gradients, hessians := buildSquaredLossProblem(150)
	tree := NewBuilder(buildParams(1, 0), NewSingleStats, nil, 1).Build(problem, gradients, hessians, nil)

	gv, graph, err := RenderTree(tree)
	if err != nil {
		t.Fatalf("RenderTree: %v", err)
	}
	if gv == nil || graph == nil {
		t.Fatalf("RenderTree returned a nil graphviz handle or graph")
	}
}

func TestRenderLeafOnlyTree(t *testing.T) {
	leaf := &LinkedTree{LeafValue: []float64{3.5}}
	_, graph, err := RenderTree(leaf)
	if err != nil {
		t.Fatalf("RenderTree on a single leaf: %v", err)
	}
	if graph == nil {
		t.Fatalf("RenderTree on a single leaf returned a nil graph")
	}
}
