package fasthist

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadTreeRoundTrip(t *testing.T) {
	problem, gradients, hessians := buildSquaredLossProblem(120)
	tree := NewBuilder(buildParams(1, 0), NewSingleStats, nil, 1).Build(problem, gradients, hessians, nil)

	dir := t.TempDir()
	filename := filepath.Join(dir, "tree.json")
	if err := SaveTree(tree, filename); err != nil {
		t.Fatalf("SaveTree: %v", err)
	}

	loaded, err := LoadTree(filename)
	if err != nil {
		t.Fatalf("LoadTree: %v", err)
	}

	if shape(tree) != shape(loaded) {
		t.Fatalf("round-tripped tree shape differs: got %s, want %s", shape(loaded), shape(tree))
	}

	pos := problem.FeaturePos()
	nullID := problem.FeatureNullValueID()
	for row := 0; row < 10; row++ {
		want, err := tree.Predict(problem.VectorBinIDs(row), pos, nullID)
		if err != nil {
			t.Fatalf("predict on original tree: %v", err)
		}
		got, err := loaded.Predict(problem.VectorBinIDs(row), pos, nullID)
		if err != nil {
			t.Fatalf("predict on round-tripped tree: %v", err)
		}
		if math.Abs(got[0]-want[0]) > 1e-12 {
			t.Fatalf("row %d: round-tripped prediction %g != original %g", row, got[0], want[0])
		}
	}
}

func TestLoadTreeMissingFile(t *testing.T) {
	if _, err := LoadTree(filepath.Join(t.TempDir(), "does-not-exist.json")); err == nil {
		t.Fatalf("expected an error loading a nonexistent model file")
	}
}

func TestSaveTreeUnwritableDirectory(t *testing.T) {
	if err := SaveTree(&LinkedTree{LeafValue: []float64{1}}, filepath.Join(os.TempDir(), "no-such-dir-xyz", "tree.json")); err == nil {
		t.Fatalf("expected an error saving into a nonexistent directory")
	}
}
