package fasthist

import (
	"math"
	"testing"
)

func TestBinColumnsNoExplicitNullBin(t *testing.T) {
	columns := [][]float64{
		{1, 2, math.NaN(), 4, 5},
	}
	problem := BinColumns(columns, 4)
	nullID := problem.FeatureNullValueID()[0]

	for row := 0; row < problem.UsedVectorCount(); row++ {
		for _, id := range problem.VectorBinIDs(row) {
			if id == nullID {
				t.Fatalf("row %d explicitly lists the null bin id %d, violates the precondition", row, nullID)
			}
		}
	}
	missingRow := 2
	if len(problem.VectorBinIDs(missingRow)) != 0 {
		t.Fatalf("row %d has a NaN feature value, expected no explicit bin ids, got %v", missingRow, problem.VectorBinIDs(missingRow))
	}
}

func TestBinColumnsOrdersBinsByThreshold(t *testing.T) {
	columns := [][]float64{
		{1, 2, 3, 4, 5, 6, 7, 8},
	}
	problem := BinColumns(columns, 4)
	cuts := problem.FeatureCuts()
	pos := problem.FeaturePos()

	prev := math.Inf(-1)
	for bin := pos[0] + 1; bin < pos[1]; bin++ {
		if cuts[bin] <= prev {
			t.Fatalf("bin %d cut %g is not strictly greater than previous cut %g", bin, cuts[bin], prev)
		}
		prev = cuts[bin]
	}
}

func TestBinColumnsConstantFeature(t *testing.T) {
	columns := [][]float64{
		{7, 7, 7, 7},
	}
	problem := BinColumns(columns, 8)
	pos := problem.FeaturePos()
	if pos[1]-pos[0] != 1 {
		t.Fatalf("constant feature should own exactly the null bin, got range width %d", pos[1]-pos[0])
	}
	for row := 0; row < problem.UsedVectorCount(); row++ {
		if len(problem.VectorBinIDs(row)) != 0 {
			t.Fatalf("constant feature row %d should have no explicit bin, got %v", row, problem.VectorBinIDs(row))
		}
	}
}
