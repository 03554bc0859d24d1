package fasthist

import (
	"math"
	"testing"
)

func TestSingleStatsAddSubIdentity(t *testing.T) {
	left := NewSingleStats(1)
	right := NewSingleStats(1)
	left.AddRow([]float64{1, 2, 3}, []float64{1, 1, 1}, nil, 0)
	left.AddRow([]float64{1, 2, 3}, []float64{1, 1, 1}, nil, 1)
	right.AddRow([]float64{1, 2, 3}, []float64{1, 1, 1}, nil, 2)

	total := NewSingleStats(1)
	total.Add(left)
	total.Add(right)

	derivedRight := total.Clone()
	derivedRight.Sub(left)

	if derivedRight.TotalHessian() != right.TotalHessian() {
		t.Fatalf("subtraction identity broke: got hessian %g, want %g", derivedRight.TotalHessian(), right.TotalHessian())
	}
	var out [1]float64
	derivedRight.LeafValue(out[:])
	var want [1]float64
	right.LeafValue(want[:])
	if out[0] != want[0] {
		t.Fatalf("leaf value mismatch after subtraction: got %g, want %g", out[0], want[0])
	}
}

func TestMultiStatsAddSubIdentity(t *testing.T) {
	size := 3
	grad := []float64{1, 2, 3, 4, 5, 6}
	hess := []float64{1, 1, 1, 1, 1, 1}

	left := NewMultiStats(size)
	left.AddRow(grad, hess, nil, 0)
	right := NewMultiStats(size)
	right.AddRow(grad, hess, nil, 1)

	total := NewMultiStats(size)
	total.Add(left)
	total.Add(right)

	derivedRight := total.Clone()
	derivedRight.Sub(left)

	if derivedRight.TotalHessian() != right.TotalHessian() {
		t.Fatalf("multi subtraction identity broke: got %g want %g", derivedRight.TotalHessian(), right.TotalHessian())
	}
}

func TestCalcSplitCriterionRejectsBelowGuards(t *testing.T) {
	parent := NewSingleStats(1)
	parent.AddRow([]float64{10}, []float64{0.01}, nil, 0)

	left := NewSingleStats(1)
	left.AddRow([]float64{10}, []float64{0.01}, nil, 0)
	right := NewSingleStats(1)

	var criterion float64
	ok := calcSplitCriterion(&criterion, left, right, parent, 0, 0, 1.0, 0, 0)
	if ok {
		t.Fatalf("expected split to be rejected for insufficient hessian, got criterion %g", criterion)
	}
}

func TestCalcSplitCriterionAccepts(t *testing.T) {
	parent := NewSingleStats(1)
	parent.AddRow([]float64{10, -10}, []float64{1, 1}, nil, 0)
	parent.AddRow([]float64{10, -10}, []float64{1, 1}, nil, 1)

	left := NewSingleStats(1)
	left.AddRow([]float64{10, -10}, []float64{1, 1}, nil, 0)
	right := NewSingleStats(1)
	right.AddRow([]float64{10, -10}, []float64{1, 1}, nil, 1)

	var criterion float64
	ok := calcSplitCriterion(&criterion, left, right, parent, 0, 0, 0.1, 0, 0)
	if !ok {
		t.Fatalf("expected split to be accepted")
	}
	if criterion <= parent.CalcCriterion(0, 0) {
		t.Fatalf("split criterion %g should exceed parent criterion %g for a perfectly separable pair", criterion, parent.CalcCriterion(0, 0))
	}
}

func TestLeafWeightZeroHessian(t *testing.T) {
	if w := leafWeight(5, 0); w != 0 {
		t.Fatalf("leafWeight with zero hessian should be 0, got %g", w)
	}
}

func TestCriterionScoreL1Threshold(t *testing.T) {
	if score := criterionScore(0.5, 1, 1.0, 0); score != 0 {
		t.Fatalf("gradient within L1 band should score 0, got %g", score)
	}
	if score := criterionScore(2, 1, 1.0, 0); math.Abs(score-1.0) > 1e-9 {
		t.Fatalf("expected (2-1)^2/1 = 1, got %g", score)
	}
}
