package fasthist

import (
	"math"
	"sort"
)

// BinColumns turns a raw, column-major feature matrix into a Problem via
// simple per-feature quantile binning (spec §6 of SPEC_FULL.md,
// "supplemented features"). Binning raw features is explicitly a
// non-goal for the CORE (spec §1); this exists only so tests and
// cmd/fasthist-bench have a concrete Problem to build trees over, the way
// the teacher's own CreateTestEMatrix/GenerateDebugData test helpers
// manufacture a synthetic dataset.
//
// Missing values are represented as math.NaN() in columns; they are
// never listed explicitly in a row's bin ids (the null bin absorbs them
// implicitly), satisfying the precondition spec §9 calls out.
func BinColumns(columns [][]float64, maxBins int) Problem {
	assertf(maxBins > 1, "maxBins must be > 1, got %d", maxBins)

	numFeatures := len(columns)
	rows := 0
	if numFeatures > 0 {
		rows = len(columns[0])
	}

	pos := make([]int, numFeatures+1)
	nullID := make([]int, numFeatures)
	usedFeatures := make([]int, 0, numFeatures)
	featureIndexes := make([]int, 0)
	featureCuts := make([]float64, 0)
	cutsByFeature := make([][]float64, numFeatures)

	nextID := 0
	for f := 0; f < numFeatures; f++ {
		cuts := quantileCuts(columns[f], maxBins-1)
		cutsByFeature[f] = cuts

		pos[f] = nextID
		nullID[f] = nextID
		featureIndexes = append(featureIndexes, f)
		featureCuts = append(featureCuts, math.NaN())
		nextID++

		for _, cut := range cuts {
			featureIndexes = append(featureIndexes, f)
			featureCuts = append(featureCuts, cut)
			nextID++
		}
		usedFeatures = append(usedFeatures, f)
	}
	pos[numFeatures] = nextID

	vectorBinIDs := make([][]int, rows)
	for r := 0; r < rows; r++ {
		var ids []int
		for f := 0; f < numFeatures; f++ {
			v := columns[f][r]
			if math.IsNaN(v) {
				continue // missing: absorbed implicitly by the null bin
			}
			cuts := cutsByFeature[f]
			if len(cuts) == 0 {
				continue // constant feature: no explicit bin to assign
			}
			idx := sort.SearchFloat64s(cuts, v)
			if idx >= len(cuts) {
				idx = len(cuts) - 1
			}
			ids = append(ids, pos[f]+1+idx)
		}
		sort.Ints(ids)
		vectorBinIDs[r] = ids
	}

	return &denseProblem{
		vectorBinIDs:        vectorBinIDs,
		usedFeatures:        usedFeatures,
		featurePos:          pos,
		featureNullValueID:  nullID,
		featureIndexes:      featureIndexes,
		featureCuts:         featureCuts,
	}
}

func quantileCuts(values []float64, maxCuts int) []float64 {
	uniq := uniqueSorted(finiteValues(values))
	n := len(uniq) - 1
	if n <= 0 || maxCuts <= 0 {
		return nil
	}
	if maxCuts > n {
		maxCuts = n
	}

	cuts := make([]float64, maxCuts)
	for i := 0; i < maxCuts; i++ {
		idx := (i + 1) * n / (maxCuts + 1)
		if idx >= n {
			idx = n - 1
		}
		cuts[i] = (uniq[idx] + uniq[idx+1]) / 2
	}
	return cuts
}

func finiteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

func uniqueSorted(sorted []float64) []float64 {
	out := make([]float64, 0, len(sorted))
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// denseProblem is the concrete Problem built by BinColumns.
type denseProblem struct {
	vectorBinIDs       [][]int
	usedFeatures       []int
	featurePos         []int
	featureNullValueID []int
	featureIndexes     []int
	featureCuts        []float64
}

func (p *denseProblem) UsedVectorCount() int      { return len(p.vectorBinIDs) }
func (p *denseProblem) VectorBinIDs(i int) []int  { return p.vectorBinIDs[i] }
func (p *denseProblem) UsedFeatures() []int       { return p.usedFeatures }
func (p *denseProblem) FeaturePos() []int         { return p.featurePos }
func (p *denseProblem) FeatureNullValueID() []int { return p.featureNullValueID }
func (p *denseProblem) FeatureIndexes() []int     { return p.featureIndexes }
func (p *denseProblem) FeatureCuts() []float64    { return p.featureCuts }
