package fasthist

import (
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Stats is the per-node statistics accumulator contract (spec §4.1, C1).
// Two implementations are provided: SingleStats for scalar regression and
// MultiStats for multi-output regression. Go generics would force every
// node, arena slot and builder instantiation to be monomorphized to one
// concrete policy at compile time; a capability interface lets a single
// binary pick Single vs Multi at runtime through the NewStatsFunc passed to
// NewBuilder (the option spec §9's
// Design Notes calls out as equally acceptable).
//
// gradients/hessians arrays passed to AddRow are always flat []float64,
// row-major over predictionSize outputs: row r's k-th output lives at
// index r*predictionSize+k. This keeps Build's signature uniform across
// both policies instead of needing an interface{} payload per row.
type Stats interface {
	Erase()
	AddRow(gradients, hessians, weights []float64, rowIdx int)
	Add(other Stats)
	Sub(other Stats)
	ValueSize() int
	CalcCriterion(l1, l2 float64) float64
	LeafValue(out []float64)
	NullifyLeafClasses(saved Stats)
	Clone() Stats
	TotalHessian() float64
	TotalWeight() float64
}

// leafWeight is the unregularized Newton step for a single output: spec's
// Stats.LeafValue takes no L1/L2 parameters (only CalcCriterion does), so
// regularization only ever shapes which split gets picked, not the emitted
// leaf value itself.
func leafWeight(grad, hess float64) float64 {
	if hess == 0 {
		return 0
	}
	return -grad / hess
}

// criterionScore is the L1/L2-regularized leaf quality score used by
// CalcCriterion and by the split guard: the squared, L1-thresholded
// gradient over the L2-damped hessian, the standard regularized-gain
// formula the NeoML split guard (GradientBoostFastHistTreeBuilder.cpp
// lines 340-365) builds on.
func criterionScore(grad, hess, l1, l2 float64) float64 {
	thresholded := 0.0
	switch {
	case grad > l1:
		thresholded = grad - l1
	case grad < -l1:
		thresholded = grad + l1
	default:
		return 0
	}
	return thresholded * thresholded / (hess + l2)
}

// calcSplitCriterion is the static calcSplitCriterion from spec §4.1: it
// rejects candidates that violate the minimum-hessian/minimum-weight
// guards and otherwise writes the split's gain into outCriterion.
func calcSplitCriterion(outCriterion *float64, left, right, parent Stats, l1, l2, minHess, minWeight, denseCoef float64) bool {
	if left.TotalHessian() < minHess || right.TotalHessian() < minHess {
		return false
	}
	if left.TotalWeight() < minWeight || right.TotalWeight() < minWeight {
		return false
	}

	criterion := left.CalcCriterion(l1, l2) + right.CalcCriterion(l1, l2)
	if _, isMulti := parent.(*MultiStats); isMulti {
		// DenseTreeBoostCoefficient only shapes multi-output splits: it
		// rewards (or penalizes, if negative) spreading mass across a
		// dense tree's outputs. A single-output tree has nothing to
		// spread, so the coefficient is a no-op there.
		criterion *= 1 + denseCoef
	}
	*outCriterion = criterion
	return true
}

// SingleStats is the scalar-output statistics policy.
type SingleStats struct {
	sumGrad, sumHess, sumWeight float64
}

// NewSingleStats is a NewStatsFunc for single-output regression.
func NewSingleStats(predictionSize int) Stats {
	assertf(predictionSize == 1, "SingleStats requires predictionSize == 1, got %d", predictionSize)
	return &SingleStats{}
}

func (s *SingleStats) Erase() { *s = SingleStats{} }

func (s *SingleStats) AddRow(gradients, hessians, weights []float64, rowIdx int) {
	s.sumGrad += gradients[rowIdx]
	s.sumHess += hessians[rowIdx]
	s.sumWeight += rowWeight(weights, rowIdx)
}

func (s *SingleStats) Add(other Stats) {
	o := other.(*SingleStats)
	s.sumGrad += o.sumGrad
	s.sumHess += o.sumHess
	s.sumWeight += o.sumWeight
}

func (s *SingleStats) Sub(other Stats) {
	o := other.(*SingleStats)
	s.sumGrad -= o.sumGrad
	s.sumHess -= o.sumHess
	s.sumWeight -= o.sumWeight
}

func (s *SingleStats) ValueSize() int { return 1 }

func (s *SingleStats) CalcCriterion(l1, l2 float64) float64 {
	return criterionScore(s.sumGrad, s.sumHess, l1, l2)
}

func (s *SingleStats) LeafValue(out []float64) {
	assertf(len(out) == 1, "SingleStats.LeafValue expects a 1-element output, got %d", len(out))
	out[0] = leafWeight(s.sumGrad, s.sumHess)
}

func (s *SingleStats) NullifyLeafClasses(Stats) {
	// Nothing to do: a single output has no class set to nullify.
}

func (s *SingleStats) Clone() Stats {
	clone := *s
	return &clone
}

func (s *SingleStats) TotalHessian() float64 { return s.sumHess }
func (s *SingleStats) TotalWeight() float64  { return s.sumWeight }

func rowWeight(weights []float64, rowIdx int) float64 {
	if weights == nil {
		return 1
	}
	return weights[rowIdx]
}

// MultiStats is the vector-output statistics policy for multi-output
// regression. Its gradient/hessian accumulators are backed by
// gorgonia.org/tensor 1-D dense tensors, the direct descendant of the
// teacher's per-row hessian tensor (find_the_best_split.go's
// allocateArrays), indexed with the same At/SetAt idiom used there.
type MultiStats struct {
	size      int
	grad      *tensor.Dense
	hess      *tensor.Dense
	sumWeight float64
}

// NewMultiStats is a NewStatsFunc for multi-output regression.
func NewMultiStats(predictionSize int) Stats {
	return &MultiStats{
		size: predictionSize,
		grad: newTensorVec(predictionSize),
		hess: newTensorVec(predictionSize),
	}
}

func newTensorVec(n int) *tensor.Dense {
	return tensor.New(tensor.WithShape(n), tensor.Of(tensor.Float64))
}

func tensorGet(t *tensor.Dense, i int) float64 {
	v, err := t.At(i)
	assertf(err == nil, "tensor access out of range: %v", err)
	return v.(float64)
}

func tensorSet(t *tensor.Dense, i int, v float64) {
	assertf(t.SetAt(v, i) == nil, "tensor assignment out of range")
}

func (m *MultiStats) Erase() {
	m.grad = newTensorVec(m.size)
	m.hess = newTensorVec(m.size)
	m.sumWeight = 0
}

func (m *MultiStats) AddRow(gradients, hessians, weights []float64, rowIdx int) {
	base := rowIdx * m.size
	for k := 0; k < m.size; k++ {
		tensorSet(m.grad, k, tensorGet(m.grad, k)+gradients[base+k])
		tensorSet(m.hess, k, tensorGet(m.hess, k)+hessians[base+k])
	}
	m.sumWeight += rowWeight(weights, rowIdx)
}

func (m *MultiStats) Add(other Stats) {
	o := other.(*MultiStats)
	for k := 0; k < m.size; k++ {
		tensorSet(m.grad, k, tensorGet(m.grad, k)+tensorGet(o.grad, k))
		tensorSet(m.hess, k, tensorGet(m.hess, k)+tensorGet(o.hess, k))
	}
	m.sumWeight += o.sumWeight
}

func (m *MultiStats) Sub(other Stats) {
	o := other.(*MultiStats)
	for k := 0; k < m.size; k++ {
		tensorSet(m.grad, k, tensorGet(m.grad, k)-tensorGet(o.grad, k))
		tensorSet(m.hess, k, tensorGet(m.hess, k)-tensorGet(o.hess, k))
	}
	m.sumWeight -= o.sumWeight
}

func (m *MultiStats) ValueSize() int { return m.size }

func (m *MultiStats) CalcCriterion(l1, l2 float64) float64 {
	total := 0.0
	for k := 0; k < m.size; k++ {
		total += criterionScore(tensorGet(m.grad, k), tensorGet(m.hess, k), l1, l2)
	}
	return total
}

func (m *MultiStats) LeafValue(out []float64) {
	assertf(len(out) == m.size, "MultiStats.LeafValue expects a %d-element output, got %d", m.size, len(out))
	raw := make([]float64, m.size)
	for k := 0; k < m.size; k++ {
		raw[k] = leafWeight(tensorGet(m.grad, k), tensorGet(m.hess, k))
	}
	// Route the emitted prediction through a gonum vector, the same type
	// the teacher scales every leaf prediction with in NewLeafNode.
	vec := mat.NewVecDense(m.size, raw)
	copy(out, vec.RawVector().Data)
}

func (m *MultiStats) NullifyLeafClasses(saved Stats) {
	s := saved.(*MultiStats)
	for k := 0; k < m.size; k++ {
		if tensorGet(s.grad, k) == 0 && tensorGet(s.hess, k) == 0 {
			tensorSet(m.grad, k, 0)
			tensorSet(m.hess, k, 0)
		}
	}
}

func (m *MultiStats) Clone() Stats {
	clone := &MultiStats{size: m.size, grad: newTensorVec(m.size), hess: newTensorVec(m.size), sumWeight: m.sumWeight}
	for k := 0; k < m.size; k++ {
		tensorSet(clone.grad, k, tensorGet(m.grad, k))
		tensorSet(clone.hess, k, tensorGet(m.hess, k))
	}
	return clone
}

func (m *MultiStats) TotalHessian() float64 {
	total := 0.0
	for k := 0; k < m.size; k++ {
		total += tensorGet(m.hess, k)
	}
	return total
}

func (m *MultiStats) TotalWeight() float64 { return m.sumWeight }
