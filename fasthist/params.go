package fasthist

import "log"

// Params collects the construction options of the tree builder. The field
// set and semantics mirror CGradientBoostFastHistTreeBuilderParams from the
// NeoML source this package is modeled on.
type Params struct {
	L1RegFactor float64 // L1 penalty in criterion, >= 0
	L2RegFactor float64 // L2 penalty in criterion, >= 0

	MinSubsetHessian float64 // reject splits whose either child has less hessian mass, > 0
	MinSubsetWeight  float64 // reject splits whose either child has less total weight, >= 0

	ThreadCount int // parallel workers in kernels, > 0

	MaxTreeDepth  int // hard depth limit; also sizes the arena, > 0
	MaxNodesCount int // hard node-count limit, > 0 or NotFound

	MaxBins int // maximum histogram width per feature, > 1; enforced by the Problem View

	PruneCriterionValue float64 // pruning threshold; 0 disables pruning, >= 0

	DenseTreeBoostCoefficient float64 // passed through to the statistics policy's split criterion
}

// validate aborts (panics) on malformed parameters, the way the NeoML
// constructor's NeoAssert chain does.
func (p Params) validate() {
	assertf(p.MaxTreeDepth > 0, "MaxTreeDepth must be > 0, got %d", p.MaxTreeDepth)
	assertf(p.MaxNodesCount > 0 || p.MaxNodesCount == NotFound,
		"MaxNodesCount must be > 0 or NotFound, got %d", p.MaxNodesCount)
	assertf(abs(p.MinSubsetHessian) > 0, "MinSubsetHessian must be nonzero, got %g", p.MinSubsetHessian)
	assertf(p.ThreadCount > 0, "ThreadCount must be > 0, got %d", p.ThreadCount)
	assertf(p.MaxBins > 1, "MaxBins must be > 1, got %d", p.MaxBins)
	assertf(p.MinSubsetWeight >= 0, "MinSubsetWeight must be >= 0, got %g", p.MinSubsetWeight)
	assertf(p.L1RegFactor >= 0, "L1RegFactor must be >= 0, got %g", p.L1RegFactor)
	assertf(p.L2RegFactor >= 0, "L2RegFactor must be >= 0, got %g", p.L2RegFactor)
	assertf(p.PruneCriterionValue >= 0, "PruneCriterionValue must be >= 0, got %g", p.PruneCriterionValue)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// NewStatsFunc builds a fresh, zeroed Stats accumulator sized for
// predictionSize outputs. The builder is generic over this factory rather
// than over a compile-time type parameter (see DESIGN.md, C1): it lets a
// single binary pick Single vs Multi statistics at runtime by passing
// NewSingleStats or NewMultiStats to NewBuilder.
type NewStatsFunc func(predictionSize int) Stats

// NewBuilder constructs a tree builder. logger, when non-nil, turns on
// verbose per-split logging in the two line shapes from spec §6. newStats
// selects the statistics policy (see NewSingleStats / NewMultiStats).
func NewBuilder(params Params, newStats NewStatsFunc, logger *log.Logger, predictionSize int) *Builder {
	params.validate()
	assertf(predictionSize > 0, "predictionSize must be > 0, got %d", predictionSize)
	assertf(newStats != nil, "newStats factory must not be nil")

	return &Builder{
		params:         params,
		newStats:       newStats,
		logger:         logger,
		predictionSize: predictionSize,
		pool:           newWorkerPool(params.ThreadCount),
	}
}
