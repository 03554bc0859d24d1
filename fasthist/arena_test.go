package fasthist

import "testing"

func TestArenaAllocReleaseRoundTrip(t *testing.T) {
	maxDepth := 3
	a := newArena(4, maxDepth, NewSingleStats, 1)

	if got := a.freeCount(); got != maxDepth+1 {
		t.Fatalf("expected %d free slots initially, got %d", maxDepth+1, got)
	}

	first := a.alloc()
	second := a.alloc()
	if first == second {
		t.Fatalf("alloc returned the same offset twice: %d", first)
	}
	if got := a.freeCount(); got != maxDepth-1 {
		t.Fatalf("expected %d free slots after two allocs, got %d", maxDepth-1, got)
	}

	a.release(first)
	if got := a.freeCount(); got != maxDepth {
		t.Fatalf("expected %d free slots after one release, got %d", maxDepth, got)
	}
}

func TestArenaAllocExhaustedPanics(t *testing.T) {
	a := newArena(2, 0, NewSingleStats, 1)
	a.alloc()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected alloc on an exhausted arena to panic")
		}
	}()
	a.alloc()
}

func TestArenaSub(t *testing.T) {
	a := newArena(2, 1, NewSingleStats, 1)
	firstOffset := a.alloc()
	secondOffset := a.alloc()

	first := a.hist(firstOffset)
	second := a.hist(secondOffset)
	for i := range first {
		first[i].AddRow([]float64{10}, []float64{2}, nil, 0)
		second[i].AddRow([]float64{3}, []float64{1}, nil, 0)
	}

	a.sub(firstOffset, secondOffset)
	for i := range first {
		if first[i].TotalHessian() != 1 {
			t.Fatalf("bin %d: expected hessian 1 after subtraction, got %g", i, first[i].TotalHessian())
		}
	}
}
