package life

import (
	"sync/atomic"
	"testing"
)

// A plain recursion through SearchStep with no unknown cells and a
// trivially empty pattern should terminate immediately with zero
// solutions and no panics, matching scenario 1 of spec.md §8.
func TestSearchEmptyUnknownRegionFindsNothing(t *testing.T) {
	p := &Params{
		FirstActiveGen:   Range{0, 100},
		ActiveWindowGens: Range{0, 100},
		MinStableInterval: 4,
		MaxActiveCells:   -1,
		MaxEverActiveCells: -1,
	}
	stats := &Stats{}
	s := NewSearchState(p, nil, stats)
	s.Search()
	if stats.Solutions != 0 {
		t.Fatalf("expected zero solutions over an empty unknown region, got %d", stats.Solutions)
	}
}

func TestCheckStatorRequiresOn(t *testing.T) {
	var current CurrentState
	var stator Grid
	stator.Set(4, 4)

	if CheckStator(current, stator) {
		t.Fatalf("a stator cell that is OFF should fail the check")
	}

	current.State.Set(4, 4)
	if !CheckStator(current, stator) {
		t.Fatalf("a stator cell that is ON should pass the check")
	}
}

func TestSetCellSymmetricMirrorsImage(t *testing.T) {
	p := &Params{Symmetry: TransformReflectColumns}
	stats := &Stats{}
	s := &SearchState{
		Params: p,
		Stats:  stats,
		Done:   &atomic.Bool{},
	}
	s.Stable.UnknownStable.Set(5, 10)
	image := ImageCell(TransformReflectColumns, Cell{5, 10})
	s.Stable.UnknownStable.Set(image.X, image.Y)

	if !s.setCellSymmetric(Cell{5, 10}, true) {
		t.Fatalf("mirroring onto a still-unknown image cell should succeed")
	}
	if !s.Stable.State.Get(image.X, image.Y) {
		t.Fatalf("the image cell should have been set along with the original")
	}
}

func TestSetCellSymmetricRejectsConflictingImage(t *testing.T) {
	p := &Params{Symmetry: TransformReflectColumns}
	stats := &Stats{}
	s := &SearchState{
		Params: p,
		Stats:  stats,
		Done:   &atomic.Bool{},
	}
	image := ImageCell(TransformReflectColumns, Cell{5, 10})
	// The image cell is already resolved to OFF (not in UnknownStable,
	// not in State), so mirroring an ON assignment onto (5, 10) must
	// fail rather than silently overwrite it.
	s.Stable.UnknownStable.Set(5, 10)

	if s.setCellSymmetric(Cell{5, 10}, true) {
		t.Fatalf("setting ON where the image cell is already resolved OFF should fail")
	}
	_ = image
}

func TestCheckCellActivityCapsEnforcesStreak(t *testing.T) {
	p := &Params{MaxCellActiveStreakGens: 2, MaxCellActiveWindowGens: -1}
	s := NewSearchState(p, nil, &Stats{})
	if s.CellActiveStreak == nil {
		t.Fatalf("expected CellActiveStreak to be allocated when the bound is set")
	}

	var active Grid
	active.Set(3, 3)

	if !s.checkCellActivityCaps(active) {
		t.Fatalf("one generation active should not violate a streak bound of 2")
	}
	if !s.checkCellActivityCaps(active) {
		t.Fatalf("two generations active should not violate a streak bound of 2")
	}
	if s.checkCellActivityCaps(active) {
		t.Fatalf("three consecutive active generations should violate a streak bound of 2")
	}

	var empty Grid
	if !s.checkCellActivityCaps(empty) {
		t.Fatalf("a quiet generation should not violate any bound")
	}
	if s.CellActiveStreak[3*Size+3] != 0 {
		t.Fatalf("the streak counter should reset once the cell goes inactive")
	}
}

func TestCheckCellActivityCapsEnforcesWindowAcrossGaps(t *testing.T) {
	p := &Params{MaxCellActiveWindowGens: 1, MaxCellActiveStreakGens: -1}
	s := NewSearchState(p, nil, &Stats{})

	var active, empty Grid
	active.Set(1, 1)

	if !s.checkCellActivityCaps(active) {
		t.Fatalf("first active generation should not violate a window bound of 1")
	}
	if !s.checkCellActivityCaps(empty) {
		t.Fatalf("an inactive generation should not itself trip the window bound")
	}
	if s.checkCellActivityCaps(active) {
		t.Fatalf("a second active generation (even through a gap) should violate a window bound of 1")
	}
}

func TestDeepCopyCellCountersAvoidsAliasing(t *testing.T) {
	p := &Params{MaxCellActiveStreakGens: 5, MaxCellActiveWindowGens: -1}
	parent := NewSearchState(p, nil, &Stats{})
	parent.CellActiveStreak[0] = 1

	var branch SearchState
	branch.deepCopyCellCounters(parent)
	branch.CellActiveStreak[0] = 9

	if parent.CellActiveStreak[0] != 1 {
		t.Fatalf("mutating the branch's counters should not affect the parent's")
	}
}

// A Done flag set from outside the search (simulating a SIGINT handler
// running on another goroutine) must stop SearchStep from recursing any
// further, the same way a solution setting it internally does.
func TestExternallySetDoneStopsSearchStep(t *testing.T) {
	p := &Params{}
	s := NewSearchState(p, nil, &Stats{})
	s.Done.Store(true)

	s.SearchStep()
	if s.Stats.Nodes != 0 {
		t.Fatalf("SearchStep should return immediately once Done is set, got %d nodes visited", s.Stats.Nodes)
	}
}

func TestContinueAfterSuccessFalseStopsAtFirstSolution(t *testing.T) {
	p := &Params{
		FirstActiveGen:    Range{0, 100},
		ActiveWindowGens:  Range{0, 100},
		MinStableInterval: 4,
		MaxActiveCells:    -1,
		MaxEverActiveCells: -1,
		ContinueAfterSuccess: false,
	}
	stats := &Stats{}
	s := NewSearchState(p, nil, stats)

	solutions := 0
	s.OnSolution = func(Solution) { solutions++ }
	s.Search()

	if s.Done.Load() != (solutions > 0) {
		t.Fatalf("Done should be set exactly when a solution was reported (done=%v, solutions=%d)", s.Done.Load(), solutions)
	}
}
