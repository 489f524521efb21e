package life

import "testing"

// spec.md §8 scenario 3: a zero active-cell bound forbids any
// interaction at all, distinct from -1 ("disabled"/unbounded).
func TestCheckConditionsOnZeroBoundForbidsAnyActivity(t *testing.T) {
	p := &Params{MaxActiveCells: 0, MaxEverActiveCells: -1}

	var active Grid
	if !CheckConditionsOn(active, Grid{}, p) {
		t.Fatalf("an empty active set should satisfy a zero bound")
	}

	active.Set(1, 1)
	if CheckConditionsOn(active, active, p) {
		t.Fatalf("a single active cell should violate MaxActiveCells=0")
	}
}

func TestCheckConditionsOnNegativeBoundIsUnbounded(t *testing.T) {
	p := &Params{
		MaxActiveCells:     -1,
		MaxEverActiveCells: -1,
		ActiveBounds:       BoxBound{W: -1, H: -1},
		EverActiveBounds:   BoxBound{W: -1, H: -1},
	}
	var active Grid
	for i := 0; i < 40; i++ {
		active.Set(i, 0)
	}
	if !CheckConditionsOn(active, active, p) {
		t.Fatalf("MaxActiveCells=-1 should never reject on population alone")
	}
}

func TestCheckActivityTimingRejectsLateFirstActivity(t *testing.T) {
	p := &Params{FirstActiveGen: Range{0, 5}, ActiveWindowGens: Range{0, 100}}
	var active Grid
	active.Set(3, 3)

	if CheckActivityTiming(active, 6, false, 0, p) {
		t.Fatalf("activity starting after FirstActiveGen.Max without interaction should fail")
	}
	if !CheckActivityTiming(active, 6, true, 2, p) {
		t.Fatalf("already-interacting branches should not be rejected by the first-active-gen bound")
	}
}

func TestCheckFiltersExactOnlyConstrainsItsOwnGeneration(t *testing.T) {
	var current CurrentState
	current.State.Set(2, 2)
	f := Filter{Type: FilterExact, Gen: 5, State: current.State}
	f.Mask.Set(2, 2)

	if !CheckFilters(current, 3, []Filter{f}) {
		t.Fatalf("a FilterExact entry should be vacuous at any generation but its own")
	}
	if !CheckFilters(current, 5, []Filter{f}) {
		t.Fatalf("the masked cells match State at the named generation, should pass")
	}

	var mismatch CurrentState
	if CheckFilters(mismatch, 5, []Filter{f}) {
		t.Fatalf("a mismatched masked cell at the named generation should fail")
	}
}

func TestCheckFiltersEverConstrainsEveryGeneration(t *testing.T) {
	var want CurrentState
	want.State.Set(7, 7)
	f := Filter{Type: FilterEver, State: want.State}
	f.Mask.Set(7, 7)

	if !CheckFilters(want, 0, []Filter{f}) {
		t.Fatalf("matching state should pass at generation 0")
	}
	if !CheckFilters(want, 40, []Filter{f}) {
		t.Fatalf("matching state should pass at any generation for FilterEver")
	}

	var mismatch CurrentState
	if CheckFilters(mismatch, 12, []Filter{f}) {
		t.Fatalf("a FilterEver entry should fail the generation it doesn't hold at")
	}
}

// spec.md §6: active-bounds/ever-active-bounds cap the active region's
// bounding-box width and height, independently of its population.
func TestCheckConditionsOnBoundingBoxCap(t *testing.T) {
	p := &Params{
		MaxActiveCells:     -1,
		MaxEverActiveCells: -1,
		ActiveBounds:       BoxBound{W: 3, H: 3},
		EverActiveBounds:   BoxBound{W: -1, H: -1},
	}

	var narrow Grid
	narrow.Set(1, 1)
	narrow.Set(2, 1)
	if !CheckConditionsOn(narrow, narrow, p) {
		t.Fatalf("a 2-cell-wide active region should fit a 3x3 bound")
	}

	var wide Grid
	wide.Set(1, 1)
	wide.Set(10, 1)
	if CheckConditionsOn(wide, wide, p) {
		t.Fatalf("an active region spanning 10 columns should violate a width bound of 3")
	}
}

func TestCheckActivityTimingRejectsOverlongWindow(t *testing.T) {
	p := &Params{FirstActiveGen: Range{0, 100}, ActiveWindowGens: Range{0, 3}}
	var active Grid
	active.Set(3, 3)

	if CheckActivityTiming(active, 10, true, 5, p) {
		t.Fatalf("activity 5 generations after interaction should violate a window of 3")
	}
	if !CheckActivityTiming(active, 7, true, 5, p) {
		t.Fatalf("activity within the window should pass")
	}
}
