package life

import "testing"

func TestSetCellMarksKnown(t *testing.T) {
	var s StableState
	s.UnknownStable = Grid{}
	s.UnknownStable.Set(5, 5)
	if !s.UnknownStable.Get(5, 5) {
		t.Fatalf("setup: expected (5,5) unknown")
	}
	s.SetCell(Cell{5, 5}, true)
	if s.UnknownStable.Get(5, 5) {
		t.Fatalf("SetCell should clear UnknownStable at the cell itself")
	}
	if !s.State.Get(5, 5) {
		t.Fatalf("SetCell(true) should set State")
	}
}

// A fully-off grid (no unknown cells at all) must be trivially
// consistent and propagate to a no-op fixpoint.
func TestPropagateStableEmptyIsConsistent(t *testing.T) {
	var s StableState
	r := s.PropagateStable()
	if !r.Consistent {
		t.Fatalf("empty stable state should be consistent")
	}
	if r.Changed {
		t.Fatalf("empty stable state should not need any changes")
	}
}

// A block (2x2) declared ON with nothing around it unknown should
// propagate with no inconsistency, since it's a valid still life on its
// own in an otherwise-resolved-off background.
func TestPropagateStableBlockIsConsistent(t *testing.T) {
	var s StableState
	for _, c := range [][2]int{{10, 10}, {11, 10}, {10, 11}, {11, 11}} {
		s.SetCell(Cell{c[0], c[1]}, true)
	}
	r := s.PropagateStable()
	if !r.Consistent {
		t.Fatalf("a 2x2 block should be a consistent still life")
	}
}

// Three cells in a row, fully resolved, is a blinker — not a still
// life — so declaring its background fully stable must be inconsistent.
func TestPropagateStableBlinkerIsInconsistent(t *testing.T) {
	var s StableState
	for _, c := range [][2]int{{10, 10}, {11, 10}, {12, 10}} {
		s.SetCell(Cell{c[0], c[1]}, true)
	}
	r := s.PropagateStable()
	if r.Consistent {
		t.Fatalf("a 3-in-a-row should not be a valid still life background")
	}
}

func TestVulnerableRespectsUnknownCounts(t *testing.T) {
	var s StableState
	s.UnknownStable.Set(5, 5)
	s.Unknown1.Set(5, 5) // exactly one unknown neighbour

	v := s.Vulnerable()
	if !v.Get(5, 5) {
		t.Fatalf("a cell with exactly one unknown neighbour should be vulnerable")
	}

	s.Unknown0.Set(5, 5) // now looks like two unknown neighbours
	v = s.Vulnerable()
	if v.Get(5, 5) {
		t.Fatalf("a cell with two unknown neighbours should not be vulnerable")
	}
}
