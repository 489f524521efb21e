package life

import "testing"

// spec.md §4.5 tier 6 ("≤2 unknown stable neighbours" alone, with
// neither a priority violation nor proximity to the stable ZOI) is one
// of the cascade steps Barrister.cpp keeps only as a commented-out
// IDEA block; this exercises it in isolation from tiers 1-5 (which all
// additionally require priority and/or stateZOI) and tier 7/8 (which
// would also match but only fire after tier 6 has had its turn).
func TestFindFocusesTierSixFewStableUnknownWithoutZOIOrPriority(t *testing.T) {
	focus := Cell{10, 10}

	var gen0, gen1 CurrentState
	gen1.Unknown.Set(focus.X, focus.Y)

	// An everActive set covering the whole board drives priority to
	// empty everywhere (ruling out tiers 1-4), and leaving stable.StateZOI
	// empty rules out tier 5.
	var everActive Grid
	for i := 0; i < Size; i++ {
		everActive[i] = ^uint64(0)
	}

	var stable StableState
	stable.Unknown0.Set(focus.X, focus.Y) // exactly one unknown-stable neighbour

	p := &Params{}
	focusMask, prevGen := FindFocuses(Lookahead{Gens: []CurrentState{gen0, gen1}}, everActive, &stable, p)

	if !focusMask.Get(focus.X, focus.Y) {
		t.Fatalf("expected tier 6 (few unknown stable neighbours) to pick up the focus cell")
	}
	if prevGen.Unknown.Get(focus.X, focus.Y) {
		t.Fatalf("expected to branch from the generation before the cell became unknown")
	}
}

// Tier 7 ("in stateZOI alone") is the other tier Barrister.cpp carries
// only as a comment; this distinguishes it from tiers 5 and 6 by setting
// only stable.Unknown2 at the focus cell (a count of four), which neither
// oneStableUnknown nor twoStableUnknown matches, so stateZOI alone has to
// admit the cell.
func TestFindFocusesTierSevenStateZOIAlone(t *testing.T) {
	focus := Cell{20, 20}

	var gen0, gen1 CurrentState
	gen1.Unknown.Set(focus.X, focus.Y)

	var everActive Grid
	for i := 0; i < Size; i++ {
		everActive[i] = ^uint64(0)
	}

	var stable StableState
	stable.Unknown2.Set(focus.X, focus.Y) // three-or-more unknown neighbours: neither tier 6 mask matches
	stable.StateZOI.Set(focus.X, focus.Y)

	p := &Params{}
	focusMask, _ := FindFocuses(Lookahead{Gens: []CurrentState{gen0, gen1}}, everActive, &stable, p)

	if !focusMask.Get(focus.X, focus.Y) {
		t.Fatalf("expected tier 7 (stateZOI alone) to pick up the focus cell")
	}
}
