package life

import "github.com/luke-kiernan/barrister/internal/bitgrid"

const (
	maxLookaheadGens   = 10
	maxLocalGens       = 3
	defaultMaxEverActive = 10
)

// Lookahead is a short run of generations computed from the current
// state, used both to check the activity constraints ahead of time and
// to pick the next focus cell.
type Lookahead struct {
	Gens []CurrentState
}

// PopulateLookahead steps current forward up to maxLookaheadGens-1 times,
// returning at most maxLookaheadGens generations (current included) and
// stopping early once a generation shows no activity at all against the
// stable background (there's nothing left to look ahead at).
func PopulateLookahead(current CurrentState, stable StableState) Lookahead {
	gens := make([]CurrentState, 1, maxLookaheadGens)
	gens[0] = current
	for i := 0; i < maxLookaheadGens-1; i++ {
		next := gens[i].UncertainStepMaintaining(stable)
		gens = append(gens, next)
		if next.ActiveComparedTo(stable).IsEmpty() {
			break
		}
	}
	return Lookahead{Gens: gens}
}

// FindFocuses picks the next cell(s) to branch the search on, trying the
// full eight-tier cascade of successively weaker predicates spec.md §4.5
// gives: prefer cells near an already-resolved part of the stable
// background that also lie outside the permitted ever-active window,
// falling back tier by tier to progressively looser conditions, and
// finally to any cell that became uncertain at all. It returns the set
// of candidate focus cells together with the generation state to branch
// from (the one just before they became uncertain).
func FindFocuses(lookahead Lookahead, everActive Grid, stable *StableState, p *Params) (Grid, CurrentState) {
	gens := lookahead.Gens
	n := len(gens)

	allFocusable := make([]Grid, n)
	for i := 1; i < n; i++ {
		gen, prev := gens[i], gens[i-1]
		becomeUnknown := gen.Unknown.AndNot(gen.UnknownStable).AndNot(prev.Unknown)
		nearActiveUnknown := prev.Unknown.AndNot(prev.UnknownStable).ZOI()
		allFocusable[i] = becomeUnknown.AndNot(nearActiveUnknown)
	}

	maxEverActiveSize := p.EverActiveBounds.W
	if h := p.EverActiveBounds.H; h > maxEverActiveSize {
		maxEverActiveSize = h
	}
	if maxEverActiveSize <= 0 {
		maxEverActiveSize = defaultMaxEverActive
	}
	rect := bitgrid.SolidRect(-maxEverActiveSize, -maxEverActiveSize, 2*maxEverActiveSize-1, 2*maxEverActiveSize-1)
	priority := rect.Convolve(everActive).Not()

	oneStableUnknown := stable.Unknown0.AndNot(stable.Unknown1).AndNot(stable.Unknown2).AndNot(stable.Unknown3)
	twoStableUnknown := stable.Unknown1.AndNot(stable.Unknown0).AndNot(stable.Unknown2).AndNot(stable.Unknown3)
	fewStableUnknown := oneStableUnknown.Or(twoStableUnknown)

	localLimit := maxLocalGens
	if n < localLimit {
		localLimit = n
	}

	// scan tries the given mask against every local generation's
	// focusable set, latest generation first, and returns the first hit.
	scan := func(hi int, mask Grid) (Grid, CurrentState, bool) {
		for i := hi - 1; i >= 1; i-- {
			if focusable := allFocusable[i].And(mask); !focusable.IsEmpty() {
				return focusable, gens[i-1], true
			}
		}
		return Grid{}, CurrentState{}, false
	}

	// Tier 1: near an ON stable cell, priority, <=2 unknown neighbours on
	// the stable side.
	if f, prev, ok := scan(localLimit, stable.StateZOI.And(priority).And(fewStableUnknown)); ok {
		return f, prev
	}
	// Tier 2: priority, <=2 unknown stable neighbours.
	if f, prev, ok := scan(localLimit, priority.And(fewStableUnknown)); ok {
		return f, prev
	}
	// Tier 3: in stateZOI, priority.
	if f, prev, ok := scan(localLimit, stable.StateZOI.And(priority)); ok {
		return f, prev
	}
	// Tier 4: priority alone.
	if f, prev, ok := scan(localLimit, priority); ok {
		return f, prev
	}
	// Tier 5: in stateZOI, <=2 unknown stable neighbours.
	if f, prev, ok := scan(localLimit, stable.StateZOI.And(fewStableUnknown)); ok {
		return f, prev
	}
	// Tier 6: <=2 unknown stable neighbours alone.
	if f, prev, ok := scan(localLimit, fewStableUnknown); ok {
		return f, prev
	}
	// Tier 7: in stateZOI alone, over the full lookahead window rather
	// than just the local generations.
	if f, prev, ok := scan(n, stable.StateZOI); ok {
		return f, prev
	}

	// Tier 8: any cell that became genuinely uncertain at all, recomputed
	// without the nearActiveUnknown exclusion tiers 1-7's allFocusable
	// applies, so this tier can still find something when every other
	// candidate was ruled out only by proximity to existing activity.
	for i := 1; i < n; i++ {
		gen, prev := gens[i], gens[i-1]
		becomeUnknown := gen.Unknown.AndNot(gen.UnknownStable).AndNot(prev.Unknown.AndNot(prev.UnknownStable))
		if !becomeUnknown.IsEmpty() {
			return becomeUnknown, gens[i-1]
		}
	}

	return Grid{}, CurrentState{}
}
