package life

import "github.com/luke-kiernan/barrister/internal/bitgrid"

// PropagateResult reports the outcome of a propagation pass.
type PropagateResult struct {
	Consistent   bool
	Changed      bool
	EdgesChanged bool
}

func inconsistent() PropagateResult { return PropagateResult{} }

// StableState holds the three-valued stable background: for every cell,
// State records ON/OFF and UnknownStable records whether that value is
// still undetermined. State2/State1/State0 and Unknown3..Unknown0 are
// maintained neighbour-count bit-planes, kept in step with State and
// UnknownStable by SetCell so the propagator never has to recompute them
// from scratch except when doing a full PropagateStableStep.
//
// Glanced and GlancedON are optional pruning planes: a glanced OFF cell
// has at most one ON neighbour, a glancedON OFF cell has at least two.
// Both default to the empty grid, which makes every term that reads them
// vanish, so callers that never populate them pay no correctness cost.
type StableState struct {
	State         Grid
	StateZOI      Grid
	UnknownStable Grid
	Glanced       Grid
	GlancedON     Grid

	State2, State1, State0          Grid
	Unknown3, Unknown2, Unknown1, Unknown0 Grid
}

// SetCell assigns a previously-unknown cell and incrementally updates the
// neighbour-count planes of every cell in its Moore neighbourhood.
func (s *StableState) SetCell(c Cell, which bool) {
	s.State.SetCellUnsafe(c.X, c.Y, which)
	s.UnknownStable.Erase(c.X, c.Y)

	for _, n := range bitgrid.NeighbourhoodCells(c.X, c.Y) {
		x, y := n[0], n[1]
		switch {
		case s.Unknown0.Get(x, y):
			s.Unknown0.Erase(x, y)
		case s.Unknown1.Get(x, y):
			s.Unknown1.Erase(x, y)
			s.Unknown0.Set(x, y)
		case s.Unknown2.Get(x, y):
			s.Unknown2.Erase(x, y)
			s.Unknown1.Set(x, y)
			s.Unknown0.Set(x, y)
		case s.Unknown3.Get(x, y):
			s.Unknown3.Erase(x, y)
			s.Unknown2.Set(x, y)
			s.Unknown1.Set(x, y)
			s.Unknown0.Set(x, y)
		}
	}

	if which {
		for _, n := range bitgrid.NeighbourhoodCells(c.X, c.Y) {
			x, y := n[0], n[1]
			switch {
			case !s.State0.Get(x, y):
				s.State0.Set(x, y)
			case !s.State1.Get(x, y):
				s.State1.Set(x, y)
				s.State0.Erase(x, y)
			case !s.State2.Get(x, y):
				s.State2.Set(x, y)
				s.State1.Erase(x, y)
				s.State0.Erase(x, y)
			}
		}
	}
}

// stableCore evaluates the five autogenerated output terms shared by both
// PropagateColumnStep and PropagateStableStep: setOff/setOn assign an
// unknown cell, signalOff/signalOn propagate to the whole neighbourhood,
// and abort marks the neighbourhood as inconsistent. These are the exact
// terms of the stable-state constraint system and are not meant to be
// read as "obvious" boolean algebra — they were derived mechanically from
// the B3/S23 transition table over a 9-cell sum that includes the centre
// cell itself (stateon distinguishes self ON from self OFF).
func stableCore(on2, on1, on0, unk1, unk0, stateon, stateunk, glanced, glancedON uint64) (setOff, setOn, signalOff, signalOn, abort uint64) {
	setOff |= on2
	setOff |= (^on1) & ((^unk1) | ((^on0) & (^unk0)))
	setOn |= (^on2) & on1 & on0 & (^unk1)
	abort |= stateon & on2 & (on1 | on0)
	abort |= stateon & (^on1) & on0 & (^unk1)
	abort |= on1 & (^unk1) & (^unk0) & (((^stateon) & (^on2) & on0) | (stateon & (^on0)))
	signalOff |= (^stateunk) & (^stateon) & (^on2) & on1 & (^on0) & (^unk1) & unk0
	signalOff |= stateon & (^on1) & (((^on0) & unk1) | ((^unk1) & unk0))
	signalOn |= (^stateunk) & (^stateon) & (^on2) & on1 & on0 & (^unk1)
	signalOn |= stateon & on1 & (^on0) & (^unk1)
	signalOn |= stateon & (^on1) & on0 & (^unk0)

	// A glanced cell with an ON neighbour.
	signalOff |= glanced & (^on2) & (^on1) & on0
	// A glanced cell with too many neighbours.
	abort |= glanced & (on2 | on1)
	// A glanced cell that is ON.
	abort |= glanced & stateon

	return
}

// glanceONCore mirrors the glancedON-specific terms of the autogenerated
// block, which need the wider unk3/unk2 planes that stableCore doesn't
// take (every term is zero while the GlancedON plane is empty).
func glanceONCore(on2, on1, on0, unk3, unk2, unk1, unk0, stateon, glancedON uint64) (signalOn, abort uint64) {
	signalOn |= glancedON & (^unk3) & (^unk2) & (^on2) & (^on1) & (((^unk1) & unk0 & on0) | (unk1 & (^unk0) & (^on0)))
	abort |= glancedON & (^unk3) & (^unk2) & (^unk1) & (^on2) & (^on1) & (((^unk0) & (^on0)) | (unk0 & (^on0)) | ((^unk0) & on0))
	abort |= glancedON & stateon
	return
}

// PropagateColumnStep runs one fixpoint iteration of the propagator
// restricted to a single column's +-2 neighbourhood, used by the
// trial-propagation helpers (TestUnknowns and friends) where touching the
// whole grid would be wasteful.
func (s *StableState) PropagateColumnStep(column int) PropagateResult {
	var nearbyStable, nearbyUnknown, nearbyGlanced, nearbyGlancedON [6]uint64
	for i := 0; i < 6; i++ {
		c := wrapN(column + i - 2)
		nearbyStable[i] = s.State[c]
		nearbyUnknown[i] = s.UnknownStable[c]
		nearbyGlanced[i] = s.Glanced[c]
		nearbyGlancedON[i] = s.GlancedON[c]
	}

	var oncol0, oncol1, unkcol0, unkcol1 [6]uint64
	for i := 0; i < 6; i++ {
		a := nearbyStable[i]
		l, r := bitgrid.RotateUp(a), bitgrid.RotateDown(a)
		oncol0[i] = l ^ r ^ a
		oncol1[i] = ((l ^ r) & a) | (l & r)
	}
	for i := 0; i < 6; i++ {
		a := nearbyUnknown[i]
		l, r := bitgrid.RotateUp(a), bitgrid.RotateDown(a)
		unkcol0[i] = l ^ r ^ a
		unkcol1[i] = ((l ^ r) & a) | (l & r)
	}

	var newOff, newOn, signalsOff, signalsOn [6]uint64
	var signalledOff, signalledOn [6]uint64
	var abort uint64

	for i := 1; i < 5; i++ {
		idxU, idxB := i-1, i+1

		ucOn0, ucCarry0 := bitgrid.HalfAdd(oncol0[idxU], oncol0[i])
		ucOn1, ucOn2 := bitgrid.FullAdd(oncol1[idxU], oncol1[i], ucCarry0)
		on0, onCarry0 := bitgrid.HalfAdd(ucOn0, oncol0[idxB])
		on1, onCarry1 := bitgrid.FullAdd(ucOn1, oncol1[idxB], onCarry0)
		on2, on3 := bitgrid.HalfAdd(ucOn2, onCarry1)
		on2 |= on3
		on1 |= on3
		on0 |= on3

		ucUnk0, ucUnkCarry0 := bitgrid.HalfAdd(unkcol0[idxU], unkcol0[i])
		ucUnk1, ucUnk2 := bitgrid.FullAdd(unkcol1[idxU], unkcol1[i], ucUnkCarry0)
		unk0, unkCarry0 := bitgrid.HalfAdd(ucUnk0, unkcol0[idxB])
		unk1, unkCarry1 := bitgrid.FullAdd(ucUnk1, unkcol1[idxB], unkCarry0)
		unk2, unk3 := bitgrid.HalfAdd(ucUnk2, unkCarry1)
		unk1 |= unk2 | unk3
		unk0 |= unk2 | unk3

		stateon := nearbyStable[i]
		stateunk := nearbyUnknown[i]
		gl := nearbyGlanced[i]
		dr := nearbyGlancedON[i]

		setOff, setOn, signalOff, signalOn, ab := stableCore(on2, on1, on0, unk1, unk0, stateon, stateunk, gl, dr)
		abort |= ab
		extraOn, extraAbort := glanceONCore(on2, on1, on0, unk3, unk2, unk1, unk0, stateon, dr)
		signalOn |= extraOn
		abort |= extraAbort

		newOff[i] = setOff & stateunk
		newOn[i] = setOn & stateunk
		signalsOff[i] = signalOff & (unk0 | unk1)
		signalsOn[i] = signalOn & (unk0 | unk1)
	}

	if abort != 0 {
		return inconsistent()
	}

	for i := 1; i < 5; i++ {
		smearOff := bitgrid.RotateUp(signalsOff[i]) | signalsOff[i] | bitgrid.RotateDown(signalsOff[i])
		signalledOff[i-1] |= smearOff
		signalledOff[i] |= smearOff
		signalledOff[i+1] |= smearOff

		smearOn := bitgrid.RotateUp(signalsOn[i]) | signalsOn[i] | bitgrid.RotateDown(signalsOn[i])
		signalledOn[i-1] |= smearOn
		signalledOn[i] |= smearOn
		signalledOn[i+1] |= smearOn
	}

	var overlaps uint64
	for i := 0; i < 6; i++ {
		overlaps |= nearbyUnknown[i] & signalledOff[i] & signalledOn[i]
	}
	if overlaps != 0 {
		return inconsistent()
	}

	for i := 1; i < 5; i++ {
		orig := wrapN(column + i - 2)
		s.State[orig] |= newOn[i]
		s.UnknownStable[orig] &^= newOff[i]
		s.UnknownStable[orig] &^= newOn[i]
	}
	for i := 0; i < 6; i++ {
		orig := wrapN(column + i - 2)
		s.State[orig] |= signalledOn[i] & nearbyUnknown[i]
		s.UnknownStable[orig] &^= signalledOn[i]
		s.UnknownStable[orig] &^= signalledOff[i]
	}

	var unknownChanges, edgeChanges uint64
	for i := 0; i < 6; i++ {
		orig := wrapN(column + i - 2)
		delta := s.UnknownStable[orig] ^ nearbyUnknown[i]
		unknownChanges |= delta
		if i == 0 || i == 1 || i == 4 || i == 5 {
			edgeChanges |= delta
		}
	}

	return PropagateResult{true, unknownChanges != 0, edgeChanges != 0}
}

// UpdateZOIColumn ORs the dilation of columns column-1 through column+2
// into StateZOI at those same four columns. It does not cover cells
// PropagateColumnStep turns ON in columns column-2 and column+3;
// PropagateStable recomputes StateZOI over the whole grid.
func (s *StableState) UpdateZOIColumn(column int) {
	var temp [4]uint64
	for i := 0; i < 4; i++ {
		c := wrapN(column + i - 1)
		col := s.State[c]
		temp[i] = col | bitgrid.RotateUp(col) | bitgrid.RotateDown(col)
	}
	s.StateZOI[wrapN(column-1)] |= temp[0] | temp[1]
	for i := 1; i < 3; i++ {
		s.StateZOI[wrapN(column+i-1)] |= temp[i-1] | temp[i] | temp[i+1]
	}
	s.StateZOI[wrapN(column+2)] |= temp[2] | temp[3]
}

// PropagateColumn runs PropagateColumnStep to a fixpoint for one column.
func (s *StableState) PropagateColumn(column int) PropagateResult {
	changed, edgesChanged := false, false
	for {
		r := s.PropagateColumnStep(column)
		if !r.Consistent {
			return inconsistent()
		}
		if r.Changed {
			changed = true
		}
		if r.EdgesChanged {
			edgesChanged = true
		}
		if !r.Changed {
			break
		}
	}
	s.UpdateZOIColumn(column)
	return PropagateResult{true, changed, edgesChanged}
}

// PropagateStableStep runs one whole-grid propagation pass, recomputing
// the neighbour-count planes from scratch rather than incrementally.
func (s *StableState) PropagateStableStep() PropagateResult {
	startUnknown := s.UnknownStable

	s.State2, s.State1, s.State0 = bitgrid.CountNeighbourhood(s.State)
	s.Unknown2, s.Unknown1, s.Unknown0 = bitgrid.CountNeighbourhood(s.UnknownStable)
	s.Unknown3 = Grid{}

	var newOff, newOn, newSignalOff, newSignalOn Grid
	var hasSetOff, hasSetOn, hasSignalOff, hasSignalOn, hasAbort uint64

	for i := 0; i < bitgrid.Size; i++ {
		on2, on1, on0 := s.State2[i], s.State1[i], s.State0[i]
		unk3, unk2, unk1, unk0 := s.Unknown3[i], s.Unknown2[i], s.Unknown1[i], s.Unknown0[i]
		unk1 |= unk2 | unk3
		unk0 |= unk2 | unk3

		stateon := s.State[i]
		stateunk := s.UnknownStable[i]
		gl := s.Glanced[i]
		dr := s.GlancedON[i]

		setOff, setOn, signalOff, signalOn, abort := stableCore(on2, on1, on0, unk1, unk0, stateon, stateunk, gl, dr)
		extraOn, extraAbort := glanceONCore(on2, on1, on0, unk3, unk2, unk1, unk0, stateon, dr)
		signalOn |= extraOn
		abort |= extraAbort

		signalOff &= unk0 | unk1
		signalOn &= unk0 | unk1

		newOff[i] = setOff & stateunk
		newOn[i] = setOn & stateunk
		newSignalOff[i] = signalOff
		newSignalOn[i] = signalOn

		hasSetOff |= setOff
		hasSetOn |= setOn
		hasSignalOff |= signalOff
		hasSignalOn |= signalOn
		hasAbort |= abort
	}

	if hasAbort != 0 {
		return inconsistent()
	}

	if hasSetOn != 0 {
		s.State = s.State.Or(newOn)
		s.UnknownStable = s.UnknownStable.AndNot(newOn)
	}
	if hasSetOff != 0 {
		s.UnknownStable = s.UnknownStable.AndNot(newOff)
	}

	var offZOI, onZOI Grid
	if hasSignalOff != 0 {
		offZOI = newSignalOff.ZOI()
	}
	if hasSignalOn != 0 {
		onZOI = newSignalOn.ZOI()
	}
	if hasSignalOn != 0 && hasSignalOff != 0 {
		if !onZOI.And(offZOI).And(s.UnknownStable).IsEmpty() {
			return inconsistent()
		}
	}
	if hasSignalOff != 0 {
		s.UnknownStable = s.UnknownStable.AndNot(offZOI)
	}
	if hasSignalOn != 0 {
		s.State = s.State.Or(onZOI.And(s.UnknownStable))
		s.UnknownStable = s.UnknownStable.AndNot(onZOI)
	}

	changed := s.UnknownStable != startUnknown
	return PropagateResult{true, changed, changed}
}

// PropagateStable runs PropagateStableStep to a fixpoint.
func (s *StableState) PropagateStable() PropagateResult {
	changed := false
	for {
		r := s.PropagateStableStep()
		if !r.Consistent {
			return inconsistent()
		}
		if r.Changed {
			changed = true
		}
		if !r.Changed {
			break
		}
	}
	s.StateZOI = s.State.ZOI()
	return PropagateResult{true, changed, changed}
}

// UnknownNeighbour returns an unknown cell in the Moore neighbourhood of c.
func (s *StableState) UnknownNeighbour(c Cell) (Cell, bool) {
	x, y, ok := s.UnknownStable.FindSetNeighbour(c.X, c.Y)
	return Cell{x, y}, ok
}

// TestUnknowns tries setting each of the given cells both ON and OFF and
// keeps whichever branches stay consistent, propagating the common ground
// between both branches back into s. This is strictly more thorough (and
// more expensive) than PropagateStable alone.
func (s *StableState) TestUnknowns(cells Grid) PropagateResult {
	remaining := cells
	changed := false

	for !remaining.IsEmpty() {
		x, y, _ := remaining.FirstOn()
		cell := Cell{x, y}
		remaining.Erase(x, y)

		onSearch := *s
		onSearch.SetCell(cell, true)
		onResult := onSearch.PropagateColumn(cell.X)

		offSearch := *s
		offSearch.SetCell(cell, false)
		offResult := offSearch.PropagateColumn(cell.X)

		switch {
		case !onResult.Consistent && !offResult.Consistent:
			return inconsistent()
		case onResult.Consistent && !offResult.Consistent:
			*s = onSearch
			changed = true
		case !onResult.Consistent && offResult.Consistent:
			*s = offSearch
			changed = true
		case onResult.Changed && offResult.Changed:
			agreement := s.UnknownStable.
				AndNot(onSearch.UnknownStable).
				AndNot(offSearch.UnknownStable).
				AndNot(onSearch.State.Xor(offSearch.State))
			if !agreement.IsEmpty() {
				s.State = s.State.Or(agreement.And(onSearch.State))
				s.UnknownStable = s.UnknownStable.AndNot(agreement)
				changed = true
			}
		}

		remaining = remaining.And(s.UnknownStable)
	}

	if changed {
		return PropagateResult{s.PropagateStable().Consistent, true, true}
	}
	return PropagateResult{true, false, false}
}

// TestUnknownNeighbourhood recursively tries both values of every unknown
// cell within one step of centre, accepting whichever assignments are
// common to every consistent combination. Used by stable completion where
// the extra cost buys a much tighter search.
func (s *StableState) TestUnknownNeighbourhood(centre Cell) PropagateResult {
	remaining := bitgrid.CellZOI(centre.X, centre.Y).And(s.UnknownStable)
	changed := false

	for !remaining.IsEmpty() {
		x, y, _ := remaining.FirstOn()
		cell := Cell{x, y}
		remaining.Erase(x, y)

		onSearch := *s
		onSearch.SetCell(cell, true)
		onResult := onSearch.PropagateColumn(cell.X)
		onChanged := onResult.Changed
		if onResult.Consistent {
			onResult = onSearch.TestUnknownNeighbourhood(centre)
			onChanged = onChanged || onResult.Changed
		}

		offSearch := *s
		offSearch.SetCell(cell, false)
		offResult := offSearch.PropagateColumn(cell.X)
		offChanged := offResult.Changed
		if offResult.Consistent {
			offResult = offSearch.TestUnknownNeighbourhood(centre)
			offChanged = offChanged || offResult.Changed
		}

		switch {
		case !onResult.Consistent && !offResult.Consistent:
			return inconsistent()
		case onResult.Consistent && !offResult.Consistent:
			*s = onSearch
			changed = true
		case !onResult.Consistent && offResult.Consistent:
			*s = offSearch
			changed = true
		case onChanged && offChanged:
			agreement := s.UnknownStable.
				AndNot(onSearch.UnknownStable).
				AndNot(offSearch.UnknownStable).
				AndNot(onSearch.State.Xor(offSearch.State))
			if !agreement.IsEmpty() {
				s.State = s.State.Or(agreement.And(onSearch.State))
				s.UnknownStable = s.UnknownStable.AndNot(agreement)
				changed = true
			}
		}

		remaining = remaining.And(s.UnknownStable)
	}

	if changed {
		return PropagateResult{s.PropagateStable().Consistent, true, true}
	}
	return PropagateResult{true, false, false}
}

// TestUnknownNeighbourhoods applies TestUnknownNeighbourhood to every cell
// in cells.
func (s *StableState) TestUnknownNeighbourhoods(cells Grid) PropagateResult {
	remaining := cells
	changed := false
	for !remaining.IsEmpty() {
		x, y, _ := remaining.FirstOn()
		remaining.Erase(x, y)
		r := s.TestUnknownNeighbourhood(Cell{x, y})
		if !r.Consistent {
			return inconsistent()
		}
		changed = changed || r.Changed
	}
	return PropagateResult{true, changed, changed}
}

// Vulnerable returns the unknown cells with exactly one unknown neighbour
// — the cheapest ones for a focus-selection heuristic to branch on next,
// since resolving them tends to cascade.
func (s *StableState) Vulnerable() Grid {
	oneUnknownNeighbour := s.Unknown1.AndNot(s.Unknown0).AndNot(s.Unknown3).AndNot(s.Unknown2)
	return s.UnknownStable.And(oneUnknownNeighbour)
}

func wrapN(v int) int {
	v %= bitgrid.Size
	if v < 0 {
		v += bitgrid.Size
	}
	return v
}
