package life

import (
	"time"
)

// completeStableStep is one frame of the branch-and-bound search that
// CompleteStable runs to turn a partially-unknown stable state into a
// concrete still life: it propagates, checks the deadline and the
// population bound, and otherwise guesses the cheapest remaining unknown
// cell and recurses on both values.
func (s *StableState) completeStableStep(deadline time.Time, minimise bool, maxPop *int, best *Grid) bool {
	if time.Now().After(deadline) {
		return false
	}

	if !s.PropagateStable().Consistent {
		return false
	}

	currentPop := s.State.Population()
	if currentPop >= *maxPop {
		return false
	}

	notTwoOrMoreUnknown := s.Unknown3.Not().And(s.Unknown2.Not()).AndNot(s.Unknown1.Not().And(s.Unknown0.Not()))
	if r := s.TestUnknownNeighbourhoods(notTwoOrMoreUnknown); !r.Consistent {
		return false
	} else if r.Changed {
		currentPop = s.State.Population()
		if currentPop >= *maxPop {
			return false
		}
	}

	next := s.State.Step()
	instabilities := s.State.Xor(next)
	if instabilities.IsEmpty() {
		*best = s.State
		*maxPop = s.State.Population()
		return true
	}

	if !minimise && instabilities.Population()+currentPop >= *maxPop {
		return false
	}

	settable := instabilities.ZOI().And(s.UnknownStable)

	pick, ok := firstOnOf(settable.And(s.Unknown1.AndNot(s.Unknown3).AndNot(s.Unknown2).AndNot(s.Unknown0)))
	if !ok {
		pick, ok = firstOnOf(settable.And(s.Unknown1.AndNot(s.Unknown3).AndNot(s.Unknown2).And(s.Unknown0)))
	}
	if !ok {
		pick, ok = firstOnOf(settable)
	}
	if !ok {
		return false
	}

	offResult := false
	{
		next := *s
		next.SetCell(pick, false)
		offResult = next.completeStableStep(deadline, minimise, maxPop, best)
	}
	if !minimise && offResult {
		return true
	}

	onResult := false
	{
		s.SetCell(pick, true)
		if currentPop == *maxPop-2 {
			s.UnknownStable = Grid{}
		}
		onResult = s.completeStableStep(deadline, minimise, maxPop, best)
	}

	return offResult || onResult
}

// CompleteStable turns a stable state with remaining unknown cells into a
// concrete still life by branch-and-bound search, widening the search
// area (by ZOI) each round until either a solution is found, the timeout
// elapses, or the whole state has been covered. It is deliberately kept
// as a standalone collaborator (not folded into the main search driver):
// the driver treats it as a black box with a wall-clock budget, called
// from reportSolution for each reported solution when StabiliseResults
// is set.
func (s StableState) CompleteStable(timeout time.Duration, minimise bool) (Grid, bool) {
	var best Grid
	maxPop := int(^uint(0) >> 1)
	searchArea := s.State
	deadline := time.Now().Add(timeout)

	for {
		searchArea = searchArea.ZOI()
		copy := s
		copy.UnknownStable = copy.UnknownStable.And(searchArea)
		copy.completeStableStep(deadline, minimise, &maxPop, &best)

		if best.Population() > 0 || time.Now().After(deadline) {
			break
		}
		if s.UnknownStable.AndNot(searchArea).IsEmpty() {
			break
		}
	}
	return best, best.Population() > 0
}

func firstOnOf(g Grid) (Cell, bool) {
	x, y, ok := g.FirstOn()
	if !ok {
		return Cell{}, false
	}
	return Cell{x, y}, true
}
