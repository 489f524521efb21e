package life

import (
	"sync/atomic"
	"time"

	"github.com/luke-kiernan/barrister/internal/obslog"
	"github.com/luke-kiernan/barrister/internal/rle"
)

// Stats accumulates the diagnostic counters the search driver reports,
// in the spirit of the teacher's logSearchStats: nodes visited, branches
// pruned by each kind of check, and solutions found so far.
type Stats struct {
	Nodes             int64
	Backtracks        int64
	Solutions         int64
	InconsistentStable int64
	AdvanceFailures   int64
	ConditionFailures int64
	Started           time.Time
}

// Solution is one reported catalyst: the pattern as given to the search
// plus its resolved stable background, and (when stabilisation is on)
// the completed still life.
type Solution struct {
	RLE          string
	CompletedRLE string
}

// SearchState holds everything one recursive branch of the search needs:
// the starting activator pattern, the stable background under
// construction, the current evolving trajectory, and the bookkeeping
// (ever-active set, interaction/recovery timers, pending focus cells)
// that TryAdvance and FindFocuses maintain as the branch runs forward.
type SearchState struct {
	Starting Grid
	Stable   StableState
	Current  CurrentState

	PendingFocuses  Grid
	FocusGeneration CurrentState
	EverActive      Grid

	CurrentGen      int
	HasInteracted   bool
	InteractionStart int
	RecoveredTime   int

	Params *Params
	Log    *obslog.Logger
	Stats  *Stats

	// Done is shared by every branch copy of this search tree. A
	// solution sets it when Params.ContinueAfterSuccess is false,
	// short-circuiting every pending recursive SearchStep call per
	// spec.md §7's "done marker" policy instead of unwinding with an
	// exception. It's an atomic.Bool rather than a plain bool because an
	// external signal handler (SIGINT) may also set it from outside the
	// search goroutine, asking the current branch to unwind early.
	Done *atomic.Bool

	// CellActiveStreak and CellActiveWindow track, per cell, the
	// generations it has spent active: streak counts a consecutive run
	// (reset the moment the cell recovers), window counts the total
	// across the whole trajectory including any gaps. Both stay nil
	// unless the matching Params bound is set, so the common case pays
	// nothing for them on every branch copy.
	CellActiveStreak *[Size * Size]uint8
	CellActiveWindow *[Size * Size]uint8

	// OnSolution is called (if set) whenever a winning trajectory is
	// found, in place of writing straight to stdout — the optional
	// progress server uses this hook to also push a live update.
	OnSolution func(Solution)
}

// NewSearchState builds the initial branch of a search from fully
// resolved Params (the config file's pattern plus every derived bound).
func NewSearchState(p *Params, log *obslog.Logger, stats *Stats) *SearchState {
	s := &SearchState{
		Starting: p.Starting.State.AndNot(p.Stable.State),
		Stable:   p.Stable,
		Params:   p,
		Log:      log,
		Stats:    stats,
		Done:     &atomic.Bool{},
	}
	if p.MaxCellActiveStreakGens >= 0 {
		s.CellActiveStreak = &[Size * Size]uint8{}
	}
	if p.MaxCellActiveWindowGens >= 0 {
		s.CellActiveWindow = &[Size * Size]uint8{}
	}
	return s
}

// Search kicks off the recursive branch-and-propagate driver from the
// top level, seeding Current from the starting pattern and the stable
// background it was built over.
func (s *SearchState) Search() {
	s.Current.State = s.Starting.Or(s.Stable.State)
	s.Current.Unknown = s.Stable.UnknownStable
	s.Current.UnknownStable = s.Stable.UnknownStable
	s.SearchStep()
}

// TransferStableToCurrent folds newly-resolved background cells forward.
func (s *SearchState) TransferStableToCurrent() {
	TransferStableToCurrent(&s.Current, &s.Stable)
}

// TryAdvanceOne steps the trajectory forward exactly one generation, and
// reports whether that generation came out fully known. It also
// maintains the interaction/recovery timers TryAdvance uses to decide
// when a catalyst has finished interacting with the activator pattern.
func (s *SearchState) TryAdvanceOne() bool {
	next := s.Current.UncertainStepMaintaining(s.Stable)
	fullyKnown := next.Unknown.Xor(next.UnknownStable).IsEmpty()
	if !fullyKnown {
		return false
	}

	if !s.HasInteracted {
		steppedWithoutStable := s.Current.State.AndNot(s.Stable.State).Step()
		if !next.State.Xor(steppedWithoutStable).IsEmpty() {
			s.HasInteracted = true
			s.InteractionStart = s.CurrentGen
		}
	}

	s.Current = next
	s.CurrentGen++

	if s.HasInteracted {
		stableZOI := s.Stable.State.ZOI()
		if s.Stable.State.Xor(s.Current.State).And(stableZOI).IsEmpty() {
			s.RecoveredTime++
		} else {
			s.RecoveredTime = 0
		}
	}

	return true
}

// TryAdvance repeatedly advances the trajectory, checking the activity
// bounds after every generation, until either the catalyst recovers (a
// winning trajectory, reported via OnSolution/stdout), a bound is
// exceeded, or a generation comes out not fully resolved.
func (s *SearchState) TryAdvance() bool {
	for s.TryAdvanceOne() {
		active := s.Current.ActiveComparedTo(s.Stable)
		s.EverActive = s.EverActive.Or(active)

		if !CheckActivityTiming(active, s.CurrentGen, s.HasInteracted, s.InteractionStart, s.Params) {
			s.Stats.ConditionFailures++
			return false
		}

		if !CheckConditionsOn(active, s.EverActive, s.Params) {
			s.Stats.ConditionFailures++
			return false
		}

		if !s.checkCellActivityCaps(active) {
			s.Stats.ConditionFailures++
			return false
		}

		if s.Params.HasStator && !CheckStator(s.Current, s.Params.Stator) {
			s.Stats.ConditionFailures++
			return false
		}

		if s.Params.HasFilter && !CheckFilters(s.Current, s.CurrentGen, s.Params.Filters) {
			s.Stats.ConditionFailures++
			return false
		}

		if s.Params.HasForbidden && !CheckForbidden(s.Current, s.Params.Forbiddens) {
			s.Stats.ConditionFailures++
			return false
		}

		if s.HasInteracted && s.RecoveredTime >= s.Params.MinStableInterval {
			s.reportSolution()
			return false
		}
	}
	s.Stats.AdvanceFailures++
	return true
}

func (s *SearchState) reportSolution() {
	if !RespectsSymmetry(s.Params.Symmetry, &s.Stable) {
		return
	}
	s.Stats.Solutions++

	state := s.Starting.Or(s.Stable.State)
	marked := s.Stable.UnknownStable.Or(s.Stable.State)
	sol := Solution{RLE: rle.EmitMarked(state, marked)}

	if s.Params.StabiliseResults {
		timeout := time.Duration(s.Params.StabiliseResultsTimeout) * time.Second
		if completed, ok := s.Stable.CompleteStable(timeout, s.Params.MinimiseResults); ok {
			sol.CompletedRLE = rle.Emit(completed.Or(s.Starting))
		}
	}

	if s.OnSolution != nil {
		s.OnSolution(sol)
	}
	if s.Log != nil {
		s.Log.Info("solution found", "generation", s.CurrentGen, "rle", sol.RLE)
	}

	if !s.Params.ContinueAfterSuccess && s.Done != nil {
		s.Done.Store(true)
	}
}

// SearchStep is the recursive constraint-propagation backtracking step:
// propagate the stable background to a fixpoint, advance the trajectory
// as far as the current information allows, look ahead to choose the
// next focus cell(s), then branch on the chosen cell's value. The
// second branch mutates the receiver in place instead of cloning it
// (tail-call style), so only one of the two children ever needs a copy.
func (s *SearchState) SearchStep() {
	if s.Done != nil && s.Done.Load() {
		return
	}
	s.Stats.Nodes++

	if s.PendingFocuses.IsEmpty() {
		if !s.Stable.PropagateStable().Consistent {
			s.Stats.InconsistentStable++
			return
		}

		s.TransferStableToCurrent()

		if !s.TryAdvance() {
			return
		}

		if s.Params.HasOracle && !CheckOracle(&s.Stable, &s.Params.Oracle) {
			return
		}

		lookahead := PopulateLookahead(s.Current, s.Stable)
		if !CheckConditions(lookahead, s.Stable, &s.EverActive, s.Params) {
			return
		}

		if s.Params.DeepPropagate {
			if !s.Stable.TestUnknowns(s.Stable.UnknownStable).Consistent {
				return
			}
		}

		s.PendingFocuses, s.FocusGeneration = FindFocuses(lookahead, s.EverActive, &s.Stable, s.Params)
	}

	fx, fy, ok := s.PendingFocuses.FirstOn()
	if !ok {
		// Lookahead found something to resolve but FindFocuses came back
		// empty: nothing left to branch on in this generation window.
		return
	}
	focus := Cell{fx, fy}

	image := ImageCell(s.Params.Symmetry, focus)

	if s.FocusGeneration.KnownNext(focus) {
		s.PendingFocuses.Erase(fx, fy)
		s.PendingFocuses.Erase(image.X, image.Y)
		s.SearchStep()
		return
	}

	cell, ok := s.Stable.UnknownNeighbour(focus)
	if !ok {
		s.PendingFocuses.Erase(fx, fy)
		s.PendingFocuses.Erase(image.X, image.Y)
		s.SearchStep()
		return
	}

	{
		branch := *s
		branch.deepCopyCellCounters(s)
		if branch.setCellSymmetric(cell, true) {
			if branch.Stable.PropagateColumn(cell.X).Consistent && branch.quickFilterPasses() {
				s.Stats.Backtracks++
				branch.SearchStep()
			}
		}
	}
	if (s.Done == nil || !s.Done.Load()) && s.setCellSymmetric(cell, false) {
		if s.Stable.PropagateColumn(cell.X).Consistent && s.quickFilterPasses() {
			s.SearchStep()
		}
	}
}

// quickFilterPasses takes one conservative UncertainStep from the updated
// focus-generation snapshot and runs spec.md §4.4's population/bounding-box
// checks against it, so a branch that's already doomed gets pruned before
// paying for a full PropagateStable/TryAdvance/FindFocuses pass. Mirrors
// TryAdvanceOne's fullyKnown gate: a generation with residual
// UNKNOWN-ACTIVE cells hasn't settled its active set yet, so there's
// nothing reliable to check it against and the branch is let through.
func (s *SearchState) quickFilterPasses() bool {
	next := s.FocusGeneration.UncertainStepMaintaining(s.Stable)
	fullyKnown := next.Unknown.Xor(next.UnknownStable).IsEmpty()
	if !fullyKnown {
		return true
	}
	active := next.ActiveComparedTo(s.Stable)
	everActive := s.EverActive.Or(active)
	return CheckConditionsOn(active, everActive, s.Params)
}

// deepCopyCellCounters gives a freshly struct-copied branch its own
// per-cell counters instead of aliasing the parent's, since a plain `*s`
// copy only duplicates the pointers.
func (s *SearchState) deepCopyCellCounters(parent *SearchState) {
	if parent.CellActiveStreak != nil {
		streak := *parent.CellActiveStreak
		s.CellActiveStreak = &streak
	}
	if parent.CellActiveWindow != nil {
		window := *parent.CellActiveWindow
		s.CellActiveWindow = &window
	}
}

// checkCellActivityCaps applies spec.md §6's max-cell-active-window and
// max-cell-active-streak bounds, advancing the per-cell counters for
// this generation as it goes. streak resets to zero the instant a cell
// is no longer active; window keeps accumulating (capped at 255) for as
// long as the cell has ever been active, counting through any gaps.
func (s *SearchState) checkCellActivityCaps(active Grid) bool {
	if s.CellActiveStreak == nil && s.CellActiveWindow == nil {
		return true
	}
	ok := true
	for x := 0; x < Size; x++ {
		col := active[x]
		for y := 0; y < Size; y++ {
			idx := x*Size + y
			isActive := col&(uint64(1)<<uint(y)) != 0

			if s.CellActiveStreak != nil {
				if !isActive {
					s.CellActiveStreak[idx] = 0
				} else {
					if s.CellActiveStreak[idx] < 255 {
						s.CellActiveStreak[idx]++
					}
					if int(s.CellActiveStreak[idx]) > s.Params.MaxCellActiveStreakGens {
						ok = false
					}
				}
			}

			if s.CellActiveWindow != nil && isActive {
				if s.CellActiveWindow[idx] < 255 {
					s.CellActiveWindow[idx]++
				}
				if int(s.CellActiveWindow[idx]) > s.Params.MaxCellActiveWindowGens {
					ok = false
				}
			}
		}
	}
	return ok
}

// setCellSymmetric assigns cell in the stable background and, when a
// non-identity symmetry is configured, mirrors the same assignment onto
// cell's image under the transform. Per the source's own ambiguity on
// this point, a write to an already-determined image cell is treated as
// a consistency check rather than re-asserted: if the existing value
// disagrees with the one being written, the branch fails.
func (s *SearchState) setCellSymmetric(cell Cell, value bool) bool {
	s.Stable.SetCell(cell, value)
	s.FocusGeneration.ResolveCell(cell, value)

	if s.Params.Symmetry == TransformIdentity {
		return true
	}
	image := ImageCell(s.Params.Symmetry, cell)
	if image == cell {
		return true
	}
	if s.Stable.UnknownStable.Get(image.X, image.Y) {
		s.Stable.SetCell(image, value)
		s.FocusGeneration.ResolveCell(image, value)
		return true
	}
	return s.Stable.State.Get(image.X, image.Y) == value
}
