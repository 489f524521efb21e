package life

// FilterType selects how a Filter is matched against a trajectory.
type FilterType int

const (
	// FilterExact requires the marked cells to match a single generation.
	FilterExact FilterType = iota
	// FilterEver requires the marked cells to match at every generation.
	FilterEver
)

// Filter constrains the search so that, at generation Gen (or at any
// generation if Type is FilterEver), the cells under Mask must equal State.
// A FilterEver entry fails at the first generation where they differ.
type Filter struct {
	Mask  Grid
	State Grid
	Gen   int
	Type  FilterType
}

// Forbidden rules out any trajectory where, at any generation, the cells
// under Mask equal State.
type Forbidden struct {
	Mask  Grid
	State Grid
}

// Range is an inclusive [Min, Max] bound; Max < 0 means unbounded.
type Range struct {
	Min, Max int
}

// Contains reports whether n falls within the range, honouring -1 as
// "no bound" on either side.
func (r Range) Contains(n int) bool {
	if r.Min >= 0 && n < r.Min {
		return false
	}
	if r.Max >= 0 && n > r.Max {
		return false
	}
	return true
}

// BoxBound caps a cell set's bounding-box width and height independently
// (spec.md §6's active-bounds/ever-active-bounds [w,h] pair); either
// dimension set to -1 disables that dimension's check.
type BoxBound struct {
	W, H int
}

// Exceeds reports whether a w×h bounding box violates this bound.
func (b BoxBound) Exceeds(w, h int) bool {
	if b.W >= 0 && w > b.W {
		return true
	}
	if b.H >= 0 && h > b.H {
		return true
	}
	return false
}

// Params is the fully-resolved, immutable search configuration: the
// derived form of the declarative config file, built once by
// internal/config and never mutated during a search.
type Params struct {
	FirstActiveGen   Range
	ActiveWindowGens Range
	MinStableInterval int

	MaxActiveCells int
	ActiveBounds   BoxBound

	MaxEverActiveCells int
	EverActiveBounds   BoxBound

	// MaxCellActiveWindowGens and MaxCellActiveStreakGens bound, per
	// cell, how long it may remain part of the active set: window caps
	// the cumulative generations a cell has ever been active (gaps
	// included), streak caps a single consecutive run. -1 disables
	// either bound; SearchState only allocates the matching counters
	// when one is set.
	MaxCellActiveWindowGens int
	MaxCellActiveStreakGens int

	Starting  CurrentState
	Stable    StableState
	Stator    Grid
	HasStator bool

	HasFilter bool
	Filters   []Filter

	HasForbidden bool
	Forbiddens   []Forbidden

	StabiliseResults        bool
	StabiliseResultsTimeout int
	MinimiseResults         bool
	ContinueAfterSuccess    bool
	PrintSummary            bool
	PipeResults             bool

	Debug bool

	HasOracle bool
	Oracle    StableState

	// Symmetry, when non-identity, requires every branch assignment to the
	// stable state to be mirrored onto its image cell under the transform.
	// Cells resolved by propagation are not mirrored; reportSolution drops
	// any solution whose stable state is not invariant under the transform.
	Symmetry Transform

	// DeepPropagate enables TestUnknowns before every branch decision
	// instead of only during stable completion. Off by default: it is
	// strictly stronger but much more expensive per node.
	DeepPropagate bool

	// GlanceTracking carries the glance-tracking config key. Nothing in the
	// search reads it, and nothing populates StableState's Glanced/GlancedON
	// planes, so those planes stay empty whatever its value.
	GlanceTracking bool
}
