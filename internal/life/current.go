package life

import "github.com/luke-kiernan/barrister/internal/bitgrid"

// CurrentState is the four-valued evolving trajectory: every cell is
// ON, OFF, UNKNOWN-STABLE (its value tracks the stable background and
// only changes if the background itself gets resolved), or
// UNKNOWN-ACTIVE (genuinely undetermined this generation, to be pinned
// down by focus selection). State holds a best-effort guess for
// uncertain cells; Unknown marks which cells aren't certain; and
// UnknownStable (a subset of Unknown) marks the ones that are
// shadowing an unresolved background cell rather than being actively
// uncertain.
type CurrentState struct {
	State         Grid
	Unknown       Grid
	UnknownStable Grid
}

// TransferStableToCurrent folds newly-resolved background cells into
// the current generation: wherever the background just went from
// unknown to known, current adopts that value and drops its own
// uncertainty there.
func TransferStableToCurrent(current *CurrentState, stable *StableState) {
	updated := current.UnknownStable.AndNot(stable.UnknownStable)
	current.State = current.State.Or(stable.State.And(updated))
	current.Unknown = current.Unknown.AndNot(updated)
	current.UnknownStable = current.UnknownStable.AndNot(updated)
}

// UncertainStepMaintaining advances one generation under uncertainty,
// using interval (min/max possible neighbour count) arithmetic: a cell's
// next value is only certain when every assignment of its unknown
// neighbours' values agrees on the B3/S23 outcome. The stable background
// does not narrow that interval; it only decides which of next's unknown
// cells stay UNKNOWN-STABLE.
func (c CurrentState) UncertainStepMaintaining(stable StableState) CurrentState {
	knownOn := c.State.AndNot(c.Unknown)
	onB2, onB1, onB0 := bitgrid.CountNeighbourhood(knownOn)
	unkB2, unkB1, unkB0 := bitgrid.CountNeighbourhood(c.Unknown)

	var next CurrentState
	for i := 0; i < bitgrid.Size; i++ {
		// CountNeighbourhood's sum includes the centre cell itself; strip
		// it back out so minCount/maxCount are true 8-neighbour counts.
		minCount, maxCount := intervalFromPlanes(
			onB2[i], onB1[i], onB0[i], unkB2[i], unkB1[i], unkB0[i],
			knownOn[i], c.Unknown[i],
		)

		selfCertain := ^c.Unknown[i]
		selfOn := c.State[i] & selfCertain
		selfOff := (^c.State[i]) & selfCertain
		selfUnknown := c.Unknown[i]

		var nextOn, nextOff uint64
		for bit := 0; bit < 64; bit++ {
			mask := uint64(1) << uint(bit)
			lo, hi := minCount[bit], maxCount[bit]

			aliveOutcome := aliveSurvives(lo, hi)
			deadOutcome := deadBirths(lo, hi)

			switch {
			case selfOn&mask != 0:
				nextOn |= certainBit(aliveOutcome, mask, true)
				nextOff |= certainBit(aliveOutcome, mask, false)
			case selfOff&mask != 0:
				nextOn |= certainBit(deadOutcome, mask, true)
				nextOff |= certainBit(deadOutcome, mask, false)
			case selfUnknown&mask != 0:
				if aliveOutcome == deadOutcome {
					nextOn |= certainBit(aliveOutcome, mask, true)
					nextOff |= certainBit(aliveOutcome, mask, false)
				}
			}
		}

		next.State[i] = nextOn
		next.Unknown[i] = ^(nextOn | nextOff)
		// A cell stays background-shadowed in the next generation only if
		// it was already unresolved there and remains genuinely undecided.
		next.UnknownStable[i] = c.UnknownStable[i] & next.Unknown[i] & stable.UnknownStable[i]
	}
	return next
}

// cellOutcome is a tri-state verdict for a single candidate assignment:
// outcomeOn means every consistent assignment makes the cell ON next
// generation, outcomeOff means every one makes it OFF, and
// outcomeUnknown means both are possible.
type cellOutcome int

const (
	outcomeUnknown cellOutcome = iota
	outcomeOn
	outcomeOff
)

func aliveSurvives(lo, hi int) cellOutcome {
	if lo >= 2 && hi <= 3 {
		return outcomeOn
	}
	if hi < 2 || lo > 3 {
		return outcomeOff
	}
	return outcomeUnknown
}

func deadBirths(lo, hi int) cellOutcome {
	if lo == 3 && hi == 3 {
		return outcomeOn
	}
	if hi < 3 || lo > 3 {
		return outcomeOff
	}
	return outcomeUnknown
}

func certainBit(o cellOutcome, mask uint64, wantOn bool) uint64 {
	if wantOn && o == outcomeOn {
		return mask
	}
	if !wantOn && o == outcomeOff {
		return mask
	}
	return 0
}

// intervalFromPlanes decodes two saturating 3-bit-plane counts (0..7,
// folded at 7) into per-bit [min, max] neighbour count arrays. selfOn and
// selfUnknown are the centre cell's own contribution to each sum (since
// CountNeighbourhood counts the 3x3 block including the centre), and are
// subtracted back out so the result is an 8-neighbour count.
func intervalFromPlanes(onB2, onB1, onB0, unkB2, unkB1, unkB0, selfOn, selfUnknown uint64) (lo, hi [64]int) {
	for bit := 0; bit < 64; bit++ {
		mask := uint64(1) << uint(bit)
		known := planeValue(onB2, onB1, onB0, mask)
		unk := planeValue(unkB2, unkB1, unkB0, mask)
		if selfOn&mask != 0 {
			known--
		}
		if selfUnknown&mask != 0 {
			unk--
		}
		lo[bit] = known
		hi[bit] = known + unk
		if hi[bit] > 8 {
			hi[bit] = 8
		}
	}
	return
}

func planeValue(b2, b1, b0, mask uint64) int {
	v := 0
	if b2&mask != 0 {
		v += 4
	}
	if b1&mask != 0 {
		v += 2
	}
	if b0&mask != 0 {
		v += 1
	}
	return v
}

// ActiveComparedTo returns the cells where current's best-known value
// differs from the frozen stable background, masking out every cell
// that's still unresolved (spec.md's active(current, stable) =
// (current.state ⊕ stable.state) & ¬current.unknown): an UNKNOWN-ACTIVE
// cell's best-effort guess isn't a settled value yet, so it must not be
// counted as active either way until it resolves.
func (c CurrentState) ActiveComparedTo(stable StableState) Grid {
	return c.State.Xor(stable.State).AndNot(c.Unknown)
}

// KnownNext reports whether the next-generation value of cell is
// determined by this generation regardless of how its own remaining
// uncertainty resolves.
func (c CurrentState) KnownNext(cell Cell) bool {
	x, y := cell.X, cell.Y
	knownOn := c.State.AndNot(c.Unknown)
	onB2, onB1, onB0 := bitgrid.CountNeighbourhood(knownOn)
	unkB2, unkB1, unkB0 := bitgrid.CountNeighbourhood(c.Unknown)

	known := planeValue(mustBit(onB2, x, y), mustBit(onB1, x, y), mustBit(onB0, x, y), 1)
	unk := planeValue(mustBit(unkB2, x, y), mustBit(unkB1, x, y), mustBit(unkB0, x, y), 1)
	if knownOn.Get(x, y) {
		known--
	}
	if c.Unknown.Get(x, y) {
		unk--
	}
	lo, hi := known, known+unk
	if hi > 8 {
		hi = 8
	}

	if !c.Unknown.Get(x, y) {
		if c.State.Get(x, y) {
			return aliveSurvives(lo, hi) != outcomeUnknown
		}
		return deadBirths(lo, hi) != outcomeUnknown
	}
	return aliveSurvives(lo, hi) == deadBirths(lo, hi) && aliveSurvives(lo, hi) != outcomeUnknown
}

// ResolveCell folds a just-decided stable-background cell into current:
// if current was shadowing that cell as UNKNOWN-STABLE, it adopts the
// decided value and drops its own uncertainty there, the same transfer
// TransferStableToCurrent performs for a whole generation at once.
func (c *CurrentState) ResolveCell(cell Cell, value bool) {
	if !c.UnknownStable.Get(cell.X, cell.Y) {
		return
	}
	c.State.SetCellUnsafe(cell.X, cell.Y, value)
	c.Unknown.Erase(cell.X, cell.Y)
	c.UnknownStable.Erase(cell.X, cell.Y)
}

func mustBit(g Grid, x, y int) uint64 {
	if g.Get(x, y) {
		return 1
	}
	return 0
}
