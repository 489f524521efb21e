package life

import "testing"

func TestUncertainStepMaintainingKnownBlock(t *testing.T) {
	var stable StableState
	var current CurrentState
	for _, c := range [][2]int{{10, 10}, {11, 10}, {10, 11}, {11, 11}} {
		current.State.Set(c[0], c[1])
	}
	// Nothing is unknown, so a block should step to itself with no
	// remaining uncertainty.
	next := current.UncertainStepMaintaining(stable)
	if next.State != current.State {
		t.Fatalf("a fully-known block should step to itself")
	}
	if !next.Unknown.IsEmpty() {
		t.Fatalf("a fully-known neighbourhood should produce no uncertainty")
	}
}

func TestActiveComparedToMatchesStable(t *testing.T) {
	var stable StableState
	stable.State.Set(1, 1)

	var current CurrentState
	current.State.Set(1, 1)

	active := current.ActiveComparedTo(stable)
	if !active.IsEmpty() {
		t.Fatalf("identical current/stable should show no activity")
	}

	current.State.Set(2, 2)
	active = current.ActiveComparedTo(stable)
	if !active.Get(2, 2) {
		t.Fatalf("a cell on in current but not stable should be active")
	}
}

// spec.md's active(current, stable) = (current.state ⊕ stable.state) &
// ¬current.unknown masks out every unknown cell unconditionally: a
// genuinely undetermined UNKNOWN-ACTIVE cell must not be force-counted
// as active just because its best-effort guess differs from stable.
func TestActiveComparedToMasksOutUnknownActiveCells(t *testing.T) {
	var stable StableState
	stable.State.Set(5, 5)

	var current CurrentState
	// current's best-effort guess (OFF) disagrees with stable (ON), which
	// would register as active under a plain Xor with no masking at all.
	current.Unknown.Set(5, 5)
	// UnknownStable left clear at (5,5): this is UNKNOWN-ACTIVE, not
	// UNKNOWN-STABLE.

	active := current.ActiveComparedTo(stable)
	if active.Get(5, 5) {
		t.Fatalf("an unresolved UNKNOWN-ACTIVE cell must not be counted as active")
	}
}

func TestKnownNextLoneOnCellWithDeadNeighboursIsKnown(t *testing.T) {
	var current CurrentState
	// A lone ON cell with zero neighbours and nothing unknown: the next
	// generation is certainly OFF everywhere nearby.
	current.State.Set(30, 30)
	if !current.KnownNext(Cell{30, 30}) {
		t.Fatalf("a fully-known neighbourhood should have a known next value")
	}
}
