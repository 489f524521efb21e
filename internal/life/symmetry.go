package life

import "github.com/luke-kiernan/barrister/internal/bitgrid"

// Transform names one of the dihedral symmetries of the square torus
// that a catalyst's stable background can be required, or allowed, to
// respect.
type Transform int

const (
	TransformIdentity Transform = iota
	TransformReflectRows
	TransformReflectColumns
	TransformRotate180
	TransformDiagonal
)

// Apply maps a grid through the named symmetry transform.
func Apply(t Transform, g Grid) Grid {
	switch t {
	case TransformReflectRows:
		return g.ReflectRows()
	case TransformReflectColumns:
		return g.ReflectColumns()
	case TransformRotate180:
		return g.Rotate180()
	case TransformDiagonal:
		return g.Transpose()
	default:
		return g
	}
}

// RespectsSymmetry reports whether a resolved stable state is invariant
// under the given transform. reportSolution uses it to drop any solution
// whose stable background is not itself symmetric.
func RespectsSymmetry(t Transform, stable *StableState) bool {
	if t == TransformIdentity {
		return true
	}
	return Apply(t, stable.State) == stable.State
}

// ImageCell returns the cell that a symmetry transform pairs with c: the
// cell whose value must always match c's own under the configured
// transform. Matches the coordinate maps Apply/ReflectRows/ReflectColumns/
// Rotate180/Transpose implement on whole grids.
func ImageCell(t Transform, c Cell) Cell {
	switch t {
	case TransformReflectRows:
		return Cell{c.X, wrapCoord(-c.Y - 1)}
	case TransformReflectColumns:
		return Cell{wrapCoord(-c.X), c.Y}
	case TransformRotate180:
		return Cell{wrapCoord(-c.X), wrapCoord(-c.Y - 1)}
	case TransformDiagonal:
		return Cell{c.Y, c.X}
	default:
		return c
	}
}

func wrapCoord(v int) int {
	v %= bitgrid.Size
	if v < 0 {
		v += bitgrid.Size
	}
	return v
}
