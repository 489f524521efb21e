// Package bitgrid implements a fixed-size toroidal Game of Life bit-board:
// Size columns of Size-bit words, one word per column, one bit per row.
// Every cell operation is a handful of word-parallel instructions instead
// of a per-cell loop, which is what lets the stable-state propagator and
// the uncertain stepper touch a whole neighbourhood at once.
package bitgrid

import "math/bits"

// Size is both the column count and the row count: a Grid covers a
// Size x Size torus. 64 lets each column fit in one machine word.
const Size = 64

// Grid is a Size x Size torus of cells, one uint64 per column with bit y
// holding the cell at row y. The zero Grid is all cells off.
type Grid [Size]uint64

func wrap(v int) int {
	v %= Size
	if v < 0 {
		v += Size
	}
	return v
}

// Get reports whether the cell at (x, y) is set, wrapping both coordinates.
func (g *Grid) Get(x, y int) bool {
	return g[wrap(x)]&(uint64(1)<<uint(wrap(y))) != 0
}

// Set turns the cell at (x, y) on.
func (g *Grid) Set(x, y int) {
	g[wrap(x)] |= uint64(1) << uint(wrap(y))
}

// Erase turns the cell at (x, y) off.
func (g *Grid) Erase(x, y int) {
	g[wrap(x)] &^= uint64(1) << uint(wrap(y))
}

// SetCellUnsafe sets or clears (x, y) depending on which.
func (g *Grid) SetCellUnsafe(x, y int, which bool) {
	if which {
		g.Set(x, y)
	} else {
		g.Erase(x, y)
	}
}

// RotateUp shifts every bit in a column word towards row-1 (wrapping).
func RotateUp(col uint64) uint64 { return bits.RotateLeft64(col, -1) }

// RotateDown shifts every bit in a column word towards row+1 (wrapping).
func RotateDown(col uint64) uint64 { return bits.RotateLeft64(col, 1) }

// HalfAdd adds two single-bit planes, returning the sum and carry planes.
func HalfAdd(a, b uint64) (sum, carry uint64) {
	return a ^ b, a & b
}

// FullAdd adds three single-bit planes, returning the sum and carry planes.
func FullAdd(a, b, c uint64) (sum, carry uint64) {
	return a ^ b ^ c, (a & b) | (a & c) | (b & c)
}

func (g Grid) And(h Grid) Grid {
	var r Grid
	for i := range g {
		r[i] = g[i] & h[i]
	}
	return r
}

func (g Grid) Or(h Grid) Grid {
	var r Grid
	for i := range g {
		r[i] = g[i] | h[i]
	}
	return r
}

func (g Grid) Xor(h Grid) Grid {
	var r Grid
	for i := range g {
		r[i] = g[i] ^ h[i]
	}
	return r
}

func (g Grid) AndNot(h Grid) Grid {
	var r Grid
	for i := range g {
		r[i] = g[i] &^ h[i]
	}
	return r
}

func (g Grid) Not() Grid {
	var r Grid
	for i := range g {
		r[i] = ^g[i]
	}
	return r
}

func (g Grid) IsEmpty() bool {
	for _, w := range g {
		if w != 0 {
			return false
		}
	}
	return true
}

func (g Grid) Equal(h Grid) bool { return g == h }

// Population is the total number of set cells.
func (g Grid) Population() int {
	n := 0
	for _, w := range g {
		n += bits.OnesCount64(w)
	}
	return n
}

// FirstOn returns the coordinates of some set cell, in column-major order.
func (g Grid) FirstOn() (x, y int, ok bool) {
	for i, w := range g {
		if w != 0 {
			return i, bits.TrailingZeros64(w), true
		}
	}
	return -1, -1, false
}

// ZOI is the 3x3 (Moore) dilation of g: every cell within one step of a
// set cell, including the set cells themselves.
func (g Grid) ZOI() Grid {
	var colOr [Size]uint64
	for i := range g {
		colOr[i] = g[i] | RotateUp(g[i]) | RotateDown(g[i])
	}
	var r Grid
	for i := range r {
		left := wrap(i - 1)
		right := wrap(i + 1)
		r[i] = colOr[left] | colOr[i] | colOr[right]
	}
	return r
}

// CellZOI is the 3x3 neighbourhood mask of a single cell, including itself.
func CellZOI(x, y int) Grid {
	var g Grid
	g.Set(x, y)
	return g.ZOI()
}

// NeighbourhoodCells lists the 9 cells of the Moore neighbourhood of
// (x, y), centre cell included, in row-major order.
func NeighbourhoodCells(x, y int) [9][2]int {
	var out [9][2]int
	k := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			out[k] = [2]int{wrap(x + dx), wrap(y + dy)}
			k++
		}
	}
	return out
}

// FindSetNeighbour returns a set cell in the Moore neighbourhood of
// (x, y), if any.
func (g Grid) FindSetNeighbour(x, y int) (int, int, bool) {
	for _, c := range NeighbourhoodCells(x, y) {
		if g.Get(c[0], c[1]) {
			return c[0], c[1], true
		}
	}
	return -1, -1, false
}

// CountNeighbourhood computes the 3x3-sum (including the centre cell) of g
// as a 4-bit-plane binary number b3b2b1b0, saturating at 7 (the b3 carry
// is folded back into b2/b1/b0 rather than kept, since this solver only
// ever needs to distinguish sums up to "4 or more").
func CountNeighbourhood(g Grid) (b2, b1, b0 Grid) {
	var col0, col1 [Size]uint64
	for i, w := range g {
		l, r := RotateUp(w), RotateDown(w)
		col0[i] = l ^ r ^ w
		col1[i] = ((l ^ r) & w) | (l & r)
	}
	for i := range g {
		up, dn := wrap(i-1), wrap(i+1)

		ucOn0, ucCarry0 := HalfAdd(col0[up], col0[i])
		ucOn1, ucOn2 := FullAdd(col1[up], col1[i], ucCarry0)

		on0, onCarry0 := HalfAdd(ucOn0, col0[dn])
		on1, onCarry1 := FullAdd(ucOn1, col1[dn], onCarry0)
		on2, on3 := HalfAdd(ucOn2, onCarry1)
		on2 |= on3
		on1 |= on3
		on0 |= on3

		b2[i], b1[i], b0[i] = on2, on1, on0
	}
	return
}

// Step advances g one Conway generation (B3/S23), ignoring any notion of
// unknown or stable cells. Used only to compare an assembled pattern
// against its "natural" evolution, never as part of the core propagator.
func (g Grid) Step() Grid {
	b2, b1, b0 := CountNeighbourhood(g)
	var r Grid
	for i := range g {
		// Sums include the cell itself: a sum of 3 is ON regardless of
		// the previous state (birth at 3 neighbours, or survival at 2).
		// A sum of 4 is ON only if the cell was already alive (survival
		// at 3 neighbours); with the cell dead that's 4 live neighbours,
		// which stays dead.
		three := ^b2[i] & b1[i] & b0[i]
		four := b2[i] & ^b1[i] & ^b0[i]
		r[i] = three | (four & g[i])
	}
	return r
}
