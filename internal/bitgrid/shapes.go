package bitgrid

import "math/bits"

// Move translates every cell by (dx, dy), wrapping around the torus.
func (g Grid) Move(dx, dy int) Grid {
	var r Grid
	for i := 0; i < Size; i++ {
		word := g[wrap(i-dx)]
		if dy != 0 {
			word = bits.RotateLeft64(word, dy)
		}
		r[i] = word
	}
	return r
}

// SolidRect returns a filled rectangle of width w and height h with its
// top-left corner at (x0, y0), wrapping around the torus.
func SolidRect(x0, y0, w, h int) Grid {
	var r Grid
	if w <= 0 || h <= 0 {
		return r
	}
	var rowMask uint64
	if h >= Size {
		rowMask = ^uint64(0)
	} else {
		rowMask = (uint64(1)<<uint(h) - 1) << uint(wrap(y0))
		if wrap(y0)+h > Size {
			rowMask |= (uint64(1)<<uint(wrap(y0)+h-Size) - 1)
		}
	}
	for i := 0; i < w; i++ {
		r[wrap(x0+i)] = rowMask
	}
	return r
}

// Convolve treats g as a set of (dx, dy) offsets and returns the union of
// other translated by each of them — the Minkowski sum of the two shapes.
func (g Grid) Convolve(other Grid) Grid {
	var r Grid
	for x := 0; x < Size; x++ {
		w := g[x]
		if w == 0 {
			continue
		}
		for w != 0 {
			y := bits.TrailingZeros64(w)
			w &= w - 1
			r = r.Or(other.Move(x, y))
		}
	}
	return r
}

// WidthHeight returns the bounding-box dimensions of the set cells,
// assuming the pattern does not itself wrap around the torus edges.
func (g Grid) WidthHeight() (int, int) {
	minX, maxX, minY, maxY := -1, -1, -1, -1
	for x := 0; x < Size; x++ {
		w := g[x]
		if w == 0 {
			continue
		}
		if minX == -1 {
			minX = x
		}
		maxX = x
		lo := bits.TrailingZeros64(w)
		hi := 63 - bits.LeadingZeros64(w)
		if minY == -1 || lo < minY {
			minY = lo
		}
		if hi > maxY {
			maxY = hi
		}
	}
	if minX == -1 {
		return 0, 0
	}
	return maxX - minX + 1, maxY - minY + 1
}

// ReflectRows mirrors every column top-to-bottom (reflection across a
// horizontal axis).
func (g Grid) ReflectRows() Grid {
	var r Grid
	for i, w := range g {
		r[i] = bits.Reverse64(w)
	}
	return r
}

// ReflectColumns mirrors the grid left-to-right (reflection across a
// vertical axis).
func (g Grid) ReflectColumns() Grid {
	var r Grid
	for i, w := range g {
		r[wrap(-i)] = w
	}
	return r
}

// Rotate180 rotates the grid by a half turn.
func (g Grid) Rotate180() Grid {
	return g.ReflectRows().ReflectColumns()
}

// Transpose reflects the grid across its main diagonal, swapping the
// roles of row and column for every cell.
func (g Grid) Transpose() Grid {
	var r Grid
	for x, w := range g {
		for w != 0 {
			y := bits.TrailingZeros64(w)
			w &= w - 1
			r[y] |= uint64(1) << uint(x)
		}
	}
	return r
}
