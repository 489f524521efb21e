package life

import "github.com/luke-kiernan/barrister/internal/bitgrid"

// Grid is the bit-board type the whole life package builds on.
type Grid = bitgrid.Grid

// Size is the torus side length every Grid covers.
const Size = bitgrid.Size

// Cell is a single torus coordinate.
type Cell struct{ X, Y int }
