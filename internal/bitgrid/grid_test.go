package bitgrid

import "testing"

func TestSetGetErase(t *testing.T) {
	var g Grid
	if g.Get(3, 4) {
		t.Fatalf("fresh grid should be empty at (3,4)")
	}
	g.Set(3, 4)
	if !g.Get(3, 4) {
		t.Fatalf("expected (3,4) to be set")
	}
	g.Erase(3, 4)
	if g.Get(3, 4) {
		t.Fatalf("expected (3,4) to be cleared")
	}
}

func TestWrap(t *testing.T) {
	var g Grid
	g.Set(-1, -1)
	if !g.Get(Size-1, Size-1) {
		t.Fatalf("negative coordinates should wrap to the far edge")
	}
}

func TestPopulation(t *testing.T) {
	var g Grid
	cells := [][2]int{{0, 0}, {1, 1}, {2, 2}, {63, 63}}
	for _, c := range cells {
		g.Set(c[0], c[1])
	}
	if got := g.Population(); got != len(cells) {
		t.Fatalf("Population() = %d, want %d", got, len(cells))
	}
}

func TestZOIContainsNeighbours(t *testing.T) {
	var g Grid
	g.Set(10, 10)
	zoi := g.ZOI()
	for _, c := range NeighbourhoodCells(10, 10) {
		if !zoi.Get(c[0], c[1]) {
			t.Fatalf("ZOI missing neighbour (%d,%d)", c[0], c[1])
		}
	}
	if zoi.Get(10, 13) {
		t.Fatalf("ZOI should not reach two cells away")
	}
}

// block is a still life under B3/S23: Step must be a no-op.
func TestStepBlockIsStable(t *testing.T) {
	var g Grid
	g.Set(5, 5)
	g.Set(6, 5)
	g.Set(5, 6)
	g.Set(6, 6)
	next := g.Step()
	if next != g {
		t.Fatalf("2x2 block should be stable under Step()")
	}
}

// blinker is a period-2 oscillator: two Steps must return to the start.
func TestStepBlinkerOscillates(t *testing.T) {
	var g Grid
	g.Set(4, 5)
	g.Set(5, 5)
	g.Set(6, 5)
	once := g.Step()
	if once == g {
		t.Fatalf("blinker should change after one step")
	}
	twice := once.Step()
	if twice != g {
		t.Fatalf("blinker should return to its original phase after two steps")
	}
}

func TestCountNeighbourhoodMatchesBruteForce(t *testing.T) {
	var g Grid
	g.Set(10, 10)
	g.Set(11, 10)
	g.Set(10, 11)

	b2, b1, b0 := CountNeighbourhood(g)
	for x := 8; x < 13; x++ {
		for y := 8; y < 13; y++ {
			want := 0
			for _, c := range NeighbourhoodCells(x, y) {
				if g.Get(c[0], c[1]) {
					want++
				}
			}
			got := 0
			if b2.Get(x, y) {
				got += 4
			}
			if b1.Get(x, y) {
				got += 2
			}
			if b0.Get(x, y) {
				got += 1
			}
			if want > 7 {
				want = 7
			}
			if got != want {
				t.Fatalf("CountNeighbourhood at (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}
