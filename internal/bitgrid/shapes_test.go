package bitgrid

import "testing"

func TestMoveWraps(t *testing.T) {
	var g Grid
	g.Set(0, 0)
	moved := g.Move(Size-1, 0)
	if !moved.Get(Size-1, 0) {
		t.Fatalf("Move should wrap around the torus")
	}
}

func TestReflectRows(t *testing.T) {
	var g Grid
	g.Set(5, 0)
	r := g.ReflectRows()
	if !r.Get(5, Size-1) {
		t.Fatalf("ReflectRows should mirror row 0 to row Size-1")
	}
}

func TestRotate180Involution(t *testing.T) {
	var g Grid
	g.Set(3, 4)
	g.Set(10, 50)
	twice := g.Rotate180().Rotate180()
	if twice != g {
		t.Fatalf("Rotate180 applied twice should be the identity")
	}
}

func TestTransposeSwapsAxes(t *testing.T) {
	var g Grid
	g.Set(2, 9)
	tr := g.Transpose()
	if !tr.Get(9, 2) {
		t.Fatalf("Transpose should swap (2,9) to (9,2)")
	}
}

func TestWidthHeight(t *testing.T) {
	var g Grid
	g.Set(10, 10)
	g.Set(12, 14)
	w, h := g.WidthHeight()
	if w != 3 || h != 5 {
		t.Fatalf("WidthHeight() = (%d,%d), want (3,5)", w, h)
	}
}
