package rle

import (
	"strings"
	"testing"

	"github.com/luke-kiernan/barrister/internal/bitgrid"
)

func TestParseWHeaderCountsLiveCells(t *testing.T) {
	state := "x = 3, y = 3, rule = B3/S23\nbob$bob$bob!"
	// a vertical line of 3 alive cells down the centre column, dead either side
	pat, err := ParseWHeader(state)
	if err != nil {
		t.Fatalf("ParseWHeader: %v", err)
	}
	if pat.State.Population() != 3 {
		t.Fatalf("expected 3 live cells, got %d", pat.State.Population())
	}
}

func TestParseMultiState(t *testing.T) {
	doc := "x = 2, y = 1, rule = LifeHistory\nAB!"
	pat, err := ParseWHeader(doc)
	if err != nil {
		t.Fatalf("ParseWHeader: %v", err)
	}
	if !pat.State.Get(0, 0) {
		t.Fatalf("expected (0,0) alive")
	}
	if pat.State.Get(1, 0) {
		t.Fatalf("expected (1,0) dead")
	}
	if !pat.Marked.Get(0, 0) || !pat.Marked.Get(1, 0) {
		t.Fatalf("expected both cells marked")
	}
}

func TestEmitBlock(t *testing.T) {
	var g bitgrid.Grid
	g.Set(0, 0)
	g.Set(1, 0)
	g.Set(0, 1)
	g.Set(1, 1)
	out := Emit(g)
	if !strings.Contains(out, "x = 2, y = 2") {
		t.Fatalf("Emit header wrong: %s", out)
	}
	if !strings.HasSuffix(out, "!") {
		t.Fatalf("Emit should end with !: %s", out)
	}
}
