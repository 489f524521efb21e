// Package rle parses and emits the multi-state RLE dialect ("LifeHistory"
// style) used to hand a partially-unknown pattern to the solver and to
// print its solutions back out. Five cell glyphs are recognised:
//
//	.  dead, not marked
//	A  alive, marked  (the known ON part of the pattern)
//	B  dead, marked   (an unresolved / history cell)
//	C  alive, unmarked (an actively uncertain ON guess)
//	D  marked only, dead (the frozen "stator" envelope)
//
// Plain-RLE 'b' and 'o' are also accepted, read like '.' and 'A'. The
// glyph letters follow the LifeHistory convention, but the meanings above
// are this package's own simplification to three roles (State, Marked,
// Original), not LifeHistory's full state set.
package rle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luke-kiernan/barrister/internal/bitgrid"
)

// Pattern is the decoded result of a multi-state RLE body.
type Pattern struct {
	State    bitgrid.Grid // ON cells, known or guessed
	Marked   bitgrid.Grid // cells considered part of the pattern/history
	Original bitgrid.Grid // the frozen stator envelope (glyph D)
	Width    int
	Height   int
}

var glyphTable = map[byte][2]bool{
	// glyph -> (alive, marked)
	'.': {false, false},
	'b': {false, false},
	'A': {true, true},
	'o': {true, true},
	'B': {false, true},
	'C': {true, false},
	'D': {false, true}, // marked handled separately into Original below
}

// ParseWHeader parses an RLE document that begins with a standard
// "x = W, y = H, rule = ..." header line.
func ParseWHeader(doc string) (Pattern, error) {
	lines := strings.Split(strings.TrimSpace(doc), "\n")
	if len(lines) == 0 {
		return Pattern{}, fmt.Errorf("rle: empty document")
	}

	width, height := 0, 0
	bodyStart := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "x") {
			w, h, err := parseHeaderLine(trimmed)
			if err != nil {
				return Pattern{}, err
			}
			width, height = w, h
			bodyStart = i + 1
			break
		}
	}
	if bodyStart == 0 {
		return Pattern{}, fmt.Errorf("rle: missing header line")
	}

	body := strings.Join(lines[bodyStart:], "")
	body = strings.TrimSuffix(strings.TrimSpace(body), "!")

	pat := Pattern{Width: width, Height: height}
	x, y := 0, 0
	count := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c >= '0' && c <= '9':
			count = count*10 + int(c-'0')
		case c == '$':
			n := maxInt(count, 1)
			y += n
			x = 0
			count = 0
		case c == 'D':
			n := maxInt(count, 1)
			for k := 0; k < n; k++ {
				pat.Original.Set(x, y)
				pat.Marked.Set(x, y)
				x++
			}
			count = 0
		default:
			alive, marked := false, false
			if info, ok := glyphTable[c]; ok {
				alive, marked = info[0], info[1]
			} else {
				return Pattern{}, fmt.Errorf("rle: unrecognised glyph %q", c)
			}
			n := maxInt(count, 1)
			for k := 0; k < n; k++ {
				if alive {
					pat.State.Set(x, y)
				}
				if marked {
					pat.Marked.Set(x, y)
				}
				x++
			}
			count = 0
		}
	}

	return pat, nil
}

func parseHeaderLine(line string) (int, int, error) {
	fields := strings.Split(line, ",")
	width, height := 0, 0
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if strings.HasPrefix(f, "x") {
			parts := strings.SplitN(f, "=", 2)
			if len(parts) != 2 {
				continue
			}
			v, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return 0, 0, fmt.Errorf("rle: bad width: %w", err)
			}
			width = v
		}
		if strings.HasPrefix(f, "y") {
			parts := strings.SplitN(f, "=", 2)
			if len(parts) != 2 {
				continue
			}
			v, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return 0, 0, fmt.Errorf("rle: bad height: %w", err)
			}
			height = v
		}
	}
	return width, height, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Emit renders state as plain two-state RLE (standard B3/S23 dialect),
// the format used for the final solution output.
func Emit(state bitgrid.Grid) string {
	minX, maxX, minY, maxY := boundingBox(state)
	if minX > maxX {
		return "x = 0, y = 0, rule = B3/S23\n!"
	}

	var sb strings.Builder
	w, h := maxX-minX+1, maxY-minY+1
	fmt.Fprintf(&sb, "x = %d, y = %d, rule = B3/S23\n", w, h)

	for y := minY; y <= maxY; y++ {
		runGlyph := byte(0)
		runLen := 0
		flush := func() {
			if runLen == 0 {
				return
			}
			if runLen > 1 {
				fmt.Fprintf(&sb, "%d", runLen)
			}
			sb.WriteByte(runGlyph)
			runLen = 0
		}
		for x := minX; x <= maxX; x++ {
			glyph := byte('b')
			if state.Get(x, y) {
				glyph = 'o'
			}
			if glyph != runGlyph {
				flush()
				runGlyph = glyph
			}
			runLen++
		}
		flush()
		if y != maxY {
			sb.WriteByte('$')
		}
	}
	sb.WriteByte('!')
	return sb.String()
}

// EmitMarked renders state/marked as the five-glyph multi-state dialect
// ParseWHeader understands, used to echo a partial solution mid-search.
func EmitMarked(state, marked bitgrid.Grid) string {
	minX, maxX, minY, maxY := boundingBoxEither(state, marked)
	if minX > maxX {
		return "x = 0, y = 0, rule = LifeHistory\n!"
	}

	var sb strings.Builder
	w, h := maxX-minX+1, maxY-minY+1
	fmt.Fprintf(&sb, "x = %d, y = %d, rule = LifeHistory\n", w, h)

	for y := minY; y <= maxY; y++ {
		runGlyph := byte(0)
		runLen := 0
		flush := func() {
			if runLen == 0 {
				return
			}
			if runLen > 1 {
				fmt.Fprintf(&sb, "%d", runLen)
			}
			sb.WriteByte(runGlyph)
			runLen = 0
		}
		for x := minX; x <= maxX; x++ {
			alive, isMarked := state.Get(x, y), marked.Get(x, y)
			glyph := byte('.')
			switch {
			case alive && isMarked:
				glyph = 'A'
			case !alive && isMarked:
				glyph = 'B'
			case alive && !isMarked:
				glyph = 'C'
			}
			if glyph != runGlyph {
				flush()
				runGlyph = glyph
			}
			runLen++
		}
		flush()
		if y != maxY {
			sb.WriteByte('$')
		}
	}
	sb.WriteByte('!')
	return sb.String()
}

func boundingBox(g bitgrid.Grid) (minX, maxX, minY, maxY int) {
	return boundingBoxEither(g, bitgrid.Grid{})
}

func boundingBoxEither(a, b bitgrid.Grid) (minX, maxX, minY, maxY int) {
	combined := a.Or(b)
	minX, maxX, minY, maxY = bitgrid.Size, -1, bitgrid.Size, -1
	for x := 0; x < bitgrid.Size; x++ {
		for y := 0; y < bitgrid.Size; y++ {
			if combined.Get(x, y) {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	return
}
