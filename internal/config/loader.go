package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/luke-kiernan/barrister/internal/life"
	"github.com/luke-kiernan/barrister/internal/rle"
)

// Load reads and decodes the TOML file at path over top of Default().
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.PipeResults {
		cfg.StabiliseResults = true
		cfg.StabiliseResultsTimeout = 1
		cfg.MinimiseResults = false
		cfg.PrintSummary = false
	}

	return cfg, nil
}

// Build resolves a decoded Config into the immutable life.Params the
// search driver runs against, parsing the embedded pattern and any
// filter/forbidden/oracle tables along the way.
func Build(cfg Config) (*life.Params, error) {
	if cfg.Pattern == "" {
		return nil, fmt.Errorf("config: missing required \"pattern\" key")
	}

	pat, err := rle.ParseWHeader(cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("config: pattern: %w", err)
	}
	center := centerOf(cfg.PatternCenter)
	pat.State = pat.State.Move(-center[0], -center[1])
	pat.Marked = pat.Marked.Move(-center[0], -center[1])
	pat.Original = pat.Original.Move(-center[0], -center[1])

	p := &life.Params{}

	// cfg arrives already seeded by Default() (§4.4's "-1 disables" sentinels
	// included) and go-toml/v2's Unmarshal only overwrites keys actually
	// present in the file, so an explicit zero the user wrote (e.g.
	// max-active-cells = 0, per spec.md §8 scenario 3) survives here
	// unchanged rather than being mistaken for "absent".
	p.FirstActiveGen = rangeOf(cfg.FirstActiveRange, 0, 100)
	p.ActiveWindowGens = rangeOf(cfg.ActiveWindowRange, 0, 100)
	p.MinStableInterval = cfg.MinStableInterval

	p.MaxActiveCells = cfg.MaxActiveCells
	p.ActiveBounds = boxBoundOf(cfg.ActiveBounds)

	p.MaxEverActiveCells = cfg.MaxEverActiveCells
	p.EverActiveBounds = boxBoundOf(cfg.EverActiveBounds)

	p.MaxCellActiveWindowGens = cfg.MaxCellActiveWindow
	p.MaxCellActiveStreakGens = cfg.MaxCellActiveStreak

	p.Stable.State = life.Grid{}
	p.Stable.UnknownStable = pat.Marked
	if r := p.Stable.PropagateStable(); !r.Consistent {
		return nil, fmt.Errorf("config: pattern's stable background is inconsistent")
	}

	p.Starting.State = pat.State
	p.Starting.Unknown = pat.Marked
	p.Starting.UnknownStable = pat.Marked
	life.TransferStableToCurrent(&p.Starting, &p.Stable)

	p.Stator = pat.Original
	p.HasStator = !pat.Original.IsEmpty()

	if len(cfg.Filter) > 0 {
		p.HasFilter = true
		for _, f := range cfg.Filter {
			fp, err := rle.ParseWHeader(f.Filter)
			if err != nil {
				return nil, fmt.Errorf("config: filter: %w", err)
			}
			pos := centerOf(f.FilterPos)
			fp.Marked = fp.Marked.Move(pos[0], pos[1])
			fp.State = fp.State.Move(pos[0], pos[1])
			ft := life.FilterExact
			if f.FilterType == "EVER" {
				ft = life.FilterEver
			}
			p.Filters = append(p.Filters, life.Filter{
				Mask: fp.Marked, State: fp.State, Gen: f.FilterGen, Type: ft,
			})
		}
	}

	if len(cfg.Forbidden) > 0 {
		p.HasForbidden = true
		for _, f := range cfg.Forbidden {
			fp, err := rle.ParseWHeader(f.Forbidden)
			if err != nil {
				return nil, fmt.Errorf("config: forbidden: %w", err)
			}
			pos := centerOf(f.ForbiddenPos)
			fp.Marked = fp.Marked.Move(pos[0], pos[1])
			fp.State = fp.State.Move(pos[0], pos[1])
			p.Forbiddens = append(p.Forbiddens, life.Forbidden{Mask: fp.Marked, State: fp.State})
		}
	}

	p.Debug = cfg.Debug

	if cfg.Oracle != "" {
		op, err := rle.ParseWHeader(cfg.Oracle)
		if err != nil {
			return nil, fmt.Errorf("config: oracle: %w", err)
		}
		center := centerOf(cfg.OracleCenter)
		op.State = op.State.Move(-center[0], -center[1])
		op.Marked = op.Marked.Move(-center[0], -center[1])

		p.HasOracle = true
		p.Oracle.State = op.State.And(op.Marked)
		p.Oracle.UnknownStable = op.Marked.AndNot(op.State)
	}

	p.StabiliseResults = cfg.StabiliseResults
	p.StabiliseResultsTimeout = cfg.StabiliseResultsTimeout
	p.MinimiseResults = cfg.MinimiseResults
	p.ContinueAfterSuccess = cfg.ContinueAfterSuccess
	p.PrintSummary = cfg.PrintSummary
	p.PipeResults = cfg.PipeResults

	p.DeepPropagate = cfg.DeepPropagate
	p.GlanceTracking = cfg.GlanceTracking

	sym, err := symmetryOf(cfg.Symmetry)
	if err != nil {
		return nil, err
	}
	p.Symmetry = sym

	return p, nil
}

func symmetryOf(s string) (life.Transform, error) {
	switch s {
	case "", "none":
		return life.TransformIdentity, nil
	case "reflect-rows":
		return life.TransformReflectRows, nil
	case "reflect-columns":
		return life.TransformReflectColumns, nil
	case "rotate180":
		return life.TransformRotate180, nil
	case "diagonal":
		return life.TransformDiagonal, nil
	default:
		return life.TransformIdentity, fmt.Errorf("config: unknown symmetry %q", s)
	}
}

// centerOf reads a raw [x,y] translation vector as-is. pattern-center and
// oracle-center are negated at their own call sites (Params.hpp negates
// the vector before moving: patternCenter = {-v0,-v1}; pat.Move(patternCenter)),
// while filter-pos/forbidden-pos are applied to Move unnegated, matching
// Params.hpp's pat.Move(filterCenterVec[0], filterCenterVec[1]).
func centerOf(v []int) [2]int {
	if len(v) != 2 {
		return [2]int{0, 0}
	}
	return [2]int{v[0], v[1]}
}

func rangeOf(v []int, defMin, defMax int) life.Range {
	if len(v) != 2 {
		return life.Range{Min: defMin, Max: defMax}
	}
	return life.Range{Min: v[0], Max: v[1]}
}

// boxBoundOf reads a [w,h] bounding-box cap pair, defaulting to disabled
// (-1, -1) when absent.
func boxBoundOf(v []int) life.BoxBound {
	if len(v) != 2 {
		return life.BoxBound{W: -1, H: -1}
	}
	return life.BoxBound{W: v[0], H: v[1]}
}
