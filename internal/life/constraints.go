package life

// CheckActivityTiming applies spec.md §4.4 item 1's three timing rules
// for generation g: activity isn't allowed to start before
// FirstActiveGen.Min, interaction must have begun by FirstActiveGen.Max,
// and once interaction has begun it must finish within the configured
// active-window bound.
func CheckActivityTiming(active Grid, g int, hasInteracted bool, interactionStart int, p *Params) bool {
	if p.FirstActiveGen.Min > 0 && g < p.FirstActiveGen.Min && !active.IsEmpty() {
		return false
	}
	if p.FirstActiveGen.Max >= 0 && g > p.FirstActiveGen.Max && !hasInteracted {
		return false
	}
	if hasInteracted && !active.IsEmpty() {
		window := p.ActiveWindowGens.Max
		if window >= 0 && g > interactionStart+window {
			return false
		}
	}
	return true
}

// CheckConditionsOn applies the per-generation population and
// bounding-box limits to a single generation's active and running
// ever-active sets.
func CheckConditionsOn(active, everActive Grid, p *Params) bool {
	// -1 disables the bound (spec.md §6); 0 is a real, enforceable limit
	// ("no activity permitted"), not the same as disabled.
	if p.MaxActiveCells >= 0 && active.Population() > p.MaxActiveCells {
		return false
	}

	if w, h := active.WidthHeight(); p.ActiveBounds.Exceeds(w, h) {
		return false
	}

	if p.MaxEverActiveCells >= 0 && everActive.Population() > p.MaxEverActiveCells {
		return false
	}

	if w, h := everActive.WidthHeight(); p.EverActiveBounds.Exceeds(w, h) {
		return false
	}

	return true
}

// CheckConditions applies CheckConditionsOn across a whole lookahead run
// and folds each generation's activity into everActive as it goes. A
// speculative generation that still has residual UNKNOWN-ACTIVE cells
// (PopulateLookahead's later generations can) reports an incomplete
// active set either way, so it's skipped rather than folded into the
// persistent everActive or checked against a bound it can't speak to
// yet; it'll be re-examined, fully resolved, once the search actually
// reaches it.
func CheckConditions(lookahead Lookahead, stable StableState, everActive *Grid, p *Params) bool {
	for _, gen := range lookahead.Gens {
		if !gen.Unknown.Xor(gen.UnknownStable).IsEmpty() {
			continue
		}
		active := gen.ActiveComparedTo(stable)
		*everActive = everActive.Or(active)
		if !CheckConditionsOn(active, *everActive, p) {
			return false
		}
	}
	return true
}

// CheckOracle reports whether the stable background is still consistent
// with a known-good reference stable state wherever the oracle itself is
// resolved: any cell the oracle has pinned down must match.
func CheckOracle(stable *StableState, oracle *StableState) bool {
	known := oracle.UnknownStable.Not()
	return stable.State.Xor(oracle.State).And(known).IsEmpty()
}

// CheckForbidden reports whether current's known cells avoid matching
// any of the forbidden patterns at the cells their masks cover.
func CheckForbidden(current CurrentState, forbiddens []Forbidden) bool {
	for _, f := range forbiddens {
		if !f.Mask.AndNot(current.Unknown).Equal(f.Mask) {
			continue // some masked cell is still unresolved: can't match yet
		}
		if current.State.Xor(f.State).And(f.Mask).IsEmpty() {
			return false
		}
	}
	return true
}

// CheckFilters applies every configured Filter to the trajectory at the
// given generation. A FilterExact entry only constrains its own named
// generation (Gen) and is vacuously satisfied at every other one; a
// FilterEver entry constrains every generation. Either way, a masked
// cell that hasn't resolved yet defers the check rather than failing it
// (TryAdvance only calls this on generations TryAdvanceOne has advanced
// to, where the only unresolved cells left are UNKNOWN-STABLE ones).
func CheckFilters(current CurrentState, gen int, filters []Filter) bool {
	for _, f := range filters {
		if f.Type == FilterExact && gen != f.Gen {
			continue
		}
		if !f.Mask.AndNot(current.Unknown).Equal(f.Mask) {
			continue
		}
		if !current.State.Xor(f.State).And(f.Mask).IsEmpty() {
			return false
		}
	}
	return true
}

// CheckStator reports whether every stator cell (spec.md §4.4 item 4,
// Params.Stator) is ON in the given generation's current state. Stator
// cells come from the pattern's D glyph, which is parsed as dead and
// marked, so config.Build places them in the unknown set; a stator cell
// that is still unknown or OFF in current fails this check.
func CheckStator(current CurrentState, stator Grid) bool {
	return stator.AndNot(current.State).IsEmpty()
}
