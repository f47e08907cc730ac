// Package diagnostics folds a finished DDG trace window into allocation
// and re-evaluation counts. It is a pure fold — it has no effect on the
// DDG that produced the trace (§4.2).
package diagnostics

import "github.com/ddg-lab/ddg-opt/internal/ddg"

// Counts holds the per-kind tallies produced by Analyse.
type Counts struct {
	FreshCells   int
	FreshThunks  int
	ReusedCells  int
	ReusedThunks int
	ForcedRerun  int
	ForcedClean  int
	SetNoChange  int
	SetChanged   int
	CleanRevalidations int
}

// Analyse walks a trace slice once and returns the tallies described in
// §4.2. It never mutates traces and never touches the runtime.
func Analyse(traces []ddg.Trace) Counts {
	var c Counts
	for _, tr := range traces {
		switch tr.Effect {
		case ddg.EffectAlloc:
			switch tr.ArtKind {
			case ddg.KindCell:
				if tr.AllocCase == ddg.LocFresh {
					c.FreshCells++
				} else {
					c.ReusedCells++
				}
			case ddg.KindThunk:
				if tr.AllocCase == ddg.LocFresh {
					c.FreshThunks++
				} else {
					c.ReusedThunks++
				}
			}
		case ddg.EffectForce:
			if tr.ForceCase == ddg.ForceDirtyRerun {
				c.ForcedRerun++
			} else {
				c.ForcedClean++
			}
		case ddg.EffectSet:
			if tr.SetCase == ddg.SetChanged {
				c.SetChanged++
			} else {
				c.SetNoChange++
			}
		case ddg.EffectCleanRevalidate:
			c.CleanRevalidations++
		}
	}
	return c
}

// Thunks returns the total number of thunk allocations (fresh + reused;
// a location rebound twice counts twice), matching the original diagnostics.rs "thunks_count"
// metric used by the coloring computation's own tests.
func (c Counts) Thunks() int { return c.FreshThunks + c.ReusedThunks }

// Cells returns the total number of cell allocations (fresh + reused).
func (c Counts) Cells() int { return c.FreshCells + c.ReusedCells }

// Reruns returns how many thunk bodies actually executed (as opposed to
// being revalidated without running) — the quantity §8 P2/P3/P4 constrain.
func (c Counts) Reruns() int { return c.ForcedRerun }
