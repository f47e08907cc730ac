package coloring

// MoveRecorder observes accepted color reassignments, mirroring
// tsp.MoveRecorder, so a caller can log search history without this
// package depending on the logger.
type MoveRecorder interface {
	RecordRecolor(vertex int, newColor int32, cost int32) error
}

// Search runs the greedy vertex-sweep local search from §4.6: for
// every vertex, try every existing color plus (if room remains) a
// fresh one, keep whichever strictly improves the score, and repeat
// full sweeps until none does.
func Search(d *DDG, recorder MoveRecorder) (int32, error) {
	best, err := d.Cost()
	if err != nil {
		return 0, err
	}
	improved := true
	for improved {
		improved = false
		for v := 0; v < d.N(); v++ {
			if ok, err := trySwap(d, v, &best, recorder); err != nil {
				return 0, err
			} else if ok {
				improved = true
			}
			if ok, err := tryNewColor(d, v, &best, recorder); err != nil {
				return 0, err
			} else if ok {
				improved = true
			}
		}
	}
	return best, nil
}

// trySwap tries every color already in use for vertex v, keeping
// whichever produces the smallest observed score; it restores v's
// original color if nothing improves (§4.6 try_swap).
func trySwap(d *DDG, v int, best *int32, recorder MoveRecorder) (bool, error) {
	original, err := d.Color(v)
	if err != nil {
		return false, err
	}
	bestColor := original
	bestCost := *best
	improved := false

	for c := int32(0); c < d.UsedColors(); c++ {
		if c == original {
			continue
		}
		if err := d.SetColor(v, c); err != nil {
			return false, err
		}
		cost, err := d.Cost()
		if err != nil {
			return false, err
		}
		if cost < bestCost {
			bestCost = cost
			bestColor = c
			improved = true
		}
	}

	if err := d.SetColor(v, bestColor); err != nil {
		return false, err
	}
	if improved {
		*best = bestCost
		if recorder != nil {
			if err := recorder.RecordRecolor(v, bestColor, bestCost); err != nil {
				return false, err
			}
		}
	}
	return improved, nil
}

// tryNewColor assigns vertex v a fresh color iff used_colors < N and
// doing so strictly improves the score; accepting it grows used_colors
// by one (§4.6 try_new_color).
func tryNewColor(d *DDG, v int, best *int32, recorder MoveRecorder) (bool, error) {
	if d.UsedColors() >= int32(d.N()) {
		return false, nil
	}
	original, err := d.Color(v)
	if err != nil {
		return false, err
	}
	fresh := d.UsedColors()

	if err := d.SetColor(v, fresh); err != nil {
		return false, err
	}
	cost, err := d.Cost()
	if err != nil {
		return false, err
	}
	if cost < *best {
		*best = cost
		d.CommitColorCapacity(fresh)
		if recorder != nil {
			if err := recorder.RecordRecolor(v, fresh, cost); err != nil {
				return false, err
			}
		}
		return true, nil
	}

	if err := d.SetColor(v, original); err != nil {
		return false, err
	}
	return false, nil
}
