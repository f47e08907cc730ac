package tsp

// MoveRecorder observes accepted 2-opt moves as they're applied, so a
// caller (internal/patchlog, internal/snapshot) can record search
// history without this package depending on either.
type MoveRecorder interface {
	RecordSwap(i, j int, path Path, length int32) error
}

// Search runs 2-opt to a local optimum (§6.2 C6, mirroring the
// original tsp_2_opt loop), scoring every tentative swap through the
// DDG root rather than recomputing the full path length. Every
// accepted swap strictly decreases Length() (§8 P7); rejected swaps
// are reverted by reapplying the same reversal, which is its own
// inverse.
func Search(d *DDG, recorder MoveRecorder) (int32, error) {
	best, err := d.Length()
	if err != nil {
		return 0, err
	}
	n := d.N()
	improved := true
	for improved {
		improved = false
		for i := 0; i < n-1; i++ {
			for j := i + 2; j < n; j++ {
				if err := d.ApplySwap(i, j); err != nil {
					return 0, err
				}
				newLen, err := d.Length()
				if err != nil {
					return 0, err
				}
				if newLen < best {
					best = newLen
					improved = true
					if recorder != nil {
						path, err := d.Path()
						if err != nil {
							return 0, err
						}
						if err := recorder.RecordSwap(i, j, path, best); err != nil {
							return 0, err
						}
					}
				} else {
					if err := d.ApplySwap(i, j); err != nil {
						return 0, err
					}
				}
			}
		}
	}
	return best, nil
}
