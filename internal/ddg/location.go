// Package ddg implements the demand-driven dependency graph runtime: cells,
// thunks, scoped evaluation, dirty propagation, memoization, and traces.
package ddg

import "strings"

// Location is the stable address of an Art: a scope path plus a leaf name.
// Two Arts allocated with equal Locations refer to the same DDG node —
// the second allocation rebinds the first.
type Location struct {
	Segments []string
}

// NewLocation builds a Location from a scope path and a leaf name.
func NewLocation(scope []string, name string) Location {
	segs := make([]string, 0, len(scope)+1)
	segs = append(segs, scope...)
	segs = append(segs, name)
	return Location{Segments: segs}
}

// String renders the Location using "/" to join segments; ":" and "/" are
// reserved in user-supplied name segments for this reason (§6.1).
func (l Location) String() string {
	return strings.Join(l.Segments, "/")
}

// Equal reports whether two Locations address the same node.
func (l Location) Equal(other Location) bool {
	if len(l.Segments) != len(other.Segments) {
		return false
	}
	for i := range l.Segments {
		if l.Segments[i] != other.Segments[i] {
			return false
		}
	}
	return true
}
