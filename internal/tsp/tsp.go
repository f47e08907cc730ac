// Package tsp builds the permutation-length scoring DDG for the
// traveling-salesman 2-opt local search and drives the search itself
// (§4.4, §6.2 C4).
package tsp

import (
	"fmt"

	"github.com/ddg-lab/ddg-opt/internal/ddg"
	"github.com/ddg-lab/ddg-opt/internal/graphmodel"
)

// Path is an ordered sequence of vertex ids; Path[i] is visited at step
// i, and the tour closes from the last entry back to the first.
type Path []graphmodel.PointID

// DDG holds the `pos` input cells and the root of the balanced
// summation tree over leg thunks (§4.4).
type DDG struct {
	ctx    *ddg.Context
	weight [][]int32
	pos    []ddg.Art[graphmodel.PointID]
	root   ddg.Art[int32]
	sealed bool
}

// Build constructs the scoring DDG for the given starting path against
// a fixed weight table captured by reference (§4.4).
func Build(ctx *ddg.Context, weight [][]int32, start Path) (*DDG, error) {
	n := len(start)
	if n < 2 {
		return nil, fmt.Errorf("tsp: path must have at least 2 vertices, got %d", n)
	}
	d := &DDG{ctx: ctx, weight: weight}
	d.pos = make([]ddg.Art[graphmodel.PointID], n)
	for i, v := range start {
		d.pos[i] = ddg.Cell(ctx, fmt.Sprintf("pos_%d", i), v)
	}

	legs := make([]ddg.Art[int32], n)
	for i := 0; i < n-1; i++ {
		i := i
		legs[i] = ddg.Thunk(ctx, fmt.Sprintf("leg_%d", i), func(c *ddg.Context) (int32, error) {
			u, err := ddg.Get(c, d.pos[i])
			if err != nil {
				return 0, err
			}
			v, err := ddg.Get(c, d.pos[i+1])
			if err != nil {
				return 0, err
			}
			return d.weight[u][v], nil
		})
	}
	legs[n-1] = ddg.Thunk(ctx, "leg_close", func(c *ddg.Context) (int32, error) {
		u, err := ddg.Get(c, d.pos[n-1])
		if err != nil {
			return 0, err
		}
		v, err := ddg.Get(c, d.pos[0])
		if err != nil {
			return 0, err
		}
		return d.weight[v][u], nil
	})

	d.root = buildSumTree(ctx, legs, 0, n-1)
	return d, nil
}

// buildSumTree constructs the balanced divide-and-conquer summation
// tree over legs[l..r] inclusive (§4.4 point 3). A left-spine fold
// would degrade re-scoring to Θ(N); this yields Θ(log N).
func buildSumTree(ctx *ddg.Context, legs []ddg.Art[int32], l, r int) ddg.Art[int32] {
	if l == r {
		return legs[l]
	}
	mid := (l + r) / 2
	left := buildSumTree(ctx, legs, l, mid)
	right := buildSumTree(ctx, legs, mid+1, r)
	return ddg.Thunk(ctx, fmt.Sprintf("sum_%d_%d", l, r), func(c *ddg.Context) (int32, error) {
		lv, err := ddg.Get(c, left)
		if err != nil {
			return 0, err
		}
		rv, err := ddg.Get(c, right)
		if err != nil {
			return 0, err
		}
		return lv + rv, nil
	})
}

// Length returns the current total path length, re-running only the
// legs whose pos cells actually changed since the last call (§4.4).
func (d *DDG) Length() (int32, error) {
	return ddg.Get(d.ctx, d.root)
}

// N returns the number of vertices in the path.
func (d *DDG) N() int { return len(d.pos) }

// Path returns the current path by reading every pos cell.
func (d *DDG) Path() (Path, error) {
	out := make(Path, len(d.pos))
	for i, c := range d.pos {
		v, err := ddg.Get(d.ctx, c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ApplySwap reverses the subpath (i+1..j) in place — the classic 2-opt
// move — and writes the new vertex ids to the affected pos cells
// (§4.4 Update). Each set is value-equality-aware, so cells whose
// vertex id doesn't change (e.g. the reversal's midpoint when the
// span has odd length) don't trigger downstream dirtying.
func (d *DDG) ApplySwap(i, j int) error {
	if d.sealed {
		return ddg.MutateAfterSealError{What: "tsp DDG"}
	}
	n := len(d.pos)
	if i < 0 || j >= n || i >= j {
		return fmt.Errorf("tsp: invalid swap indices i=%d j=%d n=%d", i, j, n)
	}
	current, err := d.Path()
	if err != nil {
		return err
	}
	lo, hi := i+1, j
	for lo < hi {
		current[lo], current[hi] = current[hi], current[lo]
		lo++
		hi--
	}
	for k := i + 1; k <= j; k++ {
		if err := ddg.Set(d.ctx, d.pos[k], current[k]); err != nil {
			return err
		}
	}
	return nil
}

// Seal prevents further ApplySwap calls, matching §4.4's MutateAfterSeal
// error contract.
func (d *DDG) Seal() { d.sealed = true }

// NaiveLength computes the path length directly from the weight table
// with no DDG involved, for the P1/P6 equivalence checks.
func NaiveLength(weight [][]int32, path Path) int32 {
	var total int32
	n := len(path)
	for i := 0; i < n; i++ {
		u := path[i]
		v := path[(i+1)%n]
		total += weight[u][v]
	}
	return total
}
