// Package coloring builds the flag-parameterized scoring DDG for graph
// coloring local search (§4.5, §6.2 C5) and its search driver.
package coloring

import (
	"fmt"

	"github.com/Knetic/govaluate"

	"github.com/ddg-lab/ddg-opt/internal/ddg"
	"github.com/ddg-lab/ddg-opt/internal/graphmodel"
)

// DefaultCostExpr is the default branch-score formula, matching spec's
// adopted `2·V·E − V²` convention (§9 Open Question (a)).
const DefaultCostExpr = "2*V*E - V*V"

// Flags independently control the three construction strategies named
// in §4.5: merge_layers fuses guard/count/combine into one thunk body
// per color, dynamic_branches builds only branches for colors in use,
// firewall wraps guards in the firewall pattern.
type Flags struct {
	MergeLayers     bool
	DynamicBranches bool
	Firewall        bool
}

// branch holds one color's worth of scoring nodes. With Flags.MergeLayers
// only score is populated; otherwise exactly one of the guard
// representations is populated, depending on Flags.Firewall.
type branch struct {
	color int32

	guards       []ddg.Art[bool]         // Firewall == false
	firewalled   []ddg.Art[ddg.Art[bool]] // Firewall == true

	count   ddg.Art[int32]
	illegal ddg.Art[int32]
	score   ddg.Art[int32]
}

// DDG is the graph coloring scoring DDG: N input color cells plus one
// branch per color, summed into a root thunk. Without DynamicBranches
// all N branches are built up front; with it, branches are built on
// demand starting from color 0.
type DDG struct {
	ctx   *ddg.Context
	graph *graphmodel.Graph
	flags Flags
	cost  *govaluate.EvaluableExpression

	colors     []ddg.Art[int32]
	branches   []*branch
	usedColors int32
	root       ddg.Art[int32]
	sealed     bool
}

// Build constructs the coloring DDG for graph g, starting every vertex
// at color 0, with the given construction flags and cost formula
// (empty costExpr defaults to DefaultCostExpr).
func Build(ctx *ddg.Context, g *graphmodel.Graph, flags Flags, costExpr string) (*DDG, error) {
	if costExpr == "" {
		costExpr = DefaultCostExpr
	}
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(costExpr, nil)
	if err != nil {
		return nil, fmt.Errorf("coloring: invalid cost expression %q: %w", costExpr, err)
	}

	n := g.NVertices()
	d := &DDG{ctx: ctx, graph: g, flags: flags, cost: expr}
	d.colors = make([]ddg.Art[int32], n)
	for v := 0; v < n; v++ {
		d.colors[v] = ddg.Cell(ctx, fmt.Sprintf("color_%d", v), int32(0))
	}

	initialBranches := n
	if flags.DynamicBranches {
		initialBranches = 1
	}
	d.usedColors = int32(initialBranches)
	for c := 0; c < initialBranches; c++ {
		d.branches = append(d.branches, d.buildBranch(int32(c)))
	}
	d.rebuildRoot()
	return d, nil
}

func (d *DDG) evalScore(count, illegal int32) (int32, error) {
	params := govaluate.MapParameters{"V": float64(count), "E": float64(illegal)}
	res, err := d.cost.Eval(params)
	if err != nil {
		return 0, err
	}
	return int32(res.(float64)), nil
}

// buildBranch constructs all scoring nodes for one color (§4.5 Branch
// construction). Guard representation and fusion depend on d.flags.
func (d *DDG) buildBranch(c int32) *branch {
	n := len(d.colors)
	br := &branch{color: c}

	if d.flags.MergeLayers {
		// Inline guard/count/illegal-edge into a single thunk body per
		// color; still reads the color cells directly (§4.5 point 4).
		br.score = ddg.Thunk(d.ctx, fmt.Sprintf("branch_%d", c), func(ctxt *ddg.Context) (int32, error) {
			var membership []int
			var count int32
			for v := 0; v < n; v++ {
				col, err := ddg.Get(ctxt, d.colors[v])
				if err != nil {
					return 0, err
				}
				if col == c {
					membership = append(membership, v)
					count++
				}
			}
			var illegal int32
			for i := 0; i < len(membership); i++ {
				for j := i + 1; j < len(membership); j++ {
					if _, ok := d.graph.EdgeBetween(membership[i], membership[j]); ok {
						illegal++
					}
				}
			}
			return d.evalScore(count, illegal)
		})
		return br
	}

	if d.flags.Firewall {
		br.firewalled = make([]ddg.Art[ddg.Art[bool]], n)
		for v := 0; v < n; v++ {
			v := v
			br.firewalled[v] = ddg.Thunk(d.ctx, fmt.Sprintf("g_%d_%d", v, c), func(ctxt *ddg.Context) (ddg.Art[bool], error) {
				col, err := ddg.Get(ctxt, d.colors[v])
				if err != nil {
					return ddg.Art[bool]{}, err
				}
				return ddg.Cell(ctxt, fmt.Sprintf("g_%d_%d/out", v, c), col == c), nil
			})
		}
	} else {
		br.guards = make([]ddg.Art[bool], n)
		for v := 0; v < n; v++ {
			v := v
			br.guards[v] = ddg.Thunk(d.ctx, fmt.Sprintf("g_%d_%d", v, c), func(ctxt *ddg.Context) (bool, error) {
				col, err := ddg.Get(ctxt, d.colors[v])
				if err != nil {
					return false, err
				}
				return col == c, nil
			})
		}
	}

	br.count = ddg.Thunk(d.ctx, fmt.Sprintf("cnt_%d", c), func(ctxt *ddg.Context) (int32, error) {
		var total int32
		for v := 0; v < n; v++ {
			member, err := d.readGuard(ctxt, br, v)
			if err != nil {
				return 0, err
			}
			if member {
				total++
			}
		}
		return total, nil
	})

	br.illegal = ddg.Thunk(d.ctx, fmt.Sprintf("ill_%d", c), func(ctxt *ddg.Context) (int32, error) {
		var members []int
		for v := 0; v < n; v++ {
			member, err := d.readGuard(ctxt, br, v)
			if err != nil {
				return 0, err
			}
			if member {
				members = append(members, v)
			}
		}
		var illegal int32
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				if _, ok := d.graph.EdgeBetween(members[i], members[j]); ok {
					illegal++
				}
			}
		}
		return illegal, nil
	})

	br.score = ddg.Thunk(d.ctx, fmt.Sprintf("branch_%d", c), func(ctxt *ddg.Context) (int32, error) {
		count, err := ddg.Get(ctxt, br.count)
		if err != nil {
			return 0, err
		}
		illegal, err := ddg.Get(ctxt, br.illegal)
		if err != nil {
			return 0, err
		}
		return d.evalScore(count, illegal)
	})
	return br
}

func (d *DDG) readGuard(ctxt *ddg.Context, br *branch, v int) (bool, error) {
	if d.flags.Firewall {
		inner, err := ddg.Force(ctxt, br.firewalled[v])
		if err != nil {
			return false, err
		}
		return ddg.Get(ctxt, inner)
	}
	return ddg.Get(ctxt, br.guards[v])
}

// rebuildRoot rebinds the "total" location over the current branch
// list (§4.5 Root / Dynamic extension). Rebinding its location makes
// the old total's consumers see a dirty edge.
func (d *DDG) rebuildRoot() {
	branches := append([]*branch(nil), d.branches...)
	d.root = ddg.Thunk(d.ctx, "total", func(ctxt *ddg.Context) (int32, error) {
		var total int32
		for _, br := range branches {
			v, err := ddg.Get(ctxt, br.score)
			if err != nil {
				return 0, err
			}
			total += v
		}
		return total, nil
	})
}

// Cost returns the current total coloring cost.
func (d *DDG) Cost() (int32, error) {
	return ddg.Get(d.ctx, d.root)
}

// N returns the number of vertices.
func (d *DDG) N() int { return len(d.colors) }

// UsedColors returns how many colors are available to the search: N
// without DynamicBranches, otherwise 1 plus one per accepted
// CommitColorCapacity. A speculative branch built by SetColor is not
// counted until committed.
func (d *DDG) UsedColors() int32 { return d.usedColors }

// Color returns vertex v's current color.
func (d *DDG) Color(v int) (int32, error) {
	return ddg.Get(d.ctx, d.colors[v])
}

// SetColor assigns vertex v a color (§4.5 Dynamic extension / Errors).
// With DynamicBranches, assigning UsedColors() extends the branch list
// by one and rebuilds the root; assigning anything greater is an error.
func (d *DDG) SetColor(v int, newColor int32) error {
	if d.sealed {
		return ddg.MutateAfterSealError{What: "coloring DDG"}
	}
	n := int32(len(d.colors))
	if newColor < 0 || newColor >= n {
		return InvalidColorError{Color: newColor, N: n}
	}
	if d.flags.DynamicBranches {
		if newColor > d.usedColors {
			return InvalidColorError{Color: newColor, N: n}
		}
		if newColor == d.usedColors {
			// Build the branch so its score can be measured, but leave
			// used_colors untouched — it only grows on acceptance
			// (§4.5 Dynamic extension), via CommitColorCapacity.
			d.ensureBranch(newColor)
		}
	}
	return ddg.Set(d.ctx, d.colors[v], newColor)
}

// ensureBranch builds branches up through index c, if not already
// built, and rebuilds the root over the extended branch list.
func (d *DDG) ensureBranch(c int32) {
	if int32(len(d.branches)) > c {
		return
	}
	for int32(len(d.branches)) <= c {
		d.branches = append(d.branches, d.buildBranch(int32(len(d.branches))))
	}
	d.rebuildRoot()
}

// CommitColorCapacity permanently grows used_colors to include color c,
// if it was the next speculative color built by SetColor. A driver
// calls this once it decides to accept a fresh-color assignment
// produced via SetColor(v, UsedColors()) (§4.6 try_new_color).
func (d *DDG) CommitColorCapacity(c int32) {
	if c == d.usedColors {
		d.usedColors++
	}
}

// Seal prevents further mutation, matching §4.5's MutateAfterSeal
// error contract.
func (d *DDG) Seal() { d.sealed = true }

// InvalidColorError is returned when a color assignment violates
// `0 <= c < N` or, under dynamic branch extension, `c <= used_colors`.
type InvalidColorError struct {
	Color int32
	N     int32
}

func (e InvalidColorError) Error() string {
	return fmt.Sprintf("coloring: invalid color %d for graph with %d vertices", e.Color, e.N)
}
