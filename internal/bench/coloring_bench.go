package bench

import (
	"math/rand"
	"testing"

	"github.com/ddg-lab/ddg-opt/internal/coloring"
	"github.com/ddg-lab/ddg-opt/internal/ddg"
	"github.com/ddg-lab/ddg-opt/internal/graphmodel"
)

// ColoringSizes mirrors the original's `[10, 20, 50, 100]` benchmark group.
var ColoringSizes = []int{10, 20, 50, 100}

func randomColoringInstance(n int, seed int64) *graphmodel.Graph {
	rng := rand.New(rand.NewSource(seed))
	g := graphmodel.New()
	g.FillWithRandomPoints(n, rng)
	g.FillWithEdgesFull()
	return g
}

// RunColoringFast scores every candidate recoloring by recomputing the
// full cost formula from scratch with no DDG bookkeeping — the naive
// baseline (§6.3 "Fast (naive)"). Each color class is scored with a
// single combined pass that builds the member list and counts illegal
// edges among members together.
func RunColoringFast(g *graphmodel.Graph) int32 {
	return runColoringNaiveSearch(g, naiveColoringCost)
}

// RunColoringSlow is the "doubly-counted baseline" (§6.3 "Slow"):
// it recomputes from scratch exactly as RunColoringFast does, but
// scores each color class with two separate full vertex sweeps —
// one to count the members, a second, independent sweep over
// every ordered pair of vertices to tally illegal edges (so each
// illegal edge is counted once from each endpoint's perspective and
// then halved) — reproducing the original's separate, less-optimized
// `ScoreCalcType::Slow` code path rather than Fast's combined pass.
func RunColoringSlow(g *graphmodel.Graph) int32 {
	return runColoringNaiveSearch(g, naiveColoringCostDoubleCounted)
}

func naiveColoringCost(g *graphmodel.Graph, colors []int32) int32 {
	n := g.NVertices()
	maxColor := int32(0)
	for _, c := range colors {
		if c > maxColor {
			maxColor = c
		}
	}
	var total int32
	for c := int32(0); c <= maxColor; c++ {
		var members []int
		for v := 0; v < n; v++ {
			if colors[v] == c {
				members = append(members, v)
			}
		}
		count := int32(len(members))
		var illegal int32
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				if _, ok := g.EdgeBetween(members[i], members[j]); ok {
					illegal++
				}
			}
		}
		total += 2*count*illegal - count*count
	}
	return total
}

// naiveColoringCostDoubleCounted scores the same way as
// naiveColoringCost but with membership and illegal-edge counting
// split into two independent full sweeps, and illegal edges tallied
// over every ordered pair (i, j) rather than just i < j — doubling
// the count, which is then halved back out. It produces the same
// score as naiveColoringCost, but by genuinely doing more work per
// candidate, matching the original's distinct "Slow" scoring path.
func naiveColoringCostDoubleCounted(g *graphmodel.Graph, colors []int32) int32 {
	n := g.NVertices()
	maxColor := int32(0)
	for _, c := range colors {
		if c > maxColor {
			maxColor = c
		}
	}
	var total int32
	for c := int32(0); c <= maxColor; c++ {
		var count int32
		for v := 0; v < n; v++ {
			if colors[v] == c {
				count++
			}
		}

		var illegalDoubled int32
		for i := 0; i < n; i++ {
			if colors[i] != c {
				continue
			}
			for j := 0; j < n; j++ {
				if i == j || colors[j] != c {
					continue
				}
				if _, ok := g.EdgeBetween(i, j); ok {
					illegalDoubled++
				}
			}
		}
		illegal := illegalDoubled / 2

		total += 2*count*illegal - count*count
	}
	return total
}

func runColoringNaiveSearch(g *graphmodel.Graph, cost func(*graphmodel.Graph, []int32) int32) int32 {
	n := g.NVertices()
	colors := make([]int32, n)
	usedColors := int32(1)
	best := cost(g, colors)

	improved := true
	for improved {
		improved = false
		for v := 0; v < n; v++ {
			original := colors[v]
			bestColor, bestCost := original, best
			for c := int32(0); c < usedColors; c++ {
				if c == original {
					continue
				}
				colors[v] = c
				if candidate := cost(g, colors); candidate < bestCost {
					bestCost, bestColor = candidate, c
				}
			}
			colors[v] = bestColor
			if bestCost < best {
				best = bestCost
				improved = true
			}

			if usedColors < int32(n) {
				colors[v] = usedColors
				if candidate := cost(g, colors); candidate < best {
					best = candidate
					usedColors++
					improved = true
				} else {
					colors[v] = bestColor
				}
			}
		}
	}
	return best
}

// RunColoringIncremental builds the flag-parameterized DDG for the
// given flags and runs the DDG-backed search driver.
func RunColoringIncremental(g *graphmodel.Graph, flags coloring.Flags) (int32, error) {
	ctx := ddg.InitCtx()
	d, err := coloring.Build(ctx, g, flags, "")
	if err != nil {
		return 0, err
	}
	return coloring.Search(d, nil)
}

// ColoringIncrementalVariants names the four-way Incremental split
// from §6.3: default, merged, merged+dynamic, merged+dynamic+firewall.
var ColoringIncrementalVariants = []struct {
	Name  string
	Flags coloring.Flags
}{
	{"default", coloring.Flags{}},
	{"merged", coloring.Flags{MergeLayers: true}},
	{"merged+dynamic", coloring.Flags{MergeLayers: true, DynamicBranches: true}},
	{"merged+dynamic+firewall", coloring.Flags{MergeLayers: true, DynamicBranches: true, Firewall: true}},
}

// BenchmarkColoring runs Fast/Slow/Incremental{...} across
// ColoringSizes, mirroring the original's criterion benchmark_group.
func BenchmarkColoring(b *testing.B) {
	for _, n := range ColoringSizes {
		g := randomColoringInstance(n, int64(n))

		b.Run("Fast/"+sizeLabel(n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				RunColoringFast(g)
			}
		})
		b.Run("Slow/"+sizeLabel(n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				RunColoringSlow(g)
			}
		})
		for _, variant := range ColoringIncrementalVariants {
			variant := variant
			b.Run("Incremental/"+variant.Name+"/"+sizeLabel(n), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					if _, err := RunColoringIncremental(g, variant.Flags); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
