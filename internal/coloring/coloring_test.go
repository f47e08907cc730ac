package coloring

import (
	"testing"

	"github.com/ddg-lab/ddg-opt/internal/ddg"
	"github.com/ddg-lab/ddg-opt/internal/graphmodel"
)

func bipartiteFixture() *graphmodel.Graph {
	g := graphmodel.New()
	g.AddNodes([]graphmodel.Point{{}, {}, {}, {}})
	g.Add2DEdge(0, 2)
	g.Add2DEdge(0, 3)
	g.Add2DEdge(1, 2)
	g.Add2DEdge(1, 3)
	return g
}

// Scenario adapted from graph_coloring_comp.rs test_computation_layer,
// recomputed for the `2VE - V^2` formula this module adopts (the
// original uses `2VE + V^2`; see DESIGN.md for the resolution of that
// discrepancy). All vertices start at color 0 (cost 16), then migrate
// one at a time into the bipartition that makes both groups legal.
func TestComputationLayerLiteralScenario(t *testing.T) {
	g := bipartiteFixture()
	ctx := ddg.InitCtx()
	d, err := Build(ctx, g, Flags{}, "")
	if err != nil {
		t.Fatal(err)
	}

	cost, err := d.Cost()
	if err != nil {
		t.Fatal(err)
	}
	if cost != 16 {
		t.Fatalf("initial cost = %d, want 16", cost)
	}

	if err := d.SetColor(0, 1); err != nil {
		t.Fatal(err)
	}
	cost, err = d.Cost()
	if err != nil {
		t.Fatal(err)
	}
	if cost != 2 {
		t.Fatalf("cost after recoloring 0 = %d, want 2", cost)
	}

	if err := d.SetColor(1, 1); err != nil {
		t.Fatal(err)
	}
	cost, err = d.Cost()
	if err != nil {
		t.Fatal(err)
	}
	if cost != -8 {
		t.Fatalf("cost after recoloring 1 = %d, want -8", cost)
	}
}

func fiveVertexFixture() *graphmodel.Graph {
	g := graphmodel.New()
	g.AddNodes([]graphmodel.Point{{}, {}, {}, {}, {}})
	g.Add2DEdge(0, 1)
	g.Add2DEdge(0, 4)
	g.Add2DEdge(1, 2)
	g.Add2DEdge(1, 3)
	g.Add2DEdge(2, 3)
	g.Add2DEdge(2, 4)
	g.Add2DEdge(3, 4)
	return g
}

// Literal scenario from §8 scenario 4: a 5-vertex graph with edges
// {(0,1),(0,4),(1,2),(1,3),(2,3),(2,4),(3,4)}, all vertices starting
// at color 0, recolored one vertex at a time.
func TestFiveVertexLiteralScenario(t *testing.T) {
	g := fiveVertexFixture()
	ctx := ddg.InitCtx()
	d, err := Build(ctx, g, Flags{}, "")
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		vertex int
		color  int32
		want   int32
	}{
		{-1, -1, 45}, // initial, all zero
		{0, 1, 23},
		{1, 2, 7},
		{2, 1, -5},
		{4, 2, -9},
	}

	for i, step := range steps {
		if step.vertex >= 0 {
			if err := d.SetColor(step.vertex, step.color); err != nil {
				t.Fatalf("step %d: SetColor(%d, %d): %v", i, step.vertex, step.color, err)
			}
		}
		cost, err := d.Cost()
		if err != nil {
			t.Fatal(err)
		}
		if cost != step.want {
			t.Fatalf("step %d: cost = %d, want %d", i, cost, step.want)
		}
	}
}

// Literal scenario from test_invalid_edges_layer.
func TestInvalidEdgesLiteralScenario(t *testing.T) {
	g := bipartiteFixture()
	ctx := ddg.InitCtx()
	d, err := Build(ctx, g, Flags{}, "")
	if err != nil {
		t.Fatal(err)
	}

	illegal, err := ddg.Get(ctx, d.branches[0].illegal)
	if err != nil {
		t.Fatal(err)
	}
	if illegal != 4 {
		t.Fatalf("branch 0 illegal edges = %d, want 4", illegal)
	}

	if err := d.SetColor(0, 1); err != nil {
		t.Fatal(err)
	}
	illegal, err = ddg.Get(ctx, d.branches[0].illegal)
	if err != nil {
		t.Fatal(err)
	}
	if illegal != 2 {
		t.Fatalf("branch 0 illegal edges after recolor = %d, want 2", illegal)
	}

	if err := d.SetColor(1, 1); err != nil {
		t.Fatal(err)
	}
	illegal, err = ddg.Get(ctx, d.branches[0].illegal)
	if err != nil {
		t.Fatal(err)
	}
	if illegal != 0 {
		t.Fatalf("branch 0 illegal edges after both recolors = %d, want 0", illegal)
	}
}

// P9: all 8 flag combinations must agree on the final cost.
func TestAllFlagCombinationsAgree(t *testing.T) {
	g := bipartiteFixture()
	var results []int32
	for _, merge := range []bool{false, true} {
		for _, dynamic := range []bool{false, true} {
			for _, firewall := range []bool{false, true} {
				ctx := ddg.InitCtx()
				d, err := Build(ctx, g, Flags{MergeLayers: merge, DynamicBranches: dynamic, Firewall: firewall}, "")
				if err != nil {
					t.Fatal(err)
				}
				if err := d.SetColor(0, 1); err != nil {
					t.Fatalf("merge=%v dynamic=%v firewall=%v: %v", merge, dynamic, firewall, err)
				}
				if err := d.SetColor(1, 1); err != nil {
					t.Fatalf("merge=%v dynamic=%v firewall=%v: %v", merge, dynamic, firewall, err)
				}
				cost, err := d.Cost()
				if err != nil {
					t.Fatal(err)
				}
				results = append(results, cost)
			}
		}
	}
	for i, c := range results {
		if c != results[0] {
			t.Fatalf("combination %d disagrees: %d != %d", i, c, results[0])
		}
	}
	if results[0] != -8 {
		t.Fatalf("agreed cost = %d, want -8", results[0])
	}
}

func TestDynamicBranchesRejectSkippingAColor(t *testing.T) {
	g := bipartiteFixture()
	ctx := ddg.InitCtx()
	d, err := Build(ctx, g, Flags{DynamicBranches: true}, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetColor(0, 2); err == nil {
		t.Fatal("want InvalidColorError when skipping a color under dynamic branches, got nil")
	}
}

func TestSearchConvergesOnBipartiteGraph(t *testing.T) {
	g := bipartiteFixture()
	ctx := ddg.InitCtx()
	d, err := Build(ctx, g, Flags{DynamicBranches: true}, "")
	if err != nil {
		t.Fatal(err)
	}
	final, err := Search(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	if final != -8 {
		t.Fatalf("search result = %d, want -8 (optimal 2-coloring)", final)
	}
}
