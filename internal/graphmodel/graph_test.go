package graphmodel

import (
	"math/rand"
	"testing"
)

func TestFromAdjacencyMatrixWeightTable(t *testing.T) {
	// a literal 5-node weight table: symmetric, zero diagonal.
	w := [][]int32{
		{0, 2, 9, 10, 7},
		{2, 0, 6, 4, 3},
		{9, 6, 0, 8, 5},
		{10, 4, 8, 0, 6},
		{7, 3, 5, 6, 0},
	}
	rng := rand.New(rand.NewSource(1))
	g := FromAdjacencyMatrix(5, w, rng)

	if g.NVertices() != 5 {
		t.Fatalf("NVertices() = %d, want 5", g.NVertices())
	}
	got := g.WeightTable()
	for i := range w {
		for j := range w[i] {
			if got[i][j] != w[i][j] {
				t.Fatalf("WeightTable()[%d][%d] = %d, want %d", i, j, got[i][j], w[i][j])
			}
		}
	}
}

func TestAddEdgeRejectsSelfLoop(t *testing.T) {
	defer func() {
		r := recover()
		if _, ok := r.(SelfEdgeError); !ok {
			t.Fatalf("want SelfEdgeError panic, got %v", r)
		}
	}()
	g := New()
	g.AddNodes([]Point{{}, {}})
	g.AddEdge(0, 0, 1)
}

func TestFillWithEdgesFullConnectsEveryPair(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := New()
	g.FillWithRandomPoints(4, rng)
	g.FillWithEdgesFull()

	want := 4 * 3 / 2
	if len(g.Edges) != want {
		t.Fatalf("len(Edges) = %d, want %d", len(g.Edges), want)
	}
	for u := 0; u < 4; u++ {
		if len(g.Adjacent(u)) != 3 {
			t.Fatalf("Adjacent(%d) has %d neighbors, want 3", u, len(g.Adjacent(u)))
		}
	}
}

func TestEdgeBetweenIsUndirected(t *testing.T) {
	g := New()
	g.AddNodes([]Point{{}, {}})
	g.AddEdge(0, 1, 5)

	e1, ok1 := g.EdgeBetween(0, 1)
	e2, ok2 := g.EdgeBetween(1, 0)
	if !ok1 || !ok2 || e1.Weight != 5 || e2.Weight != 5 {
		t.Fatalf("EdgeBetween asymmetric: %v,%v %v,%v", e1, ok1, e2, ok2)
	}
}

func TestFillWithEdgesStochasticRespectsEmptyPrecondition(t *testing.T) {
	defer func() {
		r := recover()
		if _, ok := r.(EmptyGraphError); !ok {
			t.Fatalf("want EmptyGraphError panic, got %v", r)
		}
	}()
	rng := rand.New(rand.NewSource(2))
	g := New()
	g.AddNodes([]Point{{}, {}})
	g.AddEdge(0, 1, 1)
	g.FillWithEdgesStochastic(0.5, rng)
}
