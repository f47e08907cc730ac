// Package graphmodel implements the undirected weighted graph collaborator
// consumed by the TSP and coloring scoring DDGs (§4.3, §6.2).
package graphmodel

import (
	"fmt"
	"math"
	"math/rand"
)

// PointID identifies a vertex by its index into Graph.Nodes.
type PointID = int

// Point is a 2D coordinate, used for Euclidean edge weights. No renderer
// ships with this module and no Renderer interface is defined; the
// Graph's exported Nodes and Boundary fields hold what one would draw.
type Point struct {
	X, Y float64
}

// Edge is an undirected, weighted connection between two distinct
// vertices.
type Edge struct {
	P1, P2 PointID
	Weight int32
}

// Boundary is the (top, bottom, left, right) rectangle new random points
// are drawn from, matching the original graph.rs default of (0,100,0,100).
type Boundary struct {
	Top, Bottom, Left, Right float64
}

// Graph owns the vertex set, the edge list, an adjacency list keyed by
// vertex, and an edges_lookup index for O(1) weight queries (§4.3).
type Graph struct {
	Nodes    []Point
	Edges    []Edge
	AdjList  [][]int // per-vertex list of edge indices into Edges
	Boundary Boundary

	lookup map[[2]PointID]int // (min,max) -> edge index
}

// New returns an empty graph with the default 100x100 boundary.
func New() *Graph {
	return &Graph{
		Boundary: Boundary{Top: 0, Bottom: 100, Left: 0, Right: 100},
		lookup:   make(map[[2]PointID]int),
	}
}

func key(u, v PointID) [2]PointID {
	if u > v {
		u, v = v, u
	}
	return [2]PointID{u, v}
}

// AddNodes appends points to the graph, extending AdjList to match.
func (g *Graph) AddNodes(points []Point) {
	if g.lookup == nil {
		g.lookup = make(map[[2]PointID]int)
	}
	for _, p := range points {
		g.Nodes = append(g.Nodes, p)
		g.AdjList = append(g.AdjList, nil)
	}
}

// AddEdge adds a weighted undirected edge between distinct, in-range
// vertices u and v. Panics (caller contract violation, see EmptyGraph /
// SelfEdge in §7) if the endpoints are invalid.
func (g *Graph) AddEdge(u, v PointID, weight int32) {
	n := len(g.AdjList)
	if u < 0 || u >= n || v < 0 || v >= n {
		panic(fmt.Sprintf("graphmodel: node id out of range: u=%d v=%d n=%d", u, v, n))
	}
	if u == v {
		panic(SelfEdgeError{Vertex: u})
	}
	id := len(g.Edges)
	g.Edges = append(g.Edges, Edge{P1: u, P2: v, Weight: weight})
	g.AdjList[u] = append(g.AdjList[u], id)
	g.AdjList[v] = append(g.AdjList[v], id)
	g.lookup[key(u, v)] = id
}

// Add2DEdge adds an unweighted (weight 1) edge, matching the original's
// add_2d_edge convenience constructor used by graphs built purely for
// adjacency (e.g. coloring test fixtures, where edge weight is unused).
func (g *Graph) Add2DEdge(u, v PointID) {
	g.AddEdge(u, v, 1)
}

// EdgeBetween returns the Edge connecting u and v, if one exists.
func (g *Graph) EdgeBetween(u, v PointID) (Edge, bool) {
	id, ok := g.lookup[key(u, v)]
	if !ok {
		return Edge{}, false
	}
	return g.Edges[id], true
}

// Adjacent returns the vertex ids connected to v, in edge-insertion order.
func (g *Graph) Adjacent(v PointID) []PointID {
	out := make([]PointID, 0, len(g.AdjList[v]))
	for _, eid := range g.AdjList[v] {
		e := g.Edges[eid]
		if e.P1 == v {
			out = append(out, e.P2)
		} else {
			out = append(out, e.P1)
		}
	}
	return out
}

// NVertices returns the number of vertices in the graph.
func (g *Graph) NVertices() int { return len(g.Nodes) }

// WeightTable returns the N×N weight matrix with 0 on the diagonal and
// the edge weight everywhere an edge exists; non-adjacent pairs are 0
// as well, matching the dense table §4.3 calls for.
func (g *Graph) WeightTable() [][]int32 {
	n := len(g.Nodes)
	table := make([][]int32, n)
	for i := range table {
		table[i] = make([]int32, n)
	}
	for _, e := range g.Edges {
		table[e.P1][e.P2] = e.Weight
		table[e.P2][e.P1] = e.Weight
	}
	return table
}

// FillWithRandomPoints populates an empty graph with n points drawn
// uniformly from the graph's Boundary (§4.3 fill_with_random_points).
func (g *Graph) FillWithRandomPoints(n int, rng *rand.Rand) {
	if len(g.Nodes) != 0 {
		panic(EmptyGraphError{Reason: "fill_with_random_points requires an empty graph"})
	}
	for i := 0; i < n; i++ {
		x := g.Boundary.Left + rng.Float64()*(g.Boundary.Right-g.Boundary.Left)
		y := g.Boundary.Bottom + rng.Float64()*(g.Boundary.Top-g.Boundary.Bottom)
		g.Nodes = append(g.Nodes, Point{X: x, Y: y})
		g.AdjList = append(g.AdjList, nil)
	}
}

func euclideanWeight(a, b Point) int32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return int32(math.Round(math.Sqrt(dx*dx + dy*dy)))
}

// FillWithEdgesFull connects every pair of vertices with an edge whose
// weight is the rounded Euclidean distance (§4.3).
func (g *Graph) FillWithEdgesFull() {
	if len(g.Edges) != 0 {
		panic(EmptyGraphError{Reason: "fill_with_edges_full requires a graph with no edges"})
	}
	if len(g.Nodes) < 2 {
		panic(EmptyGraphError{Reason: "fill_with_edges_full requires at least 2 nodes"})
	}
	n := len(g.Nodes)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			g.AddEdge(u, v, euclideanWeight(g.Nodes[u], g.Nodes[v]))
		}
	}
}

// FillWithEdgesStochastic connects each pair of vertices independently
// with probability p, weighted by Euclidean distance (§4.3).
func (g *Graph) FillWithEdgesStochastic(p float64, rng *rand.Rand) {
	if len(g.Edges) != 0 {
		panic(EmptyGraphError{Reason: "fill_with_edges_stochastic requires a graph with no edges"})
	}
	n := len(g.Nodes)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if rng.Float64() < p {
				g.AddEdge(u, v, euclideanWeight(g.Nodes[u], g.Nodes[v]))
			}
		}
	}
}

// FromAdjacencyMatrix builds a Graph from an explicit weight matrix, one
// edge per nonzero upper-triangle entry, with randomly-placed points
// (used only for rendering, never for weights). This restores the
// original's `impl From<(usize, Vec<Vec<i32>>)> for Graph` constructor;
// the TSP and coloring scenario tests build their inputs directly
// (weight tables, AddNodes/Add2DEdge) rather than through it.
func FromAdjacencyMatrix(size int, rows [][]int32, rng *rand.Rand) *Graph {
	if size <= 0 {
		panic(EmptyGraphError{Reason: "graph must have at least 1 node"})
	}
	if len(rows) != size {
		panic(fmt.Sprintf("graphmodel: adjacency list must have %d rows, got %d", size, len(rows)))
	}
	g := New()
	points := make([]Point, size)
	for i := range points {
		points[i] = Point{X: rng.Float64() * 100, Y: rng.Float64() * 100}
	}
	g.AddNodes(points)
	for u, row := range rows {
		for v, weight := range row {
			if u < v && weight != 0 {
				g.AddEdge(u, v, weight)
			}
		}
	}
	return g
}
