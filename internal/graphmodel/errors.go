package graphmodel

import "fmt"

// SelfEdgeError is raised when AddEdge is asked to connect a vertex to
// itself; the graph model never represents self-loops (§7 edge cases).
type SelfEdgeError struct {
	Vertex PointID
}

func (e SelfEdgeError) Error() string {
	return fmt.Sprintf("graphmodel: self-edge not allowed at vertex %d", e.Vertex)
}

// EmptyGraphError is raised when a fill_* operation's precondition on
// the graph's current node/edge count is violated.
type EmptyGraphError struct {
	Reason string
}

func (e EmptyGraphError) Error() string {
	return fmt.Sprintf("graphmodel: %s", e.Reason)
}
