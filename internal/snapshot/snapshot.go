// Package snapshot persists search-driver history to disk. It
// promotes tsp.rs's in-memory `history: Vec<TspPath>` (and the
// coloring driver's equivalent implicit history) to a first-class,
// serializable document, grounded on the teacher's YAML load/marshal
// pattern (`parseYAML`/`op_stringify.go`'s `yaml.Marshal`).
package snapshot

import (
	"fmt"
	"os"

	"github.com/geofffranks/simpleyaml"
	"github.com/geofffranks/yaml"
)

// Kind distinguishes which application produced a snapshot document.
type Kind string

const (
	KindTSP      Kind = "tsp"
	KindColoring Kind = "coloring"
)

// Move is one accepted step recorded into History: either a new TSP
// path or a single vertex recoloring, plus the resulting score.
type Move struct {
	Path  []int `yaml:"path,omitempty"`
	Vertex *int `yaml:"vertex,omitempty"`
	Color  *int `yaml:"color,omitempty"`
	Score int32 `yaml:"score"`
}

// History is the on-disk document: a kind tag plus an ordered list of
// accepted moves, serialized as YAML.
type History struct {
	Kind  Kind   `yaml:"kind"`
	Moves []Move `yaml:"moves"`
}

// New returns an empty history of the given kind.
func New(kind Kind) *History {
	return &History{Kind: kind}
}

// RecordTSPMove appends a new accepted TSP path + length.
func (h *History) RecordTSPMove(path []int, length int32) {
	h.Moves = append(h.Moves, Move{Path: append([]int(nil), path...), Score: length})
}

// RecordColoringMove appends a single accepted vertex recoloring.
func (h *History) RecordColoringMove(vertex int, color int32, cost int32) {
	v, c := vertex, int(color)
	h.Moves = append(h.Moves, Move{Vertex: &v, Color: &c, Score: cost})
}

// Save marshals the history to YAML and writes it to path, using the
// same `yaml.Marshal` call the teacher's op_stringify.go uses.
func (h *History) Save(path string) error {
	data, err := yaml.Marshal(h)
	if err != nil {
		return fmt.Errorf("snapshot: marshalling history: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: writing %s: %w", path, err)
	}
	return nil
}

// Load reads a history document back from disk, validating its shape
// with simpleyaml the way the teacher's parseYAML does before handing
// back a typed document.
func Load(path string) (*History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: reading %s: %w", path, err)
	}

	y, err := simpleyaml.NewYaml(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %s is not valid YAML: %w", path, err)
	}
	if _, err := y.Map(); err != nil {
		return nil, fmt.Errorf("snapshot: root of %s is not a hash/map: %w", path, err)
	}

	var h History
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshalling %s: %w", path, err)
	}
	return &h, nil
}
