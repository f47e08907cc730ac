package snapshot

import (
	"path/filepath"
	"testing"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	h := New(KindTSP)
	h.RecordTSPMove([]int{4, 3, 0, 2, 1}, 17)
	h.RecordTSPMove([]int{4, 0, 1, 2, 3}, 5)

	path := filepath.Join(t.TempDir(), "history.yaml")
	if err := h.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Kind != KindTSP {
		t.Fatalf("kind = %v, want tsp", loaded.Kind)
	}
	if len(loaded.Moves) != 2 {
		t.Fatalf("want 2 moves, got %d", len(loaded.Moves))
	}
	if loaded.Moves[1].Score != 5 {
		t.Fatalf("final score = %d, want 5", loaded.Moves[1].Score)
	}
}

func TestColoringHistoryRoundTrip(t *testing.T) {
	h := New(KindColoring)
	h.RecordColoringMove(0, 1, 2)
	h.RecordColoringMove(1, 1, -8)

	path := filepath.Join(t.TempDir(), "coloring.yaml")
	if err := h.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded.Moves[0].Vertex != 0 || *loaded.Moves[0].Color != 1 {
		t.Fatalf("unexpected first move: %+v", loaded.Moves[0])
	}
}
