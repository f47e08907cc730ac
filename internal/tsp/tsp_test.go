package tsp

import (
	"testing"

	"github.com/ddg-lab/ddg-opt/internal/ddg"
	"github.com/ddg-lab/ddg-opt/internal/graphmodel"
)

func weightTable5() [][]int32 {
	return [][]int32{
		{0, 1, 7, 6, 1},
		{1, 0, 1, 4, 9},
		{7, 1, 0, 1, 8},
		{6, 4, 1, 0, 1},
		{1, 9, 8, 1, 0},
	}
}

// The literal N=5 scenario from spec §8: initial path [4,3,0,2,1] has
// length 17, and 2-opt converges to [4,0,1,2,3] with length 5.
func TestTsp2OptConvergesToKnownOptimum(t *testing.T) {
	w := weightTable5()
	ctx := ddg.InitCtx()
	d, err := Build(ctx, w, Path{4, 3, 0, 2, 1})
	if err != nil {
		t.Fatal(err)
	}

	initial, err := d.Length()
	if err != nil {
		t.Fatal(err)
	}
	if initial != 17 {
		t.Fatalf("initial length = %d, want 17", initial)
	}

	final, err := Search(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	if final != 5 {
		t.Fatalf("final length = %d, want 5", final)
	}

	path, err := d.Path()
	if err != nil {
		t.Fatal(err)
	}
	if NaiveLength(w, path) != final {
		t.Fatalf("naive length %d does not match DDG length %d", NaiveLength(w, path), final)
	}
}

// P1/P6: the incremental DDG root equals the naive sum for every
// permutation of a small instance.
func TestIncrementalEqualsNaiveAcrossPermutations(t *testing.T) {
	w := weightTable5()
	perms := permutations([]graphmodel.PointID{0, 1, 2, 3, 4})
	if len(perms) != 120 {
		t.Fatalf("got %d permutations, want 120", len(perms))
	}

	ctx := ddg.InitCtx()
	d, err := Build(ctx, w, Path(perms[0]))
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range perms {
		for i, v := range p {
			if err := ddg.Set(ctx, d.pos[i], v); err != nil {
				t.Fatal(err)
			}
		}
		got, err := d.Length()
		if err != nil {
			t.Fatal(err)
		}
		want := NaiveLength(w, Path(p))
		if got != want {
			t.Fatalf("path %v: DDG length %d != naive length %d", p, got, want)
		}
	}
}

// P7: every accepted swap strictly decreases the score.
func TestSearchRecordsOnlyImprovingMoves(t *testing.T) {
	w := weightTable5()
	ctx := ddg.InitCtx()
	d, err := Build(ctx, w, Path{4, 3, 0, 2, 1})
	if err != nil {
		t.Fatal(err)
	}

	rec := &recordingRecorder{}
	_, err = Search(d, rec)
	if err != nil {
		t.Fatal(err)
	}
	last := int32(1 << 30)
	for _, m := range rec.moves {
		if m.length >= last {
			t.Fatalf("move did not strictly decrease length: %d >= %d", m.length, last)
		}
		last = m.length
	}
}

func TestApplySwapAfterSealRejected(t *testing.T) {
	w := weightTable5()
	ctx := ddg.InitCtx()
	d, err := Build(ctx, w, Path{4, 3, 0, 2, 1})
	if err != nil {
		t.Fatal(err)
	}
	d.Seal()
	if err := d.ApplySwap(0, 2); err == nil {
		t.Fatal("want error after seal, got nil")
	}
}

type recordedMove struct {
	i, j   int
	path   Path
	length int32
}

type recordingRecorder struct {
	moves []recordedMove
}

func (r *recordingRecorder) RecordSwap(i, j int, path Path, length int32) error {
	r.moves = append(r.moves, recordedMove{i, j, append(Path(nil), path...), length})
	return nil
}

func permutations(items []graphmodel.PointID) [][]graphmodel.PointID {
	var out [][]graphmodel.PointID
	var rec func(prefix, rest []graphmodel.PointID)
	rec = func(prefix, rest []graphmodel.PointID) {
		if len(rest) == 0 {
			cp := append([]graphmodel.PointID(nil), prefix...)
			out = append(out, cp)
			return
		}
		for i := range rest {
			next := append([]graphmodel.PointID(nil), rest[:i]...)
			next = append(next, rest[i+1:]...)
			rec(append(prefix, rest[i]), next)
		}
	}
	rec(nil, items)
	return out
}
