// Package patchlog records each accepted search-driver move as a
// go-patch replace operation against an in-memory document, giving the
// mutation history an audit/replay format instead of an ad hoc struct —
// grounded on the teacher's parseGoPatch (cmd/graft/main.go), which
// builds patch.Ops from YAML-decoded patch.OpDefinition values.
package patchlog

import (
	"fmt"

	"github.com/cppforlife/go-patch/patch"

	"github.com/ddg-lab/ddg-opt/internal/coloring"
	"github.com/ddg-lab/ddg-opt/internal/tsp"
)

// Entry is one applied patch operation, paired with the document
// state that resulted from applying it.
type Entry struct {
	Ops patch.Ops
	Doc interface{}
}

// Log is an append-only, replayable history of document mutations.
type Log struct {
	doc     interface{}
	entries []Entry
}

// New starts a log rooted at the given initial document (typically an
// empty map[string]interface{}).
func New(initial interface{}) *Log {
	return &Log{doc: initial}
}

// Current returns the document's latest state.
func (l *Log) Current() interface{} { return l.doc }

// Entries returns every applied patch, in application order.
func (l *Log) Entries() []Entry { return l.entries }

// Replace applies a single "replace" op at path against the current
// document and appends it to the log, exactly as parseGoPatch turns a
// decoded OpDefinition into an Ops and applies it.
func (l *Log) Replace(path string, value interface{}) error {
	p := path
	opdefs := []patch.OpDefinition{{Type: "replace", Path: &p, Value: value}}
	ops, err := patch.NewOpsFromDefinitions(opdefs)
	if err != nil {
		return fmt.Errorf("patchlog: building ops for %s: %w", path, err)
	}
	newDoc, err := ops.Apply(l.doc)
	if err != nil {
		return fmt.Errorf("patchlog: applying replace at %s: %w", path, err)
	}
	l.doc = newDoc
	l.entries = append(l.entries, Entry{Ops: ops, Doc: newDoc})
	return nil
}

// TSPRecorder adapts a Log into a tsp.MoveRecorder: every accepted
// 2-opt swap is recorded as a replace of /path and /length.
type TSPRecorder struct {
	Log *Log
}

var _ tsp.MoveRecorder = TSPRecorder{}

func (r TSPRecorder) RecordSwap(i, j int, path tsp.Path, length int32) error {
	ints := make([]interface{}, len(path))
	for k, v := range path {
		ints[k] = v
	}
	if err := r.Log.Replace("/path", ints); err != nil {
		return err
	}
	return r.Log.Replace("/length", length)
}

// ColoringRecorder adapts a Log into a coloring.MoveRecorder: every
// accepted recoloring is recorded as a replace at /colors/<vertex>
// plus the new total /cost.
type ColoringRecorder struct {
	Log *Log
}

var _ coloring.MoveRecorder = ColoringRecorder{}

func (r ColoringRecorder) RecordRecolor(vertex int, newColor int32, cost int32) error {
	if err := r.Log.Replace(fmt.Sprintf("/colors/%d", vertex), newColor); err != nil {
		return err
	}
	return r.Log.Replace("/cost", cost)
}
