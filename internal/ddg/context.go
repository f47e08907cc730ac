package ddg

import "reflect"

type nodeState int

const (
	stateNever nodeState = iota
	stateMaybeDirty
	stateEvaluating
	stateClean
)

// edge is one outgoing observation recorded by a thunk during its last
// successful execution: it read `to` and observed `value`.
type edge struct {
	to    Location
	value interface{}
}

// node is the type-erased storage for one Art, keyed by Location. Art[T]
// handles are thin (ctx, loc) pairs that look nodes up here; this is what
// lets rebinding a Location update every outstanding handle at once.
type node struct {
	loc   Location
	kind  ArtKind
	state nodeState
	value interface{}

	// thunk-only
	body  func(*Context) (interface{}, error)
	edges []edge
}

// Context is the process-wide (but explicit, not global) evaluation
// context: the node table, reverse-edge index for dirtying, the scope
// path, the currently-executing-thunk stack, and the trace window.
type Context struct {
	nodes map[string]*node

	// reverse[dep] is the set of locations (by string key) that have an
	// edge pointing at dep; these are weak back-references used only for
	// dirty propagation (§5 Ownership).
	reverse map[string]map[string]bool

	scopeStack []string
	execStack  []Location

	traceActive bool
	traceBuf    []Trace
}

// InitCtx creates a fresh, process-wide evaluation context. Distinct
// Contexts are fully independent; init_ctx is idempotent in the sense
// that calling it again simply yields a new, empty context rather than
// mutating a shared singleton (§9 Design Notes: "Global context").
func InitCtx() *Context {
	return &Context{
		nodes:   make(map[string]*node),
		reverse: make(map[string]map[string]bool),
	}
}

func (ctx *Context) currentLoc(name string) Location {
	return NewLocation(ctx.scopeStack, name)
}

// Scope pushes name, runs body, then pops — regardless of panics escaping
// body, so the scope stack never leaks a stale segment.
func Scope(ctx *Context, name string, body func()) {
	ctx.scopeStack = append(ctx.scopeStack, name)
	defer func() {
		ctx.scopeStack = ctx.scopeStack[:len(ctx.scopeStack)-1]
	}()
	body()
}

func (ctx *Context) currentExecutor() (Location, bool) {
	if len(ctx.execStack) == 0 {
		return Location{}, false
	}
	return ctx.execStack[len(ctx.execStack)-1], true
}

// valueEqual implements the "value equality" the spec requires for cell
// rebinds, set(), and change-propagation comparisons (I1, I3). Comparable
// scalar types (ints, bools, strings) fall through the fast ==-like
// reflect.DeepEqual path; slice/struct-valued cells (e.g. a TSP leg tuple)
// are compared structurally the same way.
func valueEqual(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}

// recordObservation appends an edge from the currently-executing thunk
// (if any) to loc, with the value it observed. Called by get/force right
// after resolving loc to a value.
func (ctx *Context) recordObservation(loc Location, value interface{}) {
	execLoc, ok := ctx.currentExecutor()
	if !ok {
		return
	}
	execNode := ctx.nodes[execLoc.String()]
	execNode.edges = append(execNode.edges, edge{to: loc, value: value})
	ctx.addReverseEdge(loc, execLoc)
}

func (ctx *Context) addReverseEdge(dep, dependent Location) {
	set, ok := ctx.reverse[dep.String()]
	if !ok {
		set = make(map[string]bool)
		ctx.reverse[dep.String()] = set
	}
	set[dependent.String()] = true
}

func (ctx *Context) removeReverseEdge(dep, dependent Location) {
	if set, ok := ctx.reverse[dep.String()]; ok {
		delete(set, dependent.String())
	}
}

// clearOutgoingEdges drops every edge n currently has, along with the
// corresponding reverse-edge entries, in preparation for re-execution.
func (ctx *Context) clearOutgoingEdges(n *node) {
	for _, e := range n.edges {
		ctx.removeReverseEdge(e.to, n.loc)
	}
	n.edges = nil
}

// allocCell allocates or rebinds a cell Location. Returns the node.
func (ctx *Context) allocCell(loc Location, value interface{}) *node {
	key := loc.String()
	existing, reused := ctx.nodes[key]

	if !reused {
		n := &node{loc: loc, kind: KindCell, state: stateClean, value: value}
		ctx.nodes[key] = n
		ctx.emit(Trace{Effect: EffectAlloc, Loc: loc, AllocCase: LocFresh, ArtKind: KindCell})
		return n
	}

	ctx.emit(Trace{Effect: EffectAlloc, Loc: loc, AllocCase: LocReuse, ArtKind: KindCell})
	if valueEqual(existing.value, value) {
		return existing
	}
	existing.value = value
	ctx.dirtyDependents(loc)
	return existing
}

// allocThunk allocates or rebinds a thunk Location. Rebinding always
// dirties dependents, even if the new body is "the same" — bodies are
// opaque closures, not comparable (§4.1).
func (ctx *Context) allocThunk(loc Location, body func(*Context) (interface{}, error)) *node {
	key := loc.String()
	existing, reused := ctx.nodes[key]

	if !reused {
		n := &node{loc: loc, kind: KindThunk, state: stateNever, body: body}
		ctx.nodes[key] = n
		ctx.emit(Trace{Effect: EffectAlloc, Loc: loc, AllocCase: LocFresh, ArtKind: KindThunk})
		return n
	}

	ctx.emit(Trace{Effect: EffectAlloc, Loc: loc, AllocCase: LocReuse, ArtKind: KindThunk})
	ctx.clearOutgoingEdges(existing)
	existing.body = body
	existing.state = stateNever
	existing.value = nil
	ctx.dirtyDependents(loc)
	return existing
}

// dirtyDependents implements the breadth-first "on set" propagation of
// §4.1: every thunk reachable by reverse edges from loc is marked
// maybe-dirty, stopping at thunks already visited in this walk (I4).
func (ctx *Context) dirtyDependents(loc Location) {
	visited := make(map[string]bool)
	queue := []string{loc.String()}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for depKey := range ctx.reverse[cur] {
			if visited[depKey] {
				continue
			}
			visited[depKey] = true
			if n, ok := ctx.nodes[depKey]; ok {
				n.state = stateMaybeDirty
			}
			queue = append(queue, depKey)
		}
	}
}

// setCell mutates an input cell, per §4.1 set() and the dirty-propagation
// algorithm of §4.1.
func (ctx *Context) setCell(loc Location, value interface{}) error {
	n, ok := ctx.nodes[loc.String()]
	if !ok {
		return UnknownLocationError{Loc: loc}
	}
	if valueEqual(n.value, value) {
		ctx.emit(Trace{Effect: EffectSet, Loc: loc, SetCase: SetNoChange})
		return nil
	}
	n.value = value
	ctx.emit(Trace{Effect: EffectSet, Loc: loc, SetCase: SetChanged})
	ctx.dirtyDependents(loc)
	return nil
}

// resolve implements the force-of-thunk algorithm of §4.1 for any
// Location (cells resolve trivially). It is the single entry point used
// by both get() and force() at the Art[T] layer: it resolves the value
// AND, if called while another thunk is executing, records the
// observation edge from that thunk to loc.
func (ctx *Context) resolve(loc Location) (interface{}, error) {
	val, err := ctx.resolveValue(loc)
	if err != nil {
		return nil, err
	}
	ctx.recordObservation(loc, val)
	return val, nil
}

// resolveValue runs the algorithm of §4.1 without recording an
// observation edge. It is used both by resolve() above and, internally,
// by revalidation probes — checking whether A's recorded dependency B
// still holds the same value is not itself a new observation by
// whichever thunk happens to be on top of the exec stack.
func (ctx *Context) resolveValue(loc Location) (interface{}, error) {
	n, ok := ctx.nodes[loc.String()]
	if !ok {
		return nil, UnknownLocationError{Loc: loc}
	}

	if n.kind == KindCell {
		return n.value, nil
	}

	switch n.state {
	case stateEvaluating:
		return nil, CyclicDependencyError{Loc: loc}
	case stateClean:
		ctx.emit(Trace{Effect: EffectForce, Loc: loc, ForceCase: ForceCleanHit})
		return n.value, nil
	case stateMaybeDirty:
		if ctx.revalidates(n) {
			n.state = stateClean
			ctx.emit(Trace{Effect: EffectCleanRevalidate, Loc: loc})
			return n.value, nil
		}
		fallthrough
	default: // stateNever, or stateMaybeDirty that failed to revalidate
		val, err := ctx.execute(n)
		if err != nil {
			return nil, err
		}
		ctx.emit(Trace{Effect: EffectForce, Loc: loc, ForceCase: ForceDirtyRerun})
		return val, nil
	}
}

// revalidates checks every recorded outgoing edge of n against the
// current value of its target, recursing through resolveValue so that a
// dependency's own revalidation/re-execution happens first (§4.1 step 3),
// without attributing a spurious observation to whatever thunk is
// currently executing.
func (ctx *Context) revalidates(n *node) bool {
	for _, e := range n.edges {
		current, err := ctx.resolveValue(e.to)
		if err != nil || !valueEqual(current, e.value) {
			return false
		}
	}
	return true
}

// execute re-runs a thunk body from scratch, per §4.1 step 4.
func (ctx *Context) execute(n *node) (val interface{}, err error) {
	n.state = stateEvaluating
	ctx.clearOutgoingEdges(n)
	ctx.execStack = append(ctx.execStack, n.loc)

	defer func() {
		ctx.execStack = ctx.execStack[:len(ctx.execStack)-1]
		if r := recover(); r != nil {
			n.state = stateNever
			n.value = nil
			ctx.clearOutgoingEdges(n)
			err = BodyPanicError{Loc: n.loc, Recovered: r}
		}
	}()

	val, err = n.body(ctx)
	if err != nil {
		n.state = stateNever
		n.value = nil
		ctx.clearOutgoingEdges(n)
		return nil, err
	}
	n.value = val
	n.state = stateClean
	return val, nil
}
