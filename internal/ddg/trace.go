package ddg

// AllocCase distinguishes a fresh allocation from a rebind at an existing
// Location.
type AllocCase int

const (
	LocFresh AllocCase = iota
	LocReuse
)

// ArtKind tags whether a Trace concerns a Cell or a Thunk.
type ArtKind int

const (
	KindCell ArtKind = iota
	KindThunk
)

// ForceCase distinguishes a revalidated clean hit from a genuine re-run.
type ForceCase int

const (
	ForceCleanHit ForceCase = iota
	ForceDirtyRerun
)

// SetCase distinguishes a value-changing set from a no-op one.
type SetCase int

const (
	SetChanged SetCase = iota
	SetNoChange
)

// TraceEffect is a tagged union of the four observable runtime effects
// (§4.1 Observability). Effect selects which of Trace's per-effect field
// groups (Alloc, Force, Set) is meaningful; CleanRevalidate uses none.
type TraceEffect int

const (
	EffectAlloc TraceEffect = iota
	EffectForce
	EffectSet
	EffectCleanRevalidate
)

// Trace is one entry appended to the active trace window.
type Trace struct {
	Effect TraceEffect
	Loc    Location

	// Alloc fields
	AllocCase AllocCase
	ArtKind   ArtKind

	// Force fields
	ForceCase ForceCase

	// Set fields
	SetCase SetCase
}

// TraceBegin opens a trace window; nested windows are not supported, the
// most recent begin wins (mirrors the single process-wide reflect window
// of the original adapton engine).
func (ctx *Context) TraceBegin() {
	ctx.traceActive = true
	ctx.traceBuf = nil
}

// TraceEnd closes the trace window and returns everything recorded in it.
func (ctx *Context) TraceEnd() []Trace {
	out := ctx.traceBuf
	ctx.traceActive = false
	ctx.traceBuf = nil
	return out
}

func (ctx *Context) emit(tr Trace) {
	if !ctx.traceActive {
		return
	}
	ctx.traceBuf = append(ctx.traceBuf, tr)
}
