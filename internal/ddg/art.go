package ddg

import "fmt"

// Art[T] is an addressable, re-evaluable reference to a value of type T.
// It is a thin (ctx, Location) handle — all node state lives in the
// Context's node table, so rebinding a Location updates every Art[T]
// handle that names it (§3 Locations, cells, and thunks).
type Art[T any] struct {
	ctx *Context
	loc Location
}

// Location returns the Art's stable location identity.
func (a Art[T]) Location() Location { return a.loc }

// Cell allocates or rebinds an input location to value. Equal to the
// prior value (by value equality), this is a no-op for dirtying; the
// returned Art is valid whether this was a fresh allocation or a rebind.
func Cell[T any](ctx *Context, name string, value T) Art[T] {
	loc := ctx.currentLoc(name)
	ctx.allocCell(loc, value)
	return Art[T]{ctx: ctx, loc: loc}
}

// Thunk allocates or rebinds a thunk location with the given body. The
// body is not executed here — only on first demand (§4.1).
func Thunk[T any](ctx *Context, name string, body func(*Context) (T, error)) Art[T] {
	loc := ctx.currentLoc(name)
	erased := func(c *Context) (interface{}, error) {
		return body(c)
	}
	ctx.allocThunk(loc, erased)
	return Art[T]{ctx: ctx, loc: loc}
}

// Get demands the current value of a, re-executing its thunk body if any
// observed input has genuinely changed (§4.1 Evaluation algorithm).
func Get[T any](ctx *Context, a Art[T]) (T, error) {
	raw, err := ctx.resolve(a.loc)
	if err != nil {
		var zero T
		return zero, err
	}
	v, ok := raw.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("ddg: value at %s has unexpected type %T", a.loc, raw)
	}
	return v, nil
}

// Force demands the value of a thunk whose body itself returns a fresh
// Art[U] — the vehicle for the firewall pattern (§4.1.5). It is
// mechanically identical to Get; it exists as a distinct name because
// the caller is expected to subsequently Get on the returned Art rather
// than treat the Art itself as the final value.
func Force[T any](ctx *Context, a Art[Art[T]]) (Art[T], error) {
	return Get[Art[T]](ctx, a)
}

// Set mutates an input cell; triggers dirty propagation if the new value
// differs (by value equality) from the recorded one (§4.1).
func Set[T any](ctx *Context, c Art[T], value T) error {
	return ctx.setCell(c.loc, value)
}
