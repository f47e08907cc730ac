package ddg

import "github.com/starkandwayne/goutils/ansi"

// CyclicDependencyError is returned when a thunk body (transitively) calls
// get/force on a location that is still evaluating.
type CyclicDependencyError struct {
	Loc Location
}

func (e CyclicDependencyError) Error() string {
	return ansi.Sprintf("@R{cyclic dependency detected at} @c{%s}", e.Loc.String())
}

// UnknownLocationError is returned by get/force on a location that was
// never allocated via cell()/thunk().
type UnknownLocationError struct {
	Loc Location
}

func (e UnknownLocationError) Error() string {
	return ansi.Sprintf("@R{unknown location} @c{%s}", e.Loc.String())
}

// BodyPanicError wraps a recovered panic raised by a thunk body. The
// thunk is rolled back to never-evaluated and this error re-surfaces to
// the caller of get/force.
type BodyPanicError struct {
	Loc       Location
	Recovered interface{}
}

func (e BodyPanicError) Error() string {
	return ansi.Sprintf("@R{thunk body at} @c{%s} @R{panicked}: %v", e.Loc.String(), e.Recovered)
}

// MutateAfterSealError is raised by application-level code (tsp/coloring
// computation graphs) once they have been sealed, indicating API misuse
// rather than a runtime defect (§7).
type MutateAfterSealError struct {
	What string
}

func (e MutateAfterSealError) Error() string {
	return ansi.Sprintf("@R{mutate after seal}: %s", e.What)
}
