package ddg

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// Mirrors the original adapton engine's naive_firewall test: a cell feeds
// a thunk that returns a *fresh cell* holding its square (the firewall),
// and a downstream consumer forces the firewall thunk then gets its
// inner cell.
func TestNaiveFirewall(t *testing.T) {
	Convey("firewall: cell -> thunk(returns cell) -> thunk", t, func() {
		ctx := InitCtx()
		a := Cell(ctx, "a", 2)

		t1 := Thunk(ctx, "t", func(c *Context) (Art[int], error) {
			x, err := Get(c, a)
			if err != nil {
				return Art[int]{}, err
			}
			return Cell(c, "b", x*x), nil
		})

		hRuns := 0
		h := Thunk(ctx, "h", func(c *Context) (int, error) {
			hRuns++
			inner, err := Force(c, t1)
			if err != nil {
				return 0, err
			}
			return Get(c, inner)
		})

		v, err := Get(ctx, h)
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 4)
		So(hRuns, ShouldEqual, 1)

		// a: 2 -> -2, sq is unchanged (4), so h must not rerun (P4).
		So(Set(ctx, a, -2), ShouldBeNil)
		v, err = Get(ctx, h)
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 4)
		So(hRuns, ShouldEqual, 1)

		// a: -2 -> 3, sq changes to 9, so h must rerun.
		So(Set(ctx, a, 3), ShouldBeNil)
		v, err = Get(ctx, h)
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 9)
		So(hRuns, ShouldEqual, 2)
	})
}

// P4, via the literal oscillation from spec §8 scenario 1, compared
// directly against a classic (non-firewall) variant that always reruns.
func TestFirewallDominanceVsClassic(t *testing.T) {
	Convey("firewall dominance over an oscillating input", t, func() {
		oscillation := []int{0, 1, -1, 1, -1, 1, -1}

		Convey("classic chain reruns on every set", func() {
			ctx := InitCtx()
			a := Cell(ctx, "a", 0)
			runs := 0
			root := Thunk(ctx, "root", func(c *Context) (int, error) {
				runs++
				x, err := Get(c, a)
				return x * x, err
			})
			Get(ctx, root)
			runsAfterFirst := runs
			for _, v := range oscillation[1:] {
				Set(ctx, a, v)
				Get(ctx, root)
			}
			So(runs, ShouldBeGreaterThan, runsAfterFirst)
		})

		Convey("firewalled chain stops rerunning once values repeat", func() {
			ctx := InitCtx()
			a := Cell(ctx, "a", 0)
			sq := Thunk(ctx, "sq", func(c *Context) (Art[int], error) {
				x, err := Get(c, a)
				if err != nil {
					return Art[int]{}, err
				}
				return Cell(c, "sq/out", x*x), nil
			})
			runs := 0
			root := Thunk(ctx, "root", func(c *Context) (int, error) {
				runs++
				inner, err := Force(c, sq)
				if err != nil {
					return 0, err
				}
				return Get(c, inner)
			})

			Get(ctx, root)
			for _, v := range oscillation[1:] {
				Set(ctx, a, v)
				Get(ctx, root)
			}
			// x^2 only takes the values {0,1}; after the first transition
			// into each, root observes no further change in sq/out.
			So(runs, ShouldBeLessThanOrEqualTo, 3)
		})
	})
}
