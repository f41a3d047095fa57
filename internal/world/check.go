package world

import (
	"errors"
	"fmt"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
)

// ErrInvariant wraps every failure reported by CheckInvariants.
var ErrInvariant = errors.New("world invariant violated")

// CheckInvariants verifies the structural invariants of the world and returns
// every violation joined into one error, or nil.
func (w *World) CheckInvariants() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...))
	}

	counts := make(map[core.Coord]int)
	for _, r := range w.robots {
		if r.Active() {
			counts[r.Coord]++
		}
		if (r.Energy == 0) != (r.Status == core.Exhausted) {
			fail("robot %d has energy %d in status %v", r.ID, r.Energy, r.Status)
		}
		if r.Energy < 0 {
			fail("robot %d has negative energy %d", r.ID, r.Energy)
		}
		if r.Task != core.NoTask {
			if t := w.tasks[r.Task]; t.Robot != r.ID {
				fail("robot %d holds task %d assigned to %d", r.ID, t.ID, t.Robot)
			}
		}
	}

	for x := 0; x < w.size; x++ {
		for y := 0; y < w.size; y++ {
			c := core.Coord{X: x, Y: y}
			n := w.occupancy[x][y]
			if n != counts[c] {
				fail("cell %v counts %d robots, found %d", c, n, counts[c])
			}
			obj := w.truth.object(c)
			if obj.Has(core.ObjRobot) != (n > 0) {
				fail("cell %v is %v with %d robots", c, obj, n)
			}
			if obj.Has(core.Wall) && obj != core.Wall {
				fail("cell %v combines a wall: %v", c, obj)
			}
			if obj.Has(core.Unknown) {
				fail("cell %v is unknown in the true map", c)
			}
			known := w.known.object(c)
			if known != core.Unknown {
				for t, cost := range w.known.cost(c) {
					if cost == core.UnknownCost {
						fail("known cell %v has no cost for %v", c, core.RobotType(t))
					}
				}
			}
		}
	}

	for _, t := range w.tasks {
		if t.Done && t.Assigned() {
			fail("done task %d still assigned to robot %d", t.ID, t.Robot)
		}
		if t.Assigned() {
			if r := w.robots[t.Robot]; r.Task != t.ID {
				fail("task %d assigned to robot %d which holds %d", t.ID, r.ID, r.Task)
			}
		}
		if !t.Done && !w.truth.object(t.Coord).Has(core.ObjTask) {
			fail("task %d at %v missing from the true map", t.ID, t.Coord)
		}
	}
	for _, id := range w.active {
		if w.tasks[id].Done {
			fail("done task %d is still active", id)
		}
	}
	return errors.Join(errs...)
}
