// Package observer records what the viewer shows besides the current world:
// recent robot trails, the cells revealed on the last tick and a short event log.
package observer

import (
	"fmt"
	"sync"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/sim"
)

// Recorder is a sim.TickObserver for the viewer.
type Recorder struct {
	mu sync.Mutex

	trailLen int
	logLen   int

	trails    map[core.RobotID][]core.Coord
	flash     []core.Coord
	events    []string
	completed int
	exhausted map[core.RobotID]bool
}

var _ sim.TickObserver = (*Recorder)(nil)

// NewRecorder keeps trailLen cells per robot and logLen events.
func NewRecorder(trailLen, logLen int) *Recorder {
	return &Recorder{
		trailLen:  max(trailLen, 1),
		logLen:    max(logLen, 1),
		trails:    make(map[core.RobotID][]core.Coord),
		exhausted: make(map[core.RobotID]bool),
	}
}

// OnTick records robot positions and notable events.
func (r *Recorder) OnTick(t sim.Tick) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flash = t.Updated.Sorted()

	for _, rb := range t.World.Robots() {
		trail := r.trails[rb.ID]
		if n := len(trail); n == 0 || trail[n-1] != rb.Coord {
			trail = append(trail, rb.Coord)
			if len(trail) > r.trailLen {
				trail = trail[len(trail)-r.trailLen:]
			}
			r.trails[rb.ID] = trail
		}
		if !rb.Active() && !r.exhausted[rb.ID] {
			r.exhausted[rb.ID] = true
			r.log(t.Time, "robot %d (%s) exhausted at %s", rb.ID, rb.Type, rb.Coord)
		}
	}

	if d := t.Dispatched; d != nil {
		r.log(t.Time, "task %d released at %s", d.ID, d.Coord)
	}
	if done := t.World.CompletedTasks(); done > r.completed {
		r.log(t.Time, "%d task(s) completed, %d total", done-r.completed, done)
		r.completed = done
	}
}

func (r *Recorder) log(now int, format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf("[%d] ", now)+fmt.Sprintf(format, args...))
	if len(r.events) > r.logLen {
		r.events = r.events[len(r.events)-r.logLen:]
	}
}

// Trail returns the recent cells of robot id, oldest first.
func (r *Recorder) Trail(id core.RobotID) []core.Coord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Coord(nil), r.trails[id]...)
}

// Flash returns the cells whose knowledge changed on the last tick.
func (r *Recorder) Flash() []core.Coord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Coord(nil), r.flash...)
}

// Events returns the event log, oldest first.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}
