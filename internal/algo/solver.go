// Package algo implements the scheduling strategies that drive the fleet:
// which task an idle robot accepts and where it moves next.
package algo

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
)

// Map is the discovered grid as strategies see it. world.Knowledge implements it.
type Map interface {
	Size() int
	In(c core.Coord) bool
	Object(c core.Coord) core.Object
	Known(c core.Coord) bool
	Cost(c core.Coord, t core.RobotType) int
	Passable(c core.Coord, t core.RobotType) bool
}

// Info is the per-tick snapshot passed to every strategy call.
type Info struct {
	Observed  core.CoordSet // Cells seen this tick
	Updated   core.CoordSet // Cells whose knowledge changed this tick
	Knowledge Map
	Tasks     []*core.Task // Discovered, unfinished tasks
	Robots    []*core.Robot
}

// Strategy is the interface for fleet schedulers.
// Robots and tasks in Info are owned by the world and must not be mutated.
type Strategy interface {
	// Name returns the strategy name.
	Name() string

	// OnInfoUpdated is called once per tick after the knowledge merge.
	OnInfoUpdated(info Info)

	// OnTaskReached is called for an idle robot standing on a known task.
	// Returning true makes the robot start working on it.
	OnTaskReached(info Info, r *core.Robot, t *core.Task) bool

	// IdleAction returns the next move of an idle robot that did not take a task.
	IdleAction(info Info, r *core.Robot) core.Action
}

// Factory builds a strategy. rng is the strategy's own random source.
type Factory func(rng *rand.Rand) Strategy

var registry = map[string]Factory{
	"greedy": func(*rand.Rand) Strategy { return NewGreedy() },
	"field":  func(*rand.Rand) Strategy { return NewField() },
	"random": func(rng *rand.Rand) Strategy { return NewRandom(rng) },
}

// New returns the strategy registered under name.
func New(name string, rng *rand.Rand) (Strategy, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("algo: unknown strategy %q (have %s)", name, strings.Join(Names(), ", "))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return f(rng), nil
}

// Names returns the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ActionTowards returns the action that moves from one cell to an adjacent one,
// Hold if they are not neighbors.
func ActionTowards(from, to core.Coord) core.Action {
	for _, a := range core.Actions() {
		if a != core.Hold && from.Step(a) == to {
			return a
		}
	}
	return core.Hold
}

// canTake reports whether r may start t right now: the type can work it,
// nobody holds it and the energy budget covers the work.
func canTake(r *core.Robot, t *core.Task) bool {
	return t.Workable(r.Type) && !t.Assigned() && !t.Done && r.Energy >= t.CostFor(r.Type)
}

// neighbors returns the in-bounds cells adjacent to c in action order.
func neighbors(m Map, c core.Coord) []core.Coord {
	out := make([]core.Coord, 0, 4)
	for _, a := range core.Actions() {
		if a == core.Hold {
			continue
		}
		if n := c.Step(a); m.In(n) {
			out = append(out, n)
		}
	}
	return out
}
