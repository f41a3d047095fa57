// Package world holds the ground-truth grid, the fleet's discovered knowledge
// of it, and every operation that mutates either. Robots and tasks only carry
// coordinates; all cell updates go through World methods.
package world

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/logging"
)

// ConflictPolicy decides what StartWorking does when the task is held by another robot.
type ConflictPolicy int

const (
	// Refuse rejects the second robot; the holder keeps the task.
	Refuse ConflictPolicy = iota
	// Preempt hands the task to the new robot and releases the previous holder to Idle.
	Preempt
)

func (p ConflictPolicy) String() string {
	if p == Preempt {
		return "preempt"
	}
	return "refuse"
}

// ParseConflictPolicy maps a config string to a policy.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "refuse":
		return Refuse, nil
	case "preempt":
		return Preempt, nil
	default:
		return Refuse, fmt.Errorf("world: unknown conflict policy %q", s)
	}
}

// Options configures a World.
type Options struct {
	Policy ConflictPolicy
	Rand   *rand.Rand     // Defaults to a source seeded with 1
	Logger logging.Logger // Defaults to a no-op logger
}

// layer is one classification + cost map, indexed [x][y].
type layer struct {
	objects [][]core.Object
	costs   [][]core.Costs
}

func newLayer(size int, obj core.Object, cost int) layer {
	l := layer{
		objects: make([][]core.Object, size),
		costs:   make([][]core.Costs, size),
	}
	for x := 0; x < size; x++ {
		l.objects[x] = make([]core.Object, size)
		l.costs[x] = make([]core.Costs, size)
		for y := 0; y < size; y++ {
			l.objects[x][y] = obj
			for t := range l.costs[x][y] {
				l.costs[x][y][t] = cost
			}
		}
	}
	return l
}

func (l *layer) object(c core.Coord) core.Object     { return l.objects[c.X][c.Y] }
func (l *layer) setObject(c core.Coord, o core.Object) { l.objects[c.X][c.Y] = o }
func (l *layer) cost(c core.Coord) core.Costs        { return l.costs[c.X][c.Y] }

// World is the simulation engine state: true grid, knowledge grid, occupancy
// counts, robots, tasks and counters. It is not safe for concurrent use.
type World struct {
	size int

	truth     layer
	known     layer
	occupancy [][]int

	robots []*core.Robot
	tasks  []*core.Task
	active []core.TaskID

	// Cells changed by task completion since the last knowledge merge.
	forced core.CoordSet

	exhausted   int
	completed   int
	preemptions int

	policy ConflictPolicy
	rng    *rand.Rand
	log    logging.Logger
}

// NewBlank creates a size x size world with every cell Empty at cost 0 and
// nothing known yet. Tests and generation populate it with the Place/Spawn methods.
func NewBlank(size int, opts Options) *World {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	occ := make([][]int, size)
	for x := range occ {
		occ[x] = make([]int, size)
	}
	return &World{
		size:      size,
		truth:     newLayer(size, core.Empty, 0),
		known:     newLayer(size, core.Unknown, core.UnknownCost),
		occupancy: occ,
		forced:    core.NewCoordSet(),
		policy:    opts.Policy,
		rng:       rng,
		log:       logging.OrNoOp(opts.Logger),
	}
}

// Size returns the grid edge length.
func (w *World) Size() int { return w.size }

// Policy returns the double-assignment policy.
func (w *World) Policy() ConflictPolicy { return w.policy }

// In reports whether c lies inside the grid.
func (w *World) In(c core.Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < w.size && c.Y < w.size
}

// Object returns the true classification of c.
func (w *World) Object(c core.Coord) core.Object { return w.truth.object(c) }

// Cost returns the true movement cost of c for robot type t.
func (w *World) Cost(c core.Coord, t core.RobotType) int { return w.truth.cost(c).Of(t) }

// Occupancy returns how many active robots stand on c.
func (w *World) Occupancy(c core.Coord) int { return w.occupancy[c.X][c.Y] }

// Robots returns all robots in ID order. The slice is shared.
func (w *World) Robots() []*core.Robot { return w.robots }

// Tasks returns every task ever created in ID order. The slice is shared.
func (w *World) Tasks() []*core.Task { return w.tasks }

// Robot looks up a robot by ID.
func (w *World) Robot(id core.RobotID) (*core.Robot, error) {
	if id < 0 || int(id) >= len(w.robots) {
		return nil, fmt.Errorf("robot %d: %w", id, ErrUnknownRobot)
	}
	return w.robots[id], nil
}

// Task looks up a task by ID.
func (w *World) Task(id core.TaskID) (*core.Task, error) {
	if id < 0 || int(id) >= len(w.tasks) {
		return nil, fmt.Errorf("task %d: %w", id, ErrUnknownTask)
	}
	return w.tasks[id], nil
}

// ActiveTasks returns discovered, unfinished tasks in discovery order.
func (w *World) ActiveTasks() []*core.Task {
	out := make([]*core.Task, len(w.active))
	for i, id := range w.active {
		out[i] = w.tasks[id]
	}
	return out
}

// ExhaustedRobots returns the number of robots that ran out of energy.
func (w *World) ExhaustedRobots() int { return w.exhausted }

// CompletedTasks returns the number of finished tasks.
func (w *World) CompletedTasks() int { return w.completed }

// Preemptions returns how many times StartWorking took a task from its holder
// under the Preempt policy.
func (w *World) Preemptions() int { return w.preemptions }

// Knowledge returns a read-only view of the discovered map.
func (w *World) Knowledge() Knowledge { return Knowledge{w: w} }

// RandomEmptyCoord samples a cell whose true classification is Empty.
func (w *World) RandomEmptyCoord() (core.Coord, error) {
	for i := 0; i < w.size*w.size*4; i++ {
		c := core.Coord{X: w.rng.Intn(w.size), Y: w.rng.Intn(w.size)}
		if w.truth.object(c) == core.Empty {
			return c, nil
		}
	}
	var empty []core.Coord
	for x := 0; x < w.size; x++ {
		for y := 0; y < w.size; y++ {
			c := core.Coord{X: x, Y: y}
			if w.truth.object(c) == core.Empty {
				empty = append(empty, c)
			}
		}
	}
	if len(empty) == 0 {
		return core.NoCoord, ErrNoEmptyCell
	}
	return empty[w.rng.Intn(len(empty))], nil
}

// PlaceWall turns an empty cell into a wall, impassable for every type.
func (w *World) PlaceWall(c core.Coord) error {
	if !w.In(c) {
		return fmt.Errorf("wall at %v: %w", c, ErrOutOfBounds)
	}
	if w.truth.object(c) != core.Empty {
		return fmt.Errorf("wall at %v: %w", c, ErrCellOccupied)
	}
	w.truth.setObject(c, core.Wall)
	for t := range w.truth.costs[c.X][c.Y] {
		w.truth.costs[c.X][c.Y][t] = core.Impassable
	}
	return nil
}

// SetCost sets the true movement cost of a non-wall cell for robot type t.
func (w *World) SetCost(c core.Coord, t core.RobotType, cost int) error {
	if !w.In(c) {
		return fmt.Errorf("cost at %v: %w", c, ErrOutOfBounds)
	}
	if w.truth.object(c) == core.Wall {
		return fmt.Errorf("cost at %v: %w", c, ErrWall)
	}
	w.truth.costs[c.X][c.Y][t] = cost
	return nil
}

// SpawnRobot adds an idle robot at c. Negative energy is clamped to zero and
// a robot without energy is exhausted on arrival.
func (w *World) SpawnRobot(t core.RobotType, c core.Coord, energy int) (*core.Robot, error) {
	if !w.In(c) {
		return nil, fmt.Errorf("robot at %v: %w", c, ErrOutOfBounds)
	}
	if w.truth.object(c) == core.Wall {
		return nil, fmt.Errorf("robot at %v: %w", c, ErrWall)
	}
	energy = max(energy, 0)
	r := core.NewRobot(core.RobotID(len(w.robots)), t, c, energy)
	w.robots = append(w.robots, r)
	w.enter(c)
	if energy == 0 {
		w.exhaust(r)
	}
	return r, nil
}

// enter and leave keep the Robot bit in step with the occupancy count.
func (w *World) enter(c core.Coord) {
	w.occupancy[c.X][c.Y]++
	if w.occupancy[c.X][c.Y] == 1 {
		w.truth.setObject(c, w.truth.object(c)|core.ObjRobot)
	}
}

func (w *World) leave(c core.Coord) {
	w.occupancy[c.X][c.Y]--
	if w.occupancy[c.X][c.Y] == 0 {
		w.truth.setObject(c, w.truth.object(c)&^core.ObjRobot)
	}
}

// Knowledge is the read-only view of discovered cells handed to strategies.
type Knowledge struct {
	w *World
}

// Size returns the grid edge length.
func (k Knowledge) Size() int { return k.w.size }

// In reports whether c lies inside the grid.
func (k Knowledge) In(c core.Coord) bool { return k.w.In(c) }

// Object returns the last observed classification of c, Unknown if never seen.
func (k Knowledge) Object(c core.Coord) core.Object { return k.w.known.object(c) }

// Known reports whether c has been observed at least once.
func (k Knowledge) Known(c core.Coord) bool { return k.w.known.object(c) != core.Unknown }

// Cost returns the discovered cost of c for type t, core.UnknownCost if never seen.
func (k Knowledge) Cost(c core.Coord, t core.RobotType) int { return k.w.known.cost(c).Of(t) }

// Passable reports whether a robot of type t may plan through c. Unknown cells count as passable.
func (k Knowledge) Passable(c core.Coord, t core.RobotType) bool {
	if !k.In(c) {
		return false
	}
	obj := k.Object(c)
	if obj == core.Unknown {
		return true
	}
	return obj != core.Wall && k.Cost(c, t) < core.Impassable
}
