package algo

import (
	"github.com/elektrokombinacija/fleet-explore/internal/core"
)

// Greedy reserves each discovered task for the closest capable robot, routes
// robots with A* over the known costs, and sends everyone without a task to
// the cheapest unexplored cell. Drones only explore.
//
// Planned routes are cached per robot and dropped when a cell on them turns
// out impassable or is discovered after the route was planned through it.
type Greedy struct {
	reserved *Reservations
	routes   map[core.RobotID]*route
	goals    map[core.RobotID]core.Coord
}

// route is a cached plan. cells[0] is where the robot stands.
type route struct {
	cells []core.Coord
	blind core.CoordSet // Cells that were unknown at planning time
}

func newRoute(m Map, cells []core.Coord) *route {
	blind := core.NewCoordSet()
	for _, c := range cells {
		if !m.Known(c) {
			blind.Add(c)
		}
	}
	return &route{cells: cells, blind: blind}
}

// stale reports whether a knowledge change invalidates the route.
func (rt *route) stale(m Map, t core.RobotType, updated core.CoordSet) bool {
	for _, c := range rt.cells {
		if !updated.Has(c) {
			continue
		}
		if rt.blind.Has(c) || !m.Passable(c, t) {
			return true
		}
	}
	return false
}

// NewGreedy creates a greedy strategy.
func NewGreedy() *Greedy {
	return &Greedy{
		reserved: NewReservations(),
		routes:   make(map[core.RobotID]*route),
		goals:    make(map[core.RobotID]core.Coord),
	}
}

func (g *Greedy) Name() string { return "greedy" }

// Reservations exposes the current task reservations.
func (g *Greedy) Reservations() *Reservations { return g.reserved }

// OnInfoUpdated invalidates stale routes and refreshes reservations.
func (g *Greedy) OnInfoUpdated(info Info) {
	for id, rt := range g.routes {
		if int(id) < len(info.Robots) && rt.stale(info.Knowledge, info.Robots[id].Type, info.Updated) {
			g.forget(id)
		}
	}
	for id, goal := range g.goals {
		// Exploration goals are met once seen.
		if info.Knowledge.Known(goal) && info.Knowledge.Object(goal) != core.Wall && !g.hasReservation(id) {
			g.forget(id)
		}
	}

	g.reserved.Prune(info.Tasks, info.Robots)
	for _, r := range info.Robots {
		if !r.Active() {
			g.forget(r.ID)
		}
	}
	g.reserved.Assign(info.Knowledge, info.Tasks, info.Robots)

	// A new reservation replaces any exploration route.
	for _, r := range info.Robots {
		tid, ok := g.reserved.Of(r.ID)
		if !ok {
			continue
		}
		if goal, ok := g.goals[r.ID]; ok && goal != taskCoord(info.Tasks, tid, goal) {
			g.forget(r.ID)
		}
	}
}

// OnTaskReached accepts the task if it is reserved for r, or free and r can afford it.
func (g *Greedy) OnTaskReached(info Info, r *core.Robot, t *core.Task) bool {
	if !canTake(r, t) {
		return false
	}
	if holder, ok := g.reserved.Holder(t.ID); ok && holder != r.ID {
		return false
	}
	g.reserved.Reserve(t.ID, r.ID)
	g.forget(r.ID)
	return true
}

// IdleAction follows the cached route toward the robot's goal, planning a new
// one when needed.
func (g *Greedy) IdleAction(info Info, r *core.Robot) core.Action {
	rt := g.routes[r.ID]
	if rt == nil || len(rt.cells) < 2 || rt.cells[0] != r.Coord {
		rt = g.plan(info, r)
	}
	if rt == nil || len(rt.cells) < 2 {
		return core.Hold
	}
	next := rt.cells[1]
	if !info.Knowledge.Passable(next, r.Type) {
		g.forget(r.ID)
		return core.Hold
	}
	rt.cells = rt.cells[1:]
	return ActionTowards(r.Coord, next)
}

func (g *Greedy) plan(info Info, r *core.Robot) *route {
	g.forget(r.ID)

	if tid, ok := g.reserved.Of(r.ID); ok {
		goal := taskCoord(info.Tasks, tid, core.NoCoord)
		if goal != core.NoCoord {
			if cells := ShortestPath(info.Knowledge, r.Type, r.Coord, goal); cells != nil {
				return g.remember(info, r.ID, goal, cells)
			}
		}
		g.reserved.ReleaseRobot(r.ID)
	}

	cm := ComputeCostMap(info.Knowledge, r.Type, r.Coord)
	goal, ok := g.frontier(info, r, cm)
	if !ok {
		return nil
	}
	return g.remember(info, r.ID, goal, cm.PathTo(goal))
}

func (g *Greedy) remember(info Info, id core.RobotID, goal core.Coord, cells []core.Coord) *route {
	rt := newRoute(info.Knowledge, cells)
	g.routes[id] = rt
	g.goals[id] = goal
	return rt
}

// frontier picks the cheapest reachable unknown cell not already targeted by
// another robot.
func (g *Greedy) frontier(info Info, r *core.Robot, cm *CostMap) (core.Coord, bool) {
	taken := core.NewCoordSet()
	for id, goal := range g.goals {
		if id != r.ID {
			taken.Add(goal)
		}
	}

	best, bestCost, found := core.NoCoord, 0, false
	for c, cost := range cm.Cost {
		if info.Knowledge.Known(c) || taken.Has(c) {
			continue
		}
		if !found || cost < bestCost || (cost == bestCost && c.Less(best)) {
			best, bestCost, found = c, cost, true
		}
	}
	return best, found
}

func (g *Greedy) hasReservation(id core.RobotID) bool {
	_, ok := g.reserved.Of(id)
	return ok
}

func (g *Greedy) forget(id core.RobotID) {
	delete(g.routes, id)
	delete(g.goals, id)
}

func taskCoord(tasks []*core.Task, id core.TaskID, fallback core.Coord) core.Coord {
	for _, t := range tasks {
		if t.ID == id {
			return t.Coord
		}
	}
	return fallback
}
