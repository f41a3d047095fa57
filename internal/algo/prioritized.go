package algo

import (
	"sort"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
)

// Reservations maps discovered tasks to the robot heading for them, at most
// one task per robot. It lives inside a strategy; the world only learns about
// an assignment when the robot arrives and starts working.
type Reservations struct {
	byTask  map[core.TaskID]core.RobotID
	byRobot map[core.RobotID]core.TaskID
}

// NewReservations creates an empty reservation table.
func NewReservations() *Reservations {
	return &Reservations{
		byTask:  make(map[core.TaskID]core.RobotID),
		byRobot: make(map[core.RobotID]core.TaskID),
	}
}

// Of returns the task reserved for robot id.
func (rs *Reservations) Of(id core.RobotID) (core.TaskID, bool) {
	tid, ok := rs.byRobot[id]
	return tid, ok
}

// Holder returns the robot that reserved task id.
func (rs *Reservations) Holder(id core.TaskID) (core.RobotID, bool) {
	rid, ok := rs.byTask[id]
	return rid, ok
}

// Len returns the number of reservations.
func (rs *Reservations) Len() int { return len(rs.byTask) }

// Reserve binds task tid to robot rid, replacing either side's previous binding.
func (rs *Reservations) Reserve(tid core.TaskID, rid core.RobotID) {
	rs.ReleaseTask(tid)
	rs.ReleaseRobot(rid)
	rs.byTask[tid] = rid
	rs.byRobot[rid] = tid
}

// ReleaseTask drops the reservation of task tid.
func (rs *Reservations) ReleaseTask(tid core.TaskID) {
	if rid, ok := rs.byTask[tid]; ok {
		delete(rs.byRobot, rid)
		delete(rs.byTask, tid)
	}
}

// ReleaseRobot drops the reservation held by robot rid.
func (rs *Reservations) ReleaseRobot(rid core.RobotID) {
	if tid, ok := rs.byRobot[rid]; ok {
		delete(rs.byTask, tid)
		delete(rs.byRobot, rid)
	}
}

// Prune drops reservations of tasks that are no longer open and of robots
// that can no longer reach them.
func (rs *Reservations) Prune(tasks []*core.Task, robots []*core.Robot) {
	open := make(map[core.TaskID]*core.Task, len(tasks))
	for _, t := range tasks {
		if !t.Done {
			open[t.ID] = t
		}
	}
	for tid, rid := range rs.byTask {
		t, ok := open[tid]
		if !ok || int(rid) >= len(robots) {
			rs.ReleaseTask(tid)
			continue
		}
		r := robots[rid]
		if !r.Active() || r.Energy < t.CostFor(r.Type) || (t.Assigned() && t.Robot != rid) {
			rs.ReleaseTask(tid)
		}
	}
}

// Assign reserves open tasks for free robots. Tasks are taken cheapest first
// for the type that can work them; each goes to the capable free robot with
// the lowest expected cost (travel estimate plus work), so robots stay evenly
// loaded. Drones never receive tasks.
func (rs *Reservations) Assign(m Map, tasks []*core.Task, robots []*core.Robot) {
	free := make([]*core.Robot, 0, len(robots))
	for _, r := range robots {
		if _, busy := rs.byRobot[r.ID]; busy || !r.Active() || r.Status == core.Working {
			continue
		}
		free = append(free, r)
	}
	if len(free) == 0 {
		return
	}

	pending := make([]*core.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, taken := rs.byTask[t.ID]; taken || t.Done || t.Assigned() {
			continue
		}
		pending = append(pending, t)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		ci, cj := cheapestWork(pending[i]), cheapestWork(pending[j])
		if ci != cj {
			return ci < cj
		}
		return pending[i].ID < pending[j].ID
	})

	for _, t := range pending {
		var best *core.Robot
		bestCost := int(^uint(0) >> 1) // Max int
		for _, r := range free {
			if _, busy := rs.byRobot[r.ID]; busy || !canTake(r, t) {
				continue
			}
			cost := estimate(m, r, t.Coord) + t.CostFor(r.Type)
			if cost > r.Energy {
				continue
			}
			if cost < bestCost {
				bestCost = cost
				best = r
			}
		}
		if best != nil {
			rs.Reserve(t.ID, best.ID)
		}
	}
}

// cheapestWork returns the smallest work cost over all types.
func cheapestWork(t *core.Task) int {
	best := core.Impassable
	for _, rt := range core.RobotTypes() {
		best = min(best, t.CostFor(rt))
	}
	return best
}

// estimate is a cheap travel cost guess: Manhattan distance times the cost of
// one step on the robot's current cell.
func estimate(m Map, r *core.Robot, to core.Coord) int {
	c := CellCost(m, r.Type, r.Coord)
	return r.Coord.Manhattan(to) * (c/2 + c)
}
