package world

import (
	"fmt"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
)

// StartMoving begins a one-cell move of an idle robot. Hold succeeds without
// changing anything. The first half of the move costs half the current cell.
func (w *World) StartMoving(id core.RobotID, a core.Action) error {
	r, err := w.Robot(id)
	if err != nil {
		return err
	}
	if r.Status != core.Idle {
		return fmt.Errorf("robot %d start moving while %v: %w", id, r.Status, ErrWrongStatus)
	}
	if a == core.Hold {
		return nil
	}

	target := r.Coord.Step(a)
	if !w.In(target) {
		w.log.Warn("robot tried to leave the map", "robot", id, "from", r.Coord.String(), "to", target.String())
		return fmt.Errorf("robot %d move %v to %v: %w", id, a, target, ErrOutOfBounds)
	}
	if w.truth.object(target) == core.Wall {
		w.log.Warn("robot tried to move into a wall", "robot", id, "from", r.Coord.String(), "to", target.String())
		return fmt.Errorf("robot %d move %v to %v: %w", id, a, target, ErrWall)
	}

	r.Target = target
	r.Progress = w.truth.cost(r.Coord).Of(r.Type) / 2
	r.Status = core.Moving
	return nil
}

// Move advances a moving robot by one tick and returns the remaining progress.
// Once the exit half is paid the robot changes cell and owes the full cost of
// the destination; once that is paid too it becomes idle.
func (w *World) Move(id core.RobotID) (int, error) {
	r, err := w.Robot(id)
	if err != nil {
		return 0, err
	}
	if r.Status != core.Moving {
		return 0, fmt.Errorf("robot %d move while %v: %w", id, r.Status, ErrWrongStatus)
	}

	r.Progress -= r.EnergyRate()
	if r.Coord != r.Target && r.Progress <= 0 && r.Energy > 0 {
		w.leave(r.Coord)
		w.enter(r.Target)
		r.Progress += w.truth.cost(r.Target).Of(r.Type)
		r.Coord = r.Target
	}
	if r.Coord == r.Target && r.Progress <= 0 {
		r.Status = core.Idle
		r.Progress = 0
	}
	w.consumeEnergy(r)
	return r.Progress, nil
}

// StartWorking assigns the task at the robot's cell and switches it to Working.
// A task already held by another robot is handled by the world's ConflictPolicy:
// Refuse fails with ErrTaskAssigned, Preempt succeeds and counts a preemption.
func (w *World) StartWorking(rid core.RobotID, tid core.TaskID) error {
	r, err := w.Robot(rid)
	if err != nil {
		return err
	}
	task, err := w.Task(tid)
	if err != nil {
		return err
	}
	if r.Status != core.Idle {
		return fmt.Errorf("robot %d start working while %v: %w", rid, r.Status, ErrWrongStatus)
	}
	if task.Done {
		return fmt.Errorf("robot %d start task %d: %w", rid, tid, ErrTaskDone)
	}
	if r.Coord != task.Coord {
		w.log.Warn("robot is not at task", "robot", rid, "coord", r.Coord.String(), "task", tid, "task_coord", task.Coord.String())
		return fmt.Errorf("robot %d start task %d: %w", rid, tid, ErrNotAtTask)
	}
	if !task.Workable(r.Type) {
		return fmt.Errorf("robot %d (%v) start task %d: %w", rid, r.Type, tid, ErrTaskUnworkable)
	}

	if task.Assigned() && task.Robot != rid {
		holder := w.robots[task.Robot]
		w.log.Warn("task is already assigned", "task", tid, "holder", holder.ID, "robot", rid, "policy", w.policy.String())
		if w.policy == Refuse {
			return fmt.Errorf("robot %d start task %d held by robot %d: %w", rid, tid, holder.ID, ErrTaskAssigned)
		}
		holder.Task = core.NoTask
		if holder.Status == core.Working {
			holder.Status = core.Idle
			holder.Progress = 0
		}
		w.preemptions++
	}

	r.Task = tid
	task.Robot = rid
	r.Progress = task.CostFor(r.Type)
	r.Status = core.Working
	w.log.Debug("task assigned", "task", tid, "robot", rid, "cost", r.Progress)
	return nil
}

// Work advances a working robot by one tick and returns the remaining progress.
// A robot that finishes completes its task and becomes idle in the same tick.
func (w *World) Work(id core.RobotID) (int, error) {
	r, err := w.Robot(id)
	if err != nil {
		return 0, err
	}
	if r.Status != core.Working {
		return 0, fmt.Errorf("robot %d work while %v: %w", id, r.Status, ErrWrongStatus)
	}

	r.Progress -= r.EnergyRate()
	if r.Progress <= 0 {
		r.Progress = 0
		if err := w.CompleteTask(r.Task); err != nil {
			return 0, err
		}
		r.Status = core.Idle
	}
	w.consumeEnergy(r)
	return r.Progress, nil
}

// consumeEnergy charges one tick of activity and exhausts the robot at zero.
func (w *World) consumeEnergy(r *core.Robot) {
	if !r.Active() {
		return
	}
	r.Energy -= r.EnergyRate()
	if r.Energy <= 0 {
		r.Energy = 0
		w.exhaust(r)
	}
}

// exhaust retires a robot: it leaves the occupancy count and drops its task
// so another robot can take it over.
func (w *World) exhaust(r *core.Robot) {
	r.Status = core.Exhausted
	w.exhausted++
	w.leave(r.Coord)
	if r.Task != core.NoTask {
		if task := w.tasks[r.Task]; task.Robot == r.ID {
			task.Robot = core.NoRobot
		}
		r.Task = core.NoTask
	}
	w.log.Debug("robot exhausted", "robot", r.ID, "coord", r.Coord.String())
}
