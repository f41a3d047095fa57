package world

import (
	"fmt"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
)

// CreateTask places a task with random costs on a random empty cell.
func (w *World) CreateTask() (*core.Task, error) {
	c, err := w.RandomEmptyCoord()
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return w.SpawnTask(c, w.randomTaskCost())
}

// SpawnTask places a task with the given costs at c. The task stays pending
// until a robot observes its cell.
func (w *World) SpawnTask(c core.Coord, cost core.Costs) (*core.Task, error) {
	if !w.In(c) {
		return nil, fmt.Errorf("task at %v: %w", c, ErrOutOfBounds)
	}
	obj := w.truth.object(c)
	if obj == core.Wall {
		return nil, fmt.Errorf("task at %v: %w", c, ErrWall)
	}
	if obj.Has(core.ObjTask) {
		return nil, fmt.Errorf("task at %v: %w", c, ErrCellOccupied)
	}
	task := core.NewTask(core.TaskID(len(w.tasks)), c, cost)
	w.tasks = append(w.tasks, task)
	w.truth.setObject(c, obj|core.ObjTask)
	return task, nil
}

// TaskAt returns the unfinished task at c, or nil.
func (w *World) TaskAt(c core.Coord) *core.Task {
	for _, t := range w.tasks {
		if t.Coord == c && !t.Done {
			return t
		}
	}
	return nil
}

// CompleteTask retires a task whose assigned robot has no progress left.
// The cell loses its Task bit in both maps and is reported as updated by the
// next knowledge merge.
func (w *World) CompleteTask(id core.TaskID) error {
	task, err := w.Task(id)
	if err != nil {
		return err
	}
	if task.Done {
		return fmt.Errorf("complete task %d: %w", id, ErrTaskDone)
	}
	if !task.Assigned() {
		return fmt.Errorf("complete task %d: no robot assigned: %w", id, ErrNotFinished)
	}
	r := w.robots[task.Robot]
	if r.Progress > 0 {
		w.log.Warn("task is not complete", "task", id, "coord", task.Coord.String(), "remaining", r.Progress)
		return fmt.Errorf("complete task %d: %d left: %w", id, r.Progress, ErrNotFinished)
	}

	task.Done = true
	task.Robot = core.NoRobot
	r.Task = core.NoTask
	w.deactivate(id)

	c := task.Coord
	w.truth.setObject(c, w.truth.object(c)&^core.ObjTask)
	if w.known.object(c) == core.Unknown {
		w.known.costs[c.X][c.Y] = w.truth.cost(c)
	}
	w.known.setObject(c, w.truth.object(c))
	w.forced.Add(c)
	w.completed++

	w.log.Debug("task completed", "task", id, "coord", c.String(), "robot", r.ID)
	return nil
}

func (w *World) deactivate(id core.TaskID) {
	for i, a := range w.active {
		if a == id {
			w.active = append(w.active[:i], w.active[i+1:]...)
			return
		}
	}
}
