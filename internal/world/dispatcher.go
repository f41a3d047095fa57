package world

import "github.com/elektrokombinacija/fleet-explore/internal/core"

// Dispatcher releases new tasks on a fixed schedule derived from the run
// horizon and the task budget: the first at timeMax/4, then every
// timeMax/maxTasks ticks until maxTasks tasks exist.
type Dispatcher struct {
	w        *World
	timeMax  int
	maxTasks int
	next     int
}

// NewDispatcher creates a dispatcher for w.
func NewDispatcher(w *World, timeMax, maxTasks int) *Dispatcher {
	return &Dispatcher{
		w:        w,
		timeMax:  timeMax,
		maxTasks: maxTasks,
		next:     timeMax / 4,
	}
}

// NextArrival returns the earliest tick at which the next task may appear.
func (d *Dispatcher) NextArrival() int { return d.next }

// MaxTasks returns the task budget.
func (d *Dispatcher) MaxTasks() int { return d.maxTasks }

// TryDispatch creates one task if now has reached the next arrival time and
// the budget is not used up. It reports whether a task was created.
func (d *Dispatcher) TryDispatch(now int) (*core.Task, bool) {
	if d.maxTasks <= 0 || now < d.next || len(d.w.tasks) >= d.maxTasks {
		return nil, false
	}
	task, err := d.w.CreateTask()
	if err != nil {
		d.w.log.Warn("task dispatch failed", "tick", now, "err", err)
		return nil, false
	}
	d.next += d.timeMax / d.maxTasks
	d.w.log.Debug("task dispatched", "task", task.ID, "coord", task.Coord.String(), "tick", now)
	return task, true
}
