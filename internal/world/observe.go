package world

import "github.com/elektrokombinacija/fleet-explore/internal/core"

// Footprint returns the cells robot r observes from its current position,
// clipped to the grid.
func (w *World) Footprint(r *core.Robot) core.CoordSet {
	set := core.NewCoordSet()
	w.addFootprint(set, r)
	return set
}

func (w *World) addFootprint(set core.CoordSet, r *core.Robot) {
	rng := r.ViewRange()
	x, y := r.Coord.X, r.Coord.Y
	lo := func(v int) int { return max(v-rng, 0) }
	hi := func(v int) int { return min(v+rng+1, w.size) }

	switch r.ViewType() {
	case core.ViewCross:
		for xx := lo(x); xx < hi(x); xx++ {
			set.Add(core.Coord{X: xx, Y: y})
		}
		for yy := lo(y); yy < hi(y); yy++ {
			set.Add(core.Coord{X: x, Y: yy})
		}
	case core.ViewSquare:
		for xx := lo(x); xx < hi(x); xx++ {
			for yy := lo(y); yy < hi(y); yy++ {
				set.Add(core.Coord{X: xx, Y: yy})
			}
		}
	}
}

// ObservedCoords returns the union of every active robot's footprint.
func (w *World) ObservedCoords() core.CoordSet {
	set := core.NewCoordSet()
	for _, r := range w.robots {
		if !r.Active() {
			continue
		}
		w.addFootprint(set, r)
	}
	return set
}

// UpdateKnowledge merges the true state of the observed cells into knowledge
// and returns every cell whose knowledge changed since the last merge,
// including cells cleared by task completion even if they were not observed.
// Tasks become active when their cell is first seen holding them.
func (w *World) UpdateKnowledge(observed core.CoordSet) core.CoordSet {
	updated := w.forced
	w.forced = core.NewCoordSet()

	for _, c := range observed.Sorted() {
		known := w.known.object(c)
		truth := w.truth.object(c)
		if known == truth {
			continue
		}
		if truth.Has(core.ObjTask) && !known.Has(core.ObjTask) {
			w.activate(c)
		}
		if known == core.Unknown {
			w.known.costs[c.X][c.Y] = w.truth.cost(c)
		}
		w.known.setObject(c, truth)
		updated.Add(c)
	}
	return updated
}

// Observe runs one observation and knowledge merge.
func (w *World) Observe() (observed, updated core.CoordSet) {
	observed = w.ObservedCoords()
	updated = w.UpdateKnowledge(observed)
	return observed, updated
}

func (w *World) activate(c core.Coord) {
	task := w.TaskAt(c)
	if task == nil {
		return
	}
	for _, id := range w.active {
		if id == task.ID {
			return
		}
	}
	w.active = append(w.active, task.ID)
	w.log.Debug("task discovered", "task", task.ID, "coord", c.String())
}
