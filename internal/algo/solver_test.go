package algo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/world"
)

func at(x, y int) core.Coord { return core.Coord{X: x, Y: y} }

// knownGrid creates an n x n world (n <= 5) whose every cell is already
// observed by a drone parked in the middle. Every cell costs cost for every type.
func knownGrid(t *testing.T, n, cost int, walls ...core.Coord) *world.World {
	t.Helper()
	w := newGrid(t, n, cost, walls...)
	observeAll(t, w)
	return w
}

func newGrid(t *testing.T, n, cost int, walls ...core.Coord) *world.World {
	t.Helper()
	w := world.NewBlank(n, world.Options{Rand: rand.New(rand.NewSource(1))})
	for _, c := range walls {
		require.NoError(t, w.PlaceWall(c))
	}
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			if w.Object(at(x, y)) == core.Wall {
				continue
			}
			for _, rt := range core.RobotTypes() {
				require.NoError(t, w.SetCost(at(x, y), rt, cost))
			}
		}
	}
	return w
}

func observeAll(t *testing.T, w *world.World) {
	t.Helper()
	n := w.Size()
	_, err := w.SpawnRobot(core.Drone, at(n/2, n/2), 1<<20)
	require.NoError(t, err)
	w.Observe()
}

func snapshot(w *world.World) Info {
	observed, updated := w.Observe()
	return Info{
		Observed:  observed,
		Updated:   updated,
		Knowledge: w.Knowledge(),
		Tasks:     w.ActiveTasks(),
		Robots:    w.Robots(),
	}
}

// drive runs the tick loop for a strategy over w.
func drive(w *world.World, s Strategy, ticks int) {
	for now := 0; now < ticks; now++ {
		info := snapshot(w)
		s.OnInfoUpdated(info)
		for _, r := range w.Robots() {
			if r.Status == core.Idle {
				taken := false
				if w.Knowledge().Object(r.Coord).Has(core.ObjTask) {
					if task := w.TaskAt(r.Coord); task != nil && s.OnTaskReached(info, r, task) {
						taken = w.StartWorking(r.ID, task.ID) == nil
					}
				}
				if !taken {
					_ = w.StartMoving(r.ID, s.IdleAction(info, r))
				}
			}
			switch r.Status {
			case core.Moving:
				_, _ = w.Move(r.ID)
			case core.Working:
				_, _ = w.Work(r.ID)
			}
		}
	}
}

func assertContiguous(t *testing.T, w *world.World, path []core.Coord) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		assert.Equal(t, 1, path[i-1].Manhattan(path[i]), "step %d: %v -> %v", i, path[i-1], path[i])
		assert.NotEqual(t, core.Wall, w.Object(path[i]))
	}
}

func TestShortestPathAroundWall(t *testing.T) {
	w := knownGrid(t, 5, 10, at(1, 0), at(1, 1), at(1, 2), at(1, 3))

	path := ShortestPath(w.Knowledge(), core.Wheel, at(0, 0), at(2, 0))
	require.NotNil(t, path)
	assert.Len(t, path, 11)
	assert.Equal(t, at(0, 0), path[0])
	assert.Equal(t, at(2, 0), path[len(path)-1])
	assertContiguous(t, w, path)
}

func TestShortestPathPrefersCheapTerrain(t *testing.T) {
	w := newGrid(t, 3, 10)
	require.NoError(t, w.SetCost(at(1, 0), core.Wheel, 1000))
	observeAll(t, w)

	path := ShortestPath(w.Knowledge(), core.Wheel, at(0, 0), at(2, 0))
	assert.Equal(t, []core.Coord{at(0, 0), at(0, 1), at(1, 1), at(2, 1), at(2, 0)}, path)

	// The drone's costs are untouched, so it flies straight.
	path = ShortestPath(w.Knowledge(), core.Drone, at(0, 0), at(2, 0))
	assert.Equal(t, []core.Coord{at(0, 0), at(1, 0), at(2, 0)}, path)
}

func TestShortestPathUnreachable(t *testing.T) {
	w := knownGrid(t, 5, 10, at(3, 4), at(3, 3), at(4, 3))

	assert.Nil(t, ShortestPath(w.Knowledge(), core.Wheel, at(0, 0), at(4, 4)))
	assert.Nil(t, ShortestPath(w.Knowledge(), core.Wheel, at(0, 0), at(3, 3)))
	assert.Equal(t, []core.Coord{at(1, 1)}, ShortestPath(w.Knowledge(), core.Wheel, at(1, 1), at(1, 1)))
}

func TestShortestPathThroughUnknown(t *testing.T) {
	w := world.NewBlank(4, world.Options{})
	path := ShortestPath(w.Knowledge(), core.Caterpillar, at(0, 0), at(3, 3))
	require.Len(t, path, 7)
	assertContiguous(t, w, path)
}

func TestCostMap(t *testing.T) {
	w := knownGrid(t, 5, 10, at(1, 0), at(1, 1), at(1, 2), at(1, 3))
	cm := ComputeCostMap(w.Knowledge(), core.Wheel, at(0, 0))

	assert.Zero(t, cm.Cost[at(0, 0)])
	assert.Equal(t, 15, cm.Cost[at(0, 1)])
	assert.Equal(t, 150, cm.Cost[at(2, 0)])
	assert.False(t, cm.Reachable(at(1, 1)))

	path := cm.PathTo(at(2, 0))
	assert.Len(t, path, 11)
	assertContiguous(t, w, path)
	assert.Equal(t, []core.Coord{at(0, 0)}, cm.PathTo(at(0, 0)))
	assert.Nil(t, cm.PathTo(at(1, 2)))
}

func TestActionTowards(t *testing.T) {
	tests := []struct {
		to   core.Coord
		want core.Action
	}{
		{at(2, 3), core.Up},
		{at(2, 1), core.Down},
		{at(1, 2), core.Left},
		{at(3, 2), core.Right},
		{at(2, 2), core.Hold},
		{at(4, 4), core.Hold},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ActionTowards(at(2, 2), tt.to), "to %v", tt.to)
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"field", "greedy", "random"}, Names())
	for _, name := range Names() {
		s, err := New(name, nil)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}
	s, err := New("GREEDY", nil)
	require.NoError(t, err)
	assert.IsType(t, &Greedy{}, s)

	_, err = New("cbs", nil)
	assert.Error(t, err)
}

func TestReservationsAssignNearestCapable(t *testing.T) {
	w := knownGrid(t, 5, 10)
	near, err := w.SpawnRobot(core.Wheel, at(4, 3), 10000)
	require.NoError(t, err)
	far, err := w.SpawnRobot(core.Caterpillar, at(0, 0), 10000)
	require.NoError(t, err)
	_, err = w.SpawnTask(at(4, 4), core.Costs{core.Impassable, 50, 50})
	require.NoError(t, err)
	info := snapshot(w)
	require.Len(t, info.Tasks, 1)

	rs := NewReservations()
	rs.Assign(info.Knowledge, info.Tasks, info.Robots)
	holder, ok := rs.Holder(0)
	require.True(t, ok)
	assert.Equal(t, near.ID, holder)
	_, ok = rs.Of(far.ID)
	assert.False(t, ok)
	_, ok = rs.Of(0) // The drone
	assert.False(t, ok)

	rs.ReleaseRobot(near.ID)
	assert.Zero(t, rs.Len())
}

func TestReservationsSkipUnaffordable(t *testing.T) {
	w := knownGrid(t, 5, 10)
	_, err := w.SpawnRobot(core.Wheel, at(4, 4), 40)
	require.NoError(t, err)
	_, err = w.SpawnTask(at(4, 3), core.Costs{core.Impassable, 50, 50})
	require.NoError(t, err)
	info := snapshot(w)

	rs := NewReservations()
	rs.Assign(info.Knowledge, info.Tasks, info.Robots)
	assert.Zero(t, rs.Len())
}

func TestReservationsPrune(t *testing.T) {
	w := knownGrid(t, 5, 10)
	r, err := w.SpawnRobot(core.Wheel, at(4, 4), 10000)
	require.NoError(t, err)
	task, err := w.SpawnTask(at(4, 3), core.Costs{core.Impassable, 50, 50})
	require.NoError(t, err)
	info := snapshot(w)

	rs := NewReservations()
	rs.Reserve(task.ID, r.ID)
	rs.Prune(info.Tasks, info.Robots)
	assert.Equal(t, 1, rs.Len())

	rs.Prune(nil, info.Robots)
	assert.Zero(t, rs.Len())
}

func TestGreedyFindsAndCompletesTask(t *testing.T) {
	w := world.NewBlank(6, world.Options{})
	task, err := w.SpawnTask(at(5, 5), core.Costs{core.Impassable, 20, 20})
	require.NoError(t, err)
	_, err = w.SpawnRobot(core.Caterpillar, at(0, 0), 10000)
	require.NoError(t, err)

	drive(w, NewGreedy(), 200)

	assert.True(t, task.Done)
	assert.Equal(t, 1, w.CompletedTasks())
	assert.NoError(t, w.CheckInvariants())
}

func TestGreedyExploresWholeMap(t *testing.T) {
	w := world.NewBlank(6, world.Options{})
	require.NoError(t, w.PlaceWall(at(2, 2)))
	_, err := w.SpawnRobot(core.Wheel, at(0, 0), 100000)
	require.NoError(t, err)

	drive(w, NewGreedy(), 300)

	for x := 0; x < 6; x++ {
		for y := 0; y < 6; y++ {
			assert.True(t, w.Knowledge().Known(at(x, y)), "cell %v", at(x, y))
		}
	}
}

func TestGreedyDroneNeverWorks(t *testing.T) {
	w := world.NewBlank(5, world.Options{})
	task, err := w.SpawnTask(at(2, 2), core.Costs{core.Impassable, 20, 20})
	require.NoError(t, err)
	drone, err := w.SpawnRobot(core.Drone, at(2, 2), 10000)
	require.NoError(t, err)
	g := NewGreedy()
	info := snapshot(w)
	g.OnInfoUpdated(info)

	assert.False(t, g.OnTaskReached(info, drone, task))
	_, ok := g.Reservations().Of(drone.ID)
	assert.False(t, ok)
}

func TestGreedyRespectsOtherReservation(t *testing.T) {
	w := knownGrid(t, 5, 10)
	owner, err := w.SpawnRobot(core.Wheel, at(4, 3), 10000)
	require.NoError(t, err)
	other, err := w.SpawnRobot(core.Caterpillar, at(0, 0), 10000)
	require.NoError(t, err)
	task, err := w.SpawnTask(at(4, 4), core.Costs{core.Impassable, 20, 20})
	require.NoError(t, err)

	g := NewGreedy()
	info := snapshot(w)
	g.OnInfoUpdated(info)
	holder, ok := g.Reservations().Holder(task.ID)
	require.True(t, ok)
	require.Equal(t, owner.ID, holder)

	assert.False(t, g.OnTaskReached(info, other, task))
	assert.True(t, g.OnTaskReached(info, owner, task))
	assert.Equal(t, core.Up, g.IdleAction(info, owner))
}

func TestFieldStepsTowardTask(t *testing.T) {
	w := knownGrid(t, 5, 10)
	r, err := w.SpawnRobot(core.Wheel, at(1, 1), 10000)
	require.NoError(t, err)
	_, err = w.SpawnTask(at(1, 2), core.Costs{core.Impassable, 20, 20})
	require.NoError(t, err)
	info := snapshot(w)

	f := NewField()
	assert.Equal(t, core.Up, f.IdleAction(info, r))
	assert.Greater(t, f.Score(info, r, at(1, 2)), f.Score(info, r, at(1, 0)))
}

func TestFieldAvoidsWalls(t *testing.T) {
	w := knownGrid(t, 5, 10, at(0, 1), at(1, 0))
	r, err := w.SpawnRobot(core.Wheel, at(0, 0), 10000)
	require.NoError(t, err)
	info := snapshot(w)
	assert.Equal(t, core.Hold, NewField().IdleAction(info, r))
}

func TestFieldCompletesTask(t *testing.T) {
	w := world.NewBlank(5, world.Options{})
	task, err := w.SpawnTask(at(3, 3), core.Costs{core.Impassable, 20, 20})
	require.NoError(t, err)
	_, err = w.SpawnRobot(core.Caterpillar, at(2, 2), 10000)
	require.NoError(t, err)

	drive(w, NewField(), 50)
	assert.True(t, task.Done)
}

func TestRandomOnlyPassableMoves(t *testing.T) {
	w := knownGrid(t, 5, 10, at(0, 1))
	r, err := w.SpawnRobot(core.Wheel, at(0, 0), 10000)
	require.NoError(t, err)
	info := snapshot(w)

	s := NewRandom(rand.New(rand.NewSource(3)))
	for i := 0; i < 20; i++ {
		assert.Equal(t, core.Right, s.IdleAction(info, r))
	}

	boxed := knownGrid(t, 5, 10, at(0, 1), at(1, 0))
	r2, err := boxed.SpawnRobot(core.Wheel, at(0, 0), 10000)
	require.NoError(t, err)
	assert.Equal(t, core.Hold, s.IdleAction(snapshot(boxed), r2))
}
