package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/sim"
	"github.com/elektrokombinacija/fleet-explore/internal/world"
)

// scene is a 3x3 world: a wall in the top left corner, a task top right with
// caterpillar 1 on it, and wheel 0 bottom center.
func scene(t *testing.T) *world.World {
	t.Helper()
	w := world.NewBlank(3, world.Options{})
	require.NoError(t, w.PlaceWall(core.Coord{X: 0, Y: 2}))
	_, err := w.SpawnTask(core.Coord{X: 2, Y: 2}, core.Costs{core.Impassable, 40, 60})
	require.NoError(t, err)
	_, err = w.SpawnRobot(core.Wheel, core.Coord{X: 1, Y: 0}, 500)
	require.NoError(t, err)
	_, err = w.SpawnRobot(core.Caterpillar, core.Coord{X: 2, Y: 2}, 500)
	require.NoError(t, err)
	return w
}

func plain() *Renderer { return New(PlainStyles()) }

func TestObjectMap(t *testing.T) {
	want := strings.Join([]string{
		"Object map",
		"  -------------",
		" 2|WAL|   |TC1|",
		"  -------------",
		" 1|   |   |   |",
		"  -------------",
		" 0|   |RW0|   |",
		"  -------------",
		"     0   1   2",
		"",
	}, "\n")
	assert.Equal(t, want, plain().ObjectMap(scene(t)))
}

func TestObjectMapStackedRobots(t *testing.T) {
	w := scene(t)
	_, err := w.SpawnRobot(core.Drone, core.Coord{X: 1, Y: 0}, 500)
	require.NoError(t, err)
	_, err = w.SpawnRobot(core.Drone, core.Coord{X: 2, Y: 2}, 500)
	require.NoError(t, err)

	out := plain().ObjectMap(w)
	assert.Contains(t, out, " 0|   |RS2|   |")
	assert.Contains(t, out, " 2|WAL|   |TS2|")
}

func TestKnownMap(t *testing.T) {
	w := scene(t)
	out := plain().KnownMap(w)
	assert.Contains(t, out, "Known object map")
	assert.Contains(t, out, " 1|UNK|UNK|UNK|")

	w.Observe()
	out = plain().KnownMap(w)
	assert.Contains(t, out, " 2|UNK|   |TC1|")
	assert.Contains(t, out, " 1|UNK|   |   |")
	assert.Contains(t, out, " 0|   |RW0|   |")
}

func TestCostMap(t *testing.T) {
	w := scene(t)
	require.NoError(t, w.SetCost(core.Coord{X: 1, Y: 1}, core.Wheel, 250))

	out := plain().CostMap(w, core.Wheel)
	assert.True(t, strings.HasPrefix(out, "Cost map for WHEEL\n"))
	assert.Contains(t, out, " 2|WAL|  0|  0|")
	assert.Contains(t, out, " 1|  0|250|  0|")

	out = plain().CostMap(w, core.Drone)
	assert.Contains(t, out, " 1|  0|  0|  0|")
}

func TestRobotSummary(t *testing.T) {
	w := scene(t)
	out := plain().RobotSummary(w)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "- Robot summary", lines[0])
	assert.Contains(t, lines[1], "TargetCoord")
	assert.Contains(t, lines[2], "WHEEL")
	assert.Contains(t, lines[2], "( 1,  0)")
	assert.Contains(t, lines[2], "IDLE")
	assert.True(t, strings.HasSuffix(lines[2], "No"))
	assert.Contains(t, lines[3], "CATERPILLAR")
}

func TestTaskSummary(t *testing.T) {
	w := scene(t)
	out := plain().TaskSummary(w, 4)
	assert.Contains(t, out, "Max task: 4, Task created: 1, Active task: 0, Completed task: 0")
	assert.Contains(t, out, "CATERPILLAR")
	assert.Contains(t, out, " 0  ( 2,  2)  No     No           No")

	w.Observe()
	out = plain().TaskSummary(w, 4)
	assert.Contains(t, out, "Active task: 1")
	assert.Contains(t, out, " 0  ( 2,  2)  Yes    No           No")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "60"))
}

func TestReport(t *testing.T) {
	m := sim.SimulationMetrics{
		RunID:           "abc",
		Strategy:        "greedy",
		Ticks:           120,
		TimeMax:         2000,
		TasksCompleted:  3,
		TasksCreated:    9,
		MaxTasks:        16,
		Robots:          6,
		RobotsExhausted: 1,
		CellsKnown:      300,
		Cells:           400,
		StrategyTime:    1500 * time.Microsecond,
		EndReason:       sim.EndCompleted,
	}
	out := plain().Report(m)
	assert.Contains(t, out, "120 / 2000")
	assert.Contains(t, out, "3 completed")
	assert.Contains(t, out, "300 / 400 cells")
	assert.Contains(t, out, "1.5ms")
	assert.NotContains(t, out, "invariant")

	m.InvariantViolations = 2
	assert.Contains(t, plain().Report(m), "2 invariant violations")
}

func TestBox(t *testing.T) {
	out := New(DefaultStyles()).Box("hi")
	assert.Contains(t, out, "hi")
	assert.Contains(t, out, "╭")
}
