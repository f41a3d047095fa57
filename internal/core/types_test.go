package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectHas(t *testing.T) {
	tests := []struct {
		obj  Object
		flag Object
		want bool
	}{
		{Empty, ObjRobot, false},
		{ObjRobot, ObjRobot, true},
		{RobotAndTask, ObjTask, true},
		{RobotAndTask, ObjRobot, true},
		{ObjTask, ObjRobot, false},
		{Wall, Wall, true},
		{Unknown, ObjTask, false},
		{ObjRobot, Empty, false},
	}

	for _, tt := range tests {
		got := tt.obj.Has(tt.flag)
		if got != tt.want {
			t.Errorf("%v.Has(%v) = %v, want %v", tt.obj, tt.flag, got, tt.want)
		}
	}
}

func TestObjectString(t *testing.T) {
	assert.Equal(t, "ROBOT_AND_TASK", (ObjRobot | ObjTask).String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Equal(t, "ROBOT|WALL", (ObjRobot | Wall).String())
}

func TestActionDelta(t *testing.T) {
	origin := Coord{X: 3, Y: 3}
	assert.Equal(t, Coord{X: 3, Y: 4}, origin.Step(Up))
	assert.Equal(t, Coord{X: 3, Y: 2}, origin.Step(Down))
	assert.Equal(t, Coord{X: 2, Y: 3}, origin.Step(Left))
	assert.Equal(t, Coord{X: 4, Y: 3}, origin.Step(Right))
	assert.Equal(t, origin, origin.Step(Hold))
}

func TestCoordOrdering(t *testing.T) {
	set := NewCoordSet(Coord{2, 0}, Coord{0, 5}, Coord{0, 1}, Coord{2, 0})
	assert.Len(t, set, 3)
	assert.Equal(t, []Coord{{0, 1}, {0, 5}, {2, 0}}, set.Sorted())
	assert.True(t, Coord{1, 9}.Less(Coord{2, 0}))
	assert.False(t, Coord{1, 1}.Less(Coord{1, 1}))
}

func TestPerTypeTables(t *testing.T) {
	assert.Equal(t, 2, ViewRange(Drone))
	assert.Equal(t, ViewSquare, ViewTypeOf(Caterpillar))
	assert.Equal(t, ViewCross, ViewTypeOf(Wheel))
	for _, rt := range RobotTypes() {
		assert.Equal(t, EnergyPerTick, EnergyRate(rt), rt.String())
	}
}

func TestTaskWorkable(t *testing.T) {
	task := NewTask(0, Coord{1, 1}, Costs{Impassable, 60, 0})
	assert.False(t, task.Workable(Drone))
	assert.True(t, task.Workable(Caterpillar))
	assert.True(t, task.Workable(Wheel))
	assert.False(t, task.Assigned())
}

func TestRobotTicksLeft(t *testing.T) {
	r := NewRobot(0, Wheel, Coord{}, 95)
	assert.Equal(t, 10, r.TicksLeft())
	r.Energy = 0
	assert.Equal(t, 0, r.TicksLeft())
	assert.True(t, r.Active())
	assert.False(t, r.HasTask())
}
