package core

// RobotID is a unique robot identifier; it is also the robot's index in the world.
type RobotID int

// NoRobot marks an unassigned task.
const NoRobot RobotID = -1

// Robot represents an agent in the system.
// Fields are owned by the world; strategies must treat them as read-only.
type Robot struct {
	ID       RobotID
	Type     RobotType
	Coord    Coord
	Target   Coord // Destination of the current or last move
	Energy   int
	Status   Status
	Progress int    // Remaining progress of the current move or work
	Task     TaskID // Assigned task, NoTask when free
}

// NewRobot creates an idle robot with a full energy budget.
func NewRobot(id RobotID, typ RobotType, at Coord, energy int) *Robot {
	return &Robot{
		ID:     id,
		Type:   typ,
		Coord:  at,
		Target: NoCoord,
		Energy: energy,
		Status: Idle,
		Task:   NoTask,
	}
}

// Active reports whether the robot still takes part in the run.
func (r *Robot) Active() bool {
	return r.Status != Exhausted
}

// HasTask reports whether the robot holds an assignment.
func (r *Robot) HasTask() bool {
	return r.Task != NoTask
}

// ViewRange returns the robot's observation range.
func (r *Robot) ViewRange() int { return ViewRange(r.Type) }

// ViewType returns the robot's footprint shape.
func (r *Robot) ViewType() ViewType { return ViewTypeOf(r.Type) }

// EnergyRate returns energy spent per tick of movement or work.
func (r *Robot) EnergyRate() int { return EnergyRate(r.Type) }

// TicksLeft returns how many more ticks of activity the energy budget allows.
func (r *Robot) TicksLeft() int {
	rate := r.EnergyRate()
	if rate <= 0 {
		return 0
	}
	return (r.Energy + rate - 1) / rate
}
