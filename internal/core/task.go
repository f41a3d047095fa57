package core

// TaskID is a unique task identifier; it is also the task's index in the world.
type TaskID int

// NoTask marks a robot without an assignment.
const NoTask TaskID = -1

// Task represents work to be performed at a cell.
// Fields are owned by the world; strategies must treat them as read-only.
type Task struct {
	ID    TaskID
	Coord Coord
	Cost  Costs // Work needed per robot type; Impassable if the type cannot work it
	Done  bool
	Robot RobotID // Assigned robot, NoRobot when free
}

// NewTask creates an unassigned task.
func NewTask(id TaskID, at Coord, cost Costs) *Task {
	return &Task{
		ID:    id,
		Coord: at,
		Cost:  cost,
		Robot: NoRobot,
	}
}

// CostFor returns the work needed by robot type t.
func (t *Task) CostFor(rt RobotType) int {
	return t.Cost.Of(rt)
}

// Workable reports whether robot type rt can complete the task at all.
func (t *Task) Workable(rt RobotType) bool {
	return t.Cost.Of(rt) < Impassable
}

// Assigned reports whether a robot currently holds the task.
func (t *Task) Assigned() bool {
	return t.Robot != NoRobot
}
