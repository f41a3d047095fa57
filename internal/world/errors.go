package world

import "errors"

// Operation failures. A failed operation leaves the world unchanged.
var (
	ErrOutOfBounds    = errors.New("target is outside the grid")
	ErrWall           = errors.New("target is a wall")
	ErrWrongStatus    = errors.New("robot is in the wrong status")
	ErrNotAtTask      = errors.New("robot is not at the task")
	ErrTaskAssigned   = errors.New("task is already assigned")
	ErrTaskDone       = errors.New("task is already done")
	ErrTaskUnworkable = errors.New("robot type cannot work the task")
	ErrNotFinished    = errors.New("task work is not finished")
	ErrCellOccupied   = errors.New("cell is not empty")
	ErrNoEmptyCell    = errors.New("no empty cell left")
	ErrUnknownRobot   = errors.New("unknown robot")
	ErrUnknownTask    = errors.New("unknown task")
)
