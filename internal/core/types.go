// Package core defines domain models for the fleet exploration simulator.
package core

import "math"

// RobotType classifies robot capabilities.
type RobotType int

const (
	Drone       RobotType = iota // Flies over terrain, cannot work tasks
	Caterpillar                  // Tracked ground robot
	Wheel                        // Wheeled ground robot, cross-shaped view
)

// NumRobotTypes is the number of robot types; per-type tables are indexed by RobotType.
const NumRobotTypes = 3

// RobotTypes returns all robot types in index order.
func RobotTypes() []RobotType {
	return []RobotType{Drone, Caterpillar, Wheel}
}

func (t RobotType) String() string {
	if t < 0 || int(t) >= NumRobotTypes {
		return "Invalid"
	}
	return [...]string{"DRONE", "CATERPILLAR", "WHEEL"}[t]
}

// ViewType is the shape of a robot's observation footprint.
type ViewType int

const (
	ViewCross  ViewType = iota // Same row and column within range
	ViewSquare                 // Full (2r+1)x(2r+1) block
)

func (v ViewType) String() string {
	return [...]string{"CROSS", "SQUARE"}[v]
}

// Status is a robot's state machine state.
type Status int

const (
	Idle Status = iota
	Working
	Moving
	Exhausted // Terminal: energy depleted
)

func (s Status) String() string {
	if s < 0 || s > Exhausted {
		return "Invalid"
	}
	return [...]string{"IDLE", "WORKING", "MOVING", "EXHAUSTED"}[s]
}

// Action is a movement decision returned by a strategy for an idle robot.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
	Hold
)

// Actions returns the five movement actions.
func Actions() []Action {
	return []Action{Up, Down, Left, Right, Hold}
}

func (a Action) String() string {
	if a < 0 || a > Hold {
		return "Invalid"
	}
	return [...]string{"UP", "DOWN", "LEFT", "RIGHT", "HOLD"}[a]
}

// Delta returns the coordinate offset of the action.
func (a Action) Delta() Coord {
	switch a {
	case Up:
		return Coord{X: 0, Y: 1}
	case Down:
		return Coord{X: 0, Y: -1}
	case Left:
		return Coord{X: -1, Y: 0}
	case Right:
		return Coord{X: 1, Y: 0}
	default:
		return Coord{}
	}
}

const (
	// Impassable is the movement or task cost of a cell a robot type can never use.
	Impassable = math.MaxInt32
	// UnknownCost marks a knowledge cost that has not been observed yet.
	UnknownCost = -1

	// EnergyPerTick is the energy consumed and progress made per tick.
	EnergyPerTick = 10
)

var (
	viewRange   = [NumRobotTypes]int{2, 1, 1}
	viewType    = [NumRobotTypes]ViewType{ViewSquare, ViewSquare, ViewCross}
	energyRates = [NumRobotTypes]int{EnergyPerTick, EnergyPerTick, EnergyPerTick}
)

// ViewRange returns the observation range of a robot type.
func ViewRange(t RobotType) int { return viewRange[t] }

// ViewTypeOf returns the footprint shape of a robot type.
func ViewTypeOf(t RobotType) ViewType { return viewType[t] }

// EnergyRate returns the per-tick energy consumption (and progress) of a robot type.
func EnergyRate(t RobotType) int { return energyRates[t] }

// Costs holds one value per robot type.
type Costs [NumRobotTypes]int

// Of returns the entry for robot type t.
func (c Costs) Of(t RobotType) int { return c[t] }
