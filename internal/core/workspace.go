package core

import (
	"fmt"
	"sort"
	"strings"
)

// Coord is a grid position.
type Coord struct {
	X, Y int
}

// NoCoord is the target of a robot that has never moved.
var NoCoord = Coord{X: -1, Y: -1}

// Add returns c shifted by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// Step returns the neighbour reached by action a.
func (c Coord) Step(a Action) Coord {
	return c.Add(a.Delta())
}

// Less orders coordinates lexicographically by (X, Y).
func (c Coord) Less(o Coord) bool {
	if c.X == o.X {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Manhattan returns the L1 distance between c and o.
func (c Coord) Manhattan(o Coord) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

func (c Coord) String() string {
	return fmt.Sprintf("(%2d, %2d)", c.X, c.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CoordSet is a set of coordinates. Iterate with Sorted for a stable order.
type CoordSet map[Coord]struct{}

// NewCoordSet creates a set holding coords.
func NewCoordSet(coords ...Coord) CoordSet {
	s := make(CoordSet, len(coords))
	for _, c := range coords {
		s[c] = struct{}{}
	}
	return s
}

// Add inserts c.
func (s CoordSet) Add(c Coord) { s[c] = struct{}{} }

// Has reports whether c is in the set.
func (s CoordSet) Has(c Coord) bool {
	_, ok := s[c]
	return ok
}

// Union adds every member of o to s.
func (s CoordSet) Union(o CoordSet) {
	for c := range o {
		s[c] = struct{}{}
	}
}

// Sorted returns the members in (X, Y) order.
func (s CoordSet) Sorted() []Coord {
	out := make([]Coord, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Object is the combinable occupancy classification of a cell.
type Object uint8

const (
	Empty   Object = 0
	ObjRobot Object = 1 << 0
	ObjTask  Object = 1 << 1
	Wall     Object = 1 << 2
	Unknown  Object = 1 << 3

	RobotAndTask = ObjRobot | ObjTask
)

// Has reports whether every bit of flag is set.
func (o Object) Has(flag Object) bool {
	return flag != 0 && o&flag == flag
}

func (o Object) String() string {
	switch o {
	case Empty:
		return "EMPTY"
	case ObjRobot:
		return "ROBOT"
	case ObjTask:
		return "TASK"
	case RobotAndTask:
		return "ROBOT_AND_TASK"
	case Wall:
		return "WALL"
	case Unknown:
		return "UNKNOWN"
	}
	var parts []string
	for _, f := range []Object{ObjRobot, ObjTask, Wall, Unknown} {
		if o.Has(f) {
			parts = append(parts, f.String())
		}
	}
	if len(parts) == 0 {
		return "Invalid"
	}
	return strings.Join(parts, "|")
}
