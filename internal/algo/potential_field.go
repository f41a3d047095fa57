package algo

import (
	"math"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
)

// FieldWeights scale the components of the potential field.
type FieldWeights struct {
	Load    float64 // Attraction toward workable tasks
	Explore float64 // Attraction toward unknown cells
	Repel   float64 // Repulsion from other robots
	Heat    float64 // Repulsion from the robot's own recent trail
	Terrain float64 // Penalty for expensive cells
}

// DefaultFieldWeights favours tasks over exploration and strongly avoids crowding.
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{Load: 8, Explore: 1, Repel: 3, Heat: 2, Terrain: 0.5}
}

// heatDecay is applied to every trail cell once per tick.
const heatDecay = 0.9

// Field moves each idle robot to the neighbouring cell with the best potential:
// attraction toward tasks it can work and toward unexplored cells, repulsion
// from other robots and from its own recent trail. It never plans ahead.
type Field struct {
	Weights FieldWeights

	heat      map[core.RobotID]map[core.Coord]float64
	positions map[core.RobotID]core.Coord
}

// NewField creates a potential field strategy with default weights.
func NewField() *Field {
	return &Field{
		Weights:   DefaultFieldWeights(),
		heat:      make(map[core.RobotID]map[core.Coord]float64),
		positions: make(map[core.RobotID]core.Coord),
	}
}

func (f *Field) Name() string { return "field" }

// OnInfoUpdated cools the trails and records where every active robot stands.
func (f *Field) OnInfoUpdated(info Info) {
	for _, trail := range f.heat {
		for c, h := range trail {
			if h *= heatDecay; h < 0.01 {
				delete(trail, c)
			} else {
				trail[c] = h
			}
		}
	}

	clear(f.positions)
	for _, r := range info.Robots {
		if !r.Active() {
			delete(f.heat, r.ID)
			continue
		}
		f.positions[r.ID] = r.Coord
		trail := f.heat[r.ID]
		if trail == nil {
			trail = make(map[core.Coord]float64)
			f.heat[r.ID] = trail
		}
		trail[r.Coord]++
	}
}

// OnTaskReached takes any task the robot can afford.
func (f *Field) OnTaskReached(_ Info, r *core.Robot, t *core.Task) bool {
	return canTake(r, t)
}

// IdleAction steps to the best scoring passable neighbour, or holds if there is none.
func (f *Field) IdleAction(info Info, r *core.Robot) core.Action {
	best, bestScore := core.Hold, math.Inf(-1)
	for _, a := range core.Actions() {
		if a == core.Hold {
			continue
		}
		c := r.Coord.Step(a)
		if !info.Knowledge.Passable(c, r.Type) {
			continue
		}
		if score := f.Score(info, r, c); score > bestScore {
			best, bestScore = a, score
		}
	}
	return best
}

// Score evaluates how attractive cell c is for robot r.
func (f *Field) Score(info Info, r *core.Robot, c core.Coord) float64 {
	w := f.Weights
	score := w.Load*f.load(info, r, c) + w.Explore*f.explore(info, c) - w.Repel*f.repel(r, c)
	score -= w.Heat * f.heat[r.ID][c]
	score -= w.Terrain * float64(CellCost(info.Knowledge, r.Type, c)) / float64(unknownEstimate.Of(r.Type))
	return score
}

// load is the inverse-square attraction of every task r could take.
func (f *Field) load(info Info, r *core.Robot, c core.Coord) float64 {
	sum := 0.0
	for _, t := range info.Tasks {
		if !canTake(r, t) {
			continue
		}
		d := euclideanDist(c, t.Coord)
		sum += 1 / (1 + d*d)
	}
	return sum
}

// explore is the inverse-square attraction of every unknown cell.
func (f *Field) explore(info Info, c core.Coord) float64 {
	m := info.Knowledge
	sum := 0.0
	for x := 0; x < m.Size(); x++ {
		for y := 0; y < m.Size(); y++ {
			u := core.Coord{X: x, Y: y}
			if m.Known(u) {
				continue
			}
			d := euclideanDist(c, u)
			sum += 1 / (1 + d*d)
		}
	}
	return sum
}

// repel sums the repulsion of other robots within their type's radius.
func (f *Field) repel(r *core.Robot, c core.Coord) float64 {
	sum := 0.0
	for id, pos := range f.positions {
		if id == r.ID {
			continue
		}
		radius := robotRepulsionRadius(r.Type)
		d := euclideanDist(c, pos)
		if d < radius {
			sum += radius / math.Max(d, 0.5)
		}
	}
	return sum
}

// euclideanDist computes the straight-line distance between two cells.
func euclideanDist(a, b core.Coord) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// robotRepulsionRadius returns how far a robot of type t keeps from others.
// Drones overfly each other, ground robots spread out.
func robotRepulsionRadius(t core.RobotType) float64 {
	switch t {
	case core.Drone:
		return 1.5
	case core.Caterpillar:
		return 3.0
	default:
		return 2.5
	}
}
