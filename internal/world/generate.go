package world

import (
	"fmt"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
)

// Params are the startup parameters of a generated world.
type Params struct {
	Size            int
	NumRobots       int
	NumInitialTasks int
	WallDensity     int // Percent of cells turned into walls
	RobotEnergy     int
}

// Cost bands of the terrain generator.
const (
	droneCostSpan      = 40
	droneCostMin       = 60
	groundCostDrawSpan = 200

	taskCaterpillarSpan = 100
	taskCaterpillarMin  = 50
	taskWheelSpan       = 200
)

// Generate builds a random world: terrain costs, walls, initial tasks and
// robots, followed by one observation pass so robots know their surroundings.
func Generate(p Params, opts Options) (*World, error) {
	if p.Size <= 0 {
		return nil, fmt.Errorf("generate: size must be positive, got %d", p.Size)
	}
	w := NewBlank(p.Size, opts)

	// Drone cost is one draw for the whole run; ground costs share one draw per cell.
	droneCost := (w.rng.Intn(droneCostSpan) + droneCostMin) * 2
	for x := 0; x < p.Size; x++ {
		for y := 0; y < p.Size; y++ {
			draw := w.rng.Intn(groundCostDrawSpan)
			w.truth.costs[x][y] = core.Costs{droneCost, draw*2 + 100, draw*4 + 50}
		}
	}

	walls := p.Size * p.Size * p.WallDensity / 100
	for i := 0; i < walls; i++ {
		c, err := w.RandomEmptyCoord()
		if err != nil {
			return nil, fmt.Errorf("generate walls: %w", err)
		}
		if err := w.PlaceWall(c); err != nil {
			return nil, fmt.Errorf("generate walls: %w", err)
		}
	}

	for i := 0; i < p.NumInitialTasks; i++ {
		if _, err := w.CreateTask(); err != nil {
			return nil, fmt.Errorf("generate tasks: %w", err)
		}
	}

	for i := 0; i < p.NumRobots; i++ {
		c, err := w.RandomEmptyCoord()
		if err != nil {
			return nil, fmt.Errorf("generate robots: %w", err)
		}
		typ := core.RobotType(i % core.NumRobotTypes)
		if _, err := w.SpawnRobot(typ, c, p.RobotEnergy); err != nil {
			return nil, fmt.Errorf("generate robots: %w", err)
		}
	}

	w.Observe()
	w.log.Debug("world generated", "size", p.Size, "walls", walls,
		"robots", p.NumRobots, "tasks", p.NumInitialTasks)
	return w, nil
}

// randomTaskCost draws a task's per-type work. Drones never work tasks.
func (w *World) randomTaskCost() core.Costs {
	return core.Costs{
		core.Impassable,
		w.rng.Intn(taskCaterpillarSpan) + taskCaterpillarMin,
		w.rng.Intn(taskWheelSpan),
	}
}
