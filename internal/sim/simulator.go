// Package sim runs the fleet exploration loop.
//
// Each tick follows a fixed order:
//   - dispatch a new task if one is due
//   - observe and merge knowledge
//   - let the strategy update its bookkeeping
//   - advance every robot in ID order, asking the strategy for idle decisions
//
// The run ends at the horizon, when every robot is exhausted, or when the
// whole task budget has been completed.
package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elektrokombinacija/fleet-explore/internal/algo"
	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/logging"
	"github.com/elektrokombinacija/fleet-explore/internal/world"
)

// SimulationConfig configures a run.
type SimulationConfig struct {
	World    world.Params
	MaxTasks int // Task budget including the initial tasks
	TimeMax  int // Horizon in ticks

	// Strategy to use. When nil, StrategyName is resolved through the algo registry.
	Strategy     algo.Strategy
	StrategyName string

	Policy world.ConflictPolicy

	// Random seed for world generation; the strategy draws from Seed+1.
	Seed int64

	// Verify world invariants after every tick.
	CheckInvariants bool

	Logger logging.Logger
}

// DefaultConfig returns the standard 20x20 scenario.
func DefaultConfig() SimulationConfig {
	const size = 20
	timeMax := size * 100
	return SimulationConfig{
		World: world.Params{
			Size:            size,
			NumRobots:       6,
			NumInitialTasks: 8,
			WallDensity:     20,
			RobotEnergy:     timeMax * 6,
		},
		MaxTasks:     16,
		TimeMax:      timeMax,
		StrategyName: "greedy",
		Policy:       world.Refuse,
		Seed:         1,
	}
}

// Termination reasons reported in SimulationMetrics.
const (
	EndHorizon   = "horizon"
	EndExhausted = "exhausted"
	EndCompleted = "completed"
	EndCancelled = "cancelled"
)

// SimulationMetrics collects metrics during a run.
type SimulationMetrics struct {
	RunID    string `json:"run_id"`
	Strategy string `json:"strategy"`
	Seed     int64  `json:"seed"`

	// Timing
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Ticks        int           `json:"ticks"`
	TimeMax      int           `json:"time_max"`
	StrategyTime time.Duration `json:"strategy_time_ns"` // Wall clock spent inside strategy calls

	// Tasks
	MaxTasks        int `json:"max_tasks"`
	TasksCreated    int `json:"tasks_created"`
	TasksDiscovered int `json:"tasks_discovered"`
	TasksCompleted  int `json:"tasks_completed"`

	// Robots
	Robots          int `json:"robots"`
	RobotsExhausted int `json:"robots_exhausted"`
	EnergyRemaining int `json:"energy_remaining"`

	// Exploration
	CellsKnown int `json:"cells_known"`
	Cells      int `json:"cells"`

	// Rejected decisions
	InvalidActions      int `json:"invalid_actions"`
	Conflicts           int `json:"conflicts"`
	InvariantViolations int `json:"invariant_violations"`

	EndReason string `json:"end_reason,omitempty"`
}

// Tick describes one completed tick to observers.
type Tick struct {
	Time       int
	Observed   core.CoordSet
	Updated    core.CoordSet
	Dispatched *core.Task // Task released this tick, nil if none
	World      *world.World
}

// TickObserver is notified after every tick. It runs with the runner locked
// and must not call back into the runner.
type TickObserver interface {
	OnTick(t Tick)
}

// TickFunc adapts a function to TickObserver.
type TickFunc func(t Tick)

func (f TickFunc) OnTick(t Tick) { f(t) }

// Runner owns a world, its dispatcher and a strategy, and steps them.
type Runner struct {
	mu sync.Mutex

	config     SimulationConfig
	world      *world.World
	dispatcher *world.Dispatcher
	strategy   algo.Strategy
	log        logging.Logger

	now        int
	discovered map[core.TaskID]bool
	observers  []TickObserver

	metrics SimulationMetrics
}

// NewRunner generates the world and resolves the strategy.
func NewRunner(config SimulationConfig) (*Runner, error) {
	log := logging.OrNoOp(config.Logger)

	strategy := config.Strategy
	if strategy == nil {
		var err error
		strategy, err = algo.New(config.StrategyName, rand.New(rand.NewSource(config.Seed+1)))
		if err != nil {
			return nil, err
		}
	}

	w, err := world.Generate(config.World, world.Options{
		Policy: config.Policy,
		Rand:   rand.New(rand.NewSource(config.Seed)),
		Logger: log,
	})
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	return newRunner(config, w, strategy), nil
}

func newRunner(config SimulationConfig, w *world.World, strategy algo.Strategy) *Runner {
	runID := uuid.NewString()
	r := &Runner{
		config:     config,
		world:      w,
		dispatcher: world.NewDispatcher(w, config.TimeMax, config.MaxTasks),
		strategy:   strategy,
		log:        logging.With(logging.OrNoOp(config.Logger), "run_id", runID),
		discovered: make(map[core.TaskID]bool),
		metrics: SimulationMetrics{
			RunID:    runID,
			Strategy: strategy.Name(),
			Seed:     config.Seed,
			TimeMax:  config.TimeMax,
			MaxTasks: config.MaxTasks,
			Robots:   len(w.Robots()),
			Cells:    w.Size() * w.Size(),
		},
	}
	r.noteDiscoveries()
	return r
}

// AddObserver registers o for every following tick.
func (r *Runner) AddObserver(o TickObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// World returns the simulated world. Callers running concurrently with Step
// must read it inside View.
func (r *Runner) World() *world.World { return r.world }

// Strategy returns the strategy driving the run.
func (r *Runner) Strategy() algo.Strategy { return r.strategy }

// Config returns the run configuration.
func (r *Runner) Config() SimulationConfig { return r.config }

// View runs fn with the runner locked so the world cannot change underneath it.
func (r *Runner) View(fn func(w *world.World, now int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.world, r.now)
}

// Now returns the number of ticks run so far.
func (r *Runner) Now() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now
}

// Done reports whether a terminal condition has been reached.
func (r *Runner) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.endReason() != ""
}

// EndReason returns why the run is over, or "" while it is still going.
func (r *Runner) EndReason() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.endReason()
}

func (r *Runner) endReason() string {
	switch {
	case r.world.CompletedTasks() >= r.config.MaxTasks && r.config.MaxTasks > 0:
		return EndCompleted
	case r.world.ExhaustedRobots() >= len(r.world.Robots()):
		return EndExhausted
	case r.now >= r.config.TimeMax:
		return EndHorizon
	}
	return ""
}

// Step runs one tick. It returns false without doing anything once the run is over.
func (r *Runner) Step() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.endReason() != "" {
		return false
	}
	if r.metrics.StartTime.IsZero() {
		r.metrics.StartTime = time.Now()
	}

	dispatched, _ := r.dispatcher.TryDispatch(r.now)
	observed, updated := r.world.Observe()
	r.noteDiscoveries()

	info := algo.Info{
		Observed:  observed,
		Updated:   updated,
		Knowledge: r.world.Knowledge(),
		Tasks:     r.world.ActiveTasks(),
		Robots:    r.world.Robots(),
	}
	r.timed(func() { r.strategy.OnInfoUpdated(info) })

	for _, robot := range r.world.Robots() {
		if robot.Status == core.Idle {
			r.decide(info, robot)
		}
		r.advance(robot)
	}

	if r.config.CheckInvariants {
		if err := r.world.CheckInvariants(); err != nil {
			r.metrics.InvariantViolations++
			r.log.Error("world invariants violated", "tick", r.now, "err", err)
		}
	}

	tick := Tick{Time: r.now, Observed: observed, Updated: updated, Dispatched: dispatched, World: r.world}
	for _, o := range r.observers {
		o.OnTick(tick)
	}
	r.now++
	r.metrics.Ticks = r.now
	return true
}

// decide asks the strategy what an idle robot does this tick and applies it.
func (r *Runner) decide(info algo.Info, robot *core.Robot) {
	if r.world.Knowledge().Object(robot.Coord).Has(core.ObjTask) {
		if task := r.world.TaskAt(robot.Coord); task != nil {
			var accept bool
			r.timed(func() { accept = r.strategy.OnTaskReached(info, robot, task) })
			if accept {
				preempted := r.world.Preemptions()
				err := r.world.StartWorking(robot.ID, task.ID)
				if err == nil {
					r.metrics.Conflicts += r.world.Preemptions() - preempted
					return
				}
				r.reject(err)
			}
		}
	}

	var action core.Action
	r.timed(func() { action = r.strategy.IdleAction(info, robot) })
	if err := r.world.StartMoving(robot.ID, action); err != nil {
		r.reject(err)
	}
}

// advance moves a robot that is moving or working, including one that started this tick.
func (r *Runner) advance(robot *core.Robot) {
	var err error
	switch robot.Status {
	case core.Moving:
		_, err = r.world.Move(robot.ID)
	case core.Working:
		_, err = r.world.Work(robot.ID)
	}
	if err != nil {
		r.log.Error("robot step failed", "robot", robot.ID, "tick", r.now, "err", err)
	}
}

func (r *Runner) reject(err error) {
	if errors.Is(err, world.ErrTaskAssigned) {
		r.metrics.Conflicts++
		return
	}
	r.metrics.InvalidActions++
}

func (r *Runner) timed(fn func()) {
	start := time.Now()
	fn()
	r.metrics.StrategyTime += time.Since(start)
}

func (r *Runner) noteDiscoveries() {
	for _, t := range r.world.ActiveTasks() {
		r.discovered[t.ID] = true
	}
}

// Run steps until the run is over or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (*SimulationMetrics, error) {
	r.log.Info("simulation started",
		"strategy", r.metrics.Strategy,
		"seed", r.config.Seed,
		"size", r.config.World.Size,
		"robots", r.config.World.NumRobots,
		"time_max", r.config.TimeMax)

	for {
		select {
		case <-ctx.Done():
			m := r.finish(EndCancelled)
			return &m, ctx.Err()
		default:
		}
		if !r.Step() {
			break
		}
	}

	m := r.finish("")
	r.log.Info("simulation finished",
		"ticks", m.Ticks,
		"completed", m.TasksCompleted,
		"exhausted", m.RobotsExhausted,
		"end", m.EndReason,
		"strategy_time", m.StrategyTime.String())
	return &m, nil
}

// finish fills the end-of-run fields and returns a copy of the metrics.
func (r *Runner) finish(reason string) SimulationMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reason == "" {
		reason = r.endReason()
	}
	r.metrics.EndReason = reason
	r.metrics.EndTime = time.Now()
	r.refresh()
	return r.metrics
}

// Metrics returns current simulation metrics.
func (r *Runner) Metrics() SimulationMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh()
	return r.metrics
}

func (r *Runner) refresh() {
	m := &r.metrics
	m.TasksCreated = len(r.world.Tasks())
	m.TasksDiscovered = len(r.discovered)
	m.TasksCompleted = r.world.CompletedTasks()
	m.RobotsExhausted = r.world.ExhaustedRobots()
	m.EnergyRemaining = 0
	for _, robot := range r.world.Robots() {
		m.EnergyRemaining += robot.Energy
	}
	k := r.world.Knowledge()
	m.CellsKnown = 0
	for x := 0; x < k.Size(); x++ {
		for y := 0; y < k.Size(); y++ {
			if k.Known(core.Coord{X: x, Y: y}) {
				m.CellsKnown++
			}
		}
	}
}

// ExportMetrics writes metrics to a JSON file.
func (r *Runner) ExportMetrics(path string) error {
	data, err := json.MarshalIndent(r.Metrics(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimulationResult is the final output of a simulation run.
type SimulationResult struct {
	Metrics SimulationMetrics `json:"metrics"`
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
}

// RunSimulation is a convenience function to run a complete simulation.
func RunSimulation(ctx context.Context, config SimulationConfig) (*SimulationResult, error) {
	runner, err := NewRunner(config)
	if err != nil {
		return &SimulationResult{Error: err.Error()}, err
	}

	metrics, err := runner.Run(ctx)
	result := &SimulationResult{Success: err == nil}
	if err != nil {
		result.Error = err.Error()
	}
	if metrics != nil {
		result.Metrics = *metrics
	}
	return result, err
}
