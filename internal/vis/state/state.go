// Package state manages the visualization state.
package state

import (
	"time"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/sim"
	"github.com/elektrokombinacija/fleet-explore/internal/vis/observer"
)

// Trail and event log lengths kept for the viewer.
const (
	TrailLength = 24
	EventLength = 12
)

// maxTicksPerFrame bounds catch-up after a stalled frame.
const maxTicksPerFrame = 50

// State holds all visualization state.
type State struct {
	Runner   *sim.Runner
	Playback *Playback
	Recorder *observer.Recorder

	// ShowKnown draws the fleet's knowledge instead of the truth.
	ShowKnown bool
	// CostType selects whose terrain costs shade the cells.
	CostType core.RobotType
	// Selected is the inspected robot, core.NoRobot when none.
	Selected core.RobotID
}

// NewState attaches a recorder to runner and starts paused.
func NewState(runner *sim.Runner, speed float64) *State {
	rec := observer.NewRecorder(TrailLength, EventLength)
	runner.AddObserver(rec)
	return &State{
		Runner:   runner,
		Playback: NewPlayback(speed),
		Recorder: rec,
		CostType: core.Wheel,
		Selected: core.NoRobot,
	}
}

// Advance runs the ticks due at time now and returns how many ran.
// Playback pauses itself when the run ends.
func (s *State) Advance(now time.Time) int {
	due := min(s.Playback.Due(now), maxTicksPerFrame)
	ran := 0
	for ; ran < due; ran++ {
		if !s.Runner.Step() {
			break
		}
	}
	if s.Runner.Done() {
		s.Playback.Pause()
	}
	return ran
}

// StepOnce runs a single tick while paused.
func (s *State) StepOnce() bool {
	if s.Playback.Playing {
		return false
	}
	return s.Runner.Step()
}

// Progress returns the share of the horizon elapsed, in [0, 1].
func (s *State) Progress() float64 {
	limit := s.Runner.Config().TimeMax
	if limit <= 0 {
		return 1
	}
	return min(float64(s.Runner.Now())/float64(limit), 1)
}

// CycleCostType switches the shading to the next robot type.
func (s *State) CycleCostType() {
	s.CostType = core.RobotType((int(s.CostType) + 1) % core.NumRobotTypes)
}

// Select marks id as inspected; selecting it again clears the selection.
func (s *State) Select(id core.RobotID) {
	if s.Selected == id {
		s.Selected = core.NoRobot
		return
	}
	s.Selected = id
}

// SelectedRobot returns the inspected robot. Call it inside Runner.View.
func (s *State) SelectedRobot(robots []*core.Robot) (*core.Robot, bool) {
	if s.Selected == core.NoRobot || int(s.Selected) >= len(robots) {
		return nil, false
	}
	return robots[s.Selected], true
}
