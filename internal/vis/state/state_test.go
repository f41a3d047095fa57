package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/sim"
	"github.com/elektrokombinacija/fleet-explore/internal/world"
)

func TestPlaybackDue(t *testing.T) {
	t0 := time.Unix(0, 0)
	p := NewPlayback(10)
	assert.Equal(t, 0, p.Due(t0.Add(time.Second)), "paused playback releases nothing")

	p.Play(t0)
	assert.Equal(t, 10, p.Due(t0.Add(time.Second)))
	assert.Equal(t, 0, p.Due(t0.Add(time.Second+50*time.Millisecond)))
	assert.Equal(t, 1, p.Due(t0.Add(time.Second+100*time.Millisecond)), "fractions carry over")
	assert.Equal(t, 0, p.Due(t0), "time going backwards is ignored")

	p.TogglePlay(t0)
	assert.False(t, p.Playing)
}

func TestPlaybackSpeedClamp(t *testing.T) {
	p := NewPlayback(0)
	assert.Equal(t, MinSpeed, p.Speed)

	p.SetSpeed(1e6)
	assert.Equal(t, float64(MaxSpeed), p.Speed)

	p.SetSpeed(10)
	p.Faster()
	assert.InDelta(t, 15, p.Speed, 1e-9)
	p.Slower()
	assert.InDelta(t, 10, p.Speed, 1e-9)
}

func newRunner(t *testing.T, timeMax int) *sim.Runner {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.World = world.Params{Size: 8, NumRobots: 2, NumInitialTasks: 1, WallDensity: 10, RobotEnergy: 1000}
	cfg.MaxTasks = 2
	cfg.TimeMax = timeMax
	r, err := sim.NewRunner(cfg)
	require.NoError(t, err)
	return r
}

func TestStateAdvance(t *testing.T) {
	st := NewState(newRunner(t, 5), 4)
	t0 := time.Unix(0, 0)

	assert.Equal(t, 0, st.Advance(t0.Add(time.Second)))
	assert.True(t, st.StepOnce())
	assert.Equal(t, 1, st.Runner.Now())

	st.Playback.Play(t0)
	assert.False(t, st.StepOnce(), "single steps only while paused")
	assert.Equal(t, 2, st.Advance(t0.Add(500*time.Millisecond)))
	assert.Equal(t, 3, st.Runner.Now())
	assert.InDelta(t, 0.6, st.Progress(), 1e-9)

	assert.Equal(t, 2, st.Advance(t0.Add(10*time.Second)), "the horizon stops the run")
	assert.True(t, st.Runner.Done())
	assert.False(t, st.Playback.Playing)
	assert.Equal(t, 1.0, st.Progress())
	assert.NotEmpty(t, st.Recorder.Trail(0))
}

func TestStateSelection(t *testing.T) {
	st := NewState(newRunner(t, 5), 4)
	assert.Equal(t, core.NoRobot, st.Selected)

	st.Select(1)
	st.Runner.View(func(w *world.World, _ int) {
		r, ok := st.SelectedRobot(w.Robots())
		require.True(t, ok)
		assert.Equal(t, core.RobotID(1), r.ID)
	})

	st.Select(1)
	assert.Equal(t, core.NoRobot, st.Selected)

	st.Select(9)
	_, ok := st.SelectedRobot(nil)
	assert.False(t, ok)
}

func TestCycleCostType(t *testing.T) {
	st := NewState(newRunner(t, 5), 4)
	assert.Equal(t, core.Wheel, st.CostType)
	st.CycleCostType()
	assert.Equal(t, core.Drone, st.CostType)
	st.CycleCostType()
	assert.Equal(t, core.Caterpillar, st.CostType)
}
