// Package vis implements a Gio viewer for a live fleet run.
package vis

import (
	"image/color"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/fleet-explore/internal/sim"
	"github.com/elektrokombinacija/fleet-explore/internal/vis/interact"
	"github.com/elektrokombinacija/fleet-explore/internal/vis/state"
	"github.com/elektrokombinacija/fleet-explore/internal/vis/widgets"
)

// App is the main visualization application.
type App struct {
	state     *state.State
	theme     *material.Theme
	workspace *widgets.Workspace
	timeline  *widgets.Timeline
	toolbar   *widgets.Toolbar
	inspector *widgets.Inspector
	camera    *interact.Camera
}

// NewApp creates a viewer for runner, paused at speed ticks per second.
func NewApp(runner *sim.Runner, speed float64) *App {
	st := state.NewState(runner, speed)
	camera := interact.NewCamera(runner.World().Size())
	ws := widgets.NewWorkspace(st, camera)

	return &App{
		state:     st,
		theme:     material.NewTheme(),
		workspace: ws,
		timeline:  widgets.NewTimeline(st),
		toolbar:   widgets.NewToolbar(st, camera, ws),
		inspector: widgets.NewInspector(st),
		camera:    camera,
	}
}

// State exposes the viewer state.
func (a *App) State() *state.State { return a.state }

// Run starts the application event loop.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops
	tag := new(int)

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			// Handle keyboard events
			for {
				ev, ok := gtx.Event(key.Filter{Focus: tag, Optional: key.ModShift})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.handleKeyEvent(ke, e.Now)
				}
			}
			// Request focus for keyboard input
			event.Op(gtx.Ops, tag)

			a.state.Advance(e.Now)
			a.layout(gtx)
			e.Frame(gtx.Ops)

			// Request continuous redraws during playback
			if a.state.Playback.Playing {
				w.Invalidate()
			}
		}
	}
}

func (a *App) handleKeyEvent(e key.Event, now time.Time) {
	switch e.Name {
	case key.NameSpace:
		a.state.Playback.TogglePlay(now)
	case key.NameRightArrow, "N":
		a.state.StepOnce()
	case "+", "=":
		a.state.Playback.Faster()
	case "-":
		a.state.Playback.Slower()
	case "K":
		a.state.ShowKnown = !a.state.ShowKnown
	case "C":
		a.state.CycleCostType()
	case "R":
		a.camera.Reset()
		a.workspace.Refit()
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	// Fill background
	paint.Fill(gtx.Ops, color.NRGBA{R: 30, G: 30, B: 35, A: 255})

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		// Toolbar at top
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.toolbar.Layout(gtx, a.theme)
		}),
		// Main content area
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
				// Workspace (2D view)
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return a.workspace.Layout(gtx, a.theme)
				}),
				// Inspector panel
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return a.inspector.Layout(gtx, a.theme)
				}),
			)
		}),
		// Timeline at bottom
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.timeline.Layout(gtx, a.theme)
		}),
	)
}
