// Package widgets provides Gio UI widgets for the visualizer.
package widgets

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/vis/draw"
	"github.com/elektrokombinacija/fleet-explore/internal/vis/interact"
	"github.com/elektrokombinacija/fleet-explore/internal/vis/state"
	"github.com/elektrokombinacija/fleet-explore/internal/world"
)

// Workspace is the main 2D grid view.
type Workspace struct {
	state  *state.State
	camera *interact.Camera
	fitted bool
}

// NewWorkspace creates a new workspace widget.
func NewWorkspace(st *state.State, camera *interact.Camera) *Workspace {
	return &Workspace{
		state:  st,
		camera: camera,
	}
}

// Refit fits the grid to the view on the next frame.
func (w *Workspace) Refit() { w.fitted = false }

// Layout renders the workspace.
func (w *Workspace) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	bounds := gtx.Constraints.Max
	defer clip.Rect(image.Rect(0, 0, bounds.X, bounds.Y)).Push(gtx.Ops).Pop()

	// Background
	paint.Fill(gtx.Ops, color.NRGBA{R: 25, G: 28, B: 32, A: 255})

	w.handlePointerEvents(gtx)

	st := w.state
	st.Runner.View(func(wd *world.World, _ int) {
		size := wd.Size()
		if !w.fitted {
			w.camera.FitGrid(size, float32(bounds.X), float32(bounds.Y), 20)
			w.fitted = true
		}
		w.drawCells(gtx, wd)

		// Tasks the fleet knows about
		for _, t := range wd.ActiveTasks() {
			if st.ShowKnown && !wd.Knowledge().Object(t.Coord).Has(core.ObjTask) {
				continue
			}
			draw.DrawTask(gtx, t, w.camera)
		}
		draw.DrawFlash(gtx, st.Recorder.Flash(), w.camera)

		// Trails under robots
		for _, r := range wd.Robots() {
			if r.Active() {
				draw.DrawTrail(gtx, st.Recorder.Trail(r.ID), w.camera, draw.RobotColor(r.Type), 3)
			}
		}
		draw.DrawRobots(gtx, wd.Robots(), w.camera, st.Selected, st.Runner.Config().World.RobotEnergy)
	})

	return layout.Dimensions{Size: bounds}
}

// drawCells shades every cell by object and terrain cost. In the known view
// unseen cells are dark; in the truth view they are covered with fog.
func (w *Workspace) drawCells(gtx layout.Context, wd *world.World) {
	size := wd.Size()
	know := wd.Knowledge()
	ct := w.state.CostType

	maxCost := 0
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if c := wd.Cost(core.Coord{X: x, Y: y}, ct); c < core.Impassable {
				maxCost = max(maxCost, c)
			}
		}
	}

	draw.DrawGridFrame(gtx, size, size, w.camera)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			c := core.Coord{X: x, Y: y}
			if w.state.ShowKnown {
				draw.FillCell(gtx, c, w.camera, draw.CellColor(know.Object(c), know.Cost(c, ct), maxCost))
				continue
			}
			draw.FillCell(gtx, c, w.camera, draw.CellColor(wd.Object(c), wd.Cost(c, ct), maxCost))
			if !know.Known(c) {
				draw.FillCell(gtx, c, w.camera, draw.ColorFog)
			}
		}
	}
}

func (w *Workspace) handlePointerEvents(gtx layout.Context) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, w)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  w,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		w.camera.HandleEvent(pe)
		if pe.Kind == pointer.Press && pe.Buttons.Contain(pointer.ButtonPrimary) {
			w.handleClick(pe.Position.X, pe.Position.Y)
		}
	}
}

// handleClick toggles selection of the robot under the cursor.
func (w *Workspace) handleClick(screenX, screenY float32) {
	cell := w.camera.ScreenToCell(screenX, screenY)
	w.state.Runner.View(func(wd *world.World, _ int) {
		if r, ok := draw.HitRobot(wd.Robots(), cell); ok {
			w.state.Select(r.ID)
			return
		}
		w.state.Selected = core.NoRobot
	})
}
