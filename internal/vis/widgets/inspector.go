package widgets

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/vis/state"
	"github.com/elektrokombinacija/fleet-explore/internal/world"
)

// InspectorWidth is the side panel width in pixels.
const InspectorWidth = 300

// Inspector is the side panel with run totals, the selected robot and the event log.
type Inspector struct {
	state *state.State
}

// NewInspector creates a new inspector panel.
func NewInspector(st *state.State) *Inspector {
	return &Inspector{state: st}
}

// Lines returns the panel text, one entry per line.
func (in *Inspector) Lines() []string {
	st := in.state
	var lines []string
	st.Runner.View(func(w *world.World, now int) {
		know := w.Knowledge()
		known := 0
		for x := 0; x < w.Size(); x++ {
			for y := 0; y < w.Size(); y++ {
				if know.Known(core.Coord{X: x, Y: y}) {
					known++
				}
			}
		}
		lines = append(lines,
			fmt.Sprintf("Tick %d / %d", now, st.Runner.Config().TimeMax),
			fmt.Sprintf("Tasks: %d active, %d completed of %d", len(w.ActiveTasks()), w.CompletedTasks(), st.Runner.Config().MaxTasks),
			fmt.Sprintf("Robots exhausted: %d / %d", w.ExhaustedRobots(), len(w.Robots())),
			fmt.Sprintf("Cells known: %d / %d", known, w.Size()*w.Size()),
			"",
		)

		r, ok := st.SelectedRobot(w.Robots())
		if !ok {
			lines = append(lines, "Click a robot to inspect it", "")
			return
		}
		task := "none"
		if r.Task != core.NoTask {
			task = fmt.Sprintf("%d", r.Task)
		}
		lines = append(lines,
			fmt.Sprintf("Robot %d (%s)", r.ID, r.Type),
			fmt.Sprintf("  at %s, %s", r.Coord, r.Status),
			fmt.Sprintf("  energy %d", r.Energy),
			fmt.Sprintf("  task %s", task),
			"",
		)
	})

	lines = append(lines, "Events")
	for _, e := range st.Recorder.Events() {
		lines = append(lines, "  "+e)
	}
	return lines
}

// Layout renders the panel.
func (in *Inspector) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	gtx.Constraints.Max.X = InspectorWidth
	gtx.Constraints.Min.X = InspectorWidth
	rect := image.Rect(0, 0, InspectorWidth, gtx.Constraints.Max.Y)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 40, G: 40, B: 45, A: 255}, clip.Rect(rect).Op())

	lines := in.Lines()
	children := make([]layout.FlexChild, 0, len(lines))
	for _, line := range lines {
		label := material.Label(th, 12, line)
		label.Color = color.NRGBA{R: 210, G: 210, B: 210, A: 255}
		if line == "" {
			label.Text = " "
		}
		children = append(children, layout.Rigid(label.Layout))
	}
	layout.Inset{Top: unit.Dp(10), Left: unit.Dp(10), Right: unit.Dp(10)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
	return layout.Dimensions{Size: image.Point{X: InspectorWidth, Y: gtx.Constraints.Max.Y}}
}
