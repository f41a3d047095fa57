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

	"github.com/elektrokombinacija/fleet-explore/internal/vis/state"
)

// Timeline shows how far the run is toward its horizon.
type Timeline struct {
	state *state.State
}

// NewTimeline creates a new timeline widget.
func NewTimeline(st *state.State) *Timeline {
	return &Timeline{state: st}
}

// Layout renders the timeline.
func (t *Timeline) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	height := 60

	rect := image.Rect(0, 0, gtx.Constraints.Max.X, height)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 35, G: 38, B: 42, A: 255}, clip.Rect(rect).Op())

	margin := 20
	trackY := height / 2
	trackHeight := 6
	trackWidth := gtx.Constraints.Max.X - 2*margin

	trackRect := image.Rect(margin, trackY-trackHeight/2, margin+trackWidth, trackY+trackHeight/2)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 60, G: 65, B: 70, A: 255}, clip.Rect(trackRect).Op())

	fill := color.NRGBA{R: 100, G: 180, B: 255, A: 255}
	if t.state.Runner.Done() {
		fill = color.NRGBA{R: 120, G: 220, B: 120, A: 255}
	}
	fillWidth := int(float64(trackWidth) * t.state.Progress())
	if fillWidth > 0 {
		fillRect := image.Rect(margin, trackY-trackHeight/2, margin+fillWidth, trackY+trackHeight/2)
		paint.FillShape(gtx.Ops, fill, clip.Rect(fillRect).Op())
	}

	playheadX := margin + fillWidth
	playheadSize := 12
	playheadRect := image.Rect(playheadX-playheadSize/2, trackY-playheadSize/2, playheadX+playheadSize/2, trackY+playheadSize/2)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, clip.Rect(playheadRect).Op())

	t.drawLabels(gtx, th)

	return layout.Dimensions{Size: image.Point{X: gtx.Constraints.Max.X, Y: height}}
}

func (t *Timeline) drawLabels(gtx layout.Context, th *material.Theme) {
	st := t.state
	status := fmt.Sprintf("%.1f ticks/s", st.Playback.Speed)
	if reason := st.Runner.EndReason(); reason != "" {
		status = "finished: " + reason
	} else if !st.Playback.Playing {
		status = "paused"
	}

	currentLabel := material.Label(th, 12, fmt.Sprintf("tick %d", st.Runner.Now()))
	currentLabel.Color = color.NRGBA{R: 200, G: 200, B: 200, A: 255}

	statusLabel := material.Label(th, 12, status)
	statusLabel.Color = color.NRGBA{R: 150, G: 180, B: 200, A: 255}

	maxLabel := material.Label(th, 12, fmt.Sprintf("%d", st.Runner.Config().TimeMax))
	maxLabel.Color = color.NRGBA{R: 150, G: 150, B: 150, A: 255}

	layout.Inset{Top: unit.Dp(4), Left: unit.Dp(20), Right: unit.Dp(20)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx,
			layout.Rigid(currentLabel.Layout),
			layout.Rigid(statusLabel.Layout),
			layout.Rigid(maxLabel.Layout),
		)
	})
}
