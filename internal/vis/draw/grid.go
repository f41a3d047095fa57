// Package draw renders grid cells, tasks, robots and trails with Gio.
package draw

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/vis/interact"
)

// Cell colors
var (
	ColorUnknown  = color.NRGBA{R: 18, G: 20, B: 24, A: 255}
	ColorWall     = color.NRGBA{R: 95, G: 100, B: 110, A: 255}
	ColorCheap    = color.NRGBA{R: 52, G: 70, B: 58, A: 255}
	ColorCostly   = color.NRGBA{R: 92, G: 64, B: 44, A: 255}
	ColorGridLine = color.NRGBA{R: 40, G: 45, B: 50, A: 255}
	ColorFog      = color.NRGBA{R: 0, G: 0, B: 0, A: 110} // Over cells the fleet has not seen
	ColorTask     = color.NRGBA{R: 255, G: 190, B: 70, A: 255}
	ColorTaskHeld = color.NRGBA{R: 120, G: 220, B: 120, A: 255}
	ColorFlash    = color.NRGBA{R: 255, G: 255, B: 255, A: 60}
)

// CellColor picks the fill of a cell holding obj with terrain cost for the
// displayed robot type. Costs are shaded between ColorCheap and ColorCostly
// relative to maxCost.
func CellColor(obj core.Object, cost, maxCost int) color.NRGBA {
	switch {
	case obj.Has(core.Unknown):
		return ColorUnknown
	case obj.Has(core.Wall), cost >= core.Impassable:
		return ColorWall
	}
	t := float32(0)
	if maxCost > 0 {
		t = min(max(float32(cost)/float32(maxCost), 0), 1)
	}
	return Lerp(ColorCheap, ColorCostly, t)
}

// Lerp blends a toward b by t in [0, 1].
func Lerp(a, b color.NRGBA, t float32) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// FillCell paints one cell, leaving a one pixel gap for grid lines.
func FillCell(gtx layout.Context, c core.Coord, camera *interact.Camera, col color.NRGBA) {
	x, y := camera.CellOrigin(c)
	side := camera.CellPixels()
	rect := image.Rect(int(x)+1, int(y)+1, int(x+side), int(y+side))
	paint.FillShape(gtx.Ops, col, clip.Rect(rect).Op())
}

// DrawGridFrame paints the background behind a cols x rows grid so the gaps
// between cells read as lines.
func DrawGridFrame(gtx layout.Context, cols, rows int, camera *interact.Camera) {
	x0, y0 := camera.CellOrigin(core.Coord{X: 0, Y: rows - 1})
	x1, y1 := camera.CellOrigin(core.Coord{X: cols - 1, Y: 0})
	side := camera.CellPixels()
	rect := image.Rect(int(x0), int(y0), int(x1+side)+1, int(y1+side)+1)
	paint.FillShape(gtx.Ops, ColorGridLine, clip.Rect(rect).Op())
}

// DrawTask marks a task as a diamond; held tasks are drawn green.
func DrawTask(gtx layout.Context, t *core.Task, camera *interact.Camera) {
	cx, cy := camera.CellCenter(t.Coord)
	r := camera.CellPixels() * 0.3
	col := ColorTask
	if t.Assigned() {
		col = ColorTaskHeld
	}

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(cx, cy-r))
	path.LineTo(f32.Pt(cx+r, cy))
	path.LineTo(f32.Pt(cx, cy+r))
	path.LineTo(f32.Pt(cx-r, cy))
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

// DrawCircleOutline draws a ring of the given stroke width.
func DrawCircleOutline(gtx layout.Context, centerX, centerY float32, radius float32, col color.NRGBA, strokeWidth float32) {
	const segments = 24
	var path clip.Path
	path.Begin(gtx.Ops)
	ring := func(r float32) {
		path.MoveTo(f32.Pt(centerX+r, centerY))
		for i := 1; i <= segments; i++ {
			angle := float64(i) * 2 * math.Pi / segments
			path.LineTo(f32.Pt(centerX+r*float32(math.Cos(angle)), centerY+r*float32(math.Sin(angle))))
		}
		path.Close()
	}
	ring(radius)
	ring(max(radius-strokeWidth, 0))
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func drawFilledCircle(gtx layout.Context, cx, cy, radius float32, col color.NRGBA) {
	const segments = 12
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(cx+radius, cy))
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / segments
		path.LineTo(f32.Pt(cx+radius*float32(math.Cos(angle)), cy+radius*float32(math.Sin(angle))))
	}
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

// drawSegment draws a thick line as a quad.
func drawSegment(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(x1+px, y1+py))
	path.LineTo(f32.Pt(x2+px, y2+py))
	path.LineTo(f32.Pt(x2-px, y2-py))
	path.LineTo(f32.Pt(x1-px, y1-py))
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}
