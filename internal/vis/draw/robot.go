package draw

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/vis/interact"
)

// Robot colors by type
var (
	ColorDrone         = color.NRGBA{R: 200, G: 100, B: 255, A: 255}
	ColorCaterpillar   = color.NRGBA{R: 255, G: 150, B: 100, A: 255}
	ColorWheel         = color.NRGBA{R: 100, G: 200, B: 255, A: 255}
	ColorExhausted     = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
	ColorRobotSelected = color.NRGBA{R: 255, G: 255, B: 100, A: 255}
	ColorEnergyBar     = color.NRGBA{R: 120, G: 220, B: 120, A: 255}
)

// RobotColor returns the color for a robot type.
func RobotColor(t core.RobotType) color.NRGBA {
	switch t {
	case core.Drone:
		return ColorDrone
	case core.Caterpillar:
		return ColorCaterpillar
	default:
		return ColorWheel
	}
}

// DrawRobot draws a robot in its cell. A moving robot is drawn part way
// toward its target; energy is shown as a bar under the body.
func DrawRobot(gtx layout.Context, r *core.Robot, camera *interact.Camera, selected bool, energyShare float32) {
	cx, cy := camera.CellCenter(r.Coord)
	if r.Status == core.Moving && r.Target != r.Coord {
		tx, ty := camera.CellCenter(r.Target)
		cx += (tx - cx) * 0.35
		cy += (ty - cy) * 0.35
	}
	size := camera.CellPixels() * 0.45

	col := RobotColor(r.Type)
	if r.Status == core.Exhausted {
		col = ColorExhausted
	}
	if selected {
		DrawCircleOutline(gtx, cx, cy, size, ColorRobotSelected, 2)
	}

	switch r.Type {
	case core.Drone:
		drawQuadcopter(gtx, cx, cy, size, col)
	case core.Caterpillar:
		drawRectangle(gtx, cx, cy, size*1.4, size*0.8, col)
	default:
		drawRectangle(gtx, cx, cy, size, size, col)
		drawFilledCircle(gtx, cx, cy, size*0.2, ColorUnknown)
	}
	if r.Status == core.Working {
		DrawCircleOutline(gtx, cx, cy, size*0.75, ColorTaskHeld, 2)
	}

	barW := size * 1.4
	share := min(max(energyShare, 0), 1)
	barY := cy + size*0.7
	drawSegment(gtx, cx-barW/2, barY, cx+barW/2, barY, 3, ColorGridLine)
	if share > 0 {
		drawSegment(gtx, cx-barW/2, barY, cx-barW/2+barW*share, barY, 3, ColorEnergyBar)
	}
}

func drawRectangle(gtx layout.Context, cx, cy, width, height float32, col color.NRGBA) {
	halfW := width / 2
	halfH := height / 2
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(cx-halfW, cy-halfH))
	path.LineTo(f32.Pt(cx+halfW, cy-halfH))
	path.LineTo(f32.Pt(cx+halfW, cy+halfH))
	path.LineTo(f32.Pt(cx-halfW, cy+halfH))
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func drawQuadcopter(gtx layout.Context, cx, cy, size float32, col color.NRGBA) {
	armLen := size * 0.5
	rotorR := size * 0.2

	for _, angle := range []float64{45, 135, 225, 315} {
		rad := angle * math.Pi / 180
		dx := float32(math.Cos(rad)) * armLen
		dy := float32(math.Sin(rad)) * armLen
		drawSegment(gtx, cx, cy, cx+dx, cy+dy, 2, col)
		drawFilledCircle(gtx, cx+dx, cy+dy, rotorR, col)
	}
	drawFilledCircle(gtx, cx, cy, size*0.2, col)
}

// DrawRobots draws every robot; exhausted ones first so active robots stay on top.
func DrawRobots(gtx layout.Context, robots []*core.Robot, camera *interact.Camera, selected core.RobotID, fullEnergy int) {
	for _, pass := range []bool{false, true} {
		for _, r := range robots {
			if r.Active() != pass {
				continue
			}
			share := float32(0)
			if fullEnergy > 0 {
				share = float32(r.Energy) / float32(fullEnergy)
			}
			DrawRobot(gtx, r, camera, r.ID == selected, share)
		}
	}
}

// HitRobot returns the active robot standing in cell c, preferring the lowest ID.
func HitRobot(robots []*core.Robot, c core.Coord) (*core.Robot, bool) {
	for _, r := range robots {
		if r.Active() && r.Coord == c {
			return r, true
		}
	}
	return nil, false
}
