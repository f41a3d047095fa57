package draw

import (
	"image/color"

	"gioui.org/layout"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
	"github.com/elektrokombinacija/fleet-explore/internal/vis/interact"
)

// DrawTrail draws a fading line through the cells a robot visited, oldest first.
func DrawTrail(gtx layout.Context, cells []core.Coord, camera *interact.Camera, base color.NRGBA, maxWidth float32) {
	n := len(cells)
	if n < 2 {
		return
	}
	for i := 0; i < n-1; i++ {
		col := base
		col.A = uint8(40 + float32(i)/float32(n)*140)
		w := maxWidth * camera.Zoom * (0.3 + 0.7*float32(i)/float32(n))

		x1, y1 := camera.CellCenter(cells[i])
		x2, y2 := camera.CellCenter(cells[i+1])
		drawSegment(gtx, x1, y1, x2, y2, w, col)
	}
}

// DrawFlash highlights cells whose knowledge changed on the last tick.
func DrawFlash(gtx layout.Context, cells []core.Coord, camera *interact.Camera) {
	for _, c := range cells {
		FillCell(gtx, c, camera, ColorFlash)
	}
}
