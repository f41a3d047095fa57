package interact

import (
	"testing"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"github.com/stretchr/testify/assert"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
)

func TestCellMappingFlipsY(t *testing.T) {
	c := NewCamera(10)
	c.OffsetX, c.OffsetY, c.Zoom = 0, 0, 1

	x, y := c.CellOrigin(core.Coord{X: 0, Y: 9})
	assert.Equal(t, float32(0), x)
	assert.Equal(t, float32(0), y, "the top row is y = rows-1")

	x, y = c.CellOrigin(core.Coord{X: 2, Y: 0})
	assert.Equal(t, float32(2*CellSize), x)
	assert.Equal(t, float32(9*CellSize), y)

	x, y = c.CellCenter(core.Coord{X: 0, Y: 9})
	assert.Equal(t, float32(CellSize/2), x)
	assert.Equal(t, float32(CellSize/2), y)
}

func TestScreenToCellRoundTrip(t *testing.T) {
	c := NewCamera(8)
	c.Zoom = 1.7
	for _, g := range []core.Coord{{X: 0, Y: 0}, {X: 7, Y: 7}, {X: 3, Y: 5}} {
		x, y := c.CellCenter(g)
		assert.Equal(t, g, c.ScreenToCell(x, y))
	}
	assert.Equal(t, core.Coord{X: -1, Y: 8}, c.ScreenToCell(c.OffsetX-1, c.OffsetY-1))
}

func TestZoomKeepsPointFixed(t *testing.T) {
	c := NewCamera(5)
	wx, wy := c.ScreenToWorld(200, 150)
	c.ZoomBy(2, 200, 150)
	assert.Equal(t, float32(2), c.Zoom)
	sx, sy := c.WorldToScreen(wx, wy)
	assert.InDelta(t, 200, sx, 1e-3)
	assert.InDelta(t, 150, sy, 1e-3)

	c.ZoomBy(1000, 0, 0)
	assert.Equal(t, float32(maxZoom), c.Zoom)
	c.ZoomBy(0, 0, 0)
	assert.Equal(t, float32(minZoom), c.Zoom)
}

func TestFitGrid(t *testing.T) {
	c := NewCamera(10)
	c.FitGrid(10, 660, 400, 20)
	assert.InDelta(t, 360.0/320.0, c.Zoom, 1e-6)
	x, _ := c.CellOrigin(core.Coord{X: 0, Y: 9})
	assert.InDelta(t, 150, x, 1e-3)
}

func TestDragPans(t *testing.T) {
	c := NewCamera(4)
	c.HandleEvent(pointer.Event{Kind: pointer.Press, Buttons: pointer.ButtonSecondary, Position: f32.Pt(10, 10)})
	c.HandleEvent(pointer.Event{Kind: pointer.Drag, Buttons: pointer.ButtonSecondary, Position: f32.Pt(25, 5)})
	c.HandleEvent(pointer.Event{Kind: pointer.Release, Position: f32.Pt(25, 5)})
	assert.Equal(t, float32(35), c.OffsetX)
	assert.Equal(t, float32(15), c.OffsetY)

	c.HandleEvent(pointer.Event{Kind: pointer.Press, Buttons: pointer.ButtonPrimary, Position: f32.Pt(0, 0)})
	c.HandleEvent(pointer.Event{Kind: pointer.Drag, Buttons: pointer.ButtonPrimary, Position: f32.Pt(50, 50)})
	assert.Equal(t, float32(35), c.OffsetX, "primary drag does not pan")
}

func TestScrollZooms(t *testing.T) {
	c := NewCamera(4)
	c.HandleEvent(pointer.Event{Kind: pointer.Scroll, Scroll: f32.Pt(0, -1), Position: f32.Pt(50, 50)})
	assert.InDelta(t, zoomFactor, c.Zoom, 1e-6)
	c.HandleEvent(pointer.Event{Kind: pointer.Scroll, Scroll: f32.Pt(0, 1), Position: f32.Pt(50, 50)})
	assert.InDelta(t, 1.0, c.Zoom, 1e-6)
}
