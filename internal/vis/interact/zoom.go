// Package interact handles pan, zoom and cell picking on the grid view.
package interact

import (
	"math"

	"gioui.org/io/pointer"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
)

// CellSize is the side of one grid cell in world units at zoom 1.
const CellSize = 32

const (
	minZoom    = 0.1
	maxZoom    = 10
	zoomFactor = 1.1
)

// Camera maps grid cells to screen pixels. Grid y grows upward, screen y
// grows downward.
type Camera struct {
	OffsetX float32 // Pan offset in screen pixels
	OffsetY float32
	Zoom    float32 // 1.0 = 100%

	// Rows in the grid, needed to flip y.
	Rows int

	dragging     bool
	lastX, lastY float32
}

// NewCamera creates a camera for a grid with the given number of rows.
func NewCamera(rows int) *Camera {
	c := &Camera{Rows: rows}
	c.Reset()
	return c
}

// Reset restores the default view.
func (c *Camera) Reset() {
	c.OffsetX = 20
	c.OffsetY = 20
	c.Zoom = 1.0
}

// WorldToScreen converts world units (y already flipped) to screen pixels.
func (c *Camera) WorldToScreen(worldX, worldY float64) (screenX, screenY float32) {
	screenX = float32(worldX)*c.Zoom + c.OffsetX
	screenY = float32(worldY)*c.Zoom + c.OffsetY
	return
}

// ScreenToWorld converts screen pixels to world units.
func (c *Camera) ScreenToWorld(screenX, screenY float32) (worldX, worldY float64) {
	worldX = float64((screenX - c.OffsetX) / c.Zoom)
	worldY = float64((screenY - c.OffsetY) / c.Zoom)
	return
}

// CellOrigin returns the screen position of the top left corner of cell g.
func (c *Camera) CellOrigin(g core.Coord) (x, y float32) {
	return c.WorldToScreen(float64(g.X*CellSize), float64((c.Rows-1-g.Y)*CellSize))
}

// CellCenter returns the screen position of the center of cell g.
func (c *Camera) CellCenter(g core.Coord) (x, y float32) {
	return c.WorldToScreen(float64(g.X*CellSize)+CellSize/2, float64((c.Rows-1-g.Y)*CellSize)+CellSize/2)
}

// CellPixels is the on-screen side of a cell.
func (c *Camera) CellPixels() float32 {
	return CellSize * c.Zoom
}

// ScreenToCell returns the cell under a screen point. It may lie outside the grid.
func (c *Camera) ScreenToCell(screenX, screenY float32) core.Coord {
	wx, wy := c.ScreenToWorld(screenX, screenY)
	col := int(math.Floor(wx / CellSize))
	row := int(math.Floor(wy / CellSize))
	return core.Coord{X: col, Y: c.Rows - 1 - row}
}

// HandleEvent pans on secondary or middle drag and zooms on scroll.
func (c *Camera) HandleEvent(ev pointer.Event) {
	switch ev.Kind {
	case pointer.Press:
		c.dragging = ev.Buttons.Contain(pointer.ButtonSecondary) || ev.Buttons.Contain(pointer.ButtonTertiary)
		c.lastX, c.lastY = ev.Position.X, ev.Position.Y

	case pointer.Drag:
		if c.dragging {
			c.Pan(ev.Position.X-c.lastX, ev.Position.Y-c.lastY)
		}
		c.lastX, c.lastY = ev.Position.X, ev.Position.Y

	case pointer.Release:
		c.dragging = false

	case pointer.Scroll:
		switch {
		case ev.Scroll.Y > 0:
			c.ZoomBy(1/zoomFactor, ev.Position.X, ev.Position.Y)
		case ev.Scroll.Y < 0:
			c.ZoomBy(zoomFactor, ev.Position.X, ev.Position.Y)
		}
	}
}

// Pan moves the view by a screen delta.
func (c *Camera) Pan(dx, dy float32) {
	c.OffsetX += dx
	c.OffsetY += dy
}

// ZoomBy scales the view around a screen point, keeping that point fixed.
func (c *Camera) ZoomBy(factor float32, centerX, centerY float32) {
	worldX, worldY := c.ScreenToWorld(centerX, centerY)
	c.Zoom = clampZoom(c.Zoom * factor)
	newX, newY := c.WorldToScreen(worldX, worldY)
	c.OffsetX += centerX - newX
	c.OffsetY += centerY - newY
}

// FitGrid zooms and centers so the whole grid fits the screen with a margin.
func (c *Camera) FitGrid(cols int, screenWidth, screenHeight, margin float32) {
	worldW := float32(cols * CellSize)
	worldH := float32(c.Rows * CellSize)
	if worldW <= 0 || worldH <= 0 {
		return
	}
	c.Zoom = clampZoom(min((screenWidth-2*margin)/worldW, (screenHeight-2*margin)/worldH))
	c.OffsetX = screenWidth/2 - worldW/2*c.Zoom
	c.OffsetY = screenHeight/2 - worldH/2*c.Zoom
}

func clampZoom(z float32) float32 {
	return min(max(z, minZoom), maxZoom)
}
