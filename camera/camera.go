// Package camera maps screen pixels onto the canvas in view coordinates, with
// zoom and pan. The canvas is bounded: panning stops at its edges.
package camera

// Camera controls the viewport onto the canvas.
type Camera struct {
	// Position is the viewport center in canvas view coordinates
	X, Y float32

	// Zoom is screen pixels per view unit
	Zoom float32

	// Screen area the canvas is drawn into
	ViewportW, ViewportH float32

	// Canvas dimensions in view coordinates
	CanvasW, CanvasH float32

	// FitZoom shows the whole canvas; MinZoom and MaxZoom are relative to it
	FitZoom          float32
	MinZoom, MaxZoom float32
}

// New creates a camera that fits the whole canvas into the viewport.
func New(viewportW, viewportH, canvasW, canvasH float32) *Camera {
	c := &Camera{
		CanvasW: canvasW,
		CanvasH: canvasH,
	}
	c.Resize(viewportW, viewportH)
	c.Reset()
	return c
}

// fit returns the zoom at which the canvas just fits the viewport.
func (c *Camera) fit() float32 {
	zx := c.ViewportW / c.CanvasW
	zy := c.ViewportH / c.CanvasH
	if zy < zx {
		return zy
	}
	return zx
}

// CanvasToScreen converts canvas view coordinates to screen coordinates.
func (c *Camera) CanvasToScreen(vx, vy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (vx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (vy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToCanvas converts screen coordinates to canvas view coordinates.
// The result may lie outside the canvas; see Contains.
func (c *Camera) ScreenToCanvas(sx, sy float32) (vx, vy float32) {
	vx = c.X + (sx-c.ViewportW/2)/c.Zoom
	vy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return vx, vy
}

// Contains reports whether a view coordinate lies on the canvas.
func (c *Camera) Contains(vx, vy float32) bool {
	return vx >= 0 && vy >= 0 && vx < c.CanvasW && vy < c.CanvasH
}

// ScreenRect returns where the canvas lands on screen as x, y, width, height.
func (c *Camera) ScreenRect() (x, y, w, h float32) {
	x, y = c.CanvasToScreen(0, 0)
	return x, y, c.CanvasW * c.Zoom, c.CanvasH * c.Zoom
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.FitZoom = c.fit()
	c.MinZoom = c.FitZoom
	c.MaxZoom = c.FitZoom * 8
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor while keeping the canvas point under (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	vx, vy := c.ScreenToCanvas(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	c.X = vx - (sx-c.ViewportW/2)/c.Zoom
	c.Y = vy - (sy-c.ViewportH/2)/c.Zoom
	c.clampCenter()
}

// Reset shows the whole canvas, centered.
func (c *Camera) Reset() {
	c.X = c.CanvasW / 2
	c.Y = c.CanvasH / 2
	c.Zoom = c.FitZoom
}

// VisibleBounds returns the canvas-coordinate bounds of the visible area.
func (c *Camera) VisibleBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCenter keeps the canvas covering the viewport along every axis where it is
// larger than the viewport, and centered along the others.
func (c *Camera) clampCenter() {
	c.X = clampAxis(c.X, c.ViewportW/(2*c.Zoom), c.CanvasW)
	c.Y = clampAxis(c.Y, c.ViewportH/(2*c.Zoom), c.CanvasH)
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
