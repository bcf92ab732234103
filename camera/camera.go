// Package camera maps grid coordinates to screen pixels.
package camera

import "math"

// Camera is a pan/zoom viewport over the square domain [0, Domain]².
// Grid y points up; screen y points down.
type Camera struct {
	// Centre of the view in grid units
	X, Y float32

	// Zoom multiplies the fitted scale (1.0 = whole domain visible)
	Zoom float32

	ViewportW, ViewportH float32

	Domain float32

	MinZoom, MaxZoom float32
}

// New creates a camera that fits the whole domain in the viewport.
func New(viewportW, viewportH, domain float32) *Camera {
	return &Camera{
		X:         domain / 2,
		Y:         domain / 2,
		Zoom:      1,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Domain:    domain,
		MinZoom:   1,
		MaxZoom:   16,
	}
}

// Scale returns pixels per grid unit at the current zoom.
func (c *Camera) Scale() float32 {
	return min(c.ViewportW, c.ViewportH) / c.Domain * c.Zoom
}

// WorldToScreen converts grid coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.Scale()
	sx = c.ViewportW/2 + (wx-c.X)*s
	sy = c.ViewportH/2 - (wy-c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to grid coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.Scale()
	wx = c.X + (sx-c.ViewportW/2)/s
	wy = c.Y - (sy-c.ViewportH/2)/s
	return wx, wy
}

// IsVisible reports whether a circle at (wx, wy) could be on screen.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return wx+radius >= minX && wx-radius <= maxX &&
		wy+radius >= minY && wy-radius <= maxY
}

// Resize updates the viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.clampCentre()
}

// Pan moves the camera by a screen-pixel delta. Dragging down moves the view down.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X += dx / s
	c.Y -= dy / s
	c.clampCentre()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCentre()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the fitted view.
func (c *Camera) Reset() {
	c.X = c.Domain / 2
	c.Y = c.Domain / 2
	c.Zoom = 1
}

// VisibleWorldBounds returns the grid-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	s := c.Scale()
	halfW := c.ViewportW / (2 * s)
	halfH := c.ViewportH / (2 * s)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// VisibleCells returns the inclusive cell range overlapping the view,
// limited to [0, Domain).
func (c *Camera) VisibleCells() (x0, y0, x1, y1 int) {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	last := int(c.Domain) - 1
	x0 = clampInt(int(math.Floor(float64(minX))), 0, last)
	y0 = clampInt(int(math.Floor(float64(minY))), 0, last)
	x1 = clampInt(int(math.Floor(float64(maxX))), 0, last)
	y1 = clampInt(int(math.Floor(float64(maxY))), 0, last)
	return
}

// clampCentre keeps the view inside the domain along any axis where the
// visible extent is smaller than the domain, and centres it otherwise.
func (c *Camera) clampCentre() {
	s := c.Scale()
	c.X = clampAxis(c.X, c.ViewportW/(2*s), c.Domain)
	c.Y = clampAxis(c.Y, c.ViewportH/(2*s), c.Domain)
}

func clampAxis(centre, half, domain float32) float32 {
	if 2*half >= domain {
		return domain / 2
	}
	return clamp(centre, half, domain-half)
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
