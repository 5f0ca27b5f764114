package draw

import "github.com/1broseidon/termdesk/internal/geom"

// Clip returns a painter that drops everything outside r.
func Clip(p Painter, r geom.Rect) Painter {
	return &clipped{p: p, r: r}
}

type clipped struct {
	p Painter
	r geom.Rect
}

func (c *clipped) FillRect(r geom.Rect, col Color) {
	if r = r.Intersect(c.r); !r.Empty() {
		c.p.FillRect(r, col)
	}
}

func (c *clipped) DrawRect(r geom.Rect, col Color) {
	if r.Empty() {
		return
	}
	c.HLine(r.X, r.Y, r.Width, col)
	c.HLine(r.X, r.Bottom()-1, r.Width, col)
	c.VLine(r.X, r.Y, r.Height, col)
	c.VLine(r.Right()-1, r.Y, r.Height, col)
}

func (c *clipped) HLine(x, y, w int, col Color) {
	if r := (geom.Rect{X: x, Y: y, Width: w, Height: 1}).Intersect(c.r); !r.Empty() {
		c.p.HLine(r.X, r.Y, r.Width, col)
	}
}

func (c *clipped) VLine(x, y, h int, col Color) {
	if r := (geom.Rect{X: x, Y: y, Width: 1, Height: h}).Intersect(c.r); !r.Empty() {
		c.p.VLine(r.X, r.Y, r.Height, col)
	}
}

// Line is kept only when both ends are inside the clip.
func (c *clipped) Line(x0, y0, x1, y1 int, col Color) {
	if c.r.Contains(x0, y0) && c.r.Contains(x1, y1) {
		c.p.Line(x0, y0, x1, y1, col)
	}
}

func (c *clipped) Text(x, y int, s string, fg, bg Color) {
	if y < c.r.Y || y+LineHeight > c.r.Bottom() || x >= c.r.Right() {
		return
	}
	if x < c.r.X {
		return
	}
	c.p.Text(x, y, Truncate(s, c.r.Right()-x), fg, bg)
}

func (c *clipped) Icon(x, y, id, size int) {
	if c.r.Contains(x, y) && c.r.Contains(x+size-1, y+size-1) {
		c.p.Icon(x, y, id, size)
	}
}

// ScreenRect reports the clip rect so callers lay out inside it.
func (c *clipped) ScreenRect() geom.Rect { return c.r }
