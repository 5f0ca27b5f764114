package geom

// Point is a position in screen pixels.
type Point struct {
	X int
	Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect represents a position and size in screen pixels.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RectFromPoints returns the normalized rectangle spanned by two corners.
// The rectangle is inclusive of both corners, so a and b equal yields a 1x1 rect.
func RectFromPoints(a, b Point) Rect {
	x0, x1 := minmax(a.X, b.X)
	y0, y1 := minmax(a.Y, b.Y)
	return Rect{X: x0, Y: y0, Width: x1 - x0 + 1, Height: y1 - y0 + 1}
}

func minmax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

// Right returns the first x coordinate past the rectangle.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first y coordinate past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	if r.Empty() {
		return false
	}
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersects reports whether two rectangles share at least one pixel.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersect returns the overlapping area, or an empty Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.Right(), o.Right())
	y1 := max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Inset shrinks the rectangle by n on every side.
func (r Rect) Inset(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Translate moves the rectangle by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// ClampInside moves r so that it lies within bounds where possible. A rectangle
// larger than bounds is pinned to the bounds' top-left corner.
func (r Rect) ClampInside(bounds Rect) Rect {
	if r.Right() > bounds.Right() {
		r.X = bounds.Right() - r.Width
	}
	if r.Bottom() > bounds.Bottom() {
		r.Y = bounds.Bottom() - r.Height
	}
	if r.X < bounds.X {
		r.X = bounds.X
	}
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	return r
}
