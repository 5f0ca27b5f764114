// Package draw defines the drawing contract consumed by the compositor.
//
// Coordinates are screen pixels. Backends decide how pixels map onto their
// surface: the X11 backend draws them directly, the tcell backend rasterizes
// them onto character cells.
package draw

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/termdesk/internal/geom"
)

// Font metrics shared by every backend. Layout code sizes text with these so
// the model does not depend on a live backend.
const (
	GlyphWidth = 8
	LineHeight = 16
)

// Color is a 24-bit 0xRRGGBB value.
type Color uint32

// None is used as a text background to leave the existing pixels untouched.
const None Color = 0xFF000000

// RGB splits the color into its channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// String renders the color as #rrggbb.
func (c Color) String() string {
	if c == None {
		return "none"
	}
	return fmt.Sprintf("#%06x", uint32(c)&0xFFFFFF)
}

// Mix blends c toward o by pct percent (0-100).
func (c Color) Mix(o Color, pct int) Color {
	if pct <= 0 {
		return c
	}
	if pct >= 100 {
		return o
	}
	r1, g1, b1 := c.RGB()
	r2, g2, b2 := o.RGB()
	mix := func(a, b uint8) uint32 {
		return uint32((int(a)*(100-pct) + int(b)*pct) / 100)
	}
	return Color(mix(r1, r2)<<16 | mix(g1, g2)<<8 | mix(b1, b2))
}

// ParseColor accepts "#rrggbb", "rrggbb", or "none".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "none" {
		return None, nil
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("color %q must be #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return Color(v), nil
}

// Painter is the drawing backend. Every call draws immediately; the
// compositor calls these back to front, so later calls overwrite earlier ones.
type Painter interface {
	FillRect(r geom.Rect, c Color)
	DrawRect(r geom.Rect, c Color)
	HLine(x, y, w int, c Color)
	VLine(x, y, h int, c Color)
	Line(x0, y0, x1, y1 int, c Color)
	Text(x, y int, s string, fg, bg Color)
	Icon(x, y, id, size int)
	ScreenRect() geom.Rect
}

// TextWidth returns the rendered width of s in pixels.
func TextWidth(s string) int {
	return runewidth.StringWidth(s) * GlyphWidth
}

// Truncate shortens s so that it fits in width pixels, marking the cut with an
// ellipsis.
func Truncate(s string, width int) string {
	cols := width / GlyphWidth
	if cols <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= cols {
		return s
	}
	return runewidth.Truncate(s, cols, "…")
}
