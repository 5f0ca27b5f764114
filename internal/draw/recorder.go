package draw

import (
	"strings"

	"github.com/1broseidon/termdesk/internal/geom"
)

// OpKind identifies a recorded draw call.
type OpKind string

const (
	OpFill  OpKind = "fill"
	OpRect  OpKind = "rect"
	OpHLine OpKind = "hline"
	OpVLine OpKind = "vline"
	OpLine  OpKind = "line"
	OpText  OpKind = "text"
	OpIcon  OpKind = "icon"
)

// Op is one recorded draw call.
type Op struct {
	Kind OpKind
	Rect geom.Rect
	Text string
	FG   Color
	BG   Color
	Icon int
}

// Recorder is a Painter that keeps the draw calls of a frame in order.
type Recorder struct {
	Screen geom.Rect
	Ops    []Op
}

// NewRecorder returns a recorder for a screen of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Screen: geom.Rect{Width: width, Height: height}}
}

// Reset drops recorded ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

func (r *Recorder) FillRect(rect geom.Rect, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFill, Rect: rect, FG: c})
}

func (r *Recorder) DrawRect(rect geom.Rect, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, Rect: rect, FG: c})
}

func (r *Recorder) HLine(x, y, w int, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpHLine, Rect: geom.Rect{X: x, Y: y, Width: w, Height: 1}, FG: c})
}

func (r *Recorder) VLine(x, y, h int, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpVLine, Rect: geom.Rect{X: x, Y: y, Width: 1, Height: h}, FG: c})
}

func (r *Recorder) Line(x0, y0, x1, y1 int, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Rect: geom.RectFromPoints(geom.Point{X: x0, Y: y0}, geom.Point{X: x1, Y: y1}), FG: c})
}

func (r *Recorder) Text(x, y int, s string, fg, bg Color) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Rect: geom.Rect{X: x, Y: y, Width: TextWidth(s), Height: LineHeight}, Text: s, FG: fg, BG: bg})
}

func (r *Recorder) Icon(x, y, id, size int) {
	r.Ops = append(r.Ops, Op{Kind: OpIcon, Rect: geom.Rect{X: x, Y: y, Width: size, Height: size}, Icon: id})
}

func (r *Recorder) ScreenRect() geom.Rect { return r.Screen }

// IndexOfText returns the position of the first text op containing s, or -1.
func (r *Recorder) IndexOfText(s string) int {
	for i, op := range r.Ops {
		if op.Kind == OpText && strings.Contains(op.Text, s) {
			return i
		}
	}
	return -1
}

// Texts returns every drawn string in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}
