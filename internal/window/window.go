package window

import (
	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/event"
	"github.com/1broseidon/termdesk/internal/geom"
)

// ID identifies a window. IDs come from a monotonic counter and are never
// reused, so a stale ID simply stops resolving.
type ID uint32

// Style is a bitmask of window behaviors.
type Style uint16

const (
	Resizable Style = 1 << iota
	Movable
	Minimizable
	Maximizable
	AlwaysOnTop
	Modal
	NoTitle
	NoClose

	// Default is the style of an ordinary application window.
	Default = Resizable | Movable | Minimizable | Maximizable
)

// Has reports whether every flag in f is set.
func (s Style) Has(f Style) bool { return s&f == f }

// Metrics are the frame dimensions shared by every window on a stack.
type Metrics struct {
	TitleBarHeight int
	BorderWidth    int
	MinWidth       int
	MinHeight      int
}

// DefaultMetrics matches the default config.
func DefaultMetrics() Metrics {
	return Metrics{TitleBarHeight: 16, BorderWidth: 1, MinWidth: 96, MinHeight: 48}
}

// Part names a region of a window frame for hit-testing.
type Part int

const (
	PartNone Part = iota
	PartClient
	PartTitle
	PartClose
	PartMaximize
	PartMinimize
	PartGrip
	PartBorder
)

func (p Part) String() string {
	switch p {
	case PartClient:
		return "client"
	case PartTitle:
		return "title"
	case PartClose:
		return "close"
	case PartMaximize:
		return "maximize"
	case PartMinimize:
		return "minimize"
	case PartGrip:
		return "grip"
	case PartBorder:
		return "border"
	default:
		return "none"
	}
}

// Handler receives window callbacks. The application that owns the window
// implements it; the stack and router only call into it.
type Handler interface {
	// Paint draws the client area. The painter is clipped to w.Client.
	Paint(w *Window, p draw.Painter)
	// Close asks the application whether the window may be destroyed.
	Close(w *Window) bool
	Resize(w *Window)
	Move(w *Window)
	// Mouse receives pointer events in client-relative coordinates.
	Mouse(w *Window, ev event.Mouse)
	Keyboard(w *Window, ev event.Keyboard)
	// RightClick receives client-relative coordinates.
	RightClick(w *Window, x, y int)
}

// HandlerFuncs adapts optional closures to Handler. Nil fields are no-ops and
// a nil OnClose allows the close.
type HandlerFuncs struct {
	OnPaint      func(w *Window, p draw.Painter)
	OnClose      func(w *Window) bool
	OnResize     func(w *Window)
	OnMove       func(w *Window)
	OnMouse      func(w *Window, ev event.Mouse)
	OnKeyboard   func(w *Window, ev event.Keyboard)
	OnRightClick func(w *Window, x, y int)
}

func (h HandlerFuncs) Paint(w *Window, p draw.Painter) {
	if h.OnPaint != nil {
		h.OnPaint(w, p)
	}
}

func (h HandlerFuncs) Close(w *Window) bool {
	if h.OnClose != nil {
		return h.OnClose(w)
	}
	return true
}

func (h HandlerFuncs) Resize(w *Window) {
	if h.OnResize != nil {
		h.OnResize(w)
	}
}

func (h HandlerFuncs) Move(w *Window) {
	if h.OnMove != nil {
		h.OnMove(w)
	}
}

func (h HandlerFuncs) Mouse(w *Window, ev event.Mouse) {
	if h.OnMouse != nil {
		h.OnMouse(w, ev)
	}
}

func (h HandlerFuncs) Keyboard(w *Window, ev event.Keyboard) {
	if h.OnKeyboard != nil {
		h.OnKeyboard(w, ev)
	}
}

func (h HandlerFuncs) RightClick(w *Window, x, y int) {
	if h.OnRightClick != nil {
		h.OnRightClick(w, x, y)
	}
}

// Window is one application surface.
type Window struct {
	ID    ID
	Title string
	// AppID is the launcher app that created the window, if any.
	AppID string

	Bounds  geom.Rect
	Client  geom.Rect
	Restore geom.Rect

	Visible   bool
	Minimized bool
	Maximized bool
	Dragging  bool
	Resizing  bool

	Style   Style
	Handler Handler

	metrics Metrics
}

// Viewable reports whether the window is on screen.
func (w *Window) Viewable() bool {
	return w.Visible && !w.Minimized
}

func (w *Window) layout() {
	w.Client = w.Bounds.Inset(w.metrics.BorderWidth)
	if !w.Style.Has(NoTitle) {
		w.Client.Y += w.metrics.TitleBarHeight
		w.Client.Height = max(0, w.Client.Height-w.metrics.TitleBarHeight)
	}
}

// TitleBar returns the title bar rect, or an empty rect for NoTitle windows.
func (w *Window) TitleBar() geom.Rect {
	if w.Style.Has(NoTitle) {
		return geom.Rect{}
	}
	b := w.metrics.BorderWidth
	return geom.Rect{
		X:      w.Bounds.X + b,
		Y:      w.Bounds.Y + b,
		Width:  max(0, w.Bounds.Width-2*b),
		Height: w.metrics.TitleBarHeight,
	}
}

// buttonRect returns the nth title bar button counted from the right edge.
func (w *Window) buttonRect(n int) geom.Rect {
	bar := w.TitleBar()
	if bar.Empty() {
		return geom.Rect{}
	}
	size := bar.Height
	return geom.Rect{X: bar.Right() - size*(n+1), Y: bar.Y, Width: size, Height: size}
}

// Buttons returns the visible title bar buttons in right-to-left order.
func (w *Window) Buttons() []Part {
	if w.Style.Has(NoTitle) {
		return nil
	}
	var parts []Part
	if !w.Style.Has(NoClose) {
		parts = append(parts, PartClose)
	}
	if w.Style.Has(Maximizable) {
		parts = append(parts, PartMaximize)
	}
	if w.Style.Has(Minimizable) {
		parts = append(parts, PartMinimize)
	}
	return parts
}

// ButtonRect returns the rect of a title bar button, or an empty rect when the
// window does not show it.
func (w *Window) ButtonRect(part Part) geom.Rect {
	for i, p := range w.Buttons() {
		if p == part {
			return w.buttonRect(i)
		}
	}
	return geom.Rect{}
}

// Grip returns the bottom-right resize handle.
func (w *Window) Grip() geom.Rect {
	if !w.Style.Has(Resizable) || w.Maximized {
		return geom.Rect{}
	}
	size := max(w.metrics.TitleBarHeight/2, 4)
	return geom.Rect{X: w.Bounds.Right() - size, Y: w.Bounds.Bottom() - size, Width: size, Height: size}
}

// HitTest classifies a screen point against the window frame.
func (w *Window) HitTest(x, y int) Part {
	if !w.Bounds.Contains(x, y) {
		return PartNone
	}
	for _, p := range w.Buttons() {
		if w.ButtonRect(p).Contains(x, y) {
			return p
		}
	}
	if w.Grip().Contains(x, y) {
		return PartGrip
	}
	if w.TitleBar().Contains(x, y) {
		return PartTitle
	}
	if w.Client.Contains(x, y) {
		return PartClient
	}
	return PartBorder
}

// ToClient converts screen coordinates to client-relative coordinates.
func (w *Window) ToClient(x, y int) (int, int) {
	return x - w.Client.X, y - w.Client.Y
}

// PaintClient runs the application's Paint callback.
func (w *Window) PaintClient(p draw.Painter) {
	if w.Handler != nil {
		w.Handler.Paint(w, p)
	}
}

// RequestClose asks the application whether the window may close.
func (w *Window) RequestClose() bool {
	if w.Handler == nil {
		return true
	}
	return w.Handler.Close(w)
}

// SendMouse forwards a screen-space event to the application in client
// coordinates.
func (w *Window) SendMouse(ev event.Mouse) {
	if w.Handler == nil {
		return
	}
	ev.X, ev.Y = w.ToClient(ev.X, ev.Y)
	w.Handler.Mouse(w, ev)
}

// SendKeyboard forwards a key event to the application.
func (w *Window) SendKeyboard(ev event.Keyboard) {
	if w.Handler != nil {
		w.Handler.Keyboard(w, ev)
	}
}

// SendRightClick forwards a screen-space right click in client coordinates.
func (w *Window) SendRightClick(x, y int) {
	if w.Handler == nil {
		return
	}
	cx, cy := w.ToClient(x, y)
	w.Handler.RightClick(w, cx, cy)
}
