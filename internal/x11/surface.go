// Package x11 runs the desktop as a top-level X11 window. Frames are drawn
// into a pixmap with core protocol requests and copied to the window on
// Present.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/geom"
)

// Font ascent used to place ImageText8 baselines inside a LineHeight row.
const textAscent = draw.LineHeight - 4

var fontNames = []string{"8x16", "9x15", "fixed"}

var _ draw.Painter = (*Surface)(nil)

// Options configure the desktop window.
type Options struct {
	Display    string
	Title      string
	Width      int
	Height     int
	Fullscreen bool
}

// Surface is a draw.Painter backed by an X11 window and a pixmap of the same
// size.
type Surface struct {
	conn *Connection
	opts Options

	win    *xwindow.Window
	pixmap xproto.Pixmap
	gc     xproto.Gcontext
	font   xproto.Font
	width  int
	height int

	fg, bg uint32

	pump *pump
}

// NewSurface prepares a surface; nothing is created on the server until Open.
func NewSurface(opts Options) *Surface {
	if opts.Title == "" {
		opts.Title = "termdesk"
	}
	return &Surface{opts: opts}
}

// Name identifies the backend.
func (s *Surface) Name() string { return "x11" }

// Open connects, creates the window, pixmap and GC, and maps the window.
func (s *Surface) Open() error {
	conn, err := NewConnection(s.opts.Display)
	if err != nil {
		return err
	}
	s.conn = conn
	xu := conn.XUtil

	if s.opts.Width <= 0 || s.opts.Height <= 0 {
		r, err := conn.PrimaryGeometry()
		if err != nil {
			conn.Close()
			return err
		}
		s.opts.Width, s.opts.Height = r.Width, r.Height
	}
	s.width, s.height = s.opts.Width, s.opts.Height

	win, err := xwindow.Generate(xu)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to allocate window id: %w", err)
	}
	err = win.CreateChecked(xu.RootWin(), 0, 0, s.width, s.height,
		xproto.CwBackPixel|xproto.CwEventMask,
		0,
		uint32(xproto.EventMaskExposure|xproto.EventMaskStructureNotify|
			xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|
			xproto.EventMaskPointerMotion|xproto.EventMaskKeyPress|xproto.EventMaskKeyRelease),
	)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create desktop window: %w", err)
	}
	s.win = win

	_ = ewmh.WmNameSet(xu, win.Id, s.opts.Title)
	_ = icccm.WmNameSet(xu, win.Id, s.opts.Title)
	_ = icccm.WmProtocolsSet(xu, win.Id, []string{"WM_DELETE_WINDOW"})
	_ = ewmh.WmWindowTypeSet(xu, win.Id, []string{"_NET_WM_WINDOW_TYPE_NORMAL"})
	if s.opts.Fullscreen {
		_ = ewmh.WmStateSet(xu, win.Id, []string{"_NET_WM_STATE_FULLSCREEN"})
	}

	if err := s.createGC(); err != nil {
		s.Close()
		return err
	}
	if err := s.createPixmap(); err != nil {
		s.Close()
		return err
	}

	s.pump = newPump(xu, win.Id)
	win.Map()
	return nil
}

func (s *Surface) createGC() error {
	c := s.conn.XUtil.Conn()

	font, err := xproto.NewFontId(c)
	if err != nil {
		return fmt.Errorf("failed to allocate font id: %w", err)
	}
	opened := false
	for _, name := range fontNames {
		if xproto.OpenFontChecked(c, font, uint16(len(name)), name).Check() == nil {
			opened = true
			break
		}
	}
	if !opened {
		return fmt.Errorf("no usable core font (tried %v)", fontNames)
	}
	s.font = font

	gc, err := xproto.NewGcontextId(c)
	if err != nil {
		return fmt.Errorf("failed to allocate gc id: %w", err)
	}
	err = xproto.CreateGCChecked(c, gc, xproto.Drawable(s.win.Id),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{0xffffff, 0, uint32(font), 0},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to create gc: %w", err)
	}
	s.gc = gc
	s.fg, s.bg = 0xffffff, 0
	return nil
}

func (s *Surface) createPixmap() error {
	c := s.conn.XUtil.Conn()
	pm, err := xproto.NewPixmapId(c)
	if err != nil {
		return fmt.Errorf("failed to allocate pixmap id: %w", err)
	}
	depth := s.conn.XUtil.Screen().RootDepth
	err = xproto.CreatePixmapChecked(c, depth, pm, xproto.Drawable(s.win.Id),
		uint16(max(1, s.width)), uint16(max(1, s.height))).Check()
	if err != nil {
		return fmt.Errorf("failed to create back buffer: %w", err)
	}
	s.pixmap = pm
	return nil
}

// Resize replaces the back buffer after the window changed size.
func (s *Surface) Resize(width, height int) error {
	if width == s.width && height == s.height {
		return nil
	}
	old := s.pixmap
	s.width, s.height = width, height
	if err := s.createPixmap(); err != nil {
		return err
	}
	if old != 0 {
		xproto.FreePixmap(s.conn.XUtil.Conn(), old)
	}
	return nil
}

// Close destroys the window and disconnects. Calling it twice is harmless.
func (s *Surface) Close() {
	if s.conn == nil {
		return
	}
	c := s.conn.XUtil.Conn()
	if s.pixmap != 0 {
		xproto.FreePixmap(c, s.pixmap)
	}
	if s.gc != 0 {
		xproto.FreeGC(c, s.gc)
	}
	if s.font != 0 {
		xproto.CloseFont(c, s.font)
	}
	if s.win != nil {
		s.win.Destroy()
	}
	s.conn.Close()
	s.conn = nil
}

// Present copies the back buffer onto the window.
func (s *Surface) Present() {
	c := s.conn.XUtil.Conn()
	xproto.CopyArea(c, xproto.Drawable(s.pixmap), xproto.Drawable(s.win.Id), s.gc,
		0, 0, 0, 0, uint16(s.width), uint16(s.height))
	c.Sync()
}

// ScreenRect is the window size.
func (s *Surface) ScreenRect() geom.Rect {
	return geom.Rect{Width: s.width, Height: s.height}
}

func (s *Surface) colors(fg, bg draw.Color) {
	f, b := uint32(fg)&0xffffff, uint32(bg)&0xffffff
	if f == s.fg && b == s.bg {
		return
	}
	xproto.ChangeGC(s.conn.XUtil.Conn(), s.gc, xproto.GcForeground|xproto.GcBackground, []uint32{f, b})
	s.fg, s.bg = f, b
}

func (s *Surface) drawable() xproto.Drawable { return xproto.Drawable(s.pixmap) }

func rectangle(r geom.Rect) xproto.Rectangle {
	return xproto.Rectangle{X: int16(r.X), Y: int16(r.Y), Width: uint16(r.Width), Height: uint16(r.Height)}
}

// FillRect paints r.
func (s *Surface) FillRect(r geom.Rect, c draw.Color) {
	if r.Empty() {
		return
	}
	s.colors(c, draw.Color(s.bg))
	xproto.PolyFillRectangle(s.conn.XUtil.Conn(), s.drawable(), s.gc, []xproto.Rectangle{rectangle(r)})
}

// DrawRect outlines r; the outline stays inside r.
func (s *Surface) DrawRect(r geom.Rect, c draw.Color) {
	if r.Empty() {
		return
	}
	s.colors(c, draw.Color(s.bg))
	inner := r
	inner.Width--
	inner.Height--
	xproto.PolyRectangle(s.conn.XUtil.Conn(), s.drawable(), s.gc, []xproto.Rectangle{rectangle(inner)})
}

// HLine draws w pixels to the right of x, y.
func (s *Surface) HLine(x, y, w int, c draw.Color) {
	if w <= 0 {
		return
	}
	s.Line(x, y, x+w-1, y, c)
}

// VLine draws h pixels below x, y.
func (s *Surface) VLine(x, y, h int, c draw.Color) {
	if h <= 0 {
		return
	}
	s.Line(x, y, x, y+h-1, c)
}

// Line draws a one pixel line between both endpoints.
func (s *Surface) Line(x0, y0, x1, y1 int, c draw.Color) {
	s.colors(c, draw.Color(s.bg))
	xproto.PolyLine(s.conn.XUtil.Conn(), xproto.CoordModeOrigin, s.drawable(), s.gc, []xproto.Point{
		{X: int16(x0), Y: int16(y0)},
		{X: int16(x1), Y: int16(y1)},
	})
}

// Text draws a line of Latin-1 text with its top-left corner at x, y.
func (s *Surface) Text(x, y int, text string, fg, bg draw.Color) {
	b := latin1(text)
	if len(b) == 0 {
		return
	}
	baseline := int16(y + textAscent)
	c := s.conn.XUtil.Conn()
	if bg == draw.None {
		s.colors(fg, draw.Color(s.bg))
		items := append([]byte{byte(len(b)), 0}, b...)
		xproto.PolyText8(c, s.drawable(), s.gc, int16(x), baseline, items)
		return
	}
	s.colors(fg, bg)
	xproto.ImageText8(c, byte(len(b)), s.drawable(), s.gc, int16(x), baseline, string(b))
}

// latin1 converts s for the core font, replacing runes it cannot show.
// Core text requests take at most 254 bytes per item.
func latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if len(out) == 254 {
			break
		}
		if r < 0x20 || r > 0xff {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return out
}

// Icon draws a colored tile with the icon glyph in the middle.
func (s *Surface) Icon(x, y, id, size int) {
	glyph, col := draw.IconLook(id)
	r := geom.Rect{X: x, Y: y, Width: size, Height: size}
	s.FillRect(r, col)
	s.DrawRect(r, col.Mix(0x000000, 40))
	gx := x + (size-draw.GlyphWidth)/2
	gy := y + (size-draw.LineHeight)/2
	s.Text(gx, gy, string(glyph), 0xeceff4, draw.None)
}
