// Package cellscreen runs the desktop inside a terminal. It rasterizes the
// compositor's pixel coordinates onto character cells of a tcell.Screen and
// turns tcell events back into pixel-space input.
package cellscreen

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/event"
	"github.com/1broseidon/termdesk/internal/geom"
)

const iconText draw.Color = 0xeceff4

var _ draw.Painter = (*Screen)(nil)

// Screen is a draw.Painter over a tcell.Screen. Each cell stands for a
// CellWidth x CellHeight block of pixels.
type Screen struct {
	scr        tcell.Screen
	cellWidth  int
	cellHeight int

	buttons tcell.ButtonMask
}

// New wraps scr. The screen is not initialized until Open.
func New(scr tcell.Screen, cellWidth, cellHeight int) *Screen {
	return &Screen{
		scr:        scr,
		cellWidth:  max(1, cellWidth),
		cellHeight: max(1, cellHeight),
	}
}

// NewTerminal opens the controlling terminal.
func NewTerminal(cellWidth, cellHeight int) (*Screen, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal screen: %w", err)
	}
	return New(scr, cellWidth, cellHeight), nil
}

// Open initializes the terminal and enables mouse reporting.
func (s *Screen) Open() error {
	if err := s.scr.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	s.scr.SetStyle(tcell.StyleDefault)
	s.scr.EnableMouse()
	s.scr.HideCursor()
	s.scr.Clear()
	return nil
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.scr.Fini()
}

// Name identifies the backend.
func (s *Screen) Name() string { return "tcell" }

// Present flushes the frame to the terminal.
func (s *Screen) Present() {
	s.scr.Show()
}

// ScreenRect is the terminal size in pixels.
func (s *Screen) ScreenRect() geom.Rect {
	cols, rows := s.scr.Size()
	return geom.Rect{Width: cols * s.cellWidth, Height: rows * s.cellHeight}
}

// Cell returns the cell containing pixel x, y.
func (s *Screen) Cell(x, y int) (col, row int) {
	return floorDiv(x, s.cellWidth), floorDiv(y, s.cellHeight)
}

// Pixel returns the pixel at the center of a cell.
func (s *Screen) Pixel(col, row int) (x, y int) {
	return col*s.cellWidth + s.cellWidth/2, row*s.cellHeight + s.cellHeight/2
}

// cells returns the half-open cell ranges whose centers lie inside r.
func (s *Screen) cells(r geom.Rect) (c0, r0, c1, r1 int) {
	cols, rows := s.scr.Size()
	c0 = max(0, ceilDiv(r.X-s.cellWidth/2, s.cellWidth))
	c1 = min(cols, ceilDiv(r.Right()-s.cellWidth/2, s.cellWidth))
	r0 = max(0, ceilDiv(r.Y-s.cellHeight/2, s.cellHeight))
	r1 = min(rows, ceilDiv(r.Bottom()-s.cellHeight/2, s.cellHeight))
	return
}

func (s *Screen) inside(col, row int) bool {
	cols, rows := s.scr.Size()
	return col >= 0 && row >= 0 && col < cols && row < rows
}

func rgb(c draw.Color) tcell.Color {
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// background reads the background already painted at a cell.
func (s *Screen) background(col, row int) tcell.Color {
	_, _, st, _ := s.scr.GetContent(col, row)
	_, bg, _ := st.Decompose()
	return bg
}

func (s *Screen) put(col, row int, ch rune, fg draw.Color, bg tcell.Color) {
	if !s.inside(col, row) {
		return
	}
	s.scr.SetContent(col, row, ch, nil, tcell.StyleDefault.Foreground(rgb(fg)).Background(bg))
}

// stroke draws a line glyph over whatever background a cell already has.
func (s *Screen) stroke(col, row int, ch rune, c draw.Color) {
	if !s.inside(col, row) {
		return
	}
	s.put(col, row, ch, c, s.background(col, row))
}

// FillRect paints every cell whose center lies in r.
func (s *Screen) FillRect(r geom.Rect, c draw.Color) {
	if r.Empty() {
		return
	}
	c0, r0, c1, r1 := s.cells(r)
	bg := rgb(c)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			s.scr.SetContent(col, row, ' ', nil, tcell.StyleDefault.Background(bg))
		}
	}
}

// DrawRect outlines r with box-drawing characters.
func (s *Screen) DrawRect(r geom.Rect, c draw.Color) {
	if r.Empty() {
		return
	}
	left, top := s.Cell(r.X, r.Y)
	right, bottom := s.Cell(r.Right()-1, r.Bottom()-1)
	switch {
	case top == bottom:
		for col := left; col <= right; col++ {
			s.stroke(col, top, '─', c)
		}
		return
	case left == right:
		for row := top; row <= bottom; row++ {
			s.stroke(left, row, '│', c)
		}
		return
	}
	for col := left + 1; col < right; col++ {
		s.stroke(col, top, '─', c)
		s.stroke(col, bottom, '─', c)
	}
	for row := top + 1; row < bottom; row++ {
		s.stroke(left, row, '│', c)
		s.stroke(right, row, '│', c)
	}
	s.stroke(left, top, '┌', c)
	s.stroke(right, top, '┐', c)
	s.stroke(left, bottom, '└', c)
	s.stroke(right, bottom, '┘', c)
}

// HLine draws a horizontal rule through the cells the line crosses.
func (s *Screen) HLine(x, y, w int, c draw.Color) {
	if w <= 0 {
		return
	}
	c0, row := s.Cell(x, y)
	c1, _ := s.Cell(x+w-1, y)
	for col := c0; col <= c1; col++ {
		s.stroke(col, row, '─', c)
	}
}

// VLine draws a vertical rule through the cells the line crosses.
func (s *Screen) VLine(x, y, h int, c draw.Color) {
	if h <= 0 {
		return
	}
	col, r0 := s.Cell(x, y)
	_, r1 := s.Cell(x, y+h-1)
	for row := r0; row <= r1; row++ {
		s.stroke(col, row, '│', c)
	}
}

// Line walks the cells between the endpoints with Bresenham's algorithm.
func (s *Screen) Line(x0, y0, x1, y1 int, c draw.Color) {
	ch := lineGlyph(x1-x0, y1-y0)
	col, row := s.Cell(x0, y0)
	endCol, endRow := s.Cell(x1, y1)
	dx, dy := abs(endCol-col), -abs(endRow-row)
	sx, sy := sign(endCol-col), sign(endRow-row)
	e := dx + dy
	for {
		s.stroke(col, row, ch, c)
		if col == endCol && row == endRow {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			col += sx
		}
		if e2 <= dx {
			e += dx
			row += sy
		}
	}
}

func lineGlyph(dx, dy int) rune {
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

// Text writes s starting in the cell at x and the row whose center is closest
// to the middle of the text line.
func (s *Screen) Text(x, y int, text string, fg, bg draw.Color) {
	row := floorDiv(y+draw.LineHeight/2, s.cellHeight)
	col := floorDiv(x, s.cellWidth)
	cols, rows := s.scr.Size()
	if row < 0 || row >= rows {
		return
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > cols {
			return
		}
		if col >= 0 {
			back := rgb(bg)
			if bg == draw.None {
				back = s.background(col, row)
			}
			s.put(col, row, r, fg, back)
		}
		col += w
	}
}

// Icon fills the icon's cells with its color and puts its glyph in the middle.
func (s *Screen) Icon(x, y, id, size int) {
	glyph, col := draw.IconLook(id)
	r := geom.Rect{X: x, Y: y, Width: size, Height: size}
	s.FillRect(r, col)
	cx, cy := s.Cell(x+size/2, y+size/2)
	s.put(cx, cy, glyph, iconText, rgb(col))
}

// Translate converts a tcell event into desktop input. ok is false for events
// the desktop does not care about.
func (s *Screen) Translate(ev tcell.Event) (in event.Input, ok bool) {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		m, ok := s.translateMouse(ev)
		return event.Input{Kind: event.InputMouse, Mouse: m}, ok
	case *tcell.EventKey:
		if isQuit(ev) {
			return event.Input{Kind: event.InputQuit}, true
		}
		k, ok := translateKey(ev)
		return event.Input{Kind: event.InputKey, Key: k}, ok
	case *tcell.EventResize:
		s.scr.Sync()
		r := s.ScreenRect()
		return event.Input{Kind: event.InputResize, Width: r.Width, Height: r.Height}, true
	}
	return event.Input{}, false
}

const clickButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

func (s *Screen) translateMouse(ev *tcell.EventMouse) (event.Mouse, bool) {
	col, row := ev.Position()
	x, y := s.Pixel(col, row)
	m := event.Mouse{X: x, Y: y, Mods: translateMods(ev.Modifiers())}

	btn := ev.Buttons()
	switch {
	case btn&tcell.WheelUp != 0:
		m.Buttons, m.State = event.WheelUp, event.Down
		return m, true
	case btn&tcell.WheelDown != 0:
		m.Buttons, m.State = event.WheelDown, event.Down
		return m, true
	}

	held := btn & clickButtons
	prev := s.buttons
	s.buttons = held
	switch {
	case held&^prev != 0:
		m.Buttons, m.State = buttons(held&^prev), event.Down
	case prev&^held != 0:
		m.Buttons, m.State = buttons(prev&^held), event.Up
	default:
		m.Buttons, m.State = buttons(held), event.Move
	}
	return m, true
}

func buttons(b tcell.ButtonMask) event.Buttons {
	var out event.Buttons
	if b&tcell.Button1 != 0 {
		out |= event.ButtonLeft
	}
	if b&tcell.Button2 != 0 {
		out |= event.ButtonRight
	}
	if b&tcell.Button3 != 0 {
		out |= event.ButtonMiddle
	}
	return out
}

func translateMods(m tcell.ModMask) event.Modifiers {
	var out event.Modifiers
	if m&tcell.ModShift != 0 {
		out |= event.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= event.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= event.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= event.ModSuper
	}
	return out
}

func isQuit(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlQ {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 && (ev.Rune() == 'q' || ev.Rune() == 'Q')
}

var keyMap = map[tcell.Key]event.Key{
	tcell.KeyEnter:      event.KeyEnter,
	tcell.KeyEscape:     event.KeyEscape,
	tcell.KeyBackspace:  event.KeyBackspace,
	tcell.KeyBackspace2: event.KeyBackspace,
	tcell.KeyDelete:     event.KeyDelete,
	tcell.KeyTab:        event.KeyTab,
	tcell.KeyUp:         event.KeyUp,
	tcell.KeyDown:       event.KeyDown,
	tcell.KeyLeft:       event.KeyLeft,
	tcell.KeyRight:      event.KeyRight,
	tcell.KeyHome:       event.KeyHome,
	tcell.KeyEnd:        event.KeyEnd,
	tcell.KeyF1:         event.KeySuper,
	tcell.KeyF2:         event.KeyF2,
	tcell.KeyF4:         event.KeyF4,
	tcell.KeyF5:         event.KeyF5,
}

// translateKey maps a terminal key press. Terminals report no releases, so
// every key arrives as Down.
func translateKey(ev *tcell.EventKey) (event.Keyboard, bool) {
	k := event.Keyboard{Mods: translateMods(ev.Modifiers()), State: event.Down}
	key := ev.Key()
	if mapped, ok := keyMap[key]; ok {
		k.Key = mapped
		return k, true
	}
	switch {
	case key == tcell.KeyRune:
		k.Key, k.Rune = event.KeyRune, ev.Rune()
		return k, true
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		k.Key = event.KeyRune
		k.Rune = rune('a' + int(key-tcell.KeyCtrlA))
		k.Mods |= event.ModCtrl
		return k, true
	}
	return k, false
}

// Run polls the terminal and delivers translated input until ctx is done or
// the screen is finalized. It closes nothing; the caller owns out.
func (s *Screen) Run(ctx context.Context, out chan<- event.Input) {
	stop := context.AfterFunc(ctx, func() {
		_ = s.scr.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()
	for {
		ev := s.scr.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return
		}
		in, ok := s.Translate(ev)
		if !ok {
			continue
		}
		select {
		case out <- in:
		case <-ctx.Done():
			return
		}
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
