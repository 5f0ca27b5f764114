package input

import (
	"testing"
	"time"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/event"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/menu"
	"github.com/1broseidon/termdesk/internal/ui"
	"github.com/1broseidon/termdesk/internal/widgets"
	"github.com/1broseidon/termdesk/internal/window"
)

type recLauncher struct{ apps []string }

func (l *recLauncher) Launch(appID string) error {
	l.apps = append(l.apps, appID)
	return nil
}

// recHandler records the events a window receives.
type recHandler struct {
	window.HandlerFuncs
	mouse []event.Mouse
	keys  []event.Keyboard
	right []geom.Point
}

func (h *recHandler) Mouse(_ *window.Window, ev event.Mouse)       { h.mouse = append(h.mouse, ev) }
func (h *recHandler) Keyboard(_ *window.Window, ev event.Keyboard) { h.keys = append(h.keys, ev) }
func (h *recHandler) RightClick(_ *window.Window, x, y int) {
	h.right = append(h.right, geom.Point{X: x, Y: y})
}

func newRouter(t *testing.T) (*Router, *ui.State, *recLauncher) {
	t.Helper()
	opts := ui.DefaultOptions(geom.Rect{Width: 1024, Height: 768})
	opts.Menu.AnimationFrames = 0
	opts.Layout = desktop.Free
	opts.StartApps = []widgets.App{{ID: "notes", Name: "Notes"}}
	l := &recLauncher{}
	s := ui.New(opts, l, nil, nil)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return clock })
	return New(s), s, l
}

func down(x, y int, b event.Buttons) event.Mouse {
	return event.Mouse{X: x, Y: y, Buttons: b, State: event.Down}
}

func up(x, y int, b event.Buttons) event.Mouse {
	return event.Mouse{X: x, Y: y, Buttons: b, State: event.Up}
}

func move(x, y int) event.Mouse {
	return event.Mouse{X: x, Y: y, Buttons: event.ButtonLeft, State: event.Move}
}

func TestMouse_MenuBeatsWindowAtSameRect(t *testing.T) {
	r, s, _ := newRouter(t)
	h := &recHandler{}
	id := s.OpenWindow(ui.WindowSpec{Title: "w", Bounds: geom.Rect{X: 10, Y: 10, Width: 100, Height: 50}, Handler: h})

	fired := 0
	m := s.Menus.New("", 0)
	s.Menus.AddItem(m, "One", func(*menu.Item) { fired++ })
	s.Menus.AddItem(m, "Two", func(*menu.Item) { fired++ })
	s.Menus.Show(m, 10, 10)

	if !r.HandleMouse(down(50, 30, event.ButtonLeft)) {
		t.Fatalf("click not consumed")
	}
	if len(h.mouse) != 0 {
		t.Fatalf("window received a click meant for the menu")
	}
	if fired != 1 {
		t.Fatalf("menu action fired %d times", fired)
	}

	s.Menus.Hide(m)
	if !r.HandleMouse(down(50, 30, event.ButtonLeft)) {
		t.Fatalf("second click not consumed")
	}
	if len(h.mouse) != 1 {
		t.Fatalf("window events = %d, want 1", len(h.mouse))
	}
	w, _ := s.Windows.Get(id)
	if got := h.mouse[0]; got.X != 50-w.Client.X || got.Y != 30-w.Client.Y {
		t.Fatalf("client coordinates = (%d,%d)", got.X, got.Y)
	}
}

func TestMouse_OutsideClickClosesMenuAndIsConsumed(t *testing.T) {
	r, s, _ := newRouter(t)
	s.OpenDesktopMenu(400, 300)
	if !r.HandleMouse(down(5, 5, event.ButtonLeft)) {
		t.Fatalf("outside click not consumed")
	}
	if s.Menus.IsOpen() {
		t.Fatalf("menu still open")
	}
	if s.Desktop.Selection().Active {
		t.Fatalf("outside click leaked to the desktop")
	}
}

func TestMouse_TitleDragMovesWindow(t *testing.T) {
	r, s, _ := newRouter(t)
	id := s.OpenWindow(ui.WindowSpec{Title: "w", Bounds: geom.Rect{X: 100, Y: 100, Width: 200, Height: 120}})

	r.HandleMouse(down(150, 105, event.ButtonLeft))
	r.HandleMouse(move(250, 205))
	r.HandleMouse(up(250, 205, event.ButtonLeft))

	w, _ := s.Windows.Get(id)
	if w.Bounds.X != 200 || w.Bounds.Y != 200 {
		t.Fatalf("bounds = %+v", w.Bounds)
	}
	if _, phase := s.Windows.Interaction(); phase != window.PhaseIdle {
		t.Fatalf("interaction still %v", phase)
	}
}

func TestMouse_TitleButtonsAndGrip(t *testing.T) {
	r, s, _ := newRouter(t)
	id := s.OpenWindow(ui.WindowSpec{Title: "w", Bounds: geom.Rect{X: 100, Y: 100, Width: 200, Height: 120}})
	w, _ := s.Windows.Get(id)

	g := w.Grip()
	r.HandleMouse(down(g.X, g.Y, event.ButtonLeft))
	r.HandleMouse(move(g.X+50, g.Y+30))
	r.HandleMouse(up(g.X+50, g.Y+30, event.ButtonLeft))
	if w.Bounds.Width != 250 || w.Bounds.Height != 150 {
		t.Fatalf("resize bounds = %+v", w.Bounds)
	}

	b := w.ButtonRect(window.PartMaximize)
	r.HandleMouse(down(b.X+1, b.Y+1, event.ButtonLeft))
	if !w.Maximized {
		t.Fatalf("maximize button ignored")
	}

	b = w.ButtonRect(window.PartClose)
	r.HandleMouse(down(b.X+1, b.Y+1, event.ButtonLeft))
	if _, ok := s.Windows.Get(id); ok {
		t.Fatalf("close button ignored")
	}
}

func TestMouse_ModalBlocksOtherWindows(t *testing.T) {
	r, s, _ := newRouter(t)
	h := &recHandler{}
	back := s.OpenWindow(ui.WindowSpec{Title: "back", Bounds: geom.Rect{X: 0, Y: 0, Width: 400, Height: 300}, Handler: h})
	modal := s.OpenWindow(ui.WindowSpec{Title: "modal", Bounds: geom.Rect{X: 500, Y: 300, Width: 200, Height: 100},
		Style: window.Default | window.Modal})

	r.HandleMouse(down(200, 150, event.ButtonLeft))
	if len(h.mouse) != 0 {
		t.Fatalf("click reached a window behind a modal")
	}
	if head, _ := s.Windows.Head(); head != modal {
		t.Fatalf("head = %d, want modal %d (back %d)", head, modal, back)
	}
}

func TestKeyboard_AltTabKeepsModalFocused(t *testing.T) {
	r, s, _ := newRouter(t)
	h := &recHandler{}
	s.OpenWindow(ui.WindowSpec{Title: "back", Handler: h})
	modal := s.OpenWindow(ui.WindowSpec{Title: "modal", Style: window.Default | window.Modal})

	r.HandleKeyboard(event.Keyboard{Key: event.KeyTab, Mods: event.ModAlt, State: event.Down})
	if f, ok := s.Windows.Focused(); !ok || f != modal {
		t.Fatalf("alt+tab focused %d,%v, want modal %d", f, ok, modal)
	}
	r.HandleKeyboard(event.Keyboard{Key: event.KeyRune, Rune: 'x', State: event.Down})
	if len(h.keys) != 0 {
		t.Fatalf("key reached a window behind a modal")
	}
}

func TestMouse_RightClickRouting(t *testing.T) {
	r, s, _ := newRouter(t)
	h := &recHandler{}
	id := s.OpenWindow(ui.WindowSpec{Title: "w", Bounds: geom.Rect{X: 100, Y: 100, Width: 200, Height: 120}, Handler: h})
	w, _ := s.Windows.Get(id)

	r.HandleMouse(down(w.Client.X+5, w.Client.Y+7, event.ButtonRight))
	if len(h.right) != 1 || h.right[0] != (geom.Point{X: 5, Y: 7}) {
		t.Fatalf("right clicks = %v", h.right)
	}
	if len(h.mouse) != 0 {
		t.Fatalf("right click also sent as mouse event")
	}

	r.HandleMouse(down(150, 105, event.ButtonRight))
	if !s.Menus.IsOpen() {
		t.Fatalf("title right click did not open the window menu")
	}
	s.Menus.CloseAll()

	r.HandleMouse(down(600, 400, event.ButtonRight))
	if active, ok := s.Menus.Active(); !ok || active != s.DesktopMenu() {
		t.Fatalf("desktop right click opened %d", active)
	}
}

func TestMouse_DesktopClickDoubleClickAndDrag(t *testing.T) {
	r, s, l := newRouter(t)
	id, _ := s.AddIcon(ui.IconSpec{Name: "Notes", Path: "notes", Kind: desktop.Application})
	s.Desktop.SetIconPosition(id, 100, 100)

	r.HandleMouse(down(110, 110, event.ButtonLeft))
	r.HandleMouse(up(110, 110, event.ButtonLeft))
	if ic, _ := s.Desktop.Icon(id); !ic.Selected {
		t.Fatalf("click did not select the icon")
	}
	r.HandleMouse(down(110, 110, event.ButtonLeft))
	r.HandleMouse(up(110, 110, event.ButtonLeft))
	if len(l.apps) != 1 || l.apps[0] != "notes" {
		t.Fatalf("double click launched %v", l.apps)
	}

	r.HandleMouse(down(120, 120, event.ButtonLeft))
	r.HandleMouse(move(170, 140))
	if !s.Desktop.Drag().Active {
		t.Fatalf("press and move did not start a drag")
	}
	r.HandleMouse(up(170, 140, event.ButtonLeft))
	if ic, _ := s.Desktop.Icon(id); ic.X != 150 || ic.Y != 120 {
		t.Fatalf("icon at (%d,%d), want (150,120)", ic.X, ic.Y)
	}
}

func TestMouse_RubberBand(t *testing.T) {
	r, s, _ := newRouter(t)
	a, _ := s.AddIcon(ui.IconSpec{Name: "a"})
	b, _ := s.AddIcon(ui.IconSpec{Name: "b"})
	s.Desktop.SetIconPosition(a, 20, 20)
	s.Desktop.SetIconPosition(b, 200, 20)

	r.HandleMouse(down(0, 0, event.ButtonLeft))
	r.HandleMouse(move(100, 100))
	r.HandleMouse(up(100, 100, event.ButtonLeft))

	sel := s.Desktop.Selected()
	if len(sel) != 1 || sel[0] != a {
		t.Fatalf("selected = %v", sel)
	}
	if s.Desktop.Selection().Active {
		t.Fatalf("band still active")
	}

	ctrl := down(300, 0, event.ButtonLeft)
	ctrl.Mods = event.ModCtrl
	r.HandleMouse(ctrl)
	r.HandleMouse(move(150, 100))
	r.HandleMouse(up(150, 100, event.ButtonLeft))
	if got := s.Desktop.Selected(); len(got) != 2 {
		t.Fatalf("additive band selected %v", got)
	}
}

func TestMouse_TaskbarAndStartMenu(t *testing.T) {
	r, s, l := newRouter(t)
	sb := s.Layout.StartButton
	r.HandleMouse(down(sb.X+2, sb.Y+2, event.ButtonLeft))
	if !s.Start.Visible {
		t.Fatalf("start button did not open the menu")
	}
	row := s.Start.RowRect(1)
	r.HandleMouse(down(row.X+2, row.Y+2, event.ButtonLeft))
	if s.Start.Visible || len(l.apps) != 1 {
		t.Fatalf("start menu row: visible=%v launched=%v", s.Start.Visible, l.apps)
	}

	r.HandleMouse(down(sb.X+2, sb.Y+2, event.ButtonLeft))
	r.HandleMouse(down(600, 300, event.ButtonLeft))
	if s.Start.Visible {
		t.Fatalf("outside click left the start menu open")
	}
	if !s.Desktop.Selection().Active {
		t.Fatalf("outside click did not continue to the desktop")
	}
	r.HandleMouse(up(600, 300, event.ButtonLeft))

	id := s.OpenWindow(ui.WindowSpec{Title: "task"})
	btn := s.Taskbar.Buttons(s.Windows)[0].Rect
	r.HandleMouse(down(btn.X+2, btn.Y+2, event.ButtonLeft))
	if w, _ := s.Windows.Get(id); !w.Minimized {
		t.Fatalf("task button on focused window did not minimize")
	}
}

func TestKeyboard_Routing(t *testing.T) {
	r, s, _ := newRouter(t)
	h := &recHandler{}
	a := s.OpenWindow(ui.WindowSpec{Title: "a", Handler: h})
	b := s.OpenWindow(ui.WindowSpec{Title: "b"})

	r.HandleKeyboard(event.Keyboard{Key: event.KeyTab, Mods: event.ModAlt, State: event.Down})
	if f, _ := s.Windows.Focused(); f != a {
		t.Fatalf("alt+tab focused %d, want %d", f, a)
	}
	r.HandleKeyboard(event.Keyboard{Key: event.KeyRune, Rune: 'x', State: event.Down})
	if len(h.keys) != 1 {
		t.Fatalf("focused window got %d keys", len(h.keys))
	}

	r.HandleKeyboard(event.Keyboard{Key: event.KeyF4, Mods: event.ModAlt, State: event.Down})
	if _, ok := s.Windows.Get(a); ok {
		t.Fatalf("alt+f4 did not close")
	}
	if f, _ := s.Windows.Focused(); f != b {
		t.Fatalf("focus after close = %d", f)
	}

	r.HandleKeyboard(event.Keyboard{Key: event.KeySuper, State: event.Down})
	if !s.Start.Visible {
		t.Fatalf("super did not open start menu")
	}
	r.HandleKeyboard(event.Keyboard{Key: event.KeyEscape, State: event.Down})
	if s.Start.Visible {
		t.Fatalf("escape did not close start menu")
	}
}

func TestKeyboard_DesktopShortcuts(t *testing.T) {
	r, s, _ := newRouter(t)
	s.AddIcon(ui.IconSpec{Name: "a"})
	s.AddIcon(ui.IconSpec{Name: "b"})

	ctrl := func(c rune) event.Keyboard {
		return event.Keyboard{Key: event.KeyRune, Rune: c, Mods: event.ModCtrl, State: event.Down}
	}
	r.HandleKeyboard(ctrl('a'))
	if n := len(s.Desktop.Selected()); n != 2 {
		t.Fatalf("ctrl+a selected %d", n)
	}
	r.HandleKeyboard(ctrl('c'))
	r.HandleMouse(event.Mouse{X: 500, Y: 400, State: event.Move})
	r.HandleKeyboard(ctrl('v'))
	if s.Desktop.Len() != 4 {
		t.Fatalf("paste len = %d", s.Desktop.Len())
	}
	r.HandleKeyboard(event.Keyboard{Key: event.KeyDelete, State: event.Down})
	if s.Desktop.Len() != 2 {
		t.Fatalf("delete len = %d", s.Desktop.Len())
	}

	first := s.Desktop.Icons()[0]
	s.Desktop.SelectOnly(first.ID)
	r.HandleKeyboard(event.Keyboard{Key: event.KeyF2, State: event.Down})
	r.HandleKeyboard(event.Keyboard{Key: event.KeyRune, Rune: '!', State: event.Down})
	r.HandleKeyboard(event.Keyboard{Key: event.KeyEnter, State: event.Down})
	if first.Name != "a!" {
		t.Fatalf("rename = %q", first.Name)
	}
}

func TestKeyboard_EscapeCancelsDrag(t *testing.T) {
	r, s, _ := newRouter(t)
	id, _ := s.AddIcon(ui.IconSpec{Name: "a"})
	s.Desktop.SetIconPosition(id, 100, 100)

	r.HandleMouse(down(110, 110, event.ButtonLeft))
	r.HandleMouse(move(300, 300))
	if !r.HandleKeyboard(event.Keyboard{Key: event.KeyEscape, State: event.Down}) {
		t.Fatalf("escape not consumed")
	}
	r.HandleMouse(up(300, 300, event.ButtonLeft))
	if ic, _ := s.Desktop.Icon(id); ic.X != 100 || ic.Y != 100 {
		t.Fatalf("cancelled drag moved icon to (%d,%d)", ic.X, ic.Y)
	}
}
