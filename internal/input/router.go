// Package input routes raw pointer and key events through the desktop's
// surfaces in priority order: open menus, the start menu, in-progress window
// and desktop interactions, the taskbar and dock, windows and finally the
// desktop itself. The first surface that consumes an event ends the walk.
package input

import (
	"time"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/event"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/logging"
	"github.com/1broseidon/termdesk/internal/ui"
	"github.com/1broseidon/termdesk/internal/widgets"
	"github.com/1broseidon/termdesk/internal/window"
)

// Router is the single entry point for input.
type Router struct {
	s *ui.State

	// icon pressed but not yet dragged
	press struct {
		icon   desktop.IconID
		at     geom.Point
		active bool
	}
	// window receiving client events until the button is released
	capture window.ID
	// rubber band started with Ctrl held
	additive bool

	lastIcon   desktop.IconID
	lastIconT  time.Time
	lastTitle  window.ID
	lastTitleT time.Time
}

// New returns a router for s.
func New(s *ui.State) *Router {
	return &Router{s: s}
}

// HandleMouse routes one pointer event and reports whether a surface
// consumed it.
func (r *Router) HandleMouse(ev event.Mouse) bool {
	s := r.s
	s.Pointer = geom.Point{X: ev.X, Y: ev.Y}
	if ev.Buttons&(event.WheelUp|event.WheelDown) != 0 {
		return r.wheel(ev)
	}

	if s.Menus.IsOpen() && r.menuMouse(ev) {
		return true
	}
	if s.Start.Visible && r.startMouse(ev) {
		return true
	}
	if r.windowInteraction(ev) {
		return true
	}
	if r.desktopInteraction(ev) {
		return true
	}

	winID, overWindow := s.Windows.FindAt(ev.X, ev.Y)
	if ev.State == event.Move {
		hx, hy := ev.X, ev.Y
		if overWindow {
			hx, hy = -1, -1
		}
		if s.Dock.Hover(hx, hy) {
			s.Invalidate()
		}
	}

	if s.Taskbar.Contains(ev.X, ev.Y) {
		return r.taskbarMouse(ev)
	}
	if !overWindow && s.Dock.Contains(ev.X, ev.Y) {
		if ev.State == event.Down && ev.Buttons&event.ButtonLeft != 0 {
			s.Dock.Click(ev.X, ev.Y)
			s.Invalidate()
		}
		return true
	}
	if overWindow {
		return r.windowMouse(winID, ev)
	}
	return r.desktopMouse(ev)
}

func (r *Router) wheel(ev event.Mouse) bool {
	id, ok := r.s.Windows.FindAt(ev.X, ev.Y)
	if !ok {
		return false
	}
	w, _ := r.s.Windows.Get(id)
	if w.HitTest(ev.X, ev.Y) != window.PartClient {
		return true
	}
	w.SendMouse(ev)
	r.s.Invalidate()
	return true
}

func (r *Router) menuMouse(ev event.Mouse) bool {
	mg := r.s.Menus
	switch ev.State {
	case event.Move:
		return mg.HandleMouseMove(ev.X, ev.Y)
	case event.Down:
		return mg.HandleMouseClick(ev.X, ev.Y, ev.Buttons)
	default:
		_, ok := mg.FindAt(ev.X, ev.Y)
		return ok
	}
}

func (r *Router) startMouse(ev event.Mouse) bool {
	s := r.s
	inside := s.Start.Contains(ev.X, ev.Y)
	switch ev.State {
	case event.Move:
		if inside && s.Start.HoverAt(ev.X, ev.Y) {
			s.Invalidate()
		}
		return inside
	case event.Down:
		if inside {
			s.Start.Click(ev.X, ev.Y)
			s.Invalidate()
			return true
		}
		// The start button toggles the panel itself further down.
		if !s.Layout.StartButton.Contains(ev.X, ev.Y) {
			s.Start.Hide()
			s.Invalidate()
		}
		return false
	default:
		return inside
	}
}

func (r *Router) windowInteraction(ev event.Mouse) bool {
	s := r.s
	if _, phase := s.Windows.Interaction(); phase != window.PhaseIdle {
		switch ev.State {
		case event.Move:
			if phase == window.PhaseMoving {
				s.Windows.UpdateDrag(ev.X, ev.Y)
			} else {
				s.Windows.UpdateResize(ev.X, ev.Y)
			}
		case event.Up:
			id, _ := s.Windows.Interaction()
			if phase == window.PhaseMoving {
				s.Windows.EndDrag()
			} else {
				s.Windows.EndResize()
			}
			if w, ok := s.Windows.Get(id); ok {
				s.Log.Log(logging.ActionWindowMove, w.Title, map[string]any{
					"window": id, "x": w.Bounds.X, "y": w.Bounds.Y,
					"width": w.Bounds.Width, "height": w.Bounds.Height,
				})
			}
		}
		return true
	}
	if r.capture == 0 {
		return false
	}
	w, ok := s.Windows.Get(r.capture)
	if !ok || !w.Viewable() {
		r.capture = 0
		return false
	}
	switch ev.State {
	case event.Move:
		w.SendMouse(ev)
	case event.Up:
		w.SendMouse(ev)
		r.capture = 0
	default:
		return false
	}
	s.Invalidate()
	return true
}

func (r *Router) desktopInteraction(ev event.Mouse) bool {
	d := r.s.Desktop
	if d.Drag().Active {
		switch ev.State {
		case event.Move:
			d.UpdateDrag(ev.X, ev.Y)
		case event.Up:
			d.EndDrag(ev.X, ev.Y)
		}
		return true
	}
	if d.Selection().Active {
		switch ev.State {
		case event.Move:
			d.UpdateSelection(ev.X, ev.Y, r.additive)
		case event.Up:
			d.UpdateSelection(ev.X, ev.Y, r.additive)
			d.EndSelection()
		}
		return true
	}
	if !r.press.active {
		return false
	}
	switch ev.State {
	case event.Move:
		r.press.active = false
		if d.BeginDrag(r.press.icon, r.press.at.X, r.press.at.Y) {
			d.UpdateDrag(ev.X, ev.Y)
		}
		return true
	case event.Up:
		r.press.active = false
		return true
	}
	r.press.active = false
	return false
}

func (r *Router) taskbarMouse(ev event.Mouse) bool {
	s := r.s
	if ev.State != event.Down || ev.Buttons&event.ButtonLeft == 0 {
		return true
	}
	switch {
	case s.Layout.StartButton.Contains(ev.X, ev.Y):
		s.Start.Toggle()
	default:
		if id, ok := s.Taskbar.TaskAt(s.Windows, ev.X, ev.Y); ok {
			widgets.ActivateTask(s.Windows, id)
		} else {
			s.Tray.Click(ev.X, ev.Y)
		}
	}
	s.Invalidate()
	return true
}

func (r *Router) windowMouse(id window.ID, ev event.Mouse) bool {
	s := r.s
	w, _ := s.Windows.Get(id)
	part := w.HitTest(ev.X, ev.Y)
	if ev.State != event.Down {
		if part == window.PartClient {
			w.SendMouse(ev)
		}
		return true
	}

	if m, ok := s.Windows.Modal(); ok && m != id {
		s.Windows.BringToFront(m)
		return true
	}
	s.Windows.BringToFront(id)
	s.Log.Log(logging.ActionWindowFocus, w.Title, map[string]any{"window": id})

	right := ev.Buttons&event.ButtonRight != 0
	switch part {
	case window.PartClose:
		if !right {
			s.CloseWindow(id)
		}
	case window.PartMaximize:
		s.Windows.ToggleMaximize(id)
	case window.PartMinimize:
		s.Windows.Minimize(id)
	case window.PartTitle:
		switch {
		case right:
			s.OpenWindowMenu(id, ev.X, ev.Y)
		case r.doubleTitle(id) && w.Style.Has(window.Maximizable):
			s.Windows.ToggleMaximize(id)
		default:
			s.Windows.BeginDrag(id, ev.X, ev.Y)
		}
	case window.PartGrip:
		s.Windows.BeginResize(id, ev.X, ev.Y)
	case window.PartClient:
		if right {
			w.SendRightClick(ev.X, ev.Y)
		} else {
			w.SendMouse(ev)
			r.capture = id
		}
	}
	s.Invalidate()
	return true
}

func (r *Router) doubleTitle(id window.ID) bool {
	now := r.s.Now()
	if r.lastTitle == id && now.Sub(r.lastTitleT) <= r.s.Options.DoubleClick {
		r.lastTitle = 0
		return true
	}
	r.lastTitle, r.lastTitleT = id, now
	return false
}

func (r *Router) desktopMouse(ev event.Mouse) bool {
	s := r.s
	d := s.Desktop
	if !d.Bounds().Contains(ev.X, ev.Y) {
		return false
	}
	id, onIcon := d.FindIconAt(ev.X, ev.Y)
	switch ev.State {
	case event.Move:
		if !onIcon {
			id = 0
		}
		d.SetHighlight(id)
		return false
	case event.Up:
		return false
	}

	s.Windows.ClearFocus()
	if editing, _, ok := d.Editing(); ok && editing != id {
		d.CancelRename()
	}
	ctrl := ev.Mods&event.ModCtrl != 0

	if ev.Buttons&event.ButtonRight != 0 {
		if onIcon {
			if ic, _ := d.Icon(id); !ic.Selected {
				d.SelectOnly(id)
			}
			s.OpenIconMenu(id, ev.X, ev.Y)
		} else {
			s.OpenDesktopMenu(ev.X, ev.Y)
		}
		return true
	}
	if ev.Buttons&event.ButtonLeft == 0 {
		return false
	}

	if onIcon {
		if ctrl {
			d.ToggleSelected(id)
			r.lastIcon = 0
			return true
		}
		now := s.Now()
		if r.lastIcon == id && now.Sub(r.lastIconT) <= s.Options.DoubleClick {
			r.lastIcon = 0
			_ = s.ActivateIcon(id)
			return true
		}
		r.lastIcon, r.lastIconT = id, now
		if ic, _ := d.Icon(id); !ic.Selected {
			d.SelectOnly(id)
		}
		r.press.icon = id
		r.press.at = geom.Point{X: ev.X, Y: ev.Y}
		r.press.active = true
		return true
	}

	r.lastIcon = 0
	if !ctrl {
		d.ClearSelection()
	}
	r.additive = ctrl
	d.BeginSelection(ev.X, ev.Y)
	return true
}

// HandleKeyboard routes one key event and reports whether it was consumed.
func (r *Router) HandleKeyboard(ev event.Keyboard) bool {
	s := r.s
	if s.Menus.HandleKey(ev) {
		return true
	}
	if s.Start.HandleKey(ev) {
		s.Invalidate()
		return true
	}
	if ev.State == event.Down && r.globalKey(ev) {
		return true
	}
	if id, ok := s.Windows.Focused(); ok {
		w, _ := s.Windows.Get(id)
		w.SendKeyboard(ev)
		s.Invalidate()
		return true
	}
	if s.EditKey(ev) {
		return true
	}
	if ev.State != event.Down {
		return false
	}
	return r.desktopKey(ev)
}

func (r *Router) globalKey(ev event.Keyboard) bool {
	s := r.s
	alt := ev.Mods&event.ModAlt != 0
	ctrl := ev.Mods&event.ModCtrl != 0
	switch {
	case alt && ev.Key == event.KeyF4:
		if id, ok := s.Windows.Focused(); ok {
			s.CloseWindow(id)
		}
		return true
	case alt && ev.Key == event.KeyTab:
		if m, ok := s.Windows.Modal(); ok {
			s.Windows.BringToFront(m)
			return true
		}
		if id, ok := s.Windows.CycleNext(); ok {
			w, _ := s.Windows.Get(id)
			s.Log.Log(logging.ActionWindowFocus, w.Title, map[string]any{"window": id})
		}
		return true
	case ev.Key == event.KeySuper, ctrl && ev.Key == event.KeyEscape:
		s.Start.Toggle()
		s.Invalidate()
		return true
	case ev.Key == event.KeyEscape:
		r.press.active = false
		r.capture = 0
		return s.CancelInteractions()
	}
	return false
}

func (r *Router) desktopKey(ev event.Keyboard) bool {
	s := r.s
	d := s.Desktop
	if ev.Mods&event.ModCtrl != 0 && ev.Key == event.KeyRune {
		switch {
		case ev.Is('a'):
			d.SelectAll()
		case ev.Is('c'):
			d.CopySelected()
		case ev.Is('x'):
			d.CutSelected()
		case ev.Is('v'):
			_ = s.PasteAt(s.Pointer.X, s.Pointer.Y)
		default:
			return false
		}
		return true
	}
	switch ev.Key {
	case event.KeyDelete:
		s.DeleteSelected()
	case event.KeyF5:
		d.Arrange()
	case event.KeyF2:
		sel := d.Selected()
		if len(sel) == 0 {
			return false
		}
		d.BeginRename(sel[0])
	case event.KeyEnter:
		s.ActivateSelected()
	default:
		return false
	}
	return true
}
