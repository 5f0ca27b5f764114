package widgets

import (
	"time"

	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/window"
)

const maxTaskButtonWidth = 160

// TaskButton is one window's button on the taskbar.
type TaskButton struct {
	Window window.ID
	Title  string
	Rect   geom.Rect
	// Focused and Minimized mirror the window state for painting.
	Focused   bool
	Minimized bool
}

// Taskbar is the bottom strip: start button, task buttons, tray and clock.
type Taskbar struct {
	Layout      Layout
	ClockFormat string
	Clock       string
}

// NewTaskbar returns a taskbar for a layout. An empty clock format uses 15:04.
func NewTaskbar(l Layout, clockFormat string) *Taskbar {
	if clockFormat == "" {
		clockFormat = "15:04"
	}
	return &Taskbar{Layout: l, ClockFormat: clockFormat}
}

// Contains reports whether the point is on the taskbar.
func (t *Taskbar) Contains(x, y int) bool { return t.Layout.Taskbar.Contains(x, y) }

// SetClock updates the clock text and reports whether it changed.
func (t *Taskbar) SetClock(now time.Time) bool {
	s := now.Format(t.ClockFormat)
	if s == t.Clock {
		return false
	}
	t.Clock = s
	return true
}

// Buttons lays out one button per shown window in creation order.
func (t *Taskbar) Buttons(s *window.Stack) []TaskButton {
	var wins []*window.Window
	for _, w := range s.Windows() {
		if w.Visible {
			wins = append(wins, w)
		}
	}
	if len(wins) == 0 {
		return nil
	}
	area := t.Layout.Tasks
	width := min(maxTaskButtonWidth, area.Width/len(wins))
	focused, _ := s.Focused()
	out := make([]TaskButton, len(wins))
	for i, w := range wins {
		out[i] = TaskButton{
			Window:    w.ID,
			Title:     w.Title,
			Rect:      geom.Rect{X: area.X + i*width, Y: area.Y + 2, Width: max(0, width-2), Height: max(0, area.Height-4)},
			Focused:   w.ID == focused,
			Minimized: w.Minimized,
		}
	}
	return out
}

// TaskAt returns the window whose task button contains the point.
func (t *Taskbar) TaskAt(s *window.Stack, x, y int) (window.ID, bool) {
	for _, b := range t.Buttons(s) {
		if b.Rect.Contains(x, y) {
			return b.Window, true
		}
	}
	return 0, false
}

// ActivateTask applies a task button click: a minimized window is restored,
// the focused window is minimized, anything else is raised.
func ActivateTask(s *window.Stack, id window.ID) bool {
	w, ok := s.Get(id)
	if !ok {
		return false
	}
	if w.Minimized {
		return s.Restore(id)
	}
	if f, ok := s.Focused(); ok && f == id {
		return s.Minimize(id)
	}
	return s.BringToFront(id)
}
