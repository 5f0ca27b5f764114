package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/event"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/ui"
	"github.com/1broseidon/termdesk/internal/window"
)

const pad = 4

func (l *Launcher) openBuiltin(app App) error {
	s := l.state
	if s == nil {
		return ErrDetached
	}
	var spec ui.WindowSpec
	switch app.Builtin {
	case "about":
		spec = aboutWindow(s)
	case "notes":
		spec = notesWindow(s)
	case "files":
		dir := app.Dir
		if dir == "" {
			dir = "~"
		}
		f, err := newFiles(s, dir)
		if err != nil {
			return err
		}
		spec = f.spec()
	case "clock":
		spec = clockWindow(s)
	default:
		return fmt.Errorf("%w: builtin %q", ErrUnknownApp, app.Builtin)
	}
	if spec.Title == "" {
		spec.Title = app.Name
	}
	spec.AppID = app.ID
	s.OpenWindow(spec)
	return nil
}

// lineRect is the rect of text line n in the client area.
func lineRect(w *window.Window, n int) geom.Rect {
	return geom.Rect{
		X:      w.Client.X + pad,
		Y:      w.Client.Y + pad + n*draw.LineHeight,
		Width:  w.Client.Width - 2*pad,
		Height: draw.LineHeight,
	}
}

func aboutWindow(s *ui.State) ui.WindowSpec {
	return ui.WindowSpec{
		Title:  "About termdesk",
		Bounds: s.CascadeRect(300, 120),
		Style:  window.Movable | window.Modal,
		Handler: window.HandlerFuncs{OnPaint: func(w *window.Window, p draw.Painter) {
			scr := s.Options.Screen
			lines := []string{
				"termdesk",
				"A small windowing desktop.",
				fmt.Sprintf("Screen %dx%d, %d windows", scr.Width, scr.Height, s.Windows.Len()),
			}
			for i, line := range lines {
				r := lineRect(w, i)
				p.Text(r.X, r.Y, draw.Truncate(line, r.Width), s.Theme.WindowText, draw.None)
			}
		}},
	}
}

func clockWindow(s *ui.State) ui.WindowSpec {
	return ui.WindowSpec{
		Bounds: s.CascadeRect(220, 72),
		Style:  window.Movable | window.Minimizable,
		Handler: window.HandlerFuncs{OnPaint: func(w *window.Window, p draw.Painter) {
			now := s.Now()
			for i, line := range []string{now.Format("Monday 2 January"), now.Format("15:04")} {
				r := lineRect(w, i)
				p.Text(r.X, r.Y, draw.Truncate(line, r.Width), s.Theme.WindowText, draw.None)
			}
		}},
	}
}

// notes is a scratch text editor. Closing a window holding text needs a
// second attempt.
type notes struct {
	s      *ui.State
	lines  []string
	warned bool
}

func notesWindow(s *ui.State) ui.WindowSpec {
	n := &notes{s: s, lines: []string{""}}
	return ui.WindowSpec{
		Title:  "Notes",
		Bounds: s.CascadeRect(360, 240),
		Style:  window.Default,
		Handler: window.HandlerFuncs{
			OnPaint:    n.paint,
			OnKeyboard: n.key,
			OnClose:    n.close,
		},
	}
}

func (n *notes) text() string { return strings.Join(n.lines, "\n") }

func (n *notes) paint(w *window.Window, p draw.Painter) {
	th := n.s.Theme
	rows := max(1, (w.Client.Height-2*pad)/draw.LineHeight)
	first := max(0, len(n.lines)-rows)
	for i, line := range n.lines[first:] {
		if first+i == len(n.lines)-1 {
			line += "_"
		}
		r := lineRect(w, i)
		p.Text(r.X, r.Y, draw.Truncate(line, r.Width), th.WindowText, draw.None)
	}
}

func (n *notes) key(w *window.Window, ev event.Keyboard) {
	if ev.State != event.Down {
		return
	}
	last := len(n.lines) - 1
	switch ev.Key {
	case event.KeyRune:
		if ev.Mods&(event.ModCtrl|event.ModAlt) != 0 {
			return
		}
		n.lines[last] += string(ev.Rune)
	case event.KeyEnter:
		n.lines = append(n.lines, "")
	case event.KeyTab:
		n.lines[last] += "    "
	case event.KeyBackspace:
		if line := n.lines[last]; line != "" {
			r := []rune(line)
			n.lines[last] = string(r[:len(r)-1])
		} else if last > 0 {
			n.lines = n.lines[:last]
		}
	default:
		return
	}
	if n.warned {
		n.warned = false
		w.Title = "Notes"
	}
}

func (n *notes) close(w *window.Window) bool {
	if n.text() == "" || n.warned {
		return true
	}
	n.warned = true
	w.Title = "Notes - close again to discard"
	n.s.Invalidate()
	return false
}

// files browses a directory.
type files struct {
	s        *ui.State
	dir      string
	entries  []string
	selected int
	top      int
	err      error
}

func newFiles(s *ui.State, dir string) (*files, error) {
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("files: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	f := &files{s: s}
	f.open(dir)
	return f, nil
}

func (f *files) spec() ui.WindowSpec {
	return ui.WindowSpec{
		Title:  f.dir,
		Bounds: f.s.CascadeRect(360, 280),
		Style:  window.Default,
		Handler: window.HandlerFuncs{
			OnPaint:    f.paint,
			OnKeyboard: f.key,
			OnMouse:    f.mouse,
		},
	}
}

// open lists dir, directories first. Errors are shown in the window.
func (f *files) open(dir string) {
	f.dir = filepath.Clean(dir)
	f.entries, f.selected, f.top = nil, 0, 0
	ents, err := os.ReadDir(f.dir)
	f.err = err
	if err != nil {
		return
	}
	var dirs, plain []string
	for _, e := range ents {
		if e.IsDir() {
			dirs = append(dirs, e.Name()+"/")
		} else {
			plain = append(plain, e.Name())
		}
	}
	sort.Strings(dirs)
	sort.Strings(plain)
	if f.dir != "/" {
		f.entries = append(f.entries, "../")
	}
	f.entries = append(f.entries, dirs...)
	f.entries = append(f.entries, plain...)
}

func (f *files) rows(w *window.Window) int {
	return max(1, (w.Client.Height-2*pad)/draw.LineHeight-1)
}

func (f *files) paint(w *window.Window, p draw.Painter) {
	th := f.s.Theme
	head := lineRect(w, 0)
	p.Text(head.X, head.Y, draw.Truncate(f.dir, head.Width), th.WindowText, draw.None)
	p.HLine(head.X, head.Bottom(), head.Width, th.Border)
	if f.err != nil {
		r := lineRect(w, 1)
		p.Text(r.X, r.Y, draw.Truncate(f.err.Error(), r.Width), th.WindowText, draw.None)
		return
	}
	n := f.rows(w)
	f.top = min(f.top, f.selected)
	if f.selected >= f.top+n {
		f.top = f.selected - n + 1
	}
	for i := 0; i < n && f.top+i < len(f.entries); i++ {
		idx := f.top + i
		r := lineRect(w, i+1)
		fg, bg := th.WindowText, draw.None
		if idx == f.selected {
			fg, bg = th.MenuHighlightText, th.MenuHighlight
			p.FillRect(r, bg)
		}
		p.Text(r.X, r.Y, draw.Truncate(f.entries[idx], r.Width), fg, bg)
	}
}

// activate enters the selected directory.
func (f *files) activate(w *window.Window) {
	if f.selected >= len(f.entries) {
		return
	}
	name := f.entries[f.selected]
	if !strings.HasSuffix(name, "/") {
		return
	}
	f.open(filepath.Join(f.dir, strings.TrimSuffix(name, "/")))
	w.Title = f.dir
}

func (f *files) key(w *window.Window, ev event.Keyboard) {
	if ev.State != event.Down {
		return
	}
	switch ev.Key {
	case event.KeyUp:
		f.selected = max(0, f.selected-1)
	case event.KeyDown:
		f.selected = min(len(f.entries)-1, f.selected+1)
	case event.KeyHome:
		f.selected = 0
	case event.KeyEnd:
		f.selected = len(f.entries) - 1
	case event.KeyEnter:
		f.activate(w)
	case event.KeyBackspace:
		f.open(filepath.Dir(f.dir))
		w.Title = f.dir
	}
	f.selected = max(0, f.selected)
}

// mouse selects a row; clicking the selected row again opens it. Coordinates
// are client-relative.
func (f *files) mouse(w *window.Window, ev event.Mouse) {
	switch {
	case ev.State == event.Down && ev.Buttons&event.WheelUp != 0:
		f.selected = max(0, f.selected-1)
		return
	case ev.State == event.Down && ev.Buttons&event.WheelDown != 0:
		f.selected = max(0, min(len(f.entries)-1, f.selected+1))
		return
	case ev.State != event.Down || ev.Buttons&event.ButtonLeft == 0:
		return
	}
	row := (ev.Y-pad)/draw.LineHeight - 1
	if ev.Y < pad || row < 0 {
		return
	}
	idx := f.top + row
	if idx >= len(f.entries) {
		return
	}
	if idx == f.selected {
		f.activate(w)
		return
	}
	f.selected = idx
}
