// Package ui holds the single desktop state value shared by the input router,
// the compositor and the host loop. There are no package-level singletons:
// every test can build as many independent States as it likes.
package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/event"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/logging"
	"github.com/1broseidon/termdesk/internal/menu"
	"github.com/1broseidon/termdesk/internal/widgets"
	"github.com/1broseidon/termdesk/internal/window"
)

// Launcher starts applications by id.
type Launcher interface {
	Launch(appID string) error
}

// Session performs power actions.
type Session interface {
	Power(action widgets.PowerAction) error
}

// ErrNoLauncher is returned when an app is launched on a State without a
// Launcher.
var ErrNoLauncher = errors.New("no launcher configured")

// IconSpec is an icon placed on the desktop at startup.
type IconSpec struct {
	Name  string
	Path  string
	Kind  desktop.Kind
	Image int
}

// DockEntry is a dock launcher slot.
type DockEntry struct {
	AppID string
	Name  string
	Icon  int
}

// Options configure a State.
type Options struct {
	Screen      geom.Rect
	Window      window.Metrics
	Menu        menu.Metrics
	Desktop     desktop.Metrics
	Layout      desktop.Layout
	Shell       widgets.Metrics
	ClockFormat string
	DoubleClick time.Duration
	Theme       Theme
	Background  desktop.Background
	Icons       []IconSpec
	StartApps   []widgets.App
	Dock        []DockEntry
	Tray        []widgets.TrayItem
}

// DefaultOptions returns the built-in defaults for a screen.
func DefaultOptions(screen geom.Rect) Options {
	theme := DefaultTheme()
	return Options{
		Screen:      screen,
		Window:      window.DefaultMetrics(),
		Menu:        menu.DefaultMetrics(),
		Desktop:     desktop.DefaultMetrics(),
		Layout:      desktop.Auto,
		Shell:       widgets.DefaultMetrics(),
		ClockFormat: "15:04",
		DoubleClick: 400 * time.Millisecond,
		Theme:       theme,
		Background:  desktop.Background{Mode: desktop.Solid, Scale: desktop.Fill, Color: theme.Desktop},
	}
}

// WindowSpec describes a window to open. A zero Bounds picks a cascaded
// default position.
type WindowSpec struct {
	Title   string
	AppID   string
	Bounds  geom.Rect
	Style   window.Style
	Handler window.Handler
}

// State is the whole desktop: windows, menus, icons and shell widgets.
type State struct {
	Options Options
	Theme   Theme

	Windows *window.Stack
	Menus   *menu.Manager
	Desktop *desktop.Desktop
	Layout  widgets.Layout
	Taskbar *widgets.Taskbar
	Dock    *widgets.Dock
	Tray    *widgets.Systray
	Start   *widgets.StartMenu

	Launcher Launcher
	Session  Session
	Log      *logging.Logger

	// Pointer is the last known pointer position.
	Pointer geom.Point

	dirty   bool
	menus   contextMenus
	cascade int
	now     func() time.Time
}

// New builds a State. launcher, session and log may be nil.
func New(opts Options, launcher Launcher, session Session, log *logging.Logger) *State {
	s := &State{
		Options:  opts,
		Theme:    opts.Theme,
		Launcher: launcher,
		Session:  session,
		Log:      log,
		now:      time.Now,
		dirty:    true,
	}
	s.Layout = widgets.NewLayout(opts.Screen, opts.Shell)

	s.Windows = window.NewStack(opts.Window, s.Invalidate)
	s.Windows.SetWorkArea(s.Layout.WorkArea)
	s.Menus = menu.NewManager(opts.Menu, opts.Screen, s.Invalidate)
	s.Desktop = desktop.New(opts.Desktop, s.Layout.WorkArea, opts.Layout, s.Invalidate)
	s.Desktop.SetBackground(opts.Background)

	s.Taskbar = widgets.NewTaskbar(s.Layout, opts.ClockFormat)
	s.Tray = widgets.NewSystray(s.Layout)
	for _, it := range opts.Tray {
		s.Tray.Add(it)
	}
	s.Start = widgets.NewStartMenu(s.Layout, opts.Shell.StartWidth, opts.Shell.StartRowHeight, opts.StartApps)
	s.Start.OnLaunch = func(appID string) { _ = s.LaunchApp(appID) }
	s.Start.OnPower = func(a widgets.PowerAction) { _ = s.Power(a) }

	s.Dock = widgets.NewDock(s.Layout, opts.Shell.DockIconSize, opts.Shell.DockSpacing)
	if opts.Shell.DockEnabled {
		for _, e := range opts.Dock {
			s.Dock.Add(widgets.DockItem{
				AppID:  e.AppID,
				IconID: e.Icon,
				Name:   e.Name,
				Click:  func(it *widgets.DockItem) { s.dockClick(it) },
			})
		}
	}

	for _, ic := range opts.Icons {
		if _, err := s.AddIcon(ic); err != nil {
			break
		}
	}
	s.buildMenus()
	s.Taskbar.SetClock(s.now())
	return s
}

// Teardown destroys every window and menu without consulting handlers.
// Calling it twice is harmless.
func (s *State) Teardown() {
	for _, id := range s.Windows.Order() {
		s.Windows.Destroy(id)
	}
	s.Menus.CloseAll()
	s.menus.destroy(s.Menus)
	s.Start.Hide()
	s.Invalidate()
}

// Resize lays the desktop out for a new screen size. Open menus and the start
// menu are closed; windows are kept inside the new work area.
func (s *State) Resize(screen geom.Rect) {
	if screen.Empty() || screen == s.Options.Screen {
		return
	}
	s.Options.Screen = screen
	s.Layout = widgets.NewLayout(screen, s.Options.Shell)

	s.Menus.CloseAll()
	s.Menus.SetScreen(screen)
	s.Start.Hide()
	s.Start.SetLayout(s.Layout)
	s.Taskbar.Layout = s.Layout
	s.Tray.Bounds = s.Layout.Tray
	s.Dock.SetLayout(s.Layout)
	s.Desktop.SetBounds(s.Layout.WorkArea)

	s.Windows.SetWorkArea(s.Layout.WorkArea)
	for _, w := range s.Windows.Windows() {
		if w.Maximized {
			s.Windows.Unmaximize(w.ID)
			s.Windows.Maximize(w.ID)
			continue
		}
		b := w.Bounds.ClampInside(s.Layout.WorkArea)
		s.Windows.Move(w.ID, b.X, b.Y)
	}
	s.Invalidate()
}

// SetClock overrides the time source.
func (s *State) SetClock(now func() time.Time) { s.now = now }

// Now returns the current time from the State's clock.
func (s *State) Now() time.Time { return s.now() }

// Invalidate marks the frame dirty.
func (s *State) Invalidate() { s.dirty = true }

// Dirty reports whether a repaint is pending.
func (s *State) Dirty() bool { return s.dirty }

// TakeDirty returns the dirty flag and clears it.
func (s *State) TakeDirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}

// OpenWindow creates, shows and focuses a window.
func (s *State) OpenWindow(spec WindowSpec) window.ID {
	b := spec.Bounds
	if b.Empty() {
		b = s.nextCascade(b)
	}
	style := spec.Style
	if style == 0 {
		style = window.Default
	}
	id := s.Windows.Create(spec.Title, b.X, b.Y, b.Width, b.Height, style)
	w, _ := s.Windows.Get(id)
	w.AppID = spec.AppID
	w.Handler = spec.Handler
	s.Windows.Show(id)
	s.refreshRunning()
	s.Log.Log(logging.ActionWindowCreate, spec.Title, map[string]any{"window": id, "app": spec.AppID})
	return id
}

// CascadeRect returns the next cascaded position for a window of the given
// size. Zero sizes use the default 320x200.
func (s *State) CascadeRect(width, height int) geom.Rect {
	return s.nextCascade(geom.Rect{Width: width, Height: height})
}

func (s *State) nextCascade(b geom.Rect) geom.Rect {
	if b.Width <= 0 {
		b.Width = 320
	}
	if b.Height <= 0 {
		b.Height = 200
	}
	step := 24
	area := s.Layout.WorkArea
	slots := max(1, min(area.Width-b.Width, area.Height-b.Height)/step)
	n := s.cascade % slots
	s.cascade++
	b.X = area.X + 40 + n*step
	b.Y = area.Y + 40 + n*step
	return b.ClampInside(area)
}

// CloseWindow asks the window's application for permission and destroys the
// window if granted.
func (s *State) CloseWindow(id window.ID) bool {
	w, ok := s.Windows.Get(id)
	if !ok || w.Style.Has(window.NoClose) {
		return false
	}
	if !w.RequestClose() {
		return false
	}
	title := w.Title
	wasFocused := false
	if f, ok := s.Windows.Focused(); ok && f == id {
		wasFocused = true
	}
	s.Windows.Destroy(id)
	if wasFocused {
		s.Windows.FocusTop()
	}
	s.refreshRunning()
	s.Log.Log(logging.ActionWindowClose, title, map[string]any{"window": id})
	return true
}

// FocusWindow restores a minimized window or raises a visible one.
func (s *State) FocusWindow(id window.ID) bool {
	w, ok := s.Windows.Get(id)
	if !ok {
		return false
	}
	s.Log.Log(logging.ActionWindowFocus, w.Title, map[string]any{"window": id})
	if w.Minimized || !w.Visible {
		return s.Windows.Restore(id)
	}
	return s.Windows.BringToFront(id)
}

// ShowDesktop minimizes every window and returns how many changed.
func (s *State) ShowDesktop() int {
	n := 0
	for _, w := range s.Windows.Windows() {
		if w.Viewable() && w.Style.Has(window.Minimizable) {
			s.Windows.Minimize(w.ID)
			n++
		}
	}
	s.Windows.ClearFocus()
	return n
}

// LaunchApp starts an app through the Launcher and bounces its dock item.
func (s *State) LaunchApp(appID string) error {
	if s.Launcher == nil {
		return ErrNoLauncher
	}
	for _, it := range s.Dock.Items {
		if it.AppID == appID {
			it.Animation, it.Frame = widgets.AnimBounce, 0
		}
	}
	s.Invalidate()
	if err := s.Launcher.Launch(appID); err != nil {
		s.Log.Log(logging.ActionLaunchFailed, appID, map[string]any{"error": err.Error()})
		return fmt.Errorf("launch %s: %w", appID, err)
	}
	s.Log.Log(logging.ActionAppLaunch, appID, nil)
	return nil
}

// dockClick raises the app's newest window when it is running, otherwise
// launches it.
func (s *State) dockClick(it *widgets.DockItem) {
	wins := s.Windows.Windows()
	for i := len(wins) - 1; i >= 0; i-- {
		if w := wins[i]; w.AppID == it.AppID && w.Visible {
			s.FocusWindow(w.ID)
			return
		}
	}
	_ = s.LaunchApp(it.AppID)
}

// Power forwards a power action to the Session.
func (s *State) Power(a widgets.PowerAction) error {
	s.Log.Log(logging.ActionPower, a.String(), nil)
	if s.Session == nil {
		return nil
	}
	return s.Session.Power(a)
}

func (s *State) refreshRunning() {
	running := make(map[string]bool)
	for _, w := range s.Windows.Windows() {
		if w.AppID != "" && w.Visible {
			running[w.AppID] = true
		}
	}
	if s.Dock.SetRunning(running) {
		s.Invalidate()
	}
}

// AddIcon puts an icon on the desktop.
func (s *State) AddIcon(spec IconSpec) (desktop.IconID, error) {
	id, err := s.Desktop.AddIcon(spec.Name, spec.Path, spec.Kind, spec.Image)
	if err != nil {
		return 0, err
	}
	s.Log.Log(logging.ActionIconAdd, spec.Name, map[string]any{"kind": spec.Kind.String()})
	return id, nil
}

// ActivateIcon opens an icon: its own double-click handler if set,
// otherwise the app it points at (applications and shortcuts), the file
// manager (folders and drives) or the notes app (files).
func (s *State) ActivateIcon(id desktop.IconID) error {
	ic, ok := s.Desktop.Icon(id)
	if !ok {
		return desktop.ErrNotFound
	}
	if ic.OnDoubleClick != nil {
		ic.OnDoubleClick(ic)
		return nil
	}
	switch ic.Kind {
	case desktop.Application, desktop.Shortcut:
		return s.LaunchApp(ic.Path)
	case desktop.Folder, desktop.Drive:
		return s.LaunchApp("files")
	default:
		return s.LaunchApp("notes")
	}
}

// ActivateSelected opens every selected icon.
func (s *State) ActivateSelected() {
	for _, id := range s.Desktop.Selected() {
		_ = s.ActivateIcon(id)
	}
}

// PasteAt pastes the clipboard at the given point.
func (s *State) PasteAt(x, y int) error {
	ids, err := s.Desktop.Paste(x, y)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		s.Log.Log(logging.ActionIconPaste, "", map[string]any{"count": len(ids)})
	}
	return nil
}

// EditKey feeds a key to the icon rename editor and logs a committed rename.
func (s *State) EditKey(ev event.Keyboard) bool {
	id, _, editing := s.Desktop.Editing()
	if !editing {
		return false
	}
	var before string
	if ic, ok := s.Desktop.Icon(id); ok {
		before = ic.Name
	}
	consumed := s.Desktop.EditKey(ev)
	if _, _, still := s.Desktop.Editing(); !still {
		if ic, ok := s.Desktop.Icon(id); ok && ic.Name != before {
			s.Log.Log(logging.ActionIconRename, ic.Name, map[string]any{"from": before})
		}
	}
	return consumed
}

// DeleteSelected removes the selected icons.
func (s *State) DeleteSelected() int {
	n := 0
	for _, id := range s.Desktop.Selected() {
		ic, _ := s.Desktop.Icon(id)
		name := ic.Name
		if s.Desktop.RemoveIcon(id) == nil {
			s.Log.Log(logging.ActionIconRemove, name, nil)
			n++
		}
	}
	return n
}

// Animate advances menu, dock and background animations by one frame.
func (s *State) Animate() bool {
	busy := s.Menus.Tick()
	if s.Dock.Tick() {
		busy = true
		s.Invalidate()
	}
	if s.Desktop.Tick() {
		busy = true
	}
	return busy
}

// UpdateClock refreshes the taskbar clock.
func (s *State) UpdateClock(now time.Time) {
	if s.Taskbar.SetClock(now) {
		s.Invalidate()
	}
}

// CancelInteractions aborts any drag, resize, rubber band or rename. It
// reports whether anything was cancelled.
func (s *State) CancelInteractions() bool {
	cancelled := s.Windows.CancelInteraction()
	if s.Desktop.CancelDrag() {
		cancelled = true
	}
	if s.Desktop.EndSelection() {
		cancelled = true
	}
	if s.Desktop.CancelRename() {
		cancelled = true
	}
	return cancelled
}
