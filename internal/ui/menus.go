package ui

import (
	"strings"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/logging"
	"github.com/1broseidon/termdesk/internal/menu"
	"github.com/1broseidon/termdesk/internal/window"
)

// contextMenus are the popups the shell owns.
type contextMenus struct {
	desktop menu.ID
	icon    menu.ID
	window  menu.ID

	paste    *menu.Item
	layouts  map[desktop.Layout]*menu.Item
	bgModes  map[desktop.BackgroundMode]*menu.Item
	maximize *menu.Item

	// targets of the open icon or window menu
	iconTarget   desktop.IconID
	windowTarget window.ID
	// where the desktop menu was opened, for Paste
	pasteX, pasteY int
}

func (c *contextMenus) destroy(mg *menu.Manager) {
	for _, id := range []menu.ID{c.desktop, c.icon, c.window} {
		if id != 0 {
			mg.Destroy(id)
		}
	}
	*c = contextMenus{}
}

// logged wraps a menu action so every activation lands in the action log.
func (s *State) logged(fn func()) func(*menu.Item) {
	return func(it *menu.Item) {
		s.Log.Log(logging.ActionMenuAction, it.Text, nil)
		fn()
	}
}

func (s *State) buildMenus() {
	mg := s.Menus
	c := &s.menus

	c.desktop = mg.New("Desktop", menu.Shadow)
	mg.AddItem(c.desktop, "Arrange Icons", s.logged(s.Desktop.Arrange))
	sortBy := mg.AddSubmenu(c.desktop, "Sort By")
	mg.AddItem(sortBy, "Name", s.logged(func() { s.Desktop.SortBy(desktop.SortByName) }))
	mg.AddItem(sortBy, "Kind", s.logged(func() { s.Desktop.SortBy(desktop.SortByKind) }))
	mg.AddSeparator(c.desktop)
	c.paste = mg.AddItem(c.desktop, "Paste", s.logged(func() { _ = s.PasteAt(c.pasteX, c.pasteY) }))
	mg.AddItem(c.desktop, "Select All", s.logged(s.Desktop.SelectAll))
	mg.AddSeparator(c.desktop)

	layout := mg.AddSubmenu(c.desktop, "Layout")
	c.layouts = make(map[desktop.Layout]*menu.Item)
	for _, l := range []desktop.Layout{desktop.Free, desktop.Grid, desktop.Auto} {
		c.layouts[l] = mg.AddRadio(layout, title(l.String()), false, s.logged(func() { s.Desktop.SetLayout(l) }))
	}
	bg := mg.AddSubmenu(c.desktop, "Background")
	c.bgModes = make(map[desktop.BackgroundMode]*menu.Item)
	for _, m := range []desktop.BackgroundMode{desktop.Solid, desktop.Wallpaper, desktop.Slideshow, desktop.Animated} {
		c.bgModes[m] = mg.AddRadio(bg, title(m.String()), false, s.logged(func() {
			b := s.Desktop.Background
			b.Mode = m
			s.Desktop.SetBackground(b)
		}))
	}
	mg.AddSeparator(c.desktop)
	mg.AddItem(c.desktop, "About", s.logged(func() { _ = s.LaunchApp("about") }))

	c.icon = mg.New("Icon", menu.Shadow)
	mg.AddItem(c.icon, "Open", s.logged(func() { _ = s.ActivateIcon(c.iconTarget) }))
	mg.AddSeparator(c.icon)
	mg.AddItem(c.icon, "Cut", s.logged(func() { s.Desktop.CutSelected() }))
	mg.AddItem(c.icon, "Copy", s.logged(func() { s.Desktop.CopySelected() }))
	mg.AddItem(c.icon, "Delete", s.logged(func() { s.DeleteSelected() }))
	mg.AddSeparator(c.icon)
	mg.AddItem(c.icon, "Rename", s.logged(func() { s.Desktop.BeginRename(c.iconTarget) }))

	c.window = mg.New("Window", menu.Shadow|menu.TitleBar)
	mg.AddItem(c.window, "Minimize", s.logged(func() { s.Windows.Minimize(c.windowTarget) }))
	c.maximize = mg.AddItem(c.window, "Maximize", s.logged(func() { s.Windows.ToggleMaximize(c.windowTarget) }))
	mg.AddSeparator(c.window)
	mg.AddItem(c.window, "Close", s.logged(func() { s.CloseWindow(c.windowTarget) }))
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// OpenDesktopMenu shows the desktop context menu at x, y.
func (s *State) OpenDesktopMenu(x, y int) bool {
	c := &s.menus
	if c.desktop == 0 {
		return false
	}
	n, _ := s.Desktop.Clipboard()
	c.paste.Enabled = n > 0
	for l, it := range c.layouts {
		it.Checked = l == s.Desktop.Layout()
	}
	for m, it := range c.bgModes {
		it.Checked = m == s.Desktop.Background.Mode
	}
	c.pasteX, c.pasteY = x, y
	return s.Menus.Show(c.desktop, x, y)
}

// OpenIconMenu shows the icon context menu for id at x, y.
func (s *State) OpenIconMenu(id desktop.IconID, x, y int) bool {
	c := &s.menus
	if c.icon == 0 {
		return false
	}
	if _, ok := s.Desktop.Icon(id); !ok {
		return false
	}
	c.iconTarget = id
	return s.Menus.Show(c.icon, x, y)
}

// OpenWindowMenu shows the window menu for id at x, y.
func (s *State) OpenWindowMenu(id window.ID, x, y int) bool {
	c := &s.menus
	w, ok := s.Windows.Get(id)
	if c.window == 0 || !ok {
		return false
	}
	c.windowTarget = id
	s.Menus.SetTitle(c.window, w.Title)
	label := "Maximize"
	if w.Maximized {
		label = "Restore"
	}
	s.Menus.SetItemText(c.window, c.maximize, label)
	return s.Menus.Show(c.window, x, y)
}

// DesktopMenu returns the ID of the desktop context menu.
func (s *State) DesktopMenu() menu.ID { return s.menus.desktop }

// WindowMenu returns the ID of the window menu.
func (s *State) WindowMenu() menu.ID { return s.menus.window }

// IconMenu returns the ID of the icon context menu.
func (s *State) IconMenu() menu.ID { return s.menus.icon }
