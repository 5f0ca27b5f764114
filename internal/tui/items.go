package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/1broseidon/termdesk/internal/ipc"
)

// windowItem implements list.Item for one window.
type windowItem struct{ w ipc.WindowInfo }

func (i windowItem) Title() string {
	var flags []string
	if i.w.Focused {
		flags = append(flags, "focused")
	}
	if i.w.Minimized {
		flags = append(flags, "minimized")
	}
	if i.w.Maximized {
		flags = append(flags, "maximized")
	}
	if i.w.Modal {
		flags = append(flags, "modal")
	}
	if !i.w.Visible {
		flags = append(flags, "hidden")
	}
	title := i.w.Title
	if len(flags) > 0 {
		title += " [" + strings.Join(flags, ",") + "]"
	}
	return title
}

func (i windowItem) Description() string {
	app := i.w.App
	if app == "" {
		app = "-"
	}
	return fmt.Sprintf("#%d  app:%s  %dx%d+%d+%d", i.w.ID, app, i.w.Width, i.w.Height, i.w.X, i.w.Y)
}

func (i windowItem) FilterValue() string { return i.w.Title + " " + i.w.App }

// appItem implements list.Item for one configured app.
type appItem struct{ a ipc.AppInfo }

func (i appItem) Title() string {
	if i.a.Running {
		return "* " + i.a.Name
	}
	return "  " + i.a.Name
}

func (i appItem) Description() string {
	kind := "external"
	if i.a.Builtin {
		kind = "builtin"
	}
	return fmt.Sprintf("%s  %s", i.a.ID, kind)
}

func (i appItem) FilterValue() string { return i.a.ID + " " + i.a.Name }

// iconItem implements list.Item for one desktop icon.
type iconItem struct{ ic ipc.IconInfo }

func (i iconItem) Title() string {
	if i.ic.Selected {
		return i.ic.Name + " [selected]"
	}
	return i.ic.Name
}

func (i iconItem) Description() string {
	return fmt.Sprintf("%s  %s  at %d,%d", i.ic.Kind, i.ic.Path, i.ic.X, i.ic.Y)
}

func (i iconItem) FilterValue() string { return i.ic.Name }

func windowItems(ws []ipc.WindowInfo) []list.Item {
	items := make([]list.Item, 0, len(ws))
	for _, w := range ws {
		items = append(items, windowItem{w})
	}
	return items
}

func appItems(as []ipc.AppInfo) []list.Item {
	items := make([]list.Item, 0, len(as))
	for _, a := range as {
		items = append(items, appItem{a})
	}
	return items
}

func iconItems(ics []ipc.IconInfo) []list.Item {
	items := make([]list.Item, 0, len(ics))
	for _, ic := range ics {
		items = append(items, iconItem{ic})
	}
	return items
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}
