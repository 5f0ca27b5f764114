package daemon

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/launcher"
	"github.com/1broseidon/termdesk/internal/menu"
	"github.com/1broseidon/termdesk/internal/ui"
	"github.com/1broseidon/termdesk/internal/widgets"
	"github.com/1broseidon/termdesk/internal/window"
)

// BuildOptions turns an effective config into ui.Options for a screen. apps
// supplies names and icons for dock and start menu entries that do not set
// their own.
func BuildOptions(cfg *config.Config, screen geom.Rect, apps []launcher.App) (ui.Options, error) {
	opts := ui.DefaultOptions(screen)

	opts.Window = window.Metrics{
		TitleBarHeight: cfg.Window.TitleBarHeight,
		BorderWidth:    cfg.Window.BorderWidth,
		MinWidth:       cfg.Window.MinWidth,
		MinHeight:      cfg.Window.MinHeight,
	}
	opts.Menu = menu.Metrics{
		ItemHeight:      cfg.Menu.ItemHeight,
		SeparatorHeight: cfg.Menu.SeparatorHeight,
		MinWidth:        cfg.Menu.MinWidth,
		AnimationFrames: cfg.Menu.AnimationFrames,
	}
	opts.Desktop = desktop.Metrics{
		IconSize:     cfg.Desktop.IconSize,
		LabelHeight:  cfg.Desktop.LabelHeight,
		GridWidth:    cfg.Desktop.GridWidth,
		GridHeight:   cfg.Desktop.GridHeight,
		Margin:       cfg.Desktop.Margin,
		PasteCascade: cfg.Desktop.PasteCascade,
	}
	layout, err := desktop.ParseLayout(cfg.Desktop.Layout)
	if err != nil {
		return opts, fmt.Errorf("desktop.layout: %w", err)
	}
	opts.Layout = layout
	opts.Shell = widgets.Metrics{
		TaskbarHeight:  cfg.Taskbar.Height,
		DockEnabled:    cfg.Dock.Enabled,
		DockIconSize:   cfg.Dock.IconSize,
		DockSpacing:    cfg.Dock.Spacing,
		StartWidth:     cfg.StartMenu.Width,
		StartRowHeight: cfg.StartMenu.RowHeight,
	}
	opts.ClockFormat = cfg.Taskbar.ClockFormat
	opts.DoubleClick = cfg.DoubleClick()

	theme := ui.DefaultTheme()
	for _, name := range slices.Sorted(maps.Keys(cfg.Theme)) {
		c, err := draw.ParseColor(cfg.Theme[name])
		if err != nil {
			return opts, fmt.Errorf("theme.%s: %w", name, err)
		}
		if !theme.Set(name, c) {
			return opts, fmt.Errorf("theme.%s: unknown color name", name)
		}
	}
	opts.Theme = theme

	bg, err := background(cfg.Background)
	if err != nil {
		return opts, err
	}
	opts.Background = bg

	for i, ic := range cfg.Desktop.Icons {
		kind, err := desktop.ParseKind(ic.Kind)
		if err != nil {
			return opts, fmt.Errorf("desktop.icons[%d].kind: %w", i, err)
		}
		opts.Icons = append(opts.Icons, ui.IconSpec{Name: ic.Name, Path: ic.Path, Kind: kind, Image: ic.Icon})
	}

	byID := make(map[string]launcher.App, len(apps))
	for _, a := range apps {
		byID[a.ID] = a
	}
	for _, id := range cfg.StartMenu.Apps {
		a := byID[id]
		opts.StartApps = append(opts.StartApps, widgets.App{ID: id, Name: cmp.Or(a.Name, id), Icon: a.Icon})
	}
	for _, it := range cfg.Dock.Items {
		a := byID[it.App]
		icon := it.Icon
		if icon == 0 {
			icon = a.Icon
		}
		opts.Dock = append(opts.Dock, ui.DockEntry{AppID: it.App, Name: cmp.Or(it.Name, a.Name, it.App), Icon: icon})
	}
	for _, it := range cfg.Systray.Items {
		opts.Tray = append(opts.Tray, widgets.TrayItem{ID: it.ID, Icon: it.Icon, Tooltip: it.Tooltip})
	}
	return opts, nil
}

func background(c config.BackgroundConfig) (desktop.Background, error) {
	mode, err := desktop.ParseBackgroundMode(c.Mode)
	if err != nil {
		return desktop.Background{}, fmt.Errorf("background.mode: %w", err)
	}
	scale, err := desktop.ParseScaleMode(c.Scale)
	if err != nil {
		return desktop.Background{}, fmt.Errorf("background.scale: %w", err)
	}
	col, err := draw.ParseColor(c.Color)
	if err != nil {
		return desktop.Background{}, fmt.Errorf("background.color: %w", err)
	}
	return desktop.Background{
		Mode:       mode,
		Scale:      scale,
		Color:      col,
		Wallpapers: slices.Clone(c.Wallpapers),
	}, nil
}
