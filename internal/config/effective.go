package config

import (
	"fmt"
	"maps"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// set copies *src into *dst when src is present.
func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// BuildEffectiveConfig applies raw over DefaultConfig. It does not validate.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	set(&cfg.Backend, raw.Backend)
	set(&cfg.Display, raw.Display)
	set(&cfg.LogLevel, raw.LogLevel)
	if raw.Screen != nil {
		set(&cfg.Screen.Width, raw.Screen.Width)
		set(&cfg.Screen.Height, raw.Screen.Height)
	}
	if raw.Cell != nil {
		set(&cfg.Cell.Width, raw.Cell.Width)
		set(&cfg.Cell.Height, raw.Cell.Height)
	}
	if l := raw.Logging; l != nil {
		set(&cfg.Logging.Enabled, l.Enabled)
		set(&cfg.Logging.Level, l.Level)
		set(&cfg.Logging.File, l.File)
		set(&cfg.Logging.MaxSizeMB, l.MaxSizeMB)
		set(&cfg.Logging.MaxFiles, l.MaxFiles)
	}
	for key, value := range raw.Theme {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, &ValidationError{Path: "theme", Err: fmt.Errorf("empty color name")}
		}
		cfg.Theme[key] = value
	}
	if w := raw.Window; w != nil {
		set(&cfg.Window.TitleBarHeight, w.TitleBarHeight)
		set(&cfg.Window.BorderWidth, w.BorderWidth)
		set(&cfg.Window.MinWidth, w.MinWidth)
		set(&cfg.Window.MinHeight, w.MinHeight)
	}
	if m := raw.Menu; m != nil {
		set(&cfg.Menu.AnimationFrames, m.AnimationFrames)
		set(&cfg.Menu.ItemHeight, m.ItemHeight)
		set(&cfg.Menu.SeparatorHeight, m.SeparatorHeight)
		set(&cfg.Menu.MinWidth, m.MinWidth)
	}
	if d := raw.Desktop; d != nil {
		set(&cfg.Desktop.Layout, d.Layout)
		set(&cfg.Desktop.IconSize, d.IconSize)
		set(&cfg.Desktop.LabelHeight, d.LabelHeight)
		set(&cfg.Desktop.GridWidth, d.GridWidth)
		set(&cfg.Desktop.GridHeight, d.GridHeight)
		set(&cfg.Desktop.Margin, d.Margin)
		set(&cfg.Desktop.DoubleClickMS, d.DoubleClickMS)
		set(&cfg.Desktop.PasteCascade, d.PasteCascade)
		if d.Icons != nil {
			cfg.Desktop.Icons = d.Icons
		}
	}
	if b := raw.Background; b != nil {
		set(&cfg.Background.Mode, b.Mode)
		set(&cfg.Background.Scale, b.Scale)
		set(&cfg.Background.Color, b.Color)
		set(&cfg.Background.SlideshowSeconds, b.SlideshowSeconds)
		if b.Wallpapers != nil {
			cfg.Background.Wallpapers = b.Wallpapers
		}
	}
	if t := raw.Taskbar; t != nil {
		set(&cfg.Taskbar.Height, t.Height)
		set(&cfg.Taskbar.ClockFormat, t.ClockFormat)
	}
	if d := raw.Dock; d != nil {
		set(&cfg.Dock.Enabled, d.Enabled)
		set(&cfg.Dock.IconSize, d.IconSize)
		set(&cfg.Dock.Spacing, d.Spacing)
		if d.Items != nil {
			cfg.Dock.Items = d.Items
		}
	}
	if s := raw.Systray; s != nil && s.Items != nil {
		cfg.Systray.Items = s.Items
	}
	if s := raw.StartMenu; s != nil {
		set(&cfg.StartMenu.Width, s.Width)
		set(&cfg.StartMenu.RowHeight, s.RowHeight)
		if s.Apps != nil {
			cfg.StartMenu.Apps = s.Apps
		}
	}
	if raw.Apps != nil {
		apps := maps.Clone(cfg.Apps)
		for id, app := range raw.Apps {
			if strings.TrimSpace(id) == "" {
				return nil, &ValidationError{Path: "apps", Err: fmt.Errorf("empty app id")}
			}
			if app.Name == "" {
				app.Name = id
			}
			apps[id] = app
		}
		cfg.Apps = apps
	}
	if t := raw.Timers; t != nil {
		set(&cfg.Timers.FrameMS, t.FrameMS)
		set(&cfg.Timers.ClockMS, t.ClockMS)
	}
	return cfg, nil
}
