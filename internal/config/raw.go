package config

import (
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// Raw types mirror Config with pointer fields so a later file only replaces
// the keys it actually sets. Lists replace wholesale; maps merge by key.

type RawSize struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawWindowConfig struct {
	TitleBarHeight *int `yaml:"title_bar_height"`
	BorderWidth    *int `yaml:"border_width"`
	MinWidth       *int `yaml:"min_width"`
	MinHeight      *int `yaml:"min_height"`
}

type RawMenuConfig struct {
	AnimationFrames *int `yaml:"animation_frames"`
	ItemHeight      *int `yaml:"item_height"`
	SeparatorHeight *int `yaml:"separator_height"`
	MinWidth        *int `yaml:"min_width"`
}

type RawDesktopConfig struct {
	Layout        *string      `yaml:"layout"`
	IconSize      *int         `yaml:"icon_size"`
	LabelHeight   *int         `yaml:"label_height"`
	GridWidth     *int         `yaml:"grid_width"`
	GridHeight    *int         `yaml:"grid_height"`
	Margin        *int         `yaml:"margin"`
	DoubleClickMS *int         `yaml:"double_click_ms"`
	PasteCascade  *int         `yaml:"paste_cascade"`
	Icons         []IconConfig `yaml:"icons"`
}

type RawBackgroundConfig struct {
	Mode             *string `yaml:"mode"`
	Scale            *string `yaml:"scale"`
	Color            *string `yaml:"color"`
	Wallpapers       []int   `yaml:"wallpapers"`
	SlideshowSeconds *int    `yaml:"slideshow_seconds"`
}

type RawTaskbarConfig struct {
	Height      *int    `yaml:"height"`
	ClockFormat *string `yaml:"clock_format"`
}

type RawDockConfig struct {
	Enabled  *bool            `yaml:"enabled"`
	IconSize *int             `yaml:"icon_size"`
	Spacing  *int             `yaml:"spacing"`
	Items    []DockItemConfig `yaml:"items"`
}

type RawSystrayConfig struct {
	Items []TrayItemConfig `yaml:"items"`
}

type RawStartMenuConfig struct {
	Width     *int     `yaml:"width"`
	RowHeight *int     `yaml:"row_height"`
	Apps      []string `yaml:"apps"`
}

type RawTimersConfig struct {
	FrameMS *int `yaml:"frame_ms"`
	ClockMS *int `yaml:"clock_ms"`
}

type RawConfig struct {
	Include    IncludeList          `yaml:"include"`
	Backend    *string              `yaml:"backend"`
	Display    *string              `yaml:"display"`
	Screen     *RawSize             `yaml:"screen"`
	Cell       *RawSize             `yaml:"cell"`
	LogLevel   *string              `yaml:"log_level"`
	Logging    *RawLoggingConfig    `yaml:"logging"`
	Theme      map[string]string    `yaml:"theme"`
	Window     *RawWindowConfig     `yaml:"window"`
	Menu       *RawMenuConfig       `yaml:"menu"`
	Desktop    *RawDesktopConfig    `yaml:"desktop"`
	Background *RawBackgroundConfig `yaml:"background"`
	Taskbar    *RawTaskbarConfig    `yaml:"taskbar"`
	Dock       *RawDockConfig       `yaml:"dock"`
	Systray    *RawSystrayConfig    `yaml:"systray"`
	StartMenu  *RawStartMenuConfig  `yaml:"start_menu"`
	Apps       map[string]AppConfig `yaml:"apps"`
	Timers     *RawTimersConfig     `yaml:"timers"`
}

// pick returns overlay when it is set, base otherwise.
func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}

func pickSlice[T any](base, overlay []T) []T {
	if overlay != nil {
		return overlay
	}
	return base
}

// mergeSection merges two optional sections field by field.
func mergeSection[T any](base, overlay *T, fields func(out *T, overlay T)) *T {
	switch {
	case overlay == nil:
		return base
	case base == nil:
		return overlay
	}
	out := *base
	fields(&out, *overlay)
	return &out
}

func mergeStringMap(base, overlay map[string]string) map[string]string {
	if overlay == nil {
		return base
	}
	out := make(map[string]string, len(base)+len(overlay))
	maps.Copy(out, base)
	maps.Copy(out, overlay)
	return out
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	out.Backend = pick(c.Backend, overlay.Backend)
	out.Display = pick(c.Display, overlay.Display)
	out.LogLevel = pick(c.LogLevel, overlay.LogLevel)

	out.Screen = mergeSection(c.Screen, overlay.Screen, mergeRawSize)
	out.Cell = mergeSection(c.Cell, overlay.Cell, mergeRawSize)

	out.Logging = mergeSection(c.Logging, overlay.Logging, func(out *RawLoggingConfig, o RawLoggingConfig) {
		out.Enabled = pick(out.Enabled, o.Enabled)
		out.Level = pick(out.Level, o.Level)
		out.File = pick(out.File, o.File)
		out.MaxSizeMB = pick(out.MaxSizeMB, o.MaxSizeMB)
		out.MaxFiles = pick(out.MaxFiles, o.MaxFiles)
	})

	out.Theme = mergeStringMap(c.Theme, overlay.Theme)

	out.Window = mergeSection(c.Window, overlay.Window, func(out *RawWindowConfig, o RawWindowConfig) {
		out.TitleBarHeight = pick(out.TitleBarHeight, o.TitleBarHeight)
		out.BorderWidth = pick(out.BorderWidth, o.BorderWidth)
		out.MinWidth = pick(out.MinWidth, o.MinWidth)
		out.MinHeight = pick(out.MinHeight, o.MinHeight)
	})

	out.Menu = mergeSection(c.Menu, overlay.Menu, func(out *RawMenuConfig, o RawMenuConfig) {
		out.AnimationFrames = pick(out.AnimationFrames, o.AnimationFrames)
		out.ItemHeight = pick(out.ItemHeight, o.ItemHeight)
		out.SeparatorHeight = pick(out.SeparatorHeight, o.SeparatorHeight)
		out.MinWidth = pick(out.MinWidth, o.MinWidth)
	})

	out.Desktop = mergeSection(c.Desktop, overlay.Desktop, func(out *RawDesktopConfig, o RawDesktopConfig) {
		out.Layout = pick(out.Layout, o.Layout)
		out.IconSize = pick(out.IconSize, o.IconSize)
		out.LabelHeight = pick(out.LabelHeight, o.LabelHeight)
		out.GridWidth = pick(out.GridWidth, o.GridWidth)
		out.GridHeight = pick(out.GridHeight, o.GridHeight)
		out.Margin = pick(out.Margin, o.Margin)
		out.DoubleClickMS = pick(out.DoubleClickMS, o.DoubleClickMS)
		out.PasteCascade = pick(out.PasteCascade, o.PasteCascade)
		out.Icons = pickSlice(out.Icons, o.Icons)
	})

	out.Background = mergeSection(c.Background, overlay.Background, func(out *RawBackgroundConfig, o RawBackgroundConfig) {
		out.Mode = pick(out.Mode, o.Mode)
		out.Scale = pick(out.Scale, o.Scale)
		out.Color = pick(out.Color, o.Color)
		out.Wallpapers = pickSlice(out.Wallpapers, o.Wallpapers)
		out.SlideshowSeconds = pick(out.SlideshowSeconds, o.SlideshowSeconds)
	})

	out.Taskbar = mergeSection(c.Taskbar, overlay.Taskbar, func(out *RawTaskbarConfig, o RawTaskbarConfig) {
		out.Height = pick(out.Height, o.Height)
		out.ClockFormat = pick(out.ClockFormat, o.ClockFormat)
	})

	out.Dock = mergeSection(c.Dock, overlay.Dock, func(out *RawDockConfig, o RawDockConfig) {
		out.Enabled = pick(out.Enabled, o.Enabled)
		out.IconSize = pick(out.IconSize, o.IconSize)
		out.Spacing = pick(out.Spacing, o.Spacing)
		out.Items = pickSlice(out.Items, o.Items)
	})

	out.Systray = mergeSection(c.Systray, overlay.Systray, func(out *RawSystrayConfig, o RawSystrayConfig) {
		out.Items = pickSlice(out.Items, o.Items)
	})

	out.StartMenu = mergeSection(c.StartMenu, overlay.StartMenu, func(out *RawStartMenuConfig, o RawStartMenuConfig) {
		out.Width = pick(out.Width, o.Width)
		out.RowHeight = pick(out.RowHeight, o.RowHeight)
		out.Apps = pickSlice(out.Apps, o.Apps)
	})

	if overlay.Apps != nil {
		apps := make(map[string]AppConfig, len(c.Apps)+len(overlay.Apps))
		maps.Copy(apps, c.Apps)
		maps.Copy(apps, overlay.Apps)
		out.Apps = apps
	}

	out.Timers = mergeSection(c.Timers, overlay.Timers, func(out *RawTimersConfig, o RawTimersConfig) {
		out.FrameMS = pick(out.FrameMS, o.FrameMS)
		out.ClockMS = pick(out.ClockMS, o.ClockMS)
	})

	// Includes are resolved by the loader; only the top-level list is kept.
	out.Include = pickSlice(c.Include, overlay.Include)
	return out
}

func mergeRawSize(out *RawSize, o RawSize) {
	out.Width = pick(out.Width, o.Width)
	out.Height = pick(out.Height, o.Height)
}
