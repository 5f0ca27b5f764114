package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/widgets"
)

type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LoggingConfig configures desktop action logging.
type LoggingConfig struct {
	// Enabled turns action logging on/off
	Enabled bool `yaml:"enabled"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: ~/.local/share/termdesk/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

type WindowConfig struct {
	TitleBarHeight int `yaml:"title_bar_height"`
	BorderWidth    int `yaml:"border_width"`
	MinWidth       int `yaml:"min_width"`
	MinHeight      int `yaml:"min_height"`
}

type MenuConfig struct {
	AnimationFrames int `yaml:"animation_frames"`
	ItemHeight      int `yaml:"item_height"`
	SeparatorHeight int `yaml:"separator_height"`
	MinWidth        int `yaml:"min_width"`
}

// IconConfig places an icon on the desktop at startup.
type IconConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path,omitempty"`
	Kind string `yaml:"kind"`
	Icon int    `yaml:"icon"`
}

type DesktopConfig struct {
	Layout        string       `yaml:"layout"`
	IconSize      int          `yaml:"icon_size"`
	LabelHeight   int          `yaml:"label_height"`
	GridWidth     int          `yaml:"grid_width"`
	GridHeight    int          `yaml:"grid_height"`
	Margin        int          `yaml:"margin"`
	DoubleClickMS int          `yaml:"double_click_ms"`
	PasteCascade  int          `yaml:"paste_cascade"`
	Icons         []IconConfig `yaml:"icons"`
}

type BackgroundConfig struct {
	Mode             string `yaml:"mode"`
	Scale            string `yaml:"scale"`
	Color            string `yaml:"color"`
	Wallpapers       []int  `yaml:"wallpapers,omitempty"`
	SlideshowSeconds int    `yaml:"slideshow_seconds"`
}

type TaskbarConfig struct {
	Height int `yaml:"height"`
	// ClockFormat is a Go time layout.
	ClockFormat string `yaml:"clock_format"`
}

type DockItemConfig struct {
	App  string `yaml:"app"`
	Icon int    `yaml:"icon,omitempty"`
	Name string `yaml:"name,omitempty"`
}

type DockConfig struct {
	Enabled  bool             `yaml:"enabled"`
	IconSize int              `yaml:"icon_size"`
	Spacing  int              `yaml:"spacing"`
	Items    []DockItemConfig `yaml:"items"`
}

// TrayItemConfig is a systray icon. Clicking it launches App when set.
type TrayItemConfig struct {
	ID      string `yaml:"id"`
	Icon    int    `yaml:"icon"`
	Tooltip string `yaml:"tooltip,omitempty"`
	App     string `yaml:"app,omitempty"`
}

type SystrayConfig struct {
	Items []TrayItemConfig `yaml:"items"`
}

type StartMenuConfig struct {
	Width     int      `yaml:"width"`
	RowHeight int      `yaml:"row_height"`
	Apps      []string `yaml:"apps"`
}

// AppConfig declares a launchable application. Exactly one of Builtin and
// Command is set. Command may use {{cmd}} and {{dir}} placeholders.
type AppConfig struct {
	Name    string `yaml:"name"`
	Icon    int    `yaml:"icon,omitempty"`
	Builtin string `yaml:"builtin,omitempty"`
	Command string `yaml:"command,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

type TimersConfig struct {
	FrameMS int `yaml:"frame_ms"`
	ClockMS int `yaml:"clock_ms"`
}

type Config struct {
	Backend    string               `yaml:"backend"`
	Display    string               `yaml:"display,omitempty"`
	Screen     Size                 `yaml:"screen"`
	Cell       Size                 `yaml:"cell"`
	LogLevel   string               `yaml:"log_level"`
	Logging    LoggingConfig        `yaml:"logging"`
	Theme      map[string]string    `yaml:"theme,omitempty"`
	Window     WindowConfig         `yaml:"window"`
	Menu       MenuConfig           `yaml:"menu"`
	Desktop    DesktopConfig        `yaml:"desktop"`
	Background BackgroundConfig     `yaml:"background"`
	Taskbar    TaskbarConfig        `yaml:"taskbar"`
	Dock       DockConfig           `yaml:"dock"`
	Systray    SystrayConfig        `yaml:"systray"`
	StartMenu  StartMenuConfig      `yaml:"start_menu"`
	Apps       map[string]AppConfig `yaml:"apps"`
	Timers     TimersConfig         `yaml:"timers"`
}

// Backends accepted by the backend key.
const (
	BackendAuto  = "auto"
	BackendTcell = "tcell"
	BackendX11   = "x11"
)

// BuiltinApps lists the apps that open windows inside the desktop itself.
var BuiltinApps = []string{"about", "notes", "files", "clock"}

// ThemeKeys lists the color names accepted under theme.
var ThemeKeys = []string{
	"desktop", "window", "window_text", "border",
	"title_active", "title_inactive", "title_text",
	"taskbar", "taskbar_text", "button", "button_active",
	"menu", "menu_text", "menu_highlight", "menu_highlight_text", "menu_disabled",
	"selection", "icon_label", "dock", "shadow",
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend:  BackendAuto,
		Screen:   Size{Width: 1024, Height: 768},
		Cell:     Size{Width: 8, Height: 16},
		LogLevel: "info",
		Logging: LoggingConfig{
			Enabled:   false,
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
		Theme:  map[string]string{},
		Window: WindowConfig{TitleBarHeight: 16, BorderWidth: 1, MinWidth: 96, MinHeight: 48},
		Menu:   MenuConfig{AnimationFrames: 4, ItemHeight: 16, SeparatorHeight: 8, MinWidth: 128},
		Desktop: DesktopConfig{
			Layout:        "auto",
			IconSize:      64,
			LabelHeight:   16,
			GridWidth:     96,
			GridHeight:    96,
			Margin:        20,
			DoubleClickMS: 400,
			PasteCascade:  16,
			Icons: []IconConfig{
				{Name: "Home", Path: "~", Kind: "folder", Icon: draw.IconFolder},
				{Name: "Notes", Path: "notes", Kind: "application", Icon: draw.IconNotes},
				{Name: "Terminal", Path: "terminal", Kind: "shortcut", Icon: draw.IconTerminal},
				{Name: "Disk", Path: "/", Kind: "drive", Icon: draw.IconDrive},
			},
		},
		Background: BackgroundConfig{
			Mode:             "solid",
			Scale:            "fill",
			Color:            "#2e3440",
			SlideshowSeconds: 30,
		},
		Taskbar: TaskbarConfig{Height: 32, ClockFormat: "15:04"},
		Dock: DockConfig{
			Enabled:  true,
			IconSize: 48,
			Spacing:  8,
			Items: []DockItemConfig{
				{App: "files"},
				{App: "notes"},
				{App: "terminal"},
				{App: "about"},
			},
		},
		Systray: SystrayConfig{Items: []TrayItemConfig{
			{ID: "clock", Icon: draw.IconClock, Tooltip: "Clock", App: "clock"},
		}},
		StartMenu: StartMenuConfig{
			Width:     240,
			RowHeight: 16,
			Apps:      []string{"files", "notes", "terminal", "clock", "about"},
		},
		Apps: map[string]AppConfig{
			"about":    {Name: "About", Icon: draw.IconInfo, Builtin: "about"},
			"notes":    {Name: "Notes", Icon: draw.IconNotes, Builtin: "notes"},
			"files":    {Name: "Files", Icon: draw.IconFolder, Builtin: "files"},
			"clock":    {Name: "Clock", Icon: draw.IconClock, Builtin: "clock"},
			"terminal": {Name: "Terminal", Icon: draw.IconTerminal, Command: "x-terminal-emulator"},
		},
		Timers: TimersConfig{FrameMS: 33, ClockMS: 1000},
	}
}

// DoubleClick returns the double click interval.
func (c *Config) DoubleClick() time.Duration {
	return time.Duration(c.Desktop.DoubleClickMS) * time.Millisecond
}

// FrameInterval returns the animation tick interval.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Timers.FrameMS) * time.Millisecond
}

// ClockInterval returns the clock refresh interval.
func (c *Config) ClockInterval() time.Duration {
	return time.Duration(c.Timers.ClockMS) * time.Millisecond
}

// AppIDs returns the configured app ids, sorted.
func (c *Config) AppIDs() []string {
	ids := make([]string, 0, len(c.Apps))
	for id := range c.Apps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/termdesk/actions.log")
	} else if expanded, err := ExpandHome(cfg.File); err == nil {
		cfg.File = expanded
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

func positive(path string, v int) error {
	if v <= 0 {
		return &ValidationError{Path: path, Err: fmt.Errorf("must be > 0, got %d", v)}
	}
	return nil
}

func nonNegative(path string, v int) error {
	if v < 0 {
		return &ValidationError{Path: path, Err: fmt.Errorf("must be >= 0, got %d", v)}
	}
	return nil
}

// Validate checks the effective configuration. The first problem found is
// returned as a *ValidationError.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendTcell, BackendX11:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: auto, tcell, x11")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if err := nonNegative("logging.max_size_mb", c.Logging.MaxSizeMB); err != nil {
		return err
	}
	if err := nonNegative("logging.max_files", c.Logging.MaxFiles); err != nil {
		return err
	}

	for _, check := range []struct {
		path string
		v    int
	}{
		{"screen.width", c.Screen.Width},
		{"screen.height", c.Screen.Height},
		{"cell.width", c.Cell.Width},
		{"cell.height", c.Cell.Height},
		{"window.title_bar_height", c.Window.TitleBarHeight},
		{"window.min_width", c.Window.MinWidth},
		{"window.min_height", c.Window.MinHeight},
		{"menu.item_height", c.Menu.ItemHeight},
		{"menu.separator_height", c.Menu.SeparatorHeight},
		{"menu.min_width", c.Menu.MinWidth},
		{"desktop.icon_size", c.Desktop.IconSize},
		{"desktop.grid_width", c.Desktop.GridWidth},
		{"desktop.grid_height", c.Desktop.GridHeight},
		{"desktop.double_click_ms", c.Desktop.DoubleClickMS},
		{"background.slideshow_seconds", c.Background.SlideshowSeconds},
		{"dock.icon_size", c.Dock.IconSize},
		{"start_menu.width", c.StartMenu.Width},
		{"start_menu.row_height", c.StartMenu.RowHeight},
		{"timers.frame_ms", c.Timers.FrameMS},
		{"timers.clock_ms", c.Timers.ClockMS},
	} {
		if err := positive(check.path, check.v); err != nil {
			return err
		}
	}
	for _, check := range []struct {
		path string
		v    int
	}{
		{"window.border_width", c.Window.BorderWidth},
		{"menu.animation_frames", c.Menu.AnimationFrames},
		{"desktop.label_height", c.Desktop.LabelHeight},
		{"desktop.margin", c.Desktop.Margin},
		{"desktop.paste_cascade", c.Desktop.PasteCascade},
		{"taskbar.height", c.Taskbar.Height},
		{"dock.spacing", c.Dock.Spacing},
	} {
		if err := nonNegative(check.path, check.v); err != nil {
			return err
		}
	}
	if c.Taskbar.Height >= c.Screen.Height {
		return &ValidationError{Path: "taskbar.height", Err: fmt.Errorf("must be smaller than screen.height (%d)", c.Screen.Height)}
	}
	if strings.TrimSpace(c.Taskbar.ClockFormat) == "" {
		return &ValidationError{Path: "taskbar.clock_format", Err: fmt.Errorf("clock_format is required")}
	}

	for key, value := range c.Theme {
		if !slices.Contains(ThemeKeys, key) {
			return &ValidationError{Path: "theme." + key, Err: fmt.Errorf("unknown theme color (known: %s)", strings.Join(ThemeKeys, ", "))}
		}
		if _, err := draw.ParseColor(value); err != nil {
			return &ValidationError{Path: "theme." + key, Err: err}
		}
	}

	if _, err := desktop.ParseLayout(c.Desktop.Layout); err != nil {
		return &ValidationError{Path: "desktop.layout", Err: err}
	}
	if len(c.Desktop.Icons) > desktop.MaxIcons {
		return &ValidationError{Path: "desktop.icons", Err: fmt.Errorf("at most %d icons", desktop.MaxIcons)}
	}
	for i, ic := range c.Desktop.Icons {
		path := fmt.Sprintf("desktop.icons[%d]", i)
		if strings.TrimSpace(ic.Name) == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("name is required")}
		}
		if _, err := desktop.ParseKind(ic.Kind); err != nil {
			return &ValidationError{Path: path + ".kind", Err: err}
		}
		if err := nonNegative(path+".icon", ic.Icon); err != nil {
			return err
		}
	}

	if _, err := desktop.ParseBackgroundMode(c.Background.Mode); err != nil {
		return &ValidationError{Path: "background.mode", Err: err}
	}
	if _, err := desktop.ParseScaleMode(c.Background.Scale); err != nil {
		return &ValidationError{Path: "background.scale", Err: err}
	}
	if _, err := draw.ParseColor(c.Background.Color); err != nil {
		return &ValidationError{Path: "background.color", Err: err}
	}
	for i, w := range c.Background.Wallpapers {
		if err := nonNegative(fmt.Sprintf("background.wallpapers[%d]", i), w); err != nil {
			return err
		}
	}

	for _, id := range c.AppIDs() {
		app := c.Apps[id]
		path := "apps." + id
		if strings.TrimSpace(app.Name) == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("name is required")}
		}
		hasBuiltin, hasCommand := app.Builtin != "", strings.TrimSpace(app.Command) != ""
		if hasBuiltin == hasCommand {
			return &ValidationError{Path: path, Err: fmt.Errorf("exactly one of builtin or command is required")}
		}
		if hasBuiltin && !slices.Contains(BuiltinApps, app.Builtin) {
			return &ValidationError{Path: path + ".builtin", Err: fmt.Errorf("unknown builtin %q (known: %s)", app.Builtin, strings.Join(BuiltinApps, ", "))}
		}
	}

	for i, it := range c.Dock.Items {
		if _, ok := c.Apps[it.App]; !ok {
			return &ValidationError{Path: fmt.Sprintf("dock.items[%d].app", i), Err: fmt.Errorf("unknown app %q", it.App)}
		}
	}
	if len(c.Systray.Items) > widgets.MaxTrayItems {
		return &ValidationError{Path: "systray.items", Err: fmt.Errorf("at most %d items", widgets.MaxTrayItems)}
	}
	seen := map[string]bool{}
	for i, it := range c.Systray.Items {
		path := fmt.Sprintf("systray.items[%d]", i)
		if it.ID == "" {
			return &ValidationError{Path: path + ".id", Err: fmt.Errorf("id is required")}
		}
		if seen[it.ID] {
			return &ValidationError{Path: path + ".id", Err: fmt.Errorf("duplicate id %q", it.ID)}
		}
		seen[it.ID] = true
		if it.App != "" {
			if _, ok := c.Apps[it.App]; !ok {
				return &ValidationError{Path: path + ".app", Err: fmt.Errorf("unknown app %q", it.App)}
			}
		}
	}
	for i, id := range c.StartMenu.Apps {
		if _, ok := c.Apps[id]; !ok {
			return &ValidationError{Path: fmt.Sprintf("start_menu.apps[%d]", i), Err: fmt.Errorf("unknown app %q", id)}
		}
	}
	return nil
}
