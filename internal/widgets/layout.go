// Package widgets holds the fixed-region shell widgets: taskbar, dock, system
// tray and start menu. They keep geometry and small item arrays and call into
// the window stack or the caller's closures; they own no windows or menus.
package widgets

import "github.com/1broseidon/termdesk/internal/geom"

// Metrics size the shell widgets.
type Metrics struct {
	TaskbarHeight  int
	DockEnabled    bool
	DockIconSize   int
	DockSpacing    int
	StartWidth     int
	StartRowHeight int
}

// DefaultMetrics matches the default config.
func DefaultMetrics() Metrics {
	return Metrics{
		TaskbarHeight:  32,
		DockEnabled:    true,
		DockIconSize:   48,
		DockSpacing:    8,
		StartWidth:     240,
		StartRowHeight: 16,
	}
}

const (
	startButtonWidth = 64
	clockWidth       = 64
	trayItemSize     = 24
	// MaxTrayItems is the capacity of the system tray.
	MaxTrayItems = 8
)

// Layout is the shell geometry derived from the screen size.
type Layout struct {
	Screen      geom.Rect
	Taskbar     geom.Rect
	StartButton geom.Rect
	Tasks       geom.Rect
	Tray        geom.Rect
	Clock       geom.Rect
	// WorkArea is the screen minus the taskbar. Maximized windows fill it.
	WorkArea geom.Rect
}

// NewLayout computes the shell geometry once for a screen.
func NewLayout(screen geom.Rect, m Metrics) Layout {
	h := min(m.TaskbarHeight, screen.Height)
	bar := geom.Rect{X: screen.X, Y: screen.Bottom() - h, Width: screen.Width, Height: h}
	clock := geom.Rect{X: bar.Right() - clockWidth, Y: bar.Y, Width: clockWidth, Height: h}
	trayW := MaxTrayItems * trayItemSize
	tray := geom.Rect{X: clock.X - trayW, Y: bar.Y, Width: trayW, Height: h}
	start := geom.Rect{X: bar.X, Y: bar.Y, Width: startButtonWidth, Height: h}
	tasks := geom.Rect{X: start.Right(), Y: bar.Y, Width: max(0, tray.X-start.Right()), Height: h}
	return Layout{
		Screen:      screen,
		Taskbar:     bar,
		StartButton: start,
		Tasks:       tasks,
		Tray:        tray,
		Clock:       clock,
		WorkArea:    geom.Rect{X: screen.X, Y: screen.Y, Width: screen.Width, Height: screen.Height - h},
	}
}
