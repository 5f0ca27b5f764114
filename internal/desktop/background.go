package desktop

import (
	"fmt"
	"slices"
	"strings"

	"github.com/1broseidon/termdesk/internal/draw"
)

// BackgroundMode selects what is painted behind the icons.
type BackgroundMode int

const (
	Solid BackgroundMode = iota
	Wallpaper
	Slideshow
	Animated
)

var backgroundNames = []string{"solid", "wallpaper", "slideshow", "animated"}

func (m BackgroundMode) String() string {
	if m >= 0 && int(m) < len(backgroundNames) {
		return backgroundNames[m]
	}
	return "unknown"
}

// ParseBackgroundMode accepts solid, wallpaper, slideshow or animated.
func ParseBackgroundMode(s string) (BackgroundMode, error) {
	if i := slices.Index(backgroundNames, strings.ToLower(strings.TrimSpace(s))); i >= 0 {
		return BackgroundMode(i), nil
	}
	return Solid, fmt.Errorf("unknown background mode %q", s)
}

// ScaleMode is how a wallpaper image fits the screen.
type ScaleMode int

const (
	Center ScaleMode = iota
	Stretch
	Tile
	Fit
	Fill
)

var scaleNames = []string{"center", "stretch", "tile", "fit", "fill"}

func (m ScaleMode) String() string {
	if m >= 0 && int(m) < len(scaleNames) {
		return scaleNames[m]
	}
	return "unknown"
}

// ParseScaleMode accepts center, stretch, tile, fit or fill.
func ParseScaleMode(s string) (ScaleMode, error) {
	if i := slices.Index(scaleNames, strings.ToLower(strings.TrimSpace(s))); i >= 0 {
		return ScaleMode(i), nil
	}
	return Fill, fmt.Errorf("unknown scale mode %q", s)
}

// Background describes the desktop backdrop. Wallpapers are icon-table image
// ids; loading real images is the backend's business.
type Background struct {
	Mode       BackgroundMode
	Scale      ScaleMode
	Color      draw.Color
	Wallpapers []int
	Current    int
	// Phase is the animated background position, 0-359.
	Phase int
}

// Wallpaper returns the image id currently shown, or -1.
func (b Background) Wallpaper() int {
	if len(b.Wallpapers) == 0 || b.Mode == Solid || b.Mode == Animated {
		return -1
	}
	return b.Wallpapers[b.Current%len(b.Wallpapers)]
}

// SetBackground replaces the backdrop.
func (d *Desktop) SetBackground(b Background) {
	if b.Current < 0 || b.Current >= max(1, len(b.Wallpapers)) {
		b.Current = 0
	}
	d.Background = b
	d.changed()
}

// Tick advances an animated background by one frame.
func (d *Desktop) Tick() bool {
	if d.Background.Mode != Animated {
		return false
	}
	d.Background.Phase = (d.Background.Phase + 1) % 360
	d.changed()
	return true
}

// NextWallpaper advances a slideshow.
func (d *Desktop) NextWallpaper() bool {
	b := &d.Background
	if b.Mode != Slideshow || len(b.Wallpapers) < 2 {
		return false
	}
	b.Current = (b.Current + 1) % len(b.Wallpapers)
	d.changed()
	return true
}
