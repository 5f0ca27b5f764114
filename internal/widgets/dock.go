package widgets

import "github.com/1broseidon/termdesk/internal/geom"

// ItemState is the display state of a dock item.
type ItemState int

const (
	StateNormal ItemState = iota
	StateHover
	StateActive
	StateRunning
)

func (s ItemState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateHover:
		return "hover"
	case StateActive:
		return "active"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Animation is the effect currently playing on a dock item.
type Animation int

const (
	AnimNone Animation = iota
	AnimHover
	AnimBounce
	AnimZoom
)

// animationFrames is how many ticks each animation lasts.
var animationFrames = map[Animation]int{
	AnimHover:  4,
	AnimBounce: 12,
	AnimZoom:   6,
}

// DockItem is one launcher slot.
type DockItem struct {
	AppID     string
	IconID    int
	Name      string
	State     ItemState
	Animation Animation
	Frame     int
	Running   bool
	Click     func(*DockItem)
}

// Dock is the launcher strip centered above the taskbar.
type Dock struct {
	Bounds   geom.Rect
	IconSize int
	Spacing  int
	Items    []*DockItem

	area  geom.Rect
	hover int
}

// NewDock returns an empty dock placed above the taskbar of l.
func NewDock(l Layout, iconSize, spacing int) *Dock {
	d := &Dock{IconSize: iconSize, Spacing: spacing, area: l.WorkArea, hover: -1}
	d.layout()
	return d
}

// SetLayout re-centers the dock after a screen change.
func (d *Dock) SetLayout(l Layout) {
	d.area = l.WorkArea
	d.layout()
}

func (d *Dock) pitch() int { return d.IconSize + d.Spacing }

func (d *Dock) layout() {
	w := len(d.Items) * d.pitch()
	d.Bounds = geom.Rect{
		X:      d.area.X + (d.area.Width-w)/2,
		Y:      d.area.Bottom() - d.IconSize - d.Spacing,
		Width:  w,
		Height: d.IconSize,
	}
}

// Add appends an item and re-centers the dock.
func (d *Dock) Add(it DockItem) *DockItem {
	item := it
	d.Items = append(d.Items, &item)
	d.layout()
	return &item
}

// Index maps a point to an item: (x - X) / (IconSize + Spacing), valid while
// it is below the item count.
func (d *Dock) Index(x, y int) (int, bool) {
	if len(d.Items) == 0 || y < d.Bounds.Y || y >= d.Bounds.Bottom() || x < d.Bounds.X {
		return -1, false
	}
	i := (x - d.Bounds.X) / d.pitch()
	if i >= len(d.Items) {
		return -1, false
	}
	return i, true
}

// ItemRect returns the icon rect of item i.
func (d *Dock) ItemRect(i int) geom.Rect {
	return geom.Rect{X: d.Bounds.X + i*d.pitch(), Y: d.Bounds.Y, Width: d.IconSize, Height: d.IconSize}
}

// Contains reports whether the point is over an item.
func (d *Dock) Contains(x, y int) bool {
	_, ok := d.Index(x, y)
	return ok
}

func (d *Dock) restState(it *DockItem) ItemState {
	if it.Running {
		return StateRunning
	}
	return StateNormal
}

// Hover updates the hover highlight and reports whether it changed.
func (d *Dock) Hover(x, y int) bool {
	i, _ := d.Index(x, y)
	if i == d.hover {
		return false
	}
	if d.hover >= 0 && d.hover < len(d.Items) {
		prev := d.Items[d.hover]
		prev.State = d.restState(prev)
	}
	d.hover = i
	if i >= 0 {
		it := d.Items[i]
		it.State = StateHover
		if it.Animation == AnimNone {
			it.Animation, it.Frame = AnimHover, 0
		}
	}
	return true
}

// Click activates the item under the point, starting its bounce.
func (d *Dock) Click(x, y int) bool {
	i, ok := d.Index(x, y)
	if !ok {
		return false
	}
	it := d.Items[i]
	it.State = StateActive
	it.Animation, it.Frame = AnimBounce, 0
	if it.Click != nil {
		it.Click(it)
	}
	return true
}

// SetRunning marks items whose app has open windows.
func (d *Dock) SetRunning(running map[string]bool) bool {
	changed := false
	for i, it := range d.Items {
		r := running[it.AppID]
		if it.Running != r {
			it.Running = r
			changed = true
		}
		if i != d.hover && it.State != StateActive {
			it.State = d.restState(it)
		}
	}
	return changed
}

// Tick advances item animations and reports whether any is still playing.
func (d *Dock) Tick() bool {
	playing := false
	for i, it := range d.Items {
		if it.Animation == AnimNone {
			continue
		}
		it.Frame++
		if it.Frame >= animationFrames[it.Animation] {
			it.Animation, it.Frame = AnimNone, 0
			if it.State == StateActive && i != d.hover {
				it.State = d.restState(it)
			}
			continue
		}
		playing = true
	}
	return playing
}

// Lift is how far an item is raised by its animation, in pixels.
func (d *Dock) Lift(it *DockItem) int {
	switch it.Animation {
	case AnimHover, AnimZoom:
		return 2
	case AnimBounce:
		// Up and down twice over the animation.
		half := animationFrames[AnimBounce] / 4
		p := it.Frame % (2 * half)
		if p > half {
			p = 2*half - p
		}
		return p * d.Spacing / max(1, half)
	default:
		return 0
	}
}
