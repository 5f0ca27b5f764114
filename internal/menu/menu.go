// Package menu implements nested popup menus. Menus live in a Manager arena;
// at most one root is active and the open menus always form a single
// root-to-leaf chain.
package menu

import (
	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/geom"
)

// ID identifies a menu in its Manager.
type ID uint32

// Kind is the type of a menu item.
type Kind int

const (
	Normal Kind = iota
	Separator
	Submenu
	Checkbox
	Radio
	Disabled
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Separator:
		return "separator"
	case Submenu:
		return "submenu"
	case Checkbox:
		return "checkbox"
	case Radio:
		return "radio"
	case Disabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Style is a bitmask of menu decorations.
type Style uint8

const (
	TitleBar Style = 1 << iota
	Icons
	Shadow
	Rounded
	Transparent
)

// Has reports whether every flag in f is set.
func (s Style) Has(f Style) bool { return s&f == f }

// State is the animation state of a menu.
type State int

const (
	Hidden State = iota
	AnimatingOpen
	Visible
	AnimatingClose
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case AnimatingOpen:
		return "opening"
	case Visible:
		return "visible"
	case AnimatingClose:
		return "closing"
	default:
		return "unknown"
	}
}

// Item is one menu entry.
type Item struct {
	Text    string
	Kind    Kind
	Icon    int
	Checked bool
	Enabled bool
	// Action runs when the item is activated. It receives the item so one
	// closure can serve a group of items.
	Action func(*Item)
	// Submenu is the owned child menu of a Submenu item.
	Submenu ID
}

// Selectable reports whether the item can take the highlight.
func (it *Item) Selectable() bool {
	return it.Enabled && it.Kind != Separator && it.Kind != Disabled
}

// Metrics size menu rows.
type Metrics struct {
	ItemHeight      int
	SeparatorHeight int
	MinWidth        int
	// AnimationFrames is the number of ticks an open or close animation
	// takes. Zero completes transitions immediately.
	AnimationFrames int
}

// DefaultMetrics matches the default config.
func DefaultMetrics() Metrics {
	return Metrics{ItemHeight: 16, SeparatorHeight: 8, MinWidth: 128, AnimationFrames: 4}
}

const (
	padding    = 2
	gutter     = 16
	iconColumn = 20
)

// Menu is a popup holding an ordered list of items.
type Menu struct {
	ID     ID
	Title  string
	Bounds geom.Rect
	Style  Style
	Items  []*Item

	Parent        ID
	ActiveSubmenu ID

	State State
	Frame int
	// Hover is the highlighted item index, or -1.
	Hover int

	metrics Metrics
}

// Open reports whether the menu is part of the open chain.
func (m *Menu) Open() bool {
	return m.State == AnimatingOpen || m.State == Visible
}

func (m *Menu) titleHeight() int {
	if m.Style.Has(TitleBar) {
		return m.metrics.ItemHeight
	}
	return 0
}

func (m *Menu) itemHeight(it *Item) int {
	if it.Kind == Separator {
		return m.metrics.SeparatorHeight
	}
	return m.metrics.ItemHeight
}

// layout recomputes the menu size from its items.
func (m *Menu) layout() {
	textW := draw.TextWidth(m.Title)
	h := 2*padding + m.titleHeight()
	for _, it := range m.Items {
		textW = max(textW, draw.TextWidth(it.Text))
		h += m.itemHeight(it)
	}
	w := 2*gutter + textW + 2*padding
	if m.Style.Has(Icons) {
		w += iconColumn
	}
	m.Bounds.Width = max(m.metrics.MinWidth, w)
	m.Bounds.Height = h
}

// TitleRect returns the title bar, or an empty rect.
func (m *Menu) TitleRect() geom.Rect {
	if !m.Style.Has(TitleBar) {
		return geom.Rect{}
	}
	return geom.Rect{X: m.Bounds.X + padding, Y: m.Bounds.Y + padding, Width: m.Bounds.Width - 2*padding, Height: m.titleHeight()}
}

// ItemRect returns the row of item i.
func (m *Menu) ItemRect(i int) geom.Rect {
	if i < 0 || i >= len(m.Items) {
		return geom.Rect{}
	}
	y := m.Bounds.Y + padding + m.titleHeight()
	for j := 0; j < i; j++ {
		y += m.itemHeight(m.Items[j])
	}
	return geom.Rect{X: m.Bounds.X + padding, Y: y, Width: m.Bounds.Width - 2*padding, Height: m.itemHeight(m.Items[i])}
}

// TextX returns the x coordinate item labels start at.
func (m *Menu) TextX() int {
	x := m.Bounds.X + padding + gutter
	if m.Style.Has(Icons) {
		x += iconColumn
	}
	return x
}

// ItemAt returns the index of the item row containing the point, or -1.
func (m *Menu) ItemAt(x, y int) int {
	for i := range m.Items {
		if m.ItemRect(i).Contains(x, y) {
			return i
		}
	}
	return -1
}

func (m *Menu) nextSelectable(from, step int) int {
	n := len(m.Items)
	if n == 0 {
		return -1
	}
	if from < 0 && step < 0 {
		from = 0
	}
	i := from
	for range n {
		i = (i + step + n) % n
		if m.Items[i].Selectable() {
			return i
		}
	}
	return -1
}
