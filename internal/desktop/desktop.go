// Package desktop models the icons on the desktop surface together with the
// rubber-band selection, icon drag, clipboard and background state.
package desktop

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/1broseidon/termdesk/internal/geom"
)

const (
	// MaxIcons is the capacity of the icon array.
	MaxIcons = 128
	// MaxClipboardItems caps how many icons a copy or cut keeps.
	MaxClipboardItems = 32
)

var (
	ErrCapacityExceeded = errors.New("desktop: capacity exceeded")
	ErrNotFound         = errors.New("desktop: icon not found")
)

// IconID is the stable identity of an icon. Positions in the icon array shift
// on removal; IDs do not.
type IconID uint32

// Kind is what an icon stands for.
type Kind int

const (
	File Kind = iota
	Folder
	Application
	Shortcut
	Drive
)

var kindNames = []string{"file", "folder", "application", "shortcut", "drive"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && k >= 0 {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind accepts the lower-case kind names.
func ParseKind(s string) (Kind, error) {
	if i := slices.Index(kindNames, strings.ToLower(strings.TrimSpace(s))); i >= 0 {
		return Kind(i), nil
	}
	return File, fmt.Errorf("unknown icon kind %q", s)
}

// Layout controls how icons are positioned.
type Layout int

const (
	// Free keeps icons wherever they are dropped.
	Free Layout = iota
	// Grid snaps dropped icons to the nearest grid slot.
	Grid
	// Auto re-flows every icon after each add or remove.
	Auto
)

var layoutNames = []string{"free", "grid", "auto"}

func (l Layout) String() string {
	if int(l) < len(layoutNames) && l >= 0 {
		return layoutNames[l]
	}
	return "unknown"
}

// ParseLayout accepts free, grid or auto.
func ParseLayout(s string) (Layout, error) {
	if i := slices.Index(layoutNames, strings.ToLower(strings.TrimSpace(s))); i >= 0 {
		return Layout(i), nil
	}
	return Free, fmt.Errorf("unknown layout %q", s)
}

// Icon is one desktop object.
type Icon struct {
	ID    IconID
	Kind  Kind
	Name  string
	Path  string
	Image int

	X int
	Y int

	Visible     bool
	Selected    bool
	Highlighted bool
	Draggable   bool

	OnClick       func(*Icon)
	OnDoubleClick func(*Icon)
	OnDrag        func(ic *Icon, dx, dy int)

	size  int
	label int
}

// Bounds is the image rect.
func (ic *Icon) Bounds() geom.Rect {
	return geom.Rect{X: ic.X, Y: ic.Y, Width: ic.size, Height: ic.size}
}

// LabelRect is the strip under the image holding the name.
func (ic *Icon) LabelRect() geom.Rect {
	return geom.Rect{X: ic.X, Y: ic.Y + ic.size, Width: ic.size, Height: ic.label}
}

// Box is the clickable area: the image plus its label strip.
func (ic *Icon) Box() geom.Rect {
	return ic.Bounds().Union(ic.LabelRect())
}

// Metrics size icons and the layout grid.
type Metrics struct {
	IconSize     int
	LabelHeight  int
	GridWidth    int
	GridHeight   int
	Margin       int
	PasteCascade int
}

// DefaultMetrics matches the default config.
func DefaultMetrics() Metrics {
	return Metrics{IconSize: 64, LabelHeight: 16, GridWidth: 96, GridHeight: 96, Margin: 20, PasteCascade: 16}
}

// Desktop is the aggregate of icon, selection, drag and clipboard state.
type Desktop struct {
	metrics Metrics
	bounds  geom.Rect
	layout  Layout

	icons  []*Icon
	nextID IconID

	Background Background

	selection Selection
	drag      Drag
	clipboard clipboard
	edit      editState

	onChange func()
}

// New returns an empty desktop covering bounds. onChange, when non-nil, is
// called after every state change.
func New(m Metrics, bounds geom.Rect, layout Layout, onChange func()) *Desktop {
	return &Desktop{
		metrics:    m,
		bounds:     bounds,
		layout:     layout,
		icons:      make([]*Icon, 0, MaxIcons),
		Background: Background{Mode: Solid, Scale: Fill},
		onChange:   onChange,
	}
}

func (d *Desktop) changed() {
	if d.onChange != nil {
		d.onChange()
	}
}

// Bounds is the area icons are kept inside.
func (d *Desktop) Bounds() geom.Rect { return d.bounds }

// SetBounds changes the desktop area. Auto layouts re-flow; otherwise icons
// are pulled back inside.
func (d *Desktop) SetBounds(r geom.Rect) {
	d.bounds = r
	if d.layout == Auto {
		d.Arrange()
		return
	}
	for _, ic := range d.icons {
		d.place(ic, ic.X, ic.Y)
	}
	d.changed()
}

// Metrics returns the icon metrics.
func (d *Desktop) Metrics() Metrics { return d.metrics }

// Layout returns the layout mode.
func (d *Desktop) Layout() Layout { return d.layout }

// SetLayout switches the layout mode. Switching to Auto re-flows at once.
func (d *Desktop) SetLayout(l Layout) {
	d.layout = l
	if l == Auto {
		d.Arrange()
	}
	d.changed()
}

// AddIcon appends an icon at the next free grid slot.
func (d *Desktop) AddIcon(name, path string, kind Kind, image int) (IconID, error) {
	if len(d.icons) >= MaxIcons {
		return 0, ErrCapacityExceeded
	}
	ic := d.newIcon(Icon{Name: name, Path: path, Kind: kind, Image: image})
	ic.X, ic.Y = d.freeSlot()
	d.icons = append(d.icons, ic)
	if d.layout == Auto {
		d.Arrange()
	}
	d.changed()
	return ic.ID, nil
}

// newIcon allocates a fresh identity for a copy of proto.
func (d *Desktop) newIcon(proto Icon) *Icon {
	d.nextID++
	ic := proto
	ic.ID = d.nextID
	ic.Visible = true
	ic.Draggable = true
	ic.Selected = false
	ic.Highlighted = false
	ic.size = d.metrics.IconSize
	ic.label = d.metrics.LabelHeight
	return &ic
}

func (d *Desktop) index(id IconID) int {
	return slices.IndexFunc(d.icons, func(ic *Icon) bool { return ic.ID == id })
}

// RemoveIcon deletes an icon and compacts the array.
func (d *Desktop) RemoveIcon(id IconID) error {
	i := d.index(id)
	if i < 0 {
		return ErrNotFound
	}
	d.removeAt(i)
	if d.layout == Auto {
		d.Arrange()
	}
	d.changed()
	return nil
}

func (d *Desktop) removeAt(i int) {
	id := d.icons[i].ID
	d.icons = slices.Delete(d.icons, i, i+1)
	if d.drag.Active && d.drag.Icon == id {
		d.drag = Drag{}
	}
	if d.edit.active && d.edit.icon == id {
		d.edit = editState{}
	}
}

// Icon resolves an ID.
func (d *Desktop) Icon(id IconID) (*Icon, bool) {
	if i := d.index(id); i >= 0 {
		return d.icons[i], true
	}
	return nil, false
}

// FindByName returns the first icon with the given name.
func (d *Desktop) FindByName(name string) (*Icon, bool) {
	i := slices.IndexFunc(d.icons, func(ic *Icon) bool { return ic.Name == name })
	if i < 0 {
		return nil, false
	}
	return d.icons[i], true
}

// FindByPath returns the first icon with the given path.
func (d *Desktop) FindByPath(path string) (*Icon, bool) {
	i := slices.IndexFunc(d.icons, func(ic *Icon) bool { return ic.Path == path })
	if i < 0 {
		return nil, false
	}
	return d.icons[i], true
}

// Icons returns the icons in display order (last is topmost).
func (d *Desktop) Icons() []*Icon { return slices.Clone(d.icons) }

// Len returns the number of icons.
func (d *Desktop) Len() int { return len(d.icons) }

// SetIconPosition moves one icon, keeping it inside the desktop.
func (d *Desktop) SetIconPosition(id IconID, x, y int) error {
	ic, ok := d.Icon(id)
	if !ok {
		return ErrNotFound
	}
	d.place(ic, x, y)
	d.changed()
	return nil
}

// Rename changes an icon's display name.
func (d *Desktop) Rename(id IconID, name string) error {
	ic, ok := d.Icon(id)
	if !ok {
		return ErrNotFound
	}
	ic.Name = name
	d.changed()
	return nil
}

// FindIconAt returns the topmost visible icon whose box contains the point.
func (d *Desktop) FindIconAt(x, y int) (IconID, bool) {
	for i := len(d.icons) - 1; i >= 0; i-- {
		ic := d.icons[i]
		if ic.Visible && ic.Box().Contains(x, y) {
			return ic.ID, true
		}
	}
	return 0, false
}

// SetHighlight marks the icon under the pointer. Zero clears it.
func (d *Desktop) SetHighlight(id IconID) {
	dirty := false
	for _, ic := range d.icons {
		h := ic.ID == id
		if ic.Highlighted != h {
			ic.Highlighted = h
			dirty = true
		}
	}
	if dirty {
		d.changed()
	}
}

func (d *Desktop) rows() int {
	usable := d.bounds.Height - 2*d.metrics.Margin
	return max(1, usable/max(1, d.metrics.GridHeight))
}

// slot returns the top-left of grid slot i, filled column by column.
func (d *Desktop) slot(i int) (int, int) {
	rows := d.rows()
	col, row := i/rows, i%rows
	return d.bounds.X + d.metrics.Margin + col*d.metrics.GridWidth,
		d.bounds.Y + d.metrics.Margin + row*d.metrics.GridHeight
}

func (d *Desktop) freeSlot() (int, int) {
	for i := 0; i <= len(d.icons); i++ {
		x, y := d.slot(i)
		if !slices.ContainsFunc(d.icons, func(ic *Icon) bool { return ic.X == x && ic.Y == y }) {
			return x, y
		}
	}
	return d.slot(len(d.icons))
}

// snap returns the grid slot nearest to x, y.
func (d *Desktop) snap(x, y int) (int, int) {
	gw, gh := max(1, d.metrics.GridWidth), max(1, d.metrics.GridHeight)
	col := max(0, (x-d.bounds.X-d.metrics.Margin+gw/2)/gw)
	row := min(max(0, (y-d.bounds.Y-d.metrics.Margin+gh/2)/gh), d.rows()-1)
	return d.slot(col*d.rows() + row)
}

// place moves an icon so that its box stays inside the desktop.
func (d *Desktop) place(ic *Icon, x, y int) {
	box := geom.Rect{X: x, Y: y, Width: ic.size, Height: ic.size + ic.label}.ClampInside(d.bounds)
	ic.X, ic.Y = box.X, box.Y
}

// Arrange re-flows every icon into grid slots in display order.
func (d *Desktop) Arrange() {
	for i, ic := range d.icons {
		ic.X, ic.Y = d.slot(i)
	}
	d.changed()
}

// SortKey orders icons for SortBy.
type SortKey int

const (
	SortByName SortKey = iota
	SortByKind
)

// SortBy reorders the icons and re-flows them.
func (d *Desktop) SortBy(key SortKey) {
	slices.SortStableFunc(d.icons, func(a, b *Icon) int {
		if key == SortByKind && a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	d.Arrange()
}
