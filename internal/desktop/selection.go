package desktop

import "github.com/1broseidon/termdesk/internal/geom"

// Selection is the rubber-band state.
type Selection struct {
	Start  geom.Point
	End    geom.Point
	Active bool

	base map[IconID]bool
}

// Rect is the normalized band.
func (s Selection) Rect() geom.Rect {
	return geom.RectFromPoints(s.Start, s.End)
}

// Drag is the icon drag state.
type Drag struct {
	Icon    IconID
	Start   geom.Point
	Current geom.Point
	Active  bool
}

// Offset is how far the pointer has moved since the drag began.
func (d Drag) Offset() geom.Point {
	return d.Current.Sub(d.Start)
}

// Selection returns the rubber-band state.
func (d *Desktop) Selection() Selection { return d.selection }

// Drag returns the icon drag state.
func (d *Desktop) Drag() Drag { return d.drag }

// BeginSelection starts a rubber band. It is refused while an icon drag is
// active.
func (d *Desktop) BeginSelection(x, y int) bool {
	if d.drag.Active {
		return false
	}
	p := geom.Point{X: x, Y: y}
	base := make(map[IconID]bool)
	for _, ic := range d.icons {
		if ic.Selected {
			base[ic.ID] = true
		}
	}
	d.selection = Selection{Start: p, End: p, Active: true, base: base}
	d.changed()
	return true
}

// UpdateSelection stretches the band to x, y and selects every icon it
// intersects. In additive mode icons outside the band keep the selection they
// had when the band began.
func (d *Desktop) UpdateSelection(x, y int, additive bool) bool {
	if !d.selection.Active {
		return false
	}
	d.selection.End = geom.Point{X: x, Y: y}
	band := d.selection.Rect()
	for _, ic := range d.icons {
		hit := ic.Visible && band.Intersects(ic.Bounds())
		if additive {
			ic.Selected = d.selection.base[ic.ID] || hit
		} else {
			ic.Selected = hit
		}
	}
	d.changed()
	return true
}

// EndSelection drops the band, keeping the selection it produced.
func (d *Desktop) EndSelection() bool {
	if !d.selection.Active {
		return false
	}
	d.selection = Selection{}
	d.changed()
	return true
}

// Selected returns the selected icons in display order.
func (d *Desktop) Selected() []IconID {
	var out []IconID
	for _, ic := range d.icons {
		if ic.Selected {
			out = append(out, ic.ID)
		}
	}
	return out
}

// SelectOnly selects one icon and clears the rest.
func (d *Desktop) SelectOnly(id IconID) bool {
	if d.index(id) < 0 {
		return false
	}
	for _, ic := range d.icons {
		ic.Selected = ic.ID == id
	}
	d.changed()
	return true
}

// ToggleSelected flips one icon's selection.
func (d *Desktop) ToggleSelected(id IconID) bool {
	ic, ok := d.Icon(id)
	if !ok {
		return false
	}
	ic.Selected = !ic.Selected
	d.changed()
	return true
}

// SelectAll selects every visible icon.
func (d *Desktop) SelectAll() {
	for _, ic := range d.icons {
		ic.Selected = ic.Visible
	}
	d.changed()
}

// ClearSelection deselects everything.
func (d *Desktop) ClearSelection() {
	for _, ic := range d.icons {
		ic.Selected = false
	}
	d.changed()
}

// BeginDrag starts dragging an icon and the rest of the selection with it.
// It is refused for non-draggable icons and while a rubber band is active.
func (d *Desktop) BeginDrag(id IconID, x, y int) bool {
	ic, ok := d.Icon(id)
	if !ok || !ic.Draggable || d.selection.Active || d.drag.Active {
		return false
	}
	if !ic.Selected {
		for _, other := range d.icons {
			other.Selected = other.ID == id
		}
	}
	p := geom.Point{X: x, Y: y}
	d.drag = Drag{Icon: id, Start: p, Current: p, Active: true}
	d.changed()
	return true
}

// UpdateDrag moves the drag ghost.
func (d *Desktop) UpdateDrag(x, y int) bool {
	if !d.drag.Active {
		return false
	}
	d.drag.Current = geom.Point{X: x, Y: y}
	d.changed()
	return true
}

// EndDrag applies the drag offset to every selected icon, keeping each one
// on the desktop and snapping to the grid in Grid layout.
func (d *Desktop) EndDrag(x, y int) bool {
	if !d.drag.Active {
		return false
	}
	d.drag.Current = geom.Point{X: x, Y: y}
	off := d.drag.Offset()
	dragged := d.drag.Icon
	d.drag = Drag{}

	for _, ic := range d.icons {
		if !ic.Selected {
			continue
		}
		nx, ny := ic.X+off.X, ic.Y+off.Y
		if d.layout == Grid {
			nx, ny = d.snap(nx, ny)
		}
		d.place(ic, nx, ny)
	}
	if ic, ok := d.Icon(dragged); ok && ic.OnDrag != nil {
		ic.OnDrag(ic, off.X, off.Y)
	}
	d.changed()
	return true
}

// CancelDrag abandons a drag without moving anything.
func (d *Desktop) CancelDrag() bool {
	if !d.drag.Active {
		return false
	}
	d.drag = Drag{}
	d.changed()
	return true
}
