package widgets

import "github.com/1broseidon/termdesk/internal/geom"

// TrayItem is a status icon.
type TrayItem struct {
	ID      string
	Icon    int
	Tooltip string
	Click   func(*TrayItem)
}

// Systray is the fixed row of status icons left of the clock.
type Systray struct {
	Bounds geom.Rect
	Items  []*TrayItem
}

// NewSystray returns an empty tray in the layout's tray slot.
func NewSystray(l Layout) *Systray {
	return &Systray{Bounds: l.Tray}
}

// Add appends an item, failing when the tray is full.
func (s *Systray) Add(it TrayItem) (*TrayItem, bool) {
	if len(s.Items) >= MaxTrayItems {
		return nil, false
	}
	item := it
	s.Items = append(s.Items, &item)
	return &item, true
}

// ItemRect returns the slot of item i. Items fill the tray from the right.
func (s *Systray) ItemRect(i int) geom.Rect {
	n := len(s.Items)
	x := s.Bounds.Right() - (n-i)*trayItemSize
	return geom.Rect{X: x, Y: s.Bounds.Y + (s.Bounds.Height-trayItemSize)/2, Width: trayItemSize, Height: trayItemSize}
}

// Index returns the item under the point.
func (s *Systray) Index(x, y int) (int, bool) {
	for i := range s.Items {
		if s.ItemRect(i).Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// Click runs the action of the item under the point.
func (s *Systray) Click(x, y int) bool {
	i, ok := s.Index(x, y)
	if !ok {
		return false
	}
	if it := s.Items[i]; it.Click != nil {
		it.Click(it)
	}
	return true
}
