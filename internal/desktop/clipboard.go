package desktop

type clipboard struct {
	items []Icon
	cut   bool
}

// Clipboard reports how many snapshots are held and whether they came from a
// cut.
func (d *Desktop) Clipboard() (n int, cut bool) {
	return len(d.clipboard.items), d.clipboard.cut
}

func (d *Desktop) snapshotSelected() []Icon {
	var snaps []Icon
	for _, ic := range d.icons {
		if !ic.Selected {
			continue
		}
		if len(snaps) == MaxClipboardItems {
			break
		}
		snaps = append(snaps, *ic)
	}
	return snaps
}

// CopySelected snapshots the selection into the clipboard. With nothing
// selected the clipboard is left alone.
func (d *Desktop) CopySelected() int {
	snaps := d.snapshotSelected()
	if len(snaps) == 0 {
		return 0
	}
	d.clipboard = clipboard{items: snaps}
	d.changed()
	return len(snaps)
}

// CutSelected snapshots the selection and removes the originals.
func (d *Desktop) CutSelected() int {
	snaps := d.snapshotSelected()
	if len(snaps) == 0 {
		return 0
	}
	d.clipboard = clipboard{items: snaps, cut: true}
	for _, s := range snaps {
		if i := d.index(s.ID); i >= 0 {
			d.removeAt(i)
		}
	}
	if d.layout == Auto {
		d.Arrange()
	}
	d.changed()
	return len(snaps)
}

// Paste creates new icons from the clipboard at x, y, each offset by the
// cascade step, and selects them. A cut clipboard is emptied afterwards. The
// desktop is left untouched when the icons would not all fit.
func (d *Desktop) Paste(x, y int) ([]IconID, error) {
	items := d.clipboard.items
	if len(items) == 0 {
		return nil, nil
	}
	if len(d.icons)+len(items) > MaxIcons {
		return nil, ErrCapacityExceeded
	}
	for _, ic := range d.icons {
		ic.Selected = false
	}
	ids := make([]IconID, 0, len(items))
	for i, snap := range items {
		ic := d.newIcon(snap)
		step := i * d.metrics.PasteCascade
		d.place(ic, x+step, y+step)
		ic.Selected = true
		d.icons = append(d.icons, ic)
		ids = append(ids, ic.ID)
	}
	if d.clipboard.cut {
		d.clipboard = clipboard{}
	}
	if d.layout == Auto {
		d.Arrange()
	}
	d.changed()
	return ids, nil
}
