package desktop

import (
	"strings"

	"github.com/1broseidon/termdesk/internal/event"
)

type editState struct {
	active bool
	icon   IconID
	buffer []rune
}

// Editing returns the icon being renamed and the text typed so far.
func (d *Desktop) Editing() (IconID, string, bool) {
	if !d.edit.active {
		return 0, "", false
	}
	return d.edit.icon, string(d.edit.buffer), true
}

// BeginRename enters edit mode for an icon, seeded with its current name.
func (d *Desktop) BeginRename(id IconID) bool {
	ic, ok := d.Icon(id)
	if !ok {
		return false
	}
	d.edit = editState{active: true, icon: id, buffer: []rune(ic.Name)}
	d.changed()
	return true
}

// CancelRename leaves edit mode without renaming.
func (d *Desktop) CancelRename() bool {
	if !d.edit.active {
		return false
	}
	d.edit = editState{}
	d.changed()
	return true
}

// EditKey feeds a key to edit mode. Enter commits a non-blank name, Escape
// cancels. It reports whether the key was consumed.
func (d *Desktop) EditKey(ev event.Keyboard) bool {
	if !d.edit.active {
		return false
	}
	if ev.State != event.Down {
		return true
	}
	switch ev.Key {
	case event.KeyRune:
		if ev.Mods&(event.ModCtrl|event.ModAlt) == 0 {
			d.edit.buffer = append(d.edit.buffer, ev.Rune)
		}
	case event.KeyBackspace:
		if n := len(d.edit.buffer); n > 0 {
			d.edit.buffer = d.edit.buffer[:n-1]
		}
	case event.KeyEnter:
		name := strings.TrimSpace(string(d.edit.buffer))
		id := d.edit.icon
		d.edit = editState{}
		if name != "" {
			_ = d.Rename(id, name)
		}
	case event.KeyEscape:
		d.edit = editState{}
	}
	d.changed()
	return true
}
