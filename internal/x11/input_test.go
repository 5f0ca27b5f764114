package x11

import (
	"bytes"
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/termdesk/internal/event"
)

func TestButtonEvent(t *testing.T) {
	tests := []struct {
		name   string
		detail xproto.Button
		phase  event.State
		want   event.Buttons
		ok     bool
	}{
		{"left press", xproto.ButtonIndex1, event.Down, event.ButtonLeft, true},
		{"middle release", xproto.ButtonIndex2, event.Up, event.ButtonMiddle, true},
		{"right press", xproto.ButtonIndex3, event.Down, event.ButtonRight, true},
		{"wheel up press", xproto.ButtonIndex4, event.Down, event.WheelUp, true},
		{"wheel down release ignored", xproto.ButtonIndex5, event.Up, 0, false},
		{"extra button ignored", 8, event.Down, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := buttonEvent(tt.detail, xproto.ModMaskControl, 10, 20, tt.phase)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if m.Buttons != tt.want || m.State != tt.phase || m.X != 10 || m.Y != 20 {
				t.Fatalf("got %+v", m)
			}
			if m.Mods != event.ModCtrl {
				t.Fatalf("mods = %v", m.Mods)
			}
		})
	}
}

func TestMotionEvent_HeldButtons(t *testing.T) {
	m := motionEvent(xproto.KeyButMaskButton1|xproto.KeyButMaskButton3|xproto.ModMaskShift, 5, 6)
	if m.State != event.Move || m.Buttons != event.ButtonLeft|event.ButtonRight {
		t.Fatalf("got %+v", m)
	}
	if m.Mods != event.ModShift {
		t.Fatalf("mods = %v", m.Mods)
	}
}

func TestModifiers(t *testing.T) {
	got := modifiers(xproto.ModMask1 | xproto.ModMask4)
	if got != event.ModAlt|event.ModSuper {
		t.Fatalf("modifiers = %v", got)
	}
}

func TestKeyFromName(t *testing.T) {
	tests := []struct {
		name string
		key  event.Key
		r    rune
		ok   bool
	}{
		{"Return", event.KeyEnter, 0, true},
		{"BackSpace", event.KeyBackspace, 0, true},
		{"Super_L", event.KeySuper, 0, true},
		{"F2", event.KeyF2, 0, true},
		{"a", event.KeyRune, 'a', true},
		{"A", event.KeyRune, 'A', true},
		{"space", event.KeyRune, ' ', true},
		{"period", event.KeyRune, '.', true},
		{"Shift_L", event.KeyNone, 0, false},
		{"", event.KeyNone, 0, false},
	}
	for _, tt := range tests {
		key, r, ok := keyFromName(tt.name)
		if key != tt.key || r != tt.r || ok != tt.ok {
			t.Fatalf("keyFromName(%q) = %v %q %v", tt.name, key, r, ok)
		}
	}
}

func TestLatin1(t *testing.T) {
	want := []byte{'c', 'a', 'f', 0xe9, ' ', '?'}
	if got := latin1("café ✓"); !bytes.Equal(got, want) {
		t.Fatalf("latin1 = %v, want %v", got, want)
	}
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	if got := len(latin1(string(long))); got != 254 {
		t.Fatalf("len = %d", got)
	}
}
