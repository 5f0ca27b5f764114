package x11

import (
	"context"
	"unicode/utf8"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/termdesk/internal/event"
)

// pump turns X events on the desktop window into event.Input values.
type pump struct {
	xu  *xgbutil.XUtil
	win xproto.Window

	width, height int
}

func newPump(xu *xgbutil.XUtil, win xproto.Window) *pump {
	return &pump{xu: xu, win: win}
}

// Run processes X events until ctx is done or the server goes away.
func (s *Surface) Run(ctx context.Context, out chan<- event.Input) {
	p := s.pump
	p.width, p.height = s.width, s.height
	send := func(in event.Input) {
		select {
		case out <- in:
		case <-ctx.Done():
		}
	}
	p.connect(send)

	stop := context.AfterFunc(ctx, func() {
		xevent.Quit(p.xu)
		p.wake()
	})
	defer stop()
	defer xevent.Detach(p.xu, p.win)

	xevent.Main(p.xu)
}

// wake sends a client message to our own window so a blocked event loop
// notices Quit.
func (p *pump) wake() {
	atom, err := xprop.Atm(p.xu, "_TERMDESK_WAKE")
	if err != nil {
		return
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: p.win,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{0, 0, 0, 0, 0}),
	}
	xproto.SendEvent(p.xu.Conn(), false, p.win, xproto.EventMaskNoEvent, string(ev.Bytes()))
}

func (p *pump) connect(send func(event.Input)) {
	xu, win := p.xu, p.win

	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if m, ok := buttonEvent(ev.Detail, ev.State, ev.EventX, ev.EventY, event.Down); ok {
			send(event.Input{Kind: event.InputMouse, Mouse: m})
		}
	}).Connect(xu, win)

	xevent.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if m, ok := buttonEvent(ev.Detail, ev.State, ev.EventX, ev.EventY, event.Up); ok {
			send(event.Input{Kind: event.InputMouse, Mouse: m})
		}
	}).Connect(xu, win)

	xevent.MotionNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		send(event.Input{Kind: event.InputMouse, Mouse: motionEvent(ev.State, ev.EventX, ev.EventY)})
	}).Connect(xu, win)

	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		if k, ok := p.keyEvent(ev.Detail, ev.State, event.Down); ok {
			send(event.Input{Kind: event.InputKey, Key: k})
		}
	}).Connect(xu, win)

	xevent.KeyReleaseFun(func(xu *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		if k, ok := p.keyEvent(ev.Detail, ev.State, event.Up); ok {
			send(event.Input{Kind: event.InputKey, Key: k})
		}
	}).Connect(xu, win)

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		w, h := int(ev.Width), int(ev.Height)
		if w == p.width && h == p.height {
			return
		}
		p.width, p.height = w, h
		send(event.Input{Kind: event.InputResize, Width: w, Height: h})
	}).Connect(xu, win)

	// An exposed window only needs the back buffer copied again; a resize
	// input with the current size makes the host repaint.
	xevent.ExposeFun(func(xu *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count == 0 {
			send(event.Input{Kind: event.InputResize, Width: p.width, Height: p.height})
		}
	}).Connect(xu, win)

	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if p.isDeleteWindow(ev) {
			send(event.Input{Kind: event.InputQuit})
		}
	}).Connect(xu, win)
}

func (p *pump) isDeleteWindow(ev xevent.ClientMessageEvent) bool {
	protocols, err := xprop.Atm(p.xu, "WM_PROTOCOLS")
	if err != nil || ev.Type != protocols {
		return false
	}
	del, err := xprop.Atm(p.xu, "WM_DELETE_WINDOW")
	if err != nil {
		return false
	}
	return ev.Data.Data32[0] == uint32(del)
}

func (p *pump) keyEvent(code xproto.Keycode, state uint16, phase event.State) (event.Keyboard, bool) {
	name := keybind.LookupString(p.xu, state, code)
	if name == "" {
		name = keybind.KeysymToStr(keybind.KeysymGet(p.xu, code, 0))
	}
	key, r, ok := keyFromName(name)
	if !ok {
		return event.Keyboard{}, false
	}
	return event.Keyboard{Key: key, Rune: r, Mods: modifiers(state), State: phase}, true
}

func modifiers(state uint16) event.Modifiers {
	var m event.Modifiers
	if state&xproto.ModMaskShift != 0 {
		m |= event.ModShift
	}
	if state&xproto.ModMaskControl != 0 {
		m |= event.ModCtrl
	}
	if state&xproto.ModMask1 != 0 {
		m |= event.ModAlt
	}
	if state&xproto.ModMask4 != 0 {
		m |= event.ModSuper
	}
	return m
}

// buttonEvent maps a core button number. Buttons 4 and 5 are the wheel and
// only produce an event on press.
func buttonEvent(detail xproto.Button, state uint16, x, y int16, phase event.State) (event.Mouse, bool) {
	m := event.Mouse{X: int(x), Y: int(y), State: phase, Mods: modifiers(state)}
	switch detail {
	case xproto.ButtonIndex1:
		m.Buttons = event.ButtonLeft
	case xproto.ButtonIndex2:
		m.Buttons = event.ButtonMiddle
	case xproto.ButtonIndex3:
		m.Buttons = event.ButtonRight
	case xproto.ButtonIndex4:
		m.Buttons = event.WheelUp
	case xproto.ButtonIndex5:
		m.Buttons = event.WheelDown
	default:
		return m, false
	}
	if phase == event.Up && m.Buttons&(event.WheelUp|event.WheelDown) != 0 {
		return m, false
	}
	return m, true
}

func motionEvent(state uint16, x, y int16) event.Mouse {
	m := event.Mouse{X: int(x), Y: int(y), State: event.Move, Mods: modifiers(state)}
	if state&xproto.KeyButMaskButton1 != 0 {
		m.Buttons |= event.ButtonLeft
	}
	if state&xproto.KeyButMaskButton2 != 0 {
		m.Buttons |= event.ButtonMiddle
	}
	if state&xproto.KeyButMaskButton3 != 0 {
		m.Buttons |= event.ButtonRight
	}
	return m
}

var namedKeys = map[string]event.Key{
	"Return":    event.KeyEnter,
	"KP_Enter":  event.KeyEnter,
	"Escape":    event.KeyEscape,
	"BackSpace": event.KeyBackspace,
	"Delete":    event.KeyDelete,
	"Tab":       event.KeyTab,
	"Up":        event.KeyUp,
	"Down":      event.KeyDown,
	"Left":      event.KeyLeft,
	"Right":     event.KeyRight,
	"Home":      event.KeyHome,
	"End":       event.KeyEnd,
	"F2":        event.KeyF2,
	"F4":        event.KeyF4,
	"F5":        event.KeyF5,
	"Super_L":   event.KeySuper,
	"Super_R":   event.KeySuper,
}

var namedRunes = map[string]rune{
	"space":        ' ',
	"period":       '.',
	"comma":        ',',
	"minus":        '-',
	"underscore":   '_',
	"slash":        '/',
	"backslash":    '\\',
	"colon":        ':',
	"semicolon":    ';',
	"apostrophe":   '\'',
	"quotedbl":     '"',
	"equal":        '=',
	"plus":         '+',
	"asterisk":     '*',
	"exclam":       '!',
	"question":     '?',
	"at":           '@',
	"numbersign":   '#',
	"dollar":       '$',
	"percent":      '%',
	"ampersand":    '&',
	"parenleft":    '(',
	"parenright":   ')',
	"bracketleft":  '[',
	"bracketright": ']',
	"braceleft":    '{',
	"braceright":   '}',
	"less":         '<',
	"greater":      '>',
	"bar":          '|',
	"asciitilde":   '~',
	"grave":        '`',
	"asciicircum":  '^',
}

// keyFromName maps a keysym name to a desktop key.
func keyFromName(name string) (event.Key, rune, bool) {
	if k, ok := namedKeys[name]; ok {
		return k, 0, true
	}
	if r, ok := namedRunes[name]; ok {
		return event.KeyRune, r, true
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return event.KeyRune, r, true
	}
	return event.KeyNone, 0, false
}
