// Package event holds the input event types shared by the router, the window
// callbacks and the backends.
package event

import "strings"

// State is the phase of an input event.
type State int

const (
	Down State = iota
	Up
	Move
)

func (s State) String() string {
	switch s {
	case Down:
		return "down"
	case Up:
		return "up"
	case Move:
		return "move"
	default:
		return "unknown"
	}
}

// Buttons is a mouse button mask.
type Buttons uint8

const (
	ButtonLeft Buttons = 1 << iota
	ButtonRight
	ButtonMiddle
	WheelUp
	WheelDown
	ButtonNone Buttons = 0
)

// Modifiers is a keyboard modifier mask.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

func (m Modifiers) String() string {
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if m&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if m&ModSuper != 0 {
		parts = append(parts, "Super")
	}
	return strings.Join(parts, "+")
}

// Key identifies a non-printable key. Printable input arrives as KeyRune with
// the rune set on the event.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyF2
	KeyF4
	KeyF5
	KeySuper
)

// Mouse is a pointer event in screen (or, for window callbacks, client)
// coordinates.
type Mouse struct {
	X       int
	Y       int
	Buttons Buttons
	State   State
	Mods    Modifiers
}

// Keyboard is a key event.
type Keyboard struct {
	Key   Key
	Rune  rune
	Mods  Modifiers
	State State
}

// Is reports whether the event is a rune key matching r case-insensitively.
func (k Keyboard) Is(r rune) bool {
	if k.Key != KeyRune {
		return false
	}
	return strings.EqualFold(string(k.Rune), string(r))
}

// InputKind tags a backend event.
type InputKind int

const (
	InputMouse InputKind = iota
	InputKey
	InputResize
	InputQuit
)

// Input is what a backend delivers to the host loop. Only the field matching
// Kind is meaningful; Width and Height are set for InputResize.
type Input struct {
	Kind   InputKind
	Mouse  Mouse
	Key    Keyboard
	Width  int
	Height int
}
