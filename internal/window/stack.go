// Package window implements the window stack: an arena of windows keyed by ID
// plus an explicit z-order, with focus tracking and interactive move/resize.
package window

import (
	"slices"

	"github.com/1broseidon/termdesk/internal/geom"
)

// Phase is the interactive operation in progress on the stack.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMoving
	PhaseResizing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMoving:
		return "moving"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// titleGrab is how much of a window must stay inside the work area while it
// is dragged.
const titleGrab = 32

type interaction struct {
	phase  Phase
	id     ID
	anchor geom.Point
	origin geom.Rect
}

// Stack owns every window. Order()[0] is the head (topmost) window.
type Stack struct {
	metrics  Metrics
	nextID   ID
	windows  map[ID]*Window
	order    []ID
	focused  ID
	workArea geom.Rect
	drag     interaction
	onChange func()
}

// NewStack returns an empty stack. onChange, when non-nil, is called after every
// state change so the host can schedule a repaint.
func NewStack(m Metrics, onChange func()) *Stack {
	return &Stack{
		metrics:  m,
		windows:  make(map[ID]*Window),
		onChange: onChange,
	}
}

func (s *Stack) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Metrics returns the frame metrics windows are created with.
func (s *Stack) Metrics() Metrics { return s.metrics }

// SetWorkArea sets the region maximized windows fill and dragged windows stay in.
func (s *Stack) SetWorkArea(r geom.Rect) { s.workArea = r }

// WorkArea returns the current work area.
func (s *Stack) WorkArea() geom.Rect { return s.workArea }

// Create allocates a hidden window at the head of the stack.
func (s *Stack) Create(title string, x, y, w, h int, style Style) ID {
	s.nextID++
	win := &Window{
		ID:      s.nextID,
		Title:   title,
		Style:   style,
		metrics: s.metrics,
	}
	win.Bounds = geom.Rect{X: x, Y: y, Width: max(w, s.metrics.MinWidth), Height: max(h, s.metrics.MinHeight)}
	win.Restore = win.Bounds
	win.layout()

	s.windows[win.ID] = win
	s.order = slices.Insert(s.order, 0, win.ID)
	s.partition()
	s.changed()
	return win.ID
}

// Destroy unlinks a window without consulting its handler. It reports whether
// the window existed.
func (s *Stack) Destroy(id ID) bool {
	if _, ok := s.windows[id]; !ok {
		return false
	}
	delete(s.windows, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	if s.focused == id {
		s.focused = 0
	}
	if s.drag.id == id {
		s.drag = interaction{}
	}
	s.changed()
	return true
}

// Get resolves an ID.
func (s *Stack) Get(id ID) (*Window, bool) {
	w, ok := s.windows[id]
	return w, ok
}

// Len returns the number of live windows.
func (s *Stack) Len() int { return len(s.windows) }

// Order returns the z-order, head first.
func (s *Stack) Order() []ID { return slices.Clone(s.order) }

// Head returns the topmost window.
func (s *Stack) Head() (ID, bool) {
	if len(s.order) == 0 {
		return 0, false
	}
	return s.order[0], true
}

// Windows returns every window in creation order.
func (s *Stack) Windows() []*Window {
	out := make([]*Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, w)
	}
	slices.SortFunc(out, func(a, b *Window) int { return int(a.ID) - int(b.ID) })
	return out
}

// Focused returns the focused window while it is on screen. It is the head
// unless an always-on-top window is shown above it.
func (s *Stack) Focused() (ID, bool) {
	if s.focused == 0 {
		return 0, false
	}
	if w := s.windows[s.focused]; w == nil || !w.Viewable() {
		return 0, false
	}
	return s.focused, true
}

// ClearFocus drops keyboard focus without touching the z-order.
func (s *Stack) ClearFocus() {
	if s.focused != 0 {
		s.focused = 0
		s.changed()
	}
}

// Show makes a window visible and brings it to the front.
func (s *Stack) Show(id ID) bool {
	w, ok := s.windows[id]
	if !ok {
		return false
	}
	w.Visible = true
	w.Minimized = false
	s.BringToFront(id)
	return true
}

// Hide makes a window invisible. If it held focus, focus moves to the next
// window on screen.
func (s *Stack) Hide(id ID) bool {
	w, ok := s.windows[id]
	if !ok {
		return false
	}
	if !w.Visible {
		return true
	}
	w.Visible = false
	s.releaseFocus(id)
	s.changed()
	return true
}

func (s *Stack) releaseFocus(id ID) {
	if s.focused != id {
		return
	}
	s.focused = 0
	s.FocusTop()
}

// FocusTop brings the topmost on-screen window to the front, if any.
func (s *Stack) FocusTop() bool {
	for _, id := range s.order {
		if s.windows[id].Viewable() {
			return s.BringToFront(id)
		}
	}
	return false
}

// BringToFront relinks a window at the head and focuses it. Always-on-top
// windows stay ahead of normal windows.
func (s *Stack) BringToFront(id ID) bool {
	if _, ok := s.windows[id]; !ok {
		return false
	}
	if len(s.order) > 0 && s.order[0] == id {
		if s.focused != id {
			s.focused = id
			s.changed()
		}
		return true
	}
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.order = slices.Insert(s.order, 0, id)
	s.partition()
	s.focused = id
	s.changed()
	return true
}

// partition moves on-screen always-on-top windows ahead of the rest, keeping
// the relative order within each group.
func (s *Stack) partition() {
	pinned := func(id ID) bool {
		w := s.windows[id]
		return w.Style.Has(AlwaysOnTop) && w.Viewable()
	}
	slices.SortStableFunc(s.order, func(a, b ID) int {
		ta, tb := pinned(a), pinned(b)
		switch {
		case ta && !tb:
			return -1
		case tb && !ta:
			return 1
		default:
			return 0
		}
	})
}

// Move places a window's top-left corner at x, y.
func (s *Stack) Move(id ID, x, y int) bool {
	w, ok := s.windows[id]
	if !ok {
		return false
	}
	if w.Bounds.X == x && w.Bounds.Y == y {
		return true
	}
	w.Bounds.X, w.Bounds.Y = x, y
	w.layout()
	if w.Handler != nil {
		w.Handler.Move(w)
	}
	s.changed()
	return true
}

// Resize changes a window's size, clamped to the minimum size.
func (s *Stack) Resize(id ID, width, height int) bool {
	w, ok := s.windows[id]
	if !ok {
		return false
	}
	width = max(width, s.metrics.MinWidth)
	height = max(height, s.metrics.MinHeight)
	if w.Bounds.Width == width && w.Bounds.Height == height {
		return true
	}
	w.Bounds.Width, w.Bounds.Height = width, height
	w.layout()
	if w.Handler != nil {
		w.Handler.Resize(w)
	}
	s.changed()
	return true
}

// SetTitle renames a window.
func (s *Stack) SetTitle(id ID, title string) bool {
	w, ok := s.windows[id]
	if !ok {
		return false
	}
	w.Title = title
	s.changed()
	return true
}

// FindAt returns the topmost on-screen window containing the point.
func (s *Stack) FindAt(x, y int) (ID, bool) {
	for _, id := range s.order {
		w := s.windows[id]
		if w.Viewable() && w.Bounds.Contains(x, y) {
			return id, true
		}
	}
	return 0, false
}

// Modal returns the topmost on-screen modal window.
func (s *Stack) Modal() (ID, bool) {
	for _, id := range s.order {
		w := s.windows[id]
		if w.Viewable() && w.Style.Has(Modal) {
			return id, true
		}
	}
	return 0, false
}

// Minimize hides a window to the taskbar.
func (s *Stack) Minimize(id ID) bool {
	w, ok := s.windows[id]
	if !ok {
		return false
	}
	if w.Minimized {
		return true
	}
	if s.drag.id == id {
		s.CancelInteraction()
	}
	w.Minimized = true
	s.releaseFocus(id)
	s.changed()
	return true
}

// Restore undoes Minimize and brings the window to the front.
func (s *Stack) Restore(id ID) bool {
	w, ok := s.windows[id]
	if !ok {
		return false
	}
	w.Minimized = false
	w.Visible = true
	s.BringToFront(id)
	return true
}

// Maximize fills the work area, remembering the current geometry.
func (s *Stack) Maximize(id ID) bool {
	w, ok := s.windows[id]
	if !ok {
		return false
	}
	if w.Maximized || s.workArea.Empty() {
		return w.Maximized
	}
	w.Restore = w.Bounds
	w.Maximized = true
	s.setBounds(w, s.workArea)
	return true
}

// Unmaximize returns a maximized window to its restore geometry.
func (s *Stack) Unmaximize(id ID) bool {
	w, ok := s.windows[id]
	if !ok || !w.Maximized {
		return false
	}
	w.Maximized = false
	s.setBounds(w, w.Restore)
	return true
}

// ToggleMaximize switches between maximized and restored geometry.
func (s *Stack) ToggleMaximize(id ID) bool {
	w, ok := s.windows[id]
	if !ok {
		return false
	}
	if w.Maximized {
		return s.Unmaximize(id)
	}
	return s.Maximize(id)
}

func (s *Stack) setBounds(w *Window, r geom.Rect) {
	moved := r.X != w.Bounds.X || r.Y != w.Bounds.Y
	resized := r.Width != w.Bounds.Width || r.Height != w.Bounds.Height
	w.Bounds = r
	w.layout()
	if w.Handler != nil {
		if moved {
			w.Handler.Move(w)
		}
		if resized {
			w.Handler.Resize(w)
		}
	}
	s.changed()
}

// CycleNext brings the bottom-most on-screen window to the front, so repeated
// calls visit every window.
func (s *Stack) CycleNext() (ID, bool) {
	for i := len(s.order) - 1; i > 0; i-- {
		id := s.order[i]
		if s.windows[id].Viewable() {
			s.BringToFront(id)
			return id, true
		}
	}
	return 0, false
}

// Interaction returns the window being moved or resized.
func (s *Stack) Interaction() (ID, Phase) {
	return s.drag.id, s.drag.phase
}

func (s *Stack) begin(id ID, phase Phase, x, y int) bool {
	w, ok := s.windows[id]
	if !ok || s.drag.phase != PhaseIdle || w.Maximized {
		return false
	}
	s.drag = interaction{phase: phase, id: id, anchor: geom.Point{X: x, Y: y}, origin: w.Bounds}
	w.Dragging = phase == PhaseMoving
	w.Resizing = phase == PhaseResizing
	s.changed()
	return true
}

// BeginDrag starts moving a window from the given pointer position.
func (s *Stack) BeginDrag(id ID, x, y int) bool {
	if w, ok := s.windows[id]; !ok || !w.Style.Has(Movable) {
		return false
	}
	return s.begin(id, PhaseMoving, x, y)
}

// UpdateDrag moves the dragged window with the pointer, keeping part of the
// title bar inside the work area.
func (s *Stack) UpdateDrag(x, y int) bool {
	if s.drag.phase != PhaseMoving {
		return false
	}
	nx := s.drag.origin.X + x - s.drag.anchor.X
	ny := s.drag.origin.Y + y - s.drag.anchor.Y
	if a := s.workArea; !a.Empty() {
		nx = min(max(nx, a.X-s.drag.origin.Width+titleGrab), a.Right()-titleGrab)
		ny = min(max(ny, a.Y), a.Bottom()-s.metrics.TitleBarHeight)
	}
	return s.Move(s.drag.id, nx, ny)
}

// EndDrag finishes a move.
func (s *Stack) EndDrag() bool {
	if s.drag.phase != PhaseMoving {
		return false
	}
	return s.finish()
}

// BeginResize starts resizing a window from the given pointer position.
func (s *Stack) BeginResize(id ID, x, y int) bool {
	if w, ok := s.windows[id]; !ok || !w.Style.Has(Resizable) {
		return false
	}
	return s.begin(id, PhaseResizing, x, y)
}

// UpdateResize grows or shrinks the window with the pointer.
func (s *Stack) UpdateResize(x, y int) bool {
	if s.drag.phase != PhaseResizing {
		return false
	}
	return s.Resize(s.drag.id,
		s.drag.origin.Width+x-s.drag.anchor.X,
		s.drag.origin.Height+y-s.drag.anchor.Y)
}

// EndResize finishes a resize.
func (s *Stack) EndResize() bool {
	if s.drag.phase != PhaseResizing {
		return false
	}
	return s.finish()
}

// CancelInteraction aborts a move or resize, restoring the original bounds.
func (s *Stack) CancelInteraction() bool {
	if s.drag.phase == PhaseIdle {
		return false
	}
	if w, ok := s.windows[s.drag.id]; ok {
		s.setBounds(w, s.drag.origin)
	}
	return s.finish()
}

func (s *Stack) finish() bool {
	if w, ok := s.windows[s.drag.id]; ok {
		w.Dragging = false
		w.Resizing = false
	}
	s.drag = interaction{}
	s.changed()
	return true
}
