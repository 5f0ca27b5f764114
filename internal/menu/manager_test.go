package menu

import (
	"testing"

	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/event"
	"github.com/1broseidon/termdesk/internal/geom"
)

var testScreen = geom.Rect{Width: 1024, Height: 768}

func newManager(frames int) *Manager {
	m := DefaultMetrics()
	m.AnimationFrames = frames
	return NewManager(m, testScreen, nil)
}

func center(r geom.Rect) (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func click(mg *Manager, r geom.Rect) bool {
	x, y := center(r)
	return mg.HandleMouseClick(x, y, event.ButtonLeft)
}

func TestStateMachine_Animates(t *testing.T) {
	mg := newManager(2)
	id := mg.New("Desktop", 0)
	mg.AddItem(id, "Arrange", nil)
	m, _ := mg.Get(id)

	mg.Show(id, 10, 10)
	if m.State != AnimatingOpen || !m.Open() {
		t.Fatalf("state after Show = %v", m.State)
	}
	if !mg.Tick() {
		t.Fatalf("expected animation to continue after first tick")
	}
	mg.Tick()
	if m.State != Visible {
		t.Fatalf("state after open animation = %v", m.State)
	}

	mg.Hide(id)
	if m.State != AnimatingClose || m.Open() {
		t.Fatalf("state after Hide = %v", m.State)
	}
	if got := mg.Drawable(); len(got) != 1 || got[0] != m {
		t.Fatalf("closing menu should still be drawable, got %d menus", len(got))
	}
	mg.Tick()
	mg.Tick()
	if m.State != Hidden {
		t.Fatalf("state after close animation = %v", m.State)
	}
	if len(mg.Drawable()) != 0 {
		t.Fatalf("hidden menu still drawable")
	}
}

func TestStateMachine_ZeroFramesIsImmediate(t *testing.T) {
	mg := newManager(0)
	id := mg.New("m", 0)
	m, _ := mg.Get(id)
	mg.Show(id, 0, 0)
	if m.State != Visible {
		t.Fatalf("state = %v, want visible", m.State)
	}
	mg.Hide(id)
	if m.State != Hidden {
		t.Fatalf("state = %v, want hidden", m.State)
	}
}

func TestHide_Idempotent(t *testing.T) {
	mg := newManager(0)
	id := mg.New("m", 0)
	mg.AddItem(id, "a", nil)
	if mg.Hide(id) {
		t.Fatalf("hiding a hidden menu should be a no-op")
	}
	mg.Show(id, 0, 0)
	mg.Hide(id)
	if mg.Hide(id) {
		t.Fatalf("second Hide should be a no-op")
	}
	if mg.IsOpen() {
		t.Fatalf("active slot not cleared")
	}
}

func TestShow_OnlyOneRoot(t *testing.T) {
	mg := newManager(0)
	desk := mg.New("desktop", 0)
	app := mg.New("app", 0)
	mg.Show(desk, 0, 0)
	mg.Show(app, 50, 50)

	d, _ := mg.Get(desk)
	if d.Open() {
		t.Fatalf("showing a second root must hide the first")
	}
	if active, _ := mg.Active(); active != app {
		t.Fatalf("active = %d, want %d", active, app)
	}
}

func TestShow_ClampsOnScreen(t *testing.T) {
	mg := newManager(0)
	id := mg.New("m", 0)
	mg.AddItem(id, "item", nil)
	mg.Show(id, 1020, 760)
	m, _ := mg.Get(id)
	if m.Bounds.Right() > testScreen.Right() || m.Bounds.Bottom() > testScreen.Bottom() {
		t.Fatalf("menu off screen: %+v", m.Bounds)
	}
}

func TestSubmenu_SiblingClosesPrevious(t *testing.T) {
	mg := newManager(4)
	root := mg.New("root", 0)
	a := mg.AddSubmenu(root, "A")
	b := mg.AddSubmenu(root, "B")
	mg.AddItem(a, "a1", nil)
	mg.AddItem(b, "b1", nil)
	mg.Show(root, 100, 100)

	r, _ := mg.Get(root)
	mg.HandleMouseMove(center(r.ItemRect(0)))
	if r.ActiveSubmenu != a {
		t.Fatalf("active submenu = %d, want A=%d", r.ActiveSubmenu, a)
	}
	mg.HandleMouseMove(center(r.ItemRect(1)))

	ma, _ := mg.Get(a)
	mb, _ := mg.Get(b)
	if ma.Open() {
		t.Fatalf("submenu A still open")
	}
	if r.ActiveSubmenu != b || !mb.Open() {
		t.Fatalf("active submenu = %d, want B=%d", r.ActiveSubmenu, b)
	}
	if got := len(mg.Chain()); got != 2 {
		t.Fatalf("chain length = %d, want 2", got)
	}
	if mb.Bounds.X != r.Bounds.Right() {
		t.Fatalf("submenu not placed beside parent: %+v", mb.Bounds)
	}
}

func TestHide_ClosesDescendantsFirst(t *testing.T) {
	mg := newManager(0)
	root := mg.New("root", 0)
	child := mg.AddSubmenu(root, "child")
	grand := mg.AddSubmenu(child, "grand")
	mg.AddItem(grand, "leaf", nil)
	mg.Show(root, 0, 0)

	r, _ := mg.Get(root)
	mg.HandleMouseMove(center(r.ItemRect(0)))
	c, _ := mg.Get(child)
	mg.HandleMouseMove(center(c.ItemRect(0)))
	if len(mg.Chain()) != 3 {
		t.Fatalf("expected 3-menu chain, got %d", len(mg.Chain()))
	}

	mg.Hide(child)
	g, _ := mg.Get(grand)
	if c.Open() || g.Open() {
		t.Fatalf("descendants left open")
	}
	if r.ActiveSubmenu != 0 {
		t.Fatalf("parent still points at closed child")
	}
	if !r.Open() {
		t.Fatalf("root closed by hiding a child")
	}
}

func TestClick_ActivatesAndClosesChain(t *testing.T) {
	mg := newManager(0)
	root := mg.New("root", 0)
	sub := mg.AddSubmenu(root, "more")
	var fired []string
	mg.AddItem(sub, "deep", func(it *Item) { fired = append(fired, it.Text) })
	mg.Show(root, 0, 0)

	r, _ := mg.Get(root)
	if !click(mg, r.ItemRect(0)) {
		t.Fatalf("click on submenu item not consumed")
	}
	if !mg.IsOpen() || r.ActiveSubmenu != sub {
		t.Fatalf("clicking a submenu item must open it without closing")
	}
	s, _ := mg.Get(sub)
	x, y := center(s.ItemRect(0))
	mg.HandleMouseClick(x, y, event.ButtonLeft)
	if len(fired) != 1 || fired[0] != "deep" {
		t.Fatalf("fired = %v", fired)
	}
	if mg.IsOpen() || s.Open() || r.Open() {
		t.Fatalf("chain should be closed after activation")
	}
}

func TestClick_OutsideClosesWithoutCallbacks(t *testing.T) {
	mg := newManager(0)
	root := mg.New("root", 0)
	called := false
	mg.AddItem(root, "x", func(*Item) { called = true })
	mg.Show(root, 10, 10)

	if !mg.HandleMouseClick(900, 700, event.ButtonLeft) {
		t.Fatalf("outside click should be consumed")
	}
	if called || mg.IsOpen() {
		t.Fatalf("outside click: called=%v open=%v", called, mg.IsOpen())
	}
	if mg.HandleMouseClick(900, 700, event.ButtonLeft) {
		t.Fatalf("click with no open chain must not be consumed")
	}
}

func TestClick_SeparatorAndDisabledDoNotClose(t *testing.T) {
	mg := newManager(0)
	root := mg.New("root", TitleBar)
	mg.AddSeparator(root)
	mg.AddDisabled(root, "nope")
	mg.Show(root, 0, 0)
	r, _ := mg.Get(root)

	for _, rect := range []geom.Rect{r.TitleRect(), r.ItemRect(0), r.ItemRect(1)} {
		x, y := center(rect)
		if !mg.HandleMouseClick(x, y, event.ButtonLeft) {
			t.Fatalf("click at (%d,%d) not consumed", x, y)
		}
		if !mg.IsOpen() {
			t.Fatalf("click at (%d,%d) closed the menu", x, y)
		}
	}
}

func TestClick_CheckboxAndRadio(t *testing.T) {
	mg := newManager(0)
	root := mg.New("root", 0)
	check := mg.AddCheckbox(root, "Snap", false, nil)
	free := mg.AddRadio(root, "Free", true, nil)
	grid := mg.AddRadio(root, "Grid", false, nil)
	r, _ := mg.Get(root)

	mg.Show(root, 0, 0)
	click(mg, r.ItemRect(0))
	if !check.Checked {
		t.Fatalf("checkbox not toggled")
	}
	mg.Show(root, 0, 0)
	click(mg, r.ItemRect(2))
	if free.Checked || !grid.Checked {
		t.Fatalf("radio group: free=%v grid=%v", free.Checked, grid.Checked)
	}
}

func TestAction_MayOpenAnotherRoot(t *testing.T) {
	mg := newManager(0)
	first := mg.New("first", 0)
	second := mg.New("second", 0)
	mg.AddItem(second, "x", nil)
	mg.AddItem(first, "open second", func(*Item) { mg.Show(second, 200, 200) })
	mg.Show(first, 0, 0)

	f, _ := mg.Get(first)
	click(mg, f.ItemRect(0))
	if active, ok := mg.Active(); !ok || active != second {
		t.Fatalf("active = %d,%v, want second menu %d", active, ok, second)
	}
}

func TestFindAt_Deepest(t *testing.T) {
	mg := newManager(0)
	root := mg.New("root", 0)
	sub := mg.AddSubmenu(root, "sub")
	mg.AddItem(sub, "x", nil)
	mg.Show(root, 0, 0)
	r, _ := mg.Get(root)
	mg.HandleMouseMove(center(r.ItemRect(0)))

	s, _ := mg.Get(sub)
	if got, _ := mg.FindAt(center(s.Bounds)); got != sub {
		t.Fatalf("FindAt = %d, want submenu %d", got, sub)
	}
	if got, _ := mg.FindAt(center(r.Bounds)); got != root {
		t.Fatalf("FindAt = %d, want root %d", got, root)
	}
	if _, ok := mg.FindAt(900, 700); ok {
		t.Fatalf("FindAt outside chain should fail")
	}
}

func TestHandleKey_Navigation(t *testing.T) {
	mg := newManager(0)
	root := mg.New("root", 0)
	var got string
	mg.AddItem(root, "one", func(it *Item) { got = it.Text })
	mg.AddSeparator(root)
	mg.AddItem(root, "two", func(it *Item) { got = it.Text })
	mg.Show(root, 0, 0)
	r, _ := mg.Get(root)

	down := event.Keyboard{Key: event.KeyDown, State: event.Down}
	mg.HandleKey(down)
	mg.HandleKey(down)
	if r.Hover != 2 {
		t.Fatalf("hover = %d, want 2 (separator skipped)", r.Hover)
	}
	mg.HandleKey(event.Keyboard{Key: event.KeyEnter, State: event.Down})
	if got != "two" || mg.IsOpen() {
		t.Fatalf("enter: got=%q open=%v", got, mg.IsOpen())
	}

	mg.Show(root, 0, 0)
	mg.HandleKey(event.Keyboard{Key: event.KeyEscape, State: event.Down})
	if mg.IsOpen() {
		t.Fatalf("escape did not close the chain")
	}
	if mg.HandleKey(down) {
		t.Fatalf("keys must pass through with no open menu")
	}
}

func TestRemoveItem_DestroysSubmenu(t *testing.T) {
	mg := newManager(0)
	root := mg.New("root", 0)
	sub := mg.AddSubmenu(root, "sub")
	if !mg.RemoveItem(root, 0) {
		t.Fatalf("RemoveItem failed")
	}
	if _, ok := mg.Get(sub); ok {
		t.Fatalf("owned submenu not destroyed")
	}
	if mg.RemoveItem(root, 0) || mg.AddItem(99, "x", nil) != nil {
		t.Fatalf("invalid operations must be no-ops")
	}
}

func TestSetTitleAndItemText_Relayout(t *testing.T) {
	mg := newManager(0)
	id := mg.New("Win", TitleBar)
	it := mg.AddItem(id, "Close", nil)
	m, _ := mg.Get(id)
	narrow := m.Bounds.Width

	long := "A title far wider than the minimum menu width allows"
	if !mg.SetTitle(id, long) {
		t.Fatalf("SetTitle failed")
	}
	if m.Bounds.Width <= narrow || m.Bounds.Width < draw.TextWidth(long) {
		t.Fatalf("width %d after SetTitle, was %d", m.Bounds.Width, narrow)
	}

	mg.SetTitle(id, "Win")
	text := "An item label that is also much wider than the minimum"
	if !mg.SetItemText(id, it, text) || it.Text != text {
		t.Fatalf("SetItemText failed")
	}
	if m.Bounds.Width < draw.TextWidth(text) {
		t.Fatalf("width %d after SetItemText", m.Bounds.Width)
	}

	other := mg.New("Other", 0)
	if mg.SetItemText(other, it, "x") || mg.SetTitle(ID(999), "x") {
		t.Fatalf("foreign item or unknown menu should be rejected")
	}
}
