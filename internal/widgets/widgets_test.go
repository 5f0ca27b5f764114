package widgets

import (
	"testing"
	"time"

	"github.com/1broseidon/termdesk/internal/event"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/window"
)

var screen = geom.Rect{Width: 1024, Height: 768}

func TestNewLayout(t *testing.T) {
	l := NewLayout(screen, DefaultMetrics())
	if want := (geom.Rect{X: 0, Y: 736, Width: 1024, Height: 32}); l.Taskbar != want {
		t.Fatalf("taskbar = %+v, want %+v", l.Taskbar, want)
	}
	if l.WorkArea.Height != 736 {
		t.Fatalf("work area = %+v", l.WorkArea)
	}
	if l.Clock.Right() != 1024 || l.Tray.Right() != l.Clock.X || l.Tasks.X != l.StartButton.Right() {
		t.Fatalf("taskbar regions misaligned: %+v", l)
	}
}

func TestDock_IndexArithmetic(t *testing.T) {
	l := NewLayout(screen, DefaultMetrics())
	d := NewDock(l, 48, 8)
	for _, id := range []string{"about", "notes", "files"} {
		d.Add(DockItem{AppID: id, Name: id})
	}
	if d.Bounds.Width != 3*56 {
		t.Fatalf("dock width = %d", d.Bounds.Width)
	}
	y := d.Bounds.Y + 10

	tests := []struct {
		name string
		x    int
		want int
		ok   bool
	}{
		{"first", d.Bounds.X, 0, true},
		{"second", d.Bounds.X + 56, 1, true},
		{"gap belongs to item", d.Bounds.X + 50, 0, true},
		{"last", d.Bounds.X + 2*56 + 10, 2, true},
		{"past end", d.Bounds.X + 3*56, -1, false},
		{"left of dock", d.Bounds.X - 1, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Index(tt.x, y)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Index(%d) = %d,%v, want %d,%v", tt.x, got, ok, tt.want, tt.ok)
			}
		})
	}
	if _, ok := d.Index(d.Bounds.X, d.Bounds.Y-1); ok {
		t.Fatalf("point above the dock matched")
	}
}

func TestDock_ClickBouncesAndAnimates(t *testing.T) {
	d := NewDock(NewLayout(screen, DefaultMetrics()), 48, 8)
	var launched string
	d.Add(DockItem{AppID: "notes", Click: func(it *DockItem) { launched = it.AppID }})

	r := d.ItemRect(0)
	if !d.Click(r.X+1, r.Y+1) {
		t.Fatalf("click missed")
	}
	it := d.Items[0]
	if launched != "notes" || it.Animation != AnimBounce || it.State != StateActive {
		t.Fatalf("launched=%q anim=%v state=%v", launched, it.Animation, it.State)
	}
	for d.Tick() {
	}
	if it.Animation != AnimNone || it.State != StateNormal {
		t.Fatalf("after animation: anim=%v state=%v", it.Animation, it.State)
	}
	d.SetRunning(map[string]bool{"notes": true})
	if it.State != StateRunning {
		t.Fatalf("state = %v, want running", it.State)
	}
}

func TestDock_Hover(t *testing.T) {
	d := NewDock(NewLayout(screen, DefaultMetrics()), 48, 8)
	d.Add(DockItem{AppID: "a"})
	d.Add(DockItem{AppID: "b"})
	r := d.ItemRect(1)

	if !d.Hover(r.X+2, r.Y+2) || d.Items[1].State != StateHover {
		t.Fatalf("hover not applied")
	}
	if d.Hover(r.X+3, r.Y+3) {
		t.Fatalf("hover over the same item should not report a change")
	}
	d.Hover(0, 0)
	if d.Items[1].State != StateNormal {
		t.Fatalf("hover not cleared: %v", d.Items[1].State)
	}
}

func TestTaskbar_ActivateTask(t *testing.T) {
	s := window.NewStack(window.DefaultMetrics(), nil)
	s.SetWorkArea(geom.Rect{Width: 1024, Height: 736})
	a := s.Create("a", 0, 0, 200, 100, window.Default)
	b := s.Create("b", 0, 0, 200, 100, window.Default)
	s.Show(a)
	s.Show(b)

	ActivateTask(s, b)
	if w, _ := s.Get(b); !w.Minimized {
		t.Fatalf("clicking the focused window's button must minimize it")
	}
	ActivateTask(s, b)
	if w, _ := s.Get(b); w.Minimized {
		t.Fatalf("clicking a minimized window's button must restore it")
	}
	if f, _ := s.Focused(); f != b {
		t.Fatalf("restored window not focused")
	}
	ActivateTask(s, a)
	if f, _ := s.Focused(); f != a {
		t.Fatalf("clicking a background window must raise it")
	}
}

func TestTaskbar_ButtonsAndClock(t *testing.T) {
	l := NewLayout(screen, DefaultMetrics())
	tb := NewTaskbar(l, "")
	s := window.NewStack(window.DefaultMetrics(), nil)
	a := s.Create("first", 0, 0, 200, 100, window.Default)
	hidden := s.Create("hidden", 0, 0, 200, 100, window.Default)
	c := s.Create("third", 0, 0, 200, 100, window.Default)
	s.Show(a)
	s.Show(c)

	buttons := tb.Buttons(s)
	if len(buttons) != 2 || buttons[0].Window != a || buttons[1].Window != c {
		t.Fatalf("buttons = %+v", buttons)
	}
	if got, ok := tb.TaskAt(s, buttons[1].Rect.X+1, buttons[1].Rect.Y+1); !ok || got != c {
		t.Fatalf("TaskAt = %d,%v", got, ok)
	}
	if _, ok := tb.TaskAt(s, 0, 0); ok {
		t.Fatalf("TaskAt outside taskbar matched")
	}
	_ = hidden

	now := time.Date(2024, 5, 1, 9, 5, 0, 0, time.UTC)
	if !tb.SetClock(now) || tb.Clock != "09:05" {
		t.Fatalf("clock = %q", tb.Clock)
	}
	if tb.SetClock(now.Add(10 * time.Second)) {
		t.Fatalf("clock reported a change within the same minute")
	}
}

func TestSystray(t *testing.T) {
	tray := NewSystray(NewLayout(screen, DefaultMetrics()))
	clicked := ""
	for i := range MaxTrayItems {
		if _, ok := tray.Add(TrayItem{ID: string(rune('a' + i)), Click: func(it *TrayItem) { clicked = it.ID }}); !ok {
			t.Fatalf("Add %d failed", i)
		}
	}
	if _, ok := tray.Add(TrayItem{ID: "overflow"}); ok {
		t.Fatalf("tray accepted more than %d items", MaxTrayItems)
	}
	r := tray.ItemRect(MaxTrayItems - 1)
	if r.Right() != tray.Bounds.Right() {
		t.Fatalf("last item not flush right: %+v", r)
	}
	tray.Click(r.X+1, r.Y+1)
	if clicked != "h" {
		t.Fatalf("clicked = %q", clicked)
	}
}

func newStartMenu() *StartMenu {
	return NewStartMenu(NewLayout(screen, DefaultMetrics()), 240, 16, []App{
		{ID: "about", Name: "About"},
		{ID: "notes", Name: "Notes"},
		{ID: "files", Name: "File Manager"},
	})
}

func TestStartMenu_RowsAndClick(t *testing.T) {
	sm := newStartMenu()
	var launched string
	var power PowerAction = -1
	sm.OnLaunch = func(id string) { launched = id }
	sm.OnPower = func(p PowerAction) { power = p }

	sm.Toggle()
	rows := sm.Rows()
	if len(rows) != 1+3+3 {
		t.Fatalf("rows = %d, want 7", len(rows))
	}
	if sm.Bounds.Bottom() != 736 {
		t.Fatalf("panel not anchored above the taskbar: %+v", sm.Bounds)
	}

	r := sm.RowRect(2)
	sm.Click(r.X+1, r.Y+1)
	if launched != "notes" || sm.Visible {
		t.Fatalf("launched=%q visible=%v", launched, sm.Visible)
	}

	sm.Toggle()
	r = sm.RowRect(len(rows) - 1)
	sm.Click(r.X+1, r.Y+1)
	if power != PowerShutdown {
		t.Fatalf("power = %v", power)
	}
	if sm.Click(r.X+1, r.Y+1) {
		t.Fatalf("hidden panel consumed a click")
	}
}

func TestStartMenu_FuzzyQuery(t *testing.T) {
	sm := newStartMenu()
	var launched string
	sm.OnLaunch = func(id string) { launched = id }
	sm.Show()

	for _, r := range "fm" {
		sm.HandleKey(event.Keyboard{Key: event.KeyRune, Rune: r, State: event.Down})
	}
	apps := sm.Filtered()
	if len(apps) != 1 || apps[0].ID != "files" {
		t.Fatalf("filtered = %+v", apps)
	}
	sm.HandleKey(event.Keyboard{Key: event.KeyEnter, State: event.Down})
	if launched != "files" {
		t.Fatalf("launched = %q", launched)
	}

	sm.Show()
	sm.Query = "zzz"
	if len(sm.Filtered()) != 0 {
		t.Fatalf("expected no matches")
	}
	sm.HandleKey(event.Keyboard{Key: event.KeyEscape, State: event.Down})
	if sm.Visible {
		t.Fatalf("escape did not close the panel")
	}
}
