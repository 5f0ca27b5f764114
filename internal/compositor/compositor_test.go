package compositor

import (
	"strings"
	"testing"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/ui"
	"github.com/1broseidon/termdesk/internal/window"
)

func newState(t *testing.T, frames int) *ui.State {
	t.Helper()
	opts := ui.DefaultOptions(geom.Rect{Width: 1024, Height: 768})
	opts.Menu.AnimationFrames = frames
	opts.Layout = desktop.Free
	return ui.New(opts, nil, nil, nil)
}

func render(s *ui.State) *draw.Recorder {
	rec := draw.NewRecorder(1024, 768)
	Render(s, rec)
	return rec
}

func mustIndex(t *testing.T, rec *draw.Recorder, text string) int {
	t.Helper()
	i := rec.IndexOfText(text)
	if i < 0 {
		t.Fatalf("%q not drawn; texts: %v", text, rec.Texts())
	}
	return i
}

// lastText returns the position of the last text op equal to text. Window
// titles also appear on task buttons, which are painted earlier.
func lastText(t *testing.T, rec *draw.Recorder, text string) int {
	t.Helper()
	for i := len(rec.Ops) - 1; i >= 0; i-- {
		if op := rec.Ops[i]; op.Kind == draw.OpText && op.Text == text {
			return i
		}
	}
	t.Fatalf("%q not drawn; texts: %v", text, rec.Texts())
	return -1
}

func TestRender_BackgroundFirst(t *testing.T) {
	s := newState(t, 0)
	rec := render(s)
	if len(rec.Ops) == 0 {
		t.Fatalf("nothing drawn")
	}
	first := rec.Ops[0]
	if first.Kind != draw.OpFill || first.Rect != rec.Screen || first.FG != s.Theme.Desktop {
		t.Fatalf("first op = %+v", first)
	}
}

func TestRender_PaintersOrder(t *testing.T) {
	s := newState(t, 0)
	s.AddIcon(ui.IconSpec{Name: "readme"})
	low := s.OpenWindow(ui.WindowSpec{Title: "lower", Bounds: geom.Rect{X: 50, Y: 50, Width: 300, Height: 200}})
	s.OpenWindow(ui.WindowSpec{Title: "upper", Bounds: geom.Rect{X: 100, Y: 100, Width: 300, Height: 200}})
	s.OpenDesktopMenu(600, 300)

	rec := render(s)
	icon := mustIndex(t, rec, "readme")
	start := mustIndex(t, rec, "Start")
	lower := lastText(t, rec, "lower")
	upper := lastText(t, rec, "upper")
	menu := mustIndex(t, rec, "Arrange Icons")

	if !(icon < start && start < lower && lower < upper && upper < menu) {
		t.Fatalf("order icon=%d start=%d lower=%d upper=%d menu=%d", icon, start, lower, upper, menu)
	}

	s.Windows.BringToFront(low)
	rec = render(s)
	if lastText(t, rec, "lower") < lastText(t, rec, "upper") {
		t.Fatalf("raised window not painted last")
	}
}

func TestRender_SkipsMinimizedAndHidden(t *testing.T) {
	s := newState(t, 0)
	a := s.OpenWindow(ui.WindowSpec{Title: "gone"})
	s.Windows.Minimize(a)
	rec := render(s)
	for _, txt := range rec.Texts() {
		if txt == "gone" {
			t.Fatalf("minimized window title drawn")
		}
	}
	// The task button still shows it.
	mustIndex(t, rec, "[gone]")
}

func TestRender_ClientPaintIsClipped(t *testing.T) {
	s := newState(t, 0)
	long := strings.Repeat("w", 200)
	id := s.OpenWindow(ui.WindowSpec{
		Title:  "app",
		Bounds: geom.Rect{X: 100, Y: 100, Width: 200, Height: 100},
		Handler: window.HandlerFuncs{OnPaint: func(w *window.Window, p draw.Painter) {
			p.Text(w.Client.X, w.Client.Y, long, 0, draw.None)
			p.FillRect(geom.Rect{X: 0, Y: 0, Width: 1024, Height: 768}, 0x123456)
		}},
	})
	w, _ := s.Windows.Get(id)

	rec := render(s)
	var sawText, sawFill bool
	for _, op := range rec.Ops {
		switch {
		case op.Kind == draw.OpText && strings.HasPrefix(op.Text, "www"):
			sawText = true
			if draw.TextWidth(op.Text) > w.Client.Width {
				t.Fatalf("client text overflows: width %d > %d", draw.TextWidth(op.Text), w.Client.Width)
			}
		case op.Kind == draw.OpFill && op.FG == 0x123456:
			sawFill = true
			if op.Rect != w.Client {
				t.Fatalf("client fill = %+v, want %+v", op.Rect, w.Client)
			}
		}
	}
	if !sawText || !sawFill {
		t.Fatalf("client paint missing: text=%v fill=%v", sawText, sawFill)
	}
}

func TestRender_RubberBandAndGhost(t *testing.T) {
	s := newState(t, 0)
	id, _ := s.AddIcon(ui.IconSpec{Name: "a", Image: 7})
	s.Desktop.BeginSelection(300, 300)
	s.Desktop.UpdateSelection(400, 350, false)

	rec := render(s)
	band := geom.Rect{X: 300, Y: 300, Width: 101, Height: 51}
	found := false
	for _, op := range rec.Ops {
		if op.Kind == draw.OpRect && op.Rect == band {
			found = true
		}
	}
	if !found {
		t.Fatalf("rubber band %+v not drawn", band)
	}
	s.Desktop.EndSelection()

	s.Desktop.BeginDrag(id, 30, 30)
	s.Desktop.UpdateDrag(130, 80)
	s.OpenWindow(ui.WindowSpec{Title: "over", Bounds: geom.Rect{X: 0, Y: 0, Width: 600, Height: 400}})
	rec = render(s)
	ic, _ := s.Desktop.Icon(id)
	ghost := ic.Bounds().Translate(100, 50)
	last := -1
	for i, op := range rec.Ops {
		if op.Kind == draw.OpIcon && op.Icon == 7 && op.Rect.Origin() == ghost.Origin() {
			last = i
		}
	}
	if last < lastText(t, rec, "over") {
		t.Fatalf("ghost (op %d) not painted above windows", last)
	}
}

func TestRender_ClosingMenuCollapses(t *testing.T) {
	s := newState(t, 4)
	s.OpenDesktopMenu(200, 200)
	for s.Animate() {
	}
	m, _ := s.Menus.Get(s.DesktopMenu())
	full := m.Bounds

	s.Menus.CloseAll()
	s.Animate()
	rec := render(s)
	var menuFill *draw.Op
	for i := range rec.Ops {
		op := &rec.Ops[i]
		if op.Kind == draw.OpFill && op.FG == s.Theme.Menu && op.Rect.X == full.X && op.Rect.Y == full.Y {
			menuFill = op
		}
	}
	if menuFill == nil {
		t.Fatalf("closing menu not drawn")
	}
	if menuFill.Rect.Height >= full.Height {
		t.Fatalf("closing menu not collapsing: %d >= %d", menuFill.Rect.Height, full.Height)
	}

	for s.Animate() {
	}
	rec = render(s)
	if rec.IndexOfText("Arrange Icons") >= 0 {
		t.Fatalf("closed menu still drawn")
	}
}

func TestRender_AnimatedBackground(t *testing.T) {
	s := newState(t, 0)
	b := s.Desktop.Background
	b.Mode = desktop.Animated
	s.Desktop.SetBackground(b)

	first := render(s).Ops[0]
	s.Desktop.Tick()
	s.Desktop.Tick()
	if again := render(s).Ops[0]; again.FG == first.FG {
		t.Fatalf("animated background did not change: %v", first.FG)
	}
}
