package daemon

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/event"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/ui"
	"github.com/1broseidon/termdesk/internal/widgets"
	"github.com/1broseidon/termdesk/internal/window"
)

type fakeBackend struct {
	*draw.Recorder
	inputs   chan event.Input
	presents int
	resized  []geom.Rect
	closed   bool
}

func newFakeBackend(w, h int) *fakeBackend {
	return &fakeBackend{Recorder: draw.NewRecorder(w, h), inputs: make(chan event.Input, 8)}
}

func (f *fakeBackend) Name() string { return "fake" }
func (f *fakeBackend) Open() error  { return nil }
func (f *fakeBackend) Close()       { f.closed = true }
func (f *fakeBackend) Present()     { f.presents++ }

func (f *fakeBackend) Resize(w, h int) error {
	f.resized = append(f.resized, geom.Rect{Width: w, Height: h})
	f.Screen = geom.Rect{Width: w, Height: h}
	return nil
}

func (f *fakeBackend) Run(ctx context.Context, out chan<- event.Input) {
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-f.inputs:
			select {
			case out <- in:
			case <-ctx.Done():
				return
			}
		}
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRunner returns a runner whose desktop is built but whose loop is not
// running, so tests may call handleRequest directly.
func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Menu.AnimationFrames = 0
	r, err := New(Options{Config: cfg, Backend: newFakeBackend(1024, 768), Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Cleanup(r.state.Teardown)
	return r
}

func decode[T any](t *testing.T, resp *ipc.Response) T {
	t.Helper()
	if resp.Status != "OK" {
		t.Fatalf("response error: %s", resp.Error)
	}
	var out T
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func newRequest(t *testing.T, cmd ipc.CommandType, payload any) *ipc.Request {
	t.Helper()
	req := &ipc.Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		req.Payload = data
	}
	return req
}

func TestNew_RequiresConfigAndBackend(t *testing.T) {
	if _, err := New(Options{Backend: newFakeBackend(10, 10)}); err == nil {
		t.Fatalf("expected error without config")
	}
	if _, err := New(Options{Config: config.DefaultConfig()}); err == nil {
		t.Fatalf("expected error without backend")
	}
}

func TestBuildOptions_ThemeOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Theme = map[string]string{"desktop": "#010203", "taskbar": "#a0b0c0"}
	opts, err := BuildOptions(cfg, geom.Rect{Width: 800, Height: 600}, nil)
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	if opts.Theme.Desktop != 0x010203 || opts.Theme.Taskbar != 0xa0b0c0 {
		t.Fatalf("theme = %+v", opts.Theme)
	}
	if opts.Theme.Window != ui.DefaultTheme().Window {
		t.Fatalf("unset colors should keep defaults")
	}
}

func TestBuildOptions_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bad color", func(c *config.Config) { c.Theme = map[string]string{"desktop": "blue-ish"} }, "theme.desktop"},
		{"unknown color name", func(c *config.Config) { c.Theme = map[string]string{"sparkle": "#ffffff"} }, "unknown color name"},
		{"bad layout", func(c *config.Config) { c.Desktop.Layout = "spiral" }, "desktop.layout"},
		{"bad icon kind", func(c *config.Config) { c.Desktop.Icons[0].Kind = "blob" }, "desktop.icons[0].kind"},
		{"bad background", func(c *config.Config) { c.Background.Mode = "video" }, "background.mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			_, err := BuildOptions(cfg, geom.Rect{Width: 800, Height: 600}, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestBuildOptions_DockAndStartNames(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dock.Items = []config.DockItemConfig{{App: "notes"}, {App: "files", Name: "My Files"}, {App: "ghost"}}
	cfg.StartMenu.Apps = []string{"about"}
	r, _ := New(Options{Config: cfg, Backend: newFakeBackend(10, 10)})
	opts, err := BuildOptions(cfg, geom.Rect{Width: 800, Height: 600}, r.Launcher().Apps())
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	want := []ui.DockEntry{
		{AppID: "notes", Name: "Notes", Icon: draw.IconNotes},
		{AppID: "files", Name: "My Files", Icon: draw.IconFolder},
		{AppID: "ghost", Name: "ghost"},
	}
	if len(opts.Dock) != len(want) {
		t.Fatalf("dock = %+v", opts.Dock)
	}
	for i := range want {
		if opts.Dock[i] != want[i] {
			t.Fatalf("dock[%d] = %+v, want %+v", i, opts.Dock[i], want[i])
		}
	}
	if len(opts.StartApps) != 1 || opts.StartApps[0].Name != "About" {
		t.Fatalf("start apps = %+v", opts.StartApps)
	}
}

func TestHandleRequest_ListWindowsTopFirst(t *testing.T) {
	r := newTestRunner(t)
	a := r.state.OpenWindow(ui.WindowSpec{Title: "A", Style: window.Default})
	b := r.state.OpenWindow(ui.WindowSpec{Title: "B", AppID: "notes", Style: window.Default})

	data := decode[ipc.WindowsData](t, r.handleRequest(newRequest(t, ipc.CommandListWindows, nil)))
	if len(data.Windows) != 2 {
		t.Fatalf("windows = %+v", data.Windows)
	}
	if data.Windows[0].ID != uint64(b) || data.Windows[1].ID != uint64(a) {
		t.Fatalf("order = %d,%d", data.Windows[0].ID, data.Windows[1].ID)
	}
	if !data.Windows[0].Focused || data.Windows[1].Focused {
		t.Fatalf("focus flags wrong: %+v", data.Windows)
	}
	if data.Windows[0].App != "notes" {
		t.Fatalf("app = %q", data.Windows[0].App)
	}

	if resp := r.handleRequest(newRequest(t, ipc.CommandFocusWindow, ipc.WindowPayload{ID: uint64(a)})); resp.Status != "OK" {
		t.Fatalf("focus: %s", resp.Error)
	}
	if head, _ := r.state.Windows.Head(); head != a {
		t.Fatalf("head = %d, want %d", head, a)
	}
}

func TestHandleRequest_WindowErrors(t *testing.T) {
	r := newTestRunner(t)
	pinned := r.state.OpenWindow(ui.WindowSpec{Title: "Pinned", Style: window.Default | window.NoClose})

	tests := []struct {
		name string
		req  *ipc.Request
		want string
	}{
		{"focus missing", newRequest(t, ipc.CommandFocusWindow, ipc.WindowPayload{ID: 999}), "no such window"},
		{"close missing", newRequest(t, ipc.CommandCloseWindow, ipc.WindowPayload{ID: 999}), "no such window"},
		{"close refused", newRequest(t, ipc.CommandCloseWindow, ipc.WindowPayload{ID: uint64(pinned)}), "refused"},
		{"zero id", newRequest(t, ipc.CommandFocusWindow, ipc.WindowPayload{}), "invalid window id"},
		{"no payload", newRequest(t, ipc.CommandCloseWindow, nil), "payload is required"},
		{"launch empty", newRequest(t, ipc.CommandLaunchApp, ipc.LaunchPayload{}), "app is required"},
		{"launch unknown", newRequest(t, ipc.CommandLaunchApp, ipc.LaunchPayload{App: "ghost"}), "unknown app"},
		{"unknown command", newRequest(t, "REBOOT", nil), "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := r.handleRequest(tt.req)
			if resp.Status != "ERROR" || !strings.Contains(resp.Error, tt.want) {
				t.Fatalf("resp = %+v, want error containing %q", resp, tt.want)
			}
		})
	}
	if _, ok := r.state.Windows.Get(pinned); !ok {
		t.Fatalf("refused window was destroyed")
	}
}

func TestHandleRequest_LaunchAndApps(t *testing.T) {
	r := newTestRunner(t)
	if resp := r.handleRequest(newRequest(t, ipc.CommandLaunchApp, ipc.LaunchPayload{App: "about"})); resp.Status != "OK" {
		t.Fatalf("launch: %s", resp.Error)
	}
	if r.state.Windows.Len() != 1 {
		t.Fatalf("windows = %d", r.state.Windows.Len())
	}

	data := decode[ipc.AppsData](t, r.handleRequest(newRequest(t, ipc.CommandListApps, nil)))
	found := false
	for _, a := range data.Apps {
		if a.ID == "about" {
			found = true
			if !a.Running || !a.Builtin {
				t.Fatalf("about = %+v", a)
			}
		}
		if a.ID == "terminal" && (a.Running || a.Builtin) {
			t.Fatalf("terminal = %+v", a)
		}
	}
	if !found {
		t.Fatalf("about not listed: %+v", data.Apps)
	}
}

func TestHandleRequest_IconsStatusShowDesktop(t *testing.T) {
	r := newTestRunner(t)
	icons := decode[ipc.IconsData](t, r.handleRequest(newRequest(t, ipc.CommandListIcons, nil)))
	if len(icons.Icons) != 4 || icons.Icons[0].Name != "Home" || icons.Icons[0].Kind != "folder" {
		t.Fatalf("icons = %+v", icons.Icons)
	}

	r.state.OpenWindow(ui.WindowSpec{Title: "A", Style: window.Default})
	r.state.OpenWindow(ui.WindowSpec{Title: "B", Style: window.Default})
	st := decode[ipc.StatusData](t, r.handleRequest(newRequest(t, ipc.CommandGetStatus, nil)))
	if st.Backend != "fake" || st.ScreenWidth != 1024 || st.WindowCount != 2 || st.IconCount != 4 || st.FocusedWindow == 0 {
		t.Fatalf("status = %+v", st)
	}

	shown := decode[ipc.ShowDesktopData](t, r.handleRequest(newRequest(t, ipc.CommandShowDesktop, nil)))
	if shown.Minimized != 2 {
		t.Fatalf("minimized = %d", shown.Minimized)
	}
	if _, ok := r.state.Windows.Focused(); ok {
		t.Fatalf("focus should be cleared")
	}
}

func TestSetup_TrayLaunchesApp(t *testing.T) {
	r := newTestRunner(t)
	if len(r.state.Tray.Items) != 1 {
		t.Fatalf("tray = %+v", r.state.Tray.Items)
	}
	it := r.state.Tray.Items[0]
	if it.Click == nil {
		t.Fatalf("tray click not wired")
	}
	it.Click(it)
	wins := r.state.Windows.Windows()
	if len(wins) != 1 || wins[0].AppID != "clock" {
		t.Fatalf("windows = %+v", wins)
	}
}

func TestSession_LogoutQuits(t *testing.T) {
	quit := 0
	s := &session{logger: quietLogger(), quit: func() { quit++ }}
	for _, a := range []widgets.PowerAction{widgets.PowerLock, widgets.PowerLogout, widgets.PowerShutdown} {
		if err := s.Power(a); err != nil {
			t.Fatalf("Power(%v): %v", a, err)
		}
	}
	if quit != 2 {
		t.Fatalf("quit called %d times, want 2", quit)
	}
}

func TestRun_ServesRequestsAndInput(t *testing.T) {
	cfg := config.DefaultConfig()
	backend := newFakeBackend(1024, 768)
	sock := filepath.Join(t.TempDir(), "d.sock")
	r, err := New(Options{Config: cfg, Backend: backend, Logger: quietLogger(), SocketPath: sock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	client := ipc.NewClientAt(sock)
	deadline := time.Now().Add(2 * time.Second)
	for client.Ping() != nil {
		if time.Now().After(deadline) {
			t.Fatalf("control socket never came up")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := client.LaunchApp("notes"); err != nil {
		t.Fatalf("launch: %v", err)
	}
	wins, err := client.ListWindows()
	if err != nil || len(wins) != 1 || wins[0].App != "notes" {
		t.Fatalf("windows = %+v, %v", wins, err)
	}

	backend.inputs <- event.Input{Kind: event.InputResize, Width: 640, Height: 480}
	for {
		st, err := client.GetStatus()
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if st.ScreenWidth == 640 && st.ScreenHeight == 480 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("resize not applied: %+v", st)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// A second desktop on the same socket must refuse to start.
	other, _ := New(Options{Config: cfg, Backend: newFakeBackend(10, 10), Logger: quietLogger(), SocketPath: sock})
	if err := other.Run(context.Background()); err != ErrAlreadyRunning {
		t.Fatalf("second Run = %v, want ErrAlreadyRunning", err)
	}

	backend.inputs <- event.Input{Kind: event.InputQuit}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop on quit")
	}

	if !backend.closed || backend.presents == 0 {
		t.Fatalf("closed=%v presents=%d", backend.closed, backend.presents)
	}
	if len(backend.resized) != 1 || backend.resized[0] != (geom.Rect{Width: 640, Height: 480}) {
		t.Fatalf("resized = %+v", backend.resized)
	}
	if resp := r.HandleRequest(newRequest(t, ipc.CommandGetStatus, nil)); resp.Status != "ERROR" {
		t.Fatalf("request after shutdown = %+v", resp)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	r, err := New(Options{Config: config.DefaultConfig(), Backend: newFakeBackend(800, 600), Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	resp := r.HandleRequest(newRequest(t, ipc.CommandGetStatus, nil))
	st := decode[ipc.StatusData](t, resp)
	if !st.Running || st.ScreenWidth != 800 {
		t.Fatalf("status = %+v", st)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop")
	}
}
