package daemon

import (
	"errors"
	"fmt"
	"math"

	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/logging"
	"github.com/1broseidon/termdesk/internal/window"
)

var (
	errNoWindow     = errors.New("no such window")
	errCloseRefused = errors.New("window refused to close")
)

// handleRequest runs on the host loop.
func (r *Runner) handleRequest(req *ipc.Request) *ipc.Response {
	r.logger.Debug("control request", "command", req.Command)
	r.actions.Log(logging.ActionControl, string(req.Command), nil)

	switch req.Command {
	case ipc.CommandGetStatus:
		return ipc.OK(r.status())
	case ipc.CommandListWindows:
		return ipc.OK(ipc.WindowsData{Windows: r.windows()})
	case ipc.CommandFocusWindow:
		id, err := windowID(req)
		if err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		if !r.state.FocusWindow(id) {
			return ipc.NewErrorResponse(fmt.Sprintf("%v: %d", errNoWindow, id))
		}
		return ipc.OK(nil)
	case ipc.CommandCloseWindow:
		id, err := windowID(req)
		if err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		if _, ok := r.state.Windows.Get(id); !ok {
			return ipc.NewErrorResponse(fmt.Sprintf("%v: %d", errNoWindow, id))
		}
		if !r.state.CloseWindow(id) {
			return ipc.NewErrorResponse(fmt.Sprintf("%v: %d", errCloseRefused, id))
		}
		return ipc.OK(nil)
	case ipc.CommandLaunchApp:
		var p ipc.LaunchPayload
		if err := req.DecodePayload(&p); err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		if p.App == "" {
			return ipc.NewErrorResponse("app is required")
		}
		if err := r.state.LaunchApp(p.App); err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		return ipc.OK(nil)
	case ipc.CommandListApps:
		return ipc.OK(ipc.AppsData{Apps: r.apps()})
	case ipc.CommandListIcons:
		return ipc.OK(ipc.IconsData{Icons: r.icons()})
	case ipc.CommandShowDesktop:
		return ipc.OK(ipc.ShowDesktopData{Minimized: r.state.ShowDesktop()})
	default:
		return ipc.NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func windowID(req *ipc.Request) (window.ID, error) {
	var p ipc.WindowPayload
	if err := req.DecodePayload(&p); err != nil {
		return 0, err
	}
	if p.ID == 0 || p.ID > math.MaxUint32 {
		return 0, fmt.Errorf("invalid window id %d", p.ID)
	}
	return window.ID(p.ID), nil
}

func (r *Runner) status() ipc.StatusData {
	s := r.state
	st := ipc.StatusData{
		Backend:       r.backend.Name(),
		ScreenWidth:   s.Options.Screen.Width,
		ScreenHeight:  s.Options.Screen.Height,
		WindowCount:   s.Windows.Len(),
		IconCount:     s.Desktop.Len(),
		MenuOpen:      s.Menus.IsOpen() || s.Start.Visible,
		UptimeSeconds: int64(r.now().Sub(r.started).Seconds()),
		Running:       true,
	}
	if id, ok := s.Windows.Focused(); ok {
		st.FocusedWindow = uint64(id)
	}
	return st
}

// windows lists the stack top first.
func (r *Runner) windows() []ipc.WindowInfo {
	focused, hasFocus := r.state.Windows.Focused()
	order := r.state.Windows.Order()
	out := make([]ipc.WindowInfo, 0, len(order))
	for _, id := range order {
		w, ok := r.state.Windows.Get(id)
		if !ok {
			continue
		}
		out = append(out, ipc.WindowInfo{
			ID:        uint64(w.ID),
			Title:     w.Title,
			App:       w.AppID,
			X:         w.Bounds.X,
			Y:         w.Bounds.Y,
			Width:     w.Bounds.Width,
			Height:    w.Bounds.Height,
			Visible:   w.Visible,
			Minimized: w.Minimized,
			Maximized: w.Maximized,
			Focused:   hasFocus && focused == w.ID,
			Modal:     w.Style.Has(window.Modal),
		})
	}
	return out
}

func (r *Runner) apps() []ipc.AppInfo {
	running := make(map[string]bool)
	for _, w := range r.state.Windows.Windows() {
		if w.AppID != "" && w.Visible {
			running[w.AppID] = true
		}
	}
	apps := r.launcher.Apps()
	out := make([]ipc.AppInfo, 0, len(apps))
	for _, a := range apps {
		out = append(out, ipc.AppInfo{
			ID:      a.ID,
			Name:    a.Name,
			Builtin: a.Builtin != "",
			Running: running[a.ID],
		})
	}
	return out
}

func (r *Runner) icons() []ipc.IconInfo {
	icons := r.state.Desktop.Icons()
	out := make([]ipc.IconInfo, 0, len(icons))
	for _, ic := range icons {
		out = append(out, ipc.IconInfo{
			ID:       uint64(ic.ID),
			Name:     ic.Name,
			Kind:     ic.Kind.String(),
			Path:     ic.Path,
			X:        ic.X,
			Y:        ic.Y,
			Selected: ic.Selected,
		})
	}
	return out
}
