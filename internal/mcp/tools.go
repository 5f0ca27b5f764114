package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termdesk/internal/ipc"
)

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.desktop.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{Status: *st}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	wins, err := s.desktop.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	app := strings.TrimSpace(args.App)
	out := make([]ipc.WindowInfo, 0, len(wins))
	for _, w := range wins {
		if app != "" && w.App != app {
			continue
		}
		if !args.IncludeHidden && (w.Minimized || !w.Visible) {
			continue
		}
		out = append(out, w)
	}
	return nil, ListWindowsOutput{Windows: out}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == 0 {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	if err := s.desktop.FocusWindow(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, WindowOutput{ID: args.ID}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.ID == 0 {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	if err := s.desktop.CloseWindow(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, WindowOutput{ID: args.ID, Closed: true}, nil
}

func (s *Server) handleLaunchApp(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchAppInput) (*mcpsdk.CallToolResult, LaunchAppOutput, error) {
	app := strings.TrimSpace(args.App)
	if app == "" {
		return nil, LaunchAppOutput{}, fmt.Errorf("app is required")
	}
	if err := s.desktop.LaunchApp(app); err != nil {
		return nil, LaunchAppOutput{}, err
	}
	return nil, LaunchAppOutput{App: app, Launched: true}, nil
}

func (s *Server) handleListApps(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListAppsOutput, error) {
	apps, err := s.desktop.ListApps()
	if err != nil {
		return nil, ListAppsOutput{}, err
	}
	return nil, ListAppsOutput{Apps: apps}, nil
}

func (s *Server) handleListIcons(_ context.Context, _ *mcpsdk.CallToolRequest, args ListIconsInput) (*mcpsdk.CallToolResult, ListIconsOutput, error) {
	icons, err := s.desktop.ListIcons()
	if err != nil {
		return nil, ListIconsOutput{}, err
	}
	kind := strings.ToLower(strings.TrimSpace(args.Kind))
	if kind == "" {
		return nil, ListIconsOutput{Icons: icons}, nil
	}
	out := make([]ipc.IconInfo, 0, len(icons))
	for _, ic := range icons {
		if ic.Kind == kind {
			out = append(out, ic)
		}
	}
	return nil, ListIconsOutput{Icons: out}, nil
}

func (s *Server) handleShowDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ShowDesktopOutput, error) {
	n, err := s.desktop.ShowDesktop()
	if err != nil {
		return nil, ShowDesktopOutput{}, err
	}
	return nil, ShowDesktopOutput{Minimized: n}, nil
}
