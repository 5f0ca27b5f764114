// Package mcp exposes a running desktop to MCP clients. Every tool is a thin
// wrapper over one control socket request.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termdesk/internal/ipc"
)

const (
	ServerName    = "termdesk"
	ServerVersion = "0.1.0"
)

// Desktop is the control surface the tools drive. *ipc.Client implements it.
type Desktop interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	FocusWindow(id uint64) error
	CloseWindow(id uint64) error
	LaunchApp(app string) error
	ListApps() ([]ipc.AppInfo, error)
	ListIcons() ([]ipc.IconInfo, error)
	ShowDesktop() (int, error)
}

var _ Desktop = (*ipc.Client)(nil)

// Server is the MCP server for a termdesk desktop.
type Server struct {
	mcpServer *mcpsdk.Server
	desktop   Desktop
}

// NewServer creates a server that talks to desktop.
func NewServer(desktop Desktop) *Server {
	s := &Server{desktop: desktop}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves on stdio until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "desktop_status",
		Description: "Report the running desktop: backend, screen size, window and icon counts, focused window and whether a menu is open.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List desktop windows, topmost first, with geometry and state. Minimized and hidden windows are skipped unless include_hidden is set.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Raise and focus a window, restoring it first if it is minimized.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Ask a window to close. The window's application may refuse, for example to keep unsaved notes.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_app",
		Description: "Launch a configured app by id. Builtin apps open a window on the desktop; external apps start a process.",
	}, s.handleLaunchApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_apps",
		Description: "List the configured apps and whether each currently has a window open.",
	}, s.handleListApps)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_icons",
		Description: "List the desktop icons with kind, target path, position and selection state.",
	}, s.handleListIcons)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_desktop",
		Description: "Minimize every window. Returns how many windows were minimized.",
	}, s.handleShowDesktop)
}
