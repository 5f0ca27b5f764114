package mcp

import "github.com/1broseidon/termdesk/internal/ipc"

// EmptyInput is the input of tools that take no arguments.
type EmptyInput struct{}

// StatusOutput is the output for the desktop_status tool.
type StatusOutput struct {
	Status ipc.StatusData `json:"status"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	App           string `json:"app,omitempty" jsonschema:"Only list windows opened by this app id"`
	IncludeHidden bool   `json:"include_hidden,omitempty" jsonschema:"Include minimized and hidden windows (default: false)"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// WindowInput selects a window by id.
type WindowInput struct {
	ID uint64 `json:"id" jsonschema:"required,Window id from list_windows"`
}

// WindowOutput reports the window a tool acted on.
type WindowOutput struct {
	ID     uint64 `json:"id"`
	Closed bool   `json:"closed,omitempty"`
}

// LaunchAppInput is the input for the launch_app tool.
type LaunchAppInput struct {
	App string `json:"app" jsonschema:"required,App id from list_apps"`
}

// LaunchAppOutput is the output for the launch_app tool.
type LaunchAppOutput struct {
	App      string `json:"app"`
	Launched bool   `json:"launched"`
}

// ListAppsOutput is the output for the list_apps tool.
type ListAppsOutput struct {
	Apps []ipc.AppInfo `json:"apps"`
}

// ListIconsInput is the input for the list_icons tool.
type ListIconsInput struct {
	Kind string `json:"kind,omitempty" jsonschema:"Only list icons of this kind (application, folder, file, shortcut, drive)"`
}

// ListIconsOutput is the output for the list_icons tool.
type ListIconsOutput struct {
	Icons []ipc.IconInfo `json:"icons"`
}

// ShowDesktopOutput is the output for the show_desktop tool.
type ShowDesktopOutput struct {
	Minimized int `json:"minimized"`
}
