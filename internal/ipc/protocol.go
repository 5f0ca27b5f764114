package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandFocusWindow CommandType = "FOCUS_WINDOW"
	CommandCloseWindow CommandType = "CLOSE_WINDOW"
	CommandLaunchApp   CommandType = "LAUNCH_APP"
	CommandListApps    CommandType = "LIST_APPS"
	CommandListIcons   CommandType = "LIST_ICONS"
	CommandShowDesktop CommandType = "SHOW_DESKTOP"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Backend       string `json:"backend"`
	ScreenWidth   int    `json:"screen_width"`
	ScreenHeight  int    `json:"screen_height"`
	WindowCount   int    `json:"window_count"`
	IconCount     int    `json:"icon_count"`
	FocusedWindow uint64 `json:"focused_window,omitempty"`
	MenuOpen      bool   `json:"menu_open"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Running       bool   `json:"running"`
}

// WindowInfo describes one window, listed top of the stack first.
type WindowInfo struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	App       string `json:"app,omitempty"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Visible   bool   `json:"visible"`
	Minimized bool   `json:"minimized"`
	Maximized bool   `json:"maximized"`
	Focused   bool   `json:"focused"`
	Modal     bool   `json:"modal,omitempty"`
}

type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// IconInfo describes one desktop icon.
type IconInfo struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Path     string `json:"path,omitempty"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Selected bool   `json:"selected"`
}

type IconsData struct {
	Icons []IconInfo `json:"icons"`
}

// AppInfo describes one configured application.
type AppInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Builtin bool   `json:"builtin"`
	Running bool   `json:"running"`
}

type AppsData struct {
	Apps []AppInfo `json:"apps"`
}

// WindowPayload is the payload for FOCUS_WINDOW and CLOSE_WINDOW.
type WindowPayload struct {
	ID uint64 `json:"id"`
}

// LaunchPayload is the payload for LAUNCH_APP.
type LaunchPayload struct {
	App string `json:"app"`
}

// ShowDesktopData is returned by SHOW_DESKTOP.
type ShowDesktopData struct {
	Minimized int `json:"minimized"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// OK is NewOKResponse for data that always marshals.
func OK(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// DecodePayload unmarshals the request payload into out.
func (r *Request) DecodePayload(out any) error {
	if len(r.Payload) == 0 {
		return fmt.Errorf("%s: payload is required", r.Command)
	}
	if err := json.Unmarshal(r.Payload, out); err != nil {
		return fmt.Errorf("invalid %s payload: %w", r.Command, err)
	}
	return nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
