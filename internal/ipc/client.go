package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/termdesk/internal/runtimepath"
)

// Client handles IPC communication with a running desktop
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to desktop: %w (is termdesk running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("desktop error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with an optional payload and decodes the reply data
// into out when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// GetStatus retrieves desktop status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows returns the windows, top of the stack first.
func (c *Client) ListWindows() ([]WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// FocusWindow raises and focuses a window, restoring it if minimized.
func (c *Client) FocusWindow(id uint64) error {
	return c.call(CommandFocusWindow, WindowPayload{ID: id}, nil)
}

// CloseWindow asks a window to close. The window may refuse.
func (c *Client) CloseWindow(id uint64) error {
	return c.call(CommandCloseWindow, WindowPayload{ID: id}, nil)
}

// LaunchApp starts a configured app.
func (c *Client) LaunchApp(app string) error {
	return c.call(CommandLaunchApp, LaunchPayload{App: app}, nil)
}

// ListApps returns the configured apps.
func (c *Client) ListApps() ([]AppInfo, error) {
	var data AppsData
	if err := c.call(CommandListApps, nil, &data); err != nil {
		return nil, err
	}
	return data.Apps, nil
}

// ListIcons returns the desktop icons.
func (c *Client) ListIcons() ([]IconInfo, error) {
	var data IconsData
	if err := c.call(CommandListIcons, nil, &data); err != nil {
		return nil, err
	}
	return data.Icons, nil
}

// ShowDesktop minimizes every window and reports how many it minimized.
func (c *Client) ShowDesktop() (int, error) {
	var data ShowDesktopData
	if err := c.call(CommandShowDesktop, nil, &data); err != nil {
		return 0, err
	}
	return data.Minimized, nil
}

// Ping checks if the desktop is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
