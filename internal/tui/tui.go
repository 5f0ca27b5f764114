// Package tui is a terminal inspector for a running desktop. It polls the
// control socket and can focus, close and launch through it.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/termdesk/internal/ipc"
)

// Desktop is the control surface the inspector drives. *ipc.Client
// implements it.
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

// Run starts the inspector and blocks until the user quits.
func Run(desktop Desktop) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	p := tea.NewProgram(newModel(desktop), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
