package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termdesk/internal/ipc"
)

const refreshInterval = time.Second

// snapshotMsg carries one poll of the desktop.
type snapshotMsg struct {
	status  *ipc.StatusData
	windows []ipc.WindowInfo
	apps    []ipc.AppInfo
	icons   []ipc.IconInfo
	err     error
}

// tickMsg schedules the next poll.
type tickMsg struct{}

// clearNoticeMsg clears the action result after a delay.
type clearNoticeMsg struct{}

// model is the root bubbletea model.
type model struct {
	desktop Desktop

	activeTab Tab
	lists     [tabCount]list.Model

	status  *ipc.StatusData
	lastErr error
	notice  string

	// launching is true while the launch-by-id prompt has focus.
	launching bool
	input     textinput.Model

	width  int
	height int
}

func newModel(desktop Desktop) model {
	ti := textinput.New()
	ti.Placeholder = "app id"
	ti.CharLimit = 64
	ti.Prompt = "launch: "

	m := model{desktop: desktop, input: ti}
	for t := range tabCount {
		m.lists[t] = newList(t.String())
	}
	return m
}

// poll reads everything the inspector shows.
func poll(d Desktop) tea.Cmd {
	return func() tea.Msg {
		var msg snapshotMsg
		if msg.status, msg.err = d.GetStatus(); msg.err != nil {
			return msg
		}
		if msg.windows, msg.err = d.ListWindows(); msg.err != nil {
			return msg
		}
		if msg.apps, msg.err = d.ListApps(); msg.err != nil {
			return msg
		}
		msg.icons, msg.err = d.ListIcons()
		return msg
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func clearNotice() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearNoticeMsg{} })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(poll(m.desktop), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for t := range tabCount {
			m.lists[t].SetSize(m.width, m.contentHeight())
		}
		return m, nil

	case snapshotMsg:
		m.apply(msg)
		return m, nil

	case tickMsg:
		return m, tea.Batch(poll(m.desktop), tick())

	case clearNoticeMsg:
		m.notice = ""
		return m, nil

	case tea.KeyMsg:
		if m.launching {
			return m.updateLaunchPrompt(msg)
		}
		// The list owns every key while its filter is being typed.
		if m.lists[m.activeTab].FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1", "2", "3":
			m.activeTab = Tab(msg.String()[0] - '1')
			return m, nil
		case "r":
			return m, poll(m.desktop)
		case "enter":
			return m.activateSelected()
		case "x":
			if m.activeTab == TabWindows {
				return m.closeSelected()
			}
		case "d":
			if m.activeTab == TabWindows {
				n, err := m.desktop.ShowDesktop()
				return m.finish(err, fmt.Sprintf("minimized %d windows", n))
			}
		case "l":
			if m.activeTab == TabApps {
				m.launching = true
				m.input.SetValue("")
				return m, m.input.Focus()
			}
		}
	}

	var cmd tea.Cmd
	m.lists[m.activeTab], cmd = m.lists[m.activeTab].Update(msg)
	return m, cmd
}

func (m *model) apply(msg snapshotMsg) {
	m.lastErr = msg.err
	if msg.err != nil {
		m.status = nil
		return
	}
	m.status = msg.status
	m.lists[TabWindows].SetItems(windowItems(msg.windows))
	m.lists[TabApps].SetItems(appItems(msg.apps))
	m.lists[TabIcons].SetItems(iconItems(msg.icons))
}

func (m model) updateLaunchPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.launching = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.launching = false
		m.input.Blur()
		app := strings.TrimSpace(m.input.Value())
		if app == "" {
			return m, nil
		}
		return m.finish(m.desktop.LaunchApp(app), "launched "+app)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) activateSelected() (tea.Model, tea.Cmd) {
	switch it := m.lists[m.activeTab].SelectedItem().(type) {
	case windowItem:
		return m.finish(m.desktop.FocusWindow(it.w.ID), "focused "+it.w.Title)
	case appItem:
		return m.finish(m.desktop.LaunchApp(it.a.ID), "launched "+it.a.ID)
	}
	return m, nil
}

func (m model) closeSelected() (tea.Model, tea.Cmd) {
	it, ok := m.lists[TabWindows].SelectedItem().(windowItem)
	if !ok {
		return m, nil
	}
	return m.finish(m.desktop.CloseWindow(it.w.ID), "closed "+it.w.Title)
}

// finish records the result of an action and polls again.
func (m model) finish(err error, ok string) (tea.Model, tea.Cmd) {
	if err != nil {
		m.notice = fmt.Sprintf("error: %v", err)
	} else {
		m.notice = ok
	}
	return m, tea.Batch(poll(m.desktop), clearNotice())
}

// contentHeight returns the height available for the list.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1) + prompt (1)
	return max(1, m.height-5)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.lastErr, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)

	var content string
	if m.lastErr != nil {
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(m.contentHeight()).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("cannot reach the desktop: " + m.lastErr.Error())
	} else {
		content = m.lists[m.activeTab].View()
	}

	prompt := ""
	if m.launching {
		prompt = m.input.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		prompt,
		renderHelpBar(m.activeTab, m.notice, m.width),
	)
}
