package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termdesk/internal/ipc"
)

// Tab identifies an inspector tab.
type Tab int

const (
	TabWindows Tab = iota
	TabApps
	TabIcons
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabWindows:
		return "Windows"
	case TabApps:
		return "Apps"
	case TabIcons:
		return "Icons"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := range tabCount {
		label := fmt.Sprintf("%d:%s", int(i)+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// renderStatusBar shows whether the desktop answers and a one-line summary.
func renderStatusBar(status *ipc.StatusData, err error, width int) string {
	var text string
	if status != nil && err == nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{
			dot + " desktop running",
			"backend:" + status.Backend,
			fmt.Sprintf("screen:%dx%d", status.ScreenWidth, status.ScreenHeight),
			fmt.Sprintf("windows:%d", status.WindowCount),
			fmt.Sprintf("icons:%d", status.IconCount),
		}
		if status.MenuOpen {
			parts = append(parts, "menu open")
		}
		text = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = dot + " desktop not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(text)
}

func helpText(tab Tab) string {
	common := "tab: switch  /: filter  r: refresh  q: quit"
	switch tab {
	case TabWindows:
		return "enter: focus  x: close  d: show desktop  " + common
	case TabApps:
		return "enter: launch  l: launch by id  " + common
	default:
		return common
	}
}

// renderHelpBar renders the bottom help line, with the last action result on
// the left when there is one.
func renderHelpBar(tab Tab, notice string, width int) string {
	left := ""
	if notice != "" {
		left = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render(notice)
	}
	right := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(helpText(tab))
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
