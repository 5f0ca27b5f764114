package widgets

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/1broseidon/termdesk/internal/event"
	"github.com/1broseidon/termdesk/internal/geom"
)

// PowerAction is a session action offered in the start menu footer.
type PowerAction int

const (
	PowerLock PowerAction = iota
	PowerLogout
	PowerShutdown
)

func (p PowerAction) String() string {
	switch p {
	case PowerLock:
		return "Lock"
	case PowerLogout:
		return "Log out"
	case PowerShutdown:
		return "Shut down"
	default:
		return "unknown"
	}
}

var powerActions = []PowerAction{PowerLock, PowerLogout, PowerShutdown}

// App is a launchable entry in the start menu.
type App struct {
	ID   string
	Name string
	Icon int
}

// RowKind distinguishes start menu rows.
type RowKind int

const (
	RowSearch RowKind = iota
	RowApp
	RowPower
)

// Row is one line of the start menu.
type Row struct {
	Kind  RowKind
	Text  string
	Icon  int
	AppID string
	Power PowerAction
}

// StartMenu is the toggleable app launcher panel above the start button.
type StartMenu struct {
	Bounds    geom.Rect
	RowHeight int
	Apps      []App
	Query     string
	Visible   bool
	// Hover is the highlighted row index, or -1.
	Hover int

	OnLaunch func(appID string)
	OnPower  func(PowerAction)

	anchor geom.Rect
	width  int
}

// NewStartMenu returns a hidden start menu anchored above the start button.
func NewStartMenu(l Layout, width, rowHeight int, apps []App) *StartMenu {
	s := &StartMenu{
		RowHeight: max(1, rowHeight),
		Apps:      apps,
		Hover:     -1,
		anchor:    l.StartButton,
		width:     width,
	}
	s.layout()
	return s
}

// SetLayout re-anchors the panel after a screen change.
func (s *StartMenu) SetLayout(l Layout) {
	s.anchor = l.StartButton
	s.layout()
}

func (s *StartMenu) layout() {
	h := len(s.Rows())*s.RowHeight + 4
	s.Bounds = geom.Rect{X: s.anchor.X, Y: s.anchor.Y - h, Width: s.width, Height: h}
}

// Toggle shows or hides the panel.
func (s *StartMenu) Toggle() {
	if s.Visible {
		s.Hide()
	} else {
		s.Show()
	}
}

// Show opens the panel with an empty query.
func (s *StartMenu) Show() {
	s.Visible = true
	s.Query = ""
	s.Hover = -1
	s.layout()
}

// Hide closes the panel.
func (s *StartMenu) Hide() {
	s.Visible = false
	s.Hover = -1
}

// Filtered returns the apps matching the query. Fuzzy matches keep the
// configured order; with no fuzzy match a plain substring match is tried.
func (s *StartMenu) Filtered() []App {
	q := strings.TrimSpace(s.Query)
	if q == "" {
		return s.Apps
	}
	labels := make([]string, len(s.Apps))
	for i, a := range s.Apps {
		labels[i] = a.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(q, labels)
	if len(ranks) > 0 {
		matched := make(map[int]bool, len(ranks))
		for _, r := range ranks {
			matched[r.OriginalIndex] = true
		}
		var out []App
		for i, a := range s.Apps {
			if matched[i] {
				out = append(out, a)
			}
		}
		return out
	}
	lower := strings.ToLower(q)
	var out []App
	for _, a := range s.Apps {
		if strings.Contains(strings.ToLower(a.ID), lower) {
			out = append(out, a)
		}
	}
	return out
}

// Rows returns the search row, the filtered apps and the power footer.
func (s *StartMenu) Rows() []Row {
	rows := []Row{{Kind: RowSearch, Text: s.Query}}
	for _, a := range s.Filtered() {
		rows = append(rows, Row{Kind: RowApp, Text: a.Name, Icon: a.Icon, AppID: a.ID})
	}
	for _, p := range powerActions {
		rows = append(rows, Row{Kind: RowPower, Text: p.String(), Power: p})
	}
	return rows
}

// RowRect returns the rect of row i.
func (s *StartMenu) RowRect(i int) geom.Rect {
	return geom.Rect{X: s.Bounds.X + 2, Y: s.Bounds.Y + 2 + i*s.RowHeight, Width: s.Bounds.Width - 4, Height: s.RowHeight}
}

// RowAt returns the row index under the point.
func (s *StartMenu) RowAt(x, y int) (int, bool) {
	if !s.Visible || !s.Bounds.Contains(x, y) {
		return -1, false
	}
	i := (y - s.Bounds.Y - 2) / s.RowHeight
	if y < s.Bounds.Y+2 || i >= len(s.Rows()) {
		return -1, false
	}
	return i, true
}

// Contains reports whether the point is on the open panel.
func (s *StartMenu) Contains(x, y int) bool {
	return s.Visible && s.Bounds.Contains(x, y)
}

// HoverAt moves the highlight to the row under the point.
func (s *StartMenu) HoverAt(x, y int) bool {
	i, ok := s.RowAt(x, y)
	if !ok || s.Rows()[i].Kind == RowSearch {
		i = -1
	}
	if i == s.Hover {
		return false
	}
	s.Hover = i
	return true
}

// Click activates the row under the point. Clicks anywhere on the panel are
// consumed.
func (s *StartMenu) Click(x, y int) bool {
	if !s.Contains(x, y) {
		return false
	}
	if i, ok := s.RowAt(x, y); ok {
		s.activate(s.Rows()[i])
	}
	return true
}

func (s *StartMenu) activate(r Row) {
	switch r.Kind {
	case RowApp:
		s.Hide()
		if s.OnLaunch != nil {
			s.OnLaunch(r.AppID)
		}
	case RowPower:
		s.Hide()
		if s.OnPower != nil {
			s.OnPower(r.Power)
		}
	}
}

// HandleKey edits the query and moves the highlight. Every key is consumed
// while the panel is open.
func (s *StartMenu) HandleKey(ev event.Keyboard) bool {
	if !s.Visible {
		return false
	}
	if ev.State != event.Down {
		return true
	}
	rows := s.Rows()
	switch ev.Key {
	case event.KeyEscape:
		s.Hide()
		return true
	case event.KeyRune:
		s.Query += string(ev.Rune)
		s.Hover = s.firstApp()
	case event.KeyBackspace:
		if r := []rune(s.Query); len(r) > 0 {
			s.Query = string(r[:len(r)-1])
		}
		s.Hover = s.firstApp()
	case event.KeyDown:
		if s.Hover < len(rows)-1 {
			s.Hover++
		}
		if s.Hover == 0 {
			s.Hover = 1
		}
	case event.KeyUp:
		if s.Hover > 1 {
			s.Hover--
		}
	case event.KeyEnter:
		if s.Hover > 0 && s.Hover < len(rows) {
			s.activate(rows[s.Hover])
			return true
		}
	}
	s.layout()
	return true
}

func (s *StartMenu) firstApp() int {
	if len(s.Filtered()) == 0 {
		return -1
	}
	return 1
}
