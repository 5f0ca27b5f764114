package menu

import (
	"slices"

	"github.com/1broseidon/termdesk/internal/event"
	"github.com/1broseidon/termdesk/internal/geom"
)

// Manager owns every menu and the single active root slot.
type Manager struct {
	metrics  Metrics
	screen   geom.Rect
	nextID   ID
	menus    map[ID]*Menu
	active   ID
	closing  []ID
	onChange func()
}

// NewManager returns an empty manager. Menus are kept inside screen when
// shown. onChange, when non-nil, is called after every state change.
func NewManager(m Metrics, screen geom.Rect, onChange func()) *Manager {
	return &Manager{
		metrics:  m,
		screen:   screen,
		menus:    make(map[ID]*Menu),
		onChange: onChange,
	}
}

func (mg *Manager) changed() {
	if mg.onChange != nil {
		mg.onChange()
	}
}

// SetScreen updates the bounds menus are clamped to.
func (mg *Manager) SetScreen(r geom.Rect) { mg.screen = r }

// New creates an empty hidden menu.
func (mg *Manager) New(title string, style Style) ID {
	mg.nextID++
	m := &Menu{ID: mg.nextID, Title: title, Style: style, Hover: -1, metrics: mg.metrics}
	m.layout()
	mg.menus[m.ID] = m
	return m.ID
}

// Get resolves an ID.
func (mg *Manager) Get(id ID) (*Menu, bool) {
	m, ok := mg.menus[id]
	return m, ok
}

// SetTitle renames a menu and resizes it to fit.
func (mg *Manager) SetTitle(id ID, title string) bool {
	m, ok := mg.menus[id]
	if !ok {
		return false
	}
	m.Title = title
	m.layout()
	return true
}

// SetItemText relabels an item of menu id and resizes the menu to fit.
func (mg *Manager) SetItemText(id ID, it *Item, text string) bool {
	m, ok := mg.menus[id]
	if !ok || !slices.Contains(m.Items, it) {
		return false
	}
	it.Text = text
	m.layout()
	return true
}

// Destroy hides and frees a menu together with the submenus its items own.
func (mg *Manager) Destroy(id ID) bool {
	m, ok := mg.menus[id]
	if !ok {
		return false
	}
	mg.Hide(id)
	for _, it := range m.Items {
		if it.Submenu != 0 {
			mg.Destroy(it.Submenu)
		}
	}
	if p, ok := mg.menus[m.Parent]; ok {
		for _, it := range p.Items {
			if it.Submenu == id {
				it.Submenu = 0
			}
		}
	}
	mg.closing = slices.DeleteFunc(mg.closing, func(c ID) bool { return c == id })
	delete(mg.menus, id)
	return true
}

func (mg *Manager) add(id ID, it *Item) *Item {
	m, ok := mg.menus[id]
	if !ok {
		return nil
	}
	m.Items = append(m.Items, it)
	m.layout()
	return it
}

// AddItem appends a normal item. It returns nil for an unknown menu.
func (mg *Manager) AddItem(id ID, text string, action func(*Item)) *Item {
	return mg.add(id, &Item{Text: text, Kind: Normal, Enabled: true, Action: action})
}

// AddCheckbox appends a checkbox item.
func (mg *Manager) AddCheckbox(id ID, text string, checked bool, action func(*Item)) *Item {
	return mg.add(id, &Item{Text: text, Kind: Checkbox, Checked: checked, Enabled: true, Action: action})
}

// AddRadio appends a radio item. Radio items of one menu form a single group.
func (mg *Manager) AddRadio(id ID, text string, checked bool, action func(*Item)) *Item {
	return mg.add(id, &Item{Text: text, Kind: Radio, Checked: checked, Enabled: true, Action: action})
}

// AddDisabled appends a greyed-out label.
func (mg *Manager) AddDisabled(id ID, text string) *Item {
	return mg.add(id, &Item{Text: text, Kind: Disabled})
}

// AddSeparator appends a divider.
func (mg *Manager) AddSeparator(id ID) *Item {
	return mg.add(id, &Item{Kind: Separator})
}

// AddSubmenu appends an item that opens a new child menu and returns the
// child's ID, or zero for an unknown parent.
func (mg *Manager) AddSubmenu(id ID, text string) ID {
	parent, ok := mg.menus[id]
	if !ok {
		return 0
	}
	child := mg.New(text, parent.Style&^TitleBar)
	mg.menus[child].Parent = id
	mg.add(id, &Item{Text: text, Kind: Submenu, Enabled: true, Submenu: child})
	return child
}

// RemoveItem deletes item i, destroying any submenu it owns.
func (mg *Manager) RemoveItem(id ID, i int) bool {
	m, ok := mg.menus[id]
	if !ok || i < 0 || i >= len(m.Items) {
		return false
	}
	it := m.Items[i]
	if it.Submenu != 0 {
		mg.Destroy(it.Submenu)
	}
	m.Items = slices.Delete(m.Items, i, i+1)
	m.Hover = -1
	m.layout()
	mg.changed()
	return true
}

// Clear removes every item of a menu.
func (mg *Manager) Clear(id ID) bool {
	m, ok := mg.menus[id]
	if !ok {
		return false
	}
	for len(m.Items) > 0 {
		mg.RemoveItem(id, len(m.Items)-1)
	}
	return true
}

// Show opens a root menu at x, y, clamped on screen. Any other active root is
// hidden first so only one popup is ever open.
func (mg *Manager) Show(id ID, x, y int) bool {
	m, ok := mg.menus[id]
	if !ok {
		return false
	}
	if mg.active != 0 && mg.active != id {
		mg.Hide(mg.active)
	}
	if m.ActiveSubmenu != 0 {
		mg.Hide(m.ActiveSubmenu)
	}
	m.Bounds.X, m.Bounds.Y = x, y
	m.Bounds = m.Bounds.ClampInside(mg.screen)
	mg.open(m)
	if m.Parent == 0 {
		mg.active = id
	}
	return true
}

func (mg *Manager) open(m *Menu) {
	mg.closing = slices.DeleteFunc(mg.closing, func(c ID) bool { return c == m.ID })
	m.Hover = -1
	m.Frame = 0
	if mg.metrics.AnimationFrames <= 0 {
		m.State = Visible
	} else if !m.Open() {
		m.State = AnimatingOpen
	}
	mg.changed()
}

// Hide closes a menu and, first, its open submenu. Hiding a menu that is not
// open is a no-op.
func (mg *Manager) Hide(id ID) bool {
	m, ok := mg.menus[id]
	if !ok || !m.Open() {
		return false
	}
	if m.ActiveSubmenu != 0 {
		mg.Hide(m.ActiveSubmenu)
		m.ActiveSubmenu = 0
	}
	if p, ok := mg.menus[m.Parent]; ok && p.ActiveSubmenu == id {
		p.ActiveSubmenu = 0
	}
	if mg.active == id {
		mg.active = 0
	}
	m.Hover = -1
	m.Frame = 0
	if mg.metrics.AnimationFrames <= 0 {
		m.State = Hidden
	} else {
		m.State = AnimatingClose
		mg.closing = append(mg.closing, id)
	}
	mg.changed()
	return true
}

// CloseAll hides the active chain.
func (mg *Manager) CloseAll() bool {
	if mg.active == 0 {
		return false
	}
	return mg.Hide(mg.active)
}

// Active returns the active root.
func (mg *Manager) Active() (ID, bool) {
	return mg.active, mg.active != 0
}

// IsOpen reports whether any menu chain is open.
func (mg *Manager) IsOpen() bool { return mg.active != 0 }

// Chain returns the open menus from the active root to the leaf.
func (mg *Manager) Chain() []*Menu {
	var chain []*Menu
	for id := mg.active; id != 0; {
		m, ok := mg.menus[id]
		if !ok || !m.Open() {
			break
		}
		chain = append(chain, m)
		id = m.ActiveSubmenu
	}
	return chain
}

// Drawable returns every menu that still needs painting: menus animating
// closed first, then the open chain from root to leaf.
func (mg *Manager) Drawable() []*Menu {
	var out []*Menu
	for _, id := range mg.closing {
		if m, ok := mg.menus[id]; ok {
			out = append(out, m)
		}
	}
	return append(out, mg.Chain()...)
}

// Openness is the animation progress of a menu in percent.
func (mg *Manager) Openness(m *Menu) int {
	n := mg.metrics.AnimationFrames
	switch m.State {
	case Visible:
		return 100
	case AnimatingOpen:
		return min(100, (m.Frame+1)*100/(n+1))
	case AnimatingClose:
		return max(0, 100-(m.Frame+1)*100/(n+1))
	default:
		return 0
	}
}

// Tick advances animations by one frame and reports whether any menu is
// still animating.
func (mg *Manager) Tick() bool {
	animating := false
	for _, m := range mg.menus {
		switch m.State {
		case AnimatingOpen:
			m.Frame++
			if m.Frame >= mg.metrics.AnimationFrames {
				m.State = Visible
				m.Frame = 0
			} else {
				animating = true
			}
		case AnimatingClose:
			m.Frame++
			if m.Frame >= mg.metrics.AnimationFrames {
				m.State = Hidden
				m.Frame = 0
				mg.closing = slices.DeleteFunc(mg.closing, func(c ID) bool { return c == m.ID })
			} else {
				animating = true
			}
		default:
			continue
		}
		mg.changed()
	}
	return animating
}

// FindAt returns the deepest open menu containing the point.
func (mg *Manager) FindAt(x, y int) (ID, bool) {
	chain := mg.Chain()
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Bounds.Contains(x, y) {
			return chain[i].ID, true
		}
	}
	return 0, false
}

// openSubmenu opens item i's submenu beside its row, closing any other open
// child of the same parent.
func (mg *Manager) openSubmenu(parent *Menu, i int) {
	it := parent.Items[i]
	child, ok := mg.menus[it.Submenu]
	if !ok {
		return
	}
	if parent.ActiveSubmenu == child.ID && child.Open() {
		return
	}
	if parent.ActiveSubmenu != 0 {
		mg.Hide(parent.ActiveSubmenu)
	}
	row := parent.ItemRect(i)
	x := parent.Bounds.Right()
	if x+child.Bounds.Width > mg.screen.Right() {
		x = parent.Bounds.X - child.Bounds.Width
	}
	child.Bounds.X, child.Bounds.Y = x, row.Y-padding
	child.Bounds = child.Bounds.ClampInside(mg.screen)
	parent.ActiveSubmenu = child.ID
	mg.open(child)
}

// HandleMouseMove updates hover state and opens or closes submenus. It
// reports whether the point is over the open chain.
func (mg *Manager) HandleMouseMove(x, y int) bool {
	id, ok := mg.FindAt(x, y)
	if !ok {
		return false
	}
	m := mg.menus[id]
	i := m.ItemAt(x, y)
	hover := -1
	if i >= 0 && m.Items[i].Selectable() {
		hover = i
	}
	if hover != m.Hover {
		m.Hover = hover
		mg.changed()
	}
	if i < 0 {
		return true
	}
	if it := m.Items[i]; it.Kind == Submenu && it.Enabled {
		mg.openSubmenu(m, i)
	} else if m.ActiveSubmenu != 0 {
		mg.Hide(m.ActiveSubmenu)
	}
	return true
}

// HandleMouseClick routes a click to the open chain. Activating an item runs
// its action and closes the chain. A click outside every open menu closes the
// chain without running anything. It reports whether the click was consumed,
// which is always the case while a chain is open.
func (mg *Manager) HandleMouseClick(x, y int, _ event.Buttons) bool {
	if mg.active == 0 {
		return false
	}
	id, ok := mg.FindAt(x, y)
	if !ok {
		mg.CloseAll()
		return true
	}
	m := mg.menus[id]
	i := m.ItemAt(x, y)
	if i < 0 {
		return true
	}
	mg.activate(m, i)
	return true
}

func (mg *Manager) activate(m *Menu, i int) {
	it := m.Items[i]
	if !it.Selectable() {
		return
	}
	switch it.Kind {
	case Submenu:
		mg.openSubmenu(m, i)
		if child, ok := mg.menus[it.Submenu]; ok && child.Hover < 0 {
			child.Hover = child.nextSelectable(-1, 1)
		}
		return
	case Checkbox:
		it.Checked = !it.Checked
	case Radio:
		for _, sib := range m.Items {
			if sib.Kind == Radio {
				sib.Checked = false
			}
		}
		it.Checked = true
	}
	root := mg.active
	if it.Action != nil {
		it.Action(it)
	}
	// The action may have opened another root, which already closed ours.
	mg.Hide(root)
}

// HandleKey drives the leaf menu from the keyboard. Every key is consumed
// while a chain is open.
func (mg *Manager) HandleKey(ev event.Keyboard) bool {
	chain := mg.Chain()
	if len(chain) == 0 {
		return false
	}
	if ev.State != event.Down {
		return true
	}
	leaf := chain[len(chain)-1]
	switch ev.Key {
	case event.KeyDown:
		leaf.Hover = leaf.nextSelectable(leaf.Hover, 1)
	case event.KeyUp:
		leaf.Hover = leaf.nextSelectable(leaf.Hover, -1)
	case event.KeyRight:
		if leaf.Hover >= 0 && leaf.Items[leaf.Hover].Kind == Submenu {
			mg.activate(leaf, leaf.Hover)
		}
	case event.KeyLeft:
		if leaf.Parent != 0 {
			mg.Hide(leaf.ID)
		}
	case event.KeyEnter:
		if leaf.Hover >= 0 {
			mg.activate(leaf, leaf.Hover)
		}
	case event.KeyEscape:
		mg.CloseAll()
	}
	mg.changed()
	return true
}
