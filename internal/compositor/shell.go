package compositor

import (
	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/menu"
	"github.com/1broseidon/termdesk/internal/ui"
	"github.com/1broseidon/termdesk/internal/widgets"
)

func taskbar(s *ui.State, p draw.Painter, th ui.Theme) {
	l := s.Layout
	if l.Taskbar.Empty() {
		return
	}
	p.FillRect(l.Taskbar, th.Taskbar)
	p.HLine(l.Taskbar.X, l.Taskbar.Y, l.Taskbar.Width, th.Border)

	start := l.StartButton.Inset(2)
	col := th.Button
	if s.Start.Visible {
		col = th.ButtonActive
	}
	p.FillRect(start, col)
	p.Text(start.X+4, textY(start), "Start", th.TaskbarText, col)

	for _, b := range s.Taskbar.Buttons(s.Windows) {
		col := th.Button
		if b.Focused {
			col = th.ButtonActive
		}
		p.FillRect(b.Rect, col)
		title := b.Title
		if b.Minimized {
			title = "[" + title + "]"
		}
		p.Text(b.Rect.X+4, textY(b.Rect), draw.Truncate(title, b.Rect.Width-8), th.TaskbarText, col)
	}

	for i, it := range s.Tray.Items {
		r := s.Tray.ItemRect(i)
		p.Icon(r.X, r.Y, it.Icon, r.Width)
	}

	clock := l.Clock
	text := s.Taskbar.Clock
	p.Text(clock.Right()-draw.TextWidth(text)-4, textY(clock), text, th.TaskbarText, th.Taskbar)
}

func dock(s *ui.State, p draw.Painter, th ui.Theme) {
	d := s.Dock
	if len(d.Items) == 0 {
		return
	}
	pad := d.Spacing / 2
	p.FillRect(geom.Rect{
		X:      d.Bounds.X - pad,
		Y:      d.Bounds.Y - pad,
		Width:  d.Bounds.Width + pad,
		Height: d.Bounds.Height + 2*pad,
	}, th.Dock)

	for i, it := range d.Items {
		r := d.ItemRect(i)
		if it.State == widgets.StateHover || it.State == widgets.StateActive {
			p.DrawRect(r.Inset(-1), th.Selection)
		}
		p.Icon(r.X, r.Y-d.Lift(it), it.IconID, d.IconSize)
		if it.Running {
			p.FillRect(geom.Rect{X: r.X + r.Width/2 - 2, Y: r.Bottom() + 1, Width: 4, Height: 2}, th.TaskbarText)
		}
	}
}

func startMenu(s *ui.State, p draw.Painter, th ui.Theme) {
	sm := s.Start
	if !sm.Visible {
		return
	}
	p.FillRect(sm.Bounds, th.Menu)
	p.DrawRect(sm.Bounds, th.Border)

	firstPower := true
	for i, row := range sm.Rows() {
		r := sm.RowRect(i)
		switch row.Kind {
		case widgets.RowSearch:
			p.FillRect(r, th.Window)
			p.Text(r.X+2, textY(r), draw.Truncate("> "+row.Text+"_", r.Width-4), th.WindowText, th.Window)
			continue
		case widgets.RowPower:
			if firstPower {
				p.HLine(r.X, r.Y, r.Width, th.Border)
				firstPower = false
			}
		}
		fg, bg := th.MenuText, th.Menu
		if i == sm.Hover {
			fg, bg = th.MenuHighlightText, th.MenuHighlight
			p.FillRect(r, bg)
		}
		x := r.X + 4
		if row.Kind == widgets.RowApp {
			p.Icon(x, r.Y, row.Icon, r.Height)
			x += r.Height + 4
		}
		p.Text(x, textY(r), draw.Truncate(row.Text, r.Right()-x), fg, bg)
	}
}

func menus(s *ui.State, p draw.Painter, th ui.Theme) {
	for _, m := range s.Menus.Drawable() {
		pct := s.Menus.Openness(m)
		if pct <= 0 {
			continue
		}
		visible := m.Bounds
		visible.Height = max(1, m.Bounds.Height*pct/100)
		if m.Style.Has(menu.Shadow) {
			draw.Clip(p, visible.Translate(3, 3)).FillRect(m.Bounds.Translate(3, 3), th.Shadow)
		}
		paintMenu(m, draw.Clip(p, visible), th)
	}
}

func paintMenu(m *menu.Menu, p draw.Painter, th ui.Theme) {
	p.FillRect(m.Bounds, th.Menu)
	p.DrawRect(m.Bounds, th.Border)

	if tr := m.TitleRect(); !tr.Empty() {
		p.FillRect(tr, th.TitleActive)
		p.Text(tr.X+4, textY(tr), draw.Truncate(m.Title, tr.Width-8), th.TitleText, th.TitleActive)
	}

	textX := m.TextX()
	for i, it := range m.Items {
		r := m.ItemRect(i)
		if it.Kind == menu.Separator {
			p.HLine(r.X+4, r.Y+r.Height/2, r.Width-8, th.Border)
			continue
		}
		fg, bg := th.MenuText, th.Menu
		switch {
		case !it.Selectable():
			fg = th.MenuDisabled
		case i == m.Hover:
			fg, bg = th.MenuHighlightText, th.MenuHighlight
			p.FillRect(r, bg)
		}

		mark := ""
		switch {
		case it.Kind == menu.Checkbox && it.Checked:
			mark = "x"
		case it.Kind == menu.Radio && it.Checked:
			mark = "*"
		}
		if mark != "" {
			p.Text(r.X+4, textY(r), mark, fg, bg)
		}
		if m.Style.Has(menu.Icons) && it.Icon != 0 {
			p.Icon(textX-r.Height-2, r.Y, it.Icon, r.Height)
		}
		p.Text(textX, textY(r), draw.Truncate(it.Text, r.Right()-textX-draw.GlyphWidth), fg, bg)
		if it.Kind == menu.Submenu {
			p.Text(r.Right()-draw.GlyphWidth-2, textY(r), ">", fg, bg)
		}
	}
}
