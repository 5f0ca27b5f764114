// Package compositor paints a whole frame of the desktop, back to front, onto
// a draw.Painter. Every call repaints everything; there is no damage
// tracking.
package compositor

import (
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/ui"
	"github.com/1broseidon/termdesk/internal/window"
)

// Render paints s onto p in this order: background, icons and rubber band,
// taskbar and dock, windows from the bottom of the stack to the top, the
// start menu, the icon drag ghost and finally the open menus.
func Render(s *ui.State, p draw.Painter) {
	th := s.Theme
	background(s.Desktop, p, th)
	icons(s.Desktop, p, th)
	taskbar(s, p, th)
	dock(s, p, th)

	focused, _ := s.Windows.Focused()
	order := s.Windows.Order()
	for i := len(order) - 1; i >= 0; i-- {
		w, ok := s.Windows.Get(order[i])
		if !ok || !w.Viewable() {
			continue
		}
		paintWindow(w, p, th, w.ID == focused)
	}

	startMenu(s, p, th)
	dragGhost(s.Desktop, p, th)
	menus(s, p, th)
}

func background(d *desktop.Desktop, p draw.Painter, th ui.Theme) {
	screen := p.ScreenRect()
	b := d.Background
	col := b.Color

	switch b.Mode {
	case desktop.Animated:
		// Horizontal bands drifting toward the selection color.
		const bands = 8
		h := max(1, screen.Height/bands)
		for i := range bands {
			t := (b.Phase + i*360/bands) % 360
			pct := abs(180-t) * 25 / 180
			r := geom.Rect{X: screen.X, Y: screen.Y + i*h, Width: screen.Width, Height: h}
			if i == bands-1 {
				r.Height = screen.Bottom() - r.Y
			}
			p.FillRect(r, col.Mix(th.Selection, pct))
		}
		return
	default:
		p.FillRect(screen, col)
	}

	img := b.Wallpaper()
	if img < 0 {
		return
	}
	area := d.Bounds()
	short, long := min(area.Width, area.Height), max(area.Width, area.Height)
	switch b.Scale {
	case desktop.Tile:
		const tile = 128
		for y := area.Y; y < area.Bottom(); y += tile {
			for x := area.X; x < area.Right(); x += tile {
				p.Icon(x, y, img, tile)
			}
		}
	case desktop.Center:
		centered(p, area, img, short/2)
	case desktop.Fit:
		centered(p, area, img, short)
	default:
		// Stretch and Fill cover the long side and rely on the backend to
		// clip the overflow.
		centered(p, area, img, long)
	}
}

func centered(p draw.Painter, area geom.Rect, img, size int) {
	p.Icon(area.X+(area.Width-size)/2, area.Y+(area.Height-size)/2, img, size)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func icons(d *desktop.Desktop, p draw.Painter, th ui.Theme) {
	editing, buffer, isEditing := d.Editing()
	for _, ic := range d.Icons() {
		if !ic.Visible {
			continue
		}
		if ic.Selected {
			p.FillRect(ic.Box(), th.Desktop.Mix(th.Selection, 40))
		}
		if ic.Highlighted {
			p.DrawRect(ic.Box(), th.Selection)
		}
		b := ic.Bounds()
		p.Icon(b.X, b.Y, ic.Image, b.Width)

		label := ic.LabelRect()
		if isEditing && ic.ID == editing {
			p.FillRect(label, th.Window)
			text := draw.Truncate(buffer+"_", label.Width)
			p.Text(label.X, label.Y, text, th.WindowText, th.Window)
			continue
		}
		text := draw.Truncate(ic.Name, label.Width)
		p.Text(label.X+(label.Width-draw.TextWidth(text))/2, label.Y, text, th.IconLabel, draw.None)
	}

	if sel := d.Selection(); sel.Active {
		p.DrawRect(sel.Rect(), th.Selection)
	}
}

// textY centers a line of text vertically in r.
func textY(r geom.Rect) int {
	return r.Y + (r.Height-draw.LineHeight)/2
}

func paintWindow(w *window.Window, p draw.Painter, th ui.Theme, focused bool) {
	p.FillRect(w.Bounds, th.Border)

	if bar := w.TitleBar(); !bar.Empty() {
		col := th.TitleInactive
		if focused {
			col = th.TitleActive
		}
		p.FillRect(bar, col)

		buttons := w.Buttons()
		room := bar.Width - len(buttons)*bar.Height - 4
		title := draw.Truncate(w.Title, room)
		p.Text(bar.X+4, textY(bar), title, th.TitleText, col)

		for _, part := range buttons {
			r := w.ButtonRect(part)
			p.FillRect(r.Inset(2), th.Button)
			glyph := buttonGlyph(part, w.Maximized)
			p.Text(r.X+(r.Width-draw.GlyphWidth)/2, textY(r), glyph, th.TitleText, th.Button)
		}
	}

	p.FillRect(w.Client, th.Window)
	w.PaintClient(draw.Clip(p, w.Client))

	if g := w.Grip(); !g.Empty() {
		p.Line(g.X, g.Bottom()-1, g.Right()-1, g.Y, th.Border)
		p.Line(g.X+g.Width/2, g.Bottom()-1, g.Right()-1, g.Y+g.Height/2, th.Border)
	}
}

func buttonGlyph(part window.Part, maximized bool) string {
	switch part {
	case window.PartClose:
		return "x"
	case window.PartMaximize:
		if maximized {
			return "="
		}
		return "+"
	case window.PartMinimize:
		return "_"
	}
	return ""
}

func dragGhost(d *desktop.Desktop, p draw.Painter, th ui.Theme) {
	drag := d.Drag()
	if !drag.Active {
		return
	}
	off := drag.Offset()
	for _, ic := range d.Icons() {
		if !ic.Selected || !ic.Visible {
			continue
		}
		b := ic.Bounds().Translate(off.X, off.Y)
		p.DrawRect(b, th.Selection)
		p.Icon(b.X, b.Y, ic.Image, b.Width)
	}
}
