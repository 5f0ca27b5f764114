package ui

import "github.com/1broseidon/termdesk/internal/draw"

// Theme is the palette the compositor paints with.
type Theme struct {
	Desktop           draw.Color
	Window            draw.Color
	WindowText        draw.Color
	Border            draw.Color
	TitleActive       draw.Color
	TitleInactive     draw.Color
	TitleText         draw.Color
	Taskbar           draw.Color
	TaskbarText       draw.Color
	Button            draw.Color
	ButtonActive      draw.Color
	Menu              draw.Color
	MenuText          draw.Color
	MenuHighlight     draw.Color
	MenuHighlightText draw.Color
	MenuDisabled      draw.Color
	Selection         draw.Color
	IconLabel         draw.Color
	Dock              draw.Color
	Shadow            draw.Color
}

// DefaultTheme is a dark Nord-like palette.
func DefaultTheme() Theme {
	return Theme{
		Desktop:           0x2e3440,
		Window:            0xeceff4,
		WindowText:        0x2e3440,
		Border:            0x4c566a,
		TitleActive:       0x5e81ac,
		TitleInactive:     0x4c566a,
		TitleText:         0xeceff4,
		Taskbar:           0x3b4252,
		TaskbarText:       0xe5e9f0,
		Button:            0x434c5e,
		ButtonActive:      0x81a1c1,
		Menu:              0xe5e9f0,
		MenuText:          0x2e3440,
		MenuHighlight:     0x5e81ac,
		MenuHighlightText: 0xeceff4,
		MenuDisabled:      0x9aa3b5,
		Selection:         0x88c0d0,
		IconLabel:         0xeceff4,
		Dock:              0x434c5e,
		Shadow:            0x1c2028,
	}
}

// Set assigns the color called name, using the snake_case names of the
// config file. It reports whether the name is known.
func (t *Theme) Set(name string, c draw.Color) bool {
	var dst *draw.Color
	switch name {
	case "desktop":
		dst = &t.Desktop
	case "window":
		dst = &t.Window
	case "window_text":
		dst = &t.WindowText
	case "border":
		dst = &t.Border
	case "title_active":
		dst = &t.TitleActive
	case "title_inactive":
		dst = &t.TitleInactive
	case "title_text":
		dst = &t.TitleText
	case "taskbar":
		dst = &t.Taskbar
	case "taskbar_text":
		dst = &t.TaskbarText
	case "button":
		dst = &t.Button
	case "button_active":
		dst = &t.ButtonActive
	case "menu":
		dst = &t.Menu
	case "menu_text":
		dst = &t.MenuText
	case "menu_highlight":
		dst = &t.MenuHighlight
	case "menu_highlight_text":
		dst = &t.MenuHighlightText
	case "menu_disabled":
		dst = &t.MenuDisabled
	case "selection":
		dst = &t.Selection
	case "icon_label":
		dst = &t.IconLabel
	case "dock":
		dst = &t.Dock
	case "shadow":
		dst = &t.Shadow
	default:
		return false
	}
	*dst = c
	return true
}
