package draw

// Stock icon ids. Config files refer to icons by these numbers; anything
// else renders as a generic glyph.
const (
	IconNone = iota
	IconFolder
	IconFile
	IconNotes
	IconInfo
	IconTerminal
	IconDrive
	IconClock
	IconTrash
	IconNetwork
	IconVolume
)

type stockIcon struct {
	glyph rune
	color Color
}

var stockIcons = map[int]stockIcon{
	IconFolder:   {'D', 0xebcb8b},
	IconFile:     {'F', 0xd8dee9},
	IconNotes:    {'N', 0xa3be8c},
	IconInfo:     {'i', 0x81a1c1},
	IconTerminal: {'$', 0x4c566a},
	IconDrive:    {'H', 0xb48ead},
	IconClock:    {'@', 0xd08770},
	IconTrash:    {'T', 0xbf616a},
	IconNetwork:  {'W', 0x88c0d0},
	IconVolume:   {'V', 0x8fbcbb},
}

// IconLook returns the glyph and base color backends use to render icon id.
func IconLook(id int) (rune, Color) {
	if s, ok := stockIcons[id]; ok {
		return s.glyph, s.color
	}
	if id >= 0 && id < 26 {
		return rune('a' + id), 0x5e81ac
	}
	return '?', 0x5e81ac
}
