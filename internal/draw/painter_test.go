package draw

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/termdesk/internal/geom"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#2e3440", 0x2e3440, false},
		{"FFFFFF", 0xffffff, false},
		{"none", None, false},
		{"#fff", 0, true},
		{"#zzzzzz", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorMix(t *testing.T) {
	black := Color(0x000000)
	white := Color(0xffffff)
	if got := black.Mix(white, 0); got != black {
		t.Fatalf("Mix 0%% = %v", got)
	}
	if got := black.Mix(white, 100); got != white {
		t.Fatalf("Mix 100%% = %v", got)
	}
	if got := black.Mix(white, 50); got != Color(0x7f7f7f) {
		t.Fatalf("Mix 50%% = %v", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Documents", 9*GlyphWidth); got != "Documents" {
		t.Fatalf("expected untouched text, got %q", got)
	}
	got := Truncate("Documents", 5*GlyphWidth)
	if !strings.HasPrefix(got, "Doc") || runewidth.StringWidth(got) > 5 {
		t.Fatalf("expected truncated text within 5 columns, got %q", got)
	}
	if got := Truncate("Documents", 0); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestClip(t *testing.T) {
	rec := NewRecorder(200, 100)
	clip := geom.Rect{X: 10, Y: 10, Width: 50, Height: 40}
	p := Clip(rec, clip)

	p.FillRect(geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}, 0x111111)
	p.FillRect(geom.Rect{X: 100, Y: 0, Width: 10, Height: 10}, 0x222222)
	p.Text(12, 12, "a very long line of text", 0, None)
	p.Text(12, 45, "below", 0, None)
	p.Icon(12, 12, 1, 64)

	if len(rec.Ops) != 2 {
		t.Fatalf("ops = %+v, want fill and text only", rec.Ops)
	}
	if rec.Ops[0].Rect != clip {
		t.Fatalf("fill = %+v, want %+v", rec.Ops[0].Rect, clip)
	}
	if w := TextWidth(rec.Ops[1].Text); w > clip.Right()-12 {
		t.Fatalf("text %q overflows clip", rec.Ops[1].Text)
	}
	if p.ScreenRect() != clip {
		t.Fatalf("ScreenRect = %+v", p.ScreenRect())
	}
}

func TestIconLook(t *testing.T) {
	if g, _ := IconLook(IconFolder); g != 'D' {
		t.Fatalf("folder glyph = %q", g)
	}
	if g, _ := IconLook(-3); g != '?' {
		t.Fatalf("negative id glyph = %q", g)
	}
	a, _ := IconLook(20)
	b, _ := IconLook(21)
	if a == b {
		t.Fatalf("unknown ids share glyph %q", a)
	}
}
