package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	for _, id := range cfg.StartMenu.Apps {
		if _, ok := cfg.Apps[id]; !ok {
			t.Fatalf("start menu app %q missing from apps", id)
		}
	}
}

func TestLoadFromPath_MissingAndEmptyFileUseDefaults(t *testing.T) {
	dir := t.TempDir()

	res, err := LoadFromPath(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
	if res.Config.Screen.Width != 1024 || res.Config.Timers.FrameMS != 33 {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "")
	res, err = LoadFromPath(path)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(res.Files) != 1 {
		t.Fatalf("expected one file loaded, got %v", res.Files)
	}
	if res.Config.Backend != BackendAuto {
		t.Fatalf("expected backend auto, got %q", res.Config.Backend)
	}
}

func TestLoadFromPath_OverridesKeepSiblingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"backend: tcell",
		"window:",
		"  title_bar_height: 20",
		"theme:",
		"  Desktop: \"#000000\"",
		"apps:",
		"  editor:",
		"    command: vim {{cmd}}",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Backend != BackendTcell {
		t.Fatalf("expected backend tcell, got %q", cfg.Backend)
	}
	if cfg.Window.TitleBarHeight != 20 || cfg.Window.MinWidth != 96 {
		t.Fatalf("expected title bar 20 and default min width, got %+v", cfg.Window)
	}
	if cfg.Theme["desktop"] != "#000000" {
		t.Fatalf("expected lower-cased theme key, got %v", cfg.Theme)
	}
	if cfg.Apps["editor"].Name != "editor" {
		t.Fatalf("expected app name to default to its id, got %+v", cfg.Apps["editor"])
	}
	if _, ok := cfg.Apps["notes"]; !ok {
		t.Fatalf("expected default apps to survive an apps override")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "window:\n  titlebar: 3\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "titlebar") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), "config.yaml") {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.d", "10-base.yaml"), "taskbar:\n  height: 24\n  clock_format: \"3:04PM\"\n")
	writeFile(t, filepath.Join(dir, "config.d", "20-override.yaml"), "taskbar:\n  height: 28\n")
	writeFile(t, filepath.Join(dir, "config.d", "notes.txt"), "not yaml")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"include:",
		"  - config.d",
		"taskbar:",
		"  height: 30",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Taskbar.Height != 30 {
		t.Fatalf("expected taskbar height 30, got %d", res.Config.Taskbar.Height)
	}
	if res.Config.Taskbar.ClockFormat != "3:04PM" {
		t.Fatalf("expected clock format from include, got %q", res.Config.Taskbar.ClockFormat)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files loaded, got %v", res.Files)
	}
	if !strings.HasSuffix(res.Files[0], "10-base.yaml") || !strings.HasSuffix(res.Files[2], "config.yaml") {
		t.Fatalf("unexpected load order: %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), ":2:5:") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		path string
		line string
	}{
		{
			name: "backend",
			yaml: "backend: wayland\n",
			path: "backend",
			line: ":1:10:",
		},
		{
			name: "dock item unknown app",
			yaml: "dock:\n  items:\n    - app: files\n    - app: nope\n",
			path: "dock.items[1].app",
			line: ":4:12:",
		},
		{
			name: "icon kind",
			yaml: "desktop:\n  icons:\n    - name: x\n      kind: blob\n",
			path: "desktop.icons[0].kind",
			line: ":4:13:",
		},
		{
			name: "theme color",
			yaml: "theme:\n  menu: red\n",
			path: "theme.menu",
			line: ":2:9:",
		},
		{
			name: "app needs builtin or command",
			yaml: "apps:\n  broken:\n    name: Broken\n",
			path: "apps.broken",
			line: ":3:5:",
		},
		{
			name: "taskbar taller than screen",
			yaml: "screen:\n  height: 100\ntaskbar:\n  height: 100\n",
			path: "taskbar.height",
			line: ":4:11:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, tt.yaml)

			_, err := LoadFromPath(path)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T %v", err, err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
			if verr.Source.Kind != SourceFile {
				t.Fatalf("expected file source, got %+v", verr.Source)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Fatalf("expected %s in %v", tt.line, err)
			}
		})
	}
}

func TestExplain_FileAndDefaultSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"menu:",
		"  animation_frames: 0",
		"desktop:",
		"  icons:",
		"    - name: Readme",
		"      kind: file",
		"",
	}, "\n"))
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	value, src, err := Explain(res, "menu.animation_frames")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != 0 || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("expected 0 from line 2, got %v from %+v", value, src)
	}

	value, src, err = Explain(res, "menu.item_height")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != 16 || src.Kind != SourceDefault {
		t.Fatalf("expected default 16, got %v from %+v", value, src)
	}

	value, src, err = Explain(res, "desktop.icons[0].icon")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != 0 || src.Kind != SourceFile || src.Line != 5 {
		t.Fatalf("expected list element to inherit the list source, got %v from %+v", value, src)
	}

	value, _, err = Explain(res, "apps.notes.builtin")
	if err != nil || value != "notes" {
		t.Fatalf("expected apps.notes.builtin=notes, got %v (%v)", value, err)
	}

	for _, bad := range []string{"", "nope", "desktop.icons[5]", "desktop.icons[x]", "screen.width.deeper"} {
		if _, _, err := Explain(res, bad); err == nil {
			t.Fatalf("expected error for path %q", bad)
		}
	}
}

func TestGetLoggingConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging = LoggingConfig{Enabled: true}
	got := cfg.GetLoggingConfig()
	if got.MaxSizeMB != 10 || got.MaxFiles != 3 || got.Level != "info" {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if !strings.HasSuffix(got.File, filepath.Join("termdesk", "actions.log")) {
		t.Fatalf("unexpected log file %q", got.File)
	}

	var nilCfg *Config
	if got := nilCfg.GetLoggingConfig(); got.Enabled {
		t.Fatalf("nil config should give zero logging config")
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DoubleClick().Milliseconds() != 400 {
		t.Fatalf("double click = %v", cfg.DoubleClick())
	}
	if cfg.FrameInterval().Milliseconds() != 33 || cfg.ClockInterval().Seconds() != 1 {
		t.Fatalf("timers = %v %v", cfg.FrameInterval(), cfg.ClockInterval())
	}
}
