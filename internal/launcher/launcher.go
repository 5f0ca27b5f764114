// Package launcher starts the applications declared under apps: in the
// config. Builtin apps open windows inside the desktop; the rest run as
// external processes.
package launcher

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/ui"
)

var (
	ErrUnknownApp = errors.New("unknown app")
	ErrDetached   = errors.New("launcher is not attached to a desktop")
)

// App is one launchable application.
type App struct {
	ID      string
	Name    string
	Icon    int
	Builtin string
	Command string
	Dir     string
}

// Launcher implements ui.Launcher.
type Launcher struct {
	apps  map[string]App
	state *ui.State

	mu  sync.Mutex
	env []string

	running atomic.Int32
	// start is exec.Cmd.Start, replaced in tests.
	start func(*exec.Cmd) error
	wg    sync.WaitGroup
}

// New builds a launcher from the configured apps.
func New(apps map[string]config.AppConfig) *Launcher {
	l := &Launcher{
		apps:  make(map[string]App, len(apps)),
		start: (*exec.Cmd).Start,
	}
	for id, a := range apps {
		l.apps[id] = App{ID: id, Name: a.Name, Icon: a.Icon, Builtin: a.Builtin, Command: a.Command, Dir: a.Dir}
	}
	return l
}

// Attach connects the launcher to the desktop its builtin apps open windows
// on. The State is created with the launcher, so this happens afterwards.
func (l *Launcher) Attach(s *ui.State) { l.state = s }

// SetEnv sets an environment variable for external apps, e.g. DISPLAY for the
// X11 backend.
func (l *Launcher) SetEnv(key, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.env == nil {
		l.env = os.Environ()
	}
	l.env = upsertEnv(l.env, key, value)
}

// Apps returns the registered apps sorted by id.
func (l *Launcher) Apps() []App {
	out := make([]App, 0, len(l.apps))
	for _, a := range l.apps {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// App looks up an app by id.
func (l *Launcher) App(id string) (App, bool) {
	a, ok := l.apps[id]
	return a, ok
}

// Running returns how many external processes are still alive.
func (l *Launcher) Running() int { return int(l.running.Load()) }

// Wait blocks until every external process has exited.
func (l *Launcher) Wait() { l.wg.Wait() }

// Launch starts appID.
func (l *Launcher) Launch(appID string) error {
	app, ok := l.apps[appID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownApp, appID)
	}
	if app.Builtin != "" {
		return l.openBuiltin(app)
	}
	return l.spawn(app)
}

func (l *Launcher) spawn(app App) error {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		dir, _ = os.UserHomeDir()
	} else if expanded, err := config.ExpandHome(dir); err == nil {
		dir = expanded
	}

	argv, err := renderCommandTemplate(app.Command, dir, "")
	if err != nil {
		return fmt.Errorf("failed to render command for %q: %w", app.ID, err)
	}
	if len(argv) == 0 {
		return fmt.Errorf("command for %q is empty", app.ID)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	l.mu.Lock()
	if l.env != nil {
		cmd.Env = append([]string(nil), l.env...)
	}
	l.mu.Unlock()

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %q: %w", app.ID, err)
	}
	l.running.Add(1)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.running.Add(-1)
		if cmd.Process == nil {
			return
		}
		if err := cmd.Wait(); err != nil {
			log.Printf("app %s exited: %v", app.ID, err)
		}
	}()
	return nil
}

// renderCommandTemplate fills {{dir}} and {{cmd}} placeholders in a command
// template and returns an exec-ready argv.
func renderCommandTemplate(template, dir, cmd string) ([]string, error) {
	argv, err := splitCommand(template)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(argv))
	for _, arg := range argv {
		hadCmd := strings.Contains(arg, "{{cmd}}")
		arg = strings.ReplaceAll(arg, "{{dir}}", dir)
		arg = strings.ReplaceAll(arg, "{{cmd}}", cmd)
		arg = strings.TrimSpace(arg)
		if arg == "" {
			// An empty {{cmd}} also drops the flag introducing it ("-e", "--").
			if hadCmd && cmd == "" && len(out) > 0 && strings.HasPrefix(out[len(out)-1], "-") {
				out = out[:len(out)-1]
			}
			continue
		}
		if hadCmd && cmd != "" {
			if parts, err := splitCommand(arg); err == nil && len(parts) > 0 {
				out = append(out, parts...)
				continue
			}
		}
		out = append(out, arg)
	}
	return out, nil
}

// splitCommand splits a shell-like command string into arguments,
// respecting single and double quotes and backslash escapes.
func splitCommand(s string) ([]string, error) {
	var out []string
	var buf strings.Builder
	inSingle, inDouble, escaped := false, false, false

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		out = append(out, buf.String())
		buf.Reset()
	}

	for _, r := range s {
		switch {
		case escaped:
			buf.WriteRune(r)
			escaped = false
		case !inSingle && r == '\\':
			escaped = true
		case !inDouble && r == '\'':
			inSingle = !inSingle
		case !inSingle && r == '"':
			inDouble = !inDouble
		case !inSingle && !inDouble && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			buf.WriteRune(r)
		}
	}

	if escaped {
		return nil, fmt.Errorf("unfinished escape in command template")
	}
	if inSingle || inDouble {
		return nil, fmt.Errorf("unterminated quote in command template")
	}
	flush()
	return out, nil
}

func upsertEnv(env []string, key string, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
