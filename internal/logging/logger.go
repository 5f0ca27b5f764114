// Package logging writes the desktop action log: one line per user-visible
// action, level filtered, with size-based rotation.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel defines the logging verbosity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ActionType is the kind of desktop action being logged.
type ActionType string

const (
	ActionWindowCreate ActionType = "WINDOW-CREATE"
	ActionWindowClose  ActionType = "WINDOW-CLOSE"
	ActionWindowFocus  ActionType = "WINDOW-FOCUS"
	ActionWindowMove   ActionType = "WINDOW-MOVE"
	ActionMenuAction   ActionType = "MENU-ACTION"
	ActionIconAdd      ActionType = "ICON-ADD"
	ActionIconRemove   ActionType = "ICON-REMOVE"
	ActionIconPaste    ActionType = "ICON-PASTE"
	ActionIconRename   ActionType = "ICON-RENAME"
	ActionAppLaunch    ActionType = "APP-LAUNCH"
	ActionLaunchFailed ActionType = "APP-LAUNCH-FAILED"
	ActionPower        ActionType = "POWER"
	ActionControl      ActionType = "CONTROL"
)

// actionLevel returns the log level for an action type.
func actionLevel(action ActionType) LogLevel {
	switch action {
	case ActionWindowFocus, ActionWindowMove, ActionMenuAction, ActionControl:
		return LevelDebug
	case ActionLaunchFailed:
		return LevelWarn
	default:
		return LevelInfo
	}
}

// Config holds configuration for the action logger.
type Config struct {
	Enabled   bool
	Level     LogLevel
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// Logger writes action lines with file rotation. A nil or disabled Logger
// drops everything, so callers never need to check.
type Logger struct {
	mu          sync.Mutex
	file        *os.File
	config      Config
	currentSize int64
	now         func() time.Time
}

// New creates a logger with the given configuration.
func New(cfg Config) (*Logger, error) {
	if !cfg.Enabled {
		return &Logger{config: cfg, now: time.Now}, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &Logger{
		file:        f,
		config:      cfg,
		currentSize: stat.Size(),
		now:         time.Now,
	}, nil
}

// Log records one action. subject names what the action applied to (a window
// title, an app id, an icon name) and may be empty.
func (l *Logger) Log(action ActionType, subject string, details map[string]any) {
	if l == nil || !l.config.Enabled {
		return
	}
	if actionLevel(action) < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	maxBytes := int64(l.config.MaxSizeMB) * 1024 * 1024
	if maxBytes > 0 && l.currentSize >= maxBytes {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
		if l.file == nil {
			return
		}
	}

	var sb strings.Builder
	sb.WriteString(l.now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(string(action))
	sb.WriteString("]")

	if subject != "" {
		fmt.Fprintf(&sb, " subject=%q", subject)
	}

	if len(details) > 0 {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			switch val := details[k].(type) {
			case string:
				fmt.Fprintf(&sb, " %s=%q", k, val)
			default:
				fmt.Fprintf(&sb, " %s=%v", k, val)
			}
		}
	}
	sb.WriteString("\n")

	n, err := l.file.WriteString(sb.String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
		return
	}
	l.currentSize += int64(n)
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// rotate shifts actions.log -> actions.log.1 -> actions.log.2, dropping the
// file past MaxFiles, and reopens an empty log.
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	basePath := l.config.FilePath
	for i := l.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		if i == l.config.MaxFiles {
			os.Remove(oldPath)
			continue
		}
		os.Rename(oldPath, fmt.Sprintf("%s.%d", basePath, i+1))
	}

	if l.config.MaxFiles > 0 {
		if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	} else if err := os.Truncate(basePath, 0); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to truncate log file: %w", err)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}

	l.file = f
	l.currentSize = 0
	return nil
}

// ParseLogLevel converts a string to LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
