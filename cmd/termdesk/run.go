package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/1broseidon/termdesk/internal/cellscreen"
	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/daemon"
	"github.com/1broseidon/termdesk/internal/logging"
	"github.com/1broseidon/termdesk/internal/runtimepath"
	"github.com/1broseidon/termdesk/internal/x11"
)

func runDesktop(args []string) int {
	fs := newFlagSet("run", "run [--path PATH] [--backend auto|tcell|x11]", "Start the desktop in the foreground.")
	path := fs.String("path", "", "Config file path (default: ~/.config/termdesk/config.yaml)")
	backendName := fs.String("backend", "", "Override the configured backend")
	socket := socketFlag(fs)
	noSocket := fs.Bool("no-socket", false, "Do not open the control socket")
	fullscreen := fs.Bool("fullscreen", false, "Ask the window manager for a fullscreen window (x11)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	var res *config.LoadResult
	var err error
	if *path == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(*path)
	}
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	cfg := res.Config
	if *backendName != "" {
		cfg.Backend = *backendName
	}

	display := cfg.Display
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	kind, err := chooseBackend(cfg.Backend, display, interactive)
	if err != nil {
		log.Print(err)
		return 2
	}

	var logOut io.Writer = os.Stderr
	env := map[string]string{}
	var backend daemon.Backend
	switch kind {
	case config.BackendX11:
		backend = x11.NewSurface(x11.Options{
			Display:    display,
			Width:      cfg.Screen.Width,
			Height:     cfg.Screen.Height,
			Fullscreen: *fullscreen,
		})
		env["DISPLAY"] = display
	default:
		scr, err := cellscreen.NewTerminal(cfg.Cell.Width, cfg.Cell.Height)
		if err != nil {
			log.Printf("Failed to open terminal: %v", err)
			return 1
		}
		backend = scr
		// The terminal belongs to the desktop until it exits.
		f, err := openProcessLog()
		if err != nil {
			log.Printf("Failed to open log file: %v", err)
			return 1
		}
		defer f.Close()
		logOut = f
		log.SetOutput(f)
		defer log.SetOutput(os.Stderr)
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slogLevel(cfg.LogLevel)}))

	logCfg := cfg.GetLoggingConfig()
	var actions *logging.Logger
	if logCfg.Enabled {
		actions, err = logging.New(logging.Config{
			Enabled:   logCfg.Enabled,
			Level:     logging.ParseLogLevel(logCfg.Level),
			FilePath:  logCfg.File,
			MaxSizeMB: logCfg.MaxSizeMB,
			MaxFiles:  logCfg.MaxFiles,
		})
		if err != nil {
			log.Printf("Warning: failed to initialize action log: %v", err)
			actions = nil
		}
		defer actions.Close()
	}

	socketPath := *socket
	if socketPath == "" && !*noSocket {
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			log.Printf("Warning: control socket disabled: %v", err)
			socketPath = ""
		}
	}
	if *noSocket {
		socketPath = ""
	}

	runner, err := daemon.New(daemon.Options{
		Config:     cfg,
		Backend:    backend,
		Logger:     logger,
		Actions:    actions,
		SocketPath: socketPath,
		Env:        env,
	})
	if err != nil {
		log.Printf("Failed to create desktop: %v", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Println("Shutting down termdesk...")
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Printf("Starting termdesk (backend: %s)", kind)
	if err := runner.Run(ctx); err != nil {
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		log.Printf("Desktop error: %v", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	runner.Launcher().Wait()
	return 0
}

// chooseBackend resolves "auto": an X display is used when we are not
// attached to a terminal, otherwise the terminal is.
func chooseBackend(name, display string, interactive bool) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case config.BackendTcell:
		return config.BackendTcell, nil
	case config.BackendX11:
		if display == "" {
			return "", fmt.Errorf("x11 backend needs DISPLAY or display in the config")
		}
		return config.BackendX11, nil
	case "", config.BackendAuto:
		if display != "" && !interactive {
			return config.BackendX11, nil
		}
		if interactive {
			return config.BackendTcell, nil
		}
		return "", fmt.Errorf("no display and no terminal: set DISPLAY or run from a terminal")
	default:
		return "", fmt.Errorf("unknown backend %q (expected auto, tcell or x11)", name)
	}
}

func openProcessLog() (*os.File, error) {
	p, err := runtimepath.LogPath()
	if err != nil {
		return nil, err
	}
	return os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

func slogLevel(s string) slog.Level {
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
