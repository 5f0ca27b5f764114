// Package daemon is the desktop host loop. One goroutine owns the ui.State;
// backend input, scheduler ticks and control requests all reach it through
// channels and are handled in arrival order.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/termdesk/internal/compositor"
	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/draw"
	"github.com/1broseidon/termdesk/internal/event"
	"github.com/1broseidon/termdesk/internal/geom"
	"github.com/1broseidon/termdesk/internal/input"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/launcher"
	"github.com/1broseidon/termdesk/internal/logging"
	"github.com/1broseidon/termdesk/internal/sched"
	"github.com/1broseidon/termdesk/internal/ui"
	"github.com/1broseidon/termdesk/internal/widgets"
)

// ErrAlreadyRunning is returned when another desktop answers on the control
// socket.
var ErrAlreadyRunning = errors.New("termdesk is already running")

var errShuttingDown = errors.New("desktop is shutting down")

// Backend is a drawing surface plus an input source.
type Backend interface {
	draw.Painter
	Name() string
	Open() error
	Close()
	Present()
	// Run delivers input until ctx is done.
	Run(ctx context.Context, out chan<- event.Input)
}

// Resizer is implemented by backends holding size-dependent buffers.
type Resizer interface {
	Resize(width, height int) error
}

// Options configure a Runner.
type Options struct {
	Config  *config.Config
	Backend Backend
	Logger  *slog.Logger
	// Actions is the desktop action log; nil disables it.
	Actions *logging.Logger
	// SocketPath enables the control socket when set.
	SocketPath string
	// Env is added to the environment of launched programs.
	Env map[string]string
}

type request struct {
	req   *ipc.Request
	reply chan *ipc.Response
}

// Runner is the host loop.
type Runner struct {
	cfg      *config.Config
	backend  Backend
	logger   *slog.Logger
	actions  *logging.Logger
	socket   string
	launcher *launcher.Launcher

	state  *ui.State
	router *input.Router
	sched  *sched.Scheduler

	requests chan request
	done     chan struct{}
	doneOnce sync.Once
	quit     bool
	started  time.Time
	now      func() time.Time
}

// New validates opts and prepares a Runner. Nothing is opened until Run.
func New(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	l := launcher.New(opts.Config.Apps)
	for k, v := range opts.Env {
		l.SetEnv(k, v)
	}
	return &Runner{
		cfg:      opts.Config,
		backend:  opts.Backend,
		logger:   logger,
		actions:  opts.Actions,
		socket:   opts.SocketPath,
		launcher: l,
		sched:    sched.New(),
		requests: make(chan request),
		done:     make(chan struct{}),
		now:      time.Now,
	}, nil
}

// Launcher returns the app launcher.
func (r *Runner) Launcher() *launcher.Launcher { return r.launcher }

// setup builds the desktop for the backend's current size.
func (r *Runner) setup() error {
	screen := r.backend.ScreenRect()
	opts, err := BuildOptions(r.cfg, screen, r.launcher.Apps())
	if err != nil {
		return err
	}
	sess := &session{logger: r.logger, quit: func() { r.quit = true }}
	r.state = ui.New(opts, r.launcher, sess, r.actions)
	r.launcher.Attach(r.state)
	r.router = input.New(r.state)
	r.started = r.now()

	for _, item := range r.cfg.Systray.Items {
		if item.App == "" {
			continue
		}
		for _, it := range r.state.Tray.Items {
			if it.ID == item.ID {
				app := item.App
				it.Click = func(*widgets.TrayItem) { r.launch(app) }
			}
		}
	}

	r.sched.Every("frame", r.cfg.FrameInterval(), func(time.Time) {
		r.state.Animate()
	})
	r.sched.Every("clock", r.cfg.ClockInterval(), r.state.UpdateClock)
	if secs := r.cfg.Background.SlideshowSeconds; secs > 0 {
		r.sched.Every("slideshow", time.Duration(secs)*time.Second, func(time.Time) {
			r.state.Desktop.NextWallpaper()
		})
	}
	r.logger.Info("desktop ready",
		"backend", r.backend.Name(),
		"width", screen.Width,
		"height", screen.Height,
		"icons", r.state.Desktop.Len())
	return nil
}

func (r *Runner) launch(appID string) {
	if err := r.state.LaunchApp(appID); err != nil {
		r.logger.Warn("launch failed", "app", appID, "error", err)
	}
}

// Run opens the backend and serves until ctx is done, the backend asks to
// quit or a logout is chosen.
func (r *Runner) Run(ctx context.Context) error {
	defer r.doneOnce.Do(func() { close(r.done) })

	if err := r.backend.Open(); err != nil {
		return fmt.Errorf("failed to open %s backend: %w", r.backend.Name(), err)
	}
	defer r.backend.Close()

	if err := r.setup(); err != nil {
		return err
	}
	defer r.state.Teardown()

	if r.socket != "" {
		srv, err := r.listen()
		if err != nil {
			return err
		}
		defer srv.Stop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	inputs := make(chan event.Input, 64)
	go r.backend.Run(ctx, inputs)

	tick := r.cfg.FrameInterval()
	if tick <= 0 {
		tick = 33 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	r.sched.Tick(r.now())
	for !r.quit {
		r.render()
		select {
		case <-ctx.Done():
			r.logger.Info("desktop stopping", "reason", ctx.Err())
			return nil
		case in := <-inputs:
			r.handleInput(in)
		case rq := <-r.requests:
			rq.reply <- r.handleRequest(rq.req)
		case now := <-ticker.C:
			r.sched.Tick(now)
		}
	}
	r.logger.Info("desktop stopping", "reason", "quit")
	return nil
}

func (r *Runner) listen() (*ipc.Server, error) {
	if err := ipc.NewClientAt(r.socket).Ping(); err == nil {
		return nil, ErrAlreadyRunning
	}
	if err := os.Remove(r.socket); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove stale socket: %w", err)
	}
	srv, err := ipc.NewServer(r.socket, ipc.HandlerFunc(r.HandleRequest))
	if err != nil {
		return nil, err
	}
	if err := srv.Start(); err != nil {
		return nil, err
	}
	return srv, nil
}

// render repaints the whole frame when something changed.
func (r *Runner) render() {
	if !r.state.TakeDirty() {
		return
	}
	compositor.Render(r.state, r.backend)
	r.backend.Present()
}

func (r *Runner) handleInput(in event.Input) {
	switch in.Kind {
	case event.InputMouse:
		r.router.HandleMouse(in.Mouse)
	case event.InputKey:
		r.router.HandleKeyboard(in.Key)
	case event.InputResize:
		r.resize(in.Width, in.Height)
	case event.InputQuit:
		r.quit = true
	}
}

func (r *Runner) resize(width, height int) {
	if rs, ok := r.backend.(Resizer); ok {
		if err := rs.Resize(width, height); err != nil {
			r.logger.Error("resize failed", "width", width, "height", height, "error", err)
			return
		}
	}
	screen := geom.Rect{Width: width, Height: height}
	if screen == r.state.Options.Screen {
		// Same size: an expose. Repaint.
		r.state.Invalidate()
		return
	}
	r.logger.Debug("screen resized", "width", width, "height", height)
	r.state.Resize(screen)
}

// HandleRequest passes a control request to the host loop and waits for the
// reply. It is safe to call from any goroutine.
func (r *Runner) HandleRequest(req *ipc.Request) *ipc.Response {
	rq := request{req: req, reply: make(chan *ipc.Response, 1)}
	select {
	case r.requests <- rq:
	case <-r.done:
		return ipc.NewErrorResponse(errShuttingDown.Error())
	}
	select {
	case resp := <-rq.reply:
		return resp
	case <-r.done:
		return ipc.NewErrorResponse(errShuttingDown.Error())
	}
}
