package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/1broseidon/termdesk/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDesktop(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "icons":
		os.Exit(runIcons(os.Args[2:]))
	case "apps":
		os.Exit(runApps(os.Args[2:]))
	case "focus":
		os.Exit(runWindowCommand("focus", os.Args[2:], (*ipc.Client).FocusWindow))
	case "close":
		os.Exit(runWindowCommand("close", os.Args[2:], (*ipc.Client).CloseWindow))
	case "launch":
		os.Exit(runLaunch(os.Args[2:]))
	case "show-desktop":
		os.Exit(runShowDesktop(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: termdesk <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the desktop (foreground)")
	fmt.Fprintln(w, "  status              Show desktop status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  windows             List windows, topmost first")
	fmt.Fprintln(w, "  focus <id>          Raise and focus a window")
	fmt.Fprintln(w, "  close <id>          Ask a window to close")
	fmt.Fprintln(w, "  show-desktop        Minimize every window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  apps                List configured apps")
	fmt.Fprintln(w, "  launch <app>        Launch an app")
	fmt.Fprintln(w, "  icons               List desktop icons")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open the desktop inspector")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'termdesk <command> --help' for command-specific options.")
}

// newFlagSet returns a flag set with the usual usage header. A -socket flag
// is added to every command that talks to a running desktop.
func newFlagSet(name, usage, about string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, about)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func socketFlag(fs *flag.FlagSet) *string {
	return fs.String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/termdesk.sock)")
}

func clientFor(socket string) *ipc.Client {
	if socket == "" {
		return ipc.NewClient()
	}
	return ipc.NewClientAt(socket)
}

func printJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "status [--json]", "Show desktop status via the control socket.")
	socket := socketFlag(fs)
	jsonOut := fs.Bool("json", false, "Output JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := clientFor(*socket).GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(status)
	}
	fmt.Printf("running:        %v\n", status.Running)
	fmt.Printf("backend:        %s\n", status.Backend)
	fmt.Printf("screen:         %dx%d\n", status.ScreenWidth, status.ScreenHeight)
	fmt.Printf("windows:        %d\n", status.WindowCount)
	fmt.Printf("icons:          %d\n", status.IconCount)
	if status.FocusedWindow != 0 {
		fmt.Printf("focused_window: %d\n", status.FocusedWindow)
	}
	fmt.Printf("menu_open:      %v\n", status.MenuOpen)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runWindows(args []string) int {
	fs := newFlagSet("windows", "windows [--json]", "List windows, topmost first.")
	socket := socketFlag(fs)
	jsonOut := fs.Bool("json", false, "Output JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	wins, err := clientFor(*socket).ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(wins)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAPP\tGEOMETRY\tSTATE")
	for _, w := range wins {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%dx%d+%d+%d\t%s\n", w.ID, w.Title, w.App, w.Width, w.Height, w.X, w.Y, windowState(w))
	}
	tw.Flush()
	return 0
}

func windowState(w ipc.WindowInfo) string {
	switch {
	case !w.Visible:
		return "hidden"
	case w.Minimized:
		return "minimized"
	case w.Focused && w.Maximized:
		return "focused,maximized"
	case w.Focused:
		return "focused"
	case w.Maximized:
		return "maximized"
	default:
		return "normal"
	}
}

func runIcons(args []string) int {
	fs := newFlagSet("icons", "icons [--json]", "List desktop icons.")
	socket := socketFlag(fs)
	jsonOut := fs.Bool("json", false, "Output JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	icons, err := clientFor(*socket).ListIcons()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(icons)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKIND\tPATH\tPOSITION")
	for _, ic := range icons {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d,%d\n", ic.ID, ic.Name, ic.Kind, ic.Path, ic.X, ic.Y)
	}
	tw.Flush()
	return 0
}

func runApps(args []string) int {
	fs := newFlagSet("apps", "apps [--json]", "List configured apps.")
	socket := socketFlag(fs)
	jsonOut := fs.Bool("json", false, "Output JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	apps, err := clientFor(*socket).ListApps()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(apps)
	}
	for _, a := range apps {
		mark := " "
		if a.Running {
			mark = "*"
		}
		fmt.Printf("%s %-12s %s\n", mark, a.ID, a.Name)
	}
	return 0
}

func runWindowCommand(name string, args []string, do func(*ipc.Client, uint64) error) int {
	fs := newFlagSet(name, name+" <window-id>", "Window ids come from 'termdesk windows'.")
	socket := socketFlag(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires exactly one window id\n", name)
		fs.Usage()
		return 2
	}
	id, err := strconv.ParseUint(fs.Arg(0), 10, 32)
	if err != nil || id == 0 {
		fmt.Fprintf(os.Stderr, "invalid window id %q\n", fs.Arg(0))
		return 2
	}
	if err := do(clientFor(*socket), id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runLaunch(args []string) int {
	fs := newFlagSet("launch", "launch <app>", "Launch a configured app. See 'termdesk apps'.")
	socket := socketFlag(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "launch requires exactly one app id")
		fs.Usage()
		return 2
	}
	if err := clientFor(*socket).LaunchApp(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runShowDesktop(args []string) int {
	fs := newFlagSet("show-desktop", "show-desktop", "Minimize every window.")
	socket := socketFlag(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	n, err := clientFor(*socket).ShowDesktop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("minimized: %d\n", n)
	return 0
}
