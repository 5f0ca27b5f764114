package main

import (
	"fmt"
	"os"

	"github.com/1broseidon/termdesk/internal/tui"
)

func runTUI(args []string) int {
	fs := newFlagSet("tui", "tui [--socket PATH]", "Inspect a running desktop.")
	socket := socketFlag(fs)

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: termdesk tui [--socket PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live view of the windows, apps and icons of a running desktop.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1-3   Switch tabs")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓   Navigate")
		fmt.Fprintln(os.Stderr, "  /          Filter")
		fmt.Fprintln(os.Stderr, "  Enter      Focus window / launch app")
		fmt.Fprintln(os.Stderr, "  x          Close window")
		fmt.Fprintln(os.Stderr, "  d          Show desktop")
		fmt.Fprintln(os.Stderr, "  l          Launch an app by id")
		fmt.Fprintln(os.Stderr, "  r          Refresh now")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C  Quit")
		return 0
	}

	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	if err := tui.Run(clientFor(*socket)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
