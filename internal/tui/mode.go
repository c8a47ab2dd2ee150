package tui

import (
	"io"
	"os"
	"runtime"
	"strings"
)

// OutputMode selects how batch commands report progress.
type OutputMode int

const (
	// ModeTUI draws a live bubbletea table.
	ModeTUI OutputMode = iota
	// ModePlain prints a static table once the work is done.
	ModePlain
	// ModeJSON prints machine-readable results.
	ModeJSON
)

func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModePlain:
		return "plain"
	case ModeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// DetectMode picks a mode for out. Flags win; otherwise anything that is not
// an interactive terminal gets plain output.
func DetectMode(out io.Writer, noProgress, jsonOutput bool) OutputMode {
	switch {
	case jsonOutput:
		return ModeJSON
	case noProgress:
		return ModePlain
	}
	if !isTerminal(out) {
		return ModePlain
	}
	if os.Getenv("CI") != "" {
		return ModePlain
	}
	if runtime.GOOS != "windows" {
		term := os.Getenv("TERM")
		if term == "" || strings.EqualFold(term, "dumb") {
			return ModePlain
		}
	}
	return ModeTUI
}

// IsTerminal reports whether w is a character device. The editor refuses to
// start without one.
func IsTerminal(w io.Writer) bool {
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
