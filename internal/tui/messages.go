package tui

import (
	"time"

	"reelcut/internal/export"
	"reelcut/internal/media"
)

// RowUpdateMsg updates a single row's fields by column name.
type RowUpdateMsg struct {
	Key    string
	Fields map[string]string
}

// WorkDoneMsg signals that all background work has completed.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}

// clockTickMsg advances the preview clock.
type clockTickMsg time.Time

// exportDoneMsg carries the outcome of an export started from the editor.
type exportDoneMsg struct {
	result export.Result
}

// mediaLoadedMsg carries an ingested file, or the reason it was refused.
type mediaLoadedMsg struct {
	source media.Source
	err    error
}
