package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"reelcut/internal/export"
)

// ExportReporter adapts bubbletea message sending to export.ProgressReporter.
// The caller supplies the row key and field mappings so this package stays
// out of column layout decisions.
type ExportReporter struct {
	send           func(tea.Msg)
	key            func(export.Job) string
	startFields    func(export.Job) map[string]string
	completeFields func(export.Result) map[string]string
}

// NewExportReporter constructs a reporter with the given mapping functions.
func NewExportReporter(
	send func(tea.Msg),
	key func(export.Job) string,
	startFields func(export.Job) map[string]string,
	completeFields func(export.Result) map[string]string,
) *ExportReporter {
	return &ExportReporter{
		send:           send,
		key:            key,
		startFields:    startFields,
		completeFields: completeFields,
	}
}

// Start implements export.ProgressReporter.
func (r *ExportReporter) Start(job export.Job) {
	r.send(RowUpdateMsg{Key: r.key(job), Fields: r.startFields(job)})
}

// Complete implements export.ProgressReporter.
func (r *ExportReporter) Complete(res export.Result) {
	r.send(RowUpdateMsg{Key: r.key(res.Job), Fields: r.completeFields(res)})
}
