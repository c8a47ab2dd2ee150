package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func exportColumns() []Column {
	return []Column{
		{Header: "JOB", Width: 5},
		{Header: "STATUS", Width: 10},
		{Header: "OUTPUT", Width: 12},
	}
}

func TestRowUpdateMsg(t *testing.T) {
	m := NewProgressModel("export", exportColumns())
	m.AddRow("job:1", []string{"1", "pending", "a.mp4"})
	m.AddRow("job:2", []string{"2", "pending", "b.mp4"})

	updated, _ := m.Update(RowUpdateMsg{
		Key:    "job:1",
		Fields: map[string]string{"STATUS": "exported", "OUTPUT": "final.mp4"},
	})
	m = updated.(ProgressModel)

	rows := m.Rows()
	if rows[0].Fields[1] != "exported" || rows[0].Fields[2] != "final.mp4" {
		t.Errorf("row 1 = %v", rows[0].Fields)
	}
	if rows[1].Fields[1] != "pending" {
		t.Errorf("row 2 STATUS = %q, want pending", rows[1].Fields[1])
	}
}

func TestRowUpdateMsgUnknownKey(t *testing.T) {
	m := NewProgressModel("export", []Column{{Header: "STATUS", Width: 10}})
	m.AddRow("job:1", []string{"pending"})

	updated, _ := m.Update(RowUpdateMsg{Key: "job:9", Fields: map[string]string{"STATUS": "exported"}})
	m = updated.(ProgressModel)

	if got := m.Rows()[0].Fields[0]; got != "pending" {
		t.Errorf("STATUS = %q, want unchanged", got)
	}
}

func TestRowsIsACopy(t *testing.T) {
	m := NewProgressModel("", []Column{{Header: "STATUS", Width: 10}})
	m.AddRow("job:1", []string{"pending"})
	m.Rows()[0].Fields[0] = "mutated"
	if got := m.Rows()[0].Fields[0]; got != "pending" {
		t.Errorf("Rows leaked internal state: %q", got)
	}
}

func TestWorkDoneAndErrorQuit(t *testing.T) {
	tests := []struct {
		name    string
		msg     tea.Msg
		wantErr bool
	}{
		{"done", WorkDoneMsg{}, false},
		{"error", ErrorMsg{Err: tea.ErrProgramKilled}, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewProgressModel("export", exportColumns())
			updated, cmd := m.Update(tt.msg)
			m = updated.(ProgressModel)
			if !m.Done() {
				t.Error("expected Done()")
			}
			if (m.Err() != nil) != tt.wantErr {
				t.Errorf("Err() = %v", m.Err())
			}
			if cmd == nil {
				t.Error("expected tea.Quit command")
			}
		})
	}
}

func TestViewShowsTitleAndRows(t *testing.T) {
	m := NewProgressModel("Exporting composition", exportColumns()).WithVerb("Exporting")
	m.AddRow("job:1", []string{"1", "pending", "first.mp4"})
	m.AddRow("job:2", []string{"2", "exported", "second.mp4"})

	view := m.View()
	for _, want := range []string{"Exporting composition", "JOB", "STATUS", "OUTPUT", "first.mp4", "pending", "exported", "Exporting 1/2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestViewHidesFooterWhenDone(t *testing.T) {
	m := NewProgressModel("", []Column{{Header: "STATUS", Width: 10}}).WithVerb("Probing")
	m.AddRow("file:1", []string{"probed"})
	updated, _ := m.Update(WorkDoneMsg{})
	m = updated.(ProgressModel)

	if strings.Contains(m.View(), "Probing") {
		t.Error("footer should disappear once work is done")
	}
}

func TestViewShowsError(t *testing.T) {
	m := NewProgressModel("", exportColumns())
	updated, _ := m.Update(ErrorMsg{Err: tea.ErrProgramKilled})
	if !strings.HasPrefix(updated.View(), "Error:") {
		t.Errorf("view = %q", updated.View())
	}
}

func TestProgressCounts(t *testing.T) {
	m := NewProgressModel("", exportColumns())
	m.AddRow("a", []string{"1", "pending"})
	m.AddRow("b", []string{"2", "rendering"})
	m.AddRow("c", []string{"3", "skipped"})
	m.AddRow("d", []string{"4", "failed"})

	processed, total := m.progressCounts()
	if processed != 2 || total != 4 {
		t.Errorf("progressCounts = %d/%d, want 2/4", processed, total)
	}
}

func TestTickStopsAfterDone(t *testing.T) {
	m := NewProgressModel("", exportColumns())
	updated, cmd := m.Update(tickMsg{})
	m = updated.(ProgressModel)
	if m.tick != 1 || cmd == nil {
		t.Fatalf("tick = %d, cmd = %v", m.tick, cmd)
	}

	updated, _ = m.Update(WorkDoneMsg{})
	if _, cmd = updated.Update(tickMsg{}); cmd != nil {
		t.Error("expected no tick command after done")
	}
}

func TestNonEmptyOrDash(t *testing.T) {
	tests := map[string]string{"": "-", "  ": "-", "clip": "clip", " clip ": "clip"}
	for in, want := range tests {
		if got := NonEmptyOrDash(in); got != want {
			t.Errorf("NonEmptyOrDash(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"a longer caption", 10, "a longe..."},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"clip", 0, ""},
		{"ünïcödé text", 6, "ünï..."},
	}
	for _, tt := range tests {
		if got := TruncateWithEllipsis(tt.input, tt.max); got != tt.want {
			t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}

func TestMarqueeText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		tick  int
		want  string
	}{
		{"short", 10, 0, "short"},
		{"render output", 5, 0, "rende"},
		{"render output", 5, 1, "ender"},
		{"abcdef", 4, 6, "   a"},
		{"abc", 0, 0, ""},
	}
	for _, tt := range tests {
		if got := marqueeText(tt.text, tt.width, tt.tick); got != tt.want {
			t.Errorf("marqueeText(%q, %d, %d) = %q, want %q", tt.text, tt.width, tt.tick, got, tt.want)
		}
	}
}
