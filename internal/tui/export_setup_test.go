package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"reelcut/internal/config"
)

func testExportConfig() config.ExportConfig {
	return config.Default().Export
}

func setupKeys(t *testing.T, m exportSetupModel, presses ...string) exportSetupModel {
	t.Helper()
	for _, p := range presses {
		var msg tea.KeyMsg
		switch p {
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		next, _ := m.Update(msg)
		m = next.(exportSetupModel)
	}
	return m
}

func TestExportSetupResult(t *testing.T) {
	m := newExportSetupModel("", testExportConfig())
	if m.rows[rowEngine].value() != "simulated" || m.rows[rowResolution].value() != "1920×1080" {
		t.Fatalf("rows not seeded from config: %+v", m.rows)
	}

	m = setupKeys(t, m, "right", "down", "down", "left", "enter")
	res := m.result()
	if res.Cancelled {
		t.Fatal("unexpected cancel")
	}
	if res.Export.Engine != "ffmpeg" || res.Export.Width != 1280 || res.Export.Height != 720 {
		t.Fatalf("export = %+v", res.Export)
	}
	if res.Export.OutputTemplate != testExportConfig().OutputTemplate {
		t.Fatal("fields outside the carousel should be preserved")
	}
}

func TestExportSetupCancel(t *testing.T) {
	m := setupKeys(t, newExportSetupModel("", testExportConfig()), "right", "esc")
	if !m.result().Cancelled {
		t.Fatal("expected cancel")
	}
}

func TestParseResolution(t *testing.T) {
	tests := map[string][2]int{
		"1280×720":  {1280, 720},
		"3840×2160": {3840, 2160},
		"bogus":     {1920, 1080},
		"0×720":     {1920, 1080},
	}
	for in, want := range tests {
		w, h := parseResolution(in)
		if w != want[0] || h != want[1] {
			t.Errorf("parseResolution(%q) = %d×%d", in, w, h)
		}
	}
}
