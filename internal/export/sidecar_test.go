package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcut/internal/config"
)

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{config.SidecarSRT, "/out/clip.srt"},
		{config.SidecarASS, "/out/clip.ass"},
		{config.SidecarNone, ""},
	}
	for _, tt := range tests {
		if got := SidecarPath("/out/clip.mp4", tt.format); got != tt.want {
			t.Errorf("SidecarPath(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestWriteSidecar(t *testing.T) {
	dir := t.TempDir()
	job := Job{Snapshot: testSnapshot(), Settings: testSettings()}

	srt := filepath.Join(dir, "clip.srt")
	if err := WriteSidecar(srt, config.SidecarSRT, job); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(srt)
	if !strings.Contains(string(data), "00:00:00,500 --> 00:00:02,000") || !strings.Contains(string(data), "Second") {
		t.Fatalf("unexpected srt:\n%s", data)
	}

	ass := filepath.Join(dir, "clip.ass")
	if err := WriteSidecar(ass, config.SidecarASS, job); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(ass)
	if !strings.Contains(string(data), `\pos(480,108)`) {
		t.Fatalf("second cue not positioned:\n%s", data)
	}

	bad := filepath.Join(dir, "clip.txt")
	if err := WriteSidecar(bad, "txt", job); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Fatal("failed sidecar left behind")
	}
}
