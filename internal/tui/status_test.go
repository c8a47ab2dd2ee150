package tui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStatusWriterDrawsAndStops(t *testing.T) {
	var out syncBuffer
	sw := NewStatusWriter(&out)
	sw.Update("probing clip.mp4")
	time.Sleep(3 * statusInterval)
	sw.Stop()
	sw.Stop()

	got := out.String()
	if !strings.Contains(got, "probing clip.mp4") {
		t.Fatalf("status output = %q", got)
	}
	if !strings.HasSuffix(got, "\r\033[K") {
		t.Fatalf("Stop should clear the line, got %q", got)
	}
	n := len(got)
	time.Sleep(2 * statusInterval)
	if len(out.String()) != n {
		t.Fatal("spinner kept drawing after Stop")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := map[time.Duration]string{
		850 * time.Millisecond:  "850ms",
		4200 * time.Millisecond: "4.2s",
		37 * time.Second:        "37s",
		125 * time.Second:       "2m05s",
	}
	for in, want := range tests {
		if got := formatElapsed(in); got != want {
			t.Errorf("formatElapsed(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestDetectModeFlags(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		noProgress, json bool
		want             OutputMode
	}{
		{false, true, ModeJSON},
		{true, false, ModePlain},
		{true, true, ModeJSON},
		{false, false, ModePlain}, // a buffer is not a terminal
	}
	for _, tt := range tests {
		if got := DetectMode(&buf, tt.noProgress, tt.json); got != tt.want {
			t.Errorf("DetectMode(noProgress=%v, json=%v) = %s, want %s", tt.noProgress, tt.json, got, tt.want)
		}
	}
	if IsTerminal(&buf) {
		t.Error("buffer reported as terminal")
	}
}
