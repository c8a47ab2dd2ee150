package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"reelcut/internal/media"
)

func writeMedia(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type failProber struct{}

func (failProber) Probe(context.Context, string) (media.Info, error) {
	return media.Info{}, errors.New("ffprobe not found")
}

func TestProbeAllKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeMedia(t, dir, "a.mp4"),
		writeMedia(t, dir, "logo.png"),
		filepath.Join(dir, "missing.wav"),
		writeMedia(t, dir, "notes.txt"),
	}
	ing := media.Ingester{Prober: media.StaticProber{Duration: 8}, FallbackDuration: 10}

	var (
		mu      sync.Mutex
		started []string
	)
	results := probeAll(context.Background(), ing, files, func(p string) {
		mu.Lock()
		started = append(started, p)
		mu.Unlock()
	}, nil)

	if len(results) != len(files) || len(started) != len(files) {
		t.Fatalf("got %d results, %d starts", len(results), len(started))
	}
	for i, r := range results {
		if r.Path != files[i] {
			t.Fatalf("result %d path = %s, want %s", i, r.Path, files[i])
		}
	}
	if results[0].Source == nil || results[0].Source.Info.Duration != 8 {
		t.Fatalf("video result = %+v", results[0])
	}
	if results[1].Source == nil || results[1].Source.Kind != media.KindImage {
		t.Fatalf("image result = %+v", results[1])
	}
	if results[2].Error == "" || results[3].Error == "" {
		t.Fatalf("expected errors for missing and unsupported files: %+v", results[2:])
	}
}

func TestProbeFields(t *testing.T) {
	tests := []struct {
		name string
		in   probeResult
		want map[string]string
	}{
		{
			name: "probed video",
			in: probeResult{Source: &media.Source{Kind: media.KindVideo, Probed: true,
				Info: media.Info{Duration: 12.5, Width: 1280, Height: 720, Codec: "h264"}}},
			want: map[string]string{"STATUS": "ok", "DURATION": "12.50s", "SIZE": "1280x720", "CODEC": "h264"},
		},
		{
			name: "fallback audio",
			in: probeResult{Source: &media.Source{Kind: media.KindAudio,
				Info: media.Info{Duration: 10}, Warning: "ffprobe not found"}},
			want: map[string]string{"STATUS": "fallback", "DURATION": "10.00s", "NOTE": "ffprobe not found", "SIZE": "-"},
		},
		{
			name: "image",
			in:   probeResult{Source: &media.Source{Kind: media.KindImage}},
			want: map[string]string{"STATUS": "ok", "DURATION": "-", "CODEC": "-"},
		},
		{
			name: "error",
			in:   probeResult{Error: "stat media: missing"},
			want: map[string]string{"STATUS": "error", "NOTE": "stat media: missing"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := probeFields(tt.in)
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestProbeCommandFailsOnBadFiles(t *testing.T) {
	dir := t.TempDir()
	img := writeMedia(t, dir, "logo.png")
	bad := writeMedia(t, dir, "notes.txt")

	out, err := runCLI(t, "probe", "--json", img, bad)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if !strings.Contains(out, `"kind": "image"`) || !strings.Contains(out, "unsupported media type") {
		t.Fatalf("json output: %s", out)
	}
}

func TestProbeFallbackMarksRow(t *testing.T) {
	dir := t.TempDir()
	ing := media.Ingester{Prober: failProber{}, FallbackDuration: 10}
	results := probeAll(context.Background(), ing, []string{writeMedia(t, dir, "song.mp3")}, nil, nil)
	if got := probeFields(results[0])["STATUS"]; got != "fallback" {
		t.Fatalf("status = %s", got)
	}
}
