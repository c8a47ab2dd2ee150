package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleProbe = `{
  "streams": [
    {"codec_type": "video", "codec_name": "h264", "width": 1280, "height": 720, "duration": "12.480000"},
    {"codec_type": "audio", "codec_name": "aac", "duration": "12.500000"}
  ],
  "format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "12.500000"}
}`

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseProbe(t *testing.T) {
	info, err := parseProbe([]byte(sampleProbe))
	if err != nil {
		t.Fatal(err)
	}
	if info.Duration != 12.5 || info.Width != 1280 || info.Height != 720 || info.Codec != "h264" {
		t.Fatalf("info = %+v", info)
	}
	if !info.HasVideo || !info.HasAudio {
		t.Fatalf("stream flags = %+v", info)
	}
}

func TestParseProbeStreamDurationFallback(t *testing.T) {
	info, err := parseProbe([]byte(`{"streams":[{"codec_type":"audio","codec_name":"mp3","duration":"3.25"}],"format":{}}`))
	if err != nil {
		t.Fatal(err)
	}
	if info.Duration != 3.25 || info.HasVideo {
		t.Fatalf("info = %+v", info)
	}
}

func TestParseProbeErrors(t *testing.T) {
	if _, err := parseProbe(nil); err == nil {
		t.Fatal("expected error for empty output")
	}
	if _, err := parseProbe([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFFProbeUsesRunner(t *testing.T) {
	p := &FFProbe{Timeout: time.Second, run: func(path string, timeout time.Duration) (string, error) {
		if timeout != time.Second {
			t.Errorf("timeout = %v", timeout)
		}
		return sampleProbe, nil
	}}
	info, err := p.Probe(context.Background(), "clip.mp4")
	if err != nil || info.Duration != 12.5 {
		t.Fatalf("Probe = %+v, %v", info, err)
	}
}

func TestFFProbeHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	p := &FFProbe{run: func(string, time.Duration) (string, error) {
		<-release
		return sampleProbe, nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Probe(ctx, "clip.mp4"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]Kind{
		"a.MP4":       KindVideo,
		"b.webm":      KindVideo,
		"logo.PNG":    KindImage,
		"song.mp3":    KindAudio,
		"notes.txt":   KindUnknown,
		"noextension": KindUnknown,
	}
	for in, want := range tests {
		if got := Classify(in); got != want {
			t.Errorf("Classify(%q) = %s, want %s", in, got, want)
		}
	}
}

type failingProber struct{ err error }

func (f failingProber) Probe(context.Context, string) (Info, error) { return Info{}, f.err }

func TestIngestFallsBackWhenProbeFails(t *testing.T) {
	path := touch(t, t.TempDir(), "clip.mp4")
	in := Ingester{Prober: failingProber{errors.New("ffprobe missing")}, FallbackDuration: 10}

	src, err := in.Ingest(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if src.Probed || src.Info.Duration != 10 || src.Warning != "ffprobe missing" {
		t.Fatalf("source = %+v", src)
	}
	if src.Kind != KindVideo || src.Name != "clip.mp4" || src.Size != 4 {
		t.Fatalf("source metadata = %+v", src)
	}
}

func TestIngestUsesProbedDuration(t *testing.T) {
	path := touch(t, t.TempDir(), "song.wav")
	src, err := Ingester{Prober: StaticProber{Duration: 42}, FallbackDuration: 10}.Ingest(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if !src.Probed || src.Info.Duration != 42 || src.Kind != KindAudio {
		t.Fatalf("source = %+v", src)
	}
}

func TestIngestRejects(t *testing.T) {
	dir := t.TempDir()
	in := Ingester{Prober: StaticProber{Duration: 1}}
	if _, err := in.Ingest(context.Background(), filepath.Join(dir, "missing.mp4")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := in.Ingest(context.Background(), touch(t, dir, "notes.txt")); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if _, err := in.Ingest(context.Background(), dir); err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	src, err := LoadImage(touch(t, dir, "logo.png"))
	if err != nil || src.Kind != KindImage {
		t.Fatalf("LoadImage = %+v, %v", src, err)
	}
	if _, err := LoadImage(touch(t, dir, "clip.mp4")); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for video, got %v", err)
	}
}
