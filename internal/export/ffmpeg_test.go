package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func ffmpegJob(t *testing.T) Job {
	t.Helper()
	set := testSettings()
	set.Engine = "ffmpeg"
	return Job{
		Snapshot: testSnapshot(),
		Video:    "/media/clip.mp4",
		HasAudio: true,
		Output:   filepath.Join(t.TempDir(), "out.mp4"),
		Settings: set,
	}
}

func argValue(args []string, flag string) (string, bool) {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func TestBuildArgsComposesGraph(t *testing.T) {
	job := ffmpegJob(t)
	args, err := BuildArgs(job)
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(args, " ")

	graph, ok := argValue(args, "-filter_complex")
	if !ok {
		t.Fatalf("no -filter_complex in %v", args)
	}
	if n := strings.Count(graph, "drawtext"); n != 2 {
		t.Fatalf("expected 2 drawtext filters, got %d in %s", n, graph)
	}
	for _, want := range []string{"scale", "pad", "overlay", "amix", "enable=between(t", "expansion=none"} {
		if !strings.Contains(graph, want) {
			t.Errorf("graph missing %q: %s", want, graph)
		}
	}
	if !strings.Contains(joined, "/media/music.mp3") {
		t.Errorf("unmuted audio track not mixed: %s", joined)
	}
	if strings.Contains(joined, "/media/muted.mp3") {
		t.Errorf("muted audio track was mixed: %s", joined)
	}
	if !strings.Contains(joined, "-loop 1 -i /media/logo.png") {
		t.Errorf("overlay image not looped: %s", joined)
	}
	if v, _ := argValue(args, "-t"); v != "10" {
		t.Errorf("-t = %q, want 10", v)
	}
	if args[len(args)-1] != "-y" && !strings.Contains(joined, " -y") {
		t.Errorf("output is not overwritten: %s", joined)
	}
}

func TestBuildArgsSkipsHiddenOverlayAndSilentAudio(t *testing.T) {
	job := ffmpegJob(t)
	job.Snapshot.Overlay.Src = ""
	job.Snapshot.Audio = nil
	job.HasAudio = false

	args, err := BuildArgs(job)
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "logo.png") || strings.Contains(joined, "overlay") {
		t.Errorf("overlay present without an image: %s", joined)
	}
	if strings.Contains(joined, "amix") || strings.Contains(joined, "-c:a") {
		t.Errorf("audio present without sources: %s", joined)
	}
}

func TestBuildArgsRejectsIncompleteJobs(t *testing.T) {
	tests := map[string]func(*Job){
		"no video":  func(j *Job) { j.Video = "" },
		"no size":   func(j *Job) { j.Settings.Width = 0 },
		"no fps":    func(j *Job) { j.Settings.FPS = 0 },
		"no output": func(j *Job) { j.Output = "" },
	}
	for name, mutate := range tests {
		job := ffmpegJob(t)
		mutate(&job)
		if _, err := BuildArgs(job); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestFFmpegExportRunsCommand(t *testing.T) {
	job := ffmpegJob(t)
	logDir := filepath.Join(t.TempDir(), "logs")
	var gotArgs []string
	ff := &FFmpeg{Binary: "ffmpeg-test", LogDir: logDir, run: func(ctx context.Context, binary string, args []string, stderr io.Writer) error {
		if binary != "ffmpeg-test" {
			t.Errorf("binary = %q", binary)
		}
		gotArgs = args
		io.WriteString(stderr, "frame=1\n")
		return os.WriteFile(job.Output, []byte("video"), 0o644)
	}}

	art, err := ff.Export(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if art.Path != job.Output || art.Engine != "ffmpeg" {
		t.Fatalf("artifact = %+v", art)
	}
	if len(gotArgs) == 0 || gotArgs[len(gotArgs)-1] == "" {
		t.Fatalf("args not passed: %v", gotArgs)
	}
	if _, err := os.Stat(filepath.Join(logDir, "out.ffmpeg.log")); err != nil {
		t.Fatalf("log file missing: %v", err)
	}
}

func TestFFmpegExportFailureRemovesOutput(t *testing.T) {
	job := ffmpegJob(t)
	ff := &FFmpeg{run: func(ctx context.Context, binary string, args []string, stderr io.Writer) error {
		os.WriteFile(job.Output, []byte("partial"), 0o644)
		return errors.New("exit status 1")
	}}

	_, err := ff.Export(context.Background(), job)
	if err == nil || !strings.Contains(err.Error(), "ffmpeg failed") {
		t.Fatalf("expected wrapped ffmpeg error, got %v", err)
	}
	if _, statErr := os.Stat(job.Output); !os.IsNotExist(statErr) {
		t.Fatalf("partial output left behind")
	}
}

func TestDrawTextArgs(t *testing.T) {
	block := testSnapshot().Subtitles[1]
	kw := drawTextArgs(block, testSettings())
	if kw["fontcolor"] != "0xff0000" || kw["font"] != "Verdana" {
		t.Fatalf("style = %v", kw)
	}
	if kw["x"] != "w*0.25-text_w/2" || kw["y"] != "h*0.1-text_h/2" {
		t.Fatalf("position = %v %v", kw["x"], kw["y"])
	}
	if kw["enable"] != "between(t,2,4)" {
		t.Fatalf("enable = %v", kw["enable"])
	}

	set := testSettings()
	set.FontFile = "/fonts/Inter.ttf"
	kw = drawTextArgs(block, set)
	if kw["fontfile"] != "/fonts/Inter.ttf" || kw["font"] != nil {
		t.Fatalf("font file not preferred: %v", kw)
	}
}

func TestEvenPixels(t *testing.T) {
	tests := map[float64]int{576: 576, 575.4: 576, 1: 2, 0: 2, 323.6: 324}
	for in, want := range tests {
		if got := evenPixels(in); got != want {
			t.Errorf("evenPixels(%v) = %d, want %d", in, got, want)
		}
	}
}
