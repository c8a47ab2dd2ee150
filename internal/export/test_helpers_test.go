package export

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"reelcut/internal/config"
	"reelcut/internal/editor"
	"reelcut/internal/paths"
)

func testSnapshot() editor.Snapshot {
	return editor.Snapshot{
		Scenes: []editor.Scene{
			{ID: "s1", Label: "Intro", Start: 0, End: 5},
			{ID: "s2", Label: "Main", Start: 5, End: 10},
		},
		Subtitles: []editor.SubtitleBlock{
			{ID: "b1", Text: "Hello, world: it's 100%", Start: 0.5, End: 2, Font: "Arial", Color: "#fff", Size: 32, Position: editor.Position{X: 50, Y: 90}},
			{ID: "b2", Text: "Second", Start: 2, End: 4, Font: "Verdana", Color: "red", Size: 24, Position: editor.Position{X: 25, Y: 10}},
		},
		Audio: []editor.AudioTrack{
			{ID: "a1", Name: "Voice Over"},
			{ID: "a2", Name: "Music", Source: "/media/music.mp3"},
			{ID: "a3", Name: "Muted", Source: "/media/muted.mp3", Muted: true},
		},
		Overlay: editor.Overlay{Src: "/media/logo.png", X: 50, Y: 50, Width: 30, Height: 30, Opacity: 1},
		Media:   editor.Media{Path: "/media/clip.mp4", Duration: 10},
	}
}

func testProject(t *testing.T) paths.ProjectPaths {
	t.Helper()
	pp, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return pp
}

func testSettings() config.ExportConfig {
	return config.Default().Export
}

// fakeEngine counts calls and fails while fail is set.
type fakeEngine struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Export(ctx context.Context, job Job) (Artifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != nil {
		return Artifact{}, f.fail
	}
	return Simulated{}.Export(ctx, job)
}

func (f *fakeEngine) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recorder is a ProgressReporter that keeps what it saw.
type recorder struct {
	started []Job
	done    []Result
}

func (r *recorder) Start(job Job)       { r.started = append(r.started, job) }
func (r *recorder) Complete(res Result) { r.done = append(r.done, res) }

var (
	errEngine = errors.New("encoder exploded")
	fixedNow  = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
)

func fixedClock() time.Time { return fixedNow }
