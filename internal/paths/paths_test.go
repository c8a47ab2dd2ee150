package paths

import (
	"os"
	"path/filepath"
	"testing"

	"reelcut/internal/config"
)

func TestResolveLayout(t *testing.T) {
	root := t.TempDir()
	pp, err := Resolve(root)
	if err != nil {
		t.Fatal(err)
	}
	if pp.ConfigFile != filepath.Join(root, "reelcut.yaml") {
		t.Fatalf("config file = %s", pp.ConfigFile)
	}
	if pp.ExportStateFile != filepath.Join(root, ".reelcut", "export_state.json") {
		t.Fatalf("export state file = %s", pp.ExportStateFile)
	}
}

func TestApplyConfigRelative(t *testing.T) {
	root := t.TempDir()
	pp := newProjectPaths(root)

	cfg := config.Config{}
	cfg.Media.Video = "footage/clip.mp4"
	cfg.Overlay.Image = "logo.png"
	cfg.Subtitles.File = "captions.srt"

	applied := ApplyConfig(pp, cfg)

	if want := filepath.Join(root, "footage/clip.mp4"); applied.VideoFile != want {
		t.Fatalf("expected video path %s, got %s", want, applied.VideoFile)
	}
	if want := filepath.Join(root, "logo.png"); applied.ImageFile != want {
		t.Fatalf("expected image path %s, got %s", want, applied.ImageFile)
	}
	if want := filepath.Join(root, "captions.srt"); applied.SubtitlesFile != want {
		t.Fatalf("expected subtitles path %s, got %s", want, applied.SubtitlesFile)
	}
}

func TestApplyConfigAbsolute(t *testing.T) {
	pp := newProjectPaths(t.TempDir())
	videoAbs := filepath.Join(t.TempDir(), "clip.mp4")

	cfg := config.Config{}
	cfg.Media.Video = videoAbs

	applied := ApplyConfig(pp, cfg)
	if applied.VideoFile != videoAbs {
		t.Fatalf("expected video path %s, got %s", videoAbs, applied.VideoFile)
	}
}

func TestApplyConfigNoOverrides(t *testing.T) {
	pp := newProjectPaths(t.TempDir())
	applied := ApplyConfig(pp, config.Config{})
	if applied.VideoFile != "" || applied.ImageFile != "" || applied.SubtitlesFile != "" {
		t.Fatalf("expected empty inputs, got %+v", applied)
	}
}

func TestRel(t *testing.T) {
	root := t.TempDir()
	pp := newProjectPaths(root)
	if got := pp.Rel(filepath.Join(root, "exports", "a.mp4")); got != filepath.Join("exports", "a.mp4") {
		t.Fatalf("Rel inside root = %s", got)
	}
	outside := filepath.Join(t.TempDir(), "b.mp4")
	if got := pp.Rel(outside); got != outside {
		t.Fatalf("Rel outside root = %s", got)
	}
}

func TestEnsureMetaDirs(t *testing.T) {
	pp := newProjectPaths(filepath.Join(t.TempDir(), "proj"))
	if err := pp.EnsureRoot(); err != nil {
		t.Fatal(err)
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{pp.MetaDir, pp.ExportsDir, pp.LogsDir} {
		ok, err := DirExists(dir)
		if err != nil || !ok {
			t.Fatalf("expected %s to exist (err=%v)", dir, err)
		}
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ok, _ := FileExists(file); !ok {
		t.Fatal("expected file to exist")
	}
	if ok, _ := FileExists(dir); ok {
		t.Fatal("directory reported as file")
	}
	if ok, err := FileExists(filepath.Join(dir, "missing")); ok || err != nil {
		t.Fatalf("missing file: ok=%v err=%v", ok, err)
	}
}
