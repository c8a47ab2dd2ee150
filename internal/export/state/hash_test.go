package state

import (
	"strings"
	"testing"

	"reelcut/internal/config"
	"reelcut/internal/editor"
)

func testInputs() Inputs {
	return Inputs{
		Video: "/media/clip.mp4",
		Snapshot: editor.Snapshot{
			Scenes: []editor.Scene{
				{ID: "a", Label: "Intro", Start: 0, End: 5},
				{ID: "b", Label: "Outro", Start: 5, End: 10},
			},
			Subtitles: []editor.SubtitleBlock{
				{ID: "s", Text: "Hi", Start: 0, End: 2, Font: "Arial", Color: "#fff", Size: 32, Position: editor.Position{X: 50, Y: 90}},
			},
			Audio:   []editor.AudioTrack{{ID: "m", Name: "Music"}},
			Overlay: editor.DefaultOverlay(),
			Media:   editor.Media{Path: "/media/clip.mp4", Duration: 10},
		},
		Settings: config.Default().Export,
	}
}

func TestHashesAreDeterministic(t *testing.T) {
	in := testInputs()
	if CompositionHash(in) != CompositionHash(in) {
		t.Fatal("composition hash is not stable")
	}
	if h := SettingsHash(in.Settings); !strings.HasPrefix(h, "sha256:") || len(h) != len("sha256:")+64 {
		t.Fatalf("unexpected hash format %q", h)
	}
}

func TestCompositionHashIgnoresIDs(t *testing.T) {
	a := testInputs()
	b := testInputs()
	b.Snapshot.Scenes[0].ID = "regenerated"
	b.Snapshot.Subtitles[0].ID = "regenerated"
	b.Snapshot.Audio[0].ID = "regenerated"
	if CompositionHash(a) != CompositionHash(b) {
		t.Fatal("ids changed the composition hash")
	}
}

func TestCompositionHashTracksContent(t *testing.T) {
	base := CompositionHash(testInputs())
	mutations := map[string]func(*Inputs){
		"scene order": func(in *Inputs) {
			s := in.Snapshot.Scenes
			s[0], s[1] = s[1], s[0]
		},
		"subtitle text":  func(in *Inputs) { in.Snapshot.Subtitles[0].Text = "Bye" },
		"subtitle y":     func(in *Inputs) { in.Snapshot.Subtitles[0].Position.Y = 10 },
		"overlay width":  func(in *Inputs) { in.Snapshot.Overlay.Width = 40 },
		"audio mute":     func(in *Inputs) { in.Snapshot.Audio[0].Muted = true },
		"video":          func(in *Inputs) { in.Video = "/media/other.mp4" },
		"media duration": func(in *Inputs) { in.Snapshot.Media.Duration = 20 },
	}
	for name, mutate := range mutations {
		in := testInputs()
		mutate(&in)
		if CompositionHash(in) == base {
			t.Errorf("%s did not change the hash", name)
		}
	}
}

func TestSettingsHashIgnoresNaming(t *testing.T) {
	a := config.Default().Export
	b := a
	b.OutputTemplate = "$DATE"
	b.DelayMS = 10
	if SettingsHash(a) != SettingsHash(b) {
		t.Fatal("output template or delay changed the settings hash")
	}
	b.CRF = 30
	if SettingsHash(a) == SettingsHash(b) {
		t.Fatal("crf did not change the settings hash")
	}
}

func TestKeyWithoutVideo(t *testing.T) {
	if got := (Inputs{}).Key(); got != "(no video)" {
		t.Fatalf("Key() = %q", got)
	}
}
