package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"path/filepath"

	"reelcut/internal/config"
	"reelcut/internal/editor"
)

// Inputs is everything an export depends on.
type Inputs struct {
	Video    string
	Snapshot editor.Snapshot
	Settings config.ExportConfig
}

// Key identifies the composition an export belongs to: its source video, or
// a shared slot for exports without one.
func (in Inputs) Key() string {
	if in.Video == "" {
		return "(no video)"
	}
	if abs, err := filepath.Abs(in.Video); err == nil {
		return abs
	}
	return in.Video
}

// settingsInput is the canonical structure hashed for export setting
// changes. The output template and simulated delay do not change the
// artifact and are left out.
type settingsInput struct {
	Engine     string `json:"engine"`
	Container  string `json:"container"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	FPS        int    `json:"fps"`
	VideoCodec string `json:"vcodec"`
	CRF        int    `json:"crf"`
	Preset     string `json:"preset"`
	FontFile   string `json:"font_file"`
	Sidecar    string `json:"sidecar"`
}

type sceneInput struct {
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type subtitleInput struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Font  string  `json:"font"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type audioInput struct {
	Name   string `json:"name"`
	Muted  bool   `json:"muted"`
	Source string `json:"source"`
}

// compositionInput is the canonical structure hashed for a snapshot. Ids are
// dropped: they are regenerated every session and carry no content.
type compositionInput struct {
	Video     string          `json:"video"`
	Duration  float64         `json:"duration"`
	Scenes    []sceneInput    `json:"scenes"`
	Subtitles []subtitleInput `json:"subtitles"`
	Audio     []audioInput    `json:"audio"`
	Overlay   editor.Overlay  `json:"overlay"`
}

// SettingsHash returns a deterministic hash of the artifact-relevant export
// settings.
func SettingsHash(cfg config.ExportConfig) string {
	return hashJSON(settingsInput{
		Engine:     cfg.Engine,
		Container:  cfg.Container,
		Width:      cfg.Width,
		Height:     cfg.Height,
		FPS:        cfg.FPS,
		VideoCodec: cfg.VideoCodec,
		CRF:        cfg.CRF,
		Preset:     cfg.Preset,
		FontFile:   cfg.FontFile,
		Sidecar:    cfg.Sidecar,
	})
}

// CompositionHash returns a deterministic hash of the composition in display
// order.
func CompositionHash(in Inputs) string {
	snap := in.Snapshot
	input := compositionInput{
		Video:     in.Key(),
		Duration:  snap.Media.Duration,
		Scenes:    make([]sceneInput, 0, len(snap.Scenes)),
		Subtitles: make([]subtitleInput, 0, len(snap.Subtitles)),
		Audio:     make([]audioInput, 0, len(snap.Audio)),
		Overlay:   snap.Overlay,
	}
	for _, s := range snap.Scenes {
		input.Scenes = append(input.Scenes, sceneInput{Label: s.Label, Start: s.Start, End: s.End})
	}
	for _, b := range snap.Subtitles {
		input.Subtitles = append(input.Subtitles, subtitleInput{
			Text: b.Text, Start: b.Start, End: b.End,
			Font: b.Font, Color: b.Color, Size: b.Size,
			X: b.Position.X, Y: b.Position.Y,
		})
	}
	for _, a := range snap.Audio {
		input.Audio = append(input.Audio, audioInput{Name: a.Name, Muted: a.Muted, Source: a.Source})
	}
	return hashJSON(input)
}

func hashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Should never happen with known struct types.
		return fmt.Sprintf("sha256:error-%v", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", sum)
}
