package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reelcut/internal/config"
	"reelcut/internal/editor"
	"reelcut/pkg/cuesheet"
)

// SidecarPath returns where a subtitle sidecar for output is written, or ""
// when the format is "none".
func SidecarPath(output, format string) string {
	switch format {
	case config.SidecarSRT, config.SidecarASS:
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	default:
		return ""
	}
}

// WriteSidecar writes the subtitles of a job in the requested format.
func WriteSidecar(path, format string, job Job) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure sidecar directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sidecar: %w", err)
	}

	cues := Cues(job.Snapshot.Subtitles)
	switch format {
	case config.SidecarSRT:
		err = cuesheet.WriteSRT(f, cues)
	case config.SidecarASS:
		err = cuesheet.WriteASS(f, cues, cuesheet.ASSOptions{
			Width:  job.Settings.Width,
			Height: job.Settings.Height,
		})
	default:
		err = fmt.Errorf("unknown sidecar format %q", format)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// Cues converts subtitle blocks to cue sheet rows in storage order.
func Cues(blocks []editor.SubtitleBlock) []cuesheet.Cue {
	cues := make([]cuesheet.Cue, 0, len(blocks))
	for i, b := range blocks {
		cues = append(cues, cuesheet.Cue{
			Line:        i + 1,
			Start:       b.Start,
			End:         b.End,
			Text:        b.Text,
			Font:        b.Font,
			Color:       b.Color,
			Size:        b.Size,
			X:           b.Position.X,
			Y:           b.Position.Y,
			HasPosition: true,
		})
	}
	return cues
}
