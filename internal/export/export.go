// Package export turns an editor snapshot into an output artifact. The
// simulated engine stands in for a renderer; the ffmpeg engine composes the
// source video, overlay image and subtitles with ffmpeg.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reelcut/internal/config"
	"reelcut/internal/editor"
)

// Job is one export request resolved against the project.
type Job struct {
	Snapshot editor.Snapshot
	// Video is the source file; the simulated engine does not need one.
	Video    string
	HasAudio bool
	// Output is the target path, extension included.
	Output   string
	Settings config.ExportConfig
}

// Artifact is what a finished export produced.
type Artifact struct {
	Path    string        `json:"path"`
	Sidecar string        `json:"sidecar,omitempty"`
	Engine  string        `json:"engine"`
	Elapsed time.Duration `json:"elapsed"`
}

// Exporter renders a job.
type Exporter interface {
	Name() string
	Export(ctx context.Context, job Job) (Artifact, error)
}

// New returns the engine named by the export config.
func New(cfg config.ExportConfig) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Engine)) {
	case "", config.EngineSimulated:
		return Simulated{Delay: time.Duration(cfg.DelayMS) * time.Millisecond}, nil
	case config.EngineFFmpeg:
		return NewFFmpeg(), nil
	default:
		return nil, fmt.Errorf("unknown export engine %q", cfg.Engine)
	}
}

// Simulated waits for Delay and then writes a manifest of the composition
// in place of a video. It never fails unless the context is cancelled or the
// manifest cannot be written.
type Simulated struct {
	Delay time.Duration
}

func (Simulated) Name() string { return config.EngineSimulated }

type manifest struct {
	Engine   string          `json:"engine"`
	Video    string          `json:"video,omitempty"`
	Created  time.Time       `json:"created"`
	Snapshot editor.Snapshot `json:"snapshot"`
}

func (s Simulated) Export(ctx context.Context, job Job) (Artifact, error) {
	started := time.Now()
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Artifact{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	path := ManifestPath(job.Output)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Artifact{}, fmt.Errorf("ensure export directory: %w", err)
	}
	data, err := json.MarshalIndent(manifest{
		Engine:   s.Name(),
		Video:    job.Video,
		Created:  time.Now().UTC(),
		Snapshot: job.Snapshot,
	}, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Artifact{}, fmt.Errorf("write manifest: %w", err)
	}
	return Artifact{Path: path, Engine: s.Name(), Elapsed: time.Since(started)}, nil
}

// ManifestPath is where the simulated engine writes for a given output.
func ManifestPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".simulated.json"
}
