// Package media turns files picked by the user into sources the editor can
// use: a path, a kind, and a duration.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Kind classifies a media file by extension.
type Kind string

const (
	KindVideo   Kind = "video"
	KindImage   Kind = "image"
	KindAudio   Kind = "audio"
	KindUnknown Kind = "unknown"
)

var extKinds = map[string]Kind{
	".mp4": KindVideo, ".mov": KindVideo, ".mkv": KindVideo, ".webm": KindVideo, ".avi": KindVideo, ".m4v": KindVideo,
	".png": KindImage, ".jpg": KindImage, ".jpeg": KindImage, ".gif": KindImage, ".webp": KindImage, ".bmp": KindImage,
	".mp3": KindAudio, ".wav": KindAudio, ".m4a": KindAudio, ".aac": KindAudio, ".ogg": KindAudio, ".flac": KindAudio,
}

// ErrUnsupported is returned for files whose kind cannot be used where they
// were offered.
var ErrUnsupported = errors.New("unsupported media type")

// Classify returns the kind implied by the file extension.
func Classify(path string) Kind {
	if k, ok := extKinds[strings.ToLower(filepath.Ext(path))]; ok {
		return k
	}
	return KindUnknown
}

// Source is an ingested file.
type Source struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Size   int64  `json:"size"`
	Info   Info   `json:"info"`
	Probed bool   `json:"probed"`
	// Warning explains why Info came from the fallback instead of the file.
	Warning string `json:"warning,omitempty"`
}

// Ingester resolves files into Sources.
type Ingester struct {
	Prober           Prober
	FallbackDuration float64
	Logger           *slog.Logger
}

// Ingest stats path, classifies it and probes timed media. A failed probe is
// not fatal: the source gets the fallback duration and a warning.
func (in Ingester) Ingest(ctx context.Context, path string) (Source, error) {
	src, err := stat(path)
	if err != nil {
		return Source{}, err
	}
	if src.Kind == KindUnknown {
		return Source{}, fmt.Errorf("ingest %s: %w", src.Name, ErrUnsupported)
	}
	if src.Kind == KindImage {
		return src, nil
	}

	if in.Prober != nil {
		info, err := in.Prober.Probe(ctx, src.Path)
		if err == nil && info.Duration > 0 {
			src.Info = info
			src.Probed = true
			return src, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Source{}, ctxErr
		}
		if err != nil {
			src.Warning = err.Error()
		} else {
			src.Warning = "probe reported no duration"
		}
	} else {
		src.Warning = "no prober configured"
	}

	src.Info.Duration = in.FallbackDuration
	if in.Logger != nil {
		in.Logger.Warn("probe fallback",
			slog.String("path", src.Path),
			slog.String("reason", src.Warning),
			slog.Float64("duration", src.Info.Duration))
	}
	return src, nil
}

// LoadImage ingests an overlay image. Non-image files are rejected.
func LoadImage(path string) (Source, error) {
	src, err := stat(path)
	if err != nil {
		return Source{}, err
	}
	if src.Kind != KindImage {
		return Source{}, fmt.Errorf("load image %s: %w", src.Name, ErrUnsupported)
	}
	return src, nil
}

func stat(path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Source{}, fmt.Errorf("stat media: %w", err)
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("stat media: %s is a directory", abs)
	}
	return Source{
		Path: abs,
		Name: filepath.Base(abs),
		Kind: Classify(abs),
		Size: info.Size(),
	}, nil
}
