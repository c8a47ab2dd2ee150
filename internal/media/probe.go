package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Info is what probing learns about a media file.
type Info struct {
	Duration   float64 `json:"duration"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Codec      string  `json:"codec,omitempty"`
	FormatName string  `json:"format_name,omitempty"`
	HasAudio   bool    `json:"has_audio"`
	HasVideo   bool    `json:"has_video"`
}

// Prober reports duration and stream details for a file.
type Prober interface {
	Probe(ctx context.Context, path string) (Info, error)
}

// FFProbe shells out to ffprobe through ffmpeg-go.
type FFProbe struct {
	Timeout time.Duration

	// run is swapped in tests; nil uses ffmpeg.ProbeWithTimeout.
	run func(path string, timeout time.Duration) (string, error)
}

// NewFFProbe returns an ffprobe-backed prober with the given timeout.
func NewFFProbe(timeout time.Duration) *FFProbe {
	return &FFProbe{Timeout: timeout}
}

func (p *FFProbe) Probe(ctx context.Context, path string) (Info, error) {
	run := p.run
	if run == nil {
		run = func(path string, timeout time.Duration) (string, error) {
			return ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{})
		}
	}

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := run(path, p.Timeout)
		done <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return Info{}, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return Info{}, fmt.Errorf("ffprobe %s: %w", path, r.err)
		}
		return parseProbe([]byte(r.out))
	}
}

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

func parseProbe(raw []byte) (Info, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Info{}, fmt.Errorf("ffprobe produced no output")
	}
	var parsed ffprobeOutput
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Info{}, fmt.Errorf("decode ffprobe output: %w", err)
	}

	info := Info{FormatName: parsed.Format.FormatName}
	var streamDuration float64
	for _, s := range parsed.Streams {
		switch s.CodecType {
		case "video":
			if info.HasVideo {
				continue
			}
			info.HasVideo = true
			info.Width = s.Width
			info.Height = s.Height
			info.Codec = s.CodecName
			streamDuration = parseDuration(s.Duration)
		case "audio":
			info.HasAudio = true
			if info.Codec == "" {
				info.Codec = s.CodecName
			}
			if streamDuration == 0 {
				streamDuration = parseDuration(s.Duration)
			}
		}
	}

	// Container duration first; stream duration when the container has none.
	info.Duration = parseDuration(parsed.Format.Duration)
	if info.Duration == 0 {
		info.Duration = streamDuration
	}
	return info, nil
}

func parseDuration(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 || v != v {
		return 0
	}
	return v
}

// StaticProber reports the same duration for every file.
type StaticProber struct {
	Duration float64
}

func (s StaticProber) Probe(ctx context.Context, path string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	return Info{Duration: s.Duration}, nil
}
