package export

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"reelcut/internal/config"
	"reelcut/internal/editor"
	"reelcut/pkg/cuesheet"
)

// overlayFadeSeconds is the fade-in applied to an animated overlay.
const overlayFadeSeconds = 0.5

// FFmpeg composes the job with ffmpeg. The graph is assembled with ffmpeg-go
// and executed under the caller's context.
type FFmpeg struct {
	Binary string
	// LogDir receives one stderr log per export; empty discards stderr.
	LogDir string

	run func(ctx context.Context, binary string, args []string, stderr io.Writer) error
}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{Binary: "ffmpeg"}
}

func (*FFmpeg) Name() string { return config.EngineFFmpeg }

func (f *FFmpeg) Export(ctx context.Context, job Job) (Artifact, error) {
	started := time.Now()
	args, err := BuildArgs(job)
	if err != nil {
		return Artifact{}, errors.Wrap(err, "build ffmpeg graph")
	}
	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		return Artifact{}, errors.Wrap(err, "ensure export directory")
	}

	var stderr io.Writer = io.Discard
	logPath := ""
	if f.LogDir != "" {
		if err := os.MkdirAll(f.LogDir, 0o755); err != nil {
			return Artifact{}, errors.Wrap(err, "ensure logs directory")
		}
		base := strings.TrimSuffix(filepath.Base(job.Output), filepath.Ext(job.Output))
		logPath = filepath.Join(f.LogDir, base+".ffmpeg.log")
		logFile, err := os.Create(logPath)
		if err != nil {
			return Artifact{}, errors.Wrap(err, "open ffmpeg log")
		}
		defer logFile.Close()
		stderr = logFile
	}

	run := f.run
	if run == nil {
		run = runCommand
	}
	binary := f.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	if err := run(ctx, binary, args, stderr); err != nil {
		_ = os.Remove(job.Output)
		if logPath != "" {
			return Artifact{}, errors.Wrapf(err, "ffmpeg failed (see %s)", logPath)
		}
		return Artifact{}, errors.Wrap(err, "ffmpeg failed")
	}
	return Artifact{Path: job.Output, Engine: f.Name(), Elapsed: time.Since(started)}, nil
}

func runCommand(ctx context.Context, binary string, args []string, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stderr = stderr
	return cmd.Run()
}

// BuildArgs returns the ffmpeg argument list for a job: the source scaled and
// padded to the export size, the overlay image placed by its centre, one
// drawtext per subtitle, and unmuted audio tracks mixed under the source.
func BuildArgs(job Job) ([]string, error) {
	set := job.Settings
	if strings.TrimSpace(job.Video) == "" {
		return nil, errors.New("no source video")
	}
	if set.Width <= 0 || set.Height <= 0 {
		return nil, errors.New("invalid export dimensions")
	}
	if set.FPS <= 0 {
		return nil, errors.New("invalid export fps")
	}
	if strings.TrimSpace(job.Output) == "" {
		return nil, errors.New("no output path")
	}

	in := ffmpeg.Input(job.Video)
	video := in.Video().
		Filter("scale", ffmpeg.Args{}, ffmpeg.KwArgs{"w": set.Width, "h": set.Height, "force_original_aspect_ratio": "decrease"}).
		Filter("pad", ffmpeg.Args{}, ffmpeg.KwArgs{"w": set.Width, "h": set.Height, "x": "(ow-iw)/2", "y": "(oh-ih)/2", "color": "black"}).
		Filter("setsar", ffmpeg.Args{"1"}).
		Filter("fps", ffmpeg.Args{strconv.Itoa(set.FPS)})

	if ov := job.Snapshot.Overlay.Clamp(); ov.Visible() {
		video = overlayImage(video, ov, set.Width, set.Height)
	}
	for _, block := range job.Snapshot.Subtitles {
		video = video.Filter("drawtext", ffmpeg.Args{}, drawTextArgs(block, set))
	}

	streams := []*ffmpeg.Stream{video}
	if audio := mixAudio(in, job); audio != nil {
		streams = append(streams, audio)
	}

	out := ffmpeg.KwArgs{
		"c:v":     set.VideoCodec,
		"crf":     set.CRF,
		"preset":  set.Preset,
		"pix_fmt": "yuv420p",
	}
	if len(streams) > 1 {
		out["c:a"] = "aac"
		out["b:a"] = "192k"
	}
	if d := job.Snapshot.Media.Duration; d > 0 {
		out["t"] = formatFloat(d)
	}
	if strings.EqualFold(set.Container, "mp4") || strings.EqualFold(set.Container, "mov") {
		out["movflags"] = "+faststart"
	}

	return ffmpeg.Output(streams, job.Output, out).OverWriteOutput().GetArgs(), nil
}

func overlayImage(video *ffmpeg.Stream, ov editor.Overlay, width, height int) *ffmpeg.Stream {
	pw := evenPixels(ov.Width / 100 * float64(width))
	ph := evenPixels(ov.Height / 100 * float64(height))

	img := ffmpeg.Input(ov.Src, ffmpeg.KwArgs{"loop": 1}).
		Filter("scale", ffmpeg.Args{}, ffmpeg.KwArgs{"w": pw, "h": ph})
	if ov.Border {
		img = img.Filter("drawbox", ffmpeg.Args{}, ffmpeg.KwArgs{
			"x": 0, "y": 0, "w": "iw", "h": "ih", "color": "white", "t": max(2, height/270),
		})
	}
	if ov.Opacity < 1 || ov.Animation {
		img = img.Filter("format", ffmpeg.Args{"rgba"})
	}
	if ov.Opacity < 1 {
		img = img.Filter("colorchannelmixer", ffmpeg.Args{}, ffmpeg.KwArgs{"aa": formatFloat(ov.Opacity)})
	}
	if ov.Animation {
		img = img.Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{"t": "in", "st": 0, "d": formatFloat(overlayFadeSeconds), "alpha": 1})
	}

	// The overlay is centre-anchored; ffmpeg wants the top-left corner.
	x := int(math.Round(ov.X/100*float64(width) - float64(pw)/2))
	y := int(math.Round(ov.Y/100*float64(height) - float64(ph)/2))
	return ffmpeg.Filter([]*ffmpeg.Stream{video, img}, "overlay", ffmpeg.Args{}, ffmpeg.KwArgs{
		"x": x, "y": y, "shortest": 1,
	})
}

// drawTextArgs positions a subtitle by its centre and limits it to its time
// window. ffmpeg-go escapes option values, so text goes in raw; expansion is
// off so a literal "%" survives.
func drawTextArgs(block editor.SubtitleBlock, set config.ExportConfig) ffmpeg.KwArgs {
	kw := ffmpeg.KwArgs{
		"text":        block.Text,
		"expansion":   "none",
		"fontsize":    formatFloat(block.Size),
		"fontcolor":   "0x" + cuesheet.HexColor(block.Color),
		"bordercolor": "black",
		"borderw":     2,
		"x":           fmt.Sprintf("w*%s-text_w/2", formatFloat(block.Position.X/100)),
		"y":           fmt.Sprintf("h*%s-text_h/2", formatFloat(block.Position.Y/100)),
		"enable":      fmt.Sprintf("between(t,%s,%s)", formatFloat(block.Start), formatFloat(block.End)),
	}
	if set.FontFile != "" {
		kw["fontfile"] = set.FontFile
	} else if block.Font != "" {
		kw["font"] = block.Font
	}
	return kw
}

func mixAudio(in *ffmpeg.Stream, job Job) *ffmpeg.Stream {
	var inputs []*ffmpeg.Stream
	if job.HasAudio {
		inputs = append(inputs, in.Audio())
	}
	for _, track := range job.Snapshot.Audio {
		if track.Muted || strings.TrimSpace(track.Source) == "" {
			continue
		}
		inputs = append(inputs, ffmpeg.Input(track.Source).Audio())
	}
	switch len(inputs) {
	case 0:
		return nil
	case 1:
		return inputs[0]
	}
	duration := "longest"
	if job.HasAudio {
		duration = "first"
	}
	return ffmpeg.Filter(inputs, "amix", ffmpeg.Args{}, ffmpeg.KwArgs{
		"inputs": len(inputs), "duration": duration, "normalize": 0,
	})
}

func evenPixels(v float64) int {
	n := int(math.Round(v))
	if n%2 != 0 {
		n++
	}
	if n < 2 {
		n = 2
	}
	return n
}
