package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reelcut/internal/config"
	"reelcut/internal/editor"
	"reelcut/internal/logx"
	"reelcut/internal/media"
	"reelcut/internal/paths"
	"reelcut/pkg/cuesheet"
)

// project bundles what every project command needs.
type project struct {
	paths  paths.ProjectPaths
	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
}

func (p *project) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// openProject resolves --project, loads the config and opens the rotating
// log. A missing config file yields defaults.
func openProject() (*project, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return nil, err
	}
	pp = paths.ApplyConfig(pp, cfg)

	if err := ensureProjectDirs(pp); err != nil {
		return nil, err
	}
	logger, closer, err := logx.New(pp, cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &project{paths: pp, cfg: cfg, logger: logger, closer: closer}, nil
}

func ensureProjectDirs(pp paths.ProjectPaths) error {
	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("project directory does not exist: %s", pp.Root)
	}
	return pp.EnsureMetaDirs()
}

// storeOptions maps config onto editor options.
func storeOptions(cfg config.Config) editor.Options {
	return editor.Options{
		SceneDuration: cfg.Editor.SceneDurationSec,
		SeedDemo:      cfg.Editor.SeedDemoValue(),
		Clock: editor.ClockOptions{
			Duration: cfg.Clock.DurationSec,
			Step:     cfg.Clock.StepSec,
			Period:   time.Duration(cfg.Clock.PeriodMS) * time.Millisecond,
			NoLoop:   !cfg.Clock.LoopValue(),
		},
		SubtitleStyle:      subtitleStyle(cfg.Subtitles),
		HandleSize:         float64(cfg.Overlay.HandleCells),
		PreserveGrabOffset: cfg.Overlay.PreserveGrabOffset,
	}
}

func subtitleStyle(sc config.SubtitlesConfig) editor.SubtitleStyle {
	style := editor.DefaultSubtitleStyle()
	if sc.Font != "" {
		style.Font = sc.Font
	}
	if sc.Color != "" {
		style.Color = sc.Color
	}
	if sc.Size > 0 {
		style.Size = sc.Size
	}
	if sc.X != 0 || sc.Y != 0 {
		style.Position = editor.Position{X: sc.X, Y: sc.Y}
	}
	if sc.DefaultDurationSec > 0 {
		style.End = style.Start + sc.DefaultDurationSec
	}
	return style
}

// logDispatches records every store mutation at debug level. Clock ticks are
// left out; there are ten a second.
func logDispatches(store *editor.Store, logger *slog.Logger) {
	store.Subscribe(func(ev editor.Event) {
		if ev.Action == (editor.Tick{}).Name() {
			return
		}
		logger.Debug("dispatch", slog.String("action", ev.Action), slog.Bool("changed", ev.Changed))
	})
}

func newIngester(cfg config.Config, logger *slog.Logger) media.Ingester {
	return media.Ingester{
		Prober:           media.NewFFProbe(time.Duration(cfg.Media.ProbeTimeoutSec) * time.Second),
		FallbackDuration: cfg.Media.FallbackDurationSec,
		Logger:           logx.WithComponent(logger, "media"),
	}
}

// inputs are the files a session starts from. Flags override config.
type inputs struct {
	video     string
	image     string
	subtitles string
}

func (in inputs) withDefaults(pp paths.ProjectPaths) inputs {
	if in.video == "" {
		in.video = pp.VideoFile
	}
	if in.image == "" {
		in.image = pp.ImageFile
	}
	if in.subtitles == "" {
		in.subtitles = pp.SubtitlesFile
	}
	return in
}

// loaded reports what a session picked up from its inputs.
type loaded struct {
	Video     *media.Source            `json:"video,omitempty"`
	Image     *media.Source            `json:"image,omitempty"`
	Subtitles int                      `json:"subtitles"`
	Issues    cuesheet.ValidationErrors `json:"-"`
}

// loadInputs ingests in and applies it to store. status may be nil.
func loadInputs(ctx context.Context, store *editor.Store, ing media.Ingester, in inputs, status func(string)) (loaded, error) {
	var out loaded
	if status == nil {
		status = func(string) {}
	}

	if in.video != "" {
		status("probing " + filepath.Base(in.video))
		src, err := ing.Ingest(ctx, in.video)
		if err != nil {
			return out, err
		}
		if src.Kind != media.KindVideo {
			return out, fmt.Errorf("%s is %s, not video: %w", src.Name, src.Kind, media.ErrUnsupported)
		}
		if !store.Dispatch(editor.LoadMedia{Path: src.Path, Duration: src.Info.Duration}) {
			return out, fmt.Errorf("%s has no usable duration", src.Name)
		}
		out.Video = &src
	}

	if in.image != "" {
		src, err := media.LoadImage(in.image)
		if err != nil {
			return out, err
		}
		store.Dispatch(editor.SelectImage{Src: src.Path})
		out.Image = &src
	}

	if in.subtitles != "" {
		status("loading " + filepath.Base(in.subtitles))
		cues, err := loadCues(in.subtitles)
		var issues cuesheet.ValidationErrors
		if err != nil {
			// Row problems are reported but the rows that parsed still load.
			if !errors.As(err, &issues) {
				return out, err
			}
		}
		style := store.SubtitleStyle()
		for _, c := range cues {
			if _, ok := store.AddSubtitleBlock(blockFromCue(c, style)); ok {
				out.Subtitles++
			} else {
				issues = append(issues, cuesheet.ValidationError{Line: c.Line, Message: "cue rejected"})
			}
		}
		out.Issues = issues
	}
	return out, nil
}

func loadCues(path string) ([]cuesheet.Cue, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open subtitles: %w", err)
		}
		defer f.Close()
		return cuesheet.ParseSRT(f)
	case ".csv", ".tsv", ".txt":
		return cuesheet.LoadCSV(path)
	default:
		return nil, fmt.Errorf("subtitles %s: expected .srt, .csv or .tsv", filepath.Base(path))
	}
}

func blockFromCue(c cuesheet.Cue, style editor.SubtitleStyle) editor.SubtitleBlock {
	b := editor.SubtitleBlock{
		Text:     c.Text,
		Start:    c.Start,
		End:      c.End,
		Font:     style.Font,
		Color:    style.Color,
		Size:     style.Size,
		Position: style.Position,
	}
	if c.Font != "" {
		b.Font = c.Font
	}
	if c.Color != "" {
		b.Color = c.Color
	}
	if c.Size > 0 {
		b.Size = c.Size
	}
	if c.HasPosition {
		b.Position = editor.Position{X: c.X, Y: c.Y}
	}
	return b
}
