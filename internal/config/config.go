package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures the editor, playback and export settings for a project.
type Config struct {
	Version   int             `yaml:"version"`
	Editor    EditorConfig    `yaml:"editor"`
	Clock     ClockConfig     `yaml:"clock"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Subtitles SubtitlesConfig `yaml:"subtitles"`
	Media     MediaConfig     `yaml:"media"`
	Export    ExportConfig    `yaml:"export"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EditorConfig controls the timeline.
type EditorConfig struct {
	SceneDurationSec float64 `yaml:"scene_duration_s"`
	SeedDemo         *bool   `yaml:"seed_demo,omitempty"`
}

// SeedDemoValue returns the effective seed flag applying defaults.
func (e EditorConfig) SeedDemoValue() bool {
	if e.SeedDemo == nil {
		return true
	}
	return *e.SeedDemo
}

// ClockConfig drives the preview playback loop.
type ClockConfig struct {
	PeriodMS    int     `yaml:"period_ms"`
	StepSec     float64 `yaml:"step_s"`
	DurationSec float64 `yaml:"duration_s"`
	Loop        *bool   `yaml:"loop,omitempty"`
}

// LoopValue returns the effective loop flag applying defaults.
func (c ClockConfig) LoopValue() bool {
	if c.Loop == nil {
		return true
	}
	return *c.Loop
}

// OverlayConfig tunes the image overlay gestures.
type OverlayConfig struct {
	Image              string `yaml:"image,omitempty"`
	PreserveGrabOffset bool   `yaml:"preserve_grab_offset"`
	HandleCells        int    `yaml:"handle_cells"`
}

// SubtitlesConfig holds the default subtitle style and optional presets.
type SubtitlesConfig struct {
	File               string                    `yaml:"file,omitempty"`
	Font               string                    `yaml:"font"`
	Color              string                    `yaml:"color"`
	Size               float64                   `yaml:"size"`
	X                  float64                   `yaml:"x"`
	Y                  float64                   `yaml:"y"`
	DefaultDurationSec float64                   `yaml:"default_duration_s"`
	Presets            map[string]SubtitlePreset `yaml:"presets,omitempty"`
	PresetFiles        []string                  `yaml:"preset_files,omitempty"`
}

// SubtitlePreset is a named style the subtitle form can apply in one step.
// Zero fields leave the current value alone.
type SubtitlePreset struct {
	Font  string   `yaml:"font,omitempty"`
	Color string   `yaml:"color,omitempty"`
	Size  float64  `yaml:"size,omitempty"`
	X     *float64 `yaml:"x,omitempty"`
	Y     *float64 `yaml:"y,omitempty"`
}

// MediaConfig controls ingestion.
type MediaConfig struct {
	Video               string  `yaml:"video,omitempty"`
	FallbackDurationSec float64 `yaml:"fallback_duration_s"`
	ProbeTimeoutSec     int     `yaml:"probe_timeout_s"`
}

// ExportConfig selects the export engine and its output.
type ExportConfig struct {
	Engine         string `yaml:"engine"`
	DelayMS        int    `yaml:"delay_ms"`
	OutputTemplate string `yaml:"output_template"`
	Container      string `yaml:"container"`
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	FPS            int    `yaml:"fps"`
	VideoCodec     string `yaml:"vcodec"`
	CRF            int    `yaml:"crf"`
	Preset         string `yaml:"preset"`
	FontFile       string `yaml:"font_file,omitempty"`
	Sidecar        string `yaml:"sidecar"`
}

// LoggingConfig controls the rotating log file.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Export engines and sidecar formats.
const (
	EngineSimulated = "simulated"
	EngineFFmpeg    = "ffmpeg"

	SidecarNone = "none"
	SidecarSRT  = "srt"
	SidecarASS  = "ass"
)

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Editor: EditorConfig{
			SceneDurationSec: 10,
			SeedDemo:         boolPtr(true),
		},
		Clock: ClockConfig{
			PeriodMS:    100,
			StepSec:     0.1,
			DurationSec: 10,
			Loop:        boolPtr(true),
		},
		Overlay: OverlayConfig{
			HandleCells: 1,
		},
		Subtitles: SubtitlesConfig{
			Font:               "Arial",
			Color:              "#fff",
			Size:               32,
			X:                  50,
			Y:                  90,
			DefaultDurationSec: 2,
		},
		Media: MediaConfig{
			FallbackDurationSec: 10,
			ProbeTimeoutSec:     15,
		},
		Export: ExportConfig{
			Engine:         EngineSimulated,
			DelayMS:        2000,
			OutputTemplate: "$VIDEO_$STAMP",
			Container:      "mp4",
			Width:          1920,
			Height:         1080,
			FPS:            30,
			VideoCodec:     "libx264",
			CRF:            20,
			Preset:         "veryfast",
			Sidecar:        SidecarSRT,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration. Preset files listed in the config are resolved
// relative to the config file's directory.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.loadPresetFiles(configDir(path)); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Editor.SceneDurationSec == 0 {
		c.Editor.SceneDurationSec = defaults.Editor.SceneDurationSec
	}
	if c.Editor.SeedDemo == nil {
		c.Editor.SeedDemo = boolPtr(true)
	}
	if c.Clock.PeriodMS == 0 {
		c.Clock.PeriodMS = defaults.Clock.PeriodMS
	}
	if c.Clock.StepSec == 0 {
		c.Clock.StepSec = defaults.Clock.StepSec
	}
	if c.Clock.DurationSec == 0 {
		c.Clock.DurationSec = defaults.Clock.DurationSec
	}
	if c.Clock.Loop == nil {
		c.Clock.Loop = boolPtr(true)
	}
	if c.Overlay.HandleCells == 0 {
		c.Overlay.HandleCells = defaults.Overlay.HandleCells
	}
	if strings.TrimSpace(c.Subtitles.Font) == "" {
		c.Subtitles.Font = defaults.Subtitles.Font
	}
	if strings.TrimSpace(c.Subtitles.Color) == "" {
		c.Subtitles.Color = defaults.Subtitles.Color
	}
	if c.Subtitles.Size == 0 {
		c.Subtitles.Size = defaults.Subtitles.Size
	}
	if c.Subtitles.DefaultDurationSec == 0 {
		c.Subtitles.DefaultDurationSec = defaults.Subtitles.DefaultDurationSec
	}
	if c.Media.FallbackDurationSec == 0 {
		c.Media.FallbackDurationSec = defaults.Media.FallbackDurationSec
	}
	if c.Media.ProbeTimeoutSec == 0 {
		c.Media.ProbeTimeoutSec = defaults.Media.ProbeTimeoutSec
	}
	c.Export.Engine = strings.ToLower(strings.TrimSpace(c.Export.Engine))
	if c.Export.Engine == "" {
		c.Export.Engine = defaults.Export.Engine
	}
	if c.Export.DelayMS == 0 {
		c.Export.DelayMS = defaults.Export.DelayMS
	}
	if strings.TrimSpace(c.Export.OutputTemplate) == "" {
		c.Export.OutputTemplate = defaults.Export.OutputTemplate
	}
	if c.Export.Container == "" {
		c.Export.Container = defaults.Export.Container
	}
	if c.Export.Width == 0 {
		c.Export.Width = defaults.Export.Width
	}
	if c.Export.Height == 0 {
		c.Export.Height = defaults.Export.Height
	}
	if c.Export.FPS == 0 {
		c.Export.FPS = defaults.Export.FPS
	}
	if c.Export.VideoCodec == "" {
		c.Export.VideoCodec = defaults.Export.VideoCodec
	}
	if c.Export.CRF == 0 {
		c.Export.CRF = defaults.Export.CRF
	}
	if c.Export.Preset == "" {
		c.Export.Preset = defaults.Export.Preset
	}
	c.Export.Sidecar = strings.ToLower(strings.TrimSpace(c.Export.Sidecar))
	if c.Export.Sidecar == "" {
		c.Export.Sidecar = defaults.Export.Sidecar
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = defaults.Logging.MaxSizeMB
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = defaults.Logging.MaxBackups
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = defaults.Logging.MaxAgeDays
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

func boolPtr(v bool) *bool {
	return &v
}
