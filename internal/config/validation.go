package config

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Fonts the editor's subtitle form offers. Other names are allowed but draw a
// warning because ffmpeg may substitute them.
var knownFonts = []string{"Arial", "Verdana", "Times New Roman", "Courier New"}

var logLevels = []string{"debug", "info", "warn", "error"}

// ValidateStrict runs all strict validations against the config and returns
// structured results. knownOutputTokens is the set of $TOKEN names the export
// output template may use.
func (c Config) ValidateStrict(projectRoot string, knownOutputTokens []string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateExternalFiles(projectRoot)...)
	results = append(results, c.validateTiming()...)
	results = append(results, c.validateSubtitles()...)
	results = append(results, c.validateExport()...)
	results = append(results, c.validateOutputTemplate(knownOutputTokens)...)
	results = append(results, c.validateLogging()...)
	return results
}

// HasErrors reports whether any result is at error level.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}

func (c Config) validateExternalFiles(projectRoot string) []ValidationResult {
	files := []struct {
		label string
		path  string
	}{
		{"media video", c.Media.Video},
		{"overlay image", c.Overlay.Image},
		{"subtitles file", c.Subtitles.File},
		{"export font file", c.Export.FontFile},
	}
	for _, p := range c.Subtitles.PresetFiles {
		files = append(files, struct {
			label string
			path  string
		}{"preset file", p})
	}

	var results []ValidationResult
	for _, f := range files {
		path := strings.TrimSpace(f.path)
		if path == "" {
			continue
		}
		if _, err := os.Stat(resolveExternalPath(projectRoot, path)); err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("%s %q not found", f.label, path),
			})
		}
	}
	return results
}

func (c Config) validateTiming() []ValidationResult {
	var results []ValidationResult
	positive := []struct {
		name  string
		value float64
	}{
		{"editor.scene_duration_s", c.Editor.SceneDurationSec},
		{"clock.step_s", c.Clock.StepSec},
		{"clock.duration_s", c.Clock.DurationSec},
		{"clock.period_ms", float64(c.Clock.PeriodMS)},
		{"media.fallback_duration_s", c.Media.FallbackDurationSec},
		{"subtitles.default_duration_s", c.Subtitles.DefaultDurationSec},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("%s must be > 0", p.name),
			})
		}
	}
	if c.Clock.StepSec > c.Clock.DurationSec && c.Clock.DurationSec > 0 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("clock.step_s (%g) is longer than clock.duration_s (%g)", c.Clock.StepSec, c.Clock.DurationSec),
		})
	}
	if c.Overlay.HandleCells < 1 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "overlay.handle_cells must be >= 1",
		})
	}
	return results
}

func (c Config) validateSubtitles() []ValidationResult {
	var results []ValidationResult
	if !containsFold(knownFonts, c.Subtitles.Font) {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("subtitles.font %q is not one of %s", c.Subtitles.Font, strings.Join(knownFonts, ", ")),
		})
	}
	if !(c.Subtitles.Size > 0) {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "subtitles.size must be > 0",
		})
	}
	for _, axis := range []struct {
		name  string
		value float64
	}{{"subtitles.x", c.Subtitles.X}, {"subtitles.y", c.Subtitles.Y}} {
		if axis.value < 0 || axis.value > 100 || math.IsNaN(axis.value) {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("%s (%g) is outside 0-100 and will be clamped", axis.name, axis.value),
			})
		}
	}

	names := make([]string, 0, len(c.Subtitles.Presets))
	for name := range c.Subtitles.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if p := c.Subtitles.Presets[name]; p.Size < 0 {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("preset %q: size must be > 0", name),
			})
		}
	}
	return results
}

func (c Config) validateExport() []ValidationResult {
	var results []ValidationResult
	switch c.Export.Engine {
	case EngineSimulated, EngineFFmpeg:
	default:
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("export.engine %q must be %q or %q", c.Export.Engine, EngineSimulated, EngineFFmpeg),
		})
	}
	switch c.Export.Sidecar {
	case SidecarNone, SidecarSRT, SidecarASS:
	default:
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("export.sidecar %q must be one of none, srt, ass", c.Export.Sidecar),
		})
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "export.width and export.height must be > 0",
		})
	}
	if c.Export.Width%2 != 0 || c.Export.Height%2 != 0 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("export size %dx%d is odd; libx264 needs even dimensions", c.Export.Width, c.Export.Height),
		})
	}
	if c.Export.FPS <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "export.fps must be > 0",
		})
	}
	if c.Export.CRF < 0 || c.Export.CRF > 51 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("export.crf %d must be within 0-51", c.Export.CRF),
		})
	}
	if c.Export.DelayMS < 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "export.delay_ms must be >= 0",
		})
	}
	return results
}

func (c Config) validateOutputTemplate(knownTokens []string) []ValidationResult {
	tmpl := strings.TrimSpace(c.Export.OutputTemplate)
	if tmpl == "" || len(knownTokens) == 0 {
		return nil
	}

	known := make(map[string]bool, len(knownTokens))
	for _, t := range knownTokens {
		known[t] = true
	}

	var results []ValidationResult
	for _, tok := range extractTemplateTokens(tmpl) {
		if !known[tok] {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("output template contains unknown token $%s (known tokens: %s)", tok, strings.Join(knownTokens, ", ")),
			})
		}
	}
	return results
}

func (c Config) validateLogging() []ValidationResult {
	if containsFold(logLevels, c.Logging.Level) {
		return nil
	}
	return []ValidationResult{{
		Level:   "error",
		Message: fmt.Sprintf("logging.level %q must be one of %s", c.Logging.Level, strings.Join(logLevels, ", ")),
	}}
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

// extractTemplateTokens parses $TOKEN patterns from a template string. "$$"
// is a literal dollar sign and an underscore only continues a token when a
// letter or digit follows it.
func extractTemplateTokens(template string) []string {
	var tokens []string
	for i := 0; i < len(template); {
		if template[i] != '$' {
			i++
			continue
		}
		if i+1 < len(template) && template[i+1] == '$' {
			i += 2
			continue
		}
		j := tokenEnd(template, i+1)
		if j > i+1 {
			tokens = append(tokens, template[i+1:j])
		}
		i = j
	}
	return tokens
}

func tokenEnd(s string, j int) int {
	for j < len(s) {
		c := s[j]
		switch {
		case isTokenChar(c):
			j++
		case c == '_' && j+1 < len(s) && isTokenChar(s[j+1]):
			j++
		default:
			return j
		}
	}
	return j
}

func isTokenChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
