package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func configDir(configPath string) string {
	return filepath.Dir(configPath)
}

// resolveExternalPath returns path as-is if absolute, otherwise joins it with projectRoot.
func resolveExternalPath(projectRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectRoot, path)
}

// loadPresetFiles reads each file in Subtitles.PresetFiles, unmarshals it as
// map[string]SubtitlePreset, and merges it into Subtitles.Presets. A name
// defined twice is an error.
func (c *Config) loadPresetFiles(projectRoot string) error {
	if len(c.Subtitles.PresetFiles) == 0 {
		return nil
	}

	if c.Subtitles.Presets == nil {
		c.Subtitles.Presets = map[string]SubtitlePreset{}
	}

	sources := make(map[string]string, len(c.Subtitles.Presets))
	for name := range c.Subtitles.Presets {
		sources[name] = "inline config"
	}

	for _, relPath := range c.Subtitles.PresetFiles {
		absPath := resolveExternalPath(projectRoot, relPath)
		data, err := os.ReadFile(absPath)
		if err != nil {
			return fmt.Errorf("load preset file %q: %w", relPath, err)
		}

		var presets map[string]SubtitlePreset
		if err := yaml.Unmarshal(data, &presets); err != nil {
			return fmt.Errorf("parse preset file %q: %w", relPath, err)
		}

		for name, preset := range presets {
			if existing, ok := sources[name]; ok {
				return fmt.Errorf("preset %q defined in both %s and %q", name, existing, relPath)
			}
			sources[name] = relPath
			c.Subtitles.Presets[name] = preset
		}
	}

	return nil
}
