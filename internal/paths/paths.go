package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reelcut/internal/config"
)

// ProjectPaths captures canonical locations for a reelcut project.
type ProjectPaths struct {
	Root            string
	ConfigFile      string
	MetaDir         string
	ExportsDir      string
	LogsDir         string
	ExportStateFile string

	// Inputs named in the config, resolved against Root. Empty when unset.
	VideoFile     string
	ImageFile     string
	SubtitlesFile string
}

// Resolve determines the project root using the optional --project flag or the
// current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	metaDir := filepath.Join(root, ".reelcut")
	return ProjectPaths{
		Root:            root,
		ConfigFile:      filepath.Join(root, "reelcut.yaml"),
		MetaDir:         metaDir,
		ExportsDir:      filepath.Join(root, "exports"),
		LogsDir:         filepath.Join(root, "logs"),
		ExportStateFile: filepath.Join(metaDir, "export_state.json"),
	}
}

// ApplyConfig resolves the input files named in cfg.
func ApplyConfig(pp ProjectPaths, cfg config.Config) ProjectPaths {
	if v := strings.TrimSpace(cfg.Media.Video); v != "" {
		pp.VideoFile = pp.Abs(v)
	}
	if v := strings.TrimSpace(cfg.Overlay.Image); v != "" {
		pp.ImageFile = pp.Abs(v)
	}
	if v := strings.TrimSpace(cfg.Subtitles.File); v != "" {
		pp.SubtitlesFile = pp.Abs(v)
	}
	return pp
}

// Abs resolves value against the project root unless it is already absolute.
func (p ProjectPaths) Abs(value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(p.Root, value)
}

// Rel returns path relative to the project root when it lies inside it.
func (p ProjectPaths) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// EnsureRoot makes sure the project root exists on disk.
func (p ProjectPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// EnsureMetaDirs creates the exports and logs directories alongside the
// hidden .reelcut metadata directory.
func (p ProjectPaths) EnsureMetaDirs() error {
	dirs := []string{p.MetaDir, p.ExportsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GlobalDir returns the user-level reelcut directory (~/.reelcut).
// It creates the directory if it does not exist.
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}
	dir := filepath.Join(home, ".reelcut")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create global dir: %w", err)
	}
	return dir, nil
}

// GlobalLogsDir returns the global logs directory (~/.reelcut/logs), used by
// commands that run outside a project. It creates the directory if it does
// not exist.
func GlobalLogsDir() (string, error) {
	global, err := GlobalDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(global, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create global logs dir: %w", err)
	}
	return dir, nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
