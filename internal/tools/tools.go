// Package tools reports on the external binaries reelcut shells out to.
package tools

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Definition describes one external binary.
type Definition struct {
	Name           string
	MinimumVersion string
	VersionSwitch  string
	// Needed by names the feature that degrades without the binary.
	Needed string
}

// Status is what Detect learned about a binary.
type Status struct {
	Tool      string   `json:"tool"`
	Version   string   `json:"version,omitempty"`
	Minimum   string   `json:"minimum,omitempty"`
	Path      string   `json:"path,omitempty"`
	Satisfied bool     `json:"satisfied"`
	Needed    string   `json:"needed_for"`
	Error     string   `json:"error,omitempty"`
	Hints     []string `json:"hints,omitempty"`
}

var definitions = []Definition{
	{Name: "ffmpeg", MinimumVersion: "6.0", VersionSwitch: "-version", Needed: "the ffmpeg export engine"},
	{Name: "ffprobe", MinimumVersion: "6.0", VersionSwitch: "-version", Needed: "media durations (otherwise the fallback duration is used)"},
}

// Known returns the binaries Detect checks.
func Known() []Definition {
	return append([]Definition(nil), definitions...)
}

// Detector locates binaries and reads their versions. The zero value uses
// PATH.
type Detector struct {
	LookPath func(file string) (string, error)
	Run      func(ctx context.Context, path string, args ...string) ([]byte, error)
	Timeout  time.Duration
}

// Detect checks every known binary.
func Detect(ctx context.Context) []Status {
	return Detector{}.Detect(ctx)
}

func (d Detector) Detect(ctx context.Context) []Status {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out := make([]Status, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, d.detectOne(ctx, def))
	}
	return out
}

func (d Detector) detectOne(ctx context.Context, def Definition) Status {
	status := Status{Tool: def.Name, Minimum: def.MinimumVersion, Needed: def.Needed}

	lookPath := d.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(executableName(def.Name))
	if err != nil {
		status.Error = fmt.Sprintf("%s not found in PATH", def.Name)
		status.Hints = installHints(def.Name)
		return status
	}
	status.Path = path

	run := d.Run
	if run == nil {
		run = func(ctx context.Context, path string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, path, args...).Output()
		}
	}
	output, err := run(ctx, path, def.VersionSwitch)
	if err != nil {
		status.Error = fmt.Sprintf("%s version: %v", def.Name, err)
		return status
	}

	status.Version = normalizeVersion(firstLine(strings.TrimSpace(string(output))))
	status.Satisfied = meetsMinimum(status.Version, def.MinimumVersion)
	if !status.Satisfied {
		status.Error = fmt.Sprintf("version %s below minimum %s", status.Version, def.MinimumVersion)
	}
	return status
}

// Missing returns the statuses that are not satisfied.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Satisfied {
			out = append(out, s)
		}
	}
	return out
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
