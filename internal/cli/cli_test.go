package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `version: 1
editor:
  seed_demo: false
export:
  engine: simulated
  delay_ms: 1
  output_template: demo
  sidecar: srt
subtitles:
  file: subtitles.csv
`

// newTestProject writes a config and cue sheet into a temp directory.
func newTestProject(t *testing.T, cues string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "reelcut.yaml"), []byte(testConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "subtitles.csv"), []byte(cues), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
