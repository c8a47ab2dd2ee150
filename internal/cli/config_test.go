package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"reelcut/internal/config"
	"reelcut/internal/paths"
)

func TestSplitEditorCommand(t *testing.T) {
	tests := map[string][]string{
		"":          nil,
		"   ":       nil,
		"vi":        {"vi"},
		"code -w":   {"code", "-w"},
		" nano  -l": {"nano", "-l"},
	}
	for in, want := range tests {
		if got := splitEditorCommand(in); !reflect.DeepEqual(got, want) {
			t.Errorf("splitEditorCommand(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEnsureConfigFileExists(t *testing.T) {
	pp, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := ensureConfigFileExists(pp); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Export.Engine != config.EngineSimulated {
		t.Fatalf("engine = %q", cfg.Export.Engine)
	}

	if err := os.WriteFile(pp.ConfigFile, []byte("version: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ensureConfigFileExists(pp); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(pp.ConfigFile)
	if string(data) != "version: 1\n" {
		t.Fatalf("existing config overwritten: %q", data)
	}
}

func TestConfigShow(t *testing.T) {
	dir := newTestProject(t, twoCues)
	out, err := runCLI(t, "config", "show", "--project", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "output_template: demo") || !strings.HasSuffix(out, "\n") {
		t.Fatalf("config show: %s", out)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("clean config", func(t *testing.T) {
		dir := newTestProject(t, twoCues)
		out, err := runCLI(t, "config", "validate", "--project", dir, "--json")
		if err != nil {
			t.Fatalf("validate: %v\n%s", err, out)
		}
		var parsed struct {
			Valid bool `json:"valid"`
		}
		if err := json.Unmarshal([]byte(out), &parsed); err != nil {
			t.Fatal(err)
		}
		if !parsed.Valid {
			t.Fatalf("expected valid config: %s", out)
		}
	})

	t.Run("errors fail the command", func(t *testing.T) {
		dir := t.TempDir()
		bad := "version: 1\nexport:\n  engine: laser\n  output_template: $NOPE\n"
		if err := os.WriteFile(filepath.Join(dir, "reelcut.yaml"), []byte(bad), 0o644); err != nil {
			t.Fatal(err)
		}
		out, err := runCLI(t, "config", "validate", "--project", dir)
		if err == nil {
			t.Fatalf("expected validation error\n%s", out)
		}
		if !strings.Contains(out, "error") || !strings.Contains(out, "NOPE") {
			t.Fatalf("validate output: %s", out)
		}
	})
}
