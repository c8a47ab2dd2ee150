package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNormalizeVersion(t *testing.T) {
	tests := map[string]string{
		"ffmpeg version 6.1.1-3ubuntu5 Copyright (c) 2000-2023": "6.1.1",
		"ffprobe version 7.0 Copyright":                         "7.0",
		"ffmpeg version N-113245-gabcdef Copyright":             "N-113245-gabcdef",
		"something else":                                        "something else",
	}
	for in, want := range tests {
		if got := normalizeVersion(in); got != want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMeetsMinimum(t *testing.T) {
	tests := []struct {
		version, minimum string
		want             bool
	}{
		{"6.1.1", "6.0", true},
		{"6.0", "6.0", true},
		{"5.1.4", "6.0", false},
		{"10", "6.0", true},
		{"", "6.0", false},
		{"anything", "", true},
		{"N-113245-gabcdef", "6.0", true},
	}
	for _, tt := range tests {
		if got := meetsMinimum(tt.version, tt.minimum); got != tt.want {
			t.Errorf("meetsMinimum(%q, %q) = %v, want %v", tt.version, tt.minimum, got, tt.want)
		}
	}
}

func TestDetectorDetect(t *testing.T) {
	d := Detector{
		LookPath: func(file string) (string, error) {
			if strings.HasPrefix(file, "ffprobe") {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + file, nil
		},
		Run: func(_ context.Context, path string, args ...string) ([]byte, error) {
			if len(args) != 1 || args[0] != "-version" {
				t.Errorf("args = %v", args)
			}
			return []byte("ffmpeg version 5.1.2 Copyright\nbuilt with gcc\n"), nil
		},
	}

	statuses := d.Detect(context.Background())
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses", len(statuses))
	}
	ff, probe := statuses[0], statuses[1]
	if ff.Tool != "ffmpeg" || ff.Version != "5.1.2" || ff.Satisfied || !strings.Contains(ff.Error, "below minimum") {
		t.Fatalf("ffmpeg status = %+v", ff)
	}
	if probe.Tool != "ffprobe" || probe.Satisfied || len(probe.Hints) == 0 || probe.Path != "" {
		t.Fatalf("ffprobe status = %+v", probe)
	}
	if missing := Missing(statuses); len(missing) != 2 {
		t.Fatalf("missing = %+v", missing)
	}
}

func TestDetectorVersionError(t *testing.T) {
	d := Detector{
		LookPath: func(file string) (string, error) { return "/bin/" + file, nil },
		Run: func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("exit status 1")
		},
	}
	for _, s := range d.Detect(context.Background()) {
		if s.Satisfied || !strings.Contains(s.Error, "version: exit status 1") {
			t.Fatalf("status = %+v", s)
		}
	}
}
