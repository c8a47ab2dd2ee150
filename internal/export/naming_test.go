package export

import "testing"

func TestOutputBaseName(t *testing.T) {
	job := Job{
		Video:    "/media/My Holiday (final).mp4",
		Snapshot: testSnapshot(),
		Settings: testSettings(),
	}
	tests := []struct {
		template string
		want     string
	}{
		{"$VIDEO_$STAMP", "My_Holiday_final_20240506-070809"},
		{"$SAFE_VIDEO-$DATE", "my-holiday-final-2024-05-06"},
		{"$ENGINE-$SCENES-scenes", "simulated-2-scenes"},
		{"cut_$DURATION", "cut_10"},
		{"price$$", "price"},
		{"$UNKNOWN", "export_20240506-070809"},
		{"", "export_20240506-070809"},
	}
	for _, tt := range tests {
		if got := OutputBaseName(tt.template, job, fixedNow); got != tt.want {
			t.Errorf("OutputBaseName(%q) = %q, want %q", tt.template, got, tt.want)
		}
	}
}

func TestApplyTemplateUnderscoreBoundary(t *testing.T) {
	values := map[string]string{"VIDEO": "clip", "SAFE_VIDEO": "clip-slug"}
	if got := applyTemplate("$VIDEO_$SAFE_VIDEO", values); got != "clip_clip-slug" {
		t.Fatalf("got %q", got)
	}
	if got := applyTemplate("$VIDEO_", values); got != "clip_" {
		t.Fatalf("trailing underscore: got %q", got)
	}
	if got := applyTemplate("$ alone", values); got != "$ alone" {
		t.Fatalf("bare dollar: got %q", got)
	}
}

func TestSafeFileSlug(t *testing.T) {
	if got := safeFileSlug("  Hello,  World. Take 2 "); got != "hello-world-take-2" {
		t.Fatalf("slug = %q", got)
	}
	if got := safeFileSlug("!!!"); got != "" {
		t.Fatalf("slug of punctuation = %q", got)
	}
}
