package editor

import (
	"fmt"
	"strings"
)

// DefaultSceneDuration is the length given to appended scenes when the
// timeline is built without an explicit duration.
const DefaultSceneDuration = 10.0

// Scene is a labelled segment on the timeline. Start and End are descriptive:
// display order comes from the sequence alone and neighbouring scenes may
// leave gaps or overlap.
type Scene struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (s Scene) Key() string { return s.ID }

// Duration returns End-Start.
func (s Scene) Duration() float64 { return s.End - s.Start }

// SceneTimeline is the ordered list of scenes.
type SceneTimeline struct {
	seq             *Sequence[Scene]
	defaultDuration float64
}

// NewSceneTimeline creates an empty timeline. Non-positive durations fall
// back to DefaultSceneDuration.
func NewSceneTimeline(defaultDuration float64) *SceneTimeline {
	if defaultDuration <= 0 {
		defaultDuration = DefaultSceneDuration
	}
	return &SceneTimeline{seq: NewSequence[Scene](), defaultDuration: defaultDuration}
}

// DemoScenes returns the starter timeline shown on a fresh editor.
func DemoScenes() []Scene {
	return []Scene{
		{ID: NewID(), Label: "Intro", Start: 0, End: 10},
		{ID: NewID(), Label: "Main Scene", Start: 10, End: 50},
		{ID: NewID(), Label: "Ending", Start: 50, End: 60},
	}
}

// Seed appends scenes verbatim, keeping their ids and timings.
func (t *SceneTimeline) Seed(scenes ...Scene) {
	for _, s := range scenes {
		t.seq.Append(s)
	}
}

// Append adds a scene at the tail starting where the current tail ends.
func (t *SceneTimeline) Append(label string) Scene {
	start := 0.0
	if last, ok := t.seq.Last(); ok {
		start = last.End
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = fmt.Sprintf("Scene %d", t.seq.Len()+1)
	}
	scene := Scene{
		ID:    NewID(),
		Label: label,
		Start: start,
		End:   start + t.defaultDuration,
	}
	t.seq.Append(scene)
	return scene
}

// Remove deletes the scene with the given id; unknown ids are ignored.
func (t *SceneTimeline) Remove(id string) bool {
	return t.seq.RemoveByID(id)
}

// Reorder applies splice semantics to display order.
func (t *SceneTimeline) Reorder(from, to int) bool {
	return t.seq.Reorder(from, to)
}

// Move repositions the scene with the given id.
func (t *SceneTimeline) Move(id string, to int) bool {
	return t.seq.MoveID(id, to)
}

// Update replaces the scene sharing scene.ID. Scenes with End <= Start are
// rejected.
func (t *SceneTimeline) Update(scene Scene) bool {
	if !(scene.End > scene.Start) || scene.Start < 0 {
		return false
	}
	return t.seq.Replace(scene)
}

// Scenes returns the scenes in display order.
func (t *SceneTimeline) Scenes() []Scene {
	return t.seq.Items()
}

// Len reports the number of scenes.
func (t *SceneTimeline) Len() int {
	return t.seq.Len()
}

// IndexOf returns the display position of id, or -1.
func (t *SceneTimeline) IndexOf(id string) int {
	return t.seq.IndexOf(id)
}

// At returns the scene shown at position i.
func (t *SceneTimeline) At(i int) (Scene, bool) {
	return t.seq.At(i)
}

// SceneAt lays the scenes end to end in display order, each taking its own
// duration, and returns the one playing at seconds. Scenes with a
// non-positive duration take no time.
func (t *SceneTimeline) SceneAt(seconds float64) (Scene, bool) {
	elapsed := 0.0
	for _, s := range t.seq.items {
		d := s.Duration()
		if !(d > 0) {
			continue
		}
		if seconds >= elapsed && seconds < elapsed+d {
			return s, true
		}
		elapsed += d
	}
	return Scene{}, false
}

// Total is the summed duration of every scene.
func (t *SceneTimeline) Total() float64 {
	total := 0.0
	for _, s := range t.seq.items {
		if d := s.Duration(); d > 0 {
			total += d
		}
	}
	return total
}
