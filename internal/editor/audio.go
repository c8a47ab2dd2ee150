package editor

import "strings"

// AudioTrack is an auxiliary audio lane. It carries no timing.
type AudioTrack struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Muted  bool   `json:"muted"`
	Source string `json:"source,omitempty"`
}

func (a AudioTrack) Key() string { return a.ID }

// AudioTracks keeps audio lanes in a reorderable sequence.
type AudioTracks struct {
	seq *Sequence[AudioTrack]
}

func NewAudioTracks() *AudioTracks {
	return &AudioTracks{seq: NewSequence[AudioTrack]()}
}

func DemoAudioTracks() []AudioTrack {
	return []AudioTrack{
		{ID: NewID(), Name: "Voice Over"},
		{ID: NewID(), Name: "Sound Effect"},
	}
}

func (a *AudioTracks) Seed(tracks ...AudioTrack) {
	for _, t := range tracks {
		a.seq.Append(t)
	}
}

// Add appends a track; an empty name becomes "Background Music".
func (a *AudioTracks) Add(name, source string) AudioTrack {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Background Music"
	}
	track := AudioTrack{ID: NewID(), Name: name, Source: source}
	a.seq.Append(track)
	return track
}

func (a *AudioTracks) Remove(id string) bool {
	return a.seq.RemoveByID(id)
}

func (a *AudioTracks) Reorder(from, to int) bool {
	return a.seq.Reorder(from, to)
}

func (a *AudioTracks) Move(id string, to int) bool {
	return a.seq.MoveID(id, to)
}

// ToggleMute flips the muted flag of the track with the given id.
func (a *AudioTracks) ToggleMute(id string) bool {
	return a.seq.Update(id, func(t *AudioTrack) { t.Muted = !t.Muted })
}

func (a *AudioTracks) Tracks() []AudioTrack {
	return a.seq.Items()
}

func (a *AudioTracks) Len() int {
	return a.seq.Len()
}

func (a *AudioTracks) At(i int) (AudioTrack, bool) {
	return a.seq.At(i)
}
