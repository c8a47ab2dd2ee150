package editor

import (
	"math"
	"strings"
)

// Position is a percent coordinate on the preview surface; the anchor is the
// centre of whatever sits there.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Clamp limits both axes to [0,100]. NaN falls back to fallback.
func (p Position) Clamp(fallback Position) Position {
	return Position{
		X: clampOr(p.X, 0, 100, fallback.X),
		Y: clampOr(p.Y, 0, 100, fallback.Y),
	}
}

// SubtitleBlock is a timed, styled, positioned line of text.
type SubtitleBlock struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Start    float64  `json:"start"`
	End      float64  `json:"end"`
	Font     string   `json:"font"`
	Color    string   `json:"color"`
	Size     float64  `json:"size"`
	Position Position `json:"position"`
}

func (b SubtitleBlock) Key() string { return b.ID }

// VisibleAt reports whether t falls inside [Start, End]. Both bounds are
// inclusive; a NaN anywhere makes the comparison false.
func (b SubtitleBlock) VisibleAt(t float64) bool {
	return t >= b.Start && t <= b.End
}

// Valid reports whether the block satisfies the track invariants.
func (b SubtitleBlock) Valid() bool {
	return strings.TrimSpace(b.Text) != "" &&
		finite(b.Start) && finite(b.End) && finite(b.Size) &&
		b.Start >= 0 && b.End > b.Start && b.Size > 0
}

// SubtitleStyle holds the defaults applied to new blocks.
type SubtitleStyle struct {
	Font     string
	Color    string
	Size     float64
	Position Position
	Start    float64
	End      float64
}

// Fonts offered by the subtitle form.
var Fonts = []string{"Arial", "Verdana", "Times New Roman", "Courier New"}

// DefaultSubtitleStyle matches the editor's stock subtitle look.
func DefaultSubtitleStyle() SubtitleStyle {
	return SubtitleStyle{
		Font:     "Arial",
		Color:    "#fff",
		Size:     32,
		Position: Position{X: 50, Y: 90},
		Start:    0,
		End:      2,
	}
}

// SubtitleTrack holds every subtitle block for the whole timeline. Storage
// order doubles as paint order for overlapping blocks.
type SubtitleTrack struct {
	seq *Sequence[SubtitleBlock]
}

func NewSubtitleTrack() *SubtitleTrack {
	return &SubtitleTrack{seq: NewSequence[SubtitleBlock]()}
}

// Add appends a block built from the draft values. Blank text is silently
// ignored; so is a block that fails Valid. The id is always freshly assigned.
func (s *SubtitleTrack) Add(block SubtitleBlock) (SubtitleBlock, bool) {
	if strings.TrimSpace(block.Text) == "" {
		return SubtitleBlock{}, false
	}
	if !block.Valid() {
		return SubtitleBlock{}, false
	}
	block.ID = NewID()
	block.Position = block.Position.Clamp(DefaultSubtitleStyle().Position)
	s.seq.Append(block)
	return block, true
}

func (s *SubtitleTrack) Remove(id string) bool {
	return s.seq.RemoveByID(id)
}

// Reorder changes paint order only; timing is untouched.
func (s *SubtitleTrack) Reorder(from, to int) bool {
	return s.seq.Reorder(from, to)
}

func (s *SubtitleTrack) Move(id string, to int) bool {
	return s.seq.MoveID(id, to)
}

// Update replaces the block sharing block.ID when the new values are valid.
func (s *SubtitleTrack) Update(block SubtitleBlock) bool {
	if !block.Valid() {
		return false
	}
	block.Position = block.Position.Clamp(DefaultSubtitleStyle().Position)
	return s.seq.Replace(block)
}

// ActiveAt returns every block visible at t, in storage order.
func (s *SubtitleTrack) ActiveAt(t float64) []SubtitleBlock {
	var active []SubtitleBlock
	for _, b := range s.seq.items {
		if b.VisibleAt(t) {
			active = append(active, b)
		}
	}
	return active
}

func (s *SubtitleTrack) Blocks() []SubtitleBlock {
	return s.seq.Items()
}

func (s *SubtitleTrack) Len() int {
	return s.seq.Len()
}

func (s *SubtitleTrack) At(i int) (SubtitleBlock, bool) {
	return s.seq.At(i)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampOr(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return math.Max(lo, math.Min(hi, v))
}
