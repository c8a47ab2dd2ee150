package editor

import (
	"math"
	"strconv"
	"strings"

	"reelcut/pkg/cuesheet"
)

// Draft field names accepted by SubtitleDraft.SetField.
const (
	FieldText  = "text"
	FieldStart = "start"
	FieldEnd   = "end"
	FieldFont  = "font"
	FieldColor = "color"
	FieldSize  = "size"
	FieldX     = "x"
	FieldY     = "y"
)

// SubtitleDraft is the pending subtitle form. Numeric fields arrive as raw
// text; anything that does not parse to a finite number keeps the previous
// value and is recorded as an issue instead of leaking NaN into the track.
type SubtitleDraft struct {
	Block  SubtitleBlock
	issues cuesheet.ValidationErrors
}

// NewSubtitleDraft returns a blank draft carrying the style defaults.
func NewSubtitleDraft(style SubtitleStyle) SubtitleDraft {
	return SubtitleDraft{Block: SubtitleBlock{
		Start:    style.Start,
		End:      style.End,
		Font:     style.Font,
		Color:    style.Color,
		Size:     style.Size,
		Position: style.Position,
	}}
}

// SetField updates one field from user text and reports whether it was accepted.
func (d *SubtitleDraft) SetField(name, raw string) bool {
	d.clearIssue(name)
	switch name {
	case FieldText:
		d.Block.Text = raw
		return true
	case FieldFont:
		d.Block.Font = strings.TrimSpace(raw)
		return true
	case FieldColor:
		d.Block.Color = strings.TrimSpace(raw)
		return true
	case FieldStart, FieldEnd:
		v, err := cuesheet.ParseTimestamp(raw)
		if err != nil {
			d.reject(name, err.Error())
			return false
		}
		if name == FieldStart {
			d.Block.Start = v
		} else {
			d.Block.End = v
		}
		return true
	case FieldSize, FieldX, FieldY:
		v, ok := parseFinite(raw)
		if !ok {
			d.reject(name, "must be a number")
			return false
		}
		switch name {
		case FieldSize:
			if v <= 0 {
				d.reject(name, "must be greater than 0")
				return false
			}
			d.Block.Size = v
		case FieldX:
			d.Block.Position.X = v
		case FieldY:
			d.Block.Position.Y = v
		}
		return true
	}
	d.reject(name, "unknown field")
	return false
}

// Issues returns the problems recorded since the fields were last accepted,
// plus a timing issue when End is not after Start.
func (d SubtitleDraft) Issues() cuesheet.ValidationErrors {
	out := append(cuesheet.ValidationErrors(nil), d.issues...)
	if !(d.Block.End > d.Block.Start) {
		out = append(out, cuesheet.ValidationError{Field: FieldEnd, Message: "end must be after start"})
	}
	return out
}

// Committed clears the text after a successful add, keeping timing and style
// so consecutive lines are quick to enter.
func (d *SubtitleDraft) Committed() {
	d.Block.Text = ""
	d.Block.ID = ""
	d.issues = nil
}

func (d *SubtitleDraft) reject(field, msg string) {
	d.issues = append(d.issues, cuesheet.ValidationError{Field: field, Message: msg})
}

func (d *SubtitleDraft) clearIssue(field string) {
	var kept cuesheet.ValidationErrors
	for _, issue := range d.issues {
		if issue.Field != field {
			kept = append(kept, issue)
		}
	}
	d.issues = kept
}

func parseFinite(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
