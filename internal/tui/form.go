package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"reelcut/internal/config"
	"reelcut/internal/editor"
	"reelcut/pkg/cuesheet"
)

type formField struct {
	name  string
	label string
}

var formFields = []formField{
	{editor.FieldText, "Text"},
	{editor.FieldStart, "Start"},
	{editor.FieldEnd, "End"},
	{editor.FieldFont, "Font"},
	{editor.FieldColor, "Color"},
	{editor.FieldSize, "Size"},
	{editor.FieldX, "X %"},
	{editor.FieldY, "Y %"},
}

type namedPreset struct {
	name   string
	preset config.SubtitlePreset
}

// sortedPresets returns presets in name order so ctrl+p cycles predictably.
func sortedPresets(presets map[string]config.SubtitlePreset) []namedPreset {
	out := make([]namedPreset, 0, len(presets))
	for name, p := range presets {
		out = append(out, namedPreset{name: name, preset: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// subtitleForm edits one subtitle block. Values stay as typed text until
// save, when the draft coerces them and reports what it refused.
type subtitleForm struct {
	draft  editor.SubtitleDraft
	editID string
	inputs []textinput.Model
	focus  int
	preset int
	issues string
}

func newSubtitleForm(style editor.SubtitleStyle, existing *editor.SubtitleBlock) *subtitleForm {
	f := &subtitleForm{draft: editor.NewSubtitleDraft(style), preset: -1}
	if existing != nil {
		f.draft.Block = *existing
		f.editID = existing.ID
	}
	f.inputs = make([]textinput.Model, len(formFields))
	for i, field := range formFields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 200
		in.Placeholder = field.label
		in.SetValue(blockField(f.draft.Block, field.name))
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

func blockField(b editor.SubtitleBlock, name string) string {
	switch name {
	case editor.FieldText:
		return b.Text
	case editor.FieldStart:
		return formatNumber(b.Start)
	case editor.FieldEnd:
		return formatNumber(b.End)
	case editor.FieldFont:
		return b.Font
	case editor.FieldColor:
		return b.Color
	case editor.FieldSize:
		return formatNumber(b.Size)
	case editor.FieldX:
		return formatNumber(b.Position.X)
	case editor.FieldY:
		return formatNumber(b.Position.Y)
	}
	return ""
}

func (f *subtitleForm) editing() bool {
	return f.editID != ""
}

func (f *subtitleForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// applyPreset cycles to the next preset and copies its non-zero fields into
// the inputs.
func (f *subtitleForm) applyPreset(presets []namedPreset) string {
	if len(presets) == 0 {
		return ""
	}
	f.preset = (f.preset + 1) % len(presets)
	p := presets[f.preset]
	set := func(name, value string) {
		for i, field := range formFields {
			if field.name == name {
				f.inputs[i].SetValue(value)
			}
		}
	}
	if p.preset.Font != "" {
		set(editor.FieldFont, p.preset.Font)
	}
	if p.preset.Color != "" {
		set(editor.FieldColor, p.preset.Color)
	}
	if p.preset.Size > 0 {
		set(editor.FieldSize, formatNumber(p.preset.Size))
	}
	if p.preset.X != nil {
		set(editor.FieldX, formatNumber(*p.preset.X))
	}
	if p.preset.Y != nil {
		set(editor.FieldY, formatNumber(*p.preset.Y))
	}
	return p.name
}

// collect pushes every input through the draft. It returns the block and
// true when the draft has no issues.
func (f *subtitleForm) collect() (editor.SubtitleBlock, bool) {
	for i, field := range formFields {
		f.draft.SetField(field.name, f.inputs[i].Value())
	}
	issues := f.draft.Issues()
	if strings.TrimSpace(f.draft.Block.Text) == "" {
		issues = append(issues, cuesheet.ValidationError{Field: editor.FieldText, Message: "text is required"})
	}
	if len(issues) > 0 {
		f.issues = issues.Error()
		return editor.SubtitleBlock{}, false
	}
	f.issues = ""
	block := f.draft.Block
	block.ID = f.editID
	return block, true
}

func (f *subtitleForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *subtitleForm) view(width int) string {
	var sb strings.Builder
	title := "New subtitle"
	if f.editing() {
		title = "Edit subtitle"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	for i, field := range formFields {
		label := faintStyle.Render(fmt.Sprintf("  %-6s", field.label))
		if i == f.focus {
			label = selectStyle.Render(fmt.Sprintf("▸ %-6s", field.label))
		}
		sb.WriteString(label + " " + f.inputs[i].View() + "\n")
	}
	if f.issues != "" {
		sb.WriteString(errorStyle.Render(TruncateWithEllipsis(f.issues, max(width-2, 10))))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
