package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"reelcut/internal/config"
	"reelcut/internal/editor"
	"reelcut/internal/export"
	"reelcut/internal/media"
)

type pane int

const (
	paneScenes pane = iota
	paneSubtitles
	paneAudio
	paneCount
)

var paneTitles = [paneCount]string{"Scenes", "Subtitles", "Audio"}

const (
	seekStep    = 1.0
	opacityStep = 0.1
)

// EditorOptions wires an editor session.
type EditorOptions struct {
	Store    *editor.Store
	Exports  *export.Service
	Ingester media.Ingester
	Presets  map[string]config.SubtitlePreset
	Logger   *slog.Logger
	// Video is the source handed to exports; HasAudio says whether it has
	// an audio stream to keep.
	Video    string
	HasAudio bool
	Context  context.Context
}

// EditorModel is the interactive composition editor. The store is shared
// between copies of the model; bubbletea runs Update on one goroutine so
// every mutation goes through Dispatch in order.
type EditorModel struct {
	ctx      context.Context
	store    *editor.Store
	exports  *export.Service
	ingester media.Ingester
	presets  []namedPreset
	logger   *slog.Logger

	keys     keyMap
	formKeys formKeys
	help     help.Model
	layout   layout

	focus  pane
	cursor [paneCount]int
	form   *subtitleForm
	prompt *textinput.Model

	video     string
	hasAudio  bool
	status    string
	statusErr bool
	exporting bool
	quitting  bool
}

// NewEditorModel builds the editor for a prepared store.
func NewEditorModel(opts EditorOptions) EditorModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return EditorModel{
		ctx:      ctx,
		store:    opts.Store,
		exports:  opts.Exports,
		ingester: opts.Ingester,
		presets:  sortedPresets(opts.Presets),
		logger:   logger,
		keys:     defaultKeys(),
		formKeys: defaultFormKeys(),
		help:     help.New(),
		video:    opts.Video,
		hasAudio: opts.HasAudio,
		status:   "ready",
	}
}

func (m EditorModel) clockTick() tea.Cmd {
	return tea.Tick(m.store.Period(), func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m EditorModel) Init() tea.Cmd {
	return m.clockTick()
}

// Update satisfies the tea.Model interface.
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = computeLayout(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case clockTickMsg:
		m.store.Dispatch(editor.Tick{})
		return m, m.clockTick()

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case exportDoneMsg:
		return m.finishExport(msg.result), nil

	case mediaLoadedMsg:
		return m.finishLoad(msg), nil

	case tea.KeyMsg:
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}

	if m.form != nil {
		return m, m.form.update(msg)
	}
	if m.prompt != nil {
		var cmd tea.Cmd
		*m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleMouse turns terminal mouse events into pointer actions. Any release
// ends the gesture, wherever it happens, so a drag that leaves the preview
// cannot get stuck.
func (m EditorModel) handleMouse(msg tea.MouseMsg) EditorModel {
	at := cellPoint(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		if m.layout.ready() && msg.Y == m.layout.scrubRow {
			m.store.Dispatch(editor.Seek{Time: scrubTime(msg.X, m.layout.canvas, m.store.Duration())})
			return m
		}
		m.store.Dispatch(editor.PointerDown{At: at, Surface: m.layout.surface()})
	case tea.MouseActionMotion:
		if m.store.Gesture() != editor.Idle {
			m.store.Dispatch(editor.PointerMove{At: at, Surface: m.layout.surface()})
		}
	case tea.MouseActionRelease:
		m.store.Dispatch(editor.PointerUp{})
	}
	return m
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		m.store.Dispatch(editor.PointerUp{})
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.NextPane):
		m.focus = (m.focus + 1) % paneCount
	case key.Matches(msg, k.PrevPane):
		m.focus = (m.focus + paneCount - 1) % paneCount
	case key.Matches(msg, k.MoveUp):
		m.reorder(-1)
	case key.Matches(msg, k.MoveDown):
		m.reorder(1)
	case key.Matches(msg, k.Up):
		m.moveCursor(-1)
	case key.Matches(msg, k.Down):
		m.moveCursor(1)
	case key.Matches(msg, k.Add):
		return m.add()
	case key.Matches(msg, k.Remove):
		m.remove()
	case key.Matches(msg, k.Edit):
		return m.edit()
	case key.Matches(msg, k.Mute):
		if m.focus == paneAudio {
			if t, ok := m.selectedAudio(); ok {
				m.store.Dispatch(editor.ToggleMute{ID: t.ID})
			}
		}
	case key.Matches(msg, k.Play):
		m.store.Dispatch(editor.TogglePlay{})
	case key.Matches(msg, k.Back):
		m.store.Dispatch(editor.Seek{Time: m.store.Position() - seekStep})
	case key.Matches(msg, k.Forward):
		m.store.Dispatch(editor.Seek{Time: m.store.Position() + seekStep})
	case key.Matches(msg, k.Open):
		return m.openPrompt()
	case key.Matches(msg, k.Border):
		border := !m.store.Overlay().Border
		m.store.Dispatch(editor.SetOverlayStyle{Style: editor.StyleUpdate{Border: &border}})
	case key.Matches(msg, k.Animate):
		anim := !m.store.Overlay().Animation
		m.store.Dispatch(editor.SetOverlayStyle{Style: editor.StyleUpdate{Animation: &anim}})
	case key.Matches(msg, k.Fainter):
		op := m.store.Overlay().Opacity - opacityStep
		m.store.Dispatch(editor.SetOverlayStyle{Style: editor.StyleUpdate{Opacity: &op}})
	case key.Matches(msg, k.Stronger):
		op := m.store.Overlay().Opacity + opacityStep
		m.store.Dispatch(editor.SetOverlayStyle{Style: editor.StyleUpdate{Opacity: &op}})
	case key.Matches(msg, k.ResetImage):
		m.store.Dispatch(editor.ResetOverlay{})
	case key.Matches(msg, k.Export):
		return m.startExport(false)
	case key.Matches(msg, k.Retry):
		return m.startExport(true)
	}
	return m, nil
}

func (m EditorModel) paneLen(p pane) int {
	switch p {
	case paneScenes:
		return len(m.store.Scenes())
	case paneSubtitles:
		return len(m.store.Subtitles())
	default:
		return len(m.store.AudioTracks())
	}
}

func (m *EditorModel) moveCursor(delta int) {
	n := m.paneLen(m.focus)
	if n == 0 {
		m.cursor[m.focus] = 0
		return
	}
	m.cursor[m.focus] = clampInt(m.cursor[m.focus]+delta, 0, n-1)
}

func (m *EditorModel) clampCursors() {
	for p := pane(0); p < paneCount; p++ {
		m.cursor[p] = clampInt(m.cursor[p], 0, max(m.paneLen(p)-1, 0))
	}
}

// reorder moves the selected item one place and keeps it selected.
func (m *EditorModel) reorder(delta int) {
	from := m.cursor[m.focus]
	to := from + delta
	var moved bool
	switch m.focus {
	case paneScenes:
		moved = m.store.Dispatch(editor.ReorderScenes{From: from, To: to})
	case paneSubtitles:
		moved = m.store.Dispatch(editor.ReorderSubtitles{From: from, To: to})
	case paneAudio:
		moved = m.store.Dispatch(editor.ReorderAudioTracks{From: from, To: to})
	}
	if moved {
		m.cursor[m.focus] = to
	}
}

func (m EditorModel) add() (tea.Model, tea.Cmd) {
	switch m.focus {
	case paneScenes:
		m.store.Dispatch(editor.AddScene{})
		m.cursor[paneScenes] = m.paneLen(paneScenes) - 1
	case paneSubtitles:
		style := m.store.SubtitleStyle()
		style.Start = m.store.Position()
		style.End = style.Start + (m.store.SubtitleStyle().End - m.store.SubtitleStyle().Start)
		m.form = newSubtitleForm(style, nil)
		return m, textinput.Blink
	case paneAudio:
		m.store.Dispatch(editor.AddAudioTrack{})
		m.cursor[paneAudio] = m.paneLen(paneAudio) - 1
	}
	return m, nil
}

// remove resolves the selection to an id first, so deletion never acts on a
// stale index.
func (m *EditorModel) remove() {
	switch m.focus {
	case paneScenes:
		if s, ok := m.selectedScene(); ok {
			m.store.Dispatch(editor.RemoveScene{ID: s.ID})
		}
	case paneSubtitles:
		if b, ok := m.selectedSubtitle(); ok {
			m.store.Dispatch(editor.RemoveSubtitle{ID: b.ID})
		}
	case paneAudio:
		if t, ok := m.selectedAudio(); ok {
			m.store.Dispatch(editor.RemoveAudioTrack{ID: t.ID})
		}
	}
	m.clampCursors()
}

func (m EditorModel) edit() (tea.Model, tea.Cmd) {
	switch m.focus {
	case paneSubtitles:
		if b, ok := m.selectedSubtitle(); ok {
			m.form = newSubtitleForm(m.store.SubtitleStyle(), &b)
			return m, textinput.Blink
		}
	case paneScenes:
		if s, ok := m.selectedScene(); ok {
			m.store.Dispatch(editor.Seek{Time: sceneStart(m.store.Scenes(), s.ID)})
		}
	}
	return m, nil
}

// sceneStart is where a scene begins in display order.
func sceneStart(scenes []editor.Scene, id string) float64 {
	var t float64
	for _, s := range scenes {
		if s.ID == id {
			return t
		}
		if d := s.End - s.Start; d > 0 {
			t += d
		}
	}
	return t
}

func (m EditorModel) selectedScene() (editor.Scene, bool) {
	scenes := m.store.Scenes()
	i := m.cursor[paneScenes]
	if i < 0 || i >= len(scenes) {
		return editor.Scene{}, false
	}
	return scenes[i], true
}

func (m EditorModel) selectedSubtitle() (editor.SubtitleBlock, bool) {
	blocks := m.store.Subtitles()
	i := m.cursor[paneSubtitles]
	if i < 0 || i >= len(blocks) {
		return editor.SubtitleBlock{}, false
	}
	return blocks[i], true
}

func (m EditorModel) selectedAudio() (editor.AudioTrack, bool) {
	tracks := m.store.AudioTracks()
	i := m.cursor[paneAudio]
	if i < 0 || i >= len(tracks) {
		return editor.AudioTrack{}, false
	}
	return tracks[i], true
}

func (m EditorModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fk := m.formKeys
	switch {
	case key.Matches(msg, fk.Cancel):
		m.form = nil
		return m, nil
	case key.Matches(msg, fk.Next):
		return m, m.form.move(1)
	case key.Matches(msg, fk.Prev):
		return m, m.form.move(-1)
	case key.Matches(msg, fk.Preset):
		if name := m.form.applyPreset(m.presets); name != "" {
			m.setStatus("preset "+name, false)
		}
		return m, nil
	case key.Matches(msg, fk.Save):
		block, ok := m.form.collect()
		if !ok {
			return m, nil
		}
		if m.form.editing() {
			if !m.store.Dispatch(editor.UpdateSubtitle{Block: block}) {
				m.form.issues = "subtitle was not updated"
				return m, nil
			}
			m.setStatus("subtitle updated", false)
		} else {
			added, ok := m.store.AddSubtitleBlock(block)
			if !ok {
				m.form.issues = "subtitle was not added"
				return m, nil
			}
			m.cursor[paneSubtitles] = indexOfSubtitle(m.store.Subtitles(), added.ID)
			m.setStatus("subtitle added", false)
		}
		m.form = nil
		return m, nil
	}
	return m, m.form.update(msg)
}

func indexOfSubtitle(blocks []editor.SubtitleBlock, id string) int {
	for i, b := range blocks {
		if b.ID == id {
			return i
		}
	}
	return 0
}

func (m EditorModel) openPrompt() (tea.Model, tea.Cmd) {
	in := textinput.New()
	in.Prompt = "open: "
	in.Placeholder = "path to a video, image or audio file"
	in.CharLimit = 1024
	in.Focus()
	m.prompt = &in
	return m, textinput.Blink
}

func (m EditorModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompt = nil
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.prompt.Value())
		m.prompt = nil
		if path == "" {
			return m, nil
		}
		m.setStatus("loading "+filepath.Base(path), false)
		return m, m.ingest(path)
	}
	in := *m.prompt
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.prompt = &in
	return m, cmd
}

func (m EditorModel) ingest(path string) tea.Cmd {
	ctx, ingester := m.ctx, m.ingester
	return func() tea.Msg {
		src, err := ingester.Ingest(ctx, path)
		return mediaLoadedMsg{source: src, err: err}
	}
}

// finishLoad routes an ingested file by kind: video drives the clock, an
// image becomes the overlay and audio becomes a new track.
func (m EditorModel) finishLoad(msg mediaLoadedMsg) EditorModel {
	if msg.err != nil {
		m.setStatus("open failed: "+msg.err.Error(), true)
		return m
	}
	src := msg.source
	switch src.Kind {
	case media.KindVideo:
		if !m.store.Dispatch(editor.LoadMedia{Path: src.Path, Duration: src.Info.Duration}) {
			m.setStatus("video has no usable duration", true)
			return m
		}
		m.video = src.Path
		m.hasAudio = src.Info.HasAudio
	case media.KindImage:
		m.store.Dispatch(editor.SelectImage{Src: src.Path})
	case media.KindAudio:
		name := strings.TrimSuffix(src.Name, filepath.Ext(src.Name))
		m.store.Dispatch(editor.AddAudioTrack{Track: name, Source: src.Path})
		m.cursor[paneAudio] = m.paneLen(paneAudio) - 1
	}
	status := fmt.Sprintf("loaded %s %s", src.Kind, src.Name)
	if src.Warning != "" {
		status += " (" + src.Warning + ")"
	}
	m.setStatus(status, src.Warning != "")
	return m
}

// startExport snapshots the store on the event loop and hands the copy to
// the export service on a command goroutine.
func (m EditorModel) startExport(retry bool) (tea.Model, tea.Cmd) {
	if m.exports == nil {
		m.setStatus("export is not configured", true)
		return m, nil
	}
	if m.exporting || m.exports.Status() == export.StatusRendering {
		m.setStatus("an export is already running", true)
		return m, nil
	}
	if retry && m.exports.Status() != export.StatusFailed {
		m.setStatus("nothing to retry", false)
		return m, nil
	}

	req := export.Request{Snapshot: m.store.Snapshot(), Video: m.video, HasAudio: m.hasAudio}
	svc, ctx := m.exports, m.ctx
	m.exporting = true
	m.setStatus("exporting", false)
	m.logger.Info("export requested", slog.Bool("retry", retry), slog.Int("subtitles", len(req.Snapshot.Subtitles)))
	return m, func() tea.Msg {
		if retry {
			return exportDoneMsg{result: svc.Retry(ctx, nil)}
		}
		return exportDoneMsg{result: svc.Export(ctx, req, nil)}
	}
}

func (m EditorModel) finishExport(res export.Result) EditorModel {
	m.exporting = false
	switch {
	case res.Err != nil:
		m.setStatus("export failed: "+res.Err.Error()+" (r to retry)", true)
	case res.Skipped:
		m.setStatus("export up to date: "+res.Artifact.Path, false)
	default:
		m.setStatus("exported "+res.Artifact.Path, false)
	}
	return m
}

func (m *EditorModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// View satisfies the tea.Model interface.
func (m EditorModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.layout.ready() {
		return "reelcut: waiting for a larger terminal...\n"
	}
	w := m.layout.width
	cw, ch := int(m.layout.canvas.W), int(m.layout.canvas.H)
	frame := m.store.Frame()

	var sb strings.Builder
	sb.WriteString(m.headerLine(frame, w))
	sb.WriteString("\n")
	sb.WriteString(previewStyle.Render(renderCanvas(frame, cw, ch)))
	sb.WriteString("\n ")
	sb.WriteString(renderScrubber(frame.Time, frame.Duration, cw))
	sb.WriteString("\n")

	if m.form != nil {
		sb.WriteString(m.form.view(w))
		sb.WriteString(m.help.ShortHelpView(m.formKeys.ShortHelp()))
		return sb.String()
	}

	sb.WriteString(m.panes(w))
	sb.WriteString("\n")
	if m.prompt != nil {
		sb.WriteString(m.prompt.View())
	} else if m.statusErr {
		sb.WriteString(errorStyle.Render(TruncateWithEllipsis(m.status, w)))
	} else {
		sb.WriteString(faintStyle.Render(TruncateWithEllipsis(m.status, w)))
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m EditorModel) headerLine(frame editor.Frame, width int) string {
	play := "⏸"
	if m.store.Playing() {
		play = "▶"
	}
	video := "no video"
	if m.video != "" {
		video = filepath.Base(m.video)
	}
	ov := frame.Overlay
	parts := []string{
		titleStyle.Render("reelcut"),
		fmt.Sprintf("%s %s / %s", play, formatClock(frame.Time), formatClock(frame.Duration)),
		video,
		fmt.Sprintf("overlay %.0f,%.0f %.0f×%.0f α%.1f", ov.X, ov.Y, ov.Width, ov.Height, ov.Opacity),
	}
	if g := m.store.Gesture(); g != editor.Idle {
		parts = append(parts, selectStyle.Render(g.String()))
	}
	if m.exports != nil {
		st := m.exports.Status().String()
		parts = append(parts, "export "+StatusStyle(st).Render(st))
	}
	line := strings.Join(parts, "  ")
	if lipgloss.Width(line) > width {
		return TruncateWithEllipsis(strings.Join(parts[1:3], "  "), width)
	}
	return line
}

func (m EditorModel) panes(width int) string {
	inner := max(width/int(paneCount)-4, 8)
	rendered := make([]string, paneCount)
	for p := pane(0); p < paneCount; p++ {
		items := m.paneItems(p)
		lines := []string{HeaderStyle.Render(paneTitles[p])}
		start := max(0, m.cursor[p]-listRows+2)
		for i := start; i < len(items) && i < start+listRows-1; i++ {
			text := TruncateWithEllipsis(items[i], inner-2)
			if i == m.cursor[p] && p == m.focus {
				lines = append(lines, selectStyle.Render("▸ "+text))
			} else {
				lines = append(lines, "  "+text)
			}
		}
		if len(items) == 0 {
			lines = append(lines, faintStyle.Render("  (empty)"))
		}
		for len(lines) < listRows {
			lines = append(lines, "")
		}
		style := paneStyle
		if p == m.focus {
			style = focusedPaneStyle
		}
		rendered[p] = style.Width(inner).Render(strings.Join(lines, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m EditorModel) paneItems(p pane) []string {
	var out []string
	switch p {
	case paneScenes:
		for i, s := range m.store.Scenes() {
			out = append(out, fmt.Sprintf("%d. %s %s–%s", i+1, s.Label, formatClock(s.Start), formatClock(s.End)))
		}
	case paneSubtitles:
		t := m.store.Position()
		for _, b := range m.store.Subtitles() {
			mark := " "
			if b.VisibleAt(t) {
				mark = "•"
			}
			out = append(out, fmt.Sprintf("%s %s–%s %s", mark, formatNumber(b.Start), formatNumber(b.End), b.Text))
		}
	case paneAudio:
		for _, a := range m.store.AudioTracks() {
			state := "♪"
			if a.Muted {
				state = "✕"
			}
			out = append(out, state+" "+a.Name)
		}
	}
	return out
}
