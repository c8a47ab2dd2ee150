package tui

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"reelcut/internal/config"
)

// ExportSetupResult holds the values picked in the carousel.
type ExportSetupResult struct {
	Cancelled bool
	Export    config.ExportConfig
}

type optionInfo struct{ name, desc string }

var engineInfo = []optionInfo{
	{config.EngineSimulated, "Waits briefly and writes a JSON manifest.\nNo ffmpeg needed; good for trying the editor."},
	{config.EngineFFmpeg, "Burns overlay and subtitles into the source video\nand mixes unmuted audio tracks."},
}

var codecInfo = []optionInfo{
	{"libx264", "H.264. Plays everywhere"},
	{"libx265", "HEVC. Smaller files, slower encode"},
	{"libvpx-vp9", "VP9. Pair with mkv or webm"},
}

var resolutionInfo = []optionInfo{
	{"1280×720", "HD. Smaller files"},
	{"1920×1080", "Full HD. Recommended"},
	{"3840×2160", "4K UHD. Large files"},
}

var fpsInfo = []optionInfo{
	{"24", "Film"},
	{"30", "Web and broadcast"},
	{"60", "High motion"},
}

const fpsNote = "The source is resampled to this rate."

var crfInfo = []optionInfo{
	{"18", "Near-lossless, large files"},
	{"20", "High quality"},
	{"23", "Medium quality"},
	{"28", "Small files, visible loss in motion"},
}

const crfNote = "Lower CRF means better quality and larger files."

var presetInfo = []optionInfo{
	{"veryfast", "Quick previews"},
	{"medium", "Balanced speed and compression"},
	{"slow", "Better compression, slower"},
}

var containerInfo = []optionInfo{
	{"mp4", "Most compatible"},
	{"mkv", "Flexible, keeps any codec"},
	{"mov", "Preferred by editing tools on macOS"},
}

var sidecarInfo = []optionInfo{
	{config.SidecarSRT, "SubRip text next to the export"},
	{config.SidecarASS, "Styled subtitles with font, colour and position"},
	{config.SidecarNone, "Burned-in captions only"},
}

// lookupMsg reports whether the ffmpeg binary was found.
type lookupMsg struct {
	path string
	err  error
}

type setupTickMsg struct{}

type carouselRow struct {
	label   string
	info    []optionInfo
	note    string
	current int
}

func (r carouselRow) value() string {
	return r.info[r.current].name
}

type exportSetupModel struct {
	rows      []carouselRow
	focused   int
	done      bool
	cancelled bool
	base      config.ExportConfig
	binary    string
	looking   bool
	ffmpeg    string
	lookErr   error
	frame     int
}

const (
	rowEngine = iota
	rowCodec
	rowResolution
	rowFPS
	rowCRF
	rowPreset
	rowContainer
	rowSidecar
)

func newExportSetupModel(binary string, current config.ExportConfig) exportSetupModel {
	if binary == "" {
		binary = "ffmpeg"
	}
	return exportSetupModel{
		rows:    populateRows(current),
		base:    current,
		binary:  binary,
		looking: true,
	}
}

func populateRows(current config.ExportConfig) []carouselRow {
	res := ""
	if current.Width > 0 && current.Height > 0 {
		res = fmt.Sprintf("%d×%d", current.Width, current.Height)
	}
	return []carouselRow{
		rowEngine:     {label: "Engine", info: engineInfo, current: findIdx(engineInfo, current.Engine, 0)},
		rowCodec:      {label: "Video codec", info: codecInfo, current: findIdx(codecInfo, current.VideoCodec, 0)},
		rowResolution: {label: "Resolution", info: resolutionInfo, current: findIdx(resolutionInfo, res, 1)},
		rowFPS:        {label: "FPS", info: fpsInfo, note: fpsNote, current: findIdx(fpsInfo, strconv.Itoa(current.FPS), 1)},
		rowCRF:        {label: "CRF", info: crfInfo, note: crfNote, current: findIdx(crfInfo, strconv.Itoa(current.CRF), 1)},
		rowPreset:     {label: "Preset", info: presetInfo, current: findIdx(presetInfo, current.Preset, 0)},
		rowContainer:  {label: "Container", info: containerInfo, current: findIdx(containerInfo, current.Container, 0)},
		rowSidecar:    {label: "Sidecar", info: sidecarInfo, current: findIdx(sidecarInfo, current.Sidecar, 0)},
	}
}

func findIdx(options []optionInfo, value string, defaultIdx int) int {
	for i, o := range options {
		if o.name == value {
			return i
		}
	}
	return defaultIdx
}

func (m exportSetupModel) Init() tea.Cmd {
	return tea.Batch(lookupFFmpeg(m.binary), setupTick())
}

func lookupFFmpeg(binary string) tea.Cmd {
	return func() tea.Msg {
		path, err := exec.LookPath(binary)
		return lookupMsg{path: path, err: err}
	}
}

func setupTick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return setupTickMsg{}
	})
}

func (m exportSetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupMsg:
		m.looking = false
		m.ffmpeg, m.lookErr = msg.path, msg.err
		return m, nil

	case setupTickMsg:
		if m.looking {
			m.frame++
			return m, setupTick()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.focused > 0 {
				m.focused--
			}
		case "down", "j":
			if m.focused < len(m.rows)-1 {
				m.focused++
			}
		case "left", "h":
			m.cycle(-1)
		case "right", "l":
			m.cycle(1)
		case "enter":
			m.done = true
			return m, tea.Quit
		case "esc", "q", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *exportSetupModel) cycle(delta int) {
	row := &m.rows[m.focused]
	row.current = (row.current + delta + len(row.info)) % len(row.info)
}

func (m exportSetupModel) View() string {
	if m.cancelled {
		return faintStyle.Render("  cancelled") + "\n"
	}

	var sb strings.Builder
	sb.WriteString("\n")
	for i, row := range m.rows {
		label := fmt.Sprintf("%-12s", row.label)
		value := fmt.Sprintf("%-12s", row.value())
		if m.done {
			sb.WriteString(faintStyle.Render("  "+label) + " " + row.value() + "\n")
			continue
		}
		if i == m.focused {
			fmt.Fprintf(&sb, "▸ %s ←  %s→\n", selectStyle.Render(label), value)
		} else {
			fmt.Fprintf(&sb, "  %s ←  %s→\n", faintStyle.Render(label), value)
		}
	}
	if m.done {
		return sb.String() + "\n"
	}

	sb.WriteString("\n")
	sb.WriteString(paneStyle.Render(m.helpPanel()))
	sb.WriteString("\n")
	sb.WriteString(faintStyle.Render("  [↑↓] Navigate  [←→] Change  [Enter] Save  [Esc] Cancel"))
	sb.WriteString("\n")
	return sb.String()
}

func (m exportSetupModel) helpPanel() string {
	row := m.rows[m.focused]
	body := listPanel(row.value(), row.info, row.note)
	if m.focused != rowEngine || row.value() != config.EngineFFmpeg {
		return body
	}
	switch {
	case m.looking:
		return body + "\n\n" + spinnerFrames[m.frame%len(spinnerFrames)] + " looking for " + m.binary + "..."
	case m.lookErr != nil:
		return body + "\n\n" + errorStyle.Render(m.binary+" not found on PATH; exports will fail")
	default:
		return body + "\n\n" + okStyle.Render("using "+m.ffmpeg)
	}
}

func listPanel(current string, items []optionInfo, note string) string {
	bold := lipgloss.NewStyle().Bold(true)
	var sb strings.Builder
	for _, info := range items {
		prefix, name := "  ", faintStyle.Render(fmt.Sprintf("%-10s", info.name))
		if info.name == current {
			prefix, name = "▸ ", bold.Render(fmt.Sprintf("%-10s", info.name))
		}
		for j, line := range strings.Split(info.desc, "\n") {
			if j == 0 {
				fmt.Fprintf(&sb, "%s%s  %s\n", prefix, name, line)
			} else {
				fmt.Fprintf(&sb, "%s  %s\n", strings.Repeat(" ", 12), line)
			}
		}
	}
	if note != "" {
		sb.WriteString("\n")
		sb.WriteString(faintStyle.Render("  " + note))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m exportSetupModel) result() ExportSetupResult {
	if m.cancelled || !m.done {
		return ExportSetupResult{Cancelled: true}
	}
	out := m.base
	out.Engine = m.rows[rowEngine].value()
	out.VideoCodec = m.rows[rowCodec].value()
	out.Width, out.Height = parseResolution(m.rows[rowResolution].value())
	out.FPS, _ = strconv.Atoi(m.rows[rowFPS].value())
	out.CRF, _ = strconv.Atoi(m.rows[rowCRF].value())
	out.Preset = m.rows[rowPreset].value()
	out.Container = m.rows[rowContainer].value()
	out.Sidecar = m.rows[rowSidecar].value()
	return ExportSetupResult{Export: out}
}

func parseResolution(s string) (int, int) {
	w, h, ok := strings.Cut(s, "×")
	if !ok {
		return 1920, 1080
	}
	wi, _ := strconv.Atoi(w)
	hi, _ := strconv.Atoi(h)
	if wi <= 0 || hi <= 0 {
		return 1920, 1080
	}
	return wi, hi
}

// RunExportSetup runs the export settings carousel, starting from current.
func RunExportSetup(w io.Writer, binary string, current config.ExportConfig) (ExportSetupResult, error) {
	p := tea.NewProgram(newExportSetupModel(binary, current), tea.WithOutput(w))
	finalModel, err := p.Run()
	if err != nil {
		return ExportSetupResult{}, err
	}
	return finalModel.(exportSetupModel).result(), nil
}
