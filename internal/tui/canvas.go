package tui

import (
	"fmt"
	"math"
	"strings"

	"reelcut/internal/editor"
)

const (
	// listRows is the number of items each bottom pane shows.
	listRows = 6
	// chromeRows is everything that is not preview interior: header, preview
	// border, scrubber, panes with borders, status and help.
	chromeRows = 1 + 2 + 1 + listRows + 2 + 1 + 1
	minCanvasW = 12
	minCanvasH = 3
)

// layout places the editor regions on a terminal of a given size. Canvas is
// the preview interior in cell coordinates and doubles as the gesture's
// reference surface.
type layout struct {
	width    int
	height   int
	canvas   editor.Rect
	scrubRow int
}

func computeLayout(width, height int) layout {
	l := layout{width: width, height: height}
	cw := width - 2
	// Cells are roughly twice as tall as wide, so 16:9 is about cw*9/32 rows.
	ch := min(height-chromeRows, cw*9/32)
	if cw < minCanvasW || ch < minCanvasH {
		return l
	}
	l.canvas = editor.Rect{X: 1, Y: 2, W: float64(cw), H: float64(ch)}
	l.scrubRow = 2 + ch + 1
	return l
}

func (l layout) ready() bool {
	return l.canvas.Measurable()
}

// surface reports the canvas, or not-ready before the first window size
// arrives or when the terminal is too small.
func (l layout) surface() editor.Surface {
	return editor.StaticSurface(l.canvas)
}

// cellPoint is the centre of a terminal cell.
func cellPoint(x, y int) editor.Point {
	return editor.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

type cellKind int

const (
	cellEmpty cellKind = iota
	cellOverlay
	cellHandle
	cellCaption
	cellLabel
)

// renderCanvas paints one frame into a w×h grid of cells: the overlay box,
// its resize handle, active subtitles and the current scene label.
func renderCanvas(frame editor.Frame, w, h int) string {
	runes := make([][]rune, h)
	kinds := make([][]cellKind, h)
	for y := range runes {
		runes[y] = []rune(strings.Repeat(" ", w))
		kinds[y] = make([]cellKind, w)
	}
	put := func(x, y int, r rune, k cellKind) {
		if x >= 0 && x < w && y >= 0 && y < h {
			runes[y][x] = r
			kinds[y][x] = k
		}
	}
	text := func(x, y int, s string, k cellKind) {
		for i, r := range []rune(s) {
			put(x+i, y, r, k)
		}
	}

	if scene := frame.Scene; scene != nil {
		text(0, 0, TruncateWithEllipsis(scene.Label, w), cellLabel)
	}

	if ov := frame.Overlay; ov.Visible() {
		box := ov.PixelRect(editor.Rect{W: float64(w), H: float64(h)})
		x0, x1 := coveredCells(box.X, box.W)
		y0, y1 := coveredCells(box.Y, box.H)
		fill := shadeFor(ov.Opacity)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				r := fill
				if ov.Border {
					r = borderRune(x, y, x0, x1, y0, y1, fill)
				}
				put(x, y, r, cellOverlay)
			}
		}
		name := ov.Src[strings.LastIndexAny(ov.Src, `/\`)+1:]
		if x1-x0 >= 3 {
			text(x0+1, y0, TruncateWithEllipsis(name, x1-x0-1), cellOverlay)
		}
		put(x1, y1, '◢', cellHandle)
	}

	for _, block := range frame.Active {
		line := []rune(strings.ReplaceAll(block.Text, "\n", " "))
		if len(line) > w {
			line = line[:w]
		}
		y := clampInt(int(math.Round(block.Position.Y/100*float64(h)-0.5)), 0, h-1)
		x := clampInt(int(math.Round(block.Position.X/100*float64(w)))-len(line)/2, 0, w-len(line))
		text(x, y, string(line), cellCaption)
	}

	var b strings.Builder
	for y := 0; y < h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= w; x++ {
			if x < w && kinds[y][x] == kinds[y][start] {
				continue
			}
			b.WriteString(styleFor(kinds[y][start]).Render(string(runes[y][start:x])))
			start = x
		}
	}
	return b.String()
}

// coveredCells returns the first and last cell whose centre lies inside
// [pos, pos+size], the same rule the gesture hit test applies to cell centres.
func coveredCells(pos, size float64) (int, int) {
	first := int(math.Ceil(pos - 0.5))
	last := int(math.Floor(pos + size - 0.5))
	if last < first {
		last = first
	}
	return first, last
}

func shadeFor(opacity float64) rune {
	switch {
	case opacity >= 0.95:
		return '▓'
	case opacity >= 0.5:
		return '▒'
	default:
		return '░'
	}
}

func borderRune(x, y, x0, x1, y0, y1 int, fill rune) rune {
	switch {
	case x == x0 && y == y0:
		return '┌'
	case x == x1 && y == y0:
		return '┐'
	case x == x0 && y == y1:
		return '└'
	case x == x1 && y == y1:
		return '┘'
	case y == y0 || y == y1:
		return '─'
	case x == x0 || x == x1:
		return '│'
	}
	return fill
}

func styleFor(k cellKind) interface{ Render(...string) string } {
	switch k {
	case cellOverlay:
		return overlayStyle
	case cellHandle:
		return handleStyle
	case cellCaption:
		return captionStyle
	case cellLabel:
		return faintStyle
	}
	return plainStyle{}
}

type plainStyle struct{}

func (plainStyle) Render(s ...string) string { return strings.Join(s, " ") }

// renderScrubber draws a w-cell progress bar for the clock position.
func renderScrubber(pos, duration float64, w int) string {
	if w <= 0 {
		return ""
	}
	head := 0
	if duration > 0 {
		head = clampInt(int(pos/duration*float64(w)), 0, w-1)
	}
	return okStyle.Render(strings.Repeat("━", head)) + selectStyle.Render("●") + faintStyle.Render(strings.Repeat("─", w-head-1))
}

// scrubTime maps a click on the scrubber row to a clock position.
func scrubTime(x int, canvas editor.Rect, duration float64) float64 {
	if canvas.W <= 0 {
		return 0
	}
	frac := (float64(x) + 0.5 - canvas.X) / canvas.W
	return math.Max(0, math.Min(1, frac)) * duration
}

func formatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	tenths := int(math.Round(seconds * 10))
	return fmt.Sprintf("%02d:%02d.%d", tenths/600, (tenths/10)%60, tenths%10)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(hi, v))
}
