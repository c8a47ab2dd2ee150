package cuesheet

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ASSOptions sets the script resolution and the fallbacks used for cues that
// carry no style of their own.
type ASSOptions struct {
	Width  int
	Height int
	Font   string
	Size   float64
	Color  string
}

var namedColors = map[string]string{
	"white":   "ffffff",
	"black":   "000000",
	"red":     "ff0000",
	"green":   "00ff00",
	"blue":    "0000ff",
	"yellow":  "ffff00",
	"cyan":    "00ffff",
	"magenta": "ff00ff",
}

// WriteASS writes an Advanced SubStation script. Every cue is centre-anchored
// at its percent position with inline font, size and colour overrides.
func WriteASS(w io.Writer, cues []Cue, opts ASSOptions) error {
	if opts.Width <= 0 {
		opts.Width = 1920
	}
	if opts.Height <= 0 {
		opts.Height = 1080
	}
	if opts.Font == "" {
		opts.Font = "Arial"
	}
	if opts.Size <= 0 {
		opts.Size = 32
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "[Script Info]\nScriptType: v4.00+\nPlayResX: %d\nPlayResY: %d\nScaledBorderAndShadow: yes\n\n", opts.Width, opts.Height)
	bw.WriteString("[V4+ Styles]\n")
	bw.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(bw, "Style: Default,%s,%s,%s,&H000000FF,&H00000000,&H80000000,0,0,0,0,100,100,0,0,3,2,0,5,10,10,10,1\n\n",
		opts.Font, formatNumber(opts.Size), ColorToASS(opts.Color))
	bw.WriteString("[Events]\n")
	bw.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for i, c := range cues {
		var tags strings.Builder
		tags.WriteString(`{\an5`)
		x, y := 50.0, 90.0
		if c.HasPosition {
			x, y = c.X, c.Y
		}
		fmt.Fprintf(&tags, `\pos(%d,%d)`,
			int(math.Round(x/100*float64(opts.Width))),
			int(math.Round(y/100*float64(opts.Height))))
		if c.Font != "" {
			tags.WriteString(`\fn` + c.Font)
		}
		if c.Size > 0 {
			tags.WriteString(`\fs` + formatNumber(c.Size))
		}
		if c.Color != "" {
			tags.WriteString(`\c` + ColorToASS(c.Color))
		}
		tags.WriteString("}")

		// Layer follows storage order so later cues draw on top.
		fmt.Fprintf(bw, "Dialogue: %d,%s,%s,Default,,0,0,0,,%s%s\n",
			i, FormatASS(c.Start), FormatASS(c.End), tags.String(), sanitizeASS(c.Text))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ass: %w", err)
	}
	return nil
}

// ColorToASS converts "#rgb", "#rrggbb" or a basic colour name into the ASS
// "&H00BBGGRR" form. Unknown values become white.
func ColorToASS(value string) string {
	hex := normalizeHex(value)
	return "&H00" + strings.ToUpper(hex[4:6]+hex[2:4]+hex[0:2])
}

// HexColor returns the colour as a six digit lowercase hex string without "#".
func HexColor(value string) string {
	return normalizeHex(value)
}

func normalizeHex(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if named, ok := namedColors[v]; ok {
		return named
	}
	v = strings.TrimPrefix(v, "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return "ffffff"
	}
	if _, err := strconv.ParseUint(v, 16, 32); err != nil {
		return "ffffff"
	}
	return v
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	s = strings.ReplaceAll(s, "\n", `\N`)
	return strings.TrimSpace(s)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
