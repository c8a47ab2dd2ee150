package cuesheet

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var srtTiming = regexp.MustCompile(`^(\d+:\d\d:\d\d[,.]\d{1,3})\s*-->\s*(\d+:\d\d:\d\d[,.]\d{1,3})`)

// ParseSRT reads SubRip cues. Sequence numbers are ignored; multi-line text is
// joined with "\n". Cues with unreadable or inverted timing are reported and
// skipped.
func ParseSRT(r io.Reader) ([]Cue, error) {
	var (
		cues    []Cue
		errs    ValidationErrors
		current *Cue
		text    []string
		line    int
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.Join(text, "\n")
		switch {
		case strings.TrimSpace(current.Text) == "":
			errs = append(errs, ValidationError{Line: current.Line, Field: "text", Message: "text is required"})
		case current.End <= current.Start:
			errs = append(errs, ValidationError{Line: current.Line, Field: "end", Message: "end must be after start"})
		default:
			cues = append(cues, *current)
		}
		current, text = nil, nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		raw := strings.TrimRight(sc.Text(), "\r")
		if line == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		trimmed := strings.TrimSpace(raw)

		if trimmed == "" {
			flush()
			continue
		}
		if m := srtTiming.FindStringSubmatch(trimmed); m != nil {
			flush()
			start, err := ParseTimestamp(m[1])
			if err != nil {
				errs = append(errs, ValidationError{Line: line, Field: "start", Message: err.Error()})
				continue
			}
			end, err := ParseTimestamp(m[2])
			if err != nil {
				errs = append(errs, ValidationError{Line: line, Field: "end", Message: err.Error()})
				continue
			}
			current = &Cue{Line: line, Start: start, End: end}
			continue
		}
		if current == nil {
			// sequence number or stray text before a timing line
			continue
		}
		text = append(text, trimmed)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	flush()
	return cues, errs.Err()
}

// WriteSRT writes cues in SubRip format, numbering them from 1 in the order given.
func WriteSRT(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)
	for i, c := range cues {
		if i > 0 {
			bw.WriteString("\n")
		}
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n", i+1, FormatSRT(c.Start), FormatSRT(c.End), c.Text)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}
