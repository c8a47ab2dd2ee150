// Package cuesheet imports and exports timed subtitle cues: CSV/TSV cue
// sheets and SubRip files in, SubRip and ASS sidecars out.
package cuesheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var requiredHeaders = []string{"start", "end", "text"}

// Cue is one timed subtitle line. Zero values for Font, Color and Size mean
// "use the editor default"; HasPosition reports whether X/Y were given.
type Cue struct {
	Line        int
	Start       float64
	End         float64
	Text        string
	Font        string
	Color       string
	Size        float64
	X           float64
	Y           float64
	HasPosition bool
}

// Duration returns End-Start.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// LoadCSV reads a comma or tab separated cue sheet. The header must contain
// start, end and text; font, color, size, x and y are optional. Rows with
// problems are skipped and reported through ValidationErrors, which is
// returned alongside the cues that did parse.
func LoadCSV(path string) ([]Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cue sheet: %w", err)
	}
	return ParseCSV(data)
}

// ParseCSV is LoadCSV over an in-memory document.
func ParseCSV(data []byte) ([]Cue, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("cue sheet is empty")
	}

	comma, err := detectDelimiter(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		cues      []Cue
		errs      ValidationErrors
		headerMap map[string]int
		line      int
	)

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse cue sheet: %w", err)
		}
		line++

		if headerMap == nil {
			headerMap, err = buildHeaderMap(record)
			if err != nil {
				return nil, err
			}
			continue
		}
		if isEmptyRecord(record) {
			continue
		}

		cue, rowErrs := parseRecord(record, headerMap, line)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		cues = append(cues, cue)
	}

	if headerMap == nil {
		return nil, errors.New("missing header row")
	}
	return cues, errs.Err()
}

func detectDelimiter(data []byte) (rune, error) {
	header, _, _ := strings.Cut(string(data), "\n")
	switch {
	case strings.Contains(header, "\t"):
		return '\t', nil
	case strings.Contains(header, ","):
		return ',', nil
	}
	return 0, errors.New("unable to detect delimiter (expected comma or tab)")
}

func buildHeaderMap(header []string) (map[string]int, error) {
	headerMap := make(map[string]int, len(header))
	for idx, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, exists := headerMap[name]; exists {
			return nil, fmt.Errorf("duplicate header: %s", name)
		}
		headerMap[name] = idx
	}
	for _, required := range requiredHeaders {
		if _, ok := headerMap[required]; !ok {
			return nil, fmt.Errorf("missing required header: %s", required)
		}
	}
	return headerMap, nil
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func parseRecord(record []string, header map[string]int, line int) (Cue, []ValidationError) {
	var errs []ValidationError

	get := func(field string) string {
		pos, ok := header[field]
		if !ok || pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[pos])
	}
	number := func(field string) (float64, bool) {
		raw := get(field)
		if raw == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, ValidationError{Line: line, Field: field, Message: "must be a number"})
			return 0, false
		}
		return v, true
	}

	cue := Cue{Line: line, Text: get("text"), Font: get("font"), Color: get("color")}
	if cue.Text == "" {
		errs = append(errs, ValidationError{Line: line, Field: "text", Message: "text is required"})
	}

	start, err := ParseTimestamp(get("start"))
	if err != nil {
		errs = append(errs, ValidationError{Line: line, Field: "start", Message: err.Error()})
	}
	end, err := ParseTimestamp(get("end"))
	if err != nil {
		errs = append(errs, ValidationError{Line: line, Field: "end", Message: err.Error()})
	}
	cue.Start, cue.End = start, end
	if len(errs) == 0 && end <= start {
		errs = append(errs, ValidationError{Line: line, Field: "end", Message: "end must be after start"})
	}

	if size, ok := number("size"); ok {
		if size <= 0 {
			errs = append(errs, ValidationError{Line: line, Field: "size", Message: "size must be greater than 0"})
		}
		cue.Size = size
	}
	x, hasX := number("x")
	y, hasY := number("y")
	if hasX || hasY {
		cue.X, cue.Y, cue.HasPosition = x, y, true
	}

	return cue, errs
}
