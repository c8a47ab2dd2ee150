package cuesheet

import (
	"strconv"
	"strings"
)

// ValidationError describes one rejected field. Line is the 1-based source
// line for file imports and 0 for interactive input.
type ValidationError struct {
	Line    int
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	parts := make([]string, 0, 3)
	if e.Line > 0 {
		parts = append(parts, "line "+strconv.Itoa(e.Line))
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationErrors collects every problem found in one pass so callers can
// report them together.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "invalid cue"
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Err returns nil for an empty list so callers can write `return cues, errs.Err()`.
func (errs ValidationErrors) Err() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Fields lists the distinct field names with problems, in first-seen order.
func (errs ValidationErrors) Fields() []string {
	seen := make(map[string]bool, len(errs))
	var out []string
	for _, err := range errs {
		if err.Field == "" || seen[err.Field] {
			continue
		}
		seen[err.Field] = true
		out = append(out, err.Field)
	}
	return out
}
