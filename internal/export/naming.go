package export

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ValidOutputTokens lists the tokens an output template may use.
func ValidOutputTokens() []string {
	return []string{"VIDEO", "SAFE_VIDEO", "STAMP", "DATE", "ENGINE", "SCENES", "DURATION"}
}

// OutputBaseName renders the output template for a job. An empty or fully
// blank result falls back to "export_<stamp>".
func OutputBaseName(template string, job Job, now time.Time) string {
	values := templateValues(job, now)
	template = strings.TrimSpace(template)
	if template == "" {
		return fallbackBase(now)
	}
	base := sanitizeName(applyTemplate(template, values))
	if base == "" {
		return fallbackBase(now)
	}
	return base
}

func fallbackBase(now time.Time) string {
	return "export_" + now.Format("20060102-150405")
}

func templateValues(job Job, now time.Time) map[string]string {
	video := ""
	if job.Video != "" {
		video = strings.TrimSuffix(filepath.Base(job.Video), filepath.Ext(job.Video))
	}
	engine := job.Settings.Engine
	return map[string]string{
		"VIDEO":      sanitizeName(video),
		"SAFE_VIDEO": safeFileSlug(video),
		"STAMP":      now.Format("20060102-150405"),
		"DATE":       now.Format("2006-01-02"),
		"ENGINE":     sanitizeName(engine),
		"SCENES":     strconv.Itoa(len(job.Snapshot.Scenes)),
		"DURATION":   formatFloat(job.Snapshot.Media.Duration),
	}
}

// applyTemplate expands $TOKEN references. "$$" is a literal dollar sign and
// an underscore only continues a token name when a letter or digit follows
// it, so "$VIDEO_$STAMP" reads as two tokens. Unknown tokens expand to
// nothing.
func applyTemplate(template string, values map[string]string) string {
	var builder strings.Builder
	for i := 0; i < len(template); {
		ch := template[i]
		if ch != '$' {
			builder.WriteByte(ch)
			i++
			continue
		}

		if i+1 < len(template) && template[i+1] == '$' {
			builder.WriteByte('$')
			i += 2
			continue
		}

		j := i + 1
		for j < len(template) {
			c := template[j]
			if isAlnum(c) {
				j++
				continue
			}
			if c == '_' && j+1 < len(template) && isAlnum(template[j+1]) {
				j++
				continue
			}
			break
		}

		if j == i+1 {
			builder.WriteByte('$')
			i++
			continue
		}

		if val, ok := values[template[i+1:j]]; ok {
			builder.WriteString(val)
		}
		i = j
	}
	return builder.String()
}

func isAlnum(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

func sanitizeName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	var builder strings.Builder
	lastUnderscore := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			builder.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				builder.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	result := strings.Trim(builder.String(), "_.-")
	if len(result) > 150 {
		result = result[:150]
	}
	return result
}

func safeFileSlug(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}

	var builder strings.Builder
	builder.Grow(len(value))

	lastDash := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if !lastDash && builder.Len() > 0 {
				builder.WriteByte('-')
				lastDash = true
			}
		}
	}

	slug := strings.Trim(builder.String(), "-")
	if len(slug) > 64 {
		slug = slug[:64]
	}
	return slug
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
