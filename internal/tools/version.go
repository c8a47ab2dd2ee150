package tools

import (
	"regexp"
	"strconv"
	"strings"
)

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

// Release builds print "ffmpeg version 6.1.1-..."; git builds print
// "ffmpeg version N-113-g..." and keep the raw token.
var versionRegex = regexp.MustCompile(`version\s+(\S+)`)
var numericRegex = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]+))?(?:\.([0-9]+))?`)

func normalizeVersion(line string) string {
	m := versionRegex.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	if n := numericRegex.FindString(m[1]); n != "" {
		return n
	}
	return m[1]
}

// meetsMinimum compares dotted numeric versions. A version without any
// digits (a git snapshot) is assumed new enough.
func meetsMinimum(version, minimum string) bool {
	if minimum == "" {
		return true
	}
	if version == "" {
		return false
	}

	vParts := numericParts(version)
	if len(vParts) == 0 || strings.HasPrefix(version, "N-") {
		return true
	}
	mParts := numericParts(minimum)
	for len(vParts) < len(mParts) {
		vParts = append(vParts, 0)
	}
	for len(mParts) < len(vParts) {
		mParts = append(mParts, 0)
	}
	for i := range vParts {
		if vParts[i] > mParts[i] {
			return true
		}
		if vParts[i] < mParts[i] {
			return false
		}
	}
	return true
}

func numericParts(version string) []int {
	var parts []int
	for _, field := range strings.FieldsFunc(version, func(r rune) bool { return r < '0' || r > '9' }) {
		val, _ := strconv.Atoi(field)
		parts = append(parts, val)
	}
	return parts
}
