package cuesheet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseTimestamp converts a user-supplied time into seconds. Accepted forms
// are plain seconds ("2.5"), "m:ss(.fff)" and "h:mm:ss(.fff)". A comma may be
// used as the fractional separator, as SubRip does.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("time is required")
	}
	value = strings.Replace(value, ",", ".", 1)

	if !strings.Contains(value, ":") {
		secs, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
			return 0, fmt.Errorf("invalid time %q", value)
		}
		if secs < 0 {
			return 0, errors.New("time must be non-negative")
		}
		return secs, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", value)
	}

	var hours, minutes int
	var err error
	if len(parts) == 2 {
		minutes, err = parseComponent("minutes", parts[0], -1)
		if err != nil {
			return 0, err
		}
	} else {
		hours, err = parseComponent("hours", parts[0], -1)
		if err != nil {
			return 0, err
		}
		minutes, err = parseComponent("minutes", parts[1], 59)
		if err != nil {
			return 0, err
		}
	}

	seconds, err := parseSeconds(parts[len(parts)-1])
	if err != nil {
		return 0, err
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

func parseComponent(name, raw string, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be non-negative", name)
	}
	if max >= 0 && value > max {
		return 0, fmt.Errorf("%s must be <= %d", name, max)
	}
	return value, nil
}

func parseSeconds(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("seconds are required")
	}
	whole, frac, hasFrac := strings.Cut(raw, ".")
	secInt, err := strconv.Atoi(whole)
	if err != nil {
		return 0, errors.New("seconds must be an integer")
	}
	if secInt < 0 || secInt > 59 {
		return 0, errors.New("seconds must be between 0 and 59")
	}
	if !hasFrac {
		return float64(secInt), nil
	}
	if frac == "" {
		return 0, errors.New("fractional seconds requires digits")
	}
	if len(frac) > 9 {
		frac = frac[:9]
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, errors.New("invalid fractional seconds")
		}
	}
	fv, _ := strconv.ParseFloat("0."+frac, 64)
	return float64(secInt) + fv, nil
}

// FormatSRT renders seconds as "hh:mm:ss,mmm".
func FormatSRT(seconds float64) string {
	h, m, s, ms := splitMillis(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// FormatASS renders seconds as "h:mm:ss.cc" (centiseconds).
func FormatASS(seconds float64) string {
	h, m, s, ms := splitMillis(seconds)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, ms/10)
}

func splitMillis(seconds float64) (int, int, int, int) {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	ms := int(total % 1000)
	total /= 1000
	s := int(total % 60)
	total /= 60
	m := int(total % 60)
	h := int(total / 60)
	return h, m, s, ms
}
