// Package duration converts the free-text durations found in hours exports
// ("42 hours 35 min.", "9 min. 44 s.") into fractional hours.
package duration

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	hourPattern   = regexp.MustCompile(`(\d+)\s*hour`)
	minutePattern = regexp.MustCompile(`(\d+)\s*min`)
	secondPattern = regexp.MustCompile(`(\d+)\s*s`)
)

var sentinels = map[string]struct{}{
	"":    {},
	"-":   {},
	"na":  {},
	"n/a": {},
}

// Parse returns the duration in hours. Unit order does not matter, a missing
// unit counts as zero and unrecognised text yields 0.
func Parse(text string) float64 {
	s := strings.ToLower(strings.TrimSpace(text))
	if IsBlank(s) {
		return 0
	}
	h := firstInt(hourPattern, s)
	m := firstInt(minutePattern, s)
	sec := firstInt(secondPattern, s)
	return h + m/60 + sec/3600
}

// IsBlank reports whether text is one of the "no value" sentinels.
func IsBlank(text string) bool {
	_, ok := sentinels[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// Recognized reports whether text is a sentinel or contains at least one unit.
func Recognized(text string) bool {
	s := strings.ToLower(strings.TrimSpace(text))
	if IsBlank(s) {
		return true
	}
	return hourPattern.MatchString(s) || minutePattern.MatchString(s) || secondPattern.MatchString(s)
}

func firstInt(re *regexp.Regexp, s string) float64 {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return float64(v)
}
