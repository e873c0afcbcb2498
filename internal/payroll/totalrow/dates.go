package totalrow

import (
	"regexp"
	"strings"

	"github.com/smallbiznis/payslip/internal/payroll/businessdate"
)

var (
	numericDate  = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}$`)
	dayMonth     = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})$`)
	monthDay     = regexp.MustCompile(`^([A-Za-z]{3})-(\d{1,2})$`)
	monthAbbrevs = map[string]struct{}{
		"jan": {}, "feb": {}, "mar": {}, "apr": {}, "may": {}, "jun": {},
		"jul": {}, "aug": {}, "sep": {}, "oct": {}, "nov": {}, "dec": {},
	}
)

// IsDate reports whether a Day/date cell holds a recognisable date: D/M/Y or
// D-M-Y, D-Mon, Mon-D, or any timestamp layout the leads parser accepts.
func IsDate(value string) bool {
	s := strings.TrimSpace(value)
	if s == "" {
		return false
	}
	if numericDate.MatchString(s) {
		return true
	}
	if m := dayMonth.FindStringSubmatch(s); m != nil {
		return isMonth(m[2])
	}
	if m := monthDay.FindStringSubmatch(s); m != nil {
		return isMonth(m[1])
	}
	_, ok := businessdate.ParseTimestamp(s)
	return ok
}

func isMonth(abbrev string) bool {
	_, ok := monthAbbrevs[strings.ToLower(abbrev)]
	return ok
}
