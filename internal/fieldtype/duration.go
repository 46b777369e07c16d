package fieldtype

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var durationPattern = regexp.MustCompile(`^\d+:[0-5]\d$`)

// ParseDuration converts "H:MM" into minutes. It fails only on the format;
// hours past the limit saturate to DurationMax+1 so range checks reject
// them.
func ParseDuration(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !durationPattern.MatchString(s) {
		return 0, false
	}
	sep := strings.IndexByte(s, ':')
	hours, err := strconv.Atoi(s[:sep])
	if err != nil || hours > DurationMax/60 {
		return DurationMax + 1, true
	}
	minutes, _ := strconv.Atoi(s[sep+1:])
	return hours*60 + minutes, true
}

// FormatDuration converts minutes into "H:MM"
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
