package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	reDateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reDateTime = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}(?::\d{2})?$`)
)

// parseETA parses a task ETA flag:
// - "" or "now" (current time)
// - YYYY-MM-DD (local midnight)
// - YYYY-MM-DD HH:MM[:SS] (local)
// - RFC3339
func parseETA(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "now") {
		return now, nil
	}
	if reDateOnly.MatchString(s) {
		return time.ParseInLocation("2006-01-02", s, time.Local)
	}
	if reDateTime.MatchString(s) {
		s = strings.Replace(s, "T", " ", 1)
		layout := "2006-01-02 15:04"
		if len(s) > len(layout) {
			layout = "2006-01-02 15:04:05"
		}
		return time.ParseInLocation(layout, s, time.Local)
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("invalid eta %q (expected YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339)", s)
}
