package utils

import (
	"strings"
	"time"
)

// LoadLocation resolves an IANA zone name. An empty name selects the local
// zone; an unknown name falls back to UTC and reports false.
func LoadLocation(name string) (*time.Location, bool) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, true
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, false
	}
	return loc, true
}

// Today returns midnight of the current calendar day in loc.
func Today(loc *time.Location) time.Time {
	return StartOfDay(time.Now(), loc)
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
