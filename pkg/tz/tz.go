package tz

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "02.01.2006"
	ClockLayout = "15:04"
)

// Load returns the named location ("UTC", "Europe/Paris", ...). An empty name means UTC.
func Load(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

// ParseDate parses DD.MM.YYYY as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, trim(s), loc)
}

// ParseClock parses HH:mm and returns the hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, trim(s))
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// Combine returns the calendar day of day at hour:minute, in day's location.
func Combine(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// Label formats the UTC offset of t the way it is shown next to event times, e.g. "[Z+2]".
func Label(t time.Time) string {
	_, offset := t.Zone()
	hours := offset / 3600
	minutes := (offset % 3600) / 60
	if minutes < 0 {
		minutes = -minutes
	}
	sign := "+"
	if offset < 0 {
		sign = "-"
		hours = -hours
	}
	if minutes != 0 {
		return fmt.Sprintf("[Z%s%d:%02d]", sign, hours, minutes)
	}
	return fmt.Sprintf("[Z%s%d]", sign, hours)
}

// trim drops the blanks around a date or clock argument.
func trim(s string) string {
	return strings.Trim(s, " \t")
}
