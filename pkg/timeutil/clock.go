package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MinutesPerDay is the length of a wall-clock day.
const MinutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*([AaPp][Mm]))?$`)

// ParseClock converts a wall-clock string to minutes since midnight. Both
// 24-hour ("09:30", "21:05") and 12-hour ("9:30 AM", "09:30 pm") forms are
// accepted.
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	switch strings.ToUpper(m[3]) {
	case "":
		if hour > 23 {
			return 0, fmt.Errorf("invalid hour in %q", s)
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("invalid hour in %q", s)
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("invalid hour in %q", s)
		}
		if hour != 12 {
			hour += 12
		}
	}
	return hour*60 + minute, nil
}

// ClockMinutes is ParseClock with a 00:00 fallback for missing or malformed
// values, so a broken record still renders.
func ClockMinutes(s string) int {
	v, err := ParseClock(s)
	if err != nil {
		return 0
	}
	return v
}

// DurationMinutes returns the minutes between two wall-clock times. An end
// before start crosses midnight. Equal times are a zero-length interval.
func DurationMinutes(start, end int) int {
	if end >= start {
		return end - start
	}
	return (MinutesPerDay - start) + end
}

// IntervalMinutes parses both ends leniently and returns the duration.
func IntervalMinutes(start, end string) int {
	return DurationMinutes(ClockMinutes(start), ClockMinutes(end))
}

// FormatClock24 renders minutes since midnight as "HH:MM".
func FormatClock24(minutes int) string {
	minutes = wrap(minutes)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatClock12 renders minutes since midnight as "9:05 AM".
func FormatClock12(minutes int) string {
	minutes = wrap(minutes)
	hour := minutes / 60
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minutes%60, suffix)
}

// FormatMinutes renders a duration as "1h 5m" or "45m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if h := minutes / 60; h > 0 {
		return fmt.Sprintf("%dh %dm", h, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatSeconds renders elapsed seconds as "HH:MM:SS".
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// RoundUp rounds minutes since midnight up to the next multiple of step,
// wrapping past midnight.
func RoundUp(minutes, step int) int {
	if step <= 0 {
		return wrap(minutes)
	}
	rounded := ((minutes + step - 1) / step) * step
	return wrap(rounded)
}

// Presets are the quick-add slot lengths, in minutes.
var Presets = []int{30, 45, 60, 90, 120}

// NextSlot proposes a new interval that starts gap minutes after lastEnd and
// lasts length minutes, wrapping past midnight.
func NextSlot(lastEnd, gap, length int) (start, end int) {
	start = wrap(lastEnd + gap)
	end = wrap(start + length)
	return start, end
}

func wrap(minutes int) int {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return minutes
}
