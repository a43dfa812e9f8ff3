// Package dateparse turns human due-date input into concrete timestamps.
package dateparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date-only inputs get this hour of day so a "tomorrow" reminder does
// not fire at midnight.
const defaultHour = 9

// ParseDue parses a due-date input string into a timestamp, using the
// current time as the reference point.
//
// Supported formats:
//   - Exact: "2026-03-01", "2026-03-01 14:30"
//   - Relative: "+2h", "+7d", "+2w", "+1m"
//   - Day names: "monday", "tuesday", ... (next occurrence)
//   - Keywords: "today", "tomorrow", "next-week", "next-month"
//   - Any of the date forms plus a clock: "tomorrow 9am", "friday 17:00"
func ParseDue(input string) (time.Time, error) {
	return ParseDueFrom(input, time.Now())
}

// ParseDueFrom parses relative to the given reference time. This
// variant enables deterministic testing with a fixed "now".
func ParseDueFrom(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("empty due date input")
	}

	// Exact date with time
	if t, err := time.ParseInLocation("2006-01-02 15:04", input, now.Location()); err == nil {
		return t, nil
	}

	// A trailing clock token applies to whatever date form precedes it.
	datePart := input
	hour, minute := defaultHour, 0
	if i := strings.LastIndexByte(input, ' '); i > 0 {
		if h, m, ok := parseClock(input[i+1:]); ok {
			datePart = strings.TrimSpace(input[:i])
			hour, minute = h, m
		}
	} else if h, m, ok := parseClock(input); ok {
		// Bare clock means today at that time.
		return at(now, now, h, m), nil
	}

	// Relative hour offset keeps the reference clock time.
	if strings.HasPrefix(datePart, "+") && strings.HasSuffix(datePart, "h") {
		if n, err := strconv.Atoi(datePart[1 : len(datePart)-1]); err == nil && n >= 0 {
			return now.Add(time.Duration(n) * time.Hour), nil
		}
	}

	day, err := parseDay(datePart, now)
	if err != nil {
		return time.Time{}, err
	}
	return at(now, day, hour, minute), nil
}

// parseDay resolves the date portion to a calendar day.
func parseDay(input string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", input, now.Location()); err == nil {
		return t, nil
	}

	switch input {
	case "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case "next-week":
		daysUntilMonday := (int(time.Monday) - int(now.Weekday()) + 7) % 7
		if daysUntilMonday == 0 {
			daysUntilMonday = 7
		}
		return now.AddDate(0, 0, daysUntilMonday), nil
	case "next-month":
		year, month, _ := now.Date()
		return time.Date(year, month+1, 1, 0, 0, 0, 0, now.Location()), nil
	}

	// Relative offsets: +Nd, +Nw, +Nm
	if strings.HasPrefix(input, "+") && len(input) >= 3 {
		suffix := input[len(input)-1]
		n, err := strconv.Atoi(input[1 : len(input)-1])
		if err == nil && n >= 0 {
			switch suffix {
			case 'd':
				return now.AddDate(0, 0, n), nil
			case 'w':
				return now.AddDate(0, 0, n*7), nil
			case 'm':
				return now.AddDate(0, n, 0), nil
			default:
				return time.Time{}, fmt.Errorf("unknown relative unit %q in %q (use h, d, w, or m)", string(suffix), input)
			}
		}
	}

	// Day names: next occurrence of that weekday
	dayMap := map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
	if target, ok := dayMap[input]; ok {
		daysAhead := (int(target) - int(now.Weekday()) + 7) % 7
		if daysAhead == 0 {
			daysAhead = 7 // always advance to next occurrence
		}
		return now.AddDate(0, 0, daysAhead), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized due date: %q", input)
}

// parseClock accepts "15:04", "9am", "5pm", "9:30pm".
func parseClock(s string) (hour, minute int, ok bool) {
	meridiem := 0 // 0 none, 1 am, 2 pm
	if strings.HasSuffix(s, "am") {
		meridiem = 1
		s = s[:len(s)-2]
	} else if strings.HasSuffix(s, "pm") {
		meridiem = 2
		s = s[:len(s)-2]
	}
	if s == "" {
		return 0, 0, false
	}

	hs, ms := s, "0"
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hs, ms = s[:i], s[i+1:]
	} else if meridiem == 0 {
		// A bare number without am/pm is not a clock.
		return 0, 0, false
	}

	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}

	switch meridiem {
	case 1:
		if h > 12 {
			return 0, 0, false
		}
		if h == 12 {
			h = 0
		}
	case 2:
		if h > 12 {
			return 0, 0, false
		}
		if h != 12 {
			h += 12
		}
	}
	return h, m, true
}

func at(ref, day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, ref.Location())
}
