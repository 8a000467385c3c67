package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateOrder says how the first two numeric date fields were interpreted.
type DateOrder string

const (
	DateOrderDayMonth DateOrder = "DD/MM"
	DateOrderMonthDay DateOrder = "MM/DD"

	// DateOrderAmbiguous means both fields were <= 12; day/month was assumed.
	DateOrderAmbiguous DateOrder = "ambiguous"
)

// SplitDate normalises the separators of a date string and returns its
// three numeric fields in source order.
func SplitDate(date string) ([3]int, error) {
	var parts [3]int
	normalized := strings.NewReplacer(".", "/", "-", "/").Replace(strings.TrimSpace(date))
	fields := strings.Split(normalized, "/")
	if len(fields) != 3 {
		return parts, fmt.Errorf("date %q does not have three fields", date)
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return parts, fmt.Errorf("date field %q: %w", f, err)
		}
		parts[i] = n
	}
	return parts, nil
}

// ClassifyDateOrder applies the day/month heuristic to the first two fields.
// When both are <= 12 there is no way to tell, and day/month is assumed.
func ClassifyDateOrder(first, second int) DateOrder {
	switch {
	case first > 12 && second <= 12:
		return DateOrderDayMonth
	case first <= 12 && second > 12:
		return DateOrderMonthDay
	default:
		return DateOrderAmbiguous
	}
}

// ResolveTimestamp builds a time from the captured date, time and optional
// daypart strings. Any non-numeric or out-of-range component is an error.
func ResolveTimestamp(date, clock, daypart string, loc *time.Location) (time.Time, error) {
	parts, err := SplitDate(date)
	if err != nil {
		return time.Time{}, err
	}

	day, month := parts[0], parts[1]
	if ClassifyDateOrder(parts[0], parts[1]) == DateOrderMonthDay {
		day, month = parts[1], parts[0]
	}

	year := parts[2]
	if year < 100 {
		year += 2000
	}

	var hour, minute, second int
	if daypart != "" {
		hour, minute, err = parseDaypartClock(clock, daypart)
	} else {
		hour, minute, second, err = parseNumericClock(clock)
	}
	if err != nil {
		return time.Time{}, err
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, fmt.Errorf("day %d out of range for %d-%02d", day, year, month)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return time.Time{}, fmt.Errorf("time %q out of range", clock)
	}

	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), nil
}

// parseDaypartClock handles "H:MM" qualified by manhã/tarde/noite.
func parseDaypartClock(clock, daypart string) (int, int, error) {
	fields := strings.Split(strings.TrimSpace(clock), ":")
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("clock %q is not H:MM", clock)
	}
	hour, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("hour %q: %w", fields[0], err)
	}
	minute, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("minute %q: %w", fields[1], err)
	}

	switch strings.ToLower(daypart) {
	case "noite", "tarde":
		if hour < 12 {
			hour += 12
		}
	case "manhã":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute, nil
}

// parseNumericClock handles "HH:MM[:SS][ AM|PM]".
func parseNumericClock(clock string) (int, int, int, error) {
	clock = strings.TrimSpace(clock)

	var meridiem string
	upper := strings.ToUpper(strings.NewReplacer(".", "", " ", "", "\u00a0", "", "\u202f", "").Replace(clock))
	switch {
	case strings.HasSuffix(upper, "AM"):
		meridiem = "AM"
		upper = strings.TrimSuffix(upper, "AM")
	case strings.HasSuffix(upper, "PM"):
		meridiem = "PM"
		upper = strings.TrimSuffix(upper, "PM")
	}

	fields := strings.Split(upper, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return 0, 0, 0, fmt.Errorf("clock %q is not HH:MM[:SS]", clock)
	}
	var values [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("clock field %q: %w", f, err)
		}
		values[i] = n
	}

	hour := values[0]
	switch meridiem {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	}
	return hour, values[1], values[2], nil
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
