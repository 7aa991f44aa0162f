// Package timestamp resolves partial numeric timestamps such as "2022-03-30 16"
// or rotated-file suffixes into a date-time.
package timestamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidCalendarDate reports a year/month/day that is not a real date.
	ErrInvalidCalendarDate = errors.New("invalid calendar date")
	// ErrInvalidTimeOfDay reports an hour/minute/second outside the clock.
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
)

// Field widths in consumption order: year, month, day, hour, minute, second.
var widths = [...]int{4, 2, 2, 2, 2, 2}

// Digits returns s with every character other than an ASCII digit removed.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Parse interprets the digits of s as YYYYMMDDHHMMSS. Missing or short fields are
// right-padded with zeros, so "2022-03-30 16:30:5" is 16:30:50. Month and day are
// floored at 1. The result carries no zone information and is returned in UTC.
func Parse(s string) (time.Time, error) {
	rest := Digits(s)

	var fields [len(widths)]int
	for i, width := range widths {
		var slice string
		slice, rest = consumeAndPad(rest, width)
		n, err := strconv.Atoi(slice)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse %q: %w", slice, err)
		}
		fields[i] = n
	}

	year, month, day := fields[0], max(fields[1], 1), max(fields[2], 1)
	hour, minute, second := fields[3], fields[4], fields[5]

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, fmt.Errorf("%w: invalid YMD %d-%d-%d", ErrInvalidCalendarDate, year, month, day)
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("%w: invalid HMS: %d:%d:%d", ErrInvalidTimeOfDay, hour, minute, second)
	}
	return date.Add(time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second), nil
}

// consumeAndPad takes up to n bytes from the front of s and pads them on the
// right with '0' to exactly n bytes. s holds only ASCII digits.
func consumeAndPad(s string, n int) (field, rest string) {
	n0 := min(n, len(s))
	field, rest = s[:n0], s[n0:]
	return field + strings.Repeat("0", n-n0), rest
}
