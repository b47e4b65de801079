// Package cheque derives post-dated-cheque series for the PDC stage of the
// loan workflow: cheque numbers from an alphanumeric seed, and one cheque date
// per calendar month from a base date.
package cheque

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GenerateNumbers returns count cheque numbers starting at startingNumber. The
// seed is split into a non-digit prefix and a trailing digit run; each next
// number increments the run by one, zero-padded to the seed's digit width.
// Incrementing past the width grows it ("CHQ999" -> "CHQ1000") rather than
// truncating. A seed with no trailing digit run is repeated unchanged for
// every position.
func GenerateNumbers(startingNumber string, count int) []string {
	if count <= 0 {
		return nil
	}

	prefix, digits := splitSeed(startingNumber)
	out := make([]string, 0, count)

	if digits == "" {
		for i := 0; i < count; i++ {
			out = append(out, startingNumber)
		}
		return out
	}

	start, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// digit run too long to represent; treat like the degenerate case
		for i := 0; i < count; i++ {
			out = append(out, startingNumber)
		}
		return out
	}

	width := len(digits)
	for i := 0; i < count; i++ {
		out = append(out, fmt.Sprintf("%s%0*d", prefix, width, start+int64(i)))
	}
	return out
}

// splitSeed separates a trailing digit run from whatever precedes it.
// "CHQ001" -> ("CHQ", "001"); "123" -> ("", "123"); "ABC" -> ("ABC", "").
func splitSeed(s string) (prefix, digits string) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[:i], s[i:]
}

// RolloutDates returns count cheque dates, one calendar month apart starting
// at base. Day-of-month overflow clamps down to the last valid day of the
// target month: 31 Jan + 1 month is the last day of Feb, never 2-3 Mar.
func RolloutDates(base time.Time, count int) []time.Time {
	if count <= 0 {
		return nil
	}
	out := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, addMonthsClamped(base, i))
	}
	return out
}

// addMonthsClamped is time.AddDate without the normalization overflow.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) + months
	y := year + (m-1)/12
	m = (m-1)%12 + 1
	if m <= 0 {
		m += 12
		y--
	}

	if last := daysIn(y, time.Month(m)); day > last {
		day = last
	}
	return time.Date(y, time.Month(m), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseSeriesDate accepts the date formats the PDC form posts.
func ParseSeriesDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
