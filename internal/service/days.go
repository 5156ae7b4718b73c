package service

import (
	"strings"
	"time"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
)

const dateLayout = "2006-01-02"

// dayOf returns the UTC midnight of t's calendar day as seen in t's own location.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// monthRange returns [first day, first day of next month).
func monthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// monthDays enumerates every day of the month as UTC midnights.
func monthDays(year int, month time.Month) []time.Time {
	count := daysInMonth(year, month)
	days := make([]time.Time, 0, count)
	for d := 1; d <= count; d++ {
		days = append(days, time.Date(year, month, d, 0, 0, 0, 0, time.UTC))
	}
	return days
}

func validMonth(year, month int) error {
	if month < 1 || month > 12 || year < 1970 || year > 9999 {
		return apperror.New(apperror.CodeValidation, "Invalid or missing month/year parameter.")
	}
	return nil
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar day it names.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return dayOf(parsed), nil
}

// ParseTimestamp accepts an RFC 3339 timestamp, or YYYY-MM-DD as midnight UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	return time.Parse(dateLayout, value)
}

// daySet collects calendar days by their YYYY-MM-DD key.
type daySet map[string]struct{}

func (s daySet) addRange(start, end time.Time) {
	first, last := dayOf(start), dayOf(end)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		s[d.Format(dateLayout)] = struct{}{}
	}
}

func (s daySet) has(day time.Time) bool {
	_, ok := s[day.Format(dateLayout)]
	return ok
}

// inclusiveDays counts calendar days from start to end, both included.
func inclusiveDays(start, end time.Time) int {
	return int(dayOf(end).Sub(dayOf(start)).Hours()/24) + 1
}
