package actions

import (
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ResolveDate turns the relative dates the model is allowed to emit
// (today, tomorrow, next <weekday>) into absolute ISO dates as of the
// given day. Anything else passes through untouched; this layer does not
// validate absolute dates.
func ResolveDate(date string, asOf time.Time) string {
	switch lower := strings.ToLower(date); {
	case lower == "today":
		return asOf.Format("2006-01-02")

	case lower == "tomorrow":
		return asOf.AddDate(0, 0, 1).Format("2006-01-02")

	case strings.HasPrefix(lower, "next "):
		target, ok := weekdays[strings.TrimPrefix(lower, "next ")]
		if !ok {
			return date
		}

		// Strictly after today: the same weekday rolls a full week.
		daysAhead := (int(target) - int(asOf.Weekday()) + 7) % 7
		if daysAhead == 0 {
			daysAhead = 7
		}

		return asOf.AddDate(0, 0, daysAhead).Format("2006-01-02")

	default:
		return date
	}
}
