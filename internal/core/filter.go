package core

import (
	"strings"
	"time"
)

const (
	RangeAll   DateRange = ""
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
)

type (
	// DateRange restricts movements to a calendar-day window relative to now.
	DateRange string

	// Criteria is the ephemeral filter state a view rebuilds on every user
	// interaction. The zero value matches everything.
	Criteria struct {
		Search    string    // case-insensitive substring on description
		TypeLabel string    // exact match on the raw backend label
		Range     DateRange // calendar-day window
	}
)

func (r DateRange) IsValid() bool {
	switch r {
	case RangeAll, RangeToday, RangeWeek, RangeMonth:
		return true
	default:
		return false
	}
}

func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Search) == "" && c.TypeLabel == "" && c.Range == RangeAll
}

// Filter derives the subset of movements matching the criteria. The filter is
// stable (surviving elements keep their relative order) and idempotent. All
// date comparisons truncate both sides to calendar days in now's location; the
// month window uses calendar-month subtraction, not a fixed 30x24h span.
func Filter(movements []Movement, c Criteria, now time.Time) []Movement {
	term := strings.ToLower(strings.TrimSpace(c.Search))
	today := dayOf(now, now.Location())

	out := make([]Movement, 0, len(movements))
	for _, m := range movements {
		if term != "" && !strings.Contains(strings.ToLower(m.Description), term) {
			continue
		}
		if c.TypeLabel != "" && m.TypeLabel != c.TypeLabel {
			continue
		}
		if !inRange(m.Timestamp, c.Range, today, now.Location()) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func inRange(ts time.Time, r DateRange, today time.Time, loc *time.Location) bool {
	if r == RangeAll {
		return true
	}
	day := dayOf(ts, loc)
	switch r {
	case RangeToday:
		return day.Equal(today)
	case RangeWeek:
		return !day.Before(today.AddDate(0, 0, -7)) && !day.After(today)
	case RangeMonth:
		return !day.Before(today.AddDate(0, -1, 0)) && !day.After(today)
	default:
		return true
	}
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
