package format

import "time"

// RelativeDateTime renders a timestamp the way the transaction rows do:
// "Hoy, HH:MM" on the same calendar day as now, "Ayer, HH:MM" exactly one
// calendar day earlier, full date+time otherwise. Deterministic for a given
// (ts, now) pair.
func RelativeDateTime(ts, now time.Time) string {
	loc := now.Location()
	t := ts.In(loc)
	day := dateOnly(t)
	today := dateOnly(now)

	switch {
	case day.Equal(today):
		return "Hoy, " + t.Format("15:04")
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Ayer, " + t.Format("15:04")
	default:
		return t.Format("02/01/2006, 15:04")
	}
}

// ShortDate renders just the calendar date, for headers and receipts.
func ShortDate(ts, now time.Time) string {
	return ts.In(now.Location()).Format("02/01/2006")
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
