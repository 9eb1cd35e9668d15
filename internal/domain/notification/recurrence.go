package notification

import "time"

// Recurrence governs whether and how a fired notification is rescheduled.
type Recurrence string

const (
	Once    Recurrence = "once"
	Daily   Recurrence = "daily"
	Weekly  Recurrence = "weekly"
	Monthly Recurrence = "monthly"
	Yearly  Recurrence = "yearly"
)

// Advance computes the next occurrence after a fired one. The second return
// value is false for one-shot notifications, which are retired instead of
// rescheduled.
func (r Recurrence) Advance(t time.Time) (time.Time, bool) {
	switch r {
	case Daily:
		return t.AddDate(0, 0, 1), true
	case Weekly:
		return t.AddDate(0, 0, 7), true
	case Monthly:
		return addMonths(t, 1), true
	case Yearly:
		return addMonths(t, 12), true
	}
	return time.Time{}, false
}

// addMonths shifts t by n calendar months, clamping the day of month so that
// Jan 31 + 1 month lands on the last day of February instead of rolling over
// into March. time.AddDate normalizes overflow instead of clamping, so it
// cannot be used here.
func addMonths(t time.Time, n int) time.Time {
	months := int(t.Month()) - 1 + n
	year := t.Year() + months/12
	month := time.Month(months%12 + 1)

	day := t.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month. Day zero of the
// following month normalizes back to its last day.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
