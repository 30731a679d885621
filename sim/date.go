package sim

import "time"

// Date is the calendar unit of simulation time: a day-granularity timestamp
// with a total order and whole-day arithmetic. It is comparable and is used
// as the key of the simulation's event calendar.
type Date struct {
	days int // days since the Unix epoch
}

// NewDate creates a Date for the given civil calendar day.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	secs := t.Unix()
	d := secs / 86400
	if secs < 0 && secs%86400 != 0 {
		d--
	}
	return Date{days: int(d)}
}

// AddDays returns the date n whole days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{days: d.days + n}
}

// DaysSince returns the signed number of days from o to d.
func (d Date) DaysSince(o Date) int {
	return d.days - o.days
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.days < o.days }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.days > o.days }

// Time converts d to the UTC midnight time.Time of that day.
func (d Date) Time() time.Time {
	return time.Unix(int64(d.days)*86400, 0).UTC()
}

// Weekday returns the day of week of d.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}
