package sim

import (
	"testing"
	"time"
)

func TestDate_String(t *testing.T) {
	tests := []struct {
		name string
		date Date
		want string
	}{
		{"epidemic start", NewDate(2020, time.February, 27), "2020-02-27"},
		{"unix epoch", NewDate(1970, time.January, 1), "1970-01-01"},
		{"before epoch", NewDate(1969, time.December, 31), "1969-12-31"},
		{"leap day", NewDate(2020, time.February, 29), "2020-02-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDate_AddDays(t *testing.T) {
	d := NewDate(2020, time.February, 27)

	if got := d.AddDays(3); got != NewDate(2020, time.March, 1) {
		t.Errorf("AddDays(3) = %s, want 2020-03-01", got)
	}
	if got := d.AddDays(-27); got != NewDate(2020, time.January, 31) {
		t.Errorf("AddDays(-27) = %s, want 2020-01-31", got)
	}
	if got := d.AddDays(0); got != d {
		t.Errorf("AddDays(0) = %s, want %s", got, d)
	}
}

func TestDate_DaysSince(t *testing.T) {
	a := NewDate(2020, time.February, 27)
	b := a.AddDays(10)

	if got := b.DaysSince(a); got != 10 {
		t.Errorf("DaysSince = %d, want 10", got)
	}
	if got := a.DaysSince(b); got != -10 {
		t.Errorf("DaysSince = %d, want -10", got)
	}
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2020, time.February, 27)
	b := a.AddDays(1)

	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Errorf("Before is not a strict order: a=%s b=%s", a, b)
	}
	if !b.After(a) || a.After(b) || a.After(a) {
		t.Errorf("After is not a strict order: a=%s b=%s", a, b)
	}
}

func TestDate_Weekday(t *testing.T) {
	// 2020-02-27 was a Thursday
	d := NewDate(2020, time.February, 27)
	if got := d.Weekday(); got != time.Thursday {
		t.Errorf("Weekday() = %s, want Thursday", got)
	}
	if got := d.AddDays(3).Weekday(); got != time.Sunday {
		t.Errorf("Weekday() = %s, want Sunday", got)
	}
}

func TestDate_UsableAsMapKey(t *testing.T) {
	m := map[Date]int{}
	d := NewDate(2020, time.March, 1)
	m[d] = 7
	if m[NewDate(2020, time.March, 1)] != 7 {
		t.Errorf("equal dates do not collide as map keys")
	}
}
