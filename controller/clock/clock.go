// Package clock provides wall-clock time to the scheduling engine. The
// authoritative source on real hardware is a battery-backed DS3231 RTC; in
// dev mode the host clock is used instead.
package clock

import (
	"fmt"
	"time"
)

// Weekday numbering follows the RTC convention: 1=Sunday .. 7=Saturday.
const (
	Sunday = 1 + iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// Reading is one snapshot of the clock. Valid is false when the oscillator
// has stopped since the time was last set, meaning the values cannot be
// trusted.
type Reading struct {
	Year    int
	Month   int
	Day     int
	Hour    int
	Minute  int
	Second  int
	Weekday int // 1=Sunday .. 7=Saturday
	Valid   bool
}

func (r Reading) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", r.Year, r.Month, r.Day, r.Hour, r.Minute, r.Second)
}

// Time converts the reading to a time.Time in the local zone.
func (r Reading) Time() time.Time {
	return time.Date(r.Year, time.Month(r.Month), r.Day, r.Hour, r.Minute, r.Second, 0, time.Local)
}

// FromTime builds a valid Reading from a time.Time.
func FromTime(t time.Time) Reading {
	return Reading{
		Year:    t.Year(),
		Month:   int(t.Month()),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
		Weekday: int(t.Weekday()) + 1,
		Valid:   true,
	}
}

// Clock is the time source contract. Now returns an error on bus failures;
// a Reading with Valid=false means the hardware responded but its time is
// not trustworthy. Set recomputes the weekday from the date.
type Clock interface {
	Now() (Reading, error)
	Set(Reading) error
}

// SystemClock serves host time. Used in dev mode where no RTC is attached.
type SystemClock struct{}

func (SystemClock) Now() (Reading, error) { return FromTime(time.Now()), nil }

func (SystemClock) Set(Reading) error { return nil }

// Mock is a scriptable clock for tests.
type Mock struct {
	Reading Reading
	Err     error
	SetLog  []Reading
}

func (m *Mock) Now() (Reading, error) { return m.Reading, m.Err }

func (m *Mock) Set(r Reading) error {
	t := time.Date(r.Year, time.Month(r.Month), r.Day, r.Hour, r.Minute, r.Second, 0, time.Local)
	m.Reading = FromTime(t)
	m.SetLog = append(m.SetLog, m.Reading)
	return nil
}
