package bell

import "github.com/AhmedHSaeed/Auto-Bell/controller/clock"

// NextBell computes the upcoming bell for display. The table is scanned in
// stored order and the first eligible slot wins, so an out-of-order table
// yields a non-chronological announcement; that matches the trigger scan.
// Eligible means strictly later than now, or equal to now and not yet
// triggered. When every slot has passed or fired, slot 0 stands in as
// tomorrow's first bell. Returns false on weekend days and empty tables.
func NextBell(t *Table, triggered []bool, now clock.Reading, weekendDay int) (Alarm, bool) {
	if t.Count() == 0 || IsWeekend(now.Weekday, weekendDay) {
		return Alarm{}, false
	}
	for i := 0; i < t.Count(); i++ {
		a := t.ReadAlarm(i)
		if a.Hour > now.Hour || (a.Hour == now.Hour && a.Minute > now.Minute) {
			return a, true
		}
		if a.Hour == now.Hour && a.Minute == now.Minute && !triggered[i] {
			return a, true
		}
	}
	return t.ReadAlarm(0), true
}
