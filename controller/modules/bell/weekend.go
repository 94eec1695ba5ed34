package bell

import "github.com/AhmedHSaeed/Auto-Bell/controller/clock"

// WeekendFriSat is the selector value meaning Friday and Saturday are both
// weekend days. Every other selector 1..7 names exactly that single day.
const WeekendFriSat = 6

// IsWeekend reports whether day (1=Sunday..7=Saturday) is suppressed by the
// given weekend selector. This one predicate gates both alarm triggering and
// the next-bell search.
func IsWeekend(day, selector int) bool {
	if selector == WeekendFriSat {
		return day == clock.Friday || day == clock.Saturday
	}
	return day == selector
}
