package enums

import (
	"fmt"
	"time"
)

// Weekday is a Monday-start day index (Monday = 0 .. Sunday = 6). The fixed
// range lets weekly data live in [7]T arrays instead of ad hoc maps.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the length of every weekday-indexed array.
const DaysPerWeek = 7

var weekdayNames = [DaysPerWeek]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// String implements fmt.Stringer.
func (w Weekday) String() string {
	if !w.IsValid() {
		return fmt.Sprintf("weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// IsValid reports whether the value is inside Monday..Sunday.
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

// Number returns the display order used by delivery calendars (Mon=1..Sun=7).
func (w Weekday) Number() int {
	return int(w) + 1
}

// WeekdayOf converts a timestamp into the Monday-start index.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// ParseWeekday converts raw input ("mon".."sun") into a Weekday.
func ParseWeekday(value string) (Weekday, error) {
	for i, name := range weekdayNames {
		if name == value {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", value)
}

// Weekdays iterates Monday..Sunday in display order.
func Weekdays() [DaysPerWeek]Weekday {
	return [DaysPerWeek]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}
