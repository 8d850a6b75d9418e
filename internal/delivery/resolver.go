package delivery

import (
	"errors"
	"time"

	"github.com/kamleshjangid/bakery-backend/pkg/enums"
)

var (
	// ErrNotDeliverable means the address has no enabled delivery weekday.
	ErrNotDeliverable = errors.New("address has no delivery days")
	// ErrOrderDateInPast means the requested delivery date is today or earlier.
	ErrOrderDateInPast = errors.New("order date is in the past")
	// ErrDayNotDeliverable means the requested date's weekday is not on the
	// address's calendar.
	ErrDayNotDeliverable = errors.New("address is not deliverable on that weekday")
)

// Cutoff is the fixed daily time after which next-day ordering opens.
type Cutoff struct {
	Hour   int
	Minute int
}

// DefaultCutoff is 12:30 local.
var DefaultCutoff = Cutoff{Hour: 12, Minute: 30}

// on returns the cutoff instant for the day of t.
func (c Cutoff) on(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

// CanOrderNextDay reports whether an order for tomorrow may be placed at the
// given instant: only strictly after the daily cutoff.
func CanOrderNextDay(now time.Time, cutoff Cutoff) bool {
	return now.After(cutoff.on(now))
}

// Midnight truncates a timestamp to its calendar date.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextDeliveryDate resolves the next date an order may be scheduled for,
// given the address's enabled weekdays and the current time.
//
// The walk starts at tomorrow and wraps through a full week. Tomorrow itself
// only qualifies once the daily cutoff has passed; before the cutoff the
// resolver advances to the following enabled weekday, falling back to
// tomorrow's weekday next week when it is the only enabled day.
func NextDeliveryDate(enabled [enums.DaysPerWeek]bool, now time.Time, cutoff Cutoff) (time.Time, error) {
	anyEnabled := false
	for _, on := range enabled {
		if on {
			anyEnabled = true
			break
		}
	}
	if !anyEnabled {
		return time.Time{}, ErrNotDeliverable
	}

	today := Midnight(now)
	todayIdx := enums.WeekdayOf(now)

	first := 0
	for offset := 1; offset <= enums.DaysPerWeek; offset++ {
		idx := (int(todayIdx) + offset) % enums.DaysPerWeek
		if enabled[idx] {
			first = offset
			break
		}
	}

	if first != 1 || CanOrderNextDay(now, cutoff) {
		return today.AddDate(0, 0, first), nil
	}

	// tomorrow is enabled but the cutoff has not passed yet
	for offset := 2; offset <= enums.DaysPerWeek; offset++ {
		idx := (int(todayIdx) + offset) % enums.DaysPerWeek
		if enabled[idx] {
			return today.AddDate(0, 0, offset), nil
		}
	}
	// tomorrow's weekday is the only enabled day; take it next week
	return today.AddDate(0, 0, 1+enums.DaysPerWeek), nil
}

// ValidateOrderDate rejects delivery dates that are today or earlier and
// dates whose weekday is not on the address's calendar.
func ValidateOrderDate(date time.Time, now time.Time, enabled [enums.DaysPerWeek]bool) error {
	if !Midnight(date).After(Midnight(now)) {
		return ErrOrderDateInPast
	}
	if !enabled[enums.WeekdayOf(date)] {
		return ErrDayNotDeliverable
	}
	return nil
}
