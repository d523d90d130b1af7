package service

import (
	"time"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

// HolidaySet holds dates excluded from lesson generation, keyed by YYYY-MM-DD.
type HolidaySet map[string]struct{}

// NewHolidaySet indexes holiday rows by their calendar date.
func NewHolidaySet(holidays []models.Holiday) HolidaySet {
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date.Format(models.DateLayout)] = struct{}{}
	}
	return set
}

// Contains reports whether the calendar date of t is a holiday.
func (h HolidaySet) Contains(t time.Time) bool {
	if len(h) == 0 {
		return false
	}
	_, ok := h[t.Format(models.DateLayout)]
	return ok
}

// NativeWeekday converts the 2=Monday … 8=Sunday encoding to time.Weekday.
func NativeWeekday(weekday int) (time.Weekday, bool) {
	if weekday < models.WeekdayMonday || weekday > models.WeekdaySunday {
		return 0, false
	}
	if weekday == models.WeekdaySunday {
		return time.Sunday, true
	}
	return time.Weekday(weekday - 1), true
}

// ExpandWeekday lists, in ascending order, every date in [start, end] falling on weekday
// that is not a holiday. Holidays are skipped, never shifted. An inverted range or an
// out-of-range weekday yields no dates. Dates are midnights in start's location.
func ExpandWeekday(weekday int, start, end time.Time, holidays HolidaySet) []time.Time {
	target, ok := NativeWeekday(weekday)
	if !ok {
		return nil
	}
	first := startOfDay(start, start.Location())
	last := startOfDay(end, start.Location())
	if first.After(last) {
		return nil
	}

	offset := (int(target) - int(first.Weekday()) + 7) % 7
	var dates []time.Time
	for d := first.AddDate(0, 0, offset); !d.After(last); d = d.AddDate(0, 0, 7) {
		if holidays.Contains(d) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
