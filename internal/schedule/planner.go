// Package schedule holds the pure delivery-planning computations: given a
// stored schedule and "now", decide what the next fire instant is and
// whether the user is due in the current polling cycle. No I/O happens here.
package schedule

import (
	"time"

	"creatorpulse/internal/model"
)

// DefaultWindow is the tolerance within which "now" counts as due. The
// runner is triggered hourly, so anything tighter would miss fires.
const DefaultWindow = time.Hour

const weeklyGap = 7 * 24 * time.Hour

// NextFireUTC computes the next UTC instant a schedule should fire.
//
// The candidate is "today at the configured wall-clock time" in the user's
// zone; if that is already past, it moves one local day forward. Day
// arithmetic is done in the zone, so the wall-clock time-of-day is preserved
// across DST transitions rather than the UTC offset. A local time falling
// inside a spring-forward gap resolves to the zone library's forward shift.
func NextFireUTC(lt model.LocalTime, loc *time.Location, freq model.Frequency, nowUTC time.Time) time.Time {
	nowLocal := nowUTC.In(loc)

	candidate := time.Date(
		nowLocal.Year(), nowLocal.Month(), nowLocal.Day(),
		lt.Hour, lt.Minute, lt.Second, 0, loc,
	)

	// Already past today's slot: move to tomorrow, local calendar.
	if !candidate.After(nowLocal) {
		candidate = candidate.AddDate(0, 0, 1)
	}

	if freq == model.FrequencyWeekdays {
		for candidate.Weekday() == time.Saturday || candidate.Weekday() == time.Sunday {
			candidate = candidate.AddDate(0, 0, 1)
		}
	}

	// Weekly schedules take the daily-style candidate as-is; spacing is
	// enforced by the seven-day gate in ShouldSendToday, and the fire
	// weekday is allowed to drift with missed runs.

	return candidate.UTC()
}

// ShouldSendToday is the coarse calendar gate, evaluated before the finer
// window check. nowLocal must already be in the user's zone.
func ShouldSendToday(freq model.Frequency, lastSent *time.Time, nowLocal time.Time) bool {
	switch freq {
	case model.FrequencyDaily:
		return true
	case model.FrequencyWeekdays:
		wd := nowLocal.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case model.FrequencyWeekly:
		if lastSent == nil {
			return true
		}
		return nowLocal.Sub(*lastSent) >= weeklyGap
	}
	return false
}

// IsDue reports whether the schedule should fire in the current check cycle.
// The window is symmetric around the computed fire instant, so a poll that
// runs slightly before or slightly after the target still counts.
//
// An unresolvable timezone on a stored schedule is a configuration error,
// not a reason to fall back to UTC.
func IsDue(s *model.DeliverySchedule, nowUTC time.Time, window time.Duration) (bool, error) {
	if !s.Enabled {
		return false, nil
	}
	if window <= 0 {
		window = DefaultWindow
	}

	loc, err := s.Location()
	if err != nil {
		return false, err
	}
	nowLocal := nowUTC.In(loc)

	if s.Frequency == model.FrequencyWeekly && s.LastSentAt != nil {
		if nowUTC.Sub(*s.LastSentAt) < weeklyGap {
			return false, nil
		}
	}
	if s.Frequency == model.FrequencyWeekdays {
		wd := nowLocal.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return false, nil
		}
	}

	next := NextFireUTC(s.LocalTime, loc, s.Frequency, nowUTC)
	diff := next.Sub(nowUTC)
	if diff < 0 {
		diff = -diff
	}
	return diff < window, nil
}
