package schedule

import (
	"testing"
	"time"

	"creatorpulse/internal/model"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load zone %s: %v", name, err)
	}
	return loc
}

// localUTC builds a wall-clock time in the given zone and returns its UTC.
func localUTC(t *testing.T, zone string, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	return time.Date(y, m, d, hh, mm, 0, 0, mustLoc(t, zone)).UTC()
}

func TestNextFireUTC_Daily(t *testing.T) {
	ny := "America/New_York"
	lt := model.LocalTime{Hour: 8}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before todays slot fires today",
			now:  localUTC(t, ny, 2025, time.January, 15, 7, 30),
			want: localUTC(t, ny, 2025, time.January, 15, 8, 0),
		},
		{
			name: "after todays slot rolls to tomorrow",
			now:  localUTC(t, ny, 2025, time.January, 15, 20, 0),
			want: localUTC(t, ny, 2025, time.January, 16, 8, 0),
		},
		{
			name: "exactly at slot rolls to tomorrow",
			now:  localUTC(t, ny, 2025, time.January, 15, 8, 0),
			want: localUTC(t, ny, 2025, time.January, 16, 8, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextFireUTC(lt, mustLoc(t, ny), model.FrequencyDaily, tt.now)
			if !got.Equal(tt.want) {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNextFireUTC_PreservesLocalWallClock(t *testing.T) {
	// The fire instant must read as the configured time-of-day in the
	// user's zone, whatever the date and offset.
	zones := []string{"America/New_York", "Europe/Berlin", "Asia/Kolkata", "Pacific/Auckland", "UTC"}
	lt := model.LocalTime{Hour: 8, Minute: 15}

	for _, zone := range zones {
		loc := mustLoc(t, zone)
		now := time.Date(2025, time.June, 3, 11, 47, 0, 0, time.UTC)
		next := NextFireUTC(lt, loc, model.FrequencyDaily, now)

		nextLocal := next.In(loc)
		if nextLocal.Hour() != 8 || nextLocal.Minute() != 15 {
			t.Errorf("%s: local time-of-day not preserved: got %02d:%02d",
				zone, nextLocal.Hour(), nextLocal.Minute())
		}
		if !next.After(now.Add(-time.Second)) {
			t.Errorf("%s: next fire %v not after now %v", zone, next, now)
		}
	}
}

func TestNextFireUTC_DSTSpringForwardKeepsWallClock(t *testing.T) {
	// US DST starts 2025-03-09: clocks jump 02:00 EST -> 03:00 EDT. The
	// schedule must still fire at 08:00 on the wall clock, i.e. an hour
	// earlier in UTC than the day before.
	ny := "America/New_York"
	lt := model.LocalTime{Hour: 8}

	now := localUTC(t, ny, 2025, time.March, 8, 20, 0) // Saturday evening EST
	next := NextFireUTC(lt, mustLoc(t, ny), model.FrequencyDaily, now)

	want := localUTC(t, ny, 2025, time.March, 9, 8, 0) // Sunday 08:00 EDT = 12:00 UTC
	if !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}
	if next.UTC().Hour() != 12 {
		t.Fatalf("expected 12:00 UTC after spring forward, got %v", next.UTC())
	}
}

func TestNextFireUTC_WeekdaysSkipsWeekend(t *testing.T) {
	ny := "America/New_York"
	lt := model.LocalTime{Hour: 8}

	// Friday evening: the daily candidate lands on Saturday and must be
	// pushed to Monday 08:00 local.
	now := localUTC(t, ny, 2025, time.January, 17, 20, 0) // Friday
	next := NextFireUTC(lt, mustLoc(t, ny), model.FrequencyWeekdays, now)

	want := localUTC(t, ny, 2025, time.January, 20, 8, 0) // Monday
	if !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}
}

func TestNextFireUTC_WeekdaysNeverReturnsWeekend(t *testing.T) {
	loc := mustLoc(t, "Europe/London")
	lt := model.LocalTime{Hour: 9, Minute: 30}

	// Sweep across two weeks of "now" values.
	start := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 14*4; i++ {
		now := start.Add(time.Duration(i) * 6 * time.Hour)
		next := NextFireUTC(lt, loc, model.FrequencyWeekdays, now)
		wd := next.In(loc).Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("now=%v: next fire %v lands on %v", now, next, wd)
		}
	}
}

func TestShouldSendToday(t *testing.T) {
	monday := time.Date(2025, time.January, 13, 10, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, time.January, 18, 10, 0, 0, 0, time.UTC)
	threeDaysAgo := monday.AddDate(0, 0, -3)
	eightDaysAgo := monday.AddDate(0, 0, -8)

	tests := []struct {
		name     string
		freq     model.Frequency
		lastSent *time.Time
		now      time.Time
		want     bool
	}{
		{"daily always", model.FrequencyDaily, nil, saturday, true},
		{"weekdays on monday", model.FrequencyWeekdays, nil, monday, true},
		{"weekdays on saturday", model.FrequencyWeekdays, nil, saturday, false},
		{"weekly never sent", model.FrequencyWeekly, nil, monday, true},
		{"weekly sent 3 days ago", model.FrequencyWeekly, &threeDaysAgo, monday, false},
		{"weekly sent 8 days ago", model.FrequencyWeekly, &eightDaysAgo, monday, true},
		{"unknown frequency", model.Frequency("custom"), nil, monday, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldSendToday(tt.freq, tt.lastSent, tt.now)
			if got != tt.want {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsDue(t *testing.T) {
	ny := "America/New_York"
	base := &model.DeliverySchedule{
		UserID:     "u1",
		Enabled:    true,
		LocalTime:  model.LocalTime{Hour: 8},
		Timezone:   ny,
		Frequency:  model.FrequencyDaily,
		Recipients: []string{"a@example.com"},
	}

	t.Run("within window before slot", func(t *testing.T) {
		now := localUTC(t, ny, 2025, time.January, 15, 7, 30)
		due, err := IsDue(base, now, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		if !due {
			t.Fatal("expected due at 07:30 local for an 08:00 schedule")
		}
	})

	t.Run("far from slot", func(t *testing.T) {
		now := localUTC(t, ny, 2025, time.January, 15, 20, 0)
		due, err := IsDue(base, now, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		if due {
			t.Fatal("expected not due at 20:00 local for an 08:00 schedule")
		}
	})

	t.Run("disabled never due", func(t *testing.T) {
		s := *base
		s.Enabled = false
		now := localUTC(t, ny, 2025, time.January, 15, 7, 30)
		due, err := IsDue(&s, now, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		if due {
			t.Fatal("disabled schedule reported due")
		}
	})

	t.Run("weekly gated by last send", func(t *testing.T) {
		s := *base
		s.Frequency = model.FrequencyWeekly
		now := localUTC(t, ny, 2025, time.January, 15, 7, 30)
		last := now.AddDate(0, 0, -3)
		s.LastSentAt = &last

		due, err := IsDue(&s, now, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		if due {
			t.Fatal("weekly schedule due 3 days after last send")
		}
	})

	t.Run("weekly due again after pause", func(t *testing.T) {
		s := *base
		s.Frequency = model.FrequencyWeekly
		now := localUTC(t, ny, 2025, time.January, 15, 7, 30)
		last := now.AddDate(0, 0, -10)
		s.LastSentAt = &last

		due, err := IsDue(&s, now, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		if !due {
			t.Fatal("weekly schedule not due 10 days after last send")
		}
	})

	t.Run("weekdays weekend short-circuit", func(t *testing.T) {
		s := *base
		s.Frequency = model.FrequencyWeekdays
		now := localUTC(t, ny, 2025, time.January, 18, 7, 30) // Saturday
		due, err := IsDue(&s, now, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		if due {
			t.Fatal("weekdays schedule due on Saturday")
		}
	})

	t.Run("unresolvable zone is an error", func(t *testing.T) {
		s := *base
		s.Timezone = "Mars/Olympus_Mons"
		now := time.Now().UTC()
		if _, err := IsDue(&s, now, time.Hour); err == nil {
			t.Fatal("expected config error for bogus zone")
		}
	})
}
