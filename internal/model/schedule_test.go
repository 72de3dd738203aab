package model

import (
	"errors"
	"testing"
)

func validSchedule() *DeliverySchedule {
	return &DeliverySchedule{
		UserID:     "u1",
		Enabled:    true,
		LocalTime:  LocalTime{Hour: 8},
		Timezone:   "America/New_York",
		Frequency:  FrequencyDaily,
		Recipients: []string{"reader@example.com"},
	}
}

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DeliverySchedule)
		wantErr string // offending field, "" for valid
	}{
		{"valid", func(s *DeliverySchedule) {}, ""},
		{"missing user", func(s *DeliverySchedule) { s.UserID = "" }, "user_id"},
		{"bogus timezone", func(s *DeliverySchedule) { s.Timezone = "Not/AZone" }, "timezone"},
		{"empty timezone", func(s *DeliverySchedule) { s.Timezone = "" }, "timezone"},
		{"custom frequency reserved", func(s *DeliverySchedule) { s.Frequency = FrequencyCustom }, "frequency"},
		{"unknown frequency", func(s *DeliverySchedule) { s.Frequency = "fortnightly" }, "frequency"},
		{"enabled without recipients", func(s *DeliverySchedule) { s.Recipients = nil }, "recipients"},
		{"disabled without recipients ok", func(s *DeliverySchedule) {
			s.Enabled = false
			s.Recipients = nil
		}, ""},
		{"hour out of range", func(s *DeliverySchedule) { s.LocalTime = LocalTime{Hour: 24} }, "local_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchedule()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantErr {
				t.Fatalf("expected field %q, got %q", tt.wantErr, verr.Field)
			}
		})
	}
}

func TestParseLocalTime(t *testing.T) {
	tests := []struct {
		in      string
		want    LocalTime
		wantErr bool
	}{
		{"08:00:00", LocalTime{8, 0, 0}, false},
		{"23:59:59", LocalTime{23, 59, 59}, false},
		{"7:30:00", LocalTime{7, 30, 0}, false},
		{"24:00:00", LocalTime{}, true},
		{"nonsense", LocalTime{}, true},
	}

	for _, tt := range tests {
		got, err := ParseLocalTime(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: want %v, got %v", tt.in, tt.want, got)
		}
	}
}
