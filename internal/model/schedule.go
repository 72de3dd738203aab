package model

import (
	"fmt"
	"time"
)

// Frequency governs which calendar days a schedule may fire on.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekdays Frequency = "weekdays" // Monday-Friday
	FrequencyWeekly   Frequency = "weekly"   // once per week
	FrequencyCustom   Frequency = "custom"   // reserved, not accepted yet
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekdays, FrequencyWeekly:
		return true
	}
	return false
}

// LocalTime is a wall-clock time of day, interpreted in the schedule's zone.
type LocalTime struct {
	Hour   int
	Minute int
	Second int
}

// ParseLocalTime parses "15:04:05" (seconds optional).
func ParseLocalTime(s string) (LocalTime, error) {
	var lt LocalTime
	n, err := fmt.Sscanf(s, "%d:%d:%d", &lt.Hour, &lt.Minute, &lt.Second)
	if err != nil && n < 2 {
		return LocalTime{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if !lt.valid() {
		return LocalTime{}, fmt.Errorf("time %q out of range", s)
	}
	return lt, nil
}

func (t LocalTime) valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 &&
		t.Minute >= 0 && t.Minute <= 59 &&
		t.Second >= 0 && t.Second <= 59
}

func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// LocalTime travels as "15:04:05" over the API, matching the column format.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid time %s", s)
	}
	lt, err := ParseLocalTime(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*t = lt
	return nil
}

// ValidationError reports a schedule that violates an invariant. It is
// raised before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid schedule: %s: %s", e.Field, e.Message)
}

// DeliverySchedule is one user's stored delivery preference.
type DeliverySchedule struct {
	UserID     string     `json:"user_id"`
	Enabled    bool       `json:"enabled"`
	LocalTime  LocalTime  `json:"local_time"`
	Timezone   string     `json:"timezone"` // IANA zone name, always resolvable once stored
	Frequency  Frequency  `json:"frequency"`
	Recipients []string   `json:"recipients"`
	LastSentAt *time.Time `json:"last_sent_at,omitempty"` // UTC, nil means never sent
}

// Validate enforces the write-time invariants. An invalid timezone is a
// config error and is rejected here, never silently defaulted.
func (s *DeliverySchedule) Validate() error {
	if s.UserID == "" {
		return &ValidationError{Field: "user_id", Message: "must not be empty"}
	}
	if !s.LocalTime.valid() {
		return &ValidationError{Field: "local_time", Message: "out of range"}
	}
	if s.Timezone == "" {
		return &ValidationError{Field: "timezone", Message: "must not be empty"}
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return &ValidationError{Field: "timezone", Message: fmt.Sprintf("unknown zone %q", s.Timezone)}
	}
	if !s.Frequency.Valid() {
		return &ValidationError{Field: "frequency", Message: fmt.Sprintf("unsupported frequency %q", s.Frequency)}
	}
	if s.Enabled && len(s.Recipients) == 0 {
		return &ValidationError{Field: "recipients", Message: "must not be empty while enabled"}
	}
	return nil
}

// Location resolves the schedule's zone. Stored schedules always resolve;
// an error here means the record predates validation and is a config error.
func (s *DeliverySchedule) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unresolvable timezone %q for user %s: %w", s.Timezone, s.UserID, err)
	}
	return loc, nil
}
