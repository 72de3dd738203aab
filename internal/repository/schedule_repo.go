package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"creatorpulse/internal/model"
)

// ErrScheduleNotFound is returned when no schedule row exists for a user.
var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepository persists per-user delivery schedules. One row per user;
// rows are never deleted here, only disabled.
type ScheduleRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewScheduleRepository(db *pgxpool.Pool, logger *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		db:     db,
		logger: logger,
	}
}

const scheduleColumns = `user_id, enabled, local_time::text, timezone, frequency, recipients, last_sent_at`

// ListEnabled returns all schedules with enabled = true.
func (r *ScheduleRepository) ListEnabled(ctx context.Context) ([]*model.DeliverySchedule, error) {
	query := `
        SELECT ` + scheduleColumns + `
        FROM delivery_schedules
        WHERE enabled = TRUE
        ORDER BY user_id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list enabled schedules", zap.Error(err))
		return nil, fmt.Errorf("list enabled schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*model.DeliverySchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// Get returns the schedule for a user, or ErrScheduleNotFound.
func (r *ScheduleRepository) Get(ctx context.Context, userID string) (*model.DeliverySchedule, error) {
	query := `
        SELECT ` + scheduleColumns + `
        FROM delivery_schedules
        WHERE user_id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	s, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return s, nil
}

// Upsert validates and writes a schedule. Invariant violations surface as
// *model.ValidationError and never reach the database.
func (r *ScheduleRepository) Upsert(ctx context.Context, s *model.DeliverySchedule) error {
	if err := s.Validate(); err != nil {
		return err
	}

	query := `
        INSERT INTO delivery_schedules (user_id, enabled, local_time, timezone, frequency, recipients)
        VALUES ($1, $2, $3::time, $4, $5, $6)
        ON CONFLICT (user_id) DO UPDATE SET
            enabled = EXCLUDED.enabled,
            local_time = EXCLUDED.local_time,
            timezone = EXCLUDED.timezone,
            frequency = EXCLUDED.frequency,
            recipients = EXCLUDED.recipients,
            updated_at = NOW()
    `
	_, err := r.db.Exec(ctx, query,
		s.UserID, s.Enabled, s.LocalTime.String(), s.Timezone, string(s.Frequency), s.Recipients,
	)
	if err != nil {
		r.logger.Error("Failed to upsert schedule",
			zap.String("user_id", s.UserID),
			zap.Error(err),
		)
		return fmt.Errorf("upsert schedule: %w", err)
	}

	r.logger.Info("Schedule saved",
		zap.String("user_id", s.UserID),
		zap.Bool("enabled", s.Enabled),
		zap.String("frequency", string(s.Frequency)),
		zap.String("timezone", s.Timezone),
	)
	return nil
}

// Disable flips enabled to false without touching the rest of the record.
func (r *ScheduleRepository) Disable(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE delivery_schedules SET enabled = FALSE, updated_at = NOW() WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("disable schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}

	r.logger.Info("Schedule disabled", zap.String("user_id", userID))
	return nil
}

// RecordSent sets last_sent_at after a confirmed transport success.
// GREATEST keeps the column monotonically non-decreasing and makes the call
// idempotent for a repeated timestamp.
func (r *ScheduleRepository) RecordSent(ctx context.Context, userID string, at time.Time) error {
	query := `
        UPDATE delivery_schedules
        SET last_sent_at = GREATEST(COALESCE(last_sent_at, 'epoch'::timestamptz), $2),
            updated_at = NOW()
        WHERE user_id = $1
    `
	_, err := r.db.Exec(ctx, query, userID, at.UTC())
	if err != nil {
		r.logger.Error("Failed to record send",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("record sent: %w", err)
	}
	return nil
}

func scanSchedule(row pgx.Row) (*model.DeliverySchedule, error) {
	var (
		s        model.DeliverySchedule
		timeStr  string
		freqStr  string
		lastSent *time.Time
	)
	err := row.Scan(&s.UserID, &s.Enabled, &timeStr, &s.Timezone, &freqStr, &s.Recipients, &lastSent)
	if err != nil {
		return nil, err
	}

	lt, err := model.ParseLocalTime(timeStr)
	if err != nil {
		return nil, fmt.Errorf("schedule for %s has bad local_time: %w", s.UserID, err)
	}
	s.LocalTime = lt
	s.Frequency = model.Frequency(freqStr)
	if lastSent != nil {
		utc := lastSent.UTC()
		s.LastSentAt = &utc
	}
	return &s, nil
}
